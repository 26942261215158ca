package inference

import (
	"context"
	"encoding/base64"
	"log/slog"
	"time"

	"github.com/khaledhikmat/vs-analyzer/service/config"
	"github.com/khaledhikmat/vs-analyzer/service/lgr"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/xerrors"
)

type openaiService struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAI talks to any OpenAI-compatible chat completions endpoint.
func NewOpenAI(cfgSvc config.IService) (IService, error) {
	params := cfgSvc.GetOracleParameters()
	if params.APIKey == "" {
		return nil, xerrors.New("openai oracle requires an API key")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(params.APIKey),
	}
	if params.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(params.BaseURL))
	}

	lgr.Logger.Info("openai oracle ready",
		slog.String("model", params.Model),
		slog.String("baseURL", params.BaseURL),
	)

	return &openaiService{
		client:  openai.NewClient(opts...),
		model:   params.Model,
		timeout: params.Timeout,
	}, nil
}

func (svc *openaiService) Name() string {
	return config.OpenAIProvider
}

func (svc *openaiService) Generate(ctx context.Context, req Request) (string, error) {
	if svc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, svc.timeout)
		defer cancel()
	}

	dataURL := "data:" + req.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(req.Image)

	message := openai.ChatCompletionMessageParamUnion{
		OfUser: &openai.ChatCompletionUserMessageParam{
			Content: openai.ChatCompletionUserMessageParamContentUnion{
				OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
					{
						OfText: &openai.ChatCompletionContentPartTextParam{
							Text: req.Prompt,
						},
					},
					{
						OfImageURL: &openai.ChatCompletionContentPartImageParam{
							ImageURL: openai.ChatCompletionContentPartImageImageURLParam{
								URL:    dataURL,
								Detail: "auto",
							},
						},
					},
				},
			},
		},
	}

	resp, err := svc.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    svc.model,
		Messages: []openai.ChatCompletionMessageParamUnion{message},
	})
	if err != nil {
		return "", xerrors.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", xerrors.New("openai returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
