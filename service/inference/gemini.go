package inference

import (
	"context"
	"log/slog"
	"time"

	"github.com/khaledhikmat/vs-analyzer/service/config"
	"github.com/khaledhikmat/vs-analyzer/service/lgr"
	"golang.org/x/xerrors"
	"google.golang.org/genai"
)

type geminiService struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGemini(ctx context.Context, cfgSvc config.IService) (IService, error) {
	params := cfgSvc.GetOracleParameters()
	if params.APIKey == "" {
		return nil, xerrors.New("gemini oracle requires an API key")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  params.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if params.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{
			BaseURL: params.BaseURL,
		}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, xerrors.Errorf("creating gemini client: %w", err)
	}

	lgr.Logger.Info("gemini oracle ready",
		slog.String("model", params.Model),
	)

	return &geminiService{
		client:  client,
		model:   params.Model,
		timeout: params.Timeout,
	}, nil
}

func (svc *geminiService) Name() string {
	return config.GeminiProvider
}

func (svc *geminiService) Generate(ctx context.Context, req Request) (string, error) {
	if svc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, svc.timeout)
		defer cancel()
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: req.Prompt},
				{
					InlineData: &genai.Blob{
						MIMEType: req.MIMEType,
						Data:     req.Image,
					},
				},
			},
		},
	}

	resp, err := svc.client.Models.GenerateContent(ctx, svc.model, contents, &genai.GenerateContentConfig{})
	if err != nil {
		return "", xerrors.Errorf("gemini generate content: %w", err)
	}
	if resp == nil {
		return "", xerrors.New("gemini returned no response")
	}

	return resp.Text(), nil
}
