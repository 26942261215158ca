package inference

import (
	"context"
	"strings"

	"github.com/khaledhikmat/vs-analyzer/service/config"
	"golang.org/x/xerrors"
)

// New builds the oracle selected by the configured provider.
func New(ctx context.Context, cfgSvc config.IService) (IService, error) {
	provider := strings.ToLower(cfgSvc.GetOracleParameters().Provider)
	switch provider {
	case config.GeminiProvider, "":
		return NewGemini(ctx, cfgSvc)
	case config.OpenAIProvider:
		return NewOpenAI(cfgSvc)
	case config.FakeProvider:
		return NewFake(), nil
	default:
		return nil, xerrors.Errorf("unknown oracle provider %q", provider)
	}
}
