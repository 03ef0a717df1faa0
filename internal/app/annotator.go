package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/frenchreader-backend/internal/adapter/provider/claude"
	"github.com/heartmarshall/frenchreader-backend/internal/adapter/provider/gemini"
	"github.com/heartmarshall/frenchreader-backend/internal/adapter/provider/stub"
	"github.com/heartmarshall/frenchreader-backend/internal/config"
	"github.com/heartmarshall/frenchreader-backend/internal/domain"
)

// Annotator is the model client the analysis service calls.
type Annotator interface {
	Name() string
	Model() string
	GenerateAnnotations(ctx context.Context, text string, level domain.CEFRLevel) ([]byte, error)
	AnalyzeSelection(ctx context.Context, selected, context string) ([]byte, error)
}

// NewAnnotator builds the client for the configured provider. Without an API
// key the offline stub is used.
func NewAnnotator(cfg config.LLMConfig, logger *slog.Logger) (Annotator, error) {
	switch p := cfg.EffectiveProvider(); p {
	case config.ProviderAnthropic:
		return claude.New(cfg, logger), nil
	case config.ProviderGemini:
		return gemini.NewClient(cfg, logger), nil
	case config.ProviderStub:
		if cfg.Provider != config.ProviderStub {
			logger.Warn("no model API key configured, using canned annotations",
				slog.String("provider", cfg.Provider))
		}
		return stub.NewStub(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", p)
	}
}
