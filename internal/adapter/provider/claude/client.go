// Package claude annotates French texts with Anthropic's Messages API.
package claude

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/heartmarshall/frenchreader-backend/internal/config"
	"github.com/heartmarshall/frenchreader-backend/internal/domain"
	"github.com/heartmarshall/frenchreader-backend/internal/provider"
)

const (
	name         = "anthropic"
	defaultModel = "claude-sonnet-4-5"

	selectionMaxTokens = 1024
)

// Client sends annotation prompts to Claude.
type Client struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	glossLang string
	log       *slog.Logger
}

// New creates a Client from the LLM configuration. cfg.BaseURL overrides the
// API endpoint (used by tests).
func New(cfg config.LLMConfig, logger *slog.Logger) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	return &Client{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: cfg.MaxTokens,
		glossLang: cfg.GlossLanguage,
		log:       logger.With("adapter", name),
	}
}

// Name identifies the provider in cache keys and metrics.
func (c *Client) Name() string { return name }

// Model returns the model the client calls.
func (c *Client) Model() string { return c.model }

// GenerateAnnotations returns the raw annotation JSON for text.
func (c *Client) GenerateAnnotations(ctx context.Context, text string, level domain.CEFRLevel) ([]byte, error) {
	return c.complete(ctx, provider.AnalysisPrompt(text, level, c.glossLang), c.maxTokens)
}

// AnalyzeSelection returns the raw JSON describing a single selected word or phrase.
func (c *Client) AnalyzeSelection(ctx context.Context, selected, context string) ([]byte, error) {
	return c.complete(ctx, provider.SelectionPrompt(selected, context, c.glossLang), min(c.maxTokens, selectionMaxTokens))
}

func (c *Client) complete(ctx context.Context, prompt string, maxTokens int64) ([]byte, error) {
	start := time.Now()

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			c.log.WarnContext(ctx, "anthropic api error", slog.Int("status", apiErr.StatusCode))
			return nil, provider.StatusError(name, apiErr.StatusCode, err)
		}
		return nil, provider.TransportError(name, err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, provider.MalformedError(name, errors.New("empty response"))
	}

	raw, err := provider.ExtractJSON(text.String())
	if err != nil {
		return nil, provider.MalformedError(name, fmt.Errorf("stop reason %q: %w", msg.StopReason, err))
	}

	c.log.DebugContext(ctx, "anthropic response",
		slog.String("model", c.model),
		slog.Int64("output_tokens", msg.Usage.OutputTokens),
		slog.Duration("took", time.Since(start)),
	)
	return raw, nil
}
