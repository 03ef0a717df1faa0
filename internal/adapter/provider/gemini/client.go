// Package gemini annotates French texts with Google's Generative Language
// REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/heartmarshall/frenchreader-backend/internal/config"
	"github.com/heartmarshall/frenchreader-backend/internal/domain"
	"github.com/heartmarshall/frenchreader-backend/internal/provider"
)

const (
	name             = "gemini"
	defaultBaseURL   = "https://generativelanguage.googleapis.com"
	defaultModel     = "gemini-1.5-flash"
	defaultRetryWait = 500 * time.Millisecond
)

var errServerStatus = errors.New("server error")

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string `json:"response_mime_type,omitempty"`
	MaxOutputTokens  int64  `json:"maxOutputTokens,omitempty"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

// Client calls the generateContent endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int64
	retries    int
	glossLang  string
	retryWait  time.Duration
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client from the LLM configuration.
func NewClient(cfg config.LLMConfig, logger *slog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      model,
		maxTokens:  cfg.MaxTokens,
		retries:    cfg.MaxRetries,
		glossLang:  cfg.GlossLanguage,
		retryWait:  defaultRetryWait,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", name),
	}
}

// Name identifies the provider in cache keys and metrics.
func (c *Client) Name() string { return name }

// Model returns the model the client calls.
func (c *Client) Model() string { return c.model }

// GenerateAnnotations returns the raw annotation JSON for text.
func (c *Client) GenerateAnnotations(ctx context.Context, text string, level domain.CEFRLevel) ([]byte, error) {
	return c.generate(ctx, provider.AnalysisPrompt(text, level, c.glossLang))
}

// AnalyzeSelection returns the raw JSON describing a single selected word or phrase.
func (c *Client) AnalyzeSelection(ctx context.Context, selected, context string) ([]byte, error) {
	return c.generate(ctx, provider.SelectionPrompt(selected, context, c.glossLang))
}

func (c *Client) generate(ctx context.Context, prompt string) ([]byte, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			MaxOutputTokens:  c.maxTokens,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))

	c.log.DebugContext(ctx, "gemini request", slog.String("model", c.model), slog.Int("prompt_bytes", len(prompt)))

	status, respBody, err := c.post(ctx, endpoint, body)
	if err != nil {
		return nil, provider.TransportError(name, err)
	}

	if status != http.StatusOK {
		c.log.WarnContext(ctx, "gemini api error", slog.Int("status", status))
		return nil, provider.StatusError(name, status, errors.New(snippet(respBody)))
	}

	var decoded generateResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, provider.MalformedError(name, fmt.Errorf("decode envelope: %w", err))
	}
	if len(decoded.Candidates) == 0 {
		return nil, provider.MalformedError(name, errors.New("no candidates"))
	}

	var text strings.Builder
	for _, p := range decoded.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	if text.Len() == 0 {
		return nil, provider.MalformedError(name, fmt.Errorf("empty candidate (finish reason %q)", decoded.Candidates[0].FinishReason))
	}

	raw, err := provider.ExtractJSON(text.String())
	if err != nil {
		return nil, provider.MalformedError(name, err)
	}

	c.log.DebugContext(ctx, "gemini response", slog.Int("status", status), slog.Int("json_bytes", len(raw)))
	return raw, nil
}

// post sends body with the API key in a header, retrying network failures
// and 5xx replies with exponential backoff. The final status and body are
// returned even when the last attempt was a 5xx.
func (c *Client) post(ctx context.Context, endpoint string, body []byte) (int, []byte, error) {
	var (
		status  int
		payload []byte
	)

	attempt := func() error {
		status, payload = 0, nil

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		payload, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		status = resp.StatusCode
		if status >= http.StatusInternalServerError {
			return fmt.Errorf("%w: status %d", errServerStatus, status)
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		c.log.WarnContext(ctx, "gemini retry", slog.String("reason", err.Error()), slog.Duration("wait", wait))
	}

	err := backoff.RetryNotify(attempt, c.retryPolicy(ctx), notify)
	if err != nil && !errors.Is(err, errServerStatus) {
		return 0, nil, err
	}
	return status, payload, nil
}

func (c *Client) retryPolicy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryWait
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(max(c.retries, 0))), ctx)
}

func snippet(b []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(b))
	if len(s) > limit {
		s = s[:limit]
	}
	if s == "" {
		return "empty body"
	}
	return s
}
