package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be > 0 (got %d)", c.Server.MaxBodyBytes)
	}

	if err := c.LLM.validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if err := c.Analysis.validate(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerMin <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate_limit: requests_per_min and burst must be > 0")
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with / (got %q)", c.Metrics.Path)
	}
	if c.Redis.Enabled() && c.Redis.TTL <= 0 {
		return fmt.Errorf("redis.ttl must be > 0 (got %v)", c.Redis.TTL)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	return nil
}

func (l *LLMConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(l.Provider)) {
	case ProviderAnthropic, ProviderGemini, ProviderStub:
	default:
		return fmt.Errorf("provider must be one of anthropic, gemini, stub (got %q)", l.Provider)
	}
	if l.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be > 0 (got %d)", l.MaxTokens)
	}
	if l.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", l.Timeout)
	}
	if l.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0 (got %d)", l.MaxRetries)
	}
	return nil
}

func (a *AnalysisConfig) validate() error {
	if a.MinContentLength < 1 {
		return fmt.Errorf("min_content_length must be >= 1 (got %d)", a.MinContentLength)
	}
	if a.MaxContentLength < a.MinContentLength {
		return fmt.Errorf("max_content_length must be >= min_content_length (%d < %d)", a.MaxContentLength, a.MinContentLength)
	}
	if a.MaxSelectionLength < 1 {
		return fmt.Errorf("max_selection_length must be >= 1 (got %d)", a.MaxSelectionLength)
	}
	return nil
}
