package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	LLM       LLMConfig       `yaml:"llm"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"90s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"   env:"SERVER_MAX_BODY_BYTES"   env-default:"1048576"`
}

// DatabaseConfig holds PostgreSQL connection settings. An empty DSN disables
// persistence of analyses.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"true"`
}

// Enabled reports whether a database is configured.
func (c DatabaseConfig) Enabled() bool { return c.DSN != "" }

// RedisConfig holds the payload cache settings. An empty Addr disables caching.
type RedisConfig struct {
	Addr      string        `yaml:"addr"       env:"REDIS_ADDR"`
	Password  string        `yaml:"password"   env:"REDIS_PASSWORD"`
	DB        int           `yaml:"db"         env:"REDIS_DB"         env-default:"0"`
	KeyPrefix string        `yaml:"key_prefix" env:"REDIS_KEY_PREFIX" env-default:"frenchreader:payload:"`
	TTL       time.Duration `yaml:"ttl"        env:"REDIS_TTL"        env-default:"168h"`
}

// Enabled reports whether a cache is configured.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// Supported annotator providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderStub      = "stub"
)

// LLMConfig selects and configures the language model used for annotation.
type LLMConfig struct {
	Provider      string        `yaml:"provider"       env:"LLM_PROVIDER"       env-default:"anthropic"`
	APIKey        string        `yaml:"api_key"        env:"LLM_API_KEY"`
	Model         string        `yaml:"model"          env:"LLM_MODEL"`
	BaseURL       string        `yaml:"base_url"       env:"LLM_BASE_URL"`
	MaxTokens     int64         `yaml:"max_tokens"     env:"LLM_MAX_TOKENS"     env-default:"8192"`
	Timeout       time.Duration `yaml:"timeout"        env:"LLM_TIMEOUT"        env-default:"60s"`
	MaxRetries    int           `yaml:"max_retries"    env:"LLM_MAX_RETRIES"    env-default:"1"`
	GlossLanguage string        `yaml:"gloss_language" env:"LLM_GLOSS_LANGUAGE" env-default:"Korean"`
}

// EffectiveProvider returns the provider to wire. Without an API key every
// provider falls back to the offline stub.
func (c LLMConfig) EffectiveProvider() string {
	p := strings.ToLower(strings.TrimSpace(c.Provider))
	if p != ProviderStub && c.APIKey == "" {
		return ProviderStub
	}
	return p
}

// AnalysisConfig bounds the text accepted for analysis.
type AnalysisConfig struct {
	MinContentLength   int `yaml:"min_content_length"   env:"ANALYSIS_MIN_CONTENT_LENGTH"   env-default:"10"`
	MaxContentLength   int `yaml:"max_content_length"   env:"ANALYSIS_MAX_CONTENT_LENGTH"   env-default:"20000"`
	MaxSelectionLength int `yaml:"max_selection_length" env:"ANALYSIS_MAX_SELECTION_LENGTH" env-default:"200"`
}

// RateLimitConfig limits model-calling requests per client IP.
type RateLimitConfig struct {
	Enabled         bool          `yaml:"enabled"          env:"RATE_LIMIT_ENABLED"          env-default:"true"`
	RequestsPerMin  int           `yaml:"requests_per_min" env:"RATE_LIMIT_REQUESTS_PER_MIN" env-default:"10"`
	Burst           int           `yaml:"burst"            env:"RATE_LIMIT_BURST"            env-default:"3"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"RATE_LIMIT_CLEANUP_INTERVAL" env-default:"5m"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
	Path    string `yaml:"path"    env:"METRICS_PATH"    env-default:"/metrics"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
