package analysis

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/heartmarshall/frenchreader-backend/internal/domain"
)

type annotator interface {
	Name() string
	Model() string
	GenerateAnnotations(ctx context.Context, text string, level domain.CEFRLevel) ([]byte, error)
	AnalyzeSelection(ctx context.Context, selected, context string) ([]byte, error)
}

type payloadCache interface {
	GetOrLoad(ctx context.Context, key string, load func(ctx context.Context) ([]byte, error)) ([]byte, error)
}

type analysisRepo interface {
	Save(ctx context.Context, article domain.Article, a domain.Analysis) (domain.Analysis, error)
	LatestAnalysis(ctx context.Context, articleID uuid.UUID, level domain.CEFRLevel) (domain.Analysis, error)
}

type matchRecorder interface {
	Observe(stats domain.AnalysisStats)
	UpstreamFailure(provider string, err error)
	ModelCall(provider string, took time.Duration)
}

// Limits bound the size of user-supplied text, in runes after normalization.
type Limits struct {
	MinContentLength   int
	MaxContentLength   int
	MaxSelectionLength int
}

// Option configures optional collaborators of the Service.
type Option func(*Service)

// WithCache routes model calls through a payload cache.
func WithCache(c payloadCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithRepo enables persistence of analyses.
func WithRepo(r analysisRepo) Option {
	return func(s *Service) { s.repo = r }
}

// WithMetrics records match statistics and model-call health.
func WithMetrics(m matchRecorder) Option {
	return func(s *Service) { s.metrics = m }
}

// Service runs model annotation and re-aligns the result onto the text.
type Service struct {
	annotator annotator
	cache     payloadCache
	repo      analysisRepo
	metrics   matchRecorder
	limits    Limits
	log       *slog.Logger
}

// NewService creates a new analysis service.
func NewService(log *slog.Logger, ann annotator, limits Limits, opts ...Option) *Service {
	s := &Service{
		annotator: ann,
		limits:    limits,
		log:       log.With("service", "analysis"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// cacheKey identifies a model payload by provider, model, level and text.
func cacheKey(provider, model string, level domain.CEFRLevel, content string) string {
	d := xxhash.New()
	for _, p := range []string{provider, model, string(level), content} {
		_, _ = d.WriteString(strconv.Itoa(len(p)))
		_, _ = d.WriteString(":")
		_, _ = d.WriteString(p)
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

// contentHash identifies an article by its normalized text.
func contentHash(content string) string {
	return strconv.FormatUint(xxhash.Sum64String(content), 16)
}
