package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/frenchreader-backend/internal/align"
	"github.com/heartmarshall/frenchreader-backend/internal/domain"
	"github.com/heartmarshall/frenchreader-backend/internal/payload"
)

// Analyze asks the model to annotate the text and re-aligns every item onto
// the normalized text. Upstream failures are returned unchanged and nothing is
// reconciled or saved.
func (s *Service) Analyze(ctx context.Context, input AnalyzeInput) (*AnalyzeOutput, error) {
	content := domain.NormalizeText(input.Content)
	if err := input.validate(content, s.limits); err != nil {
		return nil, err
	}

	raw, err := s.loadPayload(ctx, content, input.Level)
	if err != nil {
		return nil, err
	}

	p, err := payload.Decode(raw)
	if err != nil {
		err = fmt.Errorf("%s: %w: %w", s.annotator.Name(), domain.ErrUpstreamMalformed, err)
		s.upstreamFailed(ctx, err)
		return nil, err
	}

	result := align.Reconcile(p, content)
	if s.metrics != nil {
		s.metrics.Observe(result.Stats)
	}

	s.log.InfoContext(ctx, "analysis reconciled",
		slog.String("level", input.Level.String()),
		slog.Int("items", result.Stats.TotalItems),
		slog.Int("matched", result.Stats.TotalMatched),
		slog.Int("match_rate", result.Stats.MatchRate),
	)
	if result.Stats.TotalItems > result.Stats.TotalMatched {
		s.log.DebugContext(ctx, "unmatched items",
			slog.Any("vocabulary", result.Stats.Vocabulary.Unmatched),
			slog.Any("expressions", result.Stats.Expressions.Unmatched),
			slog.Any("grammar", result.Stats.Grammar.Unmatched),
		)
	}

	out := &AnalyzeOutput{Result: result}
	if !input.Save {
		return out, nil
	}
	if s.repo == nil {
		s.log.WarnContext(ctx, "save requested but persistence is disabled")
		return out, nil
	}

	saved, err := s.repo.Save(ctx, domain.Article{
		ID:          uuid.New(),
		Title:       input.Title,
		Source:      input.Source,
		Content:     content,
		ContentHash: contentHash(content),
	}, domain.Analysis{
		ID:     uuid.New(),
		Level:  input.Level,
		Result: result,
	})
	if err != nil {
		return nil, fmt.Errorf("save analysis: %w", err)
	}

	out.ArticleID = &saved.ArticleID
	out.AnalysisID = &saved.ID
	return out, nil
}

func (s *Service) loadPayload(ctx context.Context, content string, level domain.CEFRLevel) ([]byte, error) {
	load := func(ctx context.Context) ([]byte, error) {
		start := time.Now()
		raw, err := s.annotator.GenerateAnnotations(ctx, content, level)
		if err != nil {
			s.upstreamFailed(ctx, err)
			return nil, err
		}
		if s.metrics != nil {
			s.metrics.ModelCall(s.annotator.Name(), time.Since(start))
		}
		return raw, nil
	}

	if s.cache == nil {
		return load(ctx)
	}
	key := cacheKey(s.annotator.Name(), s.annotator.Model(), level, content)
	return s.cache.GetOrLoad(ctx, key, load)
}

func (s *Service) upstreamFailed(ctx context.Context, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	s.log.WarnContext(ctx, "model call failed",
		slog.String("provider", s.annotator.Name()),
		slog.String("kind", domain.UpstreamKind(err)),
		slog.String("error", err.Error()),
	)
	if s.metrics != nil {
		s.metrics.UpstreamFailure(s.annotator.Name(), err)
	}
}
