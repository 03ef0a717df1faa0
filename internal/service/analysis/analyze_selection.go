package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/heartmarshall/frenchreader-backend/internal/align"
	"github.com/heartmarshall/frenchreader-backend/internal/domain"
	"github.com/heartmarshall/frenchreader-backend/internal/payload"
)

// AnalyzeSelection annotates a word or phrase the reader selected and locates
// it in the text. A nil annotation with a nil error means the model answered
// but the selection could not be found in the content.
func (s *Service) AnalyzeSelection(ctx context.Context, input SelectionInput) (*domain.Annotation, error) {
	if err := input.Validate(s.limits); err != nil {
		return nil, err
	}

	selected := strings.TrimSpace(input.SelectedText)
	sentence := strings.TrimSpace(input.Context)
	if sentence == "" {
		sentence = input.Content
	}

	raw, err := s.annotator.AnalyzeSelection(ctx, selected, sentence)
	if err != nil {
		s.upstreamFailed(ctx, err)
		return nil, err
	}

	sel, err := payload.DecodeSelection(raw)
	if err != nil {
		err = fmt.Errorf("%s: %w: %w", s.annotator.Name(), domain.ErrUpstreamMalformed, err)
		s.upstreamFailed(ctx, err)
		return nil, err
	}

	meaning := sel.Meaning
	if meaning == "" {
		meaning = sel.MeaningFr
	}

	item := align.LocateUserSelection(selected, input.Content, align.SelectionFields{
		CanonicalForm: sel.CanonicalForm,
		Level:         sel.Level,
		Meaning:       meaning,
		Example:       sel.Example,
		Lexical:       sel.Lexical,
	})
	if item == nil {
		s.log.DebugContext(ctx, "selection not found in content")
	}
	return item, nil
}
