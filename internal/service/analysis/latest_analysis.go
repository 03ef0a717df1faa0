package analysis

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/frenchreader-backend/internal/domain"
)

// LatestAnalysis returns the most recent stored analysis of an article at level.
// Returns domain.ErrNotFound when nothing is stored or persistence is disabled.
func (s *Service) LatestAnalysis(ctx context.Context, articleID uuid.UUID, level domain.CEFRLevel) (*domain.Analysis, error) {
	var errs []domain.FieldError
	if articleID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "id", Message: "required"})
	}
	if !level.IsValid() {
		errs = append(errs, domain.FieldError{Field: "level", Message: "must be one of A1, A2, B1, B2, C1, C2"})
	}
	if len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}

	if s.repo == nil {
		return nil, fmt.Errorf("analysis %s: persistence disabled: %w", articleID, domain.ErrNotFound)
	}

	a, err := s.repo.LatestAnalysis(ctx, articleID, level)
	if err != nil {
		return nil, fmt.Errorf("latest analysis: %w", err)
	}
	return &a, nil
}
