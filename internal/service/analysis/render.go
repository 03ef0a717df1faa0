package analysis

import (
	"github.com/heartmarshall/frenchreader-backend/internal/align"
	"github.com/heartmarshall/frenchreader-backend/internal/domain"
)

// Render projects positioned annotations onto the text as a sequence of plain
// and highlighted segments. The items are not modified.
func (s *Service) Render(input RenderInput) ([]align.Segment, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return align.Project(domain.NormalizeText(input.Content), input.Items, input.filter()), nil
}
