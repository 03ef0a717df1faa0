package domain

import (
	"time"

	"github.com/google/uuid"
)

// Article is a text submitted for analysis. Content is already normalized.
type Article struct {
	ID          uuid.UUID
	Title       string
	Source      string
	Content     string
	ContentHash string
	CreatedAt   time.Time
}

// AnalysisResult is the reconciled, position-tagged annotation set for one text.
// Every span refers to Content.
type AnalysisResult struct {
	Content     string        `json:"content"`
	Summary     Summary       `json:"summary"`
	Words       []Annotation  `json:"words"`
	Expressions []Annotation  `json:"expressions"`
	Grammar     []Annotation  `json:"grammar"`
	KeyPoints   []string      `json:"keyPoints"`
	Stats       AnalysisStats `json:"matchStats"`
}

// Items returns words, expressions and grammar points in projection order.
// The returned slice is a fresh copy.
func (r *AnalysisResult) Items() []Annotation {
	out := make([]Annotation, 0, len(r.Words)+len(r.Expressions)+len(r.Grammar))
	out = append(out, r.Words...)
	out = append(out, r.Expressions...)
	out = append(out, r.Grammar...)
	return out
}

// Analysis is a stored AnalysisResult for an article at a given level.
type Analysis struct {
	ID        uuid.UUID
	ArticleID uuid.UUID
	Level     CEFRLevel
	Result    AnalysisResult
	CreatedAt time.Time
}
