package analysis

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/frenchreader-backend/internal/align"
	"github.com/heartmarshall/frenchreader-backend/internal/domain"
)

// AnalyzeInput holds the parameters for analysing a text.
type AnalyzeInput struct {
	Content string
	Level   domain.CEFRLevel
	Title   string
	Source  string
	Save    bool
}

// validate checks all fields against limits and collects all errors.
// content must already be normalized.
func (i AnalyzeInput) validate(content string, limits Limits) error {
	var errs []domain.FieldError

	n := utf8.RuneCountInString(content)
	switch {
	case n == 0:
		errs = append(errs, domain.FieldError{Field: "content", Message: "required"})
	case limits.MinContentLength > 0 && n < limits.MinContentLength:
		errs = append(errs, domain.FieldError{Field: "content", Message: fmt.Sprintf("min %d characters", limits.MinContentLength)})
	case limits.MaxContentLength > 0 && n > limits.MaxContentLength:
		errs = append(errs, domain.FieldError{Field: "content", Message: fmt.Sprintf("max %d characters", limits.MaxContentLength)})
	}

	if !i.Level.IsValid() {
		errs = append(errs, domain.FieldError{Field: "level", Message: "must be one of A1, A2, B1, B2, C1, C2"})
	}
	if len(i.Title) > 300 {
		errs = append(errs, domain.FieldError{Field: "title", Message: "max 300 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// AnalyzeOutput is a reconciled analysis, with storage IDs when it was saved.
type AnalyzeOutput struct {
	Result     domain.AnalysisResult
	ArticleID  *uuid.UUID
	AnalysisID *uuid.UUID
}

// SelectionInput holds the parameters for analysing a user selection.
type SelectionInput struct {
	SelectedText string
	Content      string
	Context      string // surrounding sentence; defaults to Content
}

// Validate checks all fields and collects all errors.
func (i SelectionInput) Validate(limits Limits) error {
	var errs []domain.FieldError

	selected := strings.TrimSpace(i.SelectedText)
	if selected == "" {
		errs = append(errs, domain.FieldError{Field: "selectedText", Message: "required"})
	}
	if limits.MaxSelectionLength > 0 && utf8.RuneCountInString(selected) > limits.MaxSelectionLength {
		errs = append(errs, domain.FieldError{Field: "selectedText", Message: fmt.Sprintf("max %d characters", limits.MaxSelectionLength)})
	}
	if strings.TrimSpace(i.Content) == "" {
		errs = append(errs, domain.FieldError{Field: "content", Message: "required"})
	}
	if limits.MaxContentLength > 0 && utf8.RuneCountInString(i.Content) > limits.MaxContentLength {
		errs = append(errs, domain.FieldError{Field: "content", Message: fmt.Sprintf("max %d characters", limits.MaxContentLength)})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// RenderInput holds a positioned annotation set and the active filters.
// An empty Levels selects nothing.
type RenderInput struct {
	Content  string
	Items    []domain.Annotation
	Levels   []domain.CEFRLevel
	Category domain.CategoryFilter
}

// Validate checks all fields and collects all errors.
func (i RenderInput) Validate() error {
	var errs []domain.FieldError

	for _, l := range i.Levels {
		if !l.IsValid() {
			errs = append(errs, domain.FieldError{Field: "levels", Message: fmt.Sprintf("unknown level %q", l)})
			break
		}
	}
	if !i.Category.IsValid() {
		errs = append(errs, domain.FieldError{Field: "category", Message: "must be one of all, word, expression, grammar"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (i RenderInput) filter() align.Filter {
	return align.Filter{Levels: i.Levels, Category: i.Category}
}
