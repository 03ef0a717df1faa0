package align

import "github.com/heartmarshall/frenchreader-backend/internal/domain"

// SelectionFields are the descriptive fields attached to a user-added word.
type SelectionFields struct {
	CanonicalForm string
	Level         domain.CEFRLevel
	Meaning       string
	Example       string
	Lexical       *domain.LexicalDetails
}

// LocateUserSelection positions a word the user selected in the reader.
// content is normalized first so the span refers to the same text as a
// reconciled analysis. It returns nil when the selection cannot be found in
// content; the caller should discard it rather than treat it as an error.
func LocateUserSelection(selected, content string, fields SelectionFields) *domain.Annotation {
	m := Locate(domain.NormalizeText(content), selected, nil)
	if !m.Found() {
		return nil
	}

	lexical := fields.Lexical
	if lexical == nil {
		lexical = &domain.LexicalDetails{Class: domain.ClassOther}
	}
	level := fields.Level
	if !level.IsValid() {
		level = domain.DefaultLevel
	}
	canonical := fields.CanonicalForm
	if canonical == "" {
		canonical = domain.NormalizeText(selected)
	}

	a := place(domain.Annotation{
		Category:        domain.CategoryWord,
		CanonicalForm:   canonical,
		SurfaceForm:     domain.NormalizeText(selected),
		Level:           level,
		Meaning:         fields.Meaning,
		Example:         fields.Example,
		UserContributed: true,
		Lexical:         lexical,
	}, m)
	return &a
}
