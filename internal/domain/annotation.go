package domain

import "encoding/json"

// Span is a half-open byte range [Start, End) into normalized article text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the span width in bytes.
func (s Span) Len() int { return s.End - s.Start }

// Overlaps reports whether the two spans share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// ValidIn reports whether the span is non-empty and lies within a text of n bytes.
func (s Span) ValidIn(n int) bool {
	return 0 <= s.Start && s.Start < s.End && s.End <= n
}

// Annotation is one model-produced (or user-added) item over the article text.
// Exactly one of Lexical, Expression, Grammar is set, matching Category.
type Annotation struct {
	Category        Category     `json:"category"`
	CanonicalForm   string       `json:"canonicalForm"`
	SurfaceForm     string       `json:"surfaceForm"`
	Level           CEFRLevel    `json:"level"`
	Meaning         string       `json:"meaning"`
	Example         string       `json:"example,omitempty"`
	Span            *Span        `json:"span,omitempty"`
	Outcome         MatchOutcome `json:"outcome,omitempty"`
	UserContributed bool         `json:"isUserContributed"`

	Lexical    *LexicalDetails    `json:"lexical,omitempty"`
	Expression *ExpressionDetails `json:"expression,omitempty"`
	Grammar    *GrammarDetails    `json:"grammar,omitempty"`
}

// LexicalDetails carries the per-class extras of a word annotation.
type LexicalDetails struct {
	Class        LexicalClass `json:"class"`
	Gender       Gender       `json:"gender,omitempty"`
	Tense        string       `json:"tense,omitempty"`
	PartOfSpeech string       `json:"partOfSpeech,omitempty"`
}

// Label is the short part-of-speech tag shown next to a word.
func (d *LexicalDetails) Label() string {
	if d == nil {
		return ""
	}
	switch d.Class {
	case ClassNoun:
		if d.Gender.IsValid() {
			return "n." + string(d.Gender) + "."
		}
		return "n."
	case ClassVerb:
		return "v."
	case ClassAdjective:
		return "adj."
	case ClassAdverb:
		return "adv."
	}
	return d.PartOfSpeech
}

// MarshalJSON adds the display label to the encoded details.
func (d LexicalDetails) MarshalJSON() ([]byte, error) {
	type fields LexicalDetails
	return json.Marshal(struct {
		fields
		Label string `json:"label,omitempty"`
	}{fields(d), d.Label()})
}

// ExpressionDetails carries the usage note of an idiomatic expression.
type ExpressionDetails struct {
	Usage string `json:"usage,omitempty"`
}

// GrammarDetails carries the French name and rule summary of a grammar point.
type GrammarDetails struct {
	NameFr string `json:"nameFr,omitempty"`
	Rule   string `json:"rule,omitempty"`
}

// PreviewLabel is the "<class>: <surface form>" entry used in unmatched previews.
func (a *Annotation) PreviewLabel() string {
	switch a.Category {
	case CategoryWord:
		class := ClassOther
		if a.Lexical != nil {
			class = a.Lexical.Class
		}
		return class.Short() + ": " + a.SurfaceForm
	case CategoryExpression:
		return "expr: " + a.SurfaceForm
	}
	return string(a.Category) + ": " + a.SurfaceForm
}

// MaxUnmatchedPreview bounds MatchStats.Unmatched.
const MaxUnmatchedPreview = 20

// MatchStats counts locator outcomes for one annotation category.
type MatchStats struct {
	Total             int      `json:"total"`
	Exact             int      `json:"exact"`
	CaseInsensitive   int      `json:"caseInsensitive"`
	AccentInsensitive int      `json:"accentInsensitive"`
	NotFound          int      `json:"notFound"`
	Unmatched         []string `json:"notFoundItems"`
}

// Record counts one locate attempt. label is kept in the unmatched preview
// while it has room.
func (s *MatchStats) Record(outcome MatchOutcome, label string) {
	s.Total++
	switch outcome {
	case MatchExact:
		s.Exact++
	case MatchCaseInsensitive:
		s.CaseInsensitive++
	case MatchAccentInsensitive:
		s.AccentInsensitive++
	default:
		s.NotFound++
		if len(s.Unmatched) < MaxUnmatchedPreview {
			s.Unmatched = append(s.Unmatched, label)
		}
	}
}

// Matched is the number of attempts that produced a span.
func (s MatchStats) Matched() int {
	return s.Exact + s.CaseInsensitive + s.AccentInsensitive
}

// AnalysisStats aggregates match statistics over all categories.
type AnalysisStats struct {
	Vocabulary   MatchStats `json:"vocabulary"`
	Expressions  MatchStats `json:"expressions"`
	Grammar      MatchStats `json:"grammar"`
	TotalItems   int        `json:"totalItems"`
	TotalMatched int        `json:"totalMatched"`
	MatchRate    int        `json:"matchRate"`
}

// Summarize fills the totals and the rounded percentage match rate.
// A pass with no items has a match rate of 0.
func (s *AnalysisStats) Summarize() {
	s.TotalItems = s.Vocabulary.Total + s.Expressions.Total + s.Grammar.Total
	s.TotalMatched = s.Vocabulary.Matched() + s.Expressions.Matched() + s.Grammar.Matched()
	s.MatchRate = 0
	if s.TotalItems > 0 {
		// Half-up rounding on integers.
		s.MatchRate = (200*s.TotalMatched + s.TotalItems) / (2 * s.TotalItems)
	}
}

// Summary is the model's short digest of the article.
type Summary struct {
	Topic      string `json:"topic"`
	KeyMessage string `json:"keyMessage"`
}
