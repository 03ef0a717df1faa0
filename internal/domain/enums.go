package domain

import "strings"

// CEFRLevel is a proficiency level on the A1..C2 scale.
type CEFRLevel string

const (
	LevelA1 CEFRLevel = "A1"
	LevelA2 CEFRLevel = "A2"
	LevelB1 CEFRLevel = "B1"
	LevelB2 CEFRLevel = "B2"
	LevelC1 CEFRLevel = "C1"
	LevelC2 CEFRLevel = "C2"
)

// DefaultLevel is assigned to model items that carry no usable level.
const DefaultLevel = LevelB1

// AllLevels lists every level in ascending order.
var AllLevels = []CEFRLevel{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2}

func (l CEFRLevel) String() string { return string(l) }

func (l CEFRLevel) IsValid() bool {
	return l.Rank() > 0
}

// Rank returns 1 for A1 through 6 for C2, and 0 for an unknown level.
func (l CEFRLevel) Rank() int {
	for i, lv := range AllLevels {
		if lv == l {
			return i + 1
		}
	}
	return 0
}

// ParseCEFRLevel accepts any casing and surrounding whitespace.
func ParseCEFRLevel(s string) (CEFRLevel, bool) {
	l := CEFRLevel(strings.ToUpper(strings.TrimSpace(s)))
	return l, l.IsValid()
}

// Category is the top-level kind of an annotation.
type Category string

const (
	CategoryWord       Category = "word"
	CategoryExpression Category = "expression"
	CategoryGrammar    Category = "grammar"
)

func (c Category) String() string { return string(c) }

func (c Category) IsValid() bool {
	switch c {
	case CategoryWord, CategoryExpression, CategoryGrammar:
		return true
	}
	return false
}

// CategoryFilter selects which categories a projection renders.
type CategoryFilter string

const (
	FilterAll        CategoryFilter = "all"
	FilterWord       CategoryFilter = CategoryFilter(CategoryWord)
	FilterExpression CategoryFilter = CategoryFilter(CategoryExpression)
	FilterGrammar    CategoryFilter = CategoryFilter(CategoryGrammar)
)

func (f CategoryFilter) String() string { return string(f) }

func (f CategoryFilter) IsValid() bool {
	switch f {
	case FilterAll, FilterWord, FilterExpression, FilterGrammar:
		return true
	}
	return false
}

// Allows reports whether items of category c pass the filter.
func (f CategoryFilter) Allows(c Category) bool {
	return f == FilterAll || Category(f) == c
}

// LexicalClass is the sub-category of a word annotation.
type LexicalClass string

const (
	ClassNoun      LexicalClass = "noun"
	ClassVerb      LexicalClass = "verb"
	ClassAdjective LexicalClass = "adjective"
	ClassAdverb    LexicalClass = "adverb"
	ClassOther     LexicalClass = "other"
)

func (c LexicalClass) String() string { return string(c) }

func (c LexicalClass) IsValid() bool {
	switch c {
	case ClassNoun, ClassVerb, ClassAdjective, ClassAdverb, ClassOther:
		return true
	}
	return false
}

// Short is the prefix used in unmatched-item previews.
func (c LexicalClass) Short() string {
	switch c {
	case ClassAdjective:
		return "adj"
	case ClassAdverb:
		return "adv"
	}
	return string(c)
}

// Gender is the grammatical gender of a French noun.
type Gender string

const (
	GenderMasculine Gender = "m"
	GenderFeminine  Gender = "f"
)

func (g Gender) IsValid() bool {
	return g == GenderMasculine || g == GenderFeminine
}

// MatchOutcome records which locator tier produced a span.
type MatchOutcome string

const (
	MatchExact             MatchOutcome = "exact"
	MatchCaseInsensitive   MatchOutcome = "case-insensitive"
	MatchAccentInsensitive MatchOutcome = "accent-insensitive"
	MatchNotFound          MatchOutcome = "not-found"
)

func (o MatchOutcome) String() string { return string(o) }

// Found is false only for MatchNotFound and the zero value.
func (o MatchOutcome) Found() bool {
	switch o {
	case MatchExact, MatchCaseInsensitive, MatchAccentInsensitive:
		return true
	}
	return false
}
