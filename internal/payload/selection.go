package payload

import (
	"fmt"
	"strings"

	"github.com/heartmarshall/frenchreader-backend/internal/domain"
)

// Selection is the model's annotation of a single user-selected word or phrase.
type Selection struct {
	CanonicalForm string
	SurfaceForm   string
	Level         domain.CEFRLevel
	Meaning       string
	MeaningFr     string
	Example       string
	Lexical       *domain.LexicalDetails
}

// DecodeSelection parses a selection response with the same leniency as Decode.
func DecodeSelection(data []byte) (Selection, error) {
	o, ok := parseObject(data)
	if !ok {
		return Selection{}, fmt.Errorf("decode selection: %w", ErrNotObject)
	}
	canonical := o.str("word")
	return Selection{
		CanonicalForm: canonical,
		SurfaceForm:   firstNonEmpty(o.str("foundForm"), canonical),
		Level:         level(o),
		Meaning:       o.str("meaning", "meaningKo"),
		MeaningFr:     o.str("meaningFr"),
		Example:       o.str("example"),
		Lexical:       ParsePartOfSpeech(o.str("partOfSpeech")),
	}, nil
}

// ParsePartOfSpeech maps a dictionary tag such as "n.f.", "v." or "adj."
// to lexical details. Unknown tags become ClassOther with the tag kept verbatim.
func ParsePartOfSpeech(tag string) *domain.LexicalDetails {
	t := strings.ToLower(strings.TrimSpace(tag))
	switch {
	case t == "n.m." || t == "nm" || t == "n.m":
		return &domain.LexicalDetails{Class: domain.ClassNoun, Gender: domain.GenderMasculine}
	case t == "n.f." || t == "nf" || t == "n.f":
		return &domain.LexicalDetails{Class: domain.ClassNoun, Gender: domain.GenderFeminine}
	case t == "n." || t == "n" || t == "nom" || t == "noun":
		return &domain.LexicalDetails{Class: domain.ClassNoun}
	case t == "v." || t == "v" || t == "verbe" || t == "verb":
		return &domain.LexicalDetails{Class: domain.ClassVerb}
	case strings.HasPrefix(t, "adj"):
		return &domain.LexicalDetails{Class: domain.ClassAdjective}
	case strings.HasPrefix(t, "adv"):
		return &domain.LexicalDetails{Class: domain.ClassAdverb}
	}
	return &domain.LexicalDetails{Class: domain.ClassOther, PartOfSpeech: strings.TrimSpace(tag)}
}
