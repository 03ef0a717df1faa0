// Package payload decodes the annotation JSON produced by the language model.
// The model output is untrusted: missing or mistyped fields decode to empty
// values and never fail the whole payload.
package payload

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/heartmarshall/frenchreader-backend/internal/domain"
)

// ErrNotObject is returned when the input is not a JSON object at all.
var ErrNotObject = errors.New("payload is not a JSON object")

// Payload is a decoded model response, already converted to annotations.
// Every slice is non-nil.
type Payload struct {
	Summary     domain.Summary
	Nouns       []domain.Annotation
	Verbs       []domain.Annotation
	Adjectives  []domain.Annotation
	Adverbs     []domain.Annotation
	Others      []domain.Annotation
	Expressions []domain.Annotation
	Grammar     []domain.Annotation
	KeyPoints   []string
}

// LexicalGroups returns the word sub-categories in reconciliation order.
func (p Payload) LexicalGroups() [][]domain.Annotation {
	return [][]domain.Annotation{p.Nouns, p.Verbs, p.Adjectives, p.Adverbs, p.Others}
}

// Decode parses a model response. Invalid JSON and non-object JSON return
// an error wrapping ErrNotObject; any other shape problem is absorbed.
func Decode(data []byte) (Payload, error) {
	root, ok := parseObject(data)
	if !ok {
		if !json.Valid(data) {
			return Payload{}, fmt.Errorf("decode payload: invalid JSON: %w", ErrNotObject)
		}
		return Payload{}, fmt.Errorf("decode payload: %w", ErrNotObject)
	}

	vocab := root.obj("vocabulary")
	summary := root.obj("summary")

	return Payload{
		Summary: domain.Summary{
			Topic:      summary.str("topic"),
			KeyMessage: summary.str("keyMessage"),
		},
		Nouns:       mapAll(vocab.objects("nouns"), nounFrom),
		Verbs:       mapAll(vocab.objects("verbs"), verbFrom),
		Adjectives:  mapAll(vocab.objects("adjectives"), lexicalFrom(domain.ClassAdjective)),
		Adverbs:     mapAll(vocab.objects("adverbs"), lexicalFrom(domain.ClassAdverb)),
		Others:      mapAll(vocab.objects("others"), otherFrom),
		Expressions: mapAll(root.objects("expressions"), expressionFrom),
		Grammar:     mapAll(root.objects("grammar"), grammarFrom),
		KeyPoints:   root.texts("keyPoints"),
	}, nil
}

func mapAll(items []object, fn func(object) domain.Annotation) []domain.Annotation {
	out := make([]domain.Annotation, 0, len(items))
	for _, it := range items {
		out = append(out, fn(it))
	}
	return out
}

// level falls back to domain.DefaultLevel for a missing or unknown value.
func level(o object) domain.CEFRLevel {
	if l, ok := domain.ParseCEFRLevel(o.str("level")); ok {
		return l
	}
	return domain.DefaultLevel
}

func word(o object, details *domain.LexicalDetails) domain.Annotation {
	canonical := o.str("word")
	return domain.Annotation{
		Category:      domain.CategoryWord,
		CanonicalForm: canonical,
		SurfaceForm:   firstNonEmpty(o.str("foundForm"), canonical),
		Level:         level(o),
		Meaning:       o.str("meaning"),
		Example:       o.str("example"),
		Lexical:       details,
	}
}

func nounFrom(o object) domain.Annotation {
	d := &domain.LexicalDetails{Class: domain.ClassNoun}
	if g := domain.Gender(o.str("gender")); g.IsValid() {
		d.Gender = g
	}
	return word(o, d)
}

func verbFrom(o object) domain.Annotation {
	return word(o, &domain.LexicalDetails{Class: domain.ClassVerb, Tense: o.str("tense")})
}

func lexicalFrom(class domain.LexicalClass) func(object) domain.Annotation {
	return func(o object) domain.Annotation {
		return word(o, &domain.LexicalDetails{Class: class})
	}
}

func otherFrom(o object) domain.Annotation {
	return word(o, &domain.LexicalDetails{Class: domain.ClassOther, PartOfSpeech: o.str("partOfSpeech")})
}

func expressionFrom(o object) domain.Annotation {
	canonical := o.str("expression")
	return domain.Annotation{
		Category:      domain.CategoryExpression,
		CanonicalForm: canonical,
		SurfaceForm:   firstNonEmpty(o.str("foundForm"), canonical),
		Level:         level(o),
		Meaning:       o.str("meaning"),
		Example:       o.str("example"),
		Expression:    &domain.ExpressionDetails{Usage: o.str("usage")},
	}
}

func grammarFrom(o object) domain.Annotation {
	return domain.Annotation{
		Category:      domain.CategoryGrammar,
		CanonicalForm: o.str("name"),
		SurfaceForm:   o.str("foundText"),
		Level:         level(o),
		Meaning:       o.str("explanation"),
		Grammar:       &domain.GrammarDetails{NameFr: o.str("nameFr"), Rule: o.str("rule")},
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
