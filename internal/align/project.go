package align

import (
	"sort"
	"unicode/utf8"

	"github.com/heartmarshall/frenchreader-backend/internal/domain"
)

// Filter selects the annotations a projection renders. An empty Levels
// selects nothing.
type Filter struct {
	Levels   []domain.CEFRLevel
	Category domain.CategoryFilter
}

func (f Filter) allows(a *domain.Annotation) bool {
	if !f.Category.Allows(a.Category) {
		return false
	}
	for _, l := range f.Levels {
		if l == a.Level {
			return true
		}
	}
	return false
}

// Segment is one run of rendered text. Annotation is nil for plain text.
type Segment struct {
	Span       domain.Span        `json:"span"`
	Text       string             `json:"text"`
	Annotation *domain.Annotation `json:"annotation,omitempty"`
}

// Highlighted reports whether the segment carries an annotation.
func (s Segment) Highlighted() bool { return s.Annotation != nil }

// Highlights filters items, sorts them by span start and sweeps left to right,
// dropping any item that starts before the end of the last accepted one.
// Equal starts keep input order, so pass words, expressions, grammar in that
// order to give words precedence. Items with a span that does not fit
// content are ignored. items is not modified.
func Highlights(content string, items []domain.Annotation, f Filter) []domain.Annotation {
	candidates := make([]domain.Annotation, 0, len(items))
	for i := range items {
		a := &items[i]
		if a.Span == nil || !fits(content, *a.Span) || !f.allows(a) {
			continue
		}
		candidates = append(candidates, *a)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Span.Start < candidates[j].Span.Start
	})

	accepted := make([]domain.Annotation, 0, len(candidates))
	cursor := 0
	for _, a := range candidates {
		if a.Span.Start < cursor {
			continue
		}
		accepted = append(accepted, a)
		cursor = a.Span.End
	}
	return accepted
}

// Project splits content into alternating plain and highlighted segments
// covering the whole text.
func Project(content string, items []domain.Annotation, f Filter) []Segment {
	highlights := Highlights(content, items, f)
	segments := make([]Segment, 0, 2*len(highlights)+1)

	cursor := 0
	for i := range highlights {
		h := &highlights[i]
		if h.Span.Start > cursor {
			segments = append(segments, plain(content, cursor, h.Span.Start))
		}
		segments = append(segments, Segment{
			Span:       *h.Span,
			Text:       content[h.Span.Start:h.Span.End],
			Annotation: h,
		})
		cursor = h.Span.End
	}
	if cursor < len(content) {
		segments = append(segments, plain(content, cursor, len(content)))
	}
	return segments
}

func plain(content string, start, end int) Segment {
	return Segment{Span: domain.Span{Start: start, End: end}, Text: content[start:end]}
}

// fits reports whether span lies inside content on rune boundaries.
func fits(content string, span domain.Span) bool {
	if !span.ValidIn(len(content)) {
		return false
	}
	if !utf8.RuneStart(content[span.Start]) {
		return false
	}
	return span.End == len(content) || utf8.RuneStart(content[span.End])
}
