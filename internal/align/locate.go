package align

import (
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/frenchreader-backend/internal/domain"
)

// Exclusions reports spans that are already taken. A nil Exclusions excludes nothing.
type Exclusions interface {
	IsClaimed(span domain.Span) bool
}

// Match is the result of one locate call. Span is meaningful only when
// Outcome.Found() is true.
type Match struct {
	Span    domain.Span
	Outcome domain.MatchOutcome
}

// Found reports whether a span was located.
func (m Match) Found() bool { return m.Outcome.Found() }

// tier is one strategy of the cascade. A nil fold searches the content as is.
type tier struct {
	outcome domain.MatchOutcome
	fold    foldFunc
}

// cascade is tried in order; the first tier that yields a free span wins.
var cascade = []tier{
	{outcome: domain.MatchExact},
	{outcome: domain.MatchCaseInsensitive, fold: foldCase},
	{outcome: domain.MatchAccentInsensitive, fold: foldAccents},
}

// Locator finds surface forms in one normalized text. Folded views of the
// text are built on first use and reused across calls.
// A Locator is not safe for concurrent use.
type Locator struct {
	content string
	views   []*foldedText
}

// NewLocator returns a Locator over content, which must already be normalized.
func NewLocator(content string) *Locator {
	return &Locator{content: content, views: make([]*foldedText, len(cascade))}
}

// Locate is a one-shot NewLocator(content).Locate(needle, excl).
func Locate(content, needle string, excl Exclusions) Match {
	return NewLocator(content).Locate(needle, excl)
}

// Locate runs the cascade for needle. Within each tier occurrences are tried
// left to right, skipping those that collide with excl.
func (l *Locator) Locate(needle string, excl Exclusions) Match {
	needle = domain.NormalizeText(needle)
	if needle == "" || len(l.content) == 0 {
		return Match{Outcome: domain.MatchNotFound}
	}
	for i, t := range cascade {
		if span, ok := l.search(i, t, needle, excl); ok {
			return Match{Span: span, Outcome: t.outcome}
		}
	}
	return Match{Outcome: domain.MatchNotFound}
}

func (l *Locator) search(i int, t tier, needle string, excl Exclusions) (domain.Span, bool) {
	hay := l.content
	var view *foldedText
	if t.fold != nil {
		view = l.view(i, t.fold)
		hay = view.text
		needle = foldString(needle, t.fold)
		if needle == "" {
			return domain.Span{}, false
		}
	}

	for from := 0; from+len(needle) <= len(hay); {
		idx := strings.Index(hay[from:], needle)
		if idx < 0 {
			break
		}
		idx += from

		span := domain.Span{Start: idx, End: idx + len(needle)}
		if view != nil {
			span.Start, span.End = view.sourceSpan(span.Start, span.End)
		}
		if excl == nil || !excl.IsClaimed(span) {
			return span, true
		}

		// Retry one character after this occurrence's start.
		_, size := utf8.DecodeRuneInString(hay[idx:])
		from = idx + size
	}
	return domain.Span{}, false
}

func (l *Locator) view(i int, fold foldFunc) *foldedText {
	if l.views[i] == nil {
		v := newFoldedText(l.content, fold)
		l.views[i] = &v
	}
	return l.views[i]
}
