package align

import (
	"sort"

	"github.com/heartmarshall/frenchreader-backend/internal/domain"
	"github.com/heartmarshall/frenchreader-backend/internal/payload"
)

// Reconcile locates every annotation of p in content and returns the
// positioned result with match statistics.
//
// content is normalized first and every span refers to result.Content.
// Words are processed nouns, verbs, adjectives, adverbs, others, and share one
// Allocator so no two word spans overlap. Expressions and grammar points are
// located without exclusions and may overlap words. Items that cannot be
// located are counted in the statistics and left out of the positioned slices.
func Reconcile(p payload.Payload, content string) domain.AnalysisResult {
	content = domain.NormalizeText(content)
	loc := NewLocator(content)

	res := domain.AnalysisResult{
		Content:   content,
		Summary:   p.Summary,
		KeyPoints: p.KeyPoints,
	}
	if res.KeyPoints == nil {
		res.KeyPoints = []string{}
	}

	alloc := NewAllocator()
	res.Words = []domain.Annotation{}
	for _, group := range p.LexicalGroups() {
		for _, item := range group {
			m := loc.Locate(item.SurfaceForm, alloc)
			res.Stats.Vocabulary.Record(m.Outcome, item.PreviewLabel())
			if !m.Found() {
				continue
			}
			alloc.Claim(m.Span)
			res.Words = append(res.Words, place(item, m))
		}
	}

	res.Expressions = locateAll(loc, p.Expressions, &res.Stats.Expressions)
	res.Grammar = locateAll(loc, p.Grammar, &res.Stats.Grammar)

	sortByStart(res.Words)
	sortByStart(res.Expressions)
	sortByStart(res.Grammar)

	res.Stats.Summarize()
	return res
}

func locateAll(loc *Locator, items []domain.Annotation, stats *domain.MatchStats) []domain.Annotation {
	out := []domain.Annotation{}
	for _, item := range items {
		m := loc.Locate(item.SurfaceForm, nil)
		stats.Record(m.Outcome, item.PreviewLabel())
		if m.Found() {
			out = append(out, place(item, m))
		}
	}
	return out
}

// place returns a copy of item carrying the match.
func place(item domain.Annotation, m Match) domain.Annotation {
	span := m.Span
	item.Span = &span
	item.Outcome = m.Outcome
	return item
}

// sortByStart orders positioned items by span start, keeping input order on ties.
func sortByStart(items []domain.Annotation) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Span.Start < items[j].Span.Start
	})
}
