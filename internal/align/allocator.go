package align

import "github.com/heartmarshall/frenchreader-backend/internal/domain"

// Allocator tracks the spans claimed during one reconciliation pass.
// The first claimant of a region keeps it; any later span overlapping it is
// reported as claimed. An Allocator must not outlive or be shared across passes.
type Allocator struct {
	claimed []domain.Span
}

// NewAllocator returns an empty Allocator.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// IsClaimed reports whether span overlaps a previously claimed span.
func (a *Allocator) IsClaimed(span domain.Span) bool {
	if a == nil {
		return false
	}
	for _, c := range a.claimed {
		if c.Overlaps(span) {
			return true
		}
	}
	return false
}

// Claim records span as taken.
func (a *Allocator) Claim(span domain.Span) {
	a.claimed = append(a.claimed, span)
}
