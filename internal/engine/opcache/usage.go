package opcache

import "go.trai.ch/carve/internal/core/domain"

// UsageSet records the signatures touched during one session.
type UsageSet struct {
	marked map[domain.Signature]struct{}
}

// NewUsageSet returns an empty UsageSet.
func NewUsageSet() *UsageSet {
	return &UsageSet{marked: make(map[domain.Signature]struct{})}
}

// Mark records sig as used.
func (u *UsageSet) Mark(sig domain.Signature) {
	u.marked[sig] = struct{}{}
}

// Has reports whether sig was used.
func (u *UsageSet) Has(sig domain.Signature) bool {
	_, ok := u.marked[sig]
	return ok
}

// Len returns the number of distinct signatures used.
func (u *UsageSet) Len() int {
	return len(u.marked)
}

// Clear forgets every mark.
func (u *UsageSet) Clear() {
	clear(u.marked)
}
