package opcache

import "go.trai.ch/carve/internal/core/domain"

// Progress is the running operation counter of a session. Every change is
// reported through the emit callback.
type Progress struct {
	n    int
	emit func(domain.ProgressPayload)
}

// NewProgress returns a counter at zero. A nil emit discards reports.
func NewProgress(emit func(domain.ProgressPayload)) *Progress {
	if emit == nil {
		emit = func(domain.ProgressPayload) {}
	}
	return &Progress{emit: emit}
}

// Reset sets the counter back to zero without reporting.
func (p *Progress) Reset() {
	p.n = 0
}

// Count returns the number of operations started since the last Reset.
func (p *Progress) Count() int {
	return p.n
}

// Begin advances the counter and reports that the named operation started.
func (p *Progress) Begin(name string) {
	p.n++
	p.emit(domain.ProgressPayload{OpNumber: p.n, OpType: name})
}

// End reports that the current phase finished.
func (p *Progress) End() {
	p.emit(domain.ProgressPayload{OpNumber: p.n})
}
