package opcache

import (
	"context"
	"sync"

	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/carve/internal/core/ports"
	"go.trai.ch/zerr"
)

// SpanKind is the aggregation kind of spans around kernel computations.
const SpanKind = "op"

// Execution is the per-session state an operation runs against.
type Execution struct {
	Usage    *UsageSet
	Progress *Progress
	Caching  bool
}

// Cache holds at most one shape per signature.
type Cache struct {
	kernel ports.Kernel
	tracer ports.Tracer

	mu      sync.Mutex
	entries map[domain.Signature]domain.Shape
	stats   domain.CacheStats
}

// New creates an empty Cache. Cache hits are duplicated through kernel.
func New(kernel ports.Kernel, tracer ports.Tracer) *Cache {
	return &Cache{
		kernel:  kernel,
		tracer:  tracer,
		entries: make(map[domain.Signature]domain.Shape),
	}
}

// Execute runs op through the cache. compute is called on a miss, or always
// when caching is disabled for the execution. A failing compute propagates its
// error unchanged and leaves no entry behind.
func (c *Cache) Execute(
	ctx context.Context,
	x *Execution,
	op domain.Op,
	compute func() (domain.Shape, error),
) (domain.Shape, error) {
	raw, err := Canonical(op)
	if err != nil {
		return domain.Shape{}, err
	}
	return c.ExecuteRaw(ctx, x, op.OpName(), raw, compute)
}

// ExecuteRaw is Execute for callers that build the canonical form themselves,
// such as builders accumulating a trail of chained calls.
func (c *Cache) ExecuteRaw(
	ctx context.Context,
	x *Execution,
	name, raw string,
	compute func() (domain.Shape, error),
) (domain.Shape, error) {
	sig := Sign(name, raw)
	x.Progress.Begin(name)
	x.Usage.Mark(sig)

	if x.Caching {
		if cached, ok := c.lookup(sig); ok {
			h, err := c.kernel.Duplicate(cached.Handle)
			if err != nil {
				return domain.Shape{}, zerr.With(zerr.Wrap(err, "failed to duplicate cached shape"), "signature", sig.String())
			}
			x.Progress.End()
			return domain.Shape{Handle: h, Signature: sig}, nil
		}
	}

	c.mu.Lock()
	c.stats.Misses++
	c.mu.Unlock()

	_, span := c.tracer.Start(ctx, name, ports.WithKind(SpanKind))
	span.SetAttribute("carve.signature", sig.String())
	shape, err := compute()
	if err != nil {
		span.RecordError(err)
		span.End()
		return domain.Shape{}, err
	}
	span.End()

	shape.Signature = sig
	if x.Caching {
		c.mu.Lock()
		c.entries[sig] = shape
		c.mu.Unlock()
	}
	x.Progress.End()
	return shape, nil
}

func (c *Cache) lookup(sig domain.Signature) (domain.Shape, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	shape, ok := c.entries[sig]
	if ok {
		c.stats.Hits++
	}
	return shape, ok
}

// Sweep evicts every entry whose signature is not in usage and returns the
// number of evicted entries.
func (c *Cache) Sweep(usage *UsageSet) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for sig := range c.entries {
		if !usage.Has(sig) {
			delete(c.entries, sig)
			evicted++
		}
	}
	c.stats.Evictions += evicted
	return evicted
}

// Has reports whether an entry exists for sig.
func (c *Cache) Has(sig domain.Signature) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[sig]
	return ok
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Signatures returns the signatures of all entries in no particular order.
func (c *Cache) Signatures() []domain.Signature {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Signature, 0, len(c.entries))
	for sig := range c.entries {
		out = append(out, sig)
	}
	return out
}

// Handles returns the kernel handles of all entries.
func (c *Cache) Handles() []domain.Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Handle, 0, len(c.entries))
	for _, shape := range c.entries {
		out = append(out, shape.Handle)
	}
	return out
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() domain.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Entries = len(c.entries)
	return s
}
