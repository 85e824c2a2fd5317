package telemetry

import (
	"context"
	"maps"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/carve/internal/core/domain"
)

// Bridge implements sdktrace.SpanProcessor. It aggregates the duration of
// every ended span of one kind by span name, which is the operation name for
// kernel computations.
type Bridge struct {
	kind string

	mu      sync.Mutex
	timings map[string]domain.OpTiming
}

// NewBridge returns a Bridge aggregating spans whose KindAttribute is kind.
func NewBridge(kind string) *Bridge {
	return &Bridge{
		kind:    kind,
		timings: make(map[string]domain.OpTiming),
	}
}

// OnStart is called when a span starts.
func (b *Bridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd is called when a span ends.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if !s.SpanContext().IsValid() || !b.matches(s.Attributes()) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	t := b.timings[s.Name()]
	t.Count++
	t.TotalMillis += float64(s.EndTime().Sub(s.StartTime()).Microseconds()) / 1000
	if s.Status().Code == codes.Error {
		t.Failures++
	}
	b.timings[s.Name()] = t
}

func (b *Bridge) matches(attrs []attribute.KeyValue) bool {
	for _, kv := range attrs {
		if kv.Key == KindAttribute {
			return kv.Value.AsString() == b.kind
		}
	}
	return false
}

// Timings returns a copy of the aggregated timings.
func (b *Bridge) Timings() map[string]domain.OpTiming {
	b.mu.Lock()
	defer b.mu.Unlock()
	return maps.Clone(b.timings)
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}
