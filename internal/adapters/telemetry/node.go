package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/carve/internal/core/ports"
	"go.trai.ch/carve/internal/engine/opcache"
)

const (
	// TracerNodeID is the unique identifier for the tracer Graft node.
	TracerNodeID graft.ID = "adapter.telemetry.tracer"
	// BridgeNodeID is the unique identifier for the timing bridge Graft node.
	BridgeNodeID graft.ID = "adapter.telemetry.bridge"
)

// InstrumentationName names the tracer of the worker.
const InstrumentationName = "go.trai.ch/carve"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Tracer, error) {
			return NewOTelTracer(InstrumentationName), nil
		},
	})

	graft.Register(graft.Node[*Bridge]{
		ID:        BridgeNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Bridge, error) {
			return NewBridge(opcache.SpanKind), nil
		},
	})
}
