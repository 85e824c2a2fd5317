package export

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/carve/internal/core/ports"
)

// NodeID is the unique identifier for the exporter Graft node.
const NodeID graft.ID = "adapter.export"

func init() {
	graft.Register(graft.Node[ports.Exporter]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Exporter, error) {
			return New(), nil
		},
	})
}
