package refkernel

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the reference kernel Graft node.
// The node serves both ports.Kernel and ports.Tessellator.
const NodeID graft.ID = "adapter.refkernel"

func init() {
	graft.Register(graft.Node[*Kernel]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Kernel, error) {
			return New(), nil
		},
	})
}
