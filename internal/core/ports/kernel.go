// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/carve/internal/core/domain"
)

// Kernel is the geometry kernel that owns every shape.
//
// All calls are synchronous and fallible. Handles stay valid for the lifetime
// of the kernel unless it also implements Reclaimer.
//
//go:generate mockgen -source=kernel.go -destination=mocks/mock_kernel.go -package=mocks
type Kernel interface {
	// Init prepares the kernel. It is called once before any other method.
	Init(ctx context.Context) error

	// Build executes the operation and returns the handle of the new shape.
	// Input shapes are read from the handles embedded in op.
	Build(op domain.Op) (domain.Handle, error)

	// Duplicate returns a new handle holding an independent copy of h.
	Duplicate(h domain.Handle) (domain.Handle, error)

	// Explore walks the boundary representation of h.
	Explore(h domain.Handle) (domain.Topology, error)
}

// Tessellator turns shapes into renderable meshes.
type Tessellator interface {
	// Tessellate meshes the shape within maxDeviation. Edge and face meshes are
	// labelled with the indices found in edgeIndex and faceIndex under the
	// element's Key.
	Tessellate(
		shape domain.Shape,
		maxDeviation float64,
		edgeIndex, faceIndex map[uint64]int,
	) (domain.Mesh, error)
}

// Reclaimer is implemented by kernels that can free objects. The worker calls
// Retain after every evaluation with the handles it still holds.
type Reclaimer interface {
	// Retain frees every object not in live and returns how many were freed.
	Retain(live []domain.Handle) int
}
