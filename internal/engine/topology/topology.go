// Package topology combines the shapes of a finished evaluation and indexes
// their shared edges and faces.
package topology

import (
	"errors"
	"fmt"

	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/carve/internal/core/ports"
	"go.trai.ch/carve/internal/engine/opcache"
	"go.trai.ch/zerr"
)

// Accumulation is the combined scene handed to the tessellator.
type Accumulation struct {
	// Compound holds every accepted shape. It is null when nothing was accepted.
	Compound domain.Shape
	// Shapes is the number of accepted shapes.
	Shapes int
	// Skipped is the number of malformed shapes that were left out.
	Skipped int
	// EdgeIndex maps an edge Key to the index of its first occurrence.
	EdgeIndex map[uint64]int
	// FaceIndex maps a face Key to the index of its first occurrence.
	FaceIndex map[uint64]int
	// EdgeCount is the number of distinct edges.
	EdgeCount int
	// FaceCount is the number of faces, counting every occurrence.
	FaceCount int
}

// Empty reports whether the accumulation holds no shapes.
func (a *Accumulation) Empty() bool {
	return a.Shapes == 0
}

// Deduplicator walks shapes through the kernel.
type Deduplicator struct {
	kernel ports.Kernel
	logger ports.Logger
}

// New creates a Deduplicator.
func New(kernel ports.Kernel, logger ports.Logger) *Deduplicator {
	return &Deduplicator{kernel: kernel, logger: logger}
}

// Accumulate indexes the topology of shapes in order and combines them into a
// single compound. Malformed shapes are skipped with a warning. An empty input
// yields an empty Accumulation, not an error.
func (d *Deduplicator) Accumulate(shapes []domain.Shape) (*Accumulation, error) {
	acc := &Accumulation{
		EdgeIndex: make(map[uint64]int),
		FaceIndex: make(map[uint64]int),
	}
	if len(shapes) == 0 {
		d.logger.Warn(domain.ErrNoShapes.Error())
		return acc, nil
	}

	accepted := make([]domain.Shape, 0, len(shapes))
	for i, s := range shapes {
		topo, err := d.explore(s)
		if err != nil {
			acc.Skipped++
			d.logger.Warn(fmt.Sprintf("skipping shape %d (signature %s): %v", i, s.Signature, err))
			continue
		}
		for _, e := range topo.Edges {
			k := e.Key()
			if _, ok := acc.EdgeIndex[k]; !ok {
				acc.EdgeIndex[k] = acc.EdgeCount
				acc.EdgeCount++
			}
		}
		for _, f := range topo.Faces {
			k := f.Key()
			if _, ok := acc.FaceIndex[k]; !ok {
				acc.FaceIndex[k] = acc.FaceCount
			}
			acc.FaceCount++
		}
		accepted = append(accepted, s)
	}

	acc.Shapes = len(accepted)
	if acc.Empty() {
		d.logger.Warn(domain.ErrNoShapes.Error())
		return acc, nil
	}

	op := domain.CompoundOp{Shapes: accepted}
	h, err := d.combine(op)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to combine shapes")
	}
	sig, err := opcache.SignOp(op)
	if err != nil {
		return nil, err
	}
	acc.Compound = domain.Shape{Handle: h, Signature: sig}
	return acc, nil
}

// combine builds the compound. A kernel panic is returned as an error.
func (d *Deduplicator) combine(op domain.CompoundOp) (h domain.Handle, err error) {
	defer func() {
		if r := recover(); r != nil {
			h, err = domain.NoHandle, errors.Join(domain.ErrKernelPanic, fmt.Errorf("%v", r))
		}
	}()
	return d.kernel.Build(op)
}

func (d *Deduplicator) explore(s domain.Shape) (topo domain.Topology, err error) {
	defer func() {
		if r := recover(); r != nil {
			topo = domain.Topology{}
			err = errors.Join(domain.ErrMalformedShape, domain.ErrKernelPanic, fmt.Errorf("%v", r))
		}
	}()
	if s.IsNull() {
		return domain.Topology{}, zerr.With(domain.ErrMalformedShape, "reason", "null shape")
	}
	topo, err = d.kernel.Explore(s.Handle)
	if err != nil {
		return domain.Topology{}, errors.Join(domain.ErrMalformedShape, err)
	}
	if topo.Kind == domain.KindInvalid || topo.Kind == domain.KindVertex {
		return domain.Topology{}, zerr.With(domain.ErrMalformedShape, "kind", topo.Kind.String())
	}
	if topo.Solids == 0 && topo.Wires == 0 && len(topo.Faces) == 0 {
		return domain.Topology{}, zerr.With(domain.ErrMalformedShape, "reason", "no solids, wires or faces")
	}
	return topo, nil
}
