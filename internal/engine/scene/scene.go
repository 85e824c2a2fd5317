// Package scene keeps the ordered set of shapes that are live in the running
// evaluation.
package scene

import (
	"slices"

	"go.trai.ch/carve/internal/core/domain"
)

// Accumulator is the ordered sequence of leaf shapes of the build graph.
// Shapes consumed by a later operation are removed, so only the latest
// results remain.
type Accumulator struct {
	shapes []domain.Shape
}

// New returns an empty Accumulator.
func New() *Accumulator {
	return &Accumulator{}
}

// Add appends shape.
func (a *Accumulator) Add(shape domain.Shape) {
	a.shapes = append(a.shapes, shape)
}

// Remove drops the first entry that is the same kernel object with the same
// signature as shape. It reports whether an entry was removed.
func (a *Accumulator) Remove(shape domain.Shape) bool {
	i := slices.IndexFunc(a.shapes, shape.Same)
	if i < 0 {
		return false
	}
	a.shapes = slices.Delete(a.shapes, i, i+1)
	return true
}

// RemoveAll removes every shape in shapes.
func (a *Accumulator) RemoveAll(shapes []domain.Shape) {
	for _, s := range shapes {
		a.Remove(s)
	}
}

// Reset discards the whole sequence. Shapes are not released; the kernel owns them.
func (a *Accumulator) Reset() {
	a.shapes = nil
}

// Shapes returns a copy of the current sequence in insertion order.
func (a *Accumulator) Shapes() []domain.Shape {
	return slices.Clone(a.shapes)
}

// Len returns the number of live shapes.
func (a *Accumulator) Len() int {
	return len(a.shapes)
}
