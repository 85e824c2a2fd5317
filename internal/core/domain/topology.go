package domain

import (
	"cmp"
	"encoding/binary"
	"math"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// Edge is a straight boundary segment of a shape. Curved edges are reported
// as chains of segments by the kernel.
type Edge struct {
	Start Vec3
	End   Vec3
}

// Face is a planar boundary polygon of a shape.
type Face struct {
	Loop   []Vec3
	Normal Vec3
}

// Topology is the boundary representation walk of a single kernel object.
type Topology struct {
	Kind     ShapeKind
	Solids   int
	Wires    int
	Vertices []Vec3
	Edges    []Edge
	Faces    []Face
}

// identityModulus bounds edge and face identities.
const identityModulus = 100000000

// quantum is the grid geometry is snapped to before hashing, so that
// coordinates differing only by floating-point noise share an identity.
const quantum = 1e-6

// Key returns the bounded structural identity of the edge. It does not depend
// on the edge's direction.
func (e Edge) Key() uint64 {
	a, b := quantize(e.Start), quantize(e.End)
	if less(b, a) {
		a, b = b, a
	}
	d := xxhash.New()
	writeVec(d, a)
	writeVec(d, b)
	return d.Sum64() % identityModulus
}

// Key returns the bounded structural identity of the face. It does not depend
// on the loop's starting vertex or winding.
func (f Face) Key() uint64 {
	pts := make([][3]int64, len(f.Loop))
	for i, p := range f.Loop {
		pts[i] = quantize(p)
	}
	slices.SortFunc(pts, func(a, b [3]int64) int {
		for i := range 3 {
			if a[i] != b[i] {
				return cmp.Compare(a[i], b[i])
			}
		}
		return 0
	})
	d := xxhash.New()
	for _, p := range pts {
		writeVec(d, p)
	}
	return d.Sum64() % identityModulus
}

func quantize(v Vec3) [3]int64 {
	return [3]int64{
		int64(math.Round(v[0] / quantum)),
		int64(math.Round(v[1] / quantum)),
		int64(math.Round(v[2] / quantum)),
	}
}

func less(a, b [3]int64) bool {
	for i := range 3 {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func writeVec(d *xxhash.Digest, v [3]int64) {
	var buf [24]byte
	for i, c := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], uint64(c))
	}
	_, _ = d.Write(buf[:])
}
