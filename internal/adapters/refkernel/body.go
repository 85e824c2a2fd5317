package refkernel

import (
	"math"
	"slices"

	"go.trai.ch/carve/internal/core/domain"
)

const epsilon = 1e-9

// wire is a polyline. A closed wire joins its last point back to the first.
type wire struct {
	points []domain.Vec3
	closed bool
}

// body is the boundary representation of one kernel object: planar faces
// wound counter-clockwise when seen from outside, plus loose wires.
type body struct {
	kind   domain.ShapeKind
	faces  [][]domain.Vec3
	wires  []wire
	solids int
}

func (b *body) clone() *body {
	out := &body{kind: b.kind, solids: b.solids}
	out.faces = make([][]domain.Vec3, len(b.faces))
	for i, f := range b.faces {
		out.faces[i] = slices.Clone(f)
	}
	out.wires = make([]wire, len(b.wires))
	for i, w := range b.wires {
		out.wires[i] = wire{points: slices.Clone(w.points), closed: w.closed}
	}
	return out
}

// mapPoints returns a copy of b with every point transformed. Loops are
// reversed when the transform flips orientation.
func (b *body) mapPoints(fn func(domain.Vec3) domain.Vec3, flips bool) *body {
	out := b.clone()
	for _, f := range out.faces {
		for i := range f {
			f[i] = fn(f[i])
		}
		if flips {
			slices.Reverse(f)
		}
	}
	for _, w := range out.wires {
		for i := range w.points {
			w.points[i] = fn(w.points[i])
		}
	}
	return out
}

// profile returns the single loop a sweep starts from: the face of a face
// body or the first wire.
func (b *body) profile() ([]domain.Vec3, bool, bool) {
	switch {
	case len(b.faces) == 1 && len(b.wires) == 0:
		return b.faces[0], true, true
	case len(b.faces) == 0 && len(b.wires) > 0:
		return b.wires[0].points, b.wires[0].closed, false
	default:
		return nil, false, false
	}
}

type box struct {
	min, max domain.Vec3
}

func (b *body) bounds() box {
	bb := box{
		min: domain.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
		max: domain.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
	grow := func(p domain.Vec3) {
		for i := range 3 {
			bb.min[i] = math.Min(bb.min[i], p[i])
			bb.max[i] = math.Max(bb.max[i], p[i])
		}
	}
	for _, f := range b.faces {
		for _, p := range f {
			grow(p)
		}
	}
	for _, w := range b.wires {
		for _, p := range w.points {
			grow(p)
		}
	}
	return bb
}

// contains reports whether p lies inside bb. Points on the boundary count as
// inside only when inclusive is set.
func (bb box) contains(p domain.Vec3, inclusive bool) bool {
	for i := range 3 {
		if inclusive {
			if p[i] < bb.min[i]-epsilon || p[i] > bb.max[i]+epsilon {
				return false
			}
		} else if p[i] <= bb.min[i]+epsilon || p[i] >= bb.max[i]-epsilon {
			return false
		}
	}
	return true
}

func (bb box) containsAll(loop []domain.Vec3, inclusive bool) bool {
	for _, p := range loop {
		if !bb.contains(p, inclusive) {
			return false
		}
	}
	return true
}

// normal returns the unit normal of loop by Newell's method. It is zero for
// degenerate loops.
func normal(loop []domain.Vec3) domain.Vec3 {
	var n domain.Vec3
	for i, p := range loop {
		q := loop[(i+1)%len(loop)]
		n[0] += (p[1] - q[1]) * (p[2] + q[2])
		n[1] += (p[2] - q[2]) * (p[0] + q[0])
		n[2] += (p[0] - q[0]) * (p[1] + q[1])
	}
	if n.Len() < epsilon {
		return domain.Vec3{}
	}
	return n.Unit()
}

func centroid(loop []domain.Vec3) domain.Vec3 {
	var c domain.Vec3
	for _, p := range loop {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(loop)))
}

// volume returns the signed volume enclosed by the faces.
func (b *body) volume() float64 {
	v := 0.0
	for _, f := range b.faces {
		for i := 1; i+1 < len(f); i++ {
			v += f[0].Dot(f[i].Cross(f[i+1]))
		}
	}
	return v / 6
}

// orient reverses every face when the faces enclose a negative volume.
func (b *body) orient() {
	if b.volume() < 0 {
		for _, f := range b.faces {
			slices.Reverse(f)
		}
	}
}

// clean drops repeated consecutive points, including a closing duplicate.
func clean(loop []domain.Vec3) []domain.Vec3 {
	out := make([]domain.Vec3, 0, len(loop))
	for _, p := range loop {
		if len(out) > 0 && near(out[len(out)-1], p) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && near(out[0], out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}

func near(a, b domain.Vec3) bool {
	return a.Sub(b).Len() < epsilon
}

// addFace appends loop after cleaning it. Loops that collapse to fewer than
// three points are dropped.
func (b *body) addFace(loop ...domain.Vec3) {
	loop = clean(loop)
	if len(loop) >= 3 {
		b.faces = append(b.faces, loop)
	}
}

// rotation returns the rotation by degrees around axis through the origin.
func rotation(axis domain.Vec3, degrees float64) func(domain.Vec3) domain.Vec3 {
	k := axis.Unit()
	theta := degrees * math.Pi / 180
	cos, sin := math.Cos(theta), math.Sin(theta)
	return func(v domain.Vec3) domain.Vec3 {
		// Rodrigues' rotation formula.
		return v.Scale(cos).Add(k.Cross(v).Scale(sin)).Add(k.Scale(k.Dot(v) * (1 - cos)))
	}
}

// topology walks b the way ports.Kernel.Explore reports it.
func (b *body) topology() domain.Topology {
	topo := domain.Topology{Kind: b.kind, Solids: b.solids, Wires: len(b.wires)}
	seenVertex := make(map[uint64]bool)
	seenEdge := make(map[uint64]bool)
	addVertex := func(p domain.Vec3) {
		k := domain.Edge{Start: p, End: p}.Key()
		if !seenVertex[k] {
			seenVertex[k] = true
			topo.Vertices = append(topo.Vertices, p)
		}
	}
	addEdge := func(a, c domain.Vec3) {
		e := domain.Edge{Start: a, End: c}
		if k := e.Key(); !seenEdge[k] {
			seenEdge[k] = true
			topo.Edges = append(topo.Edges, e)
		}
	}
	for _, f := range b.faces {
		for i, p := range f {
			addVertex(p)
			addEdge(p, f[(i+1)%len(f)])
		}
		topo.Faces = append(topo.Faces, domain.Face{Loop: slices.Clone(f), Normal: normal(f)})
	}
	for _, w := range b.wires {
		for i, p := range w.points {
			addVertex(p)
			if i+1 < len(w.points) {
				addEdge(p, w.points[i+1])
			}
		}
		if w.closed && len(w.points) > 2 {
			addEdge(w.points[len(w.points)-1], w.points[0])
		}
	}
	return topo
}
