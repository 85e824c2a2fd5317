package refkernel

import (
	"math"
	"slices"

	"go.trai.ch/carve/internal/core/domain"
)

const (
	sphereSlices  = 24
	sphereStacks  = 12
	roundSegments = 32
	circleSegment = 48
)

func boxBody(op domain.BoxOp) (*body, error) {
	if op.X <= 0 || op.Y <= 0 || op.Z <= 0 {
		return nil, invalid("box dimensions must be positive, got %g x %g x %g", op.X, op.Y, op.Z)
	}
	var o domain.Vec3
	if op.Centered {
		o = domain.Vec3{-op.X / 2, -op.Y / 2, -op.Z / 2}
	}
	c := [8]domain.Vec3{}
	for i := range c {
		c[i] = o.Add(domain.Vec3{
			op.X * float64((i&1)^(i>>1&1)),
			op.Y * float64(i>>1&1),
			op.Z * float64(i>>2&1),
		})
	}
	b := &body{kind: domain.KindSolid, solids: 1}
	b.addFace(c[0], c[3], c[2], c[1])
	b.addFace(c[4], c[5], c[6], c[7])
	b.addFace(c[0], c[1], c[5], c[4])
	b.addFace(c[1], c[2], c[6], c[5])
	b.addFace(c[2], c[3], c[7], c[6])
	b.addFace(c[3], c[0], c[4], c[7])
	return b, nil
}

func sphereBody(op domain.SphereOp) (*body, error) {
	if op.Radius <= 0 {
		return nil, invalid("sphere radius must be positive, got %g", op.Radius)
	}
	at := func(i, j int) domain.Vec3 {
		phi := 2 * math.Pi * float64(i%sphereSlices) / sphereSlices
		theta := math.Pi * float64(j) / sphereStacks
		if j == 0 || j == sphereStacks {
			// Poles are exact so that their facets collapse cleanly.
			return domain.Vec3{0, 0, op.Radius * math.Cos(theta)}
		}
		return domain.Vec3{
			op.Radius * math.Sin(theta) * math.Cos(phi),
			op.Radius * math.Sin(theta) * math.Sin(phi),
			op.Radius * math.Cos(theta),
		}
	}
	b := &body{kind: domain.KindSolid, solids: 1}
	for j := range sphereStacks {
		for i := range sphereSlices {
			b.addFace(at(i, j), at(i, j+1), at(i+1, j+1), at(i+1, j))
		}
	}
	return b, nil
}

// ring returns n points on a circle of radius r at height z.
func ring(r, z float64, n int) []domain.Vec3 {
	out := make([]domain.Vec3, n)
	for i := range out {
		a := 2 * math.Pi * float64(i) / float64(n)
		out[i] = domain.Vec3{r * math.Cos(a), r * math.Sin(a), z}
	}
	return out
}

// frustumBody builds cylinders and cones. A zero radius collapses that end
// to an apex.
func frustumBody(r1, r2, height float64, centered bool) (*body, error) {
	if height <= 0 {
		return nil, invalid("height must be positive, got %g", height)
	}
	if r1 < 0 || r2 < 0 || (r1 == 0 && r2 == 0) {
		return nil, invalid("radii must be non-negative and not both zero, got %g and %g", r1, r2)
	}
	z0 := 0.0
	if centered {
		z0 = -height / 2
	}
	bottom, top := ring(r1, z0, roundSegments), ring(r2, z0+height, roundSegments)

	b := &body{kind: domain.KindSolid, solids: 1}
	for i := range roundSegments {
		j := (i + 1) % roundSegments
		b.addFace(bottom[i], bottom[j], top[j], top[i])
	}
	if r2 > 0 {
		b.addFace(top...)
	}
	if r1 > 0 {
		base := slices.Clone(bottom)
		slices.Reverse(base)
		b.addFace(base...)
	}
	return b, nil
}

func polygonBody(op domain.PolygonOp) (*body, error) {
	points := clean(op.Points)
	if op.Wire {
		if len(points) < 2 {
			return nil, invalid("a wire needs at least 2 distinct points, got %d", len(points))
		}
		return &body{kind: domain.KindWire, wires: []wire{{points: points}}}, nil
	}
	if len(points) < 3 {
		return nil, invalid("a face needs at least 3 distinct points, got %d", len(points))
	}
	if normal(points) == (domain.Vec3{}) {
		return nil, invalid("polygon points are collinear")
	}
	return &body{kind: domain.KindFace, faces: [][]domain.Vec3{points}}, nil
}

func circleBody(op domain.CircleOp) (*body, error) {
	if op.Radius <= 0 {
		return nil, invalid("circle radius must be positive, got %g", op.Radius)
	}
	points := ring(op.Radius, 0, circleSegment)
	if op.Wire {
		return &body{kind: domain.KindWire, wires: []wire{{points: points, closed: true}}}, nil
	}
	return &body{kind: domain.KindFace, faces: [][]domain.Vec3{points}}, nil
}
