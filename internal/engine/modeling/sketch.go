package modeling

import (
	"errors"
	"math"
	"strings"

	"github.com/goccy/go-json"
	"go.trai.ch/carve/internal/core/domain"
)

const (
	arcSegments    = 16
	filletSegments = 8
	sketchOpName   = "Sketch"
)

// Sketch builds a planar outline in the XY plane by chaining segment calls.
// Every call is appended to a trail that becomes the canonical form of the
// final shape, so a chain is cached as one operation.
type Sketch struct {
	c       *Context
	points  []domain.Vec3
	fillets map[int]float64
	trail   strings.Builder
	err     error
}

// Sketch starts an outline at start.
func (c *Context) Sketch(start [2]float64) *Sketch {
	s := &Sketch{
		c:       c,
		points:  []domain.Vec3{{start[0], start[1], 0}},
		fillets: make(map[int]float64),
	}
	s.record(sketchOpName, start)
	return s
}

// record appends a call to the trail.
func (s *Sketch) record(method string, args ...any) {
	if s.err != nil {
		return
	}
	data, err := json.Marshal(args)
	if err != nil {
		s.err = errors.Join(domain.ErrCanonicalizeFailed, err)
		return
	}
	s.trail.WriteString(method)
	s.trail.Write(data)
}

func (s *Sketch) last() domain.Vec3 {
	return s.points[len(s.points)-1]
}

// LineTo adds a straight segment to p.
func (s *Sketch) LineTo(p [2]float64) *Sketch {
	s.record("LineTo", p)
	s.points = append(s.points, domain.Vec3{p[0], p[1], 0})
	return s
}

// ArcTo adds a circular arc through mid ending at end.
func (s *Sketch) ArcTo(mid, end [2]float64) *Sketch {
	s.record("ArcTo", mid, end)
	if s.err != nil {
		return s
	}
	pts, err := arcThrough(s.last(), domain.Vec3{mid[0], mid[1], 0}, domain.Vec3{end[0], end[1], 0})
	if err != nil {
		s.err = err
		return s
	}
	s.points = append(s.points, pts...)
	return s
}

// Fillet rounds the corner at the current point with radius. The corner is
// cut when the outline ends.
func (s *Sketch) Fillet(radius float64) *Sketch {
	s.record("Fillet", radius)
	if radius <= 0 {
		s.err = invalidArg("fillet radius must be positive, got %g", radius)
		return s
	}
	s.fillets[len(s.points)-1] = radius
	return s
}

// End finishes the outline. A closed outline becomes a face, an open one a wire.
func (s *Sketch) End(closed bool) (domain.Shape, error) {
	s.record("End", closed)
	if s.err != nil {
		return domain.Shape{}, s.err
	}
	points := s.points
	if closed && len(points) > 1 && near(points[0], points[len(points)-1]) {
		points = points[:len(points)-1]
		if r, ok := s.fillets[len(points)]; ok {
			s.fillets[0] = r
		}
	}
	if len(points) < 2 || (closed && len(points) < 3) {
		return domain.Shape{}, invalidArg("sketch has too few points (%d)", len(points))
	}
	points, err := applyFillets(points, s.fillets, closed)
	if err != nil {
		return domain.Shape{}, err
	}

	op := domain.PolygonOp{Points: points, Wire: !closed}
	shape, err := s.c.cache.ExecuteRaw(s.c.ctx, s.c.exec, sketchOpName, s.trail.String(), func() (domain.Shape, error) {
		h, err := s.c.kernel.Build(op)
		if err != nil {
			return domain.Shape{}, err
		}
		return domain.Shape{Handle: h}, nil
	})
	if err != nil {
		return domain.Shape{}, err
	}
	s.c.scene.Add(shape)
	return shape, nil
}

// Trail returns the canonical form accumulated so far.
func (s *Sketch) Trail() string {
	return s.trail.String()
}

func near(a, b domain.Vec3) bool {
	return a.Sub(b).Len() < 1e-9
}

// arcThrough samples the circle through a, m and b from a to b, excluding a.
func arcThrough(a, m, b domain.Vec3) ([]domain.Vec3, error) {
	d := 2 * (a[0]*(m[1]-b[1]) + m[0]*(b[1]-a[1]) + b[0]*(a[1]-m[1]))
	if math.Abs(d) < 1e-12 {
		return nil, invalidArg("arc points are collinear")
	}
	sq := func(p domain.Vec3) float64 { return p[0]*p[0] + p[1]*p[1] }
	center := domain.Vec3{
		(sq(a)*(m[1]-b[1]) + sq(m)*(b[1]-a[1]) + sq(b)*(a[1]-m[1])) / d,
		(sq(a)*(b[0]-m[0]) + sq(m)*(a[0]-b[0]) + sq(b)*(m[0]-a[0])) / d,
		0,
	}
	radius := a.Sub(center).Len()
	angle := func(p domain.Vec3) float64 { return math.Atan2(p[1]-center[1], p[0]-center[0]) }
	start, mid, end := angle(a), angle(m), angle(b)

	// Sweep counter-clockwise unless the mid point lies on the clockwise side.
	sweep := normalizeAngle(end - start)
	if normalizeAngle(mid-start) > sweep {
		sweep -= 2 * math.Pi
	}

	out := make([]domain.Vec3, 0, arcSegments)
	for i := 1; i <= arcSegments; i++ {
		t := start + sweep*float64(i)/arcSegments
		out = append(out, domain.Vec3{center[0] + radius*math.Cos(t), center[1] + radius*math.Sin(t), 0})
	}
	out[len(out)-1] = b
	return out, nil
}

// normalizeAngle maps a to [0, 2π).
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// applyFillets replaces every filleted corner with a tangent arc.
func applyFillets(points []domain.Vec3, fillets map[int]float64, closed bool) ([]domain.Vec3, error) {
	if len(fillets) == 0 {
		return points, nil
	}
	n := len(points)
	out := make([]domain.Vec3, 0, n+len(fillets)*filletSegments)
	for i, p := range points {
		r, ok := fillets[i]
		if !ok {
			out = append(out, p)
			continue
		}
		if !closed && (i == 0 || i == n-1) {
			return nil, invalidArg("cannot fillet the end of an open sketch")
		}
		prev, next := points[(i-1+n)%n], points[(i+1)%n]
		arc, err := filletCorner(prev, p, next, r)
		if err != nil {
			return nil, err
		}
		out = append(out, arc...)
	}
	return out, nil
}

func filletCorner(prev, p, next domain.Vec3, r float64) ([]domain.Vec3, error) {
	u, v := prev.Sub(p), next.Sub(p)
	lu, lv := u.Len(), v.Len()
	u, v = u.Unit(), v.Unit()
	theta := math.Acos(math.Max(-1, math.Min(1, u.Dot(v))))
	if theta < 1e-9 || math.Pi-theta < 1e-9 {
		return nil, invalidArg("cannot fillet a straight or folded corner")
	}
	dist := r / math.Tan(theta/2)
	if dist > lu || dist > lv {
		return nil, invalidArg("fillet radius %g does not fit the corner", r)
	}
	t1, t2 := p.Add(u.Scale(dist)), p.Add(v.Scale(dist))
	center := p.Add(u.Add(v).Unit().Scale(r / math.Sin(theta/2)))

	a1 := math.Atan2(t1[1]-center[1], t1[0]-center[0])
	a2 := math.Atan2(t2[1]-center[1], t2[0]-center[0])
	sweep := normalizeAngle(a2 - a1)
	if sweep > math.Pi {
		sweep -= 2 * math.Pi
	}
	out := make([]domain.Vec3, 0, filletSegments+1)
	for i := 0; i <= filletSegments; i++ {
		t := a1 + sweep*float64(i)/filletSegments
		out = append(out, domain.Vec3{center[0] + r*math.Cos(t), center[1] + r*math.Sin(t), 0})
	}
	return out, nil
}
