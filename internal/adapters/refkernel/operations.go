package refkernel

import (
	"math"
	"slices"

	"go.trai.ch/carve/internal/core/domain"
)

func (k *Kernel) compound(op domain.CompoundOp) (*body, error) {
	parts, err := k.shapes(op.Shapes)
	if err != nil {
		return nil, err
	}
	out := &body{kind: domain.KindCompound}
	for _, p := range parts {
		c := p.clone()
		out.faces = append(out.faces, c.faces...)
		out.wires = append(out.wires, c.wires...)
		out.solids += c.solids
	}
	return out, nil
}

// merged creates the result of a boolean from the kind of its inputs.
func merged(parts []*body) *body {
	out := &body{kind: domain.KindSolid, solids: 1}
	for _, p := range parts {
		if p.kind != domain.KindSolid {
			out.kind, out.solids = domain.KindCompound, 0
		}
	}
	return out
}

func (k *Kernel) union(op domain.UnionOp) (*body, error) {
	parts, err := k.shapes(op.Shapes)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, invalid("union of nothing")
	}
	bounds := make([]box, len(parts))
	for i, p := range parts {
		bounds[i] = p.bounds()
	}
	out := merged(parts)
	for i, p := range parts {
	faces:
		for _, f := range p.faces {
			for j, bb := range bounds {
				if j != i && bb.containsAll(f, false) {
					continue faces
				}
			}
			out.faces = append(out.faces, slices.Clone(f))
		}
		for _, w := range p.wires {
			out.wires = append(out.wires, wire{points: slices.Clone(w.points), closed: w.closed})
		}
	}
	return out, nil
}

func (k *Kernel) difference(op domain.DifferenceOp) (*body, error) {
	main, err := k.shape(op.Main)
	if err != nil {
		return nil, err
	}
	tools, err := k.shapes(op.Tools)
	if err != nil {
		return nil, err
	}
	out := merged([]*body{main})
	mainBounds := main.bounds()
	toolBounds := make([]box, len(tools))
	for i, t := range tools {
		toolBounds[i] = t.bounds()
	}

faces:
	for _, f := range main.faces {
		for _, bb := range toolBounds {
			if bb.containsAll(f, false) {
				continue faces
			}
		}
		out.faces = append(out.faces, slices.Clone(f))
	}
	// Tool faces inside the main shape bound the cavity, facing inwards.
	for _, t := range tools {
		for _, f := range t.faces {
			if mainBounds.containsAll(f, true) {
				r := slices.Clone(f)
				slices.Reverse(r)
				out.faces = append(out.faces, r)
			}
		}
	}
	if len(out.faces) == 0 && len(main.faces) > 0 {
		return nil, invalid("difference removes the whole shape")
	}
	return out, nil
}

func (k *Kernel) intersection(op domain.IntersectionOp) (*body, error) {
	parts, err := k.shapes(op.Shapes)
	if err != nil {
		return nil, err
	}
	if len(parts) < 2 {
		return nil, invalid("intersection needs at least 2 shapes, got %d", len(parts))
	}
	bounds := make([]box, len(parts))
	for i, p := range parts {
		bounds[i] = p.bounds()
	}
	out := merged(parts)
	for i, p := range parts {
	faces:
		for _, f := range p.faces {
			for j, bb := range bounds {
				if j != i && !bb.containsAll(f, true) {
					continue faces
				}
			}
			out.faces = append(out.faces, slices.Clone(f))
		}
	}
	if len(out.faces) == 0 {
		return nil, invalid("shapes do not intersect")
	}
	return out, nil
}

func (k *Kernel) translate(op domain.TranslateOp) (*body, error) {
	b, err := k.shape(op.Shape)
	if err != nil {
		return nil, err
	}
	return b.mapPoints(func(p domain.Vec3) domain.Vec3 { return p.Add(op.Offset) }, false), nil
}

func (k *Kernel) rotate(op domain.RotateOp) (*body, error) {
	if op.Axis.Len() < epsilon {
		return nil, invalid("rotation axis must not be zero")
	}
	b, err := k.shape(op.Shape)
	if err != nil {
		return nil, err
	}
	return b.mapPoints(rotation(op.Axis, op.Degrees), false), nil
}

func (k *Kernel) scale(op domain.ScaleOp) (*body, error) {
	if op.Factor == 0 {
		return nil, invalid("scale factor must not be zero")
	}
	b, err := k.shape(op.Shape)
	if err != nil {
		return nil, err
	}
	return b.mapPoints(func(p domain.Vec3) domain.Vec3 { return p.Scale(op.Factor) }, op.Factor < 0), nil
}

func (k *Kernel) mirror(op domain.MirrorOp) (*body, error) {
	if op.Normal.Len() < epsilon {
		return nil, invalid("mirror normal must not be zero")
	}
	b, err := k.shape(op.Shape)
	if err != nil {
		return nil, err
	}
	n := op.Normal.Unit()
	return b.mapPoints(func(p domain.Vec3) domain.Vec3 { return p.Sub(n.Scale(2 * p.Dot(n))) }, true), nil
}

// edgeFeature validates a fillet or chamfer and returns a copy of the shape.
func (k *Kernel) edgeFeature(s domain.Shape, size float64, edges []int) (*body, error) {
	if size <= 0 {
		return nil, invalid("size must be positive, got %g", size)
	}
	b, err := k.shape(s)
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return nil, invalid("no edges selected")
	}
	n := len(b.topology().Edges)
	for _, e := range edges {
		if e < 0 || e >= n {
			return nil, invalid("edge %d out of range, shape has %d edges", e, n)
		}
	}
	return b.clone(), nil
}

// sweep joins consecutive loops with side faces and caps the ends when the
// loops are closed faces.
func sweep(loops [][]domain.Vec3, closed, capped bool) *body {
	out := &body{kind: domain.KindShell}
	for s := 0; s+1 < len(loops); s++ {
		a, b := loops[s], loops[s+1]
		n := len(a)
		for i := range n {
			j := i + 1
			if j == n {
				if !closed {
					break
				}
				j = 0
			}
			out.addFace(a[i], a[j], b[j], b[i])
		}
	}
	if capped {
		first := slices.Clone(loops[0])
		slices.Reverse(first)
		out.addFace(first...)
		out.addFace(slices.Clone(loops[len(loops)-1])...)
		out.kind, out.solids = domain.KindSolid, 1
		out.orient()
	}
	return out
}

func (k *Kernel) extrude(op domain.ExtrudeOp) (*body, error) {
	if op.Direction.Len() < epsilon {
		return nil, invalid("extrusion direction must not be zero")
	}
	b, err := k.shape(op.Face)
	if err != nil {
		return nil, err
	}
	loop, closed, isFace := b.profile()
	if loop == nil {
		return nil, invalid("extrude needs a single face or wire, got %s", b.kind)
	}
	base := slices.Clone(loop)
	if isFace && normal(base).Dot(op.Direction) < 0 {
		slices.Reverse(base)
	}
	top := make([]domain.Vec3, len(base))
	for i, p := range base {
		top[i] = p.Add(op.Direction)
	}
	return sweep([][]domain.Vec3{base, top}, closed, isFace), nil
}

func (k *Kernel) revolve(op domain.RevolveOp) (*body, error) {
	if op.Degrees == 0 || math.Abs(op.Degrees) > 360 {
		return nil, invalid("revolve angle must be in (0, 360], got %g", op.Degrees)
	}
	if op.Axis.Len() < epsilon {
		return nil, invalid("revolve axis must not be zero")
	}
	b, err := k.shape(op.Shape)
	if err != nil {
		return nil, err
	}
	loop, closed, isFace := b.profile()
	if loop == nil {
		return nil, invalid("revolve needs a single face or wire, got %s", b.kind)
	}

	full := math.Abs(op.Degrees) == 360
	steps := max(4, int(math.Ceil(math.Abs(op.Degrees)/360*roundSegments)))
	loops := make([][]domain.Vec3, 0, steps+1)
	for s := 0; s <= steps; s++ {
		if full && s == steps {
			loops = append(loops, loops[0])
			break
		}
		rot := rotation(op.Axis, op.Degrees*float64(s)/float64(steps))
		section := make([]domain.Vec3, len(loop))
		for i, p := range loop {
			section[i] = rot(p)
		}
		loops = append(loops, section)
	}

	out := sweep(loops, closed, isFace && !full)
	if isFace && full {
		out.kind, out.solids = domain.KindSolid, 1
		out.orient()
	}
	return out, nil
}

func (k *Kernel) loft(op domain.LoftOp) (*body, error) {
	parts, err := k.shapes(op.Wires)
	if err != nil {
		return nil, err
	}
	if len(parts) < 2 {
		return nil, invalid("loft needs at least 2 sections, got %d", len(parts))
	}
	loops := make([][]domain.Vec3, len(parts))
	closed := true
	for i, p := range parts {
		loop, c, _ := p.profile()
		if loop == nil {
			return nil, invalid("loft section %d is not a single face or wire", i)
		}
		if i > 0 && len(loop) != len(loops[0]) {
			return nil, invalid("loft sections must have the same number of points, got %d and %d", len(loops[0]), len(loop))
		}
		loops[i] = slices.Clone(loop)
		closed = closed && c
	}
	return sweep(loops, closed, closed), nil
}

func (k *Kernel) pipe(op domain.PipeOp) (*body, error) {
	profile, err := k.shape(op.Profile)
	if err != nil {
		return nil, err
	}
	path, err := k.shape(op.Path)
	if err != nil {
		return nil, err
	}
	loop, closed, isFace := profile.profile()
	if loop == nil {
		return nil, invalid("pipe profile must be a single face or wire, got %s", profile.kind)
	}
	spine, _, _ := path.profile()
	if len(spine) < 2 {
		return nil, invalid("pipe path must be a wire with at least 2 points")
	}

	loops := make([][]domain.Vec3, len(spine))
	for s, p := range spine {
		d := p.Sub(spine[0])
		section := make([]domain.Vec3, len(loop))
		for i, q := range loop {
			section[i] = q.Add(d)
		}
		loops[s] = section
	}
	return sweep(loops, closed, isFace), nil
}

func (k *Kernel) offset(op domain.OffsetOp) (*body, error) {
	b, err := k.shape(op.Shape)
	if err != nil {
		return nil, err
	}
	if b.kind != domain.KindSolid && b.kind != domain.KindShell {
		return nil, invalid("offset needs a solid or shell, got %s", b.kind)
	}
	if op.Distance == 0 {
		return b.clone(), nil
	}

	// Each vertex moves so that every incident face plane shifts by the distance.
	normals := make(map[[3]int64][]domain.Vec3)
	key := func(p domain.Vec3) [3]int64 {
		return [3]int64{int64(math.Round(p[0] / 1e-6)), int64(math.Round(p[1] / 1e-6)), int64(math.Round(p[2] / 1e-6))}
	}
	for _, f := range b.faces {
		n := normal(f)
		for _, p := range f {
			pk := key(p)
			if !slices.ContainsFunc(normals[pk], func(m domain.Vec3) bool { return near(m, n) }) {
				normals[pk] = append(normals[pk], n)
			}
		}
	}
	move := func(p domain.Vec3) domain.Vec3 {
		ns := normals[key(p)]
		var sum domain.Vec3
		for _, n := range ns {
			sum = sum.Add(n)
		}
		u := sum.Unit()
		lowest := 1.0
		for _, n := range ns {
			lowest = math.Min(lowest, u.Dot(n))
		}
		if lowest < epsilon {
			return p
		}
		return p.Add(u.Scale(op.Distance / lowest))
	}
	return b.mapPoints(move, false), nil
}

// removeInternal drops pairs of coincident faces with opposite orientation,
// which appear where fused shapes touch.
func (k *Kernel) removeInternal(op domain.RemoveInternalEdgesOp) (*body, error) {
	b, err := k.shape(op.Shape)
	if err != nil {
		return nil, err
	}
	out := b.clone()
	faces := make([]domain.Face, len(out.faces))
	for i, f := range out.faces {
		faces[i] = domain.Face{Loop: f, Normal: normal(f)}
	}
	drop := make([]bool, len(faces))
	for i := range faces {
		for j := i + 1; j < len(faces); j++ {
			if drop[i] || drop[j] {
				continue
			}
			if faces[i].Key() == faces[j].Key() && faces[i].Normal.Dot(faces[j].Normal) < -1+epsilon {
				drop[i], drop[j] = true, true
			}
		}
	}
	kept := out.faces[:0]
	for i, f := range out.faces {
		if !drop[i] {
			kept = append(kept, f)
		}
	}
	out.faces = kept
	return out, nil
}
