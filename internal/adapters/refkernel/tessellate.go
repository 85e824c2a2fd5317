package refkernel

import (
	"math"

	"go.trai.ch/carve/internal/core/domain"
)

// Tessellate triangulates every face of shape and lists its edges, tagging
// both with the indices the topology pass assigned. Faces are planar, so the
// triangulation is exact for any positive maxDeviation.
func (k *Kernel) Tessellate(
	shape domain.Shape,
	maxDeviation float64,
	edgeIndex, faceIndex map[uint64]int,
) (domain.Mesh, error) {
	if maxDeviation <= 0 {
		return domain.Mesh{}, invalid("maximum deviation must be positive, got %g", maxDeviation)
	}
	b, err := k.shape(shape)
	if err != nil {
		return domain.Mesh{}, err
	}
	topo := b.topology()

	mesh := domain.Mesh{
		Faces: make([]domain.FaceMesh, 0, len(topo.Faces)),
		Edges: make([]domain.EdgeMesh, 0, len(topo.Edges)),
	}
	for _, f := range topo.Faces {
		fm := domain.FaceMesh{
			FaceIndex: lookupIndex(faceIndex, f.Key()),
			Vertices:  make([]float64, 0, 3*len(f.Loop)),
			Normals:   make([]float64, 0, 3*len(f.Loop)),
			Triangles: triangulate(f.Loop, f.Normal),
		}
		for _, p := range f.Loop {
			fm.Vertices = append(fm.Vertices, p[:]...)
			fm.Normals = append(fm.Normals, f.Normal[:]...)
		}
		mesh.Faces = append(mesh.Faces, fm)
	}
	for _, e := range topo.Edges {
		mesh.Edges = append(mesh.Edges, domain.EdgeMesh{
			EdgeIndex: lookupIndex(edgeIndex, e.Key()),
			Vertices:  []float64{e.Start[0], e.Start[1], e.Start[2], e.End[0], e.End[1], e.End[2]},
		})
	}
	return mesh, nil
}

func lookupIndex(index map[uint64]int, key uint64) int {
	if i, ok := index[key]; ok {
		return i
	}
	return -1
}

// triangulate ear-clips a planar loop and returns vertex index triples.
func triangulate(loop []domain.Vec3, n domain.Vec3) []int {
	if len(loop) < 3 {
		return nil
	}
	pts := project(loop, n)
	idx := make([]int, len(loop))
	for i := range idx {
		idx[i] = i
	}

	tris := make([]int, 0, 3*(len(loop)-2))
	for len(idx) > 3 {
		ear := -1
		for i := range idx {
			a, b, c := idx[(i+len(idx)-1)%len(idx)], idx[i], idx[(i+1)%len(idx)]
			if cross2(pts[a], pts[b], pts[c]) <= epsilon {
				continue
			}
			if !anyInside(pts, idx, a, b, c) {
				ear = i
				break
			}
		}
		if ear < 0 {
			// Self-intersecting or degenerate: fan the rest.
			for i := 1; i+1 < len(idx); i++ {
				tris = append(tris, idx[0], idx[i], idx[i+1])
			}
			return tris
		}
		m := len(idx)
		tris = append(tris, idx[(ear+m-1)%m], idx[ear], idx[(ear+1)%m])
		idx = append(idx[:ear], idx[ear+1:]...)
	}
	return append(tris, idx[0], idx[1], idx[2])
}

// project drops the dominant axis of n, keeping counter-clockwise loops
// counter-clockwise.
func project(loop []domain.Vec3, n domain.Vec3) [][2]float64 {
	axis := 2
	if math.Abs(n[0]) > math.Abs(n[1]) && math.Abs(n[0]) > math.Abs(n[2]) {
		axis = 0
	} else if math.Abs(n[1]) > math.Abs(n[2]) {
		axis = 1
	}
	u, v := (axis+1)%3, (axis+2)%3
	if n[axis] < 0 {
		u, v = v, u
	}
	out := make([][2]float64, len(loop))
	for i, p := range loop {
		out[i] = [2]float64{p[u], p[v]}
	}
	return out
}

func cross2(a, b, c [2]float64) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func anyInside(pts [][2]float64, idx []int, a, b, c int) bool {
	for _, i := range idx {
		if i == a || i == b || i == c {
			continue
		}
		p := pts[i]
		if cross2(pts[a], pts[b], p) > epsilon && cross2(pts[b], pts[c], p) > epsilon && cross2(pts[c], pts[a], p) > epsilon {
			return true
		}
	}
	return false
}
