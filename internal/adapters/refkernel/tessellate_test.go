package refkernel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/carve/internal/core/domain"
)

func TestTessellate_Box(t *testing.T) {
	k := New()
	s := build(t, k, domain.BoxOp{X: 1, Y: 1, Z: 1})
	topo := explore(t, k, s)

	edgeIndex := make(map[uint64]int)
	for i, e := range topo.Edges {
		edgeIndex[e.Key()] = i
	}
	faceIndex := map[uint64]int{topo.Faces[0].Key(): 7}

	mesh, err := k.Tessellate(s, 0.1, edgeIndex, faceIndex)
	require.NoError(t, err)
	require.Len(t, mesh.Faces, 6)
	require.Len(t, mesh.Edges, 12)
	assert.Equal(t, 12, mesh.TriangleCount())

	assert.Equal(t, 7, mesh.Faces[0].FaceIndex)
	for _, f := range mesh.Faces[1:] {
		assert.Equal(t, -1, f.FaceIndex)
	}
	for i, e := range mesh.Edges {
		assert.Equal(t, i, e.EdgeIndex)
		assert.Len(t, e.Vertices, 6)
	}
	for _, f := range mesh.Faces {
		assert.Len(t, f.Vertices, 12)
		assert.Len(t, f.Normals, 12)
	}
}

func TestTessellate_Invalid(t *testing.T) {
	k := New()
	s := build(t, k, domain.BoxOp{X: 1, Y: 1, Z: 1})

	_, err := k.Tessellate(s, 0, nil, nil)
	require.ErrorIs(t, err, domain.ErrInvalidGeometry)

	_, err = k.Tessellate(domain.Shape{Handle: 42}, 0.1, nil, nil)
	require.ErrorIs(t, err, domain.ErrUnknownHandle)
}

func area(loop []domain.Vec3, tris []int) float64 {
	sum := 0.0
	for i := 0; i+2 < len(tris); i += 3 {
		a, b, c := loop[tris[i]], loop[tris[i+1]], loop[tris[i+2]]
		sum += b.Sub(a).Cross(c.Sub(a)).Len() / 2
	}
	return sum
}

func TestTriangulate(t *testing.T) {
	tests := []struct {
		name string
		loop []domain.Vec3
		area float64
	}{
		{
			name: "triangle",
			loop: []domain.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			area: 0.5,
		},
		{
			name: "concave L",
			loop: []domain.Vec3{{0, 0, 0}, {2, 0, 0}, {2, 1, 0}, {1, 1, 0}, {1, 2, 0}, {0, 2, 0}},
			area: 3,
		},
		{
			name: "clockwise",
			loop: []domain.Vec3{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}},
			area: 1,
		},
		{
			name: "vertical",
			loop: []domain.Vec3{{0, 0, 0}, {0, 3, 0}, {0, 3, 1}, {0, 0, 1}},
			area: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tris := triangulate(tt.loop, normal(tt.loop))
			assert.Len(t, tris, 3*(len(tt.loop)-2))
			assert.InDelta(t, tt.area, area(tt.loop, tris), 1e-9)
		})
	}
}

func TestTriangulate_Circle(t *testing.T) {
	loop := ring(1, 0, circleSegment)
	tris := triangulate(loop, normal(loop))
	polygon := float64(circleSegment) / 2 * math.Sin(2*math.Pi/circleSegment)
	assert.InDelta(t, polygon, area(loop, tris), 1e-9)
}
