package domain

// FaceMesh is the triangulation of one indexed face.
type FaceMesh struct {
	FaceIndex int       `json:"faceIndex"`
	Vertices  []float64 `json:"vertices"`
	Normals   []float64 `json:"normals"`
	Triangles []int     `json:"triangles"`
}

// EdgeMesh is the polyline of one indexed edge.
type EdgeMesh struct {
	EdgeIndex int       `json:"edgeIndex"`
	Vertices  []float64 `json:"vertices"`
}

// Mesh is the renderable form of an accumulated scene.
type Mesh struct {
	Faces []FaceMesh `json:"faces"`
	Edges []EdgeMesh `json:"edges"`
}

// TriangleCount returns the number of triangles across all faces.
func (m Mesh) TriangleCount() int {
	n := 0
	for _, f := range m.Faces {
		n += len(f.Triangles) / 3
	}
	return n
}
