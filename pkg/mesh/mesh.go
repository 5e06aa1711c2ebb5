package mesh

// Mesh is a flat triangle mesh: Vertices has 3 floats per vertex (x,y,z),
// Indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"`
	Indices  []uint32  `json:"indices"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}
