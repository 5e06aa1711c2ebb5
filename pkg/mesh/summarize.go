package mesh

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/armature/pkg/artic"
)

// Summarize reduces a triangle mesh to the summary the part model carries:
// welded vertex count, face count, axis-aligned bounds, and whether the
// surface is watertight. An empty mesh summarizes to the zero value with
// Manifold false.
func Summarize(m *Mesh) artic.GeometryInfo {
	if m == nil || m.IsEmpty() {
		return artic.GeometryInfo{}
	}

	// Weld vertices by exact position. Marching cubes emits one vertex per
	// triangle corner, so positional welding is required before any edge
	// counting is meaningful.
	type key [3]float32
	weld := make(map[key]int)
	remap := make([]int, m.VertexCount())
	min := v3.Vec{X: float64(m.Vertices[0]), Y: float64(m.Vertices[1]), Z: float64(m.Vertices[2])}
	max := min
	for i := 0; i < m.VertexCount(); i++ {
		x, y, z := m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]
		k := key{x, y, z}
		id, ok := weld[k]
		if !ok {
			id = len(weld)
			weld[k] = id
		}
		remap[i] = id

		min.X = minf(min.X, float64(x))
		min.Y = minf(min.Y, float64(y))
		min.Z = minf(min.Z, float64(z))
		max.X = maxf(max.X, float64(x))
		max.Y = maxf(max.Y, float64(y))
		max.Z = maxf(max.Z, float64(z))
	}

	return artic.GeometryInfo{
		VertexCount: len(weld),
		FaceCount:   m.TriangleCount(),
		BoundsMin:   min,
		BoundsMax:   max,
		Manifold:    isManifold(m, remap),
	}
}

// isManifold reports whether every edge of the welded mesh is shared by
// exactly two triangles.
func isManifold(m *Mesh, remap []int) bool {
	type edge struct{ a, b int }
	count := make(map[edge]int)

	for t := 0; t < m.TriangleCount(); t++ {
		i0 := remap[m.Indices[t*3]]
		i1 := remap[m.Indices[t*3+1]]
		i2 := remap[m.Indices[t*3+2]]
		if i0 == i1 || i1 == i2 || i2 == i0 {
			return false // degenerate triangle
		}
		for _, e := range [3]edge{{i0, i1}, {i1, i2}, {i2, i0}} {
			if e.a > e.b {
				e.a, e.b = e.b, e.a
			}
			count[e]++
		}
	}

	for _, n := range count {
		if n != 2 {
			return false
		}
	}
	return true
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
