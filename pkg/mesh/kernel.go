// Package mesh provides the geometry collaborator for Armature: primitive
// solid construction on top of the sdfx SDF kernel, triangle extraction,
// and the summary statistics (counts, bounds, manifoldness) the part model
// carries. The core never walks triangle data; it only reads the summary
// this package produces.
package mesh

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// defaultCells controls marching cubes tessellation resolution.
const defaultCells = 64

// Solid is an opaque handle to a kernel solid.
type Solid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s Solid) BoundingBox() (min, max v3.Vec) {
	bb := s.s.BoundingBox()
	return bb.Min, bb.Max
}

// Kernel builds and meshes solids. The zero value is not usable; call New.
type Kernel struct {
	cells int
}

// New returns a Kernel with the default tessellation resolution.
func New() *Kernel {
	return &Kernel{cells: defaultCells}
}

// Box creates a box with the given dimensions, centered at the origin.
func (k *Kernel) Box(x, y, z float64) (Solid, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return Solid{}, fmt.Errorf("mesh: box: %w", err)
	}
	return Solid{s: s}, nil
}

// Cylinder creates a cylinder with the given height and radius, centered
// at the origin with its axis along Z.
func (k *Kernel) Cylinder(height, radius float64) (Solid, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return Solid{}, fmt.Errorf("mesh: cylinder: %w", err)
	}
	return Solid{s: s}, nil
}

// Sphere creates a sphere with the given radius, centered at the origin.
func (k *Kernel) Sphere(radius float64) (Solid, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return Solid{}, fmt.Errorf("mesh: sphere: %w", err)
	}
	return Solid{s: s}, nil
}

// Union returns the union of two solids.
func (k *Kernel) Union(a, b Solid) Solid {
	return Solid{s: sdf.Union3D(a.s, b.s)}
}

// Difference returns the difference a - b.
func (k *Kernel) Difference(a, b Solid) Solid {
	return Solid{s: sdf.Difference3D(a.s, b.s)}
}

// Translate moves a solid by the given offset.
func (k *Kernel) Translate(s Solid, offset v3.Vec) Solid {
	return Solid{s: sdf.Transform3D(s.s, sdf.Translate3d(offset))}
}

// Rotate rotates a solid by Euler angles in degrees around X, Y, Z.
func (k *Kernel) Rotate(s Solid, angles v3.Vec) Solid {
	xRad := angles.X * math.Pi / 180.0
	yRad := angles.Y * math.Pi / 180.0
	zRad := angles.Z * math.Pi / 180.0
	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return Solid{s: sdf.Transform3D(s.s, m)}
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *Kernel) ToMesh(s Solid) *Mesh {
	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(s.s, renderer)

	m := &Mesh{
		Vertices: make([]float32, 0, len(triangles)*9),
		Indices:  make([]uint32, 0, len(triangles)*3),
	}
	for i, tri := range triangles {
		for j := 0; j < 3; j++ {
			v := tri[j]
			m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			m.Indices = append(m.Indices, uint32(i*3+j))
		}
	}
	return m
}
