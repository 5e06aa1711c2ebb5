package artic

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Material holds the surface physics parameters of a part.
// DynamicFriction exceeding StaticFriction is physically dubious but not
// rejected; the validator reports it as a warning only.
type Material struct {
	StaticFriction  float64 `json:"static_friction"`
	DynamicFriction float64 `json:"dynamic_friction"`
	Restitution     float64 `json:"restitution"` // [0,1]; out-of-range input is clamped at resolve time
}

// DefaultMaterial returns the material applied to new parts.
func DefaultMaterial() Material {
	return Material{
		StaticFriction:  0.5,
		DynamicFriction: 0.5,
		Restitution:     0.0,
	}
}

// GeometryInfo is the opaque handle to externally extracted mesh data.
// The core never walks the geometry itself; it only reads these summary
// fields when resolving collision parameters and reporting diagnostics.
type GeometryInfo struct {
	VertexCount int    `json:"vertex_count"`
	FaceCount   int    `json:"face_count"`
	BoundsMin   v3.Vec `json:"bounds_min"`
	BoundsMax   v3.Vec `json:"bounds_max"`
	// Manifold reports whether the extraction collaborator believes the
	// surface is watertight. Unknown surfaces are reported as false.
	Manifold bool `json:"manifold"`
}

// Part is one rigid-body candidate corresponding to a named geometric node.
type Part struct {
	ID       PartID   `json:"id"`   // immutable, sole cross-reference key
	Name     string   `json:"name"` // display name, no uniqueness constraint
	Category Category `json:"category"`
	Mobility Mobility `json:"mobility"`

	// Mass is the tagged mass specification: ManualMass or AutoDensity.
	// A nil Mass resolves as AutoDensity(DefaultDensity).
	Mass MassSpec `json:"-"`

	Collision CollisionApprox `json:"collision"`
	Material  Material        `json:"material"`

	// CenterOfMass optionally overrides the engine-computed center of mass,
	// expressed in the part's local frame.
	CenterOfMass *v3.Vec `json:"center_of_mass,omitempty"`

	// Geometry is supplied by the mesh-extraction collaborator and is
	// read-only to this core. Nil means no geometry was reported.
	Geometry *GeometryInfo `json:"geometry,omitempty"`

	// RestPose is the part's local-to-world transform at load time, supplied
	// by the geometry collaborator. Nil means unavailable; joints touching
	// this part cannot resolve their frames.
	RestPose *sdf.M44 `json:"-"`
}

// NewPart creates a part with the defaults applied to freshly reported
// geometry nodes: link category, fixed mobility, convex hull collision.
func NewPart(id PartID, name string) *Part {
	return &Part{
		ID:        id,
		Name:      name,
		Category:  CategoryLink,
		Mobility:  MobilityFixed,
		Collision: CollisionConvexHull,
		Material:  DefaultMaterial(),
	}
}

// IsBase reports whether the part is tagged as an articulation base.
func (p *Part) IsBase() bool {
	return p.Category == CategoryBase
}
