package compile

import (
	"fmt"

	"github.com/chazu/armature/pkg/artic"
	"github.com/chazu/armature/pkg/scene"
)

// Finding codes produced during resolution. These join the validator's
// codes in the same report.
const (
	CodeMissingRestPose    = "MISSING_REST_POSE"
	CodeRestitutionClamped = "RESTITUTION_CLAMPED"
	CodeFrictionOrder      = "FRICTION_ORDER"
	CodeExactMeshUnstable  = "EXACT_MESH_UNSTABLE"
)

// PhysicsResolver converts a part's declarative physics attributes into the
// concrete blocks the scene schema carries. All methods are pure; resolving
// the same part twice yields identical blocks.
type PhysicsResolver struct{}

// ResolveMass selects the mass mode for a part. An explicit mass is emitted
// verbatim with density left unspecified. A density is emitted alone: the
// downstream engine derives mass from density and mesh volume at load time,
// this core never integrates volume itself. A part with neither falls back
// to the default density.
func (PhysicsResolver) ResolveMass(p *artic.Part) *scene.MassBlock {
	block := &scene.MassBlock{
		Mode:         scene.MassModeDensity,
		Density:      artic.DefaultDensity,
		CenterOfMass: p.CenterOfMass,
	}
	switch m := p.Mass.(type) {
	case artic.ManualMass:
		block.Mode = scene.MassModeExplicit
		block.Mass = float64(m)
		block.Density = 0
	case artic.AutoDensity:
		block.Density = float64(m)
	}
	return block
}

// ResolveCollision maps the authored collision approximation to its
// downstream tag. The mapping follows the engine's convention where an
// approximation of "none" means the exact triangle mesh is used; an
// authored approximation of none means no collision at all and yields a nil
// block. Exact-mesh collision on geometry not known to be manifold is
// flagged as a warning since it tends to destabilize simulation.
func (PhysicsResolver) ResolveCollision(p *artic.Part, rep *artic.Report) *scene.CollisionBlock {
	switch p.Collision {
	case artic.CollisionNone:
		return nil
	case artic.CollisionConvexHull:
		return &scene.CollisionBlock{Approximation: "convexHull"}
	case artic.CollisionConvexDecomposition:
		return &scene.CollisionBlock{Approximation: "convexDecomposition"}
	case artic.CollisionExactMesh:
		if p.Geometry == nil || !p.Geometry.Manifold {
			rep.AddWarning(CodeExactMeshUnstable,
				fmt.Sprintf("part %q uses exact mesh collision on geometry not known to be manifold; simulation may be unstable", p.ID),
				string(p.ID))
		}
		return &scene.CollisionBlock{Approximation: "none"}
	}
	return nil
}

// ResolveMaterial passes the authored material through, clamping restitution
// into [0,1]. Clamped values and a dynamic friction above the static
// friction are reported as warnings carrying the original values.
func (PhysicsResolver) ResolveMaterial(p *artic.Part, rep *artic.Report) *scene.MaterialBlock {
	m := p.Material
	block := &scene.MaterialBlock{
		StaticFriction:  m.StaticFriction,
		DynamicFriction: m.DynamicFriction,
		Restitution:     m.Restitution,
	}
	if m.Restitution < 0 || m.Restitution > 1 {
		clamped := m.Restitution
		if clamped < 0 {
			clamped = 0
		} else if clamped > 1 {
			clamped = 1
		}
		rep.AddWarning(CodeRestitutionClamped,
			fmt.Sprintf("part %q restitution %g clamped to %g", p.ID, m.Restitution, clamped),
			string(p.ID))
		block.Restitution = clamped
	}
	if m.DynamicFriction > m.StaticFriction {
		rep.AddWarning(CodeFrictionOrder,
			fmt.Sprintf("part %q dynamic friction %g exceeds static friction %g",
				p.ID, m.DynamicFriction, m.StaticFriction),
			string(p.ID))
	}
	return block
}
