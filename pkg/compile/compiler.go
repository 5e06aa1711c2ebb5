package compile

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/armature/pkg/artic"
	"github.com/chazu/armature/pkg/scene"
)

// DefaultModelName labels the document root when the model has no name.
const DefaultModelName = "robot"

// Compiler assembles a physics-scene document from a validated model,
// using PhysicsResolver and FrameResolver per entity.
type Compiler struct {
	physics PhysicsResolver
	frames  FrameResolver
}

// NewCompiler creates a Compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile validates the model and, if no structural error blocks it,
// produces the document plus all diagnostics. On structural errors the
// document is nil and only the report is returned.
//
// A joint whose frames cannot be resolved (missing rest pose) is the one
// soft failure: that joint alone is dropped from the document, an error is
// still recorded, and the rest of the model compiles normally.
func (c *Compiler) Compile(a *artic.Articulation) (*scene.Document, artic.Report) {
	rep := artic.Validate(a)
	if !rep.Valid() {
		return nil, rep
	}

	name := a.Name
	if name == "" {
		name = DefaultModelName
	}
	root := &scene.Node{
		Kind:  scene.KindRoot,
		Name:  SanitizeName(name),
		Stage: &scene.StageBlock{UpAxis: "Z", MetersPerUnit: 1.0},
	}
	doc := &scene.Document{Root: root}

	if a.Parts.Len() == 0 {
		return doc, rep
	}

	root.AddChild(&scene.Node{
		Kind: scene.KindScope,
		Name: "PhysicsScene",
		Physics: &scene.PhysicsSceneBlock{
			GravityDirection: v3.Vec{X: 0, Y: 0, Z: -1},
			GravityMagnitude: 9.81,
		},
	})

	namer := newUniqueNamer()
	namer.name(root.Name) // reserve
	namer.name("PhysicsScene")
	namer.name("Joints")
	primNames := make(map[artic.PartID]string, a.Parts.Len())

	components := a.Joints.ConnectedComponents()

	// Pass 1: one body node per part, components in order, parts in
	// topological (parents-before-children) order within each.
	for _, component := range components {
		jointCount := c.componentJointCount(a, component)
		for _, id := range a.Joints.TopologicalOrder(component) {
			p := a.Parts.Get(id)
			if p == nil {
				continue
			}
			prim := namer.name(p.Name)
			primNames[id] = prim
			node := &scene.Node{
				Kind:             scene.KindPart,
				Name:             prim,
				ArticulationRoot: p.IsBase() && jointCount > 0,
				RigidBody:        &scene.RigidBodyBlock{Kinematic: p.IsBase()},
				Mass:             c.physics.ResolveMass(p),
				Collision:        c.physics.ResolveCollision(p, &rep),
				Material:         c.physics.ResolveMaterial(p, &rep),
			}
			if p.Geometry != nil {
				node.Geometry = &scene.GeometryBlock{
					VertexCount: p.Geometry.VertexCount,
					FaceCount:   p.Geometry.FaceCount,
					BoundsMin:   p.Geometry.BoundsMin,
					BoundsMax:   p.Geometry.BoundsMax,
				}
			}
			root.AddChild(node)
		}
	}

	// Pass 2: joint nodes under a shared Joints scope, components in order,
	// joints in insertion order within each component.
	var joints *scene.Node
	jointNamer := newUniqueNamer()
	for _, component := range components {
		inComponent := make(map[artic.PartID]bool, len(component))
		for _, id := range component {
			inComponent[id] = true
		}
		for _, j := range a.Joints.All() {
			if !inComponent[j.Parent] {
				continue
			}
			node := c.compileJoint(a, j, primNames, jointNamer, &rep)
			if node == nil {
				continue
			}
			if joints == nil {
				joints = root.AddChild(&scene.Node{Kind: scene.KindScope, Name: "Joints"})
			}
			joints.AddChild(node)
		}
	}

	return doc, rep
}

// compileJoint emits one joint node, or nil when frame resolution fails.
func (c *Compiler) compileJoint(
	a *artic.Articulation,
	j *artic.Joint,
	primNames map[artic.PartID]string,
	namer *uniqueNamer,
	rep *artic.Report,
) *scene.Node {
	parent := a.Parts.Get(j.Parent)
	child := a.Parts.Get(j.Child)

	frames, err := c.frames.Resolve(j, parent, child)
	if err != nil {
		rep.AddError(CodeMissingRestPose, err.Error(), j.Name)
		return nil
	}

	block := &scene.JointBlock{
		Body0:           primNames[j.Parent],
		Body1:           primNames[j.Child],
		Local0:          frames.Local0,
		Local1:          frames.Local1,
		FilterCollision: j.DisableParentCollision,
	}

	switch j.Type {
	case artic.JointFixed:
		// Fixed joints have no degrees of freedom: axis, limits and drive
		// are all omitted even when authored.
		block.Kind = scene.JointKindFixed
	case artic.JointRevolute, artic.JointPrismatic:
		if j.Type == artic.JointRevolute {
			block.Kind = scene.JointKindRevolute
		} else {
			block.Kind = scene.JointKindPrismatic
		}
		block.Axis = j.Axis.Normalize()
		if j.Limits != nil {
			block.Limits = &scene.LimitBlock{Lower: j.Limits.Lower, Upper: j.Limits.Upper}
		}
		if j.Drive.Type != artic.DriveNone {
			kind := scene.DriveAngular
			if j.Type == artic.JointPrismatic {
				kind = scene.DriveLinear
			}
			block.Drive = &scene.DriveBlock{
				Kind:      kind,
				Control:   j.Drive.Type.String(),
				Stiffness: j.Drive.Stiffness,
				Damping:   j.Drive.Damping,
				MaxForce:  j.Drive.MaxForce,
			}
		}
	}

	return &scene.Node{
		Kind:  scene.KindJoint,
		Name:  namer.name(j.Name),
		Joint: block,
	}
}

// componentJointCount counts the joints whose endpoints lie in the component.
func (c *Compiler) componentJointCount(a *artic.Articulation, component []artic.PartID) int {
	inComponent := make(map[artic.PartID]bool, len(component))
	for _, id := range component {
		inComponent[id] = true
	}
	n := 0
	for _, j := range a.Joints.All() {
		if inComponent[j.Parent] && inComponent[j.Child] {
			n++
		}
	}
	return n
}
