// Package scene defines the physics-scene document tree produced by the
// compiler. The tree mirrors the structure a USD physics stage expects:
// a root with stage metadata and a physics-scene block, one body node per
// part, and a joints scope holding one node per joint. Writers (see
// pkg/usda) serialize this tree; the compiler only builds it.
package scene

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// NodeKind distinguishes the node types of the document tree.
type NodeKind int

const (
	KindRoot NodeKind = iota
	KindPart
	KindScope // grouping node with no schema of its own (e.g. Joints)
	KindJoint
)

func (k NodeKind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindPart:
		return "part"
	case KindScope:
		return "scope"
	case KindJoint:
		return "joint"
	default:
		return "unknown"
	}
}

// Document is the compiled physics scene.
type Document struct {
	Root *Node
}

// Node is one prim of the document tree. Exactly the blocks matching its
// kind are non-nil.
type Node struct {
	Kind     NodeKind
	Name     string // sanitized prim name, unique among siblings
	Children []*Node

	// Root blocks
	Stage   *StageBlock
	Physics *PhysicsSceneBlock

	// Part blocks
	ArticulationRoot bool // articulation-root marker
	RigidBody        *RigidBodyBlock
	Mass             *MassBlock
	Collision        *CollisionBlock
	Material         *MaterialBlock
	Geometry         *GeometryBlock

	// Joint block
	Joint *JointBlock
}

// AddChild appends a child node and returns it.
func (n *Node) AddChild(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// Child returns the direct child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// StageBlock carries stage-level metadata.
type StageBlock struct {
	UpAxis        string  // "Z"
	MetersPerUnit float64 // 1.0
}

// PhysicsSceneBlock defines global simulation parameters.
type PhysicsSceneBlock struct {
	GravityDirection v3.Vec
	GravityMagnitude float64
}

// RigidBodyBlock marks a body as simulated. Kinematic bodies are animated
// rather than integrated; base parts are emitted kinematic.
type RigidBodyBlock struct {
	Kinematic bool
}

// MassMode selects which of the mass fields is meaningful.
type MassMode int

const (
	MassModeExplicit MassMode = iota // Mass set, Density unspecified
	MassModeDensity                  // Density set, mass derived downstream
)

// MassBlock is the resolved mass specification of a body. Exactly one of
// Mass/Density is emitted, selected by Mode.
type MassBlock struct {
	Mode         MassMode
	Mass         float64 // kg, Mode == MassModeExplicit
	Density      float64 // kg/m³, Mode == MassModeDensity
	CenterOfMass *v3.Vec // optional local-frame override
}

// CollisionBlock enables collision on a body's mesh with the given
// approximation tag ("none", "convexHull", "convexDecomposition").
type CollisionBlock struct {
	Approximation string
}

// MaterialBlock is the resolved physics material of a body.
type MaterialBlock struct {
	StaticFriction  float64
	DynamicFriction float64
	Restitution     float64
}

// GeometryBlock summarizes the externally supplied mesh for a body. The
// scene carries counts and bounds only; vertex data stays with the
// extraction collaborator.
type GeometryBlock struct {
	VertexCount int
	FaceCount   int
	BoundsMin   v3.Vec
	BoundsMax   v3.Vec
}

// JointKind is the emitted joint prim kind.
type JointKind int

const (
	JointKindFixed JointKind = iota
	JointKindRevolute
	JointKindPrismatic
)

func (k JointKind) String() string {
	switch k {
	case JointKindFixed:
		return "PhysicsFixedJoint"
	case JointKindRevolute:
		return "PhysicsRevoluteJoint"
	case JointKindPrismatic:
		return "PhysicsPrismaticJoint"
	default:
		return "PhysicsJoint"
	}
}

// LimitBlock bounds joint travel. Omitted for fixed joints.
type LimitBlock struct {
	Lower float64
	Upper float64
}

// DriveKind is the drive flavor: angular for revolute, linear for prismatic.
type DriveKind int

const (
	DriveAngular DriveKind = iota
	DriveLinear
)

func (k DriveKind) String() string {
	if k == DriveLinear {
		return "linear"
	}
	return "angular"
}

// DriveBlock carries joint motor parameters. Omitted when the authored
// drive type is none.
type DriveBlock struct {
	Kind      DriveKind
	Control   string // "position" or "velocity"
	Stiffness float64
	Damping   float64
	MaxForce  float64
}

// JointBlock is the schema payload of a joint node.
type JointBlock struct {
	Kind   JointKind
	Body0  string // prim name of the parent body
	Body1  string // prim name of the child body
	Axis   v3.Vec // unit vector; meaningful for revolute/prismatic only
	Local0 v3.Vec // anchor in the parent body's local frame
	Local1 v3.Vec // anchor in the child body's local frame
	Limits *LimitBlock
	Drive  *DriveBlock

	// FilterCollision suppresses collision response between Body0 and Body1.
	FilterCollision bool
}
