package artic

import "fmt"

// PartID is the stable identifier of a part. It is derived from the source
// geometry node name at load time and never changes afterwards; all
// cross-references (joints, diagnostics, selection state) use it.
type PartID string

// Category is the structural role of a part within an articulation.
type Category int

const (
	CategoryLink        Category = iota // rigid body that moves
	CategoryBase                        // fixed root of an articulation
	CategoryTool                        // end effector / tool attachment
	CategoryJointMarker                 // marker geometry for a joint location
)

func (c Category) String() string {
	switch c {
	case CategoryLink:
		return "link"
	case CategoryBase:
		return "base"
	case CategoryTool:
		return "tool"
	case CategoryJointMarker:
		return "joint-marker"
	default:
		return "unknown"
	}
}

// ParseCategory converts a category name to a Category.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "link":
		return CategoryLink, nil
	case "base":
		return CategoryBase, nil
	case "tool":
		return CategoryTool, nil
	case "joint-marker", "joint_marker":
		return CategoryJointMarker, nil
	}
	return 0, fmt.Errorf("invalid category %q, expected link/base/tool/joint-marker", s)
}

// Mobility is the declared movement capability of a part. It is a
// documentation tag: the joint whose child the part is governs the actual
// simulated behavior.
type Mobility int

const (
	MobilityFixed Mobility = iota
	MobilityRevolute
	MobilityPrismatic
)

func (m Mobility) String() string {
	switch m {
	case MobilityFixed:
		return "fixed"
	case MobilityRevolute:
		return "revolute"
	case MobilityPrismatic:
		return "prismatic"
	default:
		return "unknown"
	}
}

// ParseMobility converts a mobility name to a Mobility.
func ParseMobility(s string) (Mobility, error) {
	switch s {
	case "fixed":
		return MobilityFixed, nil
	case "revolute":
		return MobilityRevolute, nil
	case "prismatic":
		return MobilityPrismatic, nil
	}
	return 0, fmt.Errorf("invalid mobility %q, expected fixed/revolute/prismatic", s)
}

// CollisionApprox selects how a part's mesh is approximated for collision.
type CollisionApprox int

const (
	CollisionNone CollisionApprox = iota
	CollisionConvexHull
	CollisionConvexDecomposition
	CollisionExactMesh
)

func (c CollisionApprox) String() string {
	switch c {
	case CollisionNone:
		return "none"
	case CollisionConvexHull:
		return "convex-hull"
	case CollisionConvexDecomposition:
		return "convex-decomposition"
	case CollisionExactMesh:
		return "exact-mesh"
	default:
		return "unknown"
	}
}

// ParseCollisionApprox converts a collision approximation name.
func ParseCollisionApprox(s string) (CollisionApprox, error) {
	switch s {
	case "none":
		return CollisionNone, nil
	case "convex-hull", "convex_hull", "convexHull":
		return CollisionConvexHull, nil
	case "convex-decomposition", "convex_decomposition", "convexDecomposition":
		return CollisionConvexDecomposition, nil
	case "exact-mesh", "exact_mesh", "mesh":
		return CollisionExactMesh, nil
	}
	return 0, fmt.Errorf("invalid collision approximation %q", s)
}

// JointType is the kinematic kind of a joint.
type JointType int

const (
	JointFixed JointType = iota
	JointRevolute
	JointPrismatic
)

func (t JointType) String() string {
	switch t {
	case JointFixed:
		return "fixed"
	case JointRevolute:
		return "revolute"
	case JointPrismatic:
		return "prismatic"
	default:
		return "unknown"
	}
}

// ParseJointType converts a joint type name.
func ParseJointType(s string) (JointType, error) {
	switch s {
	case "fixed":
		return JointFixed, nil
	case "revolute":
		return JointRevolute, nil
	case "prismatic":
		return JointPrismatic, nil
	}
	return 0, fmt.Errorf("invalid joint type %q, expected fixed/revolute/prismatic", s)
}

// DriveType selects how a joint's drive is controlled. DriveNone means the
// joint carries no drive block at all.
type DriveType int

const (
	DriveNone DriveType = iota
	DrivePosition
	DriveVelocity
)

func (d DriveType) String() string {
	switch d {
	case DriveNone:
		return "none"
	case DrivePosition:
		return "position"
	case DriveVelocity:
		return "velocity"
	default:
		return "unknown"
	}
}

// ParseDriveType converts a drive type name.
func ParseDriveType(s string) (DriveType, error) {
	switch s {
	case "none":
		return DriveNone, nil
	case "position":
		return DrivePosition, nil
	case "velocity":
		return DriveVelocity, nil
	}
	return 0, fmt.Errorf("invalid drive type %q, expected position/velocity/none", s)
}
