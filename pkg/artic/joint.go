package artic

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Limits bounds joint travel: degrees for revolute joints, length units for
// prismatic joints. Fixed joints ignore limits entirely.
type Limits struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Drive holds the PD-control parameters of a joint motor. Type DriveNone
// means no drive block is emitted and the remaining fields are ignored.
type Drive struct {
	Type      DriveType `json:"type"`
	Stiffness float64   `json:"stiffness"` // position gain (spring constant)
	Damping   float64   `json:"damping"`   // velocity gain
	MaxForce  float64   `json:"max_force"` // force/torque ceiling
}

// DefaultDrive returns the drive applied to new non-fixed joints,
// matching the position-control defaults of the source system.
func DefaultDrive() Drive {
	return Drive{
		Type:      DrivePosition,
		Stiffness: 1000.0,
		Damping:   100.0,
		MaxForce:  1000.0,
	}
}

// Joint is a directed kinematic edge from a parent part to a child part.
type Joint struct {
	Name   string    `json:"name"` // unique within the graph
	Parent PartID    `json:"parent"`
	Child  PartID    `json:"child"`
	Type   JointType `json:"type"`

	// Axis is the motion direction for revolute/prismatic joints. Ignored
	// for fixed joints. It is normalized at compile time; a zero vector is
	// a hard validation error.
	Axis v3.Vec `json:"axis"`

	// Anchor is the joint pivot point expressed in the child part's local
	// frame. This convention is fixed, not configurable.
	Anchor v3.Vec `json:"anchor"`

	// Limits is nil when the joint is unbounded. Ignored for fixed joints.
	Limits *Limits `json:"limits,omitempty"`

	Drive Drive `json:"drive"`

	// DisableParentCollision suppresses collision response between the two
	// connected bodies. Defaults to true for new joints.
	DisableParentCollision bool `json:"disable_parent_collision"`
}

// NewJoint creates a revolute joint between two parts with the source
// system's defaults: Z axis, ±180 degree limits, position drive, parent
// collision filtering on.
func NewJoint(name string, parent, child PartID) *Joint {
	return &Joint{
		Name:                   name,
		Parent:                 parent,
		Child:                  child,
		Type:                   JointRevolute,
		Axis:                   v3.Vec{X: 0, Y: 0, Z: 1},
		Limits:                 &Limits{Lower: -180, Upper: 180},
		Drive:                  DefaultDrive(),
		DisableParentCollision: true,
	}
}
