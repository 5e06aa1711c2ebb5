package artic

import "fmt"

// Articulation is the owned model value handed to the compiler: a named
// snapshot of parts and joints. The editing layer mutates it between
// exports; the compiler only ever reads it for the duration of one call.
type Articulation struct {
	Name   string
	Parts  *PartRegistry
	Joints *JointGraph
}

// New creates an empty articulation with the given display name.
func New(name string) *Articulation {
	reg := NewPartRegistry()
	return &Articulation{
		Name:   name,
		Parts:  reg,
		Joints: NewJointGraph(reg),
	}
}

// AddPart registers a part reported by the geometry collaborator.
func (a *Articulation) AddPart(p *Part) error {
	return a.Parts.Add(p)
}

// AddJoint inserts a joint edge; see JointGraph.Add for failure modes.
func (a *Articulation) AddJoint(j *Joint) error {
	return a.Joints.Add(j)
}

// RemovePart deletes a part. It fails with ErrPartReferenced while any
// joint still touches the part; the caller must remove incident joints
// first. Edges are never deleted silently.
func (a *Articulation) RemovePart(id PartID) error {
	if !a.Parts.Has(id) {
		return fmt.Errorf("%w: %q", ErrPartNotFound, id)
	}
	if a.Joints.References(id) {
		return fmt.Errorf("%w: %q", ErrPartReferenced, id)
	}
	return a.Parts.remove(id)
}

// RemoveJoint deletes a joint by name.
func (a *Articulation) RemoveJoint(name string) error {
	return a.Joints.Remove(name)
}

// Reset discards every part and joint, keeping the name. This is the only
// way to destroy parts wholesale; partial deletion goes through RemovePart.
func (a *Articulation) Reset() {
	a.Parts = NewPartRegistry()
	a.Joints = NewJointGraph(a.Parts)
}
