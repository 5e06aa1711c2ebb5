package artic

import (
	"fmt"
	"math"
)

// Finding codes. Errors block compilation; warnings never do.
const (
	CodeDanglingReference = "DANGLING_REFERENCE"
	CodeSelfLoop          = "SELF_LOOP"
	CodeCycle             = "GRAPH_CYCLE"
	CodeMultipleBases     = "MULTIPLE_BASES"
	CodeUngrounded        = "UNGROUNDED_COMPONENT"
	CodeZeroAxis          = "ZERO_AXIS"
	CodeInvalidLimits     = "INVALID_LIMITS"
	CodeMobilityMismatch  = "MOBILITY_MISMATCH"
)

// Finding describes a single validation result. Entities carries the ids of
// the parts and/or joints involved so the editing layer can highlight them.
type Finding struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Entities []string `json:"related_entity_ids,omitempty"`
}

func (f Finding) String() string {
	if len(f.Entities) == 0 {
		return fmt.Sprintf("%s: %s", f.Code, f.Message)
	}
	return fmt.Sprintf("%s: %s %v", f.Code, f.Message, f.Entities)
}

// Report bundles the blocking errors and advisory warnings produced by
// validation and compilation.
type Report struct {
	Errors   []Finding `json:"errors"`
	Warnings []Finding `json:"warnings"`
}

// Valid reports whether compilation may proceed.
func (r *Report) Valid() bool {
	return len(r.Errors) == 0
}

// AddError appends a blocking finding.
func (r *Report) AddError(code, message string, entities ...string) {
	r.Errors = append(r.Errors, Finding{Code: code, Message: message, Entities: entities})
}

// AddWarning appends an advisory finding.
func (r *Report) AddWarning(code, message string, entities ...string) {
	r.Warnings = append(r.Warnings, Finding{Code: code, Message: message, Entities: entities})
}

// Merge appends another report's findings.
func (r *Report) Merge(other Report) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Validate runs all structural and physical consistency checks over the
// model without mutating it. The mutation API already rejects most of these
// conditions at the call site; the validator still detects them defensively
// so a model can never compile from a bad state.
func Validate(a *Articulation) Report {
	var rep Report
	validateReferences(a, &rep)
	validateSelfLoops(a, &rep)
	validateCycles(a, &rep)
	validateBases(a, &rep)
	validateAxes(a, &rep)
	validateLimits(a, &rep)
	validateMobility(a, &rep)
	return rep
}

// validateReferences checks that every joint endpoint names a known part.
func validateReferences(a *Articulation, rep *Report) {
	for _, j := range a.Joints.All() {
		if !a.Parts.Has(j.Parent) {
			rep.AddError(CodeDanglingReference,
				fmt.Sprintf("joint %q parent %q does not exist", j.Name, j.Parent),
				j.Name, string(j.Parent))
		}
		if !a.Parts.Has(j.Child) {
			rep.AddError(CodeDanglingReference,
				fmt.Sprintf("joint %q child %q does not exist", j.Name, j.Child),
				j.Name, string(j.Child))
		}
	}
}

// validateSelfLoops checks that no joint connects a part to itself.
func validateSelfLoops(a *Articulation, rep *Report) {
	for _, j := range a.Joints.All() {
		if j.Parent == j.Child {
			rep.AddError(CodeSelfLoop,
				fmt.Sprintf("joint %q connects part %q to itself", j.Name, j.Parent),
				j.Name, string(j.Parent))
		}
	}
}

// validateCycles checks that the undirected view of the joint graph is a
// forest. An articulation is a kinematic tree; a loop is a hard error.
func validateCycles(a *Articulation, rep *Report) {
	if cycle := a.Joints.DetectCycle(); cycle != nil {
		rep.AddError(CodeCycle,
			fmt.Sprintf("joints form a kinematic loop: %v", cycle),
			cycle...)
	}
}

// validateBases checks the base count per connected component: zero bases is
// an ungrounded-component warning, two or more is an error.
func validateBases(a *Articulation, rep *Report) {
	for _, component := range a.Joints.ConnectedComponents() {
		var bases []string
		for _, id := range component {
			if p := a.Parts.Get(id); p != nil && p.IsBase() {
				bases = append(bases, string(id))
			}
		}
		switch {
		case len(bases) == 0:
			ids := make([]string, len(component))
			for i, id := range component {
				ids[i] = string(id)
			}
			rep.AddWarning(CodeUngrounded,
				"component has no base part and will float un-anchored", ids...)
		case len(bases) >= 2:
			rep.AddError(CodeMultipleBases,
				"component has multiple base parts in one articulation", bases...)
		}
	}
}

// validateAxes checks that revolute/prismatic joints carry a finite,
// non-zero axis. Fixed joints have no axis to check.
func validateAxes(a *Articulation, rep *Report) {
	for _, j := range a.Joints.All() {
		if j.Type == JointFixed {
			continue
		}
		if !isFinite(j.Axis.X) || !isFinite(j.Axis.Y) || !isFinite(j.Axis.Z) {
			rep.AddError(CodeZeroAxis,
				fmt.Sprintf("joint %q axis is not finite", j.Name), j.Name)
			continue
		}
		if j.Axis.Length() == 0 {
			rep.AddError(CodeZeroAxis,
				fmt.Sprintf("joint %q axis is the zero vector", j.Name), j.Name)
		}
	}
}

// validateLimits checks lower <= upper on joints that carry limits.
// Fixed joints ignore limits entirely, authored or not.
func validateLimits(a *Articulation, rep *Report) {
	for _, j := range a.Joints.All() {
		if j.Limits == nil || j.Type == JointFixed {
			continue
		}
		if j.Limits.Lower > j.Limits.Upper {
			rep.AddError(CodeInvalidLimits,
				fmt.Sprintf("joint %q lower limit %g exceeds upper limit %g",
					j.Name, j.Limits.Lower, j.Limits.Upper),
				j.Name)
		}
	}
}

// validateMobility warns when a part's declared mobility contradicts the
// joint it hangs from. The joint's type governs simulated behavior; the
// mobility tag is documentation, so a mismatch never blocks compilation.
func validateMobility(a *Articulation, rep *Report) {
	for _, j := range a.Joints.All() {
		child := a.Parts.Get(j.Child)
		if child == nil {
			continue
		}
		fixedPart := child.Mobility == MobilityFixed
		fixedJoint := j.Type == JointFixed
		if fixedPart != fixedJoint {
			rep.AddWarning(CodeMobilityMismatch,
				fmt.Sprintf("part %q is tagged %s but is the child of a %s joint %q",
					child.ID, child.Mobility, j.Type, j.Name),
				string(child.ID), j.Name)
		}
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
