package artic

import "errors"

// Sentinel errors returned by the mutation API. These are precondition
// violations reported at the call site; the validator independently detects
// the same conditions defensively should a model reach it in a bad state.
var (
	// ErrDuplicatePart indicates a part with the same ID already exists.
	ErrDuplicatePart = errors.New("artic: part id already registered")

	// ErrPartNotFound indicates a lookup or removal of an unknown part id.
	ErrPartNotFound = errors.New("artic: part not found")

	// ErrPartReferenced indicates an attempt to remove a part while one or
	// more joints still reference it. Incident joints must be removed first.
	ErrPartReferenced = errors.New("artic: part is still referenced by a joint")

	// ErrDuplicateJoint indicates a joint already connects the same ordered
	// parent/child pair, or the joint name is already taken.
	ErrDuplicateJoint = errors.New("artic: duplicate joint")

	// ErrDanglingReference indicates a joint endpoint names a part unknown
	// to the registry.
	ErrDanglingReference = errors.New("artic: joint references unknown part")

	// ErrSelfLoop indicates a joint whose parent and child are the same part.
	ErrSelfLoop = errors.New("artic: joint parent and child are the same part")

	// ErrJointNotFound indicates a removal of an unknown joint name.
	ErrJointNotFound = errors.New("artic: joint not found")
)
