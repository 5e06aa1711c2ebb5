package artic

import "fmt"

// PartRegistry owns the set of parts. Parts keep their insertion order so
// downstream output is reproducible across runs on the same input.
type PartRegistry struct {
	parts []*Part
	index map[PartID]*Part
}

// NewPartRegistry creates an empty registry.
func NewPartRegistry() *PartRegistry {
	return &PartRegistry{
		index: make(map[PartID]*Part),
	}
}

// Add registers a part. The part's ID must be unique.
func (r *PartRegistry) Add(p *Part) error {
	if p.ID == "" {
		return fmt.Errorf("artic: part has empty id")
	}
	if _, exists := r.index[p.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicatePart, p.ID)
	}
	r.parts = append(r.parts, p)
	r.index[p.ID] = p
	return nil
}

// Get returns the part with the given id, or nil.
func (r *PartRegistry) Get(id PartID) *Part {
	return r.index[id]
}

// Has reports whether a part with the given id exists.
func (r *PartRegistry) Has(id PartID) bool {
	_, ok := r.index[id]
	return ok
}

// All returns the parts in insertion order. The returned slice is shared;
// callers must not reorder it.
func (r *PartRegistry) All() []*Part {
	return r.parts
}

// IDs returns all part ids in insertion order.
func (r *PartRegistry) IDs() []PartID {
	ids := make([]PartID, len(r.parts))
	for i, p := range r.parts {
		ids[i] = p.ID
	}
	return ids
}

// Len returns the number of registered parts.
func (r *PartRegistry) Len() int {
	return len(r.parts)
}

// remove deletes a part by id. Referential integrity against the joint
// graph is enforced by Articulation.RemovePart, not here.
func (r *PartRegistry) remove(id PartID) error {
	if _, ok := r.index[id]; !ok {
		return fmt.Errorf("%w: %q", ErrPartNotFound, id)
	}
	delete(r.index, id)
	for i, p := range r.parts {
		if p.ID == id {
			r.parts = append(r.parts[:i], r.parts[i+1:]...)
			break
		}
	}
	return nil
}
