package artic

import (
	"fmt"
	"sort"
)

// jointKey identifies the ordered parent/child pair of an edge.
type jointKey struct {
	parent PartID
	child  PartID
}

// JointGraph owns the set of joints and answers the structural queries used
// by validation and compilation. Joints keep their insertion order; every
// query below is deterministic for a given insertion sequence, so error
// messages and compiled output are reproducible.
type JointGraph struct {
	reg    *PartRegistry
	joints []*Joint
	byName map[string]*Joint
	byPair map[jointKey]*Joint
	serial int // feeds default joint names (joint_N)
}

// NewJointGraph creates an empty joint graph over the given part registry.
func NewJointGraph(reg *PartRegistry) *JointGraph {
	return &JointGraph{
		reg:    reg,
		byName: make(map[string]*Joint),
		byPair: make(map[jointKey]*Joint),
	}
}

// Add inserts a joint as a directed edge parent→child. A missing name is
// assigned a default (joint_N). It rejects self-loops, endpoints unknown to
// the part registry, duplicate ordered pairs, and duplicate names.
func (g *JointGraph) Add(j *Joint) error {
	if j.Parent == j.Child {
		return fmt.Errorf("%w: %q", ErrSelfLoop, j.Parent)
	}
	if !g.reg.Has(j.Parent) {
		return fmt.Errorf("%w: parent %q", ErrDanglingReference, j.Parent)
	}
	if !g.reg.Has(j.Child) {
		return fmt.Errorf("%w: child %q", ErrDanglingReference, j.Child)
	}
	key := jointKey{parent: j.Parent, child: j.Child}
	if _, exists := g.byPair[key]; exists {
		return fmt.Errorf("%w: %s -> %s", ErrDuplicateJoint, j.Parent, j.Child)
	}
	if j.Name == "" {
		// Skip serials already claimed by caller-chosen names.
		for {
			g.serial++
			j.Name = fmt.Sprintf("joint_%d", g.serial)
			if _, exists := g.byName[j.Name]; !exists {
				break
			}
		}
	}
	if _, exists := g.byName[j.Name]; exists {
		return fmt.Errorf("%w: name %q", ErrDuplicateJoint, j.Name)
	}
	g.joints = append(g.joints, j)
	g.byName[j.Name] = j
	g.byPair[key] = j
	return nil
}

// Remove deletes a joint by name.
func (g *JointGraph) Remove(name string) error {
	j, ok := g.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrJointNotFound, name)
	}
	delete(g.byName, name)
	delete(g.byPair, jointKey{parent: j.Parent, child: j.Child})
	for i, cur := range g.joints {
		if cur == j {
			g.joints = append(g.joints[:i], g.joints[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns the joint with the given name, or nil.
func (g *JointGraph) Get(name string) *Joint {
	return g.byName[name]
}

// All returns the joints in insertion order. The returned slice is shared;
// callers must not reorder it.
func (g *JointGraph) All() []*Joint {
	return g.joints
}

// Len returns the number of joints.
func (g *JointGraph) Len() int {
	return len(g.joints)
}

// References reports whether any joint touches the given part.
func (g *JointGraph) References(id PartID) bool {
	for _, j := range g.joints {
		if j.Parent == id || j.Child == id {
			return true
		}
	}
	return false
}

// Incident returns the joints touching the given part, in insertion order.
func (g *JointGraph) Incident(id PartID) []*Joint {
	var out []*Joint
	for _, j := range g.joints {
		if j.Parent == id || j.Child == id {
			out = append(out, j)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Structural queries
// ---------------------------------------------------------------------------

// ConnectedComponents partitions the registered parts into disjoint vertex
// sets, treating joints as undirected edges. Components are ordered by the
// registry position of their first member; parts within a component keep
// registry order. Isolated parts form singleton components.
func (g *JointGraph) ConnectedComponents() [][]PartID {
	ids := g.reg.IDs()
	parent := make(map[PartID]PartID, len(ids))
	for _, id := range ids {
		parent[id] = id
	}

	var find func(PartID) PartID
	find = func(u PartID) PartID {
		for parent[u] != u {
			parent[u] = parent[parent[u]] // path compression
			u = parent[u]
		}
		return u
	}

	for _, j := range g.joints {
		// Endpoints unknown to the registry are a validation finding, not a
		// structural membership; skip them here.
		if _, ok := parent[j.Parent]; !ok {
			continue
		}
		if _, ok := parent[j.Child]; !ok {
			continue
		}
		ru, rv := find(j.Parent), find(j.Child)
		if ru != rv {
			parent[ru] = rv
		}
	}

	groups := make(map[PartID][]PartID)
	var order []PartID
	for _, id := range ids {
		root := find(id)
		if _, seen := groups[root]; !seen {
			order = append(order, root)
		}
		groups[root] = append(groups[root], id)
	}

	out := make([][]PartID, 0, len(order))
	for _, root := range order {
		out = append(out, groups[root])
	}
	return out
}

// DetectCycle returns the names of the joints forming the first cycle in the
// undirected view of the graph, or nil if the graph is a forest. Edges are
// processed in insertion order, so the reported cycle is stable.
//
// A union-find over the edge list finds the first edge that closes a cycle;
// the full cycle is then recovered as the tree path between that edge's
// endpoints plus the closing edge itself.
func (g *JointGraph) DetectCycle() []string {
	parent := make(map[PartID]PartID)
	find := func(u PartID) PartID {
		for parent[u] != u {
			parent[u] = parent[parent[u]]
			u = parent[u]
		}
		return u
	}
	ensure := func(u PartID) {
		if _, ok := parent[u]; !ok {
			parent[u] = u
		}
	}

	// adjacency over accepted (non-closing) edges, for path recovery
	adj := make(map[PartID][]*Joint)

	for _, j := range g.joints {
		ensure(j.Parent)
		ensure(j.Child)
		ru, rv := find(j.Parent), find(j.Child)
		if ru == rv {
			return g.cyclePath(adj, j)
		}
		parent[ru] = rv
		adj[j.Parent] = append(adj[j.Parent], j)
		adj[j.Child] = append(adj[j.Child], j)
	}
	return nil
}

// cyclePath walks the spanning forest from closing.Parent to closing.Child
// and returns the joint names along the path plus the closing joint.
func (g *JointGraph) cyclePath(adj map[PartID][]*Joint, closing *Joint) []string {
	// BFS from the closing edge's parent endpoint to its child endpoint.
	type hop struct {
		via  *Joint
		prev PartID
	}
	from := map[PartID]hop{closing.Parent: {}}
	queue := []PartID{closing.Parent}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == closing.Child {
			break
		}
		for _, j := range adj[cur] {
			next := j.Parent
			if next == cur {
				next = j.Child
			}
			if _, seen := from[next]; seen {
				continue
			}
			from[next] = hop{via: j, prev: cur}
			queue = append(queue, next)
		}
	}

	var names []string
	for cur := closing.Child; cur != closing.Parent; {
		h := from[cur]
		if h.via == nil {
			break // disconnected; should not happen for a closing edge
		}
		names = append(names, h.via.Name)
		cur = h.prev
	}
	// Reverse so names read parent-side first, then append the closing edge.
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return append(names, closing.Name)
}

// Root returns the part the component's traversal is rooted at: the base
// part if the component has exactly one, otherwise the part with the
// lexicographically smallest id.
func (g *JointGraph) Root(component []PartID) PartID {
	var base PartID
	baseCount := 0
	for _, id := range component {
		if p := g.reg.Get(id); p != nil && p.IsBase() {
			base = id
			baseCount++
		}
	}
	if baseCount == 1 {
		return base
	}
	fallback := component[0]
	for _, id := range component[1:] {
		if id < fallback {
			fallback = id
		}
	}
	return fallback
}

// TopologicalOrder returns the component's parts in parents-before-children
// order, walking depth-first from the component root. Neighbors are visited
// in joint insertion order. The result is only meaningful for acyclic
// components; run DetectCycle first.
func (g *JointGraph) TopologicalOrder(component []PartID) []PartID {
	inComponent := make(map[PartID]bool, len(component))
	for _, id := range component {
		inComponent[id] = true
	}

	root := g.Root(component)
	visited := map[PartID]bool{root: true}
	order := []PartID{root}

	var visit func(PartID)
	visit = func(u PartID) {
		for _, j := range g.joints {
			var next PartID
			switch u {
			case j.Parent:
				next = j.Child
			case j.Child:
				next = j.Parent
			default:
				continue
			}
			if !inComponent[next] || visited[next] {
				continue
			}
			visited[next] = true
			order = append(order, next)
			visit(next)
		}
	}
	visit(root)

	// Parts severed from the root by dangling joints still belong to the
	// component slice; append them in stable id order so output never drops
	// a part silently.
	var rest []PartID
	for _, id := range component {
		if !visited[id] {
			rest = append(rest, id)
		}
	}
	sort.Slice(rest, func(i, k int) bool { return rest[i] < rest[k] })
	return append(order, rest...)
}
