package bvsls

import "github.com/holiman/uint256"

// Model is the value assignment extracted after Engine.Run returns
// Sat. Only uninterpreted constants are included; interior nodes
// carry no independent name and are not part of the model.
type Model struct {
	Bools map[string]bool
	BVs   map[string]uint256.Int
}

// Model extracts the current assignment of every uninterpreted
// constant reachable from the assertions, per spec.md §4.5. It must
// only be called after Run has returned Sat.
func (e *Engine) Model() Model {
	m := Model{
		Bools: make(map[string]bool),
		BVs:   make(map[string]uint256.Int),
	}
	for _, id := range e.sortAssertions() {
		e.collectVars(id, m)
	}
	return m
}

// sortAssertions returns a topologically ordered view of the nodes
// reachable from the assertions, used for model output (spec.md
// §4.2's sort_assertions). Construction order from the Builder is
// already topological, so this is a reachability filter over it.
func (e *Engine) sortAssertions() []NodeID {
	reachable := make(map[NodeID]bool)
	var mark func(NodeID)
	mark = func(id NodeID) {
		if reachable[id] {
			return
		}
		reachable[id] = true
		for _, c := range e.t.Term(id).children {
			mark(c)
		}
	}
	for _, a := range e.t.Assertions() {
		mark(a)
	}
	ordered := make([]NodeID, 0, len(reachable))
	for _, id := range e.t.AllNodeIDs() {
		if reachable[id] {
			ordered = append(ordered, id)
		}
	}
	return ordered
}

func (e *Engine) collectVars(id NodeID, m Model) {
	n := e.t.Term(id)
	if n.op != OpVar {
		return
	}
	if n.sort == SortBool {
		m.Bools[n.name] = e.ev.BVal0(id)
	} else {
		m.BVs[n.name] = e.ev.WVal0(id)
	}
}
