package bvsls

import "math/rand/v2"

// RepairSet is a set of node ids supporting O(1) insert, remove,
// membership, and uniform random pick. It is the swap-on-remove dense
// array plus an id→position map, which is the standard shape for this
// requirement: removal swaps the last element into the removed slot
// and truncates, so every operation is O(1) and ElemAt(k) can return
// the k-th element directly for a uniform random index k.
type RepairSet struct {
	items []NodeID
	pos   map[NodeID]int
}

// NewRepairSet returns an empty RepairSet.
func NewRepairSet() *RepairSet {
	return &RepairSet{pos: make(map[NodeID]int)}
}

// Insert adds id to the set. Idempotent: inserting an already-present
// id is a no-op.
func (s *RepairSet) Insert(id NodeID) {
	if _, ok := s.pos[id]; ok {
		return
	}
	s.pos[id] = len(s.items)
	s.items = append(s.items, id)
}

// Remove deletes id from the set, if present.
func (s *RepairSet) Remove(id NodeID) {
	i, ok := s.pos[id]
	if !ok {
		return
	}
	last := len(s.items) - 1
	s.items[i] = s.items[last]
	s.pos[s.items[i]] = i
	s.items = s.items[:last]
	delete(s.pos, id)
}

// Contains reports whether id is currently in the set.
func (s *RepairSet) Contains(id NodeID) bool {
	_, ok := s.pos[id]
	return ok
}

// Size returns the number of members.
func (s *RepairSet) Size() int { return len(s.items) }

// IsEmpty reports whether the set has no members.
func (s *RepairSet) IsEmpty() bool { return len(s.items) == 0 }

// ElemAt returns the k-th id in the set's current iteration order.
// Calling it with a uniformly random k in [0, Size()) gives every
// member equal selection probability.
func (s *RepairSet) ElemAt(k int) NodeID { return s.items[k] }

// Reset empties the set.
func (s *RepairSet) Reset() {
	s.items = s.items[:0]
	for k := range s.pos {
		delete(s.pos, k)
	}
}

// pickRandom returns a uniformly random member, or (0, false) if the
// set is empty.
func (s *RepairSet) pickRandom(rng *rand.Rand) (NodeID, bool) {
	if s.IsEmpty() {
		return 0, false
	}
	k := rng.IntN(s.Size())
	return s.ElemAt(k), true
}
