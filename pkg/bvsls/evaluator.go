package bvsls

import "github.com/holiman/uint256"

// Oracle supplies a starting bit for an uninterpreted constant. For
// bit-vector nodes it is consulted once per bit index; for Boolean
// nodes bitIndex is always 0. Oracle is a pure capability: the
// "keep-mostly" restart variant is just an Oracle that happens to
// consult the Evaluator's own current state (see KeepMostlyOracle).
type Oracle func(id NodeID, bitIndex int) bool

// Evaluator owns per-node value state: the current assignment (val0),
// the fixed-bit mask derived from the formula, and the machinery to
// recompute a node's value from its children's current assignment
// (val1, always computed fresh on demand rather than cached, which
// trivially keeps it consistent with whatever its children currently
// hold).
type Evaluator struct {
	t *Terms

	bval0  []bool
	bfixed []bool

	wval0  []uint256.Int
	wfixed []uint256.Int

	primed bool
}

// NewEvaluator allocates value-state tables sized to t. t must already
// be finalized.
func NewEvaluator(t *Terms) *Evaluator {
	n := t.NumNodes()
	return &Evaluator{
		t:      t,
		bval0:  make([]bool, n),
		bfixed: make([]bool, n),
		wval0:  make([]uint256.Int, n),
		wfixed: make([]uint256.Int, n),
	}
}

// InitFixed derives the fixed-bit mask. Every literal node is pinned in
// full to its own value, so no repair move can rewrite a constant. The
// rest comes from propagating hard constraints
// from assertion polarity: an asserted variable is fixed true, an
// asserted equality between a variable and a constant fixes the
// variable (in full, for Booleans; bit-by-bit, for bit-vectors) to
// that constant. This is a sound but incomplete approximation of full
// fixed-bit propagation — it never marks a bit fixed to the wrong
// value, but it may leave bits unfixed that a more thorough analysis
// (congruence closure across the whole assertion set) could pin down.
func (e *Evaluator) InitFixed() {
	for i := range e.bfixed {
		e.bfixed[i] = false
	}
	for i := range e.wfixed {
		e.wfixed[i] = uint256.Int{}
	}
	for _, id := range e.t.AllNodeIDs() {
		n := e.t.Term(id)
		if n.op != OpConst {
			continue
		}
		if n.sort == SortBool {
			e.fixBoolTo(id, n.boolConst)
		} else {
			e.fixBVTo(id, widthMask(n.width), &n.bvConst)
		}
	}
	for _, a := range e.t.Assertions() {
		e.assumeTrue(a)
	}
}

func (e *Evaluator) assumeTrue(id NodeID) {
	n := e.t.Term(id)
	switch n.op {
	case OpAnd:
		e.assumeTrue(n.children[0])
		e.assumeTrue(n.children[1])
	case OpNot:
		e.assumeFalse(n.children[0])
	case OpVar:
		e.fixBoolTo(id, true)
	case OpEq:
		e.propagateEq(n.children[0], n.children[1])
	}
}

func (e *Evaluator) assumeFalse(id NodeID) {
	n := e.t.Term(id)
	switch n.op {
	case OpNot:
		e.assumeTrue(n.children[0])
	case OpOr:
		e.assumeFalse(n.children[0])
		e.assumeFalse(n.children[1])
	case OpVar:
		e.fixBoolTo(id, false)
	}
}

func (e *Evaluator) propagateEq(l, r NodeID) {
	ln, rn := e.t.Term(l), e.t.Term(r)
	if ln.sort == SortBool {
		if ln.op == OpVar && rn.op == OpConst {
			e.fixBoolTo(l, rn.boolConst)
		}
		if rn.op == OpVar && ln.op == OpConst {
			e.fixBoolTo(r, ln.boolConst)
		}
		return
	}
	if ln.op == OpVar && rn.op == OpConst {
		e.fixBVTo(l, widthMask(ln.width), &rn.bvConst)
	}
	if rn.op == OpVar && ln.op == OpConst {
		e.fixBVTo(r, widthMask(rn.width), &ln.bvConst)
	}
}

func (e *Evaluator) fixBoolTo(id NodeID, v bool) {
	e.bfixed[id] = true
	e.bval0[id] = v
}

func (e *Evaluator) fixBVTo(id NodeID, mask, v *uint256.Int) {
	var notMask uint256.Int
	notMask.Not(mask)
	e.wfixed[id].Or(&e.wfixed[id], mask)

	var existing, value uint256.Int
	existing.And(&e.wval0[id], &notMask)
	value.And(v, mask)
	e.wval0[id].Or(&existing, &value)
}

// InitEval primes val0 for every node: uninterpreted constants consult
// oracle for any bit not already pinned by the fixed mask, constants
// take their literal value, and internal nodes are computed bottom-up
// from their (now-set) children. Nodes are visited in construction
// order, which — because the Builder hash-conses bottom-up — is
// already a topological order.
func (e *Evaluator) InitEval(oracle Oracle) {
	e.InitFixed()
	for _, id := range e.t.AllNodeIDs() {
		n := e.t.Term(id)
		switch n.op {
		case OpConst:
			if n.sort == SortBool {
				e.bval0[id] = n.boolConst
			} else {
				e.wval0[id] = n.bvConst
			}
		case OpVar:
			e.primeVar(id, oracle)
		default:
			if n.sort == SortBool {
				e.bval0[id] = e.evalBoolFromChildren(id)
			} else {
				e.wval0[id] = e.evalBVFromChildren(id)
			}
		}
	}
	e.primed = true
}

func (e *Evaluator) primeVar(id NodeID, oracle Oracle) {
	n := e.t.Term(id)
	if n.sort == SortBool {
		if !e.bfixed[id] {
			e.bval0[id] = oracle(id, 0)
		}
		return
	}
	var v uint256.Int
	for bit := uint(0); bit < uint(n.width); bit++ {
		var use bool
		if bitAt(&e.wfixed[id], bit) == 1 {
			use = bitAt(&e.wval0[id], bit) == 1
		} else {
			use = oracle(id, int(bit))
		}
		if use {
			setBit(&v, bit)
		}
	}
	e.wval0[id] = v
}

// CanEval1 reports whether n's recomputed value is currently defined.
// Because InitEval primes every node bottom-up and every subsequent
// repair move keeps every node's val0 defined, this is true for any
// node once the Evaluator has been primed (invariant I2).
func (e *Evaluator) CanEval1(NodeID) bool { return e.primed }

// BVal0 reads a Boolean node's current value.
func (e *Evaluator) BVal0(id NodeID) bool { return e.bval0[id] }

// BVal1 recomputes a Boolean node's value from its children's current
// val0. For a leaf (OpVar/OpConst) this is, by definition, its own
// val0.
func (e *Evaluator) BVal1(id NodeID) bool {
	n := e.t.Term(id)
	if n.op == OpVar || n.op == OpConst {
		return e.bval0[id]
	}
	return e.evalBoolFromChildren(id)
}

// WVal0 reads a bit-vector node's current value.
func (e *Evaluator) WVal0(id NodeID) uint256.Int { return e.wval0[id] }

// WVal1 recomputes a bit-vector node's value from its children's
// current val0.
func (e *Evaluator) WVal1(id NodeID) uint256.Int {
	n := e.t.Term(id)
	if n.op == OpVar || n.op == OpConst {
		return e.wval0[id]
	}
	return e.evalBVFromChildren(id)
}

// Set overwrites a Boolean node's val0. Used by the Scheduler to set a
// false assertion's desired value to true before pushing it into down.
func (e *Evaluator) Set(id NodeID, v bool) { e.bval0[id] = v }

// IsFixed0 reports whether a Boolean node's value is pinned by the
// formula.
func (e *Evaluator) IsFixed0(id NodeID) bool { return e.bfixed[id] }

// FixedMask returns the fixed-bit mask of a bit-vector node.
func (e *Evaluator) FixedMask(id NodeID) uint256.Int { return e.wfixed[id] }

// EvalIsCorrect implements spec.md's eval_is_correct: true iff the
// node's current value equals its recomputed value. Any sort other
// than Bool/BV is a programmer error — unreachable given Sort has
// exactly two values, kept here as a defensive contract check.
func (e *Evaluator) EvalIsCorrect(id NodeID) bool {
	if !e.CanEval1(id) {
		return false
	}
	switch e.t.Term(id).sort {
	case SortBool:
		return e.BVal0(id) == e.BVal1(id)
	case SortBV:
		return e.WVal0(id) == e.WVal1(id)
	default:
		panic("bvsls: eval_is_correct on a node of unknown sort")
	}
}

// RepairUp recomputes n's val0 from its children's current val0,
// leaving any fixed bits of n untouched (spec.md §4.4 try_repair_up).
func (e *Evaluator) RepairUp(id NodeID) {
	n := e.t.Term(id)
	if n.sort == SortBool {
		if e.bfixed[id] {
			return
		}
		e.bval0[id] = e.evalBoolFromChildren(id)
		return
	}
	newVal := e.evalBVFromChildren(id)
	e.wval0[id] = applyFixedMask(&newVal, &e.wfixed[id], &e.wval0[id])
}

func bitAt(x *uint256.Int, i uint) uint64 {
	var t uint256.Int
	t.Rsh(x, i)
	return t[0] & 1
}

func setBit(x *uint256.Int, i uint) {
	var one uint256.Int
	one.SetOne()
	one.Lsh(&one, i)
	x.Or(x, &one)
}

// applyFixedMask returns candidate with every bit marked in mask
// overwritten by the corresponding bit of current, preserving
// invariant I1 regardless of what candidate proposes for those bits.
func applyFixedMask(candidate, mask, current *uint256.Int) uint256.Int {
	var notMask, free, pinned, out uint256.Int
	notMask.Not(mask)
	free.And(candidate, &notMask)
	pinned.And(current, mask)
	out.Or(&free, &pinned)
	return out
}
