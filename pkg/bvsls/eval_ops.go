package bvsls

import "github.com/holiman/uint256"

// evalBoolFromChildren computes the value of a Boolean-sorted interior
// node purely from its children's current val0. It is the single
// source of truth for Boolean operator semantics, used both to prime
// val0 bottom-up at InitEval and to answer BVal1 on demand.
func (e *Evaluator) evalBoolFromChildren(id NodeID) bool {
	n := e.t.Term(id)
	if !isBoolOp(n.op) && n.op != OpEq && n.op != OpIte {
		panic("bvsls: evalBoolFromChildren called on node " + n.op.String() + ", which never produces a Boolean value")
	}
	c := n.children
	switch n.op {
	case OpNot:
		return !e.childBool(c[0])
	case OpAnd:
		return e.childBool(c[0]) && e.childBool(c[1])
	case OpOr:
		return e.childBool(c[0]) || e.childBool(c[1])
	case OpXor:
		return e.childBool(c[0]) != e.childBool(c[1])
	case OpImplies:
		return !e.childBool(c[0]) || e.childBool(c[1])
	case OpEq:
		if e.t.Term(c[0]).sort == SortBool {
			return e.childBool(c[0]) == e.childBool(c[1])
		}
		l, r := e.childBV(c[0]), e.childBV(c[1])
		return l == r
	case OpBvUlt:
		l, r := e.childBV(c[0]), e.childBV(c[1])
		return l.Lt(&r)
	case OpBvUle:
		l, r := e.childBV(c[0]), e.childBV(c[1])
		return l.Lt(&r) || l == r
	case OpIte:
		if e.childBool(c[0]) {
			return e.childBool(c[1])
		}
		return e.childBool(c[2])
	default:
		panic("bvsls: " + n.op.String() + " does not produce a Boolean value")
	}
}

// evalBVFromChildren computes the value of a bit-vector-sorted
// interior node purely from its children's current val0.
func (e *Evaluator) evalBVFromChildren(id NodeID) uint256.Int {
	n := e.t.Term(id)
	c := n.children
	w := n.width
	switch n.op {
	case OpBvNot:
		var x, out uint256.Int
		x = e.childBV(c[0])
		out.Not(&x)
		return maskTo(&out, w)
	case OpBvNeg:
		x := e.childBV(c[0])
		return maskTo(negate(&x), w)
	case OpBvAnd:
		l, r := e.childBV(c[0]), e.childBV(c[1])
		var out uint256.Int
		out.And(&l, &r)
		return out
	case OpBvOr:
		l, r := e.childBV(c[0]), e.childBV(c[1])
		var out uint256.Int
		out.Or(&l, &r)
		return out
	case OpBvXor:
		l, r := e.childBV(c[0]), e.childBV(c[1])
		var out uint256.Int
		out.Xor(&l, &r)
		return out
	case OpBvAdd:
		l, r := e.childBV(c[0]), e.childBV(c[1])
		var out uint256.Int
		out.Add(&l, &r)
		return maskTo(&out, w)
	case OpBvSub:
		l, r := e.childBV(c[0]), e.childBV(c[1])
		var out uint256.Int
		out.Sub(&l, &r)
		return maskTo(&out, w)
	case OpBvMul:
		l, r := e.childBV(c[0]), e.childBV(c[1])
		var out uint256.Int
		out.Mul(&l, &r)
		return maskTo(&out, w)
	case OpBvUdiv:
		l, r := e.childBV(c[0]), e.childBV(c[1])
		if r.IsZero() {
			return *widthMask(w)
		}
		var out uint256.Int
		out.Div(&l, &r)
		return out
	case OpBvUrem:
		l, r := e.childBV(c[0]), e.childBV(c[1])
		if r.IsZero() {
			return l
		}
		var out uint256.Int
		out.Mod(&l, &r)
		return out
	case OpBvShl:
		l, r := e.childBV(c[0]), e.childBV(c[1])
		shift := shiftAmount(&r, w)
		if shift >= uint(w) {
			return uint256.Int{}
		}
		var out uint256.Int
		out.Lsh(&l, shift)
		return maskTo(&out, w)
	case OpBvLshr:
		l, r := e.childBV(c[0]), e.childBV(c[1])
		shift := shiftAmount(&r, w)
		if shift >= uint(w) {
			return uint256.Int{}
		}
		var out uint256.Int
		out.Rsh(&l, shift)
		return out
	case OpBvConcat:
		hi, lo := e.childBV(c[0]), e.childBV(c[1])
		loWidth := e.t.Term(c[1]).width
		var out uint256.Int
		out.Lsh(&hi, uint(loWidth))
		out.Or(&out, &lo)
		return maskTo(&out, w)
	case OpBvExtract:
		x := e.childBV(c[0])
		var out uint256.Int
		out.Rsh(&x, uint(n.lo))
		return maskTo(&out, w)
	case OpIte:
		if e.childBool(c[0]) {
			return e.childBV(c[1])
		}
		return e.childBV(c[2])
	default:
		panic("bvsls: " + n.op.String() + " does not produce a bit-vector value")
	}
}

func (e *Evaluator) childBool(id NodeID) bool      { return e.bval0[id] }
func (e *Evaluator) childBV(id NodeID) uint256.Int { return e.wval0[id] }

func maskTo(x *uint256.Int, w uint32) uint256.Int {
	var out uint256.Int
	out.And(x, widthMask(w))
	return out
}

func negate(x *uint256.Int) *uint256.Int {
	var notx, one, out uint256.Int
	notx.Not(x)
	one.SetOne()
	out.Add(&notx, &one)
	return &out
}

// shiftAmount reads a shift-distance child as a plain uint, saturating
// at width (rather than overflowing) for shift amounts that do not fit
// in 64 bits.
func shiftAmount(x *uint256.Int, w uint32) uint {
	if x[1] != 0 || x[2] != 0 || x[3] != 0 || x[0] > uint64(w) {
		return uint(w)
	}
	return uint(x[0])
}
