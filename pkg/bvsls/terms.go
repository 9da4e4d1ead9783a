package bvsls

import (
	"fmt"

	"github.com/holiman/uint256"
)

// node is one record in the shared expression DAG. Value state (val0,
// val1, fixed) is deliberately kept out of node and lives in side
// tables inside Evaluator, keyed by NodeID, so node stays small and
// cache-friendly regardless of how much per-node search state the
// Evaluator accumulates.
type node struct {
	id       NodeID
	sort     Sort
	op       Op
	width    uint32 // meaningful when sort == SortBV
	children []NodeID

	// OpBvExtract parameters: bits [lo, hi] inclusive of the sole child.
	hi, lo uint32

	// OpConst payload.
	boolConst bool
	bvConst   uint256.Int

	// OpVar identity, used only for model extraction and debug output.
	name string
}

// Terms owns the expression DAG: the node arena, the assertion roots,
// and the parents index. It matches the external contract spec.md
// assumes a containing solver supplies; here it is concrete so the
// package is self-contained.
type Terms struct {
	nodes      []node
	assertions []NodeID
	parents    [][]NodeID // parents[id] = direct parents of node id
	finalized  bool
}

// Builder constructs a Terms instance. It hash-conses structurally
// identical nodes so that shared subterms are actually shared in the
// DAG, which is required for the parents index to mean anything.
type Builder struct {
	t      *Terms
	consed map[string]NodeID
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		t:      &Terms{},
		consed: make(map[string]NodeID),
	}
}

func (b *Builder) intern(n node) NodeID {
	key := consKey(n)
	if id, ok := b.consed[key]; ok {
		return id
	}
	n.id = NodeID(len(b.t.nodes))
	b.t.nodes = append(b.t.nodes, n)
	b.consed[key] = n.id
	return n.id
}

func consKey(n node) string {
	return fmt.Sprintf("%d|%d|%d|%d|%d|%v|%s|%v|%v", n.op, n.sort, n.width, n.hi, n.lo, n.children, n.name, n.boolConst, n.bvConst)
}

// BoolConst returns a Boolean literal node.
func (b *Builder) BoolConst(v bool) NodeID {
	return b.intern(node{sort: SortBool, op: OpConst, boolConst: v})
}

// BVConst returns a width-w bit-vector literal node holding the low w
// bits of v.
func (b *Builder) BVConst(w uint32, v *uint256.Int) NodeID {
	var masked uint256.Int
	masked.And(v, widthMask(w))
	return b.intern(node{sort: SortBV, op: OpConst, width: w, bvConst: masked})
}

// BVConstU64 is a convenience wrapper for small constants.
func (b *Builder) BVConstU64(w uint32, v uint64) NodeID {
	var x uint256.Int
	x.SetUint64(v)
	return b.BVConst(w, &x)
}

// BoolVar introduces a fresh Boolean uninterpreted constant.
func (b *Builder) BoolVar(name string) NodeID {
	return b.intern(node{sort: SortBool, op: OpVar, name: name})
}

// BVVar introduces a fresh width-w bit-vector uninterpreted constant.
func (b *Builder) BVVar(name string, w uint32) NodeID {
	return b.intern(node{sort: SortBV, op: OpVar, width: w, name: name})
}

func (b *Builder) unary(op Op, sort Sort, width uint32, c NodeID) NodeID {
	return b.intern(node{sort: sort, op: op, width: width, children: []NodeID{c}})
}

func (b *Builder) binary(op Op, sort Sort, width uint32, l, r NodeID) NodeID {
	return b.intern(node{sort: sort, op: op, width: width, children: []NodeID{l, r}})
}

// Not, And, Or, Xor, Implies build Boolean connective nodes.
func (b *Builder) Not(c NodeID) NodeID           { return b.unary(OpNot, SortBool, 0, c) }
func (b *Builder) And(l, r NodeID) NodeID        { return b.binary(OpAnd, SortBool, 0, l, r) }
func (b *Builder) Or(l, r NodeID) NodeID         { return b.binary(OpOr, SortBool, 0, l, r) }
func (b *Builder) Xor(l, r NodeID) NodeID        { return b.binary(OpXor, SortBool, 0, l, r) }
func (b *Builder) Implies(l, r NodeID) NodeID    { return b.binary(OpImplies, SortBool, 0, l, r) }

// Eq builds an equality node between two same-sort, same-width nodes.
func (b *Builder) Eq(l, r NodeID) NodeID {
	return b.binary(OpEq, SortBool, 0, l, r)
}

// Ite builds an if-then-else node; thenN and elseN must share a sort
// (and width, for bit-vectors).
func (b *Builder) Ite(cond, thenN, elseN NodeID) NodeID {
	sort, width := b.t.nodes[thenN].sort, b.t.nodes[thenN].width
	return b.intern(node{sort: sort, op: OpIte, width: width, children: []NodeID{cond, thenN, elseN}})
}

// Bit-vector operator constructors. Width is taken from the children
// except for OpBvExtract and OpBvConcat.
func (b *Builder) BvNot(c NodeID) NodeID { return b.unary(OpBvNot, SortBV, b.t.nodes[c].width, c) }
func (b *Builder) BvNeg(c NodeID) NodeID { return b.unary(OpBvNeg, SortBV, b.t.nodes[c].width, c) }

func (b *Builder) bvBin(op Op, l, r NodeID) NodeID {
	return b.binary(op, SortBV, b.t.nodes[l].width, l, r)
}

func (b *Builder) BvAnd(l, r NodeID) NodeID  { return b.bvBin(OpBvAnd, l, r) }
func (b *Builder) BvOr(l, r NodeID) NodeID   { return b.bvBin(OpBvOr, l, r) }
func (b *Builder) BvXor(l, r NodeID) NodeID  { return b.bvBin(OpBvXor, l, r) }
func (b *Builder) BvAdd(l, r NodeID) NodeID  { return b.bvBin(OpBvAdd, l, r) }
func (b *Builder) BvSub(l, r NodeID) NodeID  { return b.bvBin(OpBvSub, l, r) }
func (b *Builder) BvMul(l, r NodeID) NodeID  { return b.bvBin(OpBvMul, l, r) }
func (b *Builder) BvUdiv(l, r NodeID) NodeID { return b.bvBin(OpBvUdiv, l, r) }
func (b *Builder) BvUrem(l, r NodeID) NodeID { return b.bvBin(OpBvUrem, l, r) }
func (b *Builder) BvShl(l, r NodeID) NodeID  { return b.bvBin(OpBvShl, l, r) }
func (b *Builder) BvLshr(l, r NodeID) NodeID { return b.bvBin(OpBvLshr, l, r) }

func (b *Builder) BvUlt(l, r NodeID) NodeID {
	return b.binary(OpBvUlt, SortBool, 0, l, r)
}
func (b *Builder) BvUle(l, r NodeID) NodeID {
	return b.binary(OpBvUle, SortBool, 0, l, r)
}

// BvConcat concatenates l (high bits) with r (low bits).
func (b *Builder) BvConcat(l, r NodeID) NodeID {
	w := b.t.nodes[l].width + b.t.nodes[r].width
	return b.intern(node{sort: SortBV, op: OpBvConcat, width: w, children: []NodeID{l, r}})
}

// BvExtract extracts bits [lo, hi] inclusive of c.
func (b *Builder) BvExtract(c NodeID, hi, lo uint32) NodeID {
	return b.intern(node{sort: SortBV, op: OpBvExtract, width: hi - lo + 1, hi: hi, lo: lo, children: []NodeID{c}})
}

// Assert marks a Boolean node as an assertion root.
func (b *Builder) Assert(n NodeID) {
	if b.t.nodes[n].sort != SortBool {
		panic("bvsls: Assert requires a Boolean node")
	}
	b.t.assertions = append(b.t.assertions, n)
}

// Finalize builds the parents index and returns the completed Terms.
// The Builder must not be used afterwards. Finalize corresponds to
// spec.md's Engine.Init.
func (b *Builder) Finalize() *Terms {
	t := b.t
	t.parents = make([][]NodeID, len(t.nodes))
	for _, n := range t.nodes {
		for _, c := range n.children {
			t.parents[c] = append(t.parents[c], n.id)
		}
	}
	t.finalized = true
	return t
}

// Term returns the node for id. Panics on an out-of-range id, which is
// always a programmer error (ids come only from a Builder call).
func (t *Terms) Term(id NodeID) *node { return &t.nodes[id] }

// Parents returns the direct parents of n.
func (t *Terms) Parents(n NodeID) []NodeID { return t.parents[n] }

// Assertions returns the assertion roots in construction order.
func (t *Terms) Assertions() []NodeID { return t.assertions }

// IsAssertion reports whether n is one of the assertion roots.
func (t *Terms) IsAssertion(n NodeID) bool {
	for _, a := range t.assertions {
		if a == n {
			return true
		}
	}
	return false
}

// NumNodes returns the number of nodes in the arena.
func (t *Terms) NumNodes() int { return len(t.nodes) }

// AllNodeIDs returns every node id in ascending (construction) order.
// Because construction is bottom-up and hash-consed, this order is
// already a valid topological order: every child precedes its
// parents.
func (t *Terms) AllNodeIDs() []NodeID {
	ids := make([]NodeID, len(t.nodes))
	for i := range ids {
		ids[i] = NodeID(i)
	}
	return ids
}

func widthMask(w uint32) *uint256.Int {
	var m uint256.Int
	if w >= maxWidth {
		m.SetAllOne()
		return &m
	}
	m.SetOne()
	m.Lsh(&m, uint(w))
	var one uint256.Int
	one.SetOne()
	m.Sub(&m, &one)
	return &m
}
