package bvsls

// NodeID is a stable, dense, non-negative identifier for a node in the
// expression DAG. Ids are assigned sequentially by the Builder and are
// valid for the lifetime of the Terms collaborator that created them.
type NodeID int32

// Sort distinguishes the two value universes this engine reasons
// about. There is no quantifier, array, or floating-point sort in
// scope.
type Sort uint8

const (
	// SortBool is the sort of Boolean-valued nodes.
	SortBool Sort = iota
	// SortBV is the sort of fixed-width bit-vector nodes.
	SortBV
)

func (s Sort) String() string {
	switch s {
	case SortBool:
		return "Bool"
	case SortBV:
		return "BV"
	default:
		return "?"
	}
}

// Op tags the operator a node computes. OpConst and OpVar are leaves;
// every other Op is an interior node whose value is a function of its
// children's values.
type Op uint8

const (
	// OpConst is a literal value (Boolean or bit-vector).
	OpConst Op = iota
	// OpVar is an uninterpreted constant (a search variable).
	OpVar

	// Boolean connectives.
	OpNot
	OpAnd
	OpOr
	OpXor
	OpImplies
	OpIte // Boolean-or-BV: ite(cond, then, else)
	OpEq  // Boolean-or-BV equality

	// Bit-vector operators.
	OpBvNot
	OpBvAnd
	OpBvOr
	OpBvXor
	OpBvNeg
	OpBvAdd
	OpBvSub
	OpBvMul
	OpBvUdiv
	OpBvUrem
	OpBvShl
	OpBvLshr
	OpBvUlt
	OpBvUle
	OpBvConcat
	OpBvExtract
)

// maxWidth is the widest bit-vector this engine supports. Values are
// carried in a fixed-capacity 256-bit integer (see Evaluator), the
// same width go-ethereum uses for EVM machine words; anything wider
// than that is out of scope for this core.
const maxWidth = 256

func (o Op) String() string {
	switch o {
	case OpConst:
		return "const"
	case OpVar:
		return "var"
	case OpNot:
		return "not"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpXor:
		return "xor"
	case OpImplies:
		return "=>"
	case OpIte:
		return "ite"
	case OpEq:
		return "="
	case OpBvNot:
		return "bvnot"
	case OpBvAnd:
		return "bvand"
	case OpBvOr:
		return "bvor"
	case OpBvXor:
		return "bvxor"
	case OpBvNeg:
		return "bvneg"
	case OpBvAdd:
		return "bvadd"
	case OpBvSub:
		return "bvsub"
	case OpBvMul:
		return "bvmul"
	case OpBvUdiv:
		return "bvudiv"
	case OpBvUrem:
		return "bvurem"
	case OpBvShl:
		return "bvshl"
	case OpBvLshr:
		return "bvlshr"
	case OpBvUlt:
		return "bvult"
	case OpBvUle:
		return "bvule"
	case OpBvConcat:
		return "concat"
	case OpBvExtract:
		return "extract"
	default:
		return "?op"
	}
}

// isBoolOp reports whether an Op always produces a Boolean result.
func isBoolOp(o Op) bool {
	switch o {
	case OpNot, OpAnd, OpOr, OpXor, OpImplies, OpBvUlt, OpBvUle:
		return true
	default:
		return false
	}
}
