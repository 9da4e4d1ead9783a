package bvsls

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestRNG() *rand.Rand { return rand.New(rand.NewPCG(1, 1)) }

// TestInitFixedPinsEqualityAgainstConstant is spec.md §8 scenario 1: the
// assertion x = 5 over a 4-bit x fixes every bit of x to 0101.
func TestInitFixedPinsEqualityAgainstConstant(t *testing.T) {
	b := NewBuilder()
	x := b.BVVar("x", 4)
	b.Assert(b.Eq(x, b.BVConstU64(4, 5)))
	terms := b.Finalize()

	ev := NewEvaluator(terms)
	ev.InitFixed()

	require.Equal(t, *widthMask(4), ev.FixedMask(x))
}

func TestInitFixedPinsAssertedBoolVar(t *testing.T) {
	b := NewBuilder()
	x := b.BoolVar("x")
	b.Assert(x)
	terms := b.Finalize()

	ev := NewEvaluator(terms)
	ev.InitFixed()

	require.True(t, ev.IsFixed0(x))
	require.True(t, ev.BVal0(x))
}

func TestInitFixedPinsNegatedBoolVar(t *testing.T) {
	b := NewBuilder()
	x := b.BoolVar("x")
	b.Assert(b.Not(x))
	terms := b.Finalize()

	ev := NewEvaluator(terms)
	ev.InitFixed()

	require.True(t, ev.IsFixed0(x))
	require.False(t, ev.BVal0(x))
}

// TestInitEvalRespectsFixedBits checks that InitEval's oracle priming
// never overrides a bit InitFixed already pinned, regardless of what
// the oracle itself would propose.
func TestInitEvalRespectsFixedBits(t *testing.T) {
	b := NewBuilder()
	x := b.BVVar("x", 4)
	b.Assert(b.Eq(x, b.BVConstU64(4, 5)))
	terms := b.Finalize()

	ev := NewEvaluator(terms)
	alwaysOne := func(NodeID, int) bool { return true }
	ev.InitEval(alwaysOne)

	require.Equal(t, uint64(5), ev.WVal0(x).Uint64())
}

// TestInitEvalComputesBottomUpAndIsTriviallyCorrect verifies that right
// after InitEval, every internal node's val0 already equals its
// recomputed val1 — the Builder's construction order is topological,
// so a single bottom-up pass suffices.
func TestInitEvalComputesBottomUpAndIsTriviallyCorrect(t *testing.T) {
	b := NewBuilder()
	x := b.BVVar("x", 4)
	y := b.BVVar("y", 4)
	sum := b.BvAdd(x, y)
	b.Assert(b.Eq(sum, b.BVConstU64(4, 0)))
	terms := b.Finalize()

	ev := NewEvaluator(terms)
	ev.InitEval(RandomOracle(newTestRNG()))

	for _, id := range terms.AllNodeIDs() {
		n := terms.Term(id)
		if n.op == OpVar || n.op == OpConst {
			continue
		}
		require.True(t, ev.EvalIsCorrect(id), "node %d should be correct immediately after InitEval", id)
	}
}

// TestRepairUpLeavesFixedBitsUntouched exercises RepairUp directly: a
// recomputation that would change a fixed bit must not.
func TestRepairUpLeavesFixedBitsUntouched(t *testing.T) {
	b := NewBuilder()
	x := b.BVVar("x", 4)
	y := b.BVVar("y", 4)
	sum := b.BvAdd(x, y)
	b.Assert(b.Eq(sum, b.BVConstU64(4, 0)))
	terms := b.Finalize()

	ev := NewEvaluator(terms)
	ev.InitEval(RandomOracle(newTestRNG()))

	// sum is pinned to 0 by the equality assertion.
	require.Equal(t, *widthMask(4), ev.FixedMask(sum))

	// Perturb y so recomputing sum from children would disagree with 0,
	// then RepairUp must mask the disagreement away.
	yVal := ev.WVal0(y)
	yVal.AddUint64(&yVal, 1)
	ev.wval0[y] = yVal

	ev.RepairUp(sum)
	require.Equal(t, uint64(0), ev.WVal0(sum).Uint64(), "fixed bits of sum must remain 0 after RepairUp")
}

func TestEvalIsCorrectFalseBeforePriming(t *testing.T) {
	b := NewBuilder()
	x := b.BVVar("x", 4)
	terms := b.Finalize()

	ev := NewEvaluator(terms)
	require.False(t, ev.EvalIsCorrect(x))
}
