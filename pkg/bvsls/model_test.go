package bvsls

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestModelSatisfiesAssertions checks the model-validity law: after Run
// reports Sat, substituting the extracted model back into every
// assertion yields true. Rather than re-parsing the model, this
// verifies the equivalent statement directly against Evaluator state,
// since Model just reads val0 off the same nodes the assertions were
// solved over.
func TestModelSatisfiesAssertions(t *testing.T) {
	b := NewBuilder()
	x := b.BVVar("x", 4)
	y := b.BVVar("y", 4)
	b.Assert(b.Eq(b.BvAdd(x, y), b.BVConstU64(4, 9)))
	b.Assert(b.BvUlt(x, b.BVConstU64(4, 8)))
	terms := b.Finalize()

	e := New(terms)
	e.Init()
	e.InitEval(RandomOracle(newTestRNG()))
	outcome := e.Run(nil)
	require.Equal(t, Sat, outcome)

	for _, a := range terms.Assertions() {
		require.True(t, e.ev.BVal0(a), "assertion node %d must hold true in the final assignment", a)
	}

	m := e.Model()
	require.Equal(t, uint64(9), (m.BVs["x"].Uint64()+m.BVs["y"].Uint64())&0xF)
	require.Less(t, m.BVs["x"].Uint64(), uint64(8))
}

func TestModelOnlyIncludesVarsReachableFromAssertions(t *testing.T) {
	b := NewBuilder()
	x := b.BVVar("x", 4)
	unused := b.BVVar("unused", 4)
	b.Assert(b.Eq(x, b.BVConstU64(4, 1)))
	terms := b.Finalize()
	_ = unused

	e := New(terms)
	e.Init()
	e.InitEval(RandomOracle(newTestRNG()))
	require.Equal(t, Sat, e.Run(nil))

	m := e.Model()
	require.Contains(t, m.BVs, "x")
	require.NotContains(t, m.BVs, "unused")
}

func TestModelExtractsBothSorts(t *testing.T) {
	b := NewBuilder()
	p := b.BoolVar("p")
	x := b.BVVar("x", 4)
	b.Assert(p)
	b.Assert(b.Eq(x, b.BVConstU64(4, 2)))
	terms := b.Finalize()

	e := New(terms)
	e.Init()
	e.InitEval(RandomOracle(newTestRNG()))
	require.Equal(t, Sat, e.Run(nil))

	m := e.Model()
	require.True(t, m.Bools["p"])
	require.Equal(t, uint64(2), m.BVs["x"].Uint64())
}
