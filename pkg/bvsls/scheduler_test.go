package bvsls

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, terms *Terms) *Engine {
	t.Helper()
	e := New(terms)
	e.Init()
	return e
}

// Scenario 1: { x = 5 }, 4-bit x. InitFixed pins x outright, so the
// engine reports sat with zero repair moves.
func TestScenarioUnitAssertion(t *testing.T) {
	b := NewBuilder()
	x := b.BVVar("x", 4)
	b.Assert(b.Eq(x, b.BVConstU64(4, 5)))
	terms := b.Finalize()

	e := newTestEngine(t, terms)
	e.InitEval(RandomOracle(newTestRNG()))
	outcome := e.Run(nil)

	require.Equal(t, Sat, outcome)
	require.Equal(t, uint64(5), e.Model().BVs["x"].Uint64())
}

// Scenario 2: { (x + 1) = 5 }, 4-bit x. Two down-repairs: the equality
// sets x + 1 to 5, then the invertibility rule for + yields x = 4.
func TestScenarioSingleRepair(t *testing.T) {
	b := NewBuilder()
	x := b.BVVar("x", 4)
	one := b.BVConstU64(4, 1)
	five := b.BVConstU64(4, 5)
	b.Assert(b.Eq(b.BvAdd(x, one), five))
	terms := b.Finalize()

	e := newTestEngine(t, terms)
	e.InitEval(RandomOracle(newTestRNG()))
	outcome := e.Run(nil)

	require.Equal(t, Sat, outcome)
	require.Equal(t, uint64(4), e.Model().BVs["x"].Uint64())
}

// Scenario 3: { x & y = 1, x | y = 3 }, 2-bit x, y. Unique solution x=1,
// y=3 or x=3,y=1 depending on repair order; either way the assignment
// must satisfy both assertions.
func TestScenarioConjunction(t *testing.T) {
	b := NewBuilder()
	x := b.BVVar("x", 2)
	y := b.BVVar("y", 2)
	one := b.BVConstU64(2, 1)
	three := b.BVConstU64(2, 3)
	b.Assert(b.Eq(b.BvAnd(x, y), one))
	b.Assert(b.Eq(b.BvOr(x, y), three))
	terms := b.Finalize()

	e := newTestEngine(t, terms)
	e.InitEval(RandomOracle(newTestRNG()))
	outcome := e.Run(nil)

	require.Equal(t, Sat, outcome)
	m := e.Model()
	xv, yv := m.BVs["x"].Uint64(), m.BVs["y"].Uint64()
	require.Equal(t, uint64(1), xv&yv)
	require.Equal(t, uint64(3), xv|yv)
}

// Scenario 4: a mix of Boolean and bit-vector assertions: { p, x < 3, p
// => (x != 0) }. p is fixed true by InitFixed; the engine must still
// find an x satisfying both bit-vector constraints.
func TestScenarioBooleanAndBitvectorMix(t *testing.T) {
	b := NewBuilder()
	p := b.BoolVar("p")
	x := b.BVVar("x", 4)
	zero := b.BVConstU64(4, 0)
	three := b.BVConstU64(4, 3)
	b.Assert(p)
	b.Assert(b.BvUlt(x, three))
	b.Assert(b.Implies(p, b.Not(b.Eq(x, zero))))
	terms := b.Finalize()

	e := newTestEngine(t, terms)
	e.InitEval(RandomOracle(newTestRNG()))
	outcome := e.Run(nil)

	require.Equal(t, Sat, outcome)
	m := e.Model()
	require.True(t, m.Bools["p"])
	xv := m.BVs["x"].Uint64()
	require.Less(t, xv, uint64(3))
	require.NotEqual(t, uint64(0), xv)
}

// Scenario 5: { x != x } is unsatisfiable. The (incomplete) engine must
// never claim sat; it exhausts its repair and restart budget and
// reports unknown.
func TestScenarioUnsatReportsUnknown(t *testing.T) {
	b := NewBuilder()
	x := b.BVVar("x", 4)
	b.Assert(b.Not(b.Eq(x, x)))
	terms := b.Finalize()

	e := newTestEngine(t, terms)
	cfg := DefaultConfig()
	cfg.MaxRepairs = 50
	cfg.MaxRestarts = 5
	require.NoError(t, e.UpdtParams(cfg))
	e.InitEval(RandomOracle(newTestRNG()))
	outcome := e.Run(nil)

	require.Equal(t, Unknown, outcome)
}

// Scenario 6: { x ^ a = b } for 64-bit constants a, b. The unique
// solution x = a ^ b is found by a single down-repair regardless of
// width.
func TestScenarioXorLargeWidthConverges(t *testing.T) {
	b := NewBuilder()
	x := b.BVVar("x", 64)
	a := b.BVConstU64(64, 0x0123456789abcdef)
	bb := b.BVConstU64(64, 0xfedcba9876543210)
	b.Assert(b.Eq(b.BvXor(x, a), bb))
	terms := b.Finalize()

	e := newTestEngine(t, terms)
	e.InitEval(RandomOracle(newTestRNG()))
	outcome := e.Run(nil)

	require.Equal(t, Sat, outcome)
	require.Equal(t, uint64(0x0123456789abcdef^0xfedcba9876543210), e.Model().BVs["x"].Uint64())
	require.LessOrEqual(t, e.Stats().Moves, 1)
}

// TestAllFixedFormulaIsNoOpAfterInit checks that a formula whose every
// variable bit is pinned by InitFixed needs zero repair moves.
func TestAllFixedFormulaIsNoOpAfterInit(t *testing.T) {
	b := NewBuilder()
	x := b.BVVar("x", 8)
	y := b.BVVar("y", 8)
	b.Assert(b.Eq(x, b.BVConstU64(8, 11)))
	b.Assert(b.Eq(y, b.BVConstU64(8, 200)))
	terms := b.Finalize()

	e := newTestEngine(t, terms)
	e.InitEval(RandomOracle(newTestRNG()))
	outcome := e.Run(nil)

	require.Equal(t, Sat, outcome)
	require.Equal(t, 0, e.Stats().Moves)
}

// TestSharedAssertionAncestorIsRevisitedAfterSiblingFlip is a regression
// test for buildRepairSets: { Or(p,q), Implies(Or(p,q), r) } shares the
// Or(p,q) node between two assertions. Starting from p=q=false forces
// the first assertion's desired value flip, which can make the second
// assertion (vacuously true beforehand) genuinely false once the shared
// Or's value changes. The final model must satisfy both assertions.
func TestSharedAssertionAncestorIsRevisitedAfterSiblingFlip(t *testing.T) {
	b := NewBuilder()
	p := b.BoolVar("p")
	q := b.BoolVar("q")
	r := b.BoolVar("r")
	or := b.Or(p, q)
	b.Assert(or)
	b.Assert(b.Implies(or, r))
	terms := b.Finalize()

	e := newTestEngine(t, terms)
	forceAllFalse := func(NodeID, int) bool { return false }
	e.InitEval(forceAllFalse)
	outcome := e.Run(nil)

	require.Equal(t, Sat, outcome)
	for _, a := range terms.Assertions() {
		require.True(t, e.ev.BVal0(a), "assertion node %d must hold in the final assignment", a)
	}
}

// TestDeepChainConvergesWithinMoveBudget exercises propagation through a
// chain of shared subterms: x + 1 + 1 + 1 = 10, so x = 7, reachable via
// a bounded sequence of down-repairs.
func TestDeepChainConvergesWithinMoveBudget(t *testing.T) {
	b := NewBuilder()
	x := b.BVVar("x", 8)
	one := b.BVConstU64(8, 1)
	chain := b.BvAdd(b.BvAdd(b.BvAdd(x, one), one), one)
	b.Assert(b.Eq(chain, b.BVConstU64(8, 10)))
	terms := b.Finalize()

	e := newTestEngine(t, terms)
	cfg := DefaultConfig()
	cfg.MaxRepairs = 100
	require.NoError(t, e.UpdtParams(cfg))
	e.InitEval(RandomOracle(newTestRNG()))
	outcome := e.Run(nil)

	require.Equal(t, Sat, outcome)
	require.Equal(t, uint64(7), e.Model().BVs["x"].Uint64())
}
