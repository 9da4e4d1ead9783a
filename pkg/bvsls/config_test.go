package bvsls

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidateRejectsNonPositiveMaxRepairs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRepairs = 0
	require.Error(t, cfg.Validate())

	cfg.MaxRepairs = -1
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveMaxRestarts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRestarts = 0
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsOutOfRangeKeepProbability(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KeepProbability = -0.01
	require.Error(t, cfg.Validate())

	cfg.KeepProbability = 1.01
	require.Error(t, cfg.Validate())

	cfg.KeepProbability = 1.0
	require.NoError(t, cfg.Validate())

	cfg.KeepProbability = 0.0
	require.NoError(t, cfg.Validate())
}

func TestUpdtParamsRejectsInvalidConfig(t *testing.T) {
	b := NewBuilder()
	x := b.BoolVar("x")
	b.Assert(x)
	terms := b.Finalize()

	e := New(terms)
	e.Init()

	bad := DefaultConfig()
	bad.MaxRepairs = 0
	require.Error(t, e.UpdtParams(bad))
}

func TestUpdtParamsReseedsRNGDeterministically(t *testing.T) {
	b := NewBuilder()
	x := b.BVVar("x", 8)
	b.Assert(b.BvUlt(x, b.BVConstU64(8, 200)))
	terms := b.Finalize()

	run := func(seed uint64) Outcome {
		e := New(terms)
		e.Init()
		cfg := DefaultConfig()
		cfg.RandomSeed = seed
		require.NoError(t, e.UpdtParams(cfg))
		e.InitEval(nil)
		return e.Run(nil)
	}

	require.Equal(t, run(42), run(42))
}
