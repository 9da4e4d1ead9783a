package bvsls

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRepairSetInsertRemoveContains(t *testing.T) {
	s := NewRepairSet()
	require.True(t, s.IsEmpty())

	s.Insert(3)
	s.Insert(7)
	s.Insert(3) // idempotent
	require.Equal(t, 2, s.Size())
	require.True(t, s.Contains(3))
	require.True(t, s.Contains(7))
	require.False(t, s.Contains(9))

	s.Remove(3)
	require.False(t, s.Contains(3))
	require.Equal(t, 1, s.Size())
	require.Equal(t, NodeID(7), s.ElemAt(0))
}

func TestRepairSetSwapOnRemoveKeepsIndexValid(t *testing.T) {
	s := NewRepairSet()
	for i := NodeID(0); i < 5; i++ {
		s.Insert(i)
	}
	s.Remove(2)
	require.Equal(t, 4, s.Size())
	for k := 0; k < s.Size(); k++ {
		require.True(t, s.Contains(s.ElemAt(k)))
	}
}

func TestRepairSetResetEmpties(t *testing.T) {
	s := NewRepairSet()
	s.Insert(1)
	s.Insert(2)
	s.Reset()
	require.True(t, s.IsEmpty())
	require.False(t, s.Contains(1))
}

func TestRepairSetPickRandomUniform(t *testing.T) {
	s := NewRepairSet()
	for i := NodeID(0); i < 10; i++ {
		s.Insert(i)
	}
	rng := rand.New(rand.NewPCG(1, 1))
	counts := make(map[NodeID]int)
	for i := 0; i < 10000; i++ {
		id, ok := s.pickRandom(rng)
		require.True(t, ok)
		counts[id]++
	}
	require.Len(t, counts, 10, "every member should be reachable")
	for _, c := range counts {
		require.Greater(t, c, 700, "distribution should be roughly uniform over 10000 draws")
	}
}

func TestRepairSetPickRandomOnEmpty(t *testing.T) {
	s := NewRepairSet()
	rng := rand.New(rand.NewPCG(1, 1))
	_, ok := s.pickRandom(rng)
	require.False(t, ok)
}
