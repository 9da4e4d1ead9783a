package bvsls

import "math/rand/v2"

// RandomOracle returns an Oracle that ignores node identity and
// returns a uniformly random bit for every request, driven by rng.
// This is the oracle InitEval is typically primed with on the first
// search.
func RandomOracle(rng *rand.Rand) Oracle {
	return func(NodeID, int) bool {
		return rng.IntN(2) == 1
	}
}

// KeepMostlyOracle builds the restart oracle spec.md §4.4 describes:
// for each request, if the node (or bit) is already fixed the fixed
// value always wins — InitEval consults this oracle only for
// non-fixed bits in the first place, so the fixed case is actually
// unreachable here, but honoring it defensively costs nothing. For a
// non-fixed bit, with probability keepProbability the prior value
// (read from ev's current val0) is kept; otherwise a fresh uniform
// random bit is drawn. The 98/2 split lives here, in the oracle
// capability, rather than inside the Evaluator, per spec.md §9's
// design note.
func KeepMostlyOracle(ev *Evaluator, rng *rand.Rand, keepProbability float64) Oracle {
	return func(id NodeID, bitIndex int) bool {
		n := ev.t.Term(id)
		if n.sort == SortBool {
			if ev.IsFixed0(id) {
				return ev.BVal0(id)
			}
			if rng.Float64() < keepProbability {
				return ev.BVal0(id)
			}
			return rng.IntN(2) == 1
		}
		mask := ev.FixedMask(id)
		if bitAt(&mask, uint(bitIndex)) == 1 {
			cur := ev.WVal0(id)
			return bitAt(&cur, uint(bitIndex)) == 1
		}
		if rng.Float64() < keepProbability {
			cur := ev.WVal0(id)
			return bitAt(&cur, uint(bitIndex)) == 1
		}
		return rng.IntN(2) == 1
	}
}
