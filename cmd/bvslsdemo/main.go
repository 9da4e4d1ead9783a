// Command bvslsdemo builds a handful of small bit-vector formulas by
// hand and runs the bvsls engine against each, printing the outcome
// and (when sat) the resulting model.
package main

import (
	"fmt"

	"github.com/gitrdm/bvsls/pkg/bvsls"
)

func main() {
	fmt.Println("=== bvsls demos ===")
	fmt.Println()

	unitAssertion()
	singleRepair()
	conjunction()
	xorLargeWidth()
}

// unitAssertion: { x = 5 }, 4-bit x. init_fixed pins x to 0101, so the
// engine reports sat immediately.
func unitAssertion() {
	fmt.Println("1. Unit assertion: x = 5 (4-bit)")
	b := bvsls.NewBuilder()
	x := b.BVVar("x", 4)
	five := b.BVConstU64(4, 5)
	b.Assert(b.Eq(x, five))
	run(b)
}

// singleRepair: { (x + 1) = 5 }, 4-bit x. The equality's down-repair
// sets x + 1 to 5, then the invertibility rule for + yields x = 4.
func singleRepair() {
	fmt.Println("2. Single repair: (x + 1) = 5 (4-bit)")
	b := bvsls.NewBuilder()
	x := b.BVVar("x", 4)
	one := b.BVConstU64(4, 1)
	five := b.BVConstU64(4, 5)
	b.Assert(b.Eq(b.BvAdd(x, one), five))
	run(b)
}

// conjunction: { x & y = 1, x | y = 3 }, 2-bit x, y.
func conjunction() {
	fmt.Println("3. Conjunction: x & y = 1, x | y = 3 (2-bit)")
	b := bvsls.NewBuilder()
	x := b.BVVar("x", 2)
	y := b.BVVar("y", 2)
	one := b.BVConstU64(2, 1)
	three := b.BVConstU64(2, 3)
	b.Assert(b.Eq(b.BvAnd(x, y), one))
	b.Assert(b.Eq(b.BvOr(x, y), three))
	run(b)
}

// xorLargeWidth: { x ^ a = b } for 64-bit constants a, b. Model: x = a
// ^ b, found within O(64) moves.
func xorLargeWidth() {
	fmt.Println("4. Large width: x ^ a = b (64-bit)")
	b := bvsls.NewBuilder()
	x := b.BVVar("x", 64)
	a := b.BVConstU64(64, 0x0123456789abcdef)
	bb := b.BVConstU64(64, 0xfedcba9876543210)
	b.Assert(b.Eq(b.BvXor(x, a), bb))
	run(b)
}

func run(b *bvsls.Builder) {
	terms := b.Finalize()
	e := bvsls.New(terms)
	e.Init()
	e.InitEval(nil)
	outcome := e.Run(nil)

	fmt.Printf("   result: %s (moves=%d restarts=%d)\n", outcome, e.Stats().Moves, e.Stats().Restarts)
	if outcome == bvsls.Sat {
		m := e.Model()
		for name, v := range m.BVs {
			fmt.Printf("   %s = %s\n", name, v.Hex())
		}
		for name, v := range m.Bools {
			fmt.Printf("   %s = %v\n", name, v)
		}
	}
	fmt.Println()
}
