// Package bvsls implements the repair-loop core of a stochastic local
// search (SLS) engine for quantifier-free formulas over fixed-width
// bit-vectors combined with Boolean connectives.
//
// Given a conjunction of assertions built from Boolean and bit-vector
// operators over uninterpreted constants, Engine.Run searches for a
// value assignment that makes every assertion true. On success it
// reports Sat and a Model can be extracted; otherwise it reports
// Unknown. SLS is incomplete: it never reports Unsat.
//
// The package owns four collaborating pieces:
//   - Terms: the expression DAG, assertion roots, and a parents index.
//   - Evaluator: per-node current/recomputed values, fixed-bit masks,
//     and invertibility-based repair moves.
//   - RepairSet: O(1) insert/remove/contains/random-pick node sets.
//   - Engine: the scheduler that drives repair moves and restarts.
//
// This implementation is designed for embedding in a larger solver,
// in the spirit of Terms/Evaluator being supplied by a containing
// driver; here both are concrete so the package is self-contained.
package bvsls
