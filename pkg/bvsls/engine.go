package bvsls

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/log"
)

// Engine is the repair-loop scheduler (component C4 of SPEC_FULL.md):
// it owns the RepairSets, drives moves through the Evaluator, and
// manages restarts. It is the concrete analogue of spec.md §6's
// external interface.
type Engine struct {
	t  *Terms
	ev *Evaluator

	down *RepairSet
	up   *RepairSet

	cfg   Config
	stats Stats
	rng   *rand.Rand

	logger log.Logger
}

// New constructs an Engine over a finalized Terms — the "expr_context"
// of spec.md §6.
func New(t *Terms) *Engine {
	return &Engine{
		t:      t,
		cfg:    DefaultConfig(),
		logger: log.Root(),
	}
}

// Init checks that the Terms collaborator has already been finalized
// by Builder.Finalize, panicking otherwise; it does not finalize Terms
// itself. It then allocates the Evaluator and RepairSets. It must be
// called before InitEval.
func (e *Engine) Init() {
	if !e.t.finalized {
		panic("bvsls: Init called on a non-finalized Terms; call Builder.Finalize first")
	}
	e.ev = NewEvaluator(e.t)
	e.down = NewRepairSet()
	e.up = NewRepairSet()
	e.rng = rand.New(rand.NewPCG(e.cfg.RandomSeed, e.cfg.RandomSeed))
}

// UpdtParams validates and installs new tunables. Changing RandomSeed
// takes effect on the next InitEval/restart, not retroactively.
func (e *Engine) UpdtParams(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.cfg = cfg
	if e.rng != nil {
		e.rng = rand.New(rand.NewPCG(cfg.RandomSeed, cfg.RandomSeed))
	}
	return nil
}

// SetLogger overrides the default root logger.
func (e *Engine) SetLogger(l log.Logger) { e.logger = l }

// InitEval installs the initial-bit oracle, primes value state, and
// builds the initial repair sets.
func (e *Engine) InitEval(oracle Oracle) {
	if oracle == nil {
		oracle = RandomOracle(e.rng)
	}
	e.ev.InitEval(oracle)
	e.buildRepairSets()
}

// Run is the main entry point: it drives search() to convergence or
// exhaustion, restarting (reseeding the assignment while preserving
// fixed bits) up to MaxRestarts times, consulting interrupt between
// moves and between restarts. interrupt may be nil.
func (e *Engine) Run(interrupt func() bool) Outcome {
	e.stats = Stats{}
	for {
		outcome := e.search(interrupt)
		if outcome == Sat {
			return Sat
		}
		if interrupt != nil && !interrupt() {
			return Unknown
		}
		if e.stats.Restarts >= e.cfg.MaxRestarts {
			return Unknown
		}
		e.restart()
	}
}

// restart reseeds the assignment via the keep-mostly oracle and
// rebuilds the repair sets, per spec.md §4.4.
func (e *Engine) restart() {
	e.stats.Restarts++
	if e.cfg.Verbosity >= 2 {
		e.logger.Info(fmt.Sprintf("(bvsls :restarts %d :repair-down %d :repair-up %d)", e.stats.Restarts, e.down.Size(), e.up.Size()),
			"restarts", e.stats.Restarts, "down", e.down.Size(), "up", e.up.Size())
	}
	oracle := KeepMostlyOracle(e.ev, e.rng, e.cfg.KeepProbability)
	e.ev.InitEval(oracle)
	e.buildRepairSets()
}

func (e *Engine) traceMove(fromDown bool, id NodeID, correctBefore bool) {
	if e.cfg.Verbosity < 20 {
		return
	}
	dir := "u"
	if fromDown {
		dir = "d"
	}
	flag := "U"
	if correctBefore {
		flag = "C"
	}
	e.logger.Debug(fmt.Sprintf("bvsls move %s #%d %s", dir, id, flag))
}

// Stats returns a copy of the move/restart counters accumulated by the
// most recent Run.
func (e *Engine) Stats() Stats { return e.stats }

// Display dumps per-node value state and repair-set membership for
// debugging, using go-spew rather than hand-rolled formatting.
func (e *Engine) Display(w io.Writer) {
	for _, id := range e.t.AllNodeIDs() {
		n := e.t.Term(id)
		state := struct {
			ID      NodeID
			Op      string
			Sort    string
			InDown  bool
			InUp    bool
			Correct bool
		}{id, n.op.String(), n.sort.String(), e.down.Contains(id), e.up.Contains(id), e.ev.CanEval1(id) && e.ev.EvalIsCorrect(id)}
		fmt.Fprint(w, spew.Sdump(state))
	}
}
