package bvsls

// buildRepairSets implements spec.md §4.4's Initialization step: every
// false assertion has its desired value set to true and is pushed into
// down; every internal node whose val1 already diverges from val0 is
// pushed into down too. Called once by InitEval and again after every
// restart.
func (e *Engine) buildRepairSets() {
	e.down.Reset()
	e.up.Reset()

	for _, a := range e.t.Assertions() {
		if !e.ev.BVal0(a) {
			e.ev.Set(a, true)
			e.down.Insert(a)
		}
	}
	for _, id := range e.t.AllNodeIDs() {
		n := e.t.Term(id)
		if n.op == OpVar || n.op == OpConst {
			continue
		}
		// Assertions are not special-cased here: an assertion that is a
		// DAG-shared ancestor of another assertion can be flipped true
		// by the first loop above and thereby make a sibling assertion
		// that shares it genuinely incorrect. RepairSet.Insert is
		// idempotent, so re-inserting an assertion already queued above
		// is harmless, and this is the only path that can catch such a
		// sibling.
		if e.ev.CanEval1(id) && !e.ev.EvalIsCorrect(id) {
			e.down.Insert(id)
		}
	}
}

// pick implements next_to_repair: down is drained before up is ever
// consulted (invariant I4).
func (e *Engine) pick() (fromDown bool, id NodeID, found bool) {
	if !e.down.IsEmpty() {
		n, _ := e.down.pickRandom(e.rng)
		return true, n, true
	}
	if !e.up.IsEmpty() {
		n, _ := e.up.pickRandom(e.rng)
		return false, n, true
	}
	return false, 0, false
}

// step executes one repair-loop iteration for the picked node.
func (e *Engine) step(fromDown bool, id NodeID) {
	e.stats.Moves++
	correctBefore := e.ev.EvalIsCorrect(id)

	e.traceMove(fromDown, id, correctBefore)

	if correctBefore {
		if fromDown {
			e.down.Remove(id)
		} else {
			e.up.Remove(id)
		}
		return
	}
	if fromDown {
		e.tryRepairDown(id)
	} else {
		e.tryRepairUp(id)
	}
}

// tryRepairDown implements spec.md §4.4's try_repair_down: try each
// child, starting from a random index, stopping at the first
// successful repair. If none succeeds, e moves from down to up.
func (e *Engine) tryRepairDown(id NodeID) {
	n := e.t.Term(id)
	numChildren := len(n.children)
	if numChildren == 0 {
		e.down.Remove(id)
		e.up.Insert(id)
		return
	}
	start := e.rng.IntN(numChildren)
	for k := 0; k < numChildren; k++ {
		i := (start + k) % numChildren
		if e.tryRepairChild(id, i) {
			return
		}
	}
	e.down.Remove(id)
	e.up.Insert(id)
}

// tryRepairChild implements spec.md §4.4's try_repair_child.
func (e *Engine) tryRepairChild(parent NodeID, i int) bool {
	child := e.t.Term(parent).children[i]
	if !e.ev.TryRepair(parent, i) {
		return false
	}
	e.down.Insert(child)
	for _, p := range e.t.Parents(child) {
		e.up.Insert(p)
	}
	return true
}

// tryRepairUp implements spec.md §4.4's try_repair_up.
func (e *Engine) tryRepairUp(id NodeID) {
	e.up.Remove(id)
	if e.t.IsAssertion(id) {
		e.down.Insert(id)
		return
	}
	e.ev.RepairUp(id)
	for _, p := range e.t.Parents(id) {
		e.up.Insert(p)
	}
}

// search runs the repair loop to convergence, to the move budget, or
// until interrupt returns false. It does not restart; Run's outer loop
// owns restarts.
func (e *Engine) search(interrupt func() bool) Outcome {
	startMoves := e.stats.Moves
	for {
		if interrupt != nil && !interrupt() {
			return Unknown
		}
		fromDown, id, found := e.pick()
		if !found {
			return Sat
		}
		if e.stats.Moves-startMoves >= e.cfg.MaxRepairs {
			return Unknown
		}
		e.step(fromDown, id)
	}
}
