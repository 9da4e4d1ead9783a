package bvsls

import "github.com/pkg/errors"

// Config carries the tunables of the repair loop. UpdtParams requires
// MaxRepairs and MaxRestarts to be positive and KeepProbability to lie
// in [0, 1]; RandomSeed and Verbosity are not checked.
type Config struct {
	// MaxRepairs bounds the number of moves a single search() call may
	// make before giving up and reporting Unknown.
	MaxRepairs int
	// MaxRestarts bounds how many times the outer driver reseeds the
	// assignment and retries search().
	MaxRestarts int
	// RandomSeed seeds the PRNG driving every random pick, so that two
	// runs with identical inputs and seed produce identical outcomes.
	RandomSeed uint64
	// KeepProbability is spec.md's p_keep: the restart oracle's chance
	// of keeping a non-fixed bit's prior value rather than resampling
	// it uniformly at random.
	KeepProbability float64
	// Verbosity gates trace output: >= 2 emits one line per restart,
	// >= 20 emits one line per move.
	Verbosity int
}

// DefaultConfig returns the engine's out-of-the-box tunables, matching
// the orders of magnitude spec.md §4.6 describes.
func DefaultConfig() Config {
	return Config{
		MaxRepairs:      1_000_000,
		MaxRestarts:     1_000_000,
		RandomSeed:      0,
		KeepProbability: 0.02,
		Verbosity:       0,
	}
}

// Validate rejects an invalid configuration with a descriptive error,
// matching the corpus's own constructor-validation style (e.g.
// Absolute, Among) rather than silently clamping values.
func (c Config) Validate() error {
	if c.MaxRepairs <= 0 {
		return errors.Errorf("bvsls: MaxRepairs must be positive, got %d", c.MaxRepairs)
	}
	if c.MaxRestarts <= 0 {
		return errors.Errorf("bvsls: MaxRestarts must be positive, got %d", c.MaxRestarts)
	}
	if c.KeepProbability < 0 || c.KeepProbability > 1 {
		return errors.Errorf("bvsls: KeepProbability must be in [0,1], got %f", c.KeepProbability)
	}
	return nil
}

// Stats carries move/restart counters, reset at the start of each
// top-level Run.
type Stats struct {
	Moves    int
	Restarts int
}
