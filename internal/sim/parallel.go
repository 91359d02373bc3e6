package sim

import (
	"context"
	"sync"

	"github.com/gitrymt/cold-atoms/internal/ensemble"
)

// Sweep runs the same initial ensemble numRuns times with consecutive
// seeds, one goroutine per run. Each run gets its own Simulator from the
// build callback because stochastic forces carry per-run random state.
type Sweep struct {
	numRuns   int
	seedStart int64
	build     func(seed int64) *Simulator
}

// NewSweep returns a Sweep of numRuns runs seeded seedStart, seedStart+1, …
func NewSweep(numRuns int, seedStart int64, build func(seed int64) *Simulator) *Sweep {
	return &Sweep{numRuns: numRuns, seedStart: seedStart, build: build}
}

// Run executes all runs and returns their results in seed order. The
// initial ensemble is cloned per run and never mutated. The first run
// error, if any, is returned.
func (s *Sweep) Run(ctx context.Context, ens *ensemble.Ensemble, cfg Config) ([]*Result, error) {
	results := make([]*Result, s.numRuns)
	errs := make([]error, s.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < s.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = s.seedStart + int64(idx)

			results[idx], errs[idx] = s.build(cfgCopy.Seed).Run(ctx, ens.Clone(), cfgCopy)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
