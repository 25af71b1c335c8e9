package sim

import (
	"context"
	"sync"
)

// Ensemble runs the same loop configuration across several sensor
// seeds concurrently, to see how much measurement noise moves the
// outcome. Build must return a fresh Loop per seed, since plants and
// controllers are stateful.
type Ensemble struct {
	build     func(seed int64) *Loop
	numRuns   int
	seedStart int64
}

func NewEnsemble(build func(seed int64) *Loop, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			loop := e.build(cfgCopy.Seed)
			results[idx], errs[idx] = loop.Run(ctx, cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
