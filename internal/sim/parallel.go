package sim

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// Factory builds the runner for the i-th member of an ensemble. Every call
// must return a runner over its own world.
type Factory func(i int) (*Runner, error)

// Ensemble runs independent worlds concurrently on at most Workers
// goroutines.
type Ensemble struct {
	factory Factory
	numRuns int
	Workers int
}

func NewEnsemble(f Factory, numRuns int) *Ensemble {
	return &Ensemble{factory: f, numRuns: numRuns, Workers: runtime.GOMAXPROCS(0)}
}

// Run returns one result per member in member order. Failures of individual
// members are joined; any failure discards all results.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range max(1, min(e.Workers, e.numRuns)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], errs[i] = e.member(ctx, i, cfg)
			}
		}()
	}
	for i := 0; i < e.numRuns; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Ensemble) member(ctx context.Context, i int, cfg Config) (*Result, error) {
	r, err := e.factory(i)
	if err != nil {
		return nil, fmt.Errorf("member %d: %w", i, err)
	}
	return r.Run(ctx, cfg)
}
