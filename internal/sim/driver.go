// Package sim runs Monte Carlo schedule simulations over a task graph:
// sample every task duration, run the forward pass, apply the risk overlay,
// repeat, then aggregate the outcomes into percentile estimates.
package sim

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joshharrison/pertcast/internal/cpm"
	"github.com/joshharrison/pertcast/internal/graph"
)

// DefaultIterations is the iteration count used when a caller leaves it at
// zero in the CLI layer. Config itself requires an explicit positive count.
const DefaultIterations = 10000

// Config controls one simulation run.
type Config struct {
	// Iterations is the number of Monte Carlo iterations. Must be positive.
	Iterations int

	// Seed makes the whole run reproducible: every sampler and overlay draw
	// across all iterations replays bit-for-bit, regardless of Workers.
	// Zero means derive a seed from the wall clock.
	Seed int64

	// Workers bounds the number of concurrent iteration workers.
	// Zero means GOMAXPROCS.
	Workers int

	// ProgressEvery and Progress report completed-iteration counts roughly
	// every ProgressEvery iterations (default 1000). Progress may be invoked
	// from worker goroutines and must be safe for concurrent use. Leaving it
	// nil disables reporting.
	ProgressEvery int
	Progress      func(completed int)
}

// ConfigError reports an invalid simulation configuration.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid simulation config: " + e.Reason
}

// Run executes the configured number of independent iterations over the
// read-only task graph and aggregates the outcomes. Iterations fan out over
// a fixed worker pool; each worker owns its schedule buffers and each
// iteration its own random stream, so merge order cannot affect the sorted
// statistics. On context cancellation Run stops after in-flight iterations
// and returns the partial result marked Incomplete together with the
// context's error; it never silently truncates.
func Run(ctx context.Context, g *graph.TaskGraph, cfg Config) (*Result, error) {
	if cfg.Iterations <= 0 {
		return nil, &ConfigError{Reason: fmt.Sprintf("iterations must be positive, got %d", cfg.Iterations)}
	}

	plan, err := cpm.NewPlan(g)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > cfg.Iterations {
		workers = cfg.Iterations
	}
	progressEvery := cfg.ProgressEvery
	if progressEvery <= 0 {
		progressEvery = 1000
	}

	started := time.Now()

	var (
		next      atomic.Int64 // iteration index dispenser
		completed atomic.Int64
		wg        sync.WaitGroup
	)
	buffers := make([][]Outcome, workers)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()

			size := plan.Size()
			durations := make([]float64, size)
			starts := make([]float64, size)
			finishes := make([]float64, size)
			local := make([]Outcome, 0, cfg.Iterations/workers+1)

			for ctx.Err() == nil {
				i := int(next.Add(1)) - 1
				if i >= cfg.Iterations {
					break
				}

				rng := rand.New(rand.NewSource(iterationSeed(seed, i)))
				for j := 0; j < size; j++ {
					durations[j] = SampleDuration(plan.Task(j), rng)
				}
				base := plan.Forward(durations, starts, finishes)
				adj := ApplyRisk(base, rng)

				local = append(local, Outcome{
					Iteration:      i,
					Base:           base,
					HiddenAmount:   adj.HiddenAmount,
					RiskMultiplier: adj.Multiplier,
					Final:          adj.Final,
				})

				done := int(completed.Add(1))
				if cfg.Progress != nil && done%progressEvery == 0 {
					cfg.Progress(done)
				}
			}
			buffers[w] = local
		}(w)
	}
	wg.Wait()

	var outcomes []Outcome
	for _, buf := range buffers {
		outcomes = append(outcomes, buf...)
	}

	if err := ctx.Err(); err != nil {
		if len(outcomes) == 0 {
			return nil, err
		}
		res := aggregate(plan, outcomes)
		res.Iterations = cfg.Iterations
		res.Incomplete = true
		res.Seed = seed
		res.Elapsed = time.Since(started)
		return res, err
	}

	res := aggregate(plan, outcomes)
	res.Iterations = cfg.Iterations
	res.Seed = seed
	res.Elapsed = time.Since(started)
	return res, nil
}

// iterationSeed derives an independent stream seed for one iteration using
// a splitmix64-style mix. Streams depend only on (seed, iteration), never on
// which worker picks the iteration up, so worker count cannot change results.
func iterationSeed(seed int64, iteration int) int64 {
	z := uint64(seed) + (uint64(iteration)+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return int64(z ^ (z >> 31))
}
