package sim

import (
	"sort"
	"time"

	"github.com/joshharrison/pertcast/internal/cpm"
)

// Outcome records one Monte Carlo iteration.
type Outcome struct {
	Iteration      int
	Base           float64 // scheduler makespan before overlay
	HiddenAmount   float64
	RiskMultiplier float64
	Final          float64
}

// Result is the aggregated output of a simulation run, the only object
// handed to reporting.
type Result struct {
	Durations []float64 `json:"durations"` // final durations, ascending

	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P80    float64 `json:"p80"`
	P95    float64 `json:"p95"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`

	AvgBase           float64 `json:"avg_base_duration"`
	AvgHidden         float64 `json:"avg_hidden_tasks"`
	AvgRiskMultiplier float64 `json:"avg_risk_multiplier"`

	CriticalPath         []string `json:"critical_path"`
	CriticalPathDuration float64  `json:"critical_path_duration"`

	Iterations int           `json:"iterations"` // requested
	Completed  int           `json:"completed"`
	Incomplete bool          `json:"incomplete,omitempty"`
	Seed       int64         `json:"seed"`
	Elapsed    time.Duration `json:"elapsed_ns"`
}

// aggregate consumes the full outcome set once: sorts final durations,
// computes the summary statistics, and derives the deterministic critical
// path from expected-value durations. Outcomes must be non-empty.
func aggregate(plan *cpm.Plan, outcomes []Outcome) *Result {
	n := len(outcomes)
	durations := make([]float64, n)
	var sumBase, sumHidden, sumMult, sumFinal float64
	for i, o := range outcomes {
		durations[i] = o.Final
		sumBase += o.Base
		sumHidden += o.HiddenAmount
		sumMult += o.RiskMultiplier
		sumFinal += o.Final
	}
	sort.Float64s(durations)

	path, pathDuration := plan.ExpectedSchedule()

	return &Result{
		Durations:            durations,
		Mean:                 sumFinal / float64(n),
		Median:               durations[n/2],
		P80:                  percentile(durations, 0.80),
		P95:                  percentile(durations, 0.95),
		Min:                  durations[0],
		Max:                  durations[n-1],
		AvgBase:              sumBase / float64(n),
		AvgHidden:            sumHidden / float64(n),
		AvgRiskMultiplier:    sumMult / float64(n),
		CriticalPath:         path,
		CriticalPathDuration: pathDuration,
		Completed:            n,
	}
}

// percentile indexes the sorted durations at floor(n*p), capped at n-1.
// Simple truncation, not interpolation — the reported values are defined by
// this convention.
func percentile(sorted []float64, p float64) float64 {
	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
