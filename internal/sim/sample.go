package sim

import (
	"math/rand"

	"github.com/joshharrison/pertcast/internal/graph"
)

// durationFloor is the minimum sampled duration. Zero-duration tasks would
// create ambiguous scheduling ties and negative durations are meaningless,
// so draws from the left tail clamp here.
const durationFloor = 0.1

// SampleDuration draws one duration for a task from a Normal distribution
// parameterized by its PERT expected value and standard deviation, as an
// approximation of the underlying Beta. Tasks with stddev <= 0 degenerate
// to their expected value exactly; no draw is consumed from the stream, so
// deterministic tasks do not perturb the sequence of random tasks.
func SampleDuration(t *graph.Task, rng *rand.Rand) float64 {
	if t.StdDev <= 0 {
		return t.Expected
	}
	d := t.Expected + rng.NormFloat64()*t.StdDev
	if d < durationFloor {
		d = durationFloor
	}
	return d
}
