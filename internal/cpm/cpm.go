// Package cpm implements the forward pass of the Critical Path Method over
// a task graph. A Plan interns task ids into dense indices and fixes a
// topological order once, so the per-iteration forward pass of a Monte Carlo
// run is a tight loop over slices with no map lookups.
package cpm

import (
	"math"
	"sort"

	"github.com/joshharrison/pertcast/internal/graph"
)

// criticalTolerance is the absolute slack below which a task counts as
// critical: delaying it by any amount delays the whole project.
const criticalTolerance = 0.001

// Plan is a reusable forward-pass schedule over a fixed task graph.
// Safe for concurrent use: all fields are read-only after NewPlan.
type Plan struct {
	ids   []string       // dense index -> task id, lexicographic
	index map[string]int // task id -> dense index
	tasks []*graph.Task  // dense index -> task
	order []int          // topological order over dense indices
	preds [][]int        // dense index -> predecessor indices
	succs [][]int        // dense index -> successor indices
}

// NewPlan builds a Plan from a task graph. The topological order is computed
// with Kahn's algorithm, lexicographic among simultaneously-ready tasks so
// repeated runs process tasks identically. If the frontier empties before
// every task is ordered, the leftover tasks form at least one cycle and a
// graph.CycleError naming them is returned.
func NewPlan(g *graph.TaskGraph) (*Plan, error) {
	if g.TaskCount() == 0 {
		return nil, graph.ErrEmptyGraph
	}

	p := &Plan{
		ids:   g.IDs(),
		index: make(map[string]int, g.TaskCount()),
		tasks: make([]*graph.Task, g.TaskCount()),
		preds: make([][]int, g.TaskCount()),
	}
	for i, id := range p.ids {
		p.index[id] = i
		p.tasks[i] = g.Tasks[id]
	}
	for i, id := range p.ids {
		refs := g.Preds[id]
		if len(refs) == 0 {
			continue
		}
		idx := make([]int, len(refs))
		for j, ref := range refs {
			idx[j] = p.index[ref]
		}
		sort.Ints(idx)
		p.preds[i] = idx
	}

	// Kahn's algorithm over dense indices. Index order is id order, so
	// sorted int queues keep the processing sequence lexicographic.
	inDegree := make([]int, len(p.ids))
	for i := range p.preds {
		inDegree[i] = len(p.preds[i])
	}
	var queue []int
	for i, d := range inDegree {
		if d == 0 {
			queue = append(queue, i)
		}
	}

	order := make([]int, 0, len(p.ids))
	p.succs = make([][]int, len(p.ids))
	for i, id := range p.ids {
		for _, s := range g.Succs[id] {
			p.succs[i] = append(p.succs[i], p.index[s])
		}
		sort.Ints(p.succs[i])
	}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		var newReady []int
		for _, s := range p.succs[node] {
			inDegree[s]--
			if inDegree[s] == 0 {
				newReady = append(newReady, s)
			}
		}
		sort.Ints(newReady)
		queue = append(queue, newReady...)
	}

	if len(order) != len(p.ids) {
		// The frontier emptied with tasks left over: report the stuck set.
		ordered := make([]bool, len(p.ids))
		for _, i := range order {
			ordered[i] = true
		}
		var stuck []string
		for i, done := range ordered {
			if !done {
				stuck = append(stuck, p.ids[i])
			}
		}
		return nil, &graph.CycleError{Tasks: stuck}
	}

	p.order = order
	return p, nil
}

// Size returns the number of tasks in the plan.
func (p *Plan) Size() int {
	return len(p.ids)
}

// IDs returns task ids in dense-index (lexicographic) order. Callers must
// not modify the returned slice.
func (p *Plan) IDs() []string {
	return p.ids
}

// Task returns the task at a dense index.
func (p *Plan) Task(i int) *graph.Task {
	return p.tasks[i]
}

// ExpectedDurations fills out (allocating when nil or too small) with each
// task's PERT expected duration, indexed densely, and returns it.
func (p *Plan) ExpectedDurations(out []float64) []float64 {
	if cap(out) < len(p.tasks) {
		out = make([]float64, len(p.tasks))
	}
	out = out[:len(p.tasks)]
	for i, t := range p.tasks {
		out[i] = t.Expected
	}
	return out
}

// Forward runs the forward pass for one duration assignment. durations,
// starts, and finishes are dense-indexed slices of Size() elements; starts
// and finishes are overwritten. Returns the project makespan (the maximum
// early finish). A task's early start is the maximum early finish among its
// predecessors, zero for roots.
func (p *Plan) Forward(durations, starts, finishes []float64) float64 {
	makespan := 0.0
	for _, i := range p.order {
		es := 0.0
		for _, pred := range p.preds[i] {
			if finishes[pred] > es {
				es = finishes[pred]
			}
		}
		ef := es + durations[i]
		starts[i] = es
		finishes[i] = ef
		if ef > makespan {
			makespan = ef
		}
	}
	return makespan
}

// CriticalPath runs the backward pass over a completed forward pass and
// returns the ids of tasks with zero slack (within the critical tolerance),
// sorted lexicographically. Leaves take the makespan as their latest finish;
// every other task's latest finish is the minimum latest start among its
// successors.
func (p *Plan) CriticalPath(durations, starts []float64, makespan float64) []string {
	latestStart := make([]float64, len(p.ids))
	for k := len(p.order) - 1; k >= 0; k-- {
		i := p.order[k]
		lf := makespan
		if len(p.succs[i]) > 0 {
			lf = math.Inf(1)
			for _, s := range p.succs[i] {
				if latestStart[s] < lf {
					lf = latestStart[s]
				}
			}
		}
		latestStart[i] = lf - durations[i]
	}

	var critical []string
	for i := range p.ids {
		if slack := latestStart[i] - starts[i]; slack < criticalTolerance {
			critical = append(critical, p.ids[i])
		}
	}
	sort.Strings(critical)
	return critical
}

// ExpectedSchedule runs a single deterministic forward and backward pass
// using every task's expected duration and returns the critical path and
// the project duration.
func (p *Plan) ExpectedSchedule() ([]string, float64) {
	durations := p.ExpectedDurations(nil)
	starts := make([]float64, p.Size())
	finishes := make([]float64, p.Size())
	makespan := p.Forward(durations, starts, finishes)
	return p.CriticalPath(durations, starts, makespan), makespan
}
