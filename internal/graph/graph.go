package graph

import "sort"

// Build constructs a validated TaskGraph from raw task definitions.
// PERT expected/stddev values are derived from the three-point estimate
// unless the definition supplies overrides. Duplicate ids, references to
// unknown tasks, invalid estimates, and dependency cycles are all
// construction-time errors; a graph that builds successfully is safe for
// concurrent read-only use by any number of simulation workers.
func Build(defs []Def) (*TaskGraph, error) {
	if len(defs) == 0 {
		return nil, ErrEmptyGraph
	}

	g := &TaskGraph{
		Tasks: make(map[string]*Task, len(defs)),
		Preds: make(map[string][]string, len(defs)),
		Succs: make(map[string][]string, len(defs)),
	}

	for i := range defs {
		d := &defs[i]
		if _, ok := g.Tasks[d.ID]; ok {
			return nil, &DuplicateTaskError{TaskID: d.ID}
		}

		t := &Task{
			ID:          d.ID,
			Name:        d.Name,
			Optimistic:  d.Optimistic,
			MostLikely:  d.MostLikely,
			Pessimistic: d.Pessimistic,
			Expected:    (d.Optimistic + 4*d.MostLikely + d.Pessimistic) / 6,
			StdDev:      (d.Pessimistic - d.Optimistic) / 6,
		}
		if d.Expected != nil {
			t.Expected = *d.Expected
		}
		if d.StdDev != nil {
			t.StdDev = *d.StdDev
		}
		if t.Expected <= 0 {
			return nil, &EstimateError{TaskID: t.ID, Reason: "expected duration must be positive"}
		}
		if t.StdDev < 0 {
			return nil, &EstimateError{TaskID: t.ID, Reason: "standard deviation must not be negative"}
		}
		g.Tasks[t.ID] = t
	}

	// Wire edges. Every referenced predecessor must exist; an unresolved
	// reference fails the build rather than silently skipping at schedule
	// time. Duplicate edges collapse to one.
	edgeSet := make(map[[2]string]bool)
	for i := range defs {
		d := &defs[i]
		var preds []string
		for _, ref := range d.Predecessors {
			if _, ok := g.Tasks[ref]; !ok {
				return nil, &UnresolvedDependencyError{TaskID: d.ID, Ref: ref}
			}
			key := [2]string{ref, d.ID}
			if edgeSet[key] {
				continue
			}
			edgeSet[key] = true
			preds = append(preds, ref)
			g.Succs[ref] = append(g.Succs[ref], d.ID)
		}
		sort.Strings(preds)
		g.Preds[d.ID] = preds
		g.Tasks[d.ID].Predecessors = preds
	}
	for k := range g.Succs {
		sort.Strings(g.Succs[k])
	}

	for id := range g.Tasks {
		if len(g.Preds[id]) == 0 {
			g.Roots = append(g.Roots, id)
		}
		if len(g.Succs[id]) == 0 {
			g.Leaves = append(g.Leaves, id)
		}
	}
	sort.Strings(g.Roots)
	sort.Strings(g.Leaves)

	if cycle := g.DetectCycle(); cycle != nil {
		return nil, &CycleError{Tasks: cycle}
	}

	return g, nil
}

// DetectCycle returns the cycle path if one exists, or nil if the graph is
// acyclic. Uses DFS with coloring: white (unvisited), gray (in progress),
// black (done).
func (g *TaskGraph) DetectCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int)
	parent := make(map[string]string)

	var dfs func(node string) []string
	dfs = func(node string) []string {
		color[node] = gray
		for _, next := range g.Succs[node] {
			if color[next] == gray {
				// Found a cycle — reconstruct it
				cycle := []string{next, node}
				cur := node
				for cur != next {
					cur = parent[cur]
					cycle = append(cycle, cur)
				}
				// Reverse to get forward order
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return cycle
			}
			if color[next] == white {
				parent[next] = node
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		color[node] = black
		return nil
	}

	// Sort keys for deterministic detection
	ids := g.IDs()
	for _, id := range ids {
		if color[id] == white {
			if cycle := dfs(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// IDs returns all task ids in lexicographic order.
func (g *TaskGraph) IDs() []string {
	ids := make([]string, 0, len(g.Tasks))
	for id := range g.Tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TaskCount returns the number of tasks in the graph.
func (g *TaskGraph) TaskCount() int {
	return len(g.Tasks)
}
