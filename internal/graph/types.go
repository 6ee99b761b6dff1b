package graph

// Def is a raw task definition as supplied by a loader, before validation
// and PERT derivation.
type Def struct {
	ID           string
	Name         string
	Predecessors []string
	Optimistic   float64
	MostLikely   float64
	Pessimistic  float64

	// Optional overrides for the derived PERT values. When nil, Build
	// derives them from the three-point estimate.
	Expected *float64
	StdDev   *float64
}

// Task is a single validated task. Immutable once the graph is built.
type Task struct {
	ID           string
	Name         string
	Optimistic   float64
	MostLikely   float64
	Pessimistic  float64
	Expected     float64 // PERT mean: (O + 4M + P) / 6
	StdDev       float64 // (P - O) / 6
	Predecessors []string
}

// TaskGraph is a directed acyclic graph of tasks keyed by id.
type TaskGraph struct {
	Tasks  map[string]*Task
	Preds  map[string][]string // task -> tasks it waits on
	Succs  map[string][]string // task -> tasks waiting on it
	Roots  []string            // tasks with no predecessors
	Leaves []string            // tasks nothing waits on
}
