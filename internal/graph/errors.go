package graph

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyGraph is returned when a graph is built from zero tasks.
// No schedule or percentile statistics are meaningful without tasks.
var ErrEmptyGraph = errors.New("graph contains no tasks")

// DuplicateTaskError reports a task id that appears more than once.
type DuplicateTaskError struct {
	TaskID string
}

func (e *DuplicateTaskError) Error() string {
	return fmt.Sprintf("duplicate task id %q", e.TaskID)
}

// UnresolvedDependencyError reports a predecessor reference to a task id
// that does not exist in the graph.
type UnresolvedDependencyError struct {
	TaskID string // the task declaring the dependency
	Ref    string // the missing predecessor id
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("task %q depends on unknown task %q", e.TaskID, e.Ref)
}

// EstimateError reports a task whose duration estimate violates the
// expected > 0 / stddev >= 0 invariants.
type EstimateError struct {
	TaskID string
	Reason string
}

func (e *EstimateError) Error() string {
	return fmt.Sprintf("task %q has invalid estimate: %s", e.TaskID, e.Reason)
}

// CycleError reports that the dependency relation is not acyclic.
// Tasks holds the cycle path when detection could reconstruct one, or the
// set of tasks left unprocessed by a topological sort otherwise.
type CycleError struct {
	Tasks []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle involving: %s", strings.Join(e.Tasks, " -> "))
}
