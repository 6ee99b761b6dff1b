package graph

import (
	"errors"
	"math"
	"testing"
)

func def(id string, estimate float64, preds ...string) Def {
	return Def{
		ID:           id,
		Name:         "Task " + id,
		Predecessors: preds,
		Optimistic:   estimate,
		MostLikely:   estimate,
		Pessimistic:  estimate,
	}
}

func TestBuild_SimpleDAG(t *testing.T) {
	// a -> b -> d
	// a -> c -> d
	g, err := Build([]Def{
		def("a", 1),
		def("b", 1, "a"),
		def("c", 1, "a"),
		def("d", 1, "b", "c"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if g.TaskCount() != 4 {
		t.Errorf("expected 4 tasks, got %d", g.TaskCount())
	}
	if len(g.Roots) != 1 || g.Roots[0] != "a" {
		t.Errorf("expected roots=[a], got %v", g.Roots)
	}
	if len(g.Leaves) != 1 || g.Leaves[0] != "d" {
		t.Errorf("expected leaves=[d], got %v", g.Leaves)
	}
	if succs := g.Succs["a"]; len(succs) != 2 {
		t.Errorf("expected a to have 2 successors, got %v", succs)
	}
	if preds := g.Preds["d"]; len(preds) != 2 {
		t.Errorf("expected d to have 2 predecessors, got %v", preds)
	}
}

func TestBuild_DerivesPERTValues(t *testing.T) {
	g, err := Build([]Def{{
		ID:          "a",
		Name:        "Task A",
		Optimistic:  2,
		MostLikely:  5,
		Pessimistic: 14,
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	task := g.Tasks["a"]
	wantExpected := (2.0 + 4*5.0 + 14.0) / 6 // 6.0
	wantStdDev := (14.0 - 2.0) / 6           // 2.0
	if math.Abs(task.Expected-wantExpected) > 1e-9 {
		t.Errorf("expected %.4f, got %.4f", wantExpected, task.Expected)
	}
	if math.Abs(task.StdDev-wantStdDev) > 1e-9 {
		t.Errorf("expected stddev %.4f, got %.4f", wantStdDev, task.StdDev)
	}
}

func TestBuild_EstimateOverrides(t *testing.T) {
	expected := 7.5
	stddev := 0.25
	g, err := Build([]Def{{
		ID:          "a",
		Optimistic:  1,
		MostLikely:  2,
		Pessimistic: 3,
		Expected:    &expected,
		StdDev:      &stddev,
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Tasks["a"].Expected != 7.5 || g.Tasks["a"].StdDev != 0.25 {
		t.Errorf("overrides not applied: expected=%.2f stddev=%.2f",
			g.Tasks["a"].Expected, g.Tasks["a"].StdDev)
	}
}

func TestBuild_ZeroStdDevAllowed(t *testing.T) {
	// A degenerate distribution is a policy, not an error.
	if _, err := Build([]Def{def("a", 5)}); err != nil {
		t.Fatalf("zero-variance task should build: %v", err)
	}
}

func TestBuild_Empty(t *testing.T) {
	_, err := Build(nil)
	if !errors.Is(err, ErrEmptyGraph) {
		t.Fatalf("expected ErrEmptyGraph, got %v", err)
	}
}

func TestBuild_DuplicateID(t *testing.T) {
	_, err := Build([]Def{def("a", 1), def("a", 2)})
	var dup *DuplicateTaskError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateTaskError, got %v", err)
	}
	if dup.TaskID != "a" {
		t.Errorf("expected duplicate id a, got %q", dup.TaskID)
	}
}

func TestBuild_UnresolvedDependency(t *testing.T) {
	_, err := Build([]Def{def("a", 1, "ghost")})
	var unresolved *UnresolvedDependencyError
	if !errors.As(err, &unresolved) {
		t.Fatalf("expected UnresolvedDependencyError, got %v", err)
	}
	if unresolved.TaskID != "a" || unresolved.Ref != "ghost" {
		t.Errorf("unexpected error detail: %+v", unresolved)
	}
}

func TestBuild_InvalidEstimate(t *testing.T) {
	_, err := Build([]Def{def("a", 0)})
	var est *EstimateError
	if !errors.As(err, &est) {
		t.Fatalf("expected EstimateError for zero expected, got %v", err)
	}

	bad := -1.0
	_, err = Build([]Def{{ID: "b", Optimistic: 1, MostLikely: 1, Pessimistic: 1, StdDev: &bad}})
	if !errors.As(err, &est) {
		t.Fatalf("expected EstimateError for negative stddev, got %v", err)
	}
}

func TestBuild_CycleDetection(t *testing.T) {
	// a -> b -> c -> a
	_, err := Build([]Def{
		def("a", 1, "c"),
		def("b", 1, "a"),
		def("c", 1, "b"),
	})
	var cycle *CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	if len(cycle.Tasks) < 3 {
		t.Errorf("expected cycle of length >= 3, got %v", cycle.Tasks)
	}
	t.Logf("detected cycle: %v", cycle.Tasks)
}

func TestBuild_TwoTaskCycle(t *testing.T) {
	_, err := Build([]Def{
		def("a", 1, "b"),
		def("b", 1, "a"),
	})
	var cycle *CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("expected CycleError, got %v", err)
	}
}

func TestBuild_DuplicateEdgeCollapsed(t *testing.T) {
	g, err := Build([]Def{
		def("a", 1),
		def("b", 1, "a", "a"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Preds["b"]) != 1 {
		t.Errorf("expected duplicate edge collapsed, got preds=%v", g.Preds["b"])
	}
	if len(g.Succs["a"]) != 1 {
		t.Errorf("expected duplicate edge collapsed, got succs=%v", g.Succs["a"])
	}
}

func TestDetectCycle_NoCycle(t *testing.T) {
	g, err := Build([]Def{
		def("a", 1),
		def("b", 1, "a"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cycle := g.DetectCycle(); cycle != nil {
		t.Errorf("expected no cycle, got %v", cycle)
	}
}

func TestIDs_Sorted(t *testing.T) {
	g, err := Build([]Def{def("c", 1), def("a", 1), def("b", 1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := g.IDs()
	want := []string{"a", "b", "c"}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
}
