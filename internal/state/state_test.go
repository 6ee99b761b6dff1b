package state

import (
	"os"
	"testing"
	"time"

	"github.com/joshharrison/pertcast/internal/sim"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}

func TestSaveLoadRoundTrip(t *testing.T) {
	chdirTemp(t)

	run := &LastRun{
		FinishedAt: time.Now().Truncate(time.Second),
		TasksFile:  "project.csv",
		Result: &sim.Result{
			Durations:    []float64{10, 12, 14},
			Mean:         12,
			P80:          14,
			CriticalPath: []string{"a", "b"},
			Completed:    3,
			Iterations:   3,
			Seed:         42,
		},
	}

	if Exists() {
		t.Fatal("no state expected in fresh dir")
	}
	if err := Save(run); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !Exists() {
		t.Fatal("state should exist after save")
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.TasksFile != "project.csv" {
		t.Errorf("tasks file lost: %q", loaded.TasksFile)
	}
	if loaded.Result.Mean != 12 || loaded.Result.Seed != 42 {
		t.Errorf("result fields lost: %+v", loaded.Result)
	}
	if len(loaded.Result.CriticalPath) != 2 {
		t.Errorf("critical path lost: %v", loaded.Result.CriticalPath)
	}
}

func TestLoad_Missing(t *testing.T) {
	chdirTemp(t)
	if _, err := Load(); err == nil {
		t.Fatal("expected error when no state exists")
	}
}

func TestClean(t *testing.T) {
	chdirTemp(t)
	if err := Save(&LastRun{Result: &sim.Result{}}); err != nil {
		t.Fatal(err)
	}
	if err := Clean(); err != nil {
		t.Fatalf("clean: %v", err)
	}
	if Exists() {
		t.Fatal("state should be gone after clean")
	}
}
