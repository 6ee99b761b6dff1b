// Package state persists the most recent simulation result so the last
// subcommand can re-render it without re-running the simulation.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joshharrison/pertcast/internal/sim"
)

const stateDir = ".pertcast"
const lastFile = "last.json"

// LastRun is the persisted record of the most recent run.
type LastRun struct {
	FinishedAt time.Time   `json:"finished_at"`
	TasksFile  string      `json:"tasks_file"`
	Result     *sim.Result `json:"result"`
}

// Save writes the run record under the state directory, creating it if
// needed.
func Save(run *LastRun) error {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	return os.WriteFile(filepath.Join(stateDir, lastFile), data, 0644)
}

// Load reads the persisted run record.
func Load() (*LastRun, error) {
	data, err := os.ReadFile(filepath.Join(stateDir, lastFile))
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	var run LastRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}
	return &run, nil
}

// Exists checks if a persisted run record is present.
func Exists() bool {
	_, err := os.Stat(filepath.Join(stateDir, lastFile))
	return err == nil
}

// Clean removes the state directory.
func Clean() error {
	return os.RemoveAll(stateDir)
}
