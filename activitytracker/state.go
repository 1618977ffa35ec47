package activitytracker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zeebo/xxh3"
)

// DefaultStateDir is where the agent keeps all private state: per-project
// snapshots, the first-run marker and the anonymization salt.
func DefaultStateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".prolific"), nil
}

// StatePathForProject returns the per-project snapshot file. Each project gets
// its own file, named by a hash of its resolved absolute path, so diffs from
// multiple roots never mix.
func StatePathForProject(stateDir, projectPath string) string {
	resolved, err := filepath.Abs(projectPath)
	if err != nil {
		resolved = projectPath
	}
	key := fmt.Sprintf("%016x", xxh3.HashString(resolved))
	return filepath.Join(stateDir, "state", key+".json")
}

// FirstRunMarker models the installation-wide "never run before" state as an
// explicit object with a load/persist lifecycle. The only transition is the
// one-way NeverRun -> Steady, committed after every project of the first cycle
// has been snapshotted.
type FirstRunMarker struct {
	path      string
	completed bool
}

type firstRunMarkerFile struct {
	FirstRunCompleted bool `json:"first_run_completed"`
}

// LoadFirstRunMarker reads the marker from the state dir. A missing file means
// the installation has never completed a cycle.
func LoadFirstRunMarker(stateDir string) *FirstRunMarker {
	p := filepath.Join(stateDir, "known_projects.json")
	m := &FirstRunMarker{path: p}

	data, err := os.ReadFile(p)
	if err != nil {
		return m
	}
	var raw firstRunMarkerFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return m
	}
	m.completed = raw.FirstRunCompleted
	return m
}

// Completed reports whether the baseline cycle has already finished.
func (m *FirstRunMarker) Completed() bool {
	return m.completed
}

// Complete records the one-time NeverRun -> Steady transition atomically
// (temp write plus rename). Calling it again is a no-op.
func (m *FirstRunMarker) Complete() error {
	if m.completed {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(firstRunMarkerFile{FirstRunCompleted: true}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode first-run marker: %w", err)
	}
	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write first-run marker: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to commit first-run marker: %w", err)
	}
	m.completed = true
	return nil
}
