package activitytracker

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prolific-dev/prolific/config"
)

func mustParseTime(t *testing.T, s string) time.Time {
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func newTestTracker(t *testing.T, scanPaths ...string) (*ActivityTracker, string) {
	t.Helper()
	stateDir := t.TempDir()
	cfg := &config.Config{
		ScanPaths:   scanPaths,
		BytesPerLoc: config.MergeBytesPerLoc(nil),
	}
	tracker := NewActivityTracker(cfg, stateDir).(*ActivityTracker)
	return tracker, stateDir
}

// The very first cycle baselines every project silently, regardless of
// content, and commits the one-way first-run transition.
func TestRunOnce_FirstCycleBaselinesOnly(t *testing.T) {
	watch := t.TempDir()
	writeFile(t, filepath.Join(watch, "alpha", "main.py"), 340)
	writeFile(t, filepath.Join(watch, "beta", "app.ts"), 380)

	tracker, stateDir := newTestTracker(t, watch)

	result, err := tracker.RunOnce()
	require.NoError(t, err)

	assert.False(t, result.HasActivity())
	assert.Empty(t, result.EventID)
	assert.Len(t, result.FirstScanProjects, 2)
	assert.Empty(t, result.ProjectIDs)
	assert.Equal(t, "No activity detected - baseline only", result.Message)

	assert.True(t, LoadFirstRunMarker(stateDir).Completed())

	// Snapshots were persisted even though no diff was emitted.
	for _, project := range []string{"alpha", "beta"} {
		snap, err := LoadSnapshot(StatePathForProject(stateDir, filepath.Join(watch, project)))
		require.NoError(t, err)
		require.NotNil(t, snap)
		assert.NotEmpty(t, snap.Entries)
	}
}

func TestRunOnce_SecondCycleDetectsModification(t *testing.T) {
	watch := t.TempDir()
	target := filepath.Join(watch, "alpha", "main.py")
	writeFile(t, target, 340)

	tracker, _ := newTestTracker(t, watch)

	_, err := tracker.RunOnce()
	require.NoError(t, err)

	// Grow the file by 340 bytes: ten estimated Python lines at 34 B/line.
	writeFile(t, target, 680)

	result, err := tracker.RunOnce()
	require.NoError(t, err)

	require.True(t, result.HasActivity())
	assert.NotEmpty(t, result.EventID)
	assert.Len(t, result.ProjectIDs, 1)

	summary := result.Summary
	assert.Equal(t, 1, summary.Counts.FilesModified)
	assert.Equal(t, int64(340), summary.TotalDeltaBytes)
	assert.Equal(t, 10, summary.NetLoc)
	assert.Equal(t, 10, summary.ChurnLoc)
}

func TestRunOnce_UnchangedCycleHasNoActivity(t *testing.T) {
	watch := t.TempDir()
	writeFile(t, filepath.Join(watch, "alpha", "main.go"), 100)

	tracker, _ := newTestTracker(t, watch)

	_, err := tracker.RunOnce()
	require.NoError(t, err)

	result, err := tracker.RunOnce()
	require.NoError(t, err)

	assert.False(t, result.HasActivity())
	assert.Empty(t, result.FirstScanProjects)
}

// A project appearing after the baseline transition is diffed against an
// empty snapshot, so its full content counts as added activity.
func TestRunOnce_NewProjectAfterBaselineCountsAsAdded(t *testing.T) {
	watch := t.TempDir()
	writeFile(t, filepath.Join(watch, "alpha", "main.py"), 340)

	tracker, _ := newTestTracker(t, watch)

	_, err := tracker.RunOnce()
	require.NoError(t, err)

	writeFile(t, filepath.Join(watch, "gamma", "fresh.py"), 680)

	result, err := tracker.RunOnce()
	require.NoError(t, err)

	require.True(t, result.HasActivity())
	assert.Len(t, result.ProjectIDs, 1)
	assert.Equal(t, 1, result.Summary.Counts.FilesAdded)
	assert.Equal(t, int64(680), result.Summary.TotalDeltaBytes)
	assert.Empty(t, result.FirstScanProjects)
}

// A watch root without subdirectories is itself the sole project.
func TestRunOnce_RootWithoutSubdirsIsSoleProject(t *testing.T) {
	watch := t.TempDir()
	writeFile(t, filepath.Join(watch, "main.rs"), 380)

	tracker, stateDir := newTestTracker(t, watch)

	result, err := tracker.RunOnce()
	require.NoError(t, err)
	assert.Len(t, result.FirstScanProjects, 1)

	snap, err := LoadSnapshot(StatePathForProject(stateDir, watch))
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Contains(t, snap.Entries, "main.rs")
}

func TestRunOnce_HiddenSubdirsAreNotProjects(t *testing.T) {
	watch := t.TempDir()
	writeFile(t, filepath.Join(watch, "alpha", "a.go"), 10)
	writeFile(t, filepath.Join(watch, ".secrets", "b.go"), 10)

	tracker, stateDir := newTestTracker(t, watch)

	result, err := tracker.RunOnce()
	require.NoError(t, err)

	assert.Len(t, result.FirstScanProjects, 1)
	snap, err := LoadSnapshot(StatePathForProject(stateDir, filepath.Join(watch, ".secrets")))
	require.NoError(t, err)
	assert.Nil(t, snap)
}

// Corrupted snapshot state is treated as "no prior snapshot": a warning is
// surfaced and the project follows the new-project policy.
func TestRunOnce_CorruptedSnapshotTreatedAsAbsent(t *testing.T) {
	watch := t.TempDir()
	project := filepath.Join(watch, "alpha")
	writeFile(t, filepath.Join(project, "main.py"), 340)

	tracker, stateDir := newTestTracker(t, watch)

	_, err := tracker.RunOnce()
	require.NoError(t, err)

	statePath := StatePathForProject(stateDir, project)
	require.NoError(t, os.WriteFile(statePath, []byte("{torn write"), 0644))

	result, err := tracker.RunOnce()
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "unreadable snapshot")

	// Whole content counts as added again, and the bad file self-heals.
	require.True(t, result.HasActivity())
	assert.Equal(t, 1, result.Summary.Counts.FilesAdded)

	snap, err := LoadSnapshot(statePath)
	require.NoError(t, err)
	require.NotNil(t, snap)
}

func TestRunOnce_ProjectIDsAreAnonymized(t *testing.T) {
	watch := t.TempDir()
	writeFile(t, filepath.Join(watch, "alpha", "main.py"), 340)

	tracker, _ := newTestTracker(t, watch)

	_, err := tracker.RunOnce()
	require.NoError(t, err)

	writeFile(t, filepath.Join(watch, "alpha", "more.py"), 34)

	result, err := tracker.RunOnce()
	require.NoError(t, err)

	require.Len(t, result.ProjectIDs, 1)
	assert.Contains(t, result.ProjectIDs[0], "Project-")
	assert.NotContains(t, result.ProjectIDs[0], "alpha")
}

func TestFormatEventID(t *testing.T) {
	id := FormatEventID(mustParseTime(t, "2026-01-07T19:22:00Z"))
	assert.Equal(t, "2026-01-07T19:22:00Z", id)
}
