package activitytracker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/prolific-dev/prolific/activitytracker/contracts"
	"github.com/prolific-dev/prolific/activitytracker/models"
	"github.com/prolific-dev/prolific/config"
)

// ActivityTracker orchestrates one cycle: project discovery, scan, diff,
// estimate and snapshot persistence. Reporting, visualization and git are
// external collaborators fed by the RunResult; the tracker itself never
// performs those side effects.
type ActivityTracker struct {
	cfg      *config.Config
	stateDir string
}

// NewActivityTracker initializes a tracker rooted at stateDir. Pass a private
// directory in tests to keep cycles fully deterministic.
func NewActivityTracker(cfg *config.Config, stateDir string) contracts.IActivityTracker {
	return &ActivityTracker{cfg: cfg, stateDir: stateDir}
}

func (t *ActivityTracker) StateDir() string {
	return t.stateDir
}

// discoverProjects enumerates the immediate, non-hidden subdirectories of a
// watch root as candidate projects. A root with no subdirectories (or a root
// that is not listable) is itself the sole project.
func discoverProjects(watchDir string) []string {
	resolved, err := filepath.Abs(watchDir)
	if err != nil {
		resolved = watchDir
	}

	children, err := os.ReadDir(resolved)
	if err != nil {
		return []string{resolved}
	}

	var projects []string
	for _, child := range children {
		if !child.IsDir() || strings.HasPrefix(child.Name(), ".") {
			continue
		}
		projects = append(projects, filepath.Join(resolved, child.Name()))
	}
	if len(projects) == 0 {
		return []string{resolved}
	}
	sort.Strings(projects)
	return projects
}

// hasQualifyingChanges applies the inclusion threshold: a diff makes it into
// the run only with at least one added/modified/removed file or a nonzero
// total byte delta. All-zero diffs are discarded silently.
func hasQualifyingChanges(diff models.DiffAggregates) bool {
	return diff.Counts.FilesAdded > 0 ||
		diff.Counts.FilesModified > 0 ||
		diff.Counts.FilesRemoved > 0 ||
		diff.TotalDeltaBytes != 0
}

// RunOnce executes one full synchronous cycle across all watch roots.
//
// Baseline policy: during the very first cycle of an installation, projects
// without prior snapshots are baselined silently. On later cycles a project
// with no prior snapshot is newly discovered and diffed against an empty
// snapshot, so its whole content counts as added activity.
func (t *ActivityTracker) RunOnce() (*models.RunResult, error) {
	if err := os.MkdirAll(t.stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	salt, err := LoadOrCreateSalt(t.stateDir)
	if err != nil {
		return nil, err
	}
	marker := LoadFirstRunMarker(t.stateDir)
	isFirstRun := !marker.Completed()

	var (
		diffs             []models.DiffAggregates
		projectIDs        []string
		firstScanProjects []string
		warnings          []string
		totalSkipped      int
	)

	for _, watchDir := range t.cfg.ScanPaths {
		for _, project := range discoverProjects(watchDir) {
			projID := ProjectIDForPath(project, salt)
			statePath := StatePathForProject(t.stateDir, project)

			prev, loadErr := LoadSnapshot(statePath)
			if loadErr != nil {
				// Corrupted state is treated as "no prior snapshot": surface a
				// warning and fall through to the baseline/new-project policy.
				// The fresh snapshot below overwrites the bad file.
				warnings = append(warnings, fmt.Sprintf("unreadable snapshot for %s: %v", projID, loadErr))
				prev = nil
			}

			scan, err := ScanFolderMetadataOnly(project, ScanOptions{
				ExcludeGlobs: t.cfg.ExcludeGlobs,
				MaxDepth:     t.cfg.MaxDepth,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to scan %s: %w", projID, err)
			}
			totalSkipped += scan.Skipped
			snap := SnapshotFromScan(scan)

			if prev != nil {
				diff := ComputeDiff(prev, snap)
				if hasQualifyingChanges(diff) {
					diffs = append(diffs, diff)
					projectIDs = append(projectIDs, projID)
				}
			} else if isFirstRun {
				firstScanProjects = append(firstScanProjects, project)
			} else {
				diff := ComputeDiff(nil, snap)
				if hasQualifyingChanges(diff) {
					diffs = append(diffs, diff)
					projectIDs = append(projectIDs, projID)
				}
			}

			// Persisted unconditionally, whether or not a diff was emitted.
			if err := SaveSnapshot(statePath, snap); err != nil {
				return nil, err
			}
		}
	}

	if isFirstRun {
		if err := marker.Complete(); err != nil {
			return nil, err
		}
	}

	result := &models.RunResult{
		ProjectIDs:        projectIDs,
		SkippedPaths:      totalSkipped,
		FirstScanProjects: firstScanProjects,
		Warnings:          warnings,
		WatchFolders:      append([]string(nil), t.cfg.ScanPaths...),
	}

	if len(diffs) == 0 {
		result.Message = "No activity detected - baseline only"
		return result, nil
	}

	merged := MergeDiffAggregates(diffs)
	summary := BuildActivitySummary(merged, t.cfg.BytesPerLoc)

	result.EventID = FormatEventID(time.Now().UTC())
	result.Summary = &summary
	return result, nil
}

// FormatEventID renders a run timestamp as the event identifier, e.g.
// 2026-01-07T19:22:00Z.
func FormatEventID(ts time.Time) string {
	return ts.UTC().Truncate(time.Second).Format(time.RFC3339)
}
