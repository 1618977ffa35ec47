// Package report turns a run result into the artifacts committed to the
// activity repo: a JSON event payload, a Markdown summary, and the events feed
// consumed by the visualization page. Payloads are built from anonymized
// project ids and aggregate numbers only; no real path or file name may ever
// appear in them.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prolific-dev/prolific/activitytracker/models"
)

const payloadSchemaVersion = 1

// EventPayload is the committed-to-git shape of one activity event.
type EventPayload struct {
	SchemaVersion     int                      `json:"schema_version"`
	EventID           string                   `json:"event_id"`
	WatchFolders      []string                 `json:"watch_folders"` // anonymized project ids, never paths
	Counts            models.DiffCounts        `json:"counts"`
	TotalDeltaBytes   int64                    `json:"total_delta_bytes"`
	UnknownDeltaBytes int64                    `json:"unknown_delta_bytes"`
	NetLocEstimate    int                      `json:"net_loc_estimate"`
	ChurnLocEstimate  int                      `json:"churn_loc_estimate"`
	Languages         []models.LanguageSummary `json:"languages"`
}

// BuildEventPayload assembles the committed payload for one qualifying run.
func BuildEventPayload(eventID string, summary models.ActivitySummary, projectIDs []string) EventPayload {
	ids := projectIDs
	if len(ids) == 0 {
		ids = []string{"Project-unknown"}
	}
	languages := summary.Languages
	if languages == nil {
		languages = []models.LanguageSummary{}
	}
	return EventPayload{
		SchemaVersion:     payloadSchemaVersion,
		EventID:           eventID,
		WatchFolders:      ids,
		Counts:            summary.Counts,
		TotalDeltaBytes:   summary.TotalDeltaBytes,
		UnknownDeltaBytes: summary.UnknownDeltaBytes,
		NetLocEstimate:    summary.NetLoc,
		ChurnLocEstimate:  summary.ChurnLoc,
		Languages:         languages,
	}
}

// BuildMarkdownReport renders the human-readable side of an event.
func BuildMarkdownReport(event EventPayload) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Prolific: Git Active — %s\n\n", event.EventID)
	b.WriteString("### Summary\n")
	fmt.Fprintf(&b, "- Watch folders: %s\n", strings.Join(event.WatchFolders, ", "))
	fmt.Fprintf(&b, "- Estimated net LOC: %d\n", event.NetLocEstimate)
	fmt.Fprintf(&b, "- Estimated churn LOC: %d\n", event.ChurnLocEstimate)
	fmt.Fprintf(&b, "- Total delta bytes: %d\n\n", event.TotalDeltaBytes)

	c := event.Counts
	b.WriteString("### Counts\n")
	fmt.Fprintf(&b, "- Files: +%d ~%d -%d\n", c.FilesAdded, c.FilesModified, c.FilesRemoved)
	fmt.Fprintf(&b, "- Folders: +%d ~%d -%d\n", c.FoldersAdded, c.FoldersModified, c.FoldersRemoved)
	fmt.Fprintf(&b, "- Assets (non-code): +%d ~%d -%d\n\n", c.AssetsAdded, c.AssetsModified, c.AssetsRemoved)

	b.WriteString("### Languages\n")
	if len(event.Languages) == 0 {
		b.WriteString("- (none detected)\n")
	} else {
		for _, lang := range event.Languages {
			fmt.Fprintf(&b, "- %s: delta_bytes=%d, estimated_loc_delta=%d\n",
				lang.Language, lang.DeltaBytes, lang.EstimatedLocDelta)
		}
	}
	b.WriteString("\nPrivacy: generated from file metadata only (size/mtime/extensions); no file contents read.\n")

	return b.String()
}

// ReportPaths returns the JSON and Markdown destinations for a run timestamp:
// reports/<YYYY-MM-DD>/<HHMMSS>.json|.md under the activity repo.
func ReportPaths(repoPath string, ts time.Time) (string, string) {
	ts = ts.UTC()
	base := filepath.Join(repoPath, "reports", ts.Format("2006-01-02"))
	name := ts.Format("150405")
	return filepath.Join(base, name+".json"), filepath.Join(base, name+".md")
}

// WriteReportFiles writes both report artifacts atomically and returns their
// paths.
func WriteReportFiles(repoPath string, ts time.Time, event EventPayload) (string, string, error) {
	jsonPath, mdPath := ReportPaths(repoPath, ts)

	data, err := json.MarshalIndent(event, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("failed to encode event payload: %w", err)
	}
	if err := atomicWrite(jsonPath, data); err != nil {
		return "", "", err
	}
	if err := atomicWrite(mdPath, []byte(BuildMarkdownReport(event))); err != nil {
		return "", "", err
	}
	return jsonPath, mdPath, nil
}

// EnsureActivityRepoReadme creates the activity repo README on first use. It
// returns the README path and whether it was created by this call.
func EnsureActivityRepoReadme(repoPath string) (string, bool, error) {
	p := filepath.Join(repoPath, "README.md")
	if _, err := os.Stat(p); err == nil {
		return p, false, nil
	}

	readme := `# Prolific: Git Active

This repository is maintained automatically by the Prolific activity agent.

Every cycle the agent scans watched project folders using file metadata only
(sizes, modification times, extensions), derives approximate per-language
activity, and commits a report here.

Privacy model:
- No file contents are ever read or committed.
- No file names or folder paths appear in reports; projects are identified by
  stable pseudonymous ids keyed with a local-only secret.
`
	if err := atomicWrite(p, []byte(readme)); err != nil {
		return "", false, err
	}
	return p, true, nil
}

func atomicWrite(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
