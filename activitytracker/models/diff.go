package models

// DiffCounts holds typed add/remove/modify counters for one diff.
// "Assets" are files whose extension maps to no known language.
type DiffCounts struct {
	FilesAdded      int `json:"files_added"`
	FilesRemoved    int `json:"files_removed"`
	FilesModified   int `json:"files_modified"`
	FoldersAdded    int `json:"folders_added"`
	FoldersRemoved  int `json:"folders_removed"`
	FoldersModified int `json:"folders_modified"`
	AssetsAdded     int `json:"assets_added"`
	AssetsModified  int `json:"assets_modified"`
	AssetsRemoved   int `json:"assets_removed"`
}

// DiffAggregates is the full result of diffing two snapshots: counters plus
// signed byte deltas per language. TotalDeltaBytes is the sum of every signed
// delta produced, including zero deltas.
type DiffAggregates struct {
	Counts             DiffCounts
	LanguageDeltaBytes map[string]int64
	UnknownDeltaBytes  int64
	TotalDeltaBytes    int64
}

// LocEstimates holds approximate line counts derived from byte deltas.
// Net is signed (added minus removed); churn is the absolute sum.
type LocEstimates struct {
	NetLoc   int
	ChurnLoc int
}

// LanguageSummary is one language row of an activity summary.
type LanguageSummary struct {
	Language          string `json:"language"`
	DeltaBytes        int64  `json:"delta_bytes"`
	EstimatedLocDelta int    `json:"estimated_loc_delta"`
}

// ActivitySummary is the merged, estimator-enriched view of one run's diffs.
type ActivitySummary struct {
	Counts            DiffCounts
	TotalDeltaBytes   int64
	UnknownDeltaBytes int64
	NetLoc            int
	ChurnLoc          int
	Languages         []LanguageSummary
}

// RunResult is what one tracker cycle hands to external reporting/git
// collaborators. EventID is empty when no project produced a qualifying diff.
// ProjectIDs are anonymized; no real path or file name ever appears here.
type RunResult struct {
	EventID           string
	Message           string
	Summary           *ActivitySummary
	ProjectIDs        []string
	SkippedPaths      int
	FirstScanProjects []string
	Warnings          []string
	WatchFolders      []string
}

// HasActivity reports whether the cycle produced a qualifying merged diff.
func (r *RunResult) HasActivity() bool {
	return r.EventID != "" && r.Summary != nil
}
