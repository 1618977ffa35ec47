package models

// FileMeta describes one directory entry by metadata only. The scanner never
// opens file content; size, mtime and extension are all that is ever recorded.
type FileMeta struct {
	RelPath   string `json:"rel_path"`
	IsDir     bool   `json:"is_dir"`
	SizeBytes int64  `json:"size_bytes"`
	MtimeNs   int64  `json:"mtime_ns"`
	Ext       string `json:"ext"`
}

// Snapshot is a point-in-time metadata map for one watched project directory,
// keyed by posix-style relative path. One snapshot file exists per project;
// saving overwrites the previous one (no history is kept).
type Snapshot struct {
	SchemaVersion int                 `json:"schema_version"`
	Root          string              `json:"root"`
	CreatedAt     string              `json:"created_at"`
	Entries       map[string]FileMeta `json:"entries"`
}

// ScanResult is the raw output of one metadata scan.
type ScanResult struct {
	Root    string
	Entries map[string]FileMeta
	Skipped int
}
