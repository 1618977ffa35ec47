package activitytracker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prolific-dev/prolific/activitytracker/models"
)

const snapshotSchemaVersion = 1

func utcNowISO() string {
	return time.Now().UTC().Truncate(time.Second).Format(time.RFC3339)
}

// SnapshotFromScan wraps a scan result into a persistable snapshot.
func SnapshotFromScan(scan models.ScanResult) models.Snapshot {
	entries := make(map[string]models.FileMeta, len(scan.Entries))
	for rel, meta := range scan.Entries {
		entries[rel] = meta
	}
	return models.Snapshot{
		SchemaVersion: snapshotSchemaVersion,
		Root:          scan.Root,
		CreatedAt:     utcNowISO(),
		Entries:       entries,
	}
}

// LoadSnapshot reads a persisted snapshot. It returns (nil, nil) when no file
// exists at path, and a non-nil error for unreadable or undecodable data;
// the caller decides how to treat corruption. Missing fields in older files
// decode to their zero values (forward-compatible schema).
func LoadSnapshot(path string) (*models.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}
	if snap.Entries == nil {
		snap.Entries = make(map[string]models.FileMeta)
	}
	// Entries decoded from older files may omit rel_path; restore it from the key.
	for rel, meta := range snap.Entries {
		if meta.RelPath == "" {
			meta.RelPath = rel
			snap.Entries[rel] = meta
		}
	}
	return &snap, nil
}

// SaveSnapshot serializes the snapshot deterministically (encoding/json sorts
// map keys) and writes it via a temp file plus atomic rename, so a failed or
// interrupted write never leaves a half-written snapshot behind.
func SaveSnapshot(path string, snap models.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace snapshot %s: %w", path, err)
	}
	return nil
}
