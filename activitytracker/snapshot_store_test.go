package activitytracker

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prolific-dev/prolific/activitytracker/models"
)

func sampleSnapshot() models.Snapshot {
	return models.Snapshot{
		SchemaVersion: 1,
		Root:          "/proj",
		CreatedAt:     "2026-01-07T19:22:00Z",
		Entries: map[string]models.FileMeta{
			"a.py": {RelPath: "a.py", SizeBytes: 10, MtimeNs: 1, Ext: "py"},
			"src":  {RelPath: "src", IsDir: true},
		},
	}
}

func TestSnapshotStore_SaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "snap.json")

	snap := sampleSnapshot()
	require.NoError(t, SaveSnapshot(path, snap))

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, snap, *loaded)

	// No temp file left behind.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestSnapshotStore_LoadAbsent(t *testing.T) {
	loaded, err := LoadSnapshot(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSnapshotStore_LoadCorrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	loaded, err := LoadSnapshot(path)
	assert.Error(t, err)
	assert.Nil(t, loaded)
}

// Older snapshot files may omit FileMeta fields; missing keys decode to
// explicit defaults and rel_path is restored from the entry key.
func TestSnapshotStore_ForwardCompatibleDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	raw := `{
  "schema_version": 1,
  "root": "/proj",
  "entries": {
    "legacy.py": {"is_dir": false, "size_bytes": 42}
  }
}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	meta := loaded.Entries["legacy.py"]
	assert.Equal(t, "legacy.py", meta.RelPath)
	assert.Equal(t, int64(42), meta.SizeBytes)
	assert.Equal(t, int64(0), meta.MtimeNs)
	assert.Equal(t, "", meta.Ext)
	assert.Equal(t, "", loaded.CreatedAt)
}

func TestSnapshotStore_SaveOverwritesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")

	require.NoError(t, SaveSnapshot(path, sampleSnapshot()))

	next := sampleSnapshot()
	next.Entries = map[string]models.FileMeta{
		"b.go": {RelPath: "b.go", SizeBytes: 99, MtimeNs: 2, Ext: "go"},
	}
	require.NoError(t, SaveSnapshot(path, next))

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Len(t, loaded.Entries, 1)
	assert.Contains(t, loaded.Entries, "b.go")
}

func TestSnapshotStore_DeterministicSerialization(t *testing.T) {
	snap := sampleSnapshot()
	a, err := json.MarshalIndent(snap, "", "  ")
	require.NoError(t, err)
	b, err := json.MarshalIndent(snap, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSnapshotFromScan(t *testing.T) {
	scan := models.ScanResult{
		Root: "/proj",
		Entries: map[string]models.FileMeta{
			"a.py": {RelPath: "a.py", SizeBytes: 10, MtimeNs: 1, Ext: "py"},
		},
	}

	snap := SnapshotFromScan(scan)
	assert.Equal(t, 1, snap.SchemaVersion)
	assert.Equal(t, "/proj", snap.Root)
	assert.NotEmpty(t, snap.CreatedAt)
	assert.Equal(t, scan.Entries, snap.Entries)

	// The snapshot owns a copy of the entries.
	scan.Entries["extra"] = models.FileMeta{RelPath: "extra"}
	assert.NotContains(t, snap.Entries, "extra")
}
