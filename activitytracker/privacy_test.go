package activitytracker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateSalt_PersistsAcrossLoads(t *testing.T) {
	stateDir := t.TempDir()

	first, err := LoadOrCreateSalt(stateDir)
	require.NoError(t, err)
	assert.NotEmpty(t, first.Value)

	second, err := LoadOrCreateSalt(stateDir)
	require.NoError(t, err)
	assert.Equal(t, first.Value, second.Value)

	// Stored outside any watched/committed tree, in the state dir.
	_, err = os.Stat(filepath.Join(stateDir, "salt.txt"))
	assert.NoError(t, err)
}

func TestLoadOrCreateSalt_FreshSaltsDiffer(t *testing.T) {
	a, err := LoadOrCreateSalt(t.TempDir())
	require.NoError(t, err)
	b, err := LoadOrCreateSalt(t.TempDir())
	require.NoError(t, err)
	assert.NotEqual(t, a.Value, b.Value)
}

func TestProjectIDForPath_StableAndKeyed(t *testing.T) {
	salt := &LocalSalt{Value: "deadbeef"}
	otherSalt := &LocalSalt{Value: "cafebabe"}

	id1 := ProjectIDForPath("/home/dev/projects/alpha", salt)
	id2 := ProjectIDForPath("/home/dev/projects/alpha", salt)
	id3 := ProjectIDForPath("/home/dev/projects/beta", salt)
	id4 := ProjectIDForPath("/home/dev/projects/alpha", otherSalt)

	// Pure function of (path, secret).
	assert.Equal(t, id1, id2)
	assert.NotEqual(t, id1, id3)
	assert.NotEqual(t, id1, id4)

	assert.True(t, strings.HasPrefix(id1, "Project-"))
	assert.Len(t, strings.TrimPrefix(id1, "Project-"), 10)

	// The id never leaks any path component.
	assert.NotContains(t, id1, "alpha")
	assert.NotContains(t, id1, "projects")
}
