package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	work := t.TempDir()
	main := filepath.Join(work, "main.rs")
	toml := filepath.Join(work, "Cargo.toml")
	writeFile(t, main, "fn main(){}")
	writeFile(t, toml, "[package]\nname=\"x\"")

	m := NewManager(filepath.Join(work, "backups"))
	id, err := m.Snapshot([]string{main, toml})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// Mutate the working copies after the snapshot.
	writeFile(t, main, "fn main(){ panic!() }")
	require.NoError(t, os.Remove(toml))

	require.NoError(t, m.Restore(id, work))

	got, err := os.ReadFile(main)
	require.NoError(t, err)
	assert.Equal(t, "fn main(){}", string(got))

	got, err = os.ReadFile(toml)
	require.NoError(t, err)
	assert.Equal(t, "[package]\nname=\"x\"", string(got))
}

func TestSnapshotCollisionGetsSuffix(t *testing.T) {
	work := t.TempDir()
	file := filepath.Join(work, "main.rs")
	writeFile(t, file, "fn main(){}")

	m := NewManager(filepath.Join(work, "backups"))
	fixed := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	id1, err := m.Snapshot([]string{file})
	require.NoError(t, err)
	id2, err := m.Snapshot([]string{file})
	require.NoError(t, err)
	id3, err := m.Snapshot([]string{file})
	require.NoError(t, err)

	assert.Equal(t, "20260829_120000", id1)
	assert.Equal(t, "20260829_120000_2", id2)
	assert.Equal(t, "20260829_120000_3", id3)

	// All three snapshots coexist; nothing was overwritten.
	ids, err := m.List()
	require.NoError(t, err)
	assert.Equal(t, []string{id1, id2, id3}, ids)
}

func TestRestoreLeavesExtraFilesAlone(t *testing.T) {
	work := t.TempDir()
	file := filepath.Join(work, "main.rs")
	writeFile(t, file, "fn main(){}")

	m := NewManager(filepath.Join(work, "backups"))
	id, err := m.Snapshot([]string{file})
	require.NoError(t, err)

	extra := filepath.Join(work, "new.rs")
	writeFile(t, extra, "fn new(){}")

	require.NoError(t, m.Restore(id, work))
	_, err = os.Stat(extra)
	assert.NoError(t, err, "restore must not delete files absent from the backup")
}

func TestListEmptyWhenNoBackups(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "backups"))
	ids, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, ids)

	latest, err := m.Latest()
	require.NoError(t, err)
	assert.Empty(t, latest)
}

func TestSnapshotMissingFileFails(t *testing.T) {
	work := t.TempDir()
	m := NewManager(filepath.Join(work, "backups"))

	_, err := m.Snapshot([]string{filepath.Join(work, "nope.rs")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.rs")

	// The failed snapshot left no visible backup behind.
	ids, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestLatestPicksNewest(t *testing.T) {
	work := t.TempDir()
	file := filepath.Join(work, "main.rs")
	writeFile(t, file, "fn main(){}")

	m := NewManager(filepath.Join(work, "backups"))
	ts := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return ts }

	_, err := m.Snapshot([]string{file})
	require.NoError(t, err)

	ts = ts.Add(time.Second)
	id2, err := m.Snapshot([]string{file})
	require.NoError(t, err)

	latest, err := m.Latest()
	require.NoError(t, err)
	assert.Equal(t, id2, latest)
}
