package bbolt

import (
	"path/filepath"
	"testing"

	"github.com/doublegate/rustopt/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore creates a temporary bbolt store for testing.
func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	store, err := NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

// makeTestProfile creates a realistic profile record.
func makeTestProfile() *ports.Profile {
	return &ports.Profile{
		Model:           "claude-sonnet-4-5",
		Retry:           3,
		Timeout:         60,
		SelectedFiles:   []string{"/proj/Cargo.toml", "/proj/src/main.rs"},
		CombinedHash:    "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08",
		OptimizedOutput: "## File: src/main.rs ##\nfn main() {}",
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)

	want := makeTestProfile()
	require.NoError(t, store.Save("default", want))

	got, err := store.Load("default")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, got)
}

func TestLoadMissingProfileReturnsNil(t *testing.T) {
	store, _ := newTestStore(t)

	got, err := store.Load("never-saved")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveOverwritesWholeRecord(t *testing.T) {
	store, _ := newTestStore(t)

	first := makeTestProfile()
	require.NoError(t, store.Save("default", first))

	// A later save with an empty cache must not inherit the old bundle.
	second := &ports.Profile{Model: "claude-opus-4-1", Retry: 5, Timeout: 120}
	require.NoError(t, store.Save("default", second))

	got, err := store.Load("default")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, second, got)
	assert.Empty(t, got.OptimizedOutput)
	assert.Empty(t, got.CombinedHash)
}

func TestProfilesAreIndependent(t *testing.T) {
	store, _ := newTestStore(t)

	a := makeTestProfile()
	b := &ports.Profile{Model: "claude-haiku-3-5", Retry: 1, Timeout: 30}
	require.NoError(t, store.Save("alpha", a))
	require.NoError(t, store.Save("beta", b))

	gotA, err := store.Load("alpha")
	require.NoError(t, err)
	gotB, err := store.Load("beta")
	require.NoError(t, err)
	assert.Equal(t, a, gotA)
	assert.Equal(t, b, gotB)

	names, err := store.Profiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, names)
}

func TestDeleteIdempotent(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Save("default", makeTestProfile()))
	require.NoError(t, store.Delete("default"))
	require.NoError(t, store.Delete("default")) // second delete is a no-op

	got, err := store.Load("default")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRecordSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	store, err := NewStore(path)
	require.NoError(t, err)
	want := makeTestProfile()
	require.NoError(t, store.Save("default", want))
	require.NoError(t, store.Close())

	reopened, err := NewStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Load("default")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
