package fsnotify

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitForCallback waits up to timeout for the callback channel to receive a value.
func waitForCallback(ch <-chan string, timeout time.Duration) (string, bool) {
	select {
	case v := <-ch:
		return v, true
	case <-time.After(timeout):
		return "", false
	}
}

func TestWatcher_DetectsWatchedFileChange(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "main.rs")
	require.NoError(t, os.WriteFile(target, []byte("fn main(){}"), 0644))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan string, 10)
	require.NoError(t, w.Watch([]string{target}, func(path string) {
		changed <- path
	}))

	// Give watcher time to start
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(target, []byte("fn main(){ }"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for watched file change")
	assert.Equal(t, target, path)
}

func TestWatcher_IgnoresUnwatchedSiblings(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "main.rs")
	sibling := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(target, []byte("fn main(){}"), 0644))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan string, 10)
	require.NoError(t, w.Watch([]string{target}, func(path string) {
		changed <- path
	}))

	time.Sleep(50 * time.Millisecond)

	// A sibling in the same directory must not fire the callback.
	require.NoError(t, os.WriteFile(sibling, []byte("scratch"), 0644))

	_, ok := waitForCallback(changed, 300*time.Millisecond)
	assert.False(t, ok, "unwatched sibling must not trigger callback")
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}

func TestWatcher_DebouncesRapidWrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "main.rs")
	require.NoError(t, os.WriteFile(target, []byte("v0"), 0644))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan string, 100)
	require.NoError(t, w.Watch([]string{target}, func(path string) {
		changed <- path
	}))

	time.Sleep(50 * time.Millisecond)

	// A burst of writes well inside the debounce window.
	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(target, []byte("burst"), 0644))
	}
	time.Sleep(500 * time.Millisecond)

	assert.LessOrEqual(t, len(changed), 2, "burst should collapse to at most a couple of callbacks")
	assert.GreaterOrEqual(t, len(changed), 1, "burst should fire at least once")
}
