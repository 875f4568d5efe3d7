package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityLogFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")
	act, err := OpenActivity(path)
	require.NoError(t, err)
	defer act.Close()

	act.now = func() time.Time {
		return time.Date(2026, 8, 29, 14, 30, 5, 0, time.UTC)
	}
	act.Log("backed up %d file(s)", 3)
	act.Log("cache hit for profile %q", "default")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"2026-08-29 14:30:05 - backed up 3 file(s)\n"+
			"2026-08-29 14:30:05 - cache hit for profile \"default\"\n",
		string(data))
}

func TestActivityAppendsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")

	first, err := OpenActivity(path)
	require.NoError(t, err)
	first.Log("first run")
	require.NoError(t, first.Close())

	second, err := OpenActivity(path)
	require.NoError(t, err)
	second.Log("second run")
	require.NoError(t, second.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first run\n")
	assert.Contains(t, string(data), "second run\n")
}

func TestLogNotifierWritesToActivity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")
	act, err := OpenActivity(path)
	require.NoError(t, err)
	defer act.Close()

	n := &LogNotifier{Activity: act}
	n.Notify("rewrite: retries exhausted")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rewrite: retries exhausted")
}
