// Package backup snapshots input files before mutation and restores them on
// request. Each snapshot is a timestamped directory holding verbatim copies
// of the inputs, named by original basename. Snapshots are staged into a
// hidden temp directory and renamed into place, so an interrupted snapshot
// is never visible as a valid backup.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// idFormat is second-resolution; same-second snapshots are disambiguated
// with a numeric suffix rather than overwritten.
const idFormat = "20060102_150405"

// Manager owns one backup directory tree.
type Manager struct {
	dir string
	now func() time.Time
}

// NewManager creates a manager rooted at dir. The directory is created on
// first snapshot.
func NewManager(dir string) *Manager {
	return &Manager{dir: dir, now: time.Now}
}

// Dir returns the backup root directory.
func (m *Manager) Dir() string { return m.dir }

// Snapshot copies every file into a new uniquely named backup and returns
// its id. Two snapshots within the same second get distinct ids.
func (m *Manager) Snapshot(files []string) (string, error) {
	if len(files) == 0 {
		return "", fmt.Errorf("backup: empty file set")
	}
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	// Stage everything first; the rename below publishes atomically.
	staging, err := os.MkdirTemp(m.dir, ".staging-")
	if err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	for _, f := range files {
		dst := filepath.Join(staging, filepath.Base(f))
		if err := copyFile(f, dst); err != nil {
			return "", err
		}
	}

	base := m.now().Format(idFormat)
	id := base
	for n := 2; ; n++ {
		final := filepath.Join(m.dir, id)
		if _, err := os.Stat(final); os.IsNotExist(err) {
			if err := os.Rename(staging, final); err != nil {
				return "", fmt.Errorf("publish backup %s: %w", id, err)
			}
			return id, nil
		}
		id = fmt.Sprintf("%s_%d", base, n)
	}
}

// Restore copies every file from the chosen backup into destDir, overwriting
// files of the same name. Files at the destination that are absent from the
// backup are left alone.
func (m *Manager) Restore(id, destDir string) error {
	src := filepath.Join(m.dir, id)
	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("read backup %s: %w", id, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		from := filepath.Join(src, e.Name())
		to := filepath.Join(destDir, e.Name())
		if err := copyFile(from, to); err != nil {
			return err
		}
	}
	return nil
}

// List returns all backup ids sorted ascending by creation time. Timestamp
// ids sort lexicographically in creation order, suffixed collisions
// included.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		ids = append(ids, e.Name())
	}
	sort.Strings(ids)
	return ids, nil
}

// Latest returns the newest backup id, or "" if none exist.
func (m *Manager) Latest() (string, error) {
	ids, err := m.List()
	if err != nil || len(ids) == 0 {
		return "", err
	}
	return ids[len(ids)-1], nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", dst, err)
	}
	return out.Close()
}
