// Package git implements the ports.Committer interface by shelling out to
// the git binary in the working directory.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Committer stages and commits working-directory changes.
type Committer struct{}

// NewCommitter creates a git committer.
func NewCommitter() *Committer { return &Committer{} }

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}

// Commit stages all changes in dir and commits them with the given message.
func (c *Committer) Commit(ctx context.Context, dir, message string) error {
	if err := run(ctx, dir, "add", "-A"); err != nil {
		return fmt.Errorf("git add: %w", err)
	}
	if err := run(ctx, dir, "commit", "-m", message); err != nil {
		return fmt.Errorf("git commit: %w", err)
	}
	return nil
}

func run(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s", err, bytes.TrimSpace(out.Bytes()))
	}
	return nil
}
