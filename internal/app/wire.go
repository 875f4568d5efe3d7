package app

import (
	"fmt"
	"io"

	bboltstore "github.com/doublegate/rustopt/internal/adapters/bbolt"
	"github.com/doublegate/rustopt/internal/adapters/cargo"
	"github.com/doublegate/rustopt/internal/adapters/git"
	"github.com/doublegate/rustopt/internal/domain/backup"
)

// Config holds initialization parameters for the App.
type Config struct {
	WorkDir string

	// StateDir relocates the tool state directory. Empty means .rustopt/
	// under WorkDir.
	StateDir string

	Verbose bool
	Out     io.Writer
}

// New creates an App with the durable dependencies wired: profile store,
// backup manager, activity log, build runner, committer. The Rewriter is
// attached by the caller, since its settings (model, retry budget, timeout)
// are resolved per run. Call Close when done.
func New(cfg Config) (*App, error) {
	if cfg.WorkDir == "" {
		return nil, fmt.Errorf("work dir required")
	}
	paths := NewPaths(cfg.WorkDir)
	if cfg.StateDir != "" {
		paths = NewPathsAt(cfg.WorkDir, cfg.StateDir)
	}
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	store, err := bboltstore.NewStore(paths.DB)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	activity, err := OpenActivity(paths.ActivityLog)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &App{
		WorkDir:   cfg.WorkDir,
		Paths:     paths,
		Store:     store,
		Builder:   cargo.NewRunner(),
		Committer: git.NewCommitter(),
		Notifier:  LogNotifier{Activity: activity},
		Backups:   backup.NewManager(paths.BackupDir),
		Activity:  activity,
		Verbose:   cfg.Verbose,
		Out:       cfg.Out,
	}, nil
}

// Close releases the store and the activity log.
func (a *App) Close() error {
	var first error
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			first = err
		}
	}
	if err := a.Activity.Close(); err != nil && first == nil {
		first = err
	}
	return first
}
