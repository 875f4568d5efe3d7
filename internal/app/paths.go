package app

import (
	"os"
	"path/filepath"
)

// Paths holds all resolved filesystem paths for a project. State that is
// internal to the tool lives under .rustopt/; backups and rewritten output
// stay at the project root where users expect to find them.
type Paths struct {
	Root        string // .rustopt/
	DB          string // .rustopt/rustopt.db
	ActivityLog string // .rustopt/activity.log

	BackupDir string // backups/
	OutputDir string // optimized/
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	return NewPathsAt(projectRoot, filepath.Join(projectRoot, ".rustopt"))
}

// NewPathsAt is NewPaths with the state directory relocated, for callers
// that keep tool state outside the project tree.
func NewPathsAt(projectRoot, stateDir string) *Paths {
	root := stateDir
	return &Paths{
		Root:        root,
		DB:          filepath.Join(root, "rustopt.db"),
		ActivityLog: filepath.Join(root, "activity.log"),

		BackupDir: filepath.Join(projectRoot, "backups"),
		OutputDir: filepath.Join(projectRoot, "optimized"),
	}
}

// EnsureDirs creates the .rustopt/ state directory. Backup and output
// directories are created lazily when first written. Idempotent.
func (p *Paths) EnsureDirs() error {
	return os.MkdirAll(p.Root, 0755)
}
