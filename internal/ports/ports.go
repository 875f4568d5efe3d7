// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. The pipeline depends
// only on these interfaces, never on concrete implementations.
package ports

import "context"

// Profile is one named configuration/cache record. Profiles are independent:
// loading or saving one never touches another.
//
// CombinedHash + OptimizedOutput together form the incremental cache: a run
// whose fresh fingerprint equals CombinedHash and whose OptimizedOutput is
// non-empty reuses the stored bundle instead of calling the API.
type Profile struct {
	Model           string   `json:"model"`
	Retry           int      `json:"retry"`
	Timeout         int      `json:"timeout"` // per-attempt timeout, seconds
	SelectedFiles   []string `json:"selected_files"`
	CombinedHash    string   `json:"combined_hash"`
	OptimizedOutput string   `json:"optimized_output"`
}

// ProfileStore persists profile records to durable storage.
//
// Crash safety: Save must be transactional — the record is replaced as a
// whole or not at all. A crash mid-write must not corrupt previously
// committed data. The store is single-writer-assumed per profile.
type ProfileStore interface {
	// Load retrieves a profile record. Returns nil, nil if the profile
	// has never been saved (fresh profile).
	Load(name string) (*Profile, error)

	// Save overwrites the full record for a profile. Never merges.
	Save(name string, p *Profile) error

	// Delete removes a profile record. Idempotent.
	Delete(name string) error

	// Profiles lists all stored profile names, sorted.
	Profiles() ([]string, error)

	Close() error
}

// RewriteRequest carries one logical "rewrite these files" request.
// Contents is the delimited concatenation of every file (bundle.Join output);
// FileNames lists the relative paths in the same order.
type RewriteRequest struct {
	FileNames []string
	Contents  string
}

// Rewriter obtains a rewritten bundle from the remote model. The returned
// string is the raw response text; splitting it into per-file outputs is the
// caller's job. Implementations own retry/backoff; ctx cancellation must be
// observable between attempts and during the network wait.
type Rewriter interface {
	Rewrite(ctx context.Context, req RewriteRequest) (string, error)
}

// Watcher monitors a fixed set of files for changes. The adapter must
// debounce rapid events (editors often trigger multiple writes per save)
// and only report paths from the watched set.
type Watcher interface {
	// Watch starts monitoring the given files. onChange is called with the
	// absolute path of each changed file and may be invoked from any
	// goroutine. Only one Watch call should be active at a time.
	Watch(files []string, onChange func(path string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}

// BuildResult reports the outcome of an external build.
type BuildResult struct {
	Success     bool
	Diagnostics []string // compiler messages, empty on success
}

// BuildRunner runs the external build tool against a directory containing
// a Cargo.toml. A failed build is a result, not an error; errors are
// reserved for being unable to run the tool at all.
type BuildRunner interface {
	Build(ctx context.Context, dir string) (BuildResult, error)
}

// Committer stages and commits current working-directory changes.
type Committer interface {
	Commit(ctx context.Context, dir, message string) error
}

// Notifier delivers best-effort error notifications. Implementations must
// never fail the run; a no-op implementation is valid.
type Notifier interface {
	Notify(message string)
}
