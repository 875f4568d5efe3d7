// Package app wires the adapters together and owns the rewrite pipeline:
// fingerprint → cache check → backup → remote rewrite → demultiplex →
// write outputs → optional build → optional commit.
//
// Everything the pipeline needs arrives through the App container — there
// are no package-level clients or loggers. One App serves one project root.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/doublegate/rustopt/internal/domain/backup"
	"github.com/doublegate/rustopt/internal/domain/bundle"
	"github.com/doublegate/rustopt/internal/domain/diffview"
	"github.com/doublegate/rustopt/internal/domain/fingerprint"
	"github.com/doublegate/rustopt/internal/ports"
)

// App is the top-level container wiring all components together.
type App struct {
	WorkDir string
	Paths   *Paths

	Store     ports.ProfileStore
	Rewriter  ports.Rewriter
	Builder   ports.BuildRunner
	Committer ports.Committer
	Notifier  ports.Notifier
	Backups   *backup.Manager
	Activity  *Activity

	Verbose bool
	Out     io.Writer // user-facing progress; nil discards
}

// RunOptions parameterizes one pipeline invocation.
type RunOptions struct {
	Profile string
	Files   []string // absolute paths to the selected sources
	Model   string
	Retry   int
	Timeout int // seconds, per attempt

	OutputDir string // default: Paths.OutputDir

	Build    bool
	BuildDir string // default: OutputDir
	Commit   bool

	// ConfirmApply, when set, previews diffs after outputs are written and
	// may abort the rest of the run (build, commit). Nil applies directly.
	ConfirmApply func(diffs []diffview.FileDiff) bool
}

// RunResult reports what one pipeline invocation did.
type RunResult struct {
	Fingerprint string
	CacheHit    bool
	BackupID    string // empty on cache hit
	Parts       []bundle.FilePart
	OutputDir   string
	Aborted     bool // user declined at preview
	BuildRan    bool
	Build       ports.BuildResult
	Committed   bool
}

// Run executes the pipeline once. Errors that corrupt correctness (I/O,
// remote failure) abort the run; build and commit failures are reported in
// the result instead. The notifier hears about every fatal error.
func (a *App) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	res, err := a.run(ctx, opts)
	if err != nil && a.Notifier != nil {
		a.Notifier.Notify(err.Error())
	}
	return res, err
}

func (a *App) run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	if len(opts.Files) == 0 {
		return nil, fmt.Errorf("no files selected")
	}
	if opts.Profile == "" {
		opts.Profile = "default"
	}
	if opts.OutputDir == "" {
		opts.OutputDir = a.Paths.OutputDir
	}
	if opts.BuildDir == "" {
		opts.BuildDir = opts.OutputDir
	}

	prof, err := a.Store.Load(opts.Profile)
	if err != nil {
		return nil, fmt.Errorf("load profile %q: %w", opts.Profile, err)
	}
	if prof == nil {
		prof = &ports.Profile{}
	}

	fp, err := fingerprint.Fingerprint(opts.Files, a.WorkDir)
	if err != nil {
		return nil, err
	}
	a.debugf("fingerprint %s (stored %s)", fp, prof.CombinedHash)

	res := &RunResult{Fingerprint: fp, OutputDir: opts.OutputDir}

	var bundleText string
	if prof.CombinedHash == fp && prof.OptimizedOutput != "" {
		res.CacheHit = true
		bundleText = prof.OptimizedOutput
		a.printf("no changes detected since last run, using cached output")
		a.Activity.Log("cache hit for profile %q (%s)", opts.Profile, fp)
	} else {
		backupID, err := a.Backups.Snapshot(opts.Files)
		if err != nil {
			return nil, fmt.Errorf("backup: %w", err)
		}
		res.BackupID = backupID
		a.Activity.Log("backed up %d file(s) to %s", len(opts.Files), filepath.Join(a.Backups.Dir(), backupID))

		req, err := a.buildRequest(opts.Files)
		if err != nil {
			return nil, err
		}

		a.printf("rewriting %d file(s) with %s", len(opts.Files), opts.Model)
		bundleText, err = a.Rewriter.Rewrite(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("rewrite: %w", err)
		}
		a.Activity.Log("rewrite succeeded for profile %q (%s)", opts.Profile, fp)
	}

	// Persist the whole record now: the paid-for bundle must survive even
	// if writing outputs fails below.
	saved := &ports.Profile{
		Model:           opts.Model,
		Retry:           opts.Retry,
		Timeout:         opts.Timeout,
		SelectedFiles:   opts.Files,
		CombinedHash:    fp,
		OptimizedOutput: bundleText,
	}
	if err := a.Store.Save(opts.Profile, saved); err != nil {
		return nil, fmt.Errorf("save profile %q: %w", opts.Profile, err)
	}

	res.Parts = bundle.Split(bundleText)
	if len(res.Parts) == 0 {
		// The response carried no recognizable file segments. Not fatal:
		// surface it so the caller can warn and skip writing.
		a.printf("warning: response contained no file segments, nothing written")
		a.Activity.Log("empty bundle for profile %q, outputs skipped", opts.Profile)
		return res, nil
	}

	if err := a.writeOutputs(opts.OutputDir, res.Parts); err != nil {
		return nil, err
	}
	a.printf("wrote %d file(s) to %s", len(res.Parts), opts.OutputDir)

	if opts.ConfirmApply != nil {
		diffs, err := a.previewDiffs(opts.Files, res.Parts)
		if err != nil {
			return nil, err
		}
		if !opts.ConfirmApply(diffs) {
			res.Aborted = true
			a.Activity.Log("run aborted at preview for profile %q", opts.Profile)
			return res, nil
		}
	}

	if opts.Build {
		res.BuildRan = true
		build, err := a.Builder.Build(ctx, opts.BuildDir)
		if err != nil {
			// Reported, not fatal: the rewrite itself succeeded.
			build = ports.BuildResult{Success: false, Diagnostics: []string{err.Error()}}
		}
		res.Build = build
		a.Activity.Log("build in %s: success=%v", opts.BuildDir, build.Success)
	}

	if opts.Commit && a.Committer != nil {
		if err := a.Committer.Commit(ctx, a.WorkDir, "Optimize Rust code via LLM rewrite"); err != nil {
			a.printf("warning: git commit failed: %v", err)
			a.Activity.Log("git commit failed: %v", err)
		} else {
			res.Committed = true
			a.Activity.Log("committed changes")
		}
	}

	return res, nil
}

// buildRequest reads every selected file and concatenates the contents into
// one delimited payload, relative paths in sorted prompt order.
func (a *App) buildRequest(files []string) (ports.RewriteRequest, error) {
	var req ports.RewriteRequest
	parts := make([]bundle.FilePart, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(a.WorkDir, f)
		if err != nil {
			return req, fmt.Errorf("relativize %s: %w", f, err)
		}
		data, err := os.ReadFile(f)
		if err != nil {
			return req, fmt.Errorf("read %s: %w", f, err)
		}
		rel = filepath.ToSlash(rel)
		req.FileNames = append(req.FileNames, rel)
		parts = append(parts, bundle.FilePart{Path: rel, Content: string(data)})
	}
	req.Contents = bundle.Join(parts)
	return req, nil
}

// writeOutputs writes each part under outputDir, preserving the relative
// structure. Paths that would escape outputDir are rejected — the remote
// response is untrusted input.
func (a *App) writeOutputs(outputDir string, parts []bundle.FilePart) error {
	for _, p := range parts {
		rel := filepath.FromSlash(p.Path)
		if filepath.IsAbs(rel) || !filepath.IsLocal(rel) {
			return fmt.Errorf("refusing non-local output path %q", p.Path)
		}
		dst := filepath.Join(outputDir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return fmt.Errorf("create %s: %w", filepath.Dir(dst), err)
		}
		if err := os.WriteFile(dst, []byte(p.Content), 0644); err != nil {
			return fmt.Errorf("write %s: %w", dst, err)
		}
	}
	return nil
}

// previewDiffs renders unified diffs of each rewritten part against the
// current on-disk original with the same relative path.
func (a *App) previewDiffs(files []string, parts []bundle.FilePart) ([]diffview.FileDiff, error) {
	byRel := make(map[string]string, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(a.WorkDir, f)
		if err != nil {
			return nil, fmt.Errorf("relativize %s: %w", f, err)
		}
		byRel[filepath.ToSlash(rel)] = f
	}

	var diffs []diffview.FileDiff
	for _, p := range parts {
		original := ""
		if abs, ok := byRel[p.Path]; ok {
			data, err := os.ReadFile(abs)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", abs, err)
			}
			original = string(data)
		}
		d, err := diffview.Unified(p.Path, original, p.Content)
		if err != nil {
			return nil, fmt.Errorf("diff %s: %w", p.Path, err)
		}
		diffs = append(diffs, d)
	}
	return diffs, nil
}

// printf writes a user-facing progress line.
func (a *App) printf(format string, args ...any) {
	if a.Out != nil {
		fmt.Fprintf(a.Out, format+"\n", args...)
	}
}

// debugf writes a progress line only in verbose mode.
func (a *App) debugf(format string, args ...any) {
	if a.Verbose {
		a.printf(format, args...)
	}
}
