package cmd

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/doublegate/rustopt/internal/adapters/anthropic"
	"github.com/doublegate/rustopt/internal/app"
	"github.com/doublegate/rustopt/internal/adapters/git"
	"github.com/doublegate/rustopt/internal/domain/diffview"
	"github.com/doublegate/rustopt/internal/domain/retry"
)

var (
	flagFiles   []string
	flagModel   string
	flagRetry   int
	flagTimeout int
	flagOutput  string
	flagBuild   bool
	flagAsync   bool
	flagPreview bool
	flagCommit  bool
	flagYes     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Rewrite the selected files once",
	Long:  "Fingerprints the selection, reuses the cached rewrite when nothing changed, otherwise backs up the originals and calls the model. Settings persist per profile; flags given explicitly win over stored ones.",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringSliceVarP(&flagFiles, "files", "f", nil, "Files to rewrite (repeatable); defaults to the profile's stored selection")
	runCmd.Flags().StringVarP(&flagModel, "model", "m", "claude-sonnet-4-5", "Model to use")
	runCmd.Flags().IntVarP(&flagRetry, "retry", "r", 3, "Total request attempts before giving up")
	runCmd.Flags().IntVarP(&flagTimeout, "timeout", "t", 60, "Per-attempt request timeout in seconds")
	runCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output directory (default: optimized/ under the project root)")
	runCmd.Flags().BoolVar(&flagBuild, "build", false, "Run cargo build on the rewritten sources")
	runCmd.Flags().BoolVar(&flagAsync, "async", false, "Context-aware retry waits; Ctrl-C interrupts a backoff immediately")
	runCmd.Flags().BoolVar(&flagPreview, "preview", false, "Show unified diffs and ask before applying")
	runCmd.Flags().BoolVar(&flagCommit, "commit", false, "git commit the rewritten sources on success")
	runCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Assume yes at the preview prompt")
}

func runRun(cmd *cobra.Command, args []string) error {
	root := projectRoot()

	if flagCommit && !git.IsRepo(root) {
		return fmt.Errorf("--commit requires a git repository at %s", root)
	}

	a, err := app.New(app.Config{WorkDir: root, StateDir: flagConfigDir, Verbose: flagVerbose, Out: os.Stdout})
	if err != nil {
		return err
	}
	defer a.Close()

	opts, err := resolveRunOptions(cmd, a)
	if err != nil {
		return err
	}

	rewriter, err := newRewriter(opts)
	if err != nil {
		return err
	}
	a.Rewriter = rewriter

	if flagPreview {
		opts.ConfirmApply = confirmApply
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := a.Run(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Print(formatRunResult(res))
	return nil
}

// resolveRunOptions merges flags with the profile's stored settings.
// A flag the user actually passed wins; otherwise a stored value wins over
// the flag's default.
func resolveRunOptions(cmd *cobra.Command, a *app.App) (app.RunOptions, error) {
	opts := app.RunOptions{
		Profile:   flagProfile,
		Model:     flagModel,
		Retry:     flagRetry,
		Timeout:   flagTimeout,
		OutputDir: flagOutput,
		Build:     flagBuild,
		Commit:    flagCommit,
	}

	prof, err := a.Store.Load(flagProfile)
	if err != nil {
		return opts, fmt.Errorf("load profile %q: %w", flagProfile, err)
	}
	if prof != nil {
		if !cmd.Flags().Changed("model") && prof.Model != "" {
			opts.Model = prof.Model
		}
		if !cmd.Flags().Changed("retry") && prof.Retry > 0 {
			opts.Retry = prof.Retry
		}
		if !cmd.Flags().Changed("timeout") && prof.Timeout > 0 {
			opts.Timeout = prof.Timeout
		}
	}

	files := flagFiles
	if len(files) == 0 && prof != nil {
		files = prof.SelectedFiles
	}
	if len(files) == 0 {
		return opts, fmt.Errorf("no files selected: pass --files or reuse a profile that has a stored selection")
	}
	for _, f := range files {
		abs := f
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(a.WorkDir, f)
		}
		if _, err := os.Stat(abs); err != nil {
			return opts, fmt.Errorf("selected file %s: %w", f, err)
		}
		opts.Files = append(opts.Files, abs)
	}

	return opts, nil
}

// newRewriter builds the Anthropic-backed rewriter for one run. Requires
// ANTHROPIC_API_KEY; checked here so a missing key fails before any backup
// or state mutation.
func newRewriter(opts app.RunOptions) (*anthropic.Client, error) {
	key := os.Getenv("ANTHROPIC_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
	}

	wait := retry.Sleep
	if flagAsync {
		wait = retry.WaitContext
	}

	return anthropic.NewClient(anthropic.Config{
		APIKey:     key,
		Model:      opts.Model,
		MaxRetries: opts.Retry,
		Timeout:    time.Duration(opts.Timeout) * time.Second,
		Wait:       wait,
		OnRetry: func(attempt int, delay time.Duration, err error) {
			fmt.Printf("%s⚡ attempt %d failed (%v), retrying in %s%s\n",
				colorGray, attempt, err, delay.Round(time.Millisecond), colorReset)
		},
	}), nil
}

// confirmApply prints each diff and asks once whether to keep going.
func confirmApply(diffs []diffview.FileDiff) bool {
	changed := 0
	for _, d := range diffs {
		if !d.Changed() {
			continue
		}
		changed++
		fmt.Printf("%s%s%s\n%s\n", colorCyan, d.Path, colorReset, d.Patch)
	}
	if changed == 0 {
		fmt.Println("⚡ no textual changes")
	}
	if flagYes {
		return true
	}

	fmt.Printf("Apply %d change(s)? [y/N] ", changed)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}
