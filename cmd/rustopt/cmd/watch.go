package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/doublegate/rustopt/internal/adapters/fsnotify"
	"github.com/doublegate/rustopt/internal/app"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rewrite on every change to the selected files",
	Long:  "Runs the pipeline once, then re-runs it whenever a selected file changes. Unchanged content resolves to a cache hit and costs no request. Ctrl-C stops.",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().AddFlagSet(runCmd.Flags())
}

func runWatch(cmd *cobra.Command, args []string) error {
	root := projectRoot()

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

	// Preview prompts don't mix with an unattended loop.
	opts.ConfirmApply = nil

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runOnce := func() {
		res, err := a.Run(ctx, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%serror:%s %v\n", colorYellow, colorReset, err)
			return
		}
		fmt.Print(formatRunResult(res))
	}

	runOnce()

	// Coalesce change bursts: one pending trigger at a time.
	trigger := make(chan string, 1)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Stop()

	if err := watcher.Watch(opts.Files, func(path string) {
		select {
		case trigger <- path:
		default:
		}
	}); err != nil {
		return err
	}

	fmt.Printf("%s⚡ watching %d file(s)%s\n", colorBold, len(opts.Files), colorReset)

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\n⚡ stopping...")
			return nil
		case path := <-trigger:
			fmt.Printf("%s⚡ changed: %s%s\n", colorGray, path, colorReset)
			runOnce()
		}
	}
}
