package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doublegate/rustopt/internal/app"
)

var (
	flagProfile   string
	flagVerbose   bool
	flagConfigDir string
)

var rootCmd = &cobra.Command{
	Use:   "rustopt",
	Short: "rustopt — LLM-assisted Rust source rewriter",
	Long:  "Sends selected Rust files to Claude for optimization, caches results by content fingerprint, and backs up originals before every rewrite.",

	SilenceUsage:  true,
	SilenceErrors: true,
}

// projectRoot returns the project root (cwd by default).
func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

// resolvePaths honors --config-dir when the user keeps tool state outside
// the project tree.
func resolvePaths(root string) *app.Paths {
	if flagConfigDir != "" {
		return app.NewPathsAt(root, flagConfigDir)
	}
	return app.NewPaths(root)
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%serror:%s %v\n", colorYellow, colorReset, err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagProfile, "profile", "p", "default", "Named profile for cached settings and results")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug output")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "Tool state directory (default: .rustopt/ under the project root)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(rollbackCmd)
	rootCmd.AddCommand(backupsCmd)
	rootCmd.AddCommand(configCmd)
}
