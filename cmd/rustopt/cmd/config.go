package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	bboltstore "github.com/doublegate/rustopt/internal/adapters/bbolt"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration and stored profiles",
	Long:  "Shows project root, state paths, and every stored profile with its model and fingerprint.",
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	paths := resolvePaths(root)

	fmt.Printf("%s⚡ rustopt config%s\n", colorBold, colorReset)
	fmt.Printf("  Root:      %s\n", root)
	fmt.Printf("  DB:        %s\n", paths.DB)
	fmt.Printf("  Log:       %s\n", paths.ActivityLog)
	fmt.Printf("  Backups:   %s\n", paths.BackupDir)
	fmt.Printf("  Output:    %s\n", paths.OutputDir)

	if _, err := os.Stat(paths.DB); os.IsNotExist(err) {
		fmt.Printf("  Profiles:  %snone%s\n", colorGray, colorReset)
		return nil
	}

	store, err := bboltstore.NewStore(paths.DB)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	names, err := store.Profiles()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Printf("  Profiles:  %snone%s\n", colorGray, colorReset)
		return nil
	}

	fmt.Printf("  Profiles:\n")
	for _, name := range names {
		prof, err := store.Load(name)
		if err != nil || prof == nil {
			continue
		}
		hash := prof.CombinedHash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		fmt.Printf("    %s%s%s  %s  %d file(s)  %s%s%s\n",
			colorCyan, name, colorReset, prof.Model, len(prof.SelectedFiles), colorGray, hash, colorReset)
	}
	return nil
}
