package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doublegate/rustopt/internal/domain/backup"
)

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List backups for this project",
	RunE:  runBackups,
}

func runBackups(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	paths := resolvePaths(root)

	ids, err := backup.NewManager(paths.BackupDir).List()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Println("⚡ no backups")
		return nil
	}

	fmt.Printf("%s⚡ %d backup(s)%s\n", colorBold, len(ids), colorReset)
	for _, id := range ids {
		fmt.Printf("  %s%s%s\n", colorCyan, id, colorReset)
	}
	return nil
}
