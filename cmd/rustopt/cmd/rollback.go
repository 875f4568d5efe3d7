package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doublegate/rustopt/internal/domain/backup"
)

var rollbackForce bool

var rollbackCmd = &cobra.Command{
	Use:   "rollback [backup-id]",
	Short: "Restore originals from a backup",
	Long:  "Copies files from the named backup (newest when omitted) back over the project sources. Run 'rustopt backups' to list ids.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRollback,
}

func init() {
	rollbackCmd.Flags().BoolVar(&rollbackForce, "force", false, "Skip confirmation prompt")
}

func runRollback(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	paths := resolvePaths(root)
	backups := backup.NewManager(paths.BackupDir)

	id := ""
	if len(args) == 1 {
		id = args[0]
	} else {
		latest, err := backups.Latest()
		if err != nil {
			return err
		}
		if latest == "" {
			fmt.Println("⚡ no backups to restore")
			return nil
		}
		id = latest
	}

	if !rollbackForce {
		fmt.Printf("⚠ Restore backup %s over the current sources? [y/N] ", id)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("cancelled")
			return nil
		}
	}

	if err := backups.Restore(id, root); err != nil {
		return err
	}

	fmt.Printf("%s⚡ restored backup %s%s\n", colorBold, id, colorReset)
	return nil
}
