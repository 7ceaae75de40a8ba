package cmd

import (
	"github.com/spf13/cobra"

	"distship/internal/remote"
	"distship/internal/ship"
)

var rollbackDryRun bool

var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Restore the most recent backup into the target directory",
	Long: `Lists the archives in the backup directory and extracts the newest one over
the remote target directory. Files added by the failed release that are not
in the archive are left in place.`,
	RunE: Rollback,
}

func init() {
	addConfigFlag(rollbackCmd)
	rollbackCmd.Flags().BoolVar(&rollbackDryRun, "dry-run", false, "List backups and print the restore command without running it")
	rootCmd.AddCommand(rollbackCmd)
}

func Rollback(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	cfg, _, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	result, err := ship.NewRollbacker(cfg,
		remote.NewLocalExecutor(),
		ship.WithDryRun(rollbackDryRun),
		ship.WithStream(cmd.OutOrStdout()),
	).Rollback(ctx)
	if err != nil {
		return err
	}

	if result.DryRun {
		infoColor.Printf("Would restore %s\n", bold(result.Target))
		return nil
	}
	successColor.Printf("⏪ Restored %s into %s\n", result.Target, bold(cfg.RemoteTargetDir))
	return nil
}
