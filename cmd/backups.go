package cmd

import (
	"fmt"
	"path"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"distship/internal/remote"
	"distship/internal/ship"
)

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List the backups stored on the remote host, newest first",
	RunE:  Backups,
}

func init() {
	addConfigFlag(backupsCmd)
	rootCmd.AddCommand(backupsCmd)
}

func Backups(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	cfg, _, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	backups, err := ship.NewRollbacker(cfg, remote.NewLocalExecutor()).ListBackups(ctx)
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		warnColor.Printf("No backups in %s:%s\n", cfg.Destination(), cfg.BackupDir)
		return nil
	}

	out := cmd.OutOrStdout()
	infoColor.Fprintf(out, "Backups in %s:%s\n", cfg.Destination(), cfg.BackupDir)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for i, b := range backups {
		taken := "unknown"
		if t, ok := remote.BackupTime(b); ok {
			taken = fmt.Sprintf("%s (%s ago)", t.Format(time.DateTime), time.Since(t).Round(time.Minute))
		}
		marker := ""
		if i == 0 {
			marker = "← rollback target"
		}
		fmt.Fprintf(w, "%d.\t%s\t%s\t%s\n", i+1, path.Base(b), taken, marker)
	}
	return w.Flush()
}
