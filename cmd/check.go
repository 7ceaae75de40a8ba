package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"distship/internal/config"
	"distship/internal/remote"
)

var (
	insecure     bool
	checkTimeout time.Duration
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and test the SSH connection",
	Long: `Loads and normalizes the configuration, prints the resolved settings, then
connects to the remote host with the configured user and key and reports
whether the target and backup directories exist. Nothing is modified.`,
	RunE: Check,
}

func init() {
	addConfigFlag(checkCmd)
	checkCmd.Flags().BoolVar(&insecure, "insecure", false, "Do not verify the host key against known_hosts")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 10*time.Second, "Connection timeout")
	rootCmd.AddCommand(checkCmd)
}

func Check(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	cfg, _, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	config.ShowConfigSummary(cmd.OutOrStdout(), cfg)

	if insecure {
		warnColor.Println("⚠️  Host key verification disabled")
	}

	CliLogs.Info("Connecting to %s...", cfg.Address())
	res, err := remote.Probe(ctx, cfg, remote.ProbeOptions{Insecure: insecure, Timeout: checkTimeout})
	if err != nil {
		return err
	}

	successColor.Printf("✓ Connected to %s in %s (%s)\n", cfg.Destination(), res.Latency.Round(time.Millisecond), res.ServerVersion)
	if res.TargetExists {
		successColor.Printf("✓ %s exists\n", cfg.RemoteTargetDir)
	} else {
		warnColor.Printf("• %s does not exist yet; the first deploy will create it\n", cfg.RemoteTargetDir)
	}
	if res.BackupDirOK {
		successColor.Printf("✓ %s exists\n", cfg.BackupDir)
	} else {
		warnColor.Printf("• %s does not exist yet; the first deploy will create it\n", cfg.BackupDir)
	}
	return nil
}
