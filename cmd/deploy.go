package cmd

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"distship/internal/config"
	"distship/internal/failfast"
	"distship/internal/git"
	"distship/internal/hook"
	"distship/internal/prompt"
	"distship/internal/remote"
	"distship/internal/ship"
)

var (
	assumeYes    bool
	skipBuild    bool
	sourceDir    string
	deployDryRun bool
	buildMode    string
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Build and upload the site, backing up the live release first",
	Long: `The deploy command runs the full release pipeline:
- Runs the configured production build (unless --skip-build)
- Asks for confirmation, unless autoConfirm or --yes is set
- Archives the remote target directory into the backup directory
- Uploads the build output with scp (copy) or rsync (sync)`,
	RunE: Deploy,
}

func init() {
	addConfigFlag(deployCmd)
	deployCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	deployCmd.Flags().BoolVar(&skipBuild, "skip-build", false, "Upload the existing build output without rebuilding")
	deployCmd.Flags().StringVarP(&sourceDir, "source", "s", "", "Upload this directory instead of the build output")
	deployCmd.Flags().StringVar(&buildMode, "mode", "", "Build mode: production, development or watch (default: build.mode, else production)")
	deployCmd.Flags().BoolVar(&deployDryRun, "dry-run", false, "Print the remote commands without running them")
	rootCmd.AddCommand(deployCmd)
}

func Deploy(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	cfg, loaded, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	if assumeYes && !cfg.AutoConfirm {
		confirmed := *cfg
		confirmed.AutoConfirm = true
		cfg = &confirmed
	}

	infoColor.Printf("Starting deployment at %s\n\n", time.Now().Format(time.RFC1123))
	if deployDryRun {
		warnColor.Println("🚧 DRY RUN MODE: No changes will be made 🚧")
	}

	local := remote.NewLocalExecutor()
	rev, err := git.Describe(ctx, local)
	if err == nil {
		CliLogs.Info("Deploying revision %s", bold(rev))
	}
	failfast.Failfast(err, failfast.Ignore, "no git revision")

	mode := loaded.Options.Build.Mode
	if buildMode != "" {
		mode = buildMode
	}
	if mode, err = hook.ParseMode(mode); err != nil {
		return err
	}

	runner := hook.NewRunner(loaded.Options.Build.Command, cfg.LocalSourceDir)
	runner.Mode = mode
	runner.Stream = cmd.OutOrStdout()
	if skipBuild || sourceDir != "" {
		runner.Command = ""
	}
	if sourceDir != "" {
		runner.OutDir = sourceDir
	}

	deployer := ship.NewDeployer(cfg,
		local,
		prompt.NewTTY(os.Stdin, os.Stdout),
		ship.WithDryRun(deployDryRun),
		ship.WithStream(cmd.OutOrStdout()),
	)

	var result *ship.DeployResult
	err = runner.Run(ctx, func(ctx context.Context, outDir string) error {
		var err error
		result, err = deployer.Deploy(ctx, outDir)
		return err
	})
	if err != nil {
		return err
	}

	printDeployResult(cfg, result)
	return nil
}

func printDeployResult(cfg *config.DeploymentConfig, result *ship.DeployResult) {
	switch {
	case result == nil:
	case result.Skipped:
		warnColor.Println("Nothing was deployed")
	case result.DryRun:
		infoColor.Printf("\nWould back up to %s\n", bold(result.BackupPath))
	default:
		successColor.Printf("\n🎉 %s is live on %s %s\n", result.Source, bold(cfg.Destination()+":"+cfg.RemoteTargetDir), dim(result.Duration.Round(time.Millisecond)))
		CliLogs.Info("Undo with `distship rollback` (restores %s)", result.BackupPath)
	}
}
