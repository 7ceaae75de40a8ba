package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"distship/internal/config"
	"distship/internal/failfast"
	"distship/internal/logger"
)

var (
	CliLogs = logger.PackageLogger("cli", "📦 DISTSHIP")

	successColor = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)

	bold = color.New(color.Bold).SprintFunc()
	dim  = color.New(color.Faint).SprintFunc()

	verbose    bool
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "distship",
	Short: "Ship a static build to a server over SSH, with backups and rollback",
	Long: `distship copies the output of your production build to a directory on a
remote host. Every deployment first archives what is currently live, so a
bad release can be undone with a single rollback.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetGlobalLevel(logger.LevelDebug)
		}
	},
}

// Execute runs the root command
func Execute() {
	failfast.Exit(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print the commands being run")
}

// signalContext is cancelled on SIGINT or SIGTERM, which stops the running
// child process.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

func loadConfig(path string) (*config.DeploymentConfig, *config.Loaded, error) {
	cfg, loaded, err := config.Load(path)
	if loaded != nil {
		CliLogs.Debug("Using config %s", loaded.Path)
		for _, w := range loaded.Warnings {
			failfast.Failfast(errors.New(w), failfast.Warn, loaded.Path)
		}
	}
	if err != nil {
		return nil, nil, err
	}
	return cfg, loaded, nil
}

func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to configuration file (default: distship.yml in the current directory)")
}
