package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"distship/internal/config"
)

var (
	forceInit   bool
	interactive bool
	initPath    string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a distship.yml in the current directory",
	Long: `Writes a commented sample configuration, or with --interactive asks for each
setting and writes the answers.`,
	RunE: Init,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing config file")
	initCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Answer questions instead of writing a sample")
	initCmd.Flags().StringVarP(&initPath, "output", "o", config.ConfigFile, "Where to write the config file")
	rootCmd.AddCommand(initCmd)
}

func Init(cmd *cobra.Command, args []string) error {
	if !interactive {
		if err := config.GenerateSampleConfig(initPath, forceInit); err != nil {
			return err
		}
		successColor.Printf("✅ %s created\n", initPath)
		fmt.Println("Edit remoteHost and remoteTargetDir, then run `distship check`.")
		return nil
	}

	fmt.Println("🚀 distship setup")
	fmt.Println("----------------------------------------")

	opts, err := config.InteractiveConfigPrompt(bufio.NewReader(os.Stdin), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	cfg, err := config.Normalize(opts)
	if err != nil {
		return err
	}
	config.ShowConfigSummary(cmd.OutOrStdout(), cfg)

	if err := config.WriteConfig(afero.NewOsFs(), initPath, opts, forceInit); err != nil {
		return err
	}
	successColor.Printf("✅ %s created with your settings\n", initPath)
	return nil
}
