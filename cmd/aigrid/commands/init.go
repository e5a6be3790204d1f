package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/aigrid/internal/document"
	"github.com/thoreinstein/aigrid/internal/errors"
	"github.com/thoreinstein/aigrid/internal/paths"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false,
		"overwrite existing configuration files")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the sample configuration",
	Long: `Write settings.json and ai_apps.json with a 4x2 grid and three sample
services. Existing files are left alone unless --force is given.`,
	Example: `  # Create the configuration in the default directory
  aigrid init

  # Create it somewhere else
  aigrid init --config-dir ./layout

  # Replace an existing configuration
  aigrid init --force

See Also: aigrid validate, aigrid config edit`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, _ []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	if err := paths.EnsureDir(s.Dir(), 0); err != nil {
		return errors.NewSystemError(err, "Check permissions on "+s.Dir())
	}

	settingsPath, appsPath := s.Paths()
	if !initForce && exists(settingsPath) {
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration already exists at %s\n", s.Dir())
		fmt.Fprintln(cmd.OutOrStdout(), "Use --force to overwrite it.")
		return nil
	}

	issues, err := s.Save(document.Demo())
	if err != nil {
		for _, is := range issues {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", is.Error())
		}
		return errors.NewSystemError(err, "Check permissions on "+s.Dir())
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Created configuration:")
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", settingsPath)
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", appsPath)
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
