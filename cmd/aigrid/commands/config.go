package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/aigrid/internal/config"
	"github.com/thoreinstein/aigrid/internal/editor"
	"github.com/thoreinstein/aigrid/internal/errors"
	"github.com/thoreinstein/aigrid/internal/paths"
	"github.com/thoreinstein/aigrid/pkg/fileutil"
)

// Targets accepted by "config edit".
const (
	editTargetTool     = "tool"
	editTargetSettings = "settings"
	editTargetApps     = "apps"
)

// openEditor is replaced in tests.
var openEditor = editor.Open

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage aigrid configuration",
	Long: `Inspect the tool configuration (~/.config/aigrid/config.yaml) and edit
the configuration files.

Without a subcommand, lists the effective tool configuration.`,
	Example: `  # List the tool configuration
  aigrid config

  # Show where the files live
  aigrid config path

  # Edit the service list
  aigrid config edit apps

See Also: aigrid init, aigrid doctor`,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a single tool configuration value by key.

Supports dot notation for nested keys.`,
	Example: `  aigrid config get display.width
  aigrid config get watch.mode

See Also: aigrid config list`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long:  `List the effective tool configuration in YAML format.`,
	Example: `  aigrid config list

See Also: aigrid config get`,
	Args: cobra.NoArgs,
	RunE: runConfigList,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print configuration file locations",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit [tool|settings|apps]",
	Short: "Open a configuration file in $EDITOR",
	Long: `Open a configuration file in your editor. The target defaults to the
tool configuration, which is created with default values when missing.
settings and apps must exist; create them with "aigrid init".

The editor is taken from $AIGRID_EDITOR, $EDITOR or $VISUAL, falling
back to nano or vi.`,
	Example: `  # Edit the tool configuration
  aigrid config edit

  # Edit the service list with a specific editor
  EDITOR=nano aigrid config edit apps

See Also: aigrid validate`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{editTargetTool, editTargetSettings, editTargetApps},
	RunE:      runConfigEdit,
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if !viper.IsSet(key) {
		fmt.Fprintln(cmd.OutOrStdout(), "not set")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), viper.GetString(key))
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	data, err := yaml.Marshal(currentConfig())
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	settingsPath, appsPath := s.Paths()

	tool := config.FileUsed()
	if tool == "" {
		tool = paths.ToolConfigFile() + " (not found)"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "tool:     %s\n", tool)
	fmt.Fprintf(out, "settings: %s\n", settingsPath)
	fmt.Fprintf(out, "apps:     %s\n", appsPath)
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	target := editTargetTool
	if len(args) > 0 {
		target = args[0]
	}

	var path string
	switch target {
	case editTargetTool:
		p, err := ensureToolConfig()
		if err != nil {
			return err
		}
		path = p
	case editTargetSettings, editTargetApps:
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		settingsPath, appsPath := s.Paths()
		path = settingsPath
		if target == editTargetApps {
			path = appsPath
		}
		if !exists(path) {
			return errors.NewUserError(
				errors.Wrapf(errors.ErrMissingFile, "%s", path),
				"Run: aigrid init",
			)
		}
	default:
		return errors.NewUserError(
			errors.Newf("unknown edit target %q", target),
			"Use one of: tool, settings, apps",
		)
	}

	if err := openEditor(path); err != nil {
		return errors.NewSystemError(err, "Set $EDITOR to an installed editor")
	}
	return nil
}

// ensureToolConfig returns the tool configuration in use, writing the
// defaults to the standard location when there is none.
func ensureToolConfig() (string, error) {
	if used := config.FileUsed(); used != "" {
		return used, nil
	}

	path := paths.ToolConfigFile()
	if exists(path) {
		return path, nil
	}
	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return "", errors.NewSystemError(err, "")
	}

	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return "", errors.Wrap(err, "marshaling default config")
	}
	if err := fileutil.AtomicWriteFile(path, data, 0o644); err != nil {
		return "", errors.NewSystemError(err, "Check permissions on "+filepath.Dir(path))
	}
	return path, nil
}

