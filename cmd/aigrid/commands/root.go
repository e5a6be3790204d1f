// Package commands implements the CLI commands for aigrid.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/aigrid/cmd"
	"github.com/thoreinstein/aigrid/internal/config"
	"github.com/thoreinstein/aigrid/internal/errors"
	"github.com/thoreinstein/aigrid/internal/logging"
	"github.com/thoreinstein/aigrid/internal/paths"
	"github.com/thoreinstein/aigrid/internal/store"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configDir holds the --config-dir override for the configuration pair.
var configDir string

// toolConfigFile holds the --config path of the tool configuration.
var toolConfigFile string

// toolConfig is the loaded tool configuration; configLoadErr records why
// loading failed.
var (
	toolConfig    *config.Config
	configLoadErr error
)

// logCloser closes the --log-file handle, if any.
var logCloser io.Closer

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv, -vvv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"also write logs to file in JSON format (alone: "+defaultLogFile()+")")
	rootCmd.PersistentFlags().Lookup("log-file").NoOptDefVal = defaultLogFile()
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "",
		"directory holding settings.json and ai_apps.json")
	rootCmd.PersistentFlags().StringVar(&toolConfigFile, "config", "",
		"tool configuration file (default: search $AIGRID_CONFIG_DIR, ., ~/.config/aigrid)")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("aigrid version {{.Version}}\n")

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	toolConfig, configLoadErr = config.Load(toolConfigFile)
}

var rootCmd = &cobra.Command{
	Use:   "aigrid",
	Short: "Arrange AI assistant windows in a grid",
	Long: `aigrid detects the windows of AI chat services by their titles, ranks
them by the priority configured for each service and tiles them on a grid.

The layout configuration is a pair of JSON files, settings.json and
ai_apps.json, validated on every load and hot-reloaded by "aigrid watch".`,
	Example: `  # Create the sample configuration
  aigrid init

  # Check it
  aigrid validate

  # Show how the windows listed in a file would be arranged
  aigrid arrange --windows windows.yaml

  See Also: aigrid doctor, aigrid config`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfigLoaded(cmd)
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		if logCloser != nil {
			err := logCloser.Close()
			logCloser = nil
			return err
		}
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// defaultLogFile is the log file used when --log-file is given without a
// value.
func defaultLogFile() string {
	return filepath.Join(paths.StateDir(), "aigrid.log")
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity
		if v == 0 {
			if val, ok := os.LookupEnv("AIGRID_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2
				case "2":
					v = 3
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	format := logging.Format(logFormat)
	if format != logging.FormatText && format != logging.FormatJSON {
		return errors.NewUserError(errors.Newf("invalid log format %q", logFormat), "Use --log-format text or --log-format json")
	}

	opts := &slog.HandlerOptions{Level: level}

	var primary slog.Handler
	if format == logging.FormatJSON {
		primary = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	} else {
		primary = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handler := primary
	if logFile != "" {
		if err := paths.EnsureDir(filepath.Dir(logFile), 0); err != nil {
			return errors.NewSystemError(err, "Check the --log-file path")
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(errors.Wrap(err, "opening log file"), "Check the --log-file path")
		}
		logCloser = f
		handler = logging.NewMultiHandler(primary, slog.NewJSONHandler(f, opts))
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))
	return nil
}

// checkConfigLoaded reports a broken tool configuration. help, version,
// doctor and config edit still run so the problem can be fixed.
func checkConfigLoaded(cmd *cobra.Command) error {
	if cmd == configEditCmd {
		return nil
	}
	switch cmd.Name() {
	case "help", "version", "doctor":
		return nil
	}
	switch {
	case configLoadErr == nil:
		return nil
	case errors.Is(configLoadErr, errors.ErrInvalidConfig):
		return errors.NewUserError(configLoadErr, "Run: aigrid config edit")
	}
	return errors.NewConfigError(configLoadErr)
}

// currentConfig returns the loaded tool configuration, or the defaults
// when loading failed.
func currentConfig() *config.Config {
	if toolConfig == nil {
		return config.Default()
	}
	return toolConfig
}

// resolveStoreDir returns the directory of the configuration pair:
// --config-dir, then the tool configuration, then the XDG default.
func resolveStoreDir() (string, error) {
	if configDir != "" {
		return paths.Expand(configDir)
	}
	return currentConfig().StoreDir()
}

// openStore creates a Store for the resolved directory using the
// command's logger.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dir, err := resolveStoreDir()
	if err != nil {
		return nil, errors.NewUserError(err, "Check --config-dir")
	}
	return store.New(dir, store.WithLogger(logging.FromContext(cmd.Context()))), nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
