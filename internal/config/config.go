package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/thoreinstein/aigrid/internal/errors"
	"github.com/thoreinstein/aigrid/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = paths.AppName

// EnvConfigDir names the environment variable that overrides the
// configuration directory.
const EnvConfigDir = "AIGRID_CONFIG_DIR"

// CurrentVersion is the only supported config version.
const CurrentVersion = 1

// Default display size used when none is configured.
const (
	DefaultDisplayWidth  = 1920
	DefaultDisplayHeight = 1080
)

// Config represents the top-level configuration structure.
type Config struct {
	Version   int     `mapstructure:"version" yaml:"version"`
	ConfigDir string  `mapstructure:"config_dir" yaml:"config_dir,omitempty"`
	Display   Display `mapstructure:"display" yaml:"display"`
	Watch     Watch   `mapstructure:"watch" yaml:"watch"`
}

// Display is the screen area windows are arranged on.
type Display struct {
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
}

// Watch controls hot reload.
type Watch struct {
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
	Mode     string        `mapstructure:"mode" yaml:"mode"`
}

// Init resets Viper and registers the search paths, environment binding
// and defaults. Call it once at startup before Load.
func Init() {
	viper.Reset()

	viper.SetConfigName("config")

	if dir := os.Getenv(EnvConfigDir); dir != "" {
		viper.AddConfigPath(dir)
	}
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix("AIGRID")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("version", CurrentVersion)
	viper.SetDefault("config_dir", "")
	viper.SetDefault("display.width", DefaultDisplayWidth)
	viper.SetDefault("display.height", DefaultDisplayHeight)
	viper.SetDefault("watch.interval", "2s")
	viper.SetDefault("watch.mode", "poll")
}

// Load reads and validates the configuration.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and uses the
// defaults when no file is found.
func Load(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "config file not found at %s", path)
		}
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading config file")
		}
		// No file in the search paths: defaults apply.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Mark(errors.Wrap(errs[0], "validating config"), errors.ErrInvalidConfig)
	}
	return &cfg, nil
}

// FileUsed returns the config file that was read, or "" when defaults
// were used.
func FileUsed() string {
	return viper.ConfigFileUsed()
}

// StoreDir returns the directory holding settings.json and ai_apps.json.
func (c *Config) StoreDir() (string, error) {
	if c.ConfigDir == "" {
		if dir := os.Getenv(EnvConfigDir); dir != "" {
			return paths.Expand(dir)
		}
		return paths.ConfigDir(), nil
	}
	return paths.Expand(c.ConfigDir)
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Display: Display{Width: DefaultDisplayWidth, Height: DefaultDisplayHeight},
		Watch:   Watch{Interval: 2 * time.Second, Mode: "poll"},
	}
}
