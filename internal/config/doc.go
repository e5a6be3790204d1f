// Package config manages the configuration of the aigrid tool itself.
//
// This is distinct from the window-layout configuration (settings.json
// and ai_apps.json) handled by the store package. The tool configuration
// says where that pair lives, how large the display is and how hot reload
// is driven.
//
// # Configuration File
//
// config.yaml (or config.toml, config.json) is searched in $AIGRID_CONFIG_DIR, the current directory
// and ~/.config/aigrid, in that order:
//
//	version: 1
//	config_dir: ~/layouts/work    # optional, defaults to ~/.config/aigrid
//	display:
//	  width: 1920
//	  height: 1080
//	watch:
//	  interval: 2s
//	  mode: poll                  # poll or notify
//
// Every key can be overridden from the environment with the AIGRID_
// prefix, dots replaced by underscores (AIGRID_DISPLAY_WIDTH=2560).
//
// # Loading Configuration
//
// Call [Init] once, then [Load]. An empty path searches the default
// locations and falls back to defaults when no file exists; an explicit
// path must exist:
//
//	config.Init()
//	cfg, err := config.Load("")
//	if err != nil {
//	    return errors.Wrap(err, "loading config")
//	}
//
// Loaded configurations are validated; see [Validate].
package config
