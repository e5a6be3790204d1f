// Package paths resolves the directories aigrid reads and writes.
//
// It wraps github.com/adrg/xdg so that the locations follow the XDG Base
// Directory conventions on Linux and the platform equivalents elsewhere:
//
//	| Location       | Linux                          |
//	|----------------|--------------------------------|
//	| ConfigDir      | ~/.config/aigrid/              |
//	| ToolConfigFile | ~/.config/aigrid/config.yaml   |
//	| StateDir       | ~/.local/state/aigrid/         |
//
// The configuration pair (settings.json and ai_apps.json) lives in
// ConfigDir unless overridden with --config-dir or the config_dir key.
package paths
