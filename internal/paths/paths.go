package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName names the aigrid subdirectories.
const AppName = "aigrid"

// ToolConfigName is the file name of the tool configuration.
const ToolConfigName = "config.yaml"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")
)

// DefaultDirPerm is the permission for newly created directories.
const DefaultDirPerm = 0o755

// EnsureDir creates the directory and any necessary parents.
// If perm is 0, DefaultDirPerm is used. It returns nil if the directory
// already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	if err := os.MkdirAll(path, perm); err != nil {
		return errors.Wrapf(err, "creating directory %s", path)
	}
	return nil
}

// ResolveHome returns the user's home directory.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// StateHome returns the XDG state home directory.
// On Linux: ~/.local/state
func StateHome() string {
	return xdg.StateHome
}

// ConfigDir returns the default aigrid configuration directory.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// ToolConfigFile returns the default path of the tool configuration.
func ToolConfigFile() string {
	return filepath.Join(ConfigDir(), ToolConfigName)
}

// StateDir returns the directory for logs and other state.
func StateDir() string {
	return filepath.Join(StateHome(), AppName)
}

// Expand resolves a leading "~/" against the home directory and cleans
// the result. It rejects paths containing NUL bytes.
func Expand(path string) (string, error) {
	if strings.ContainsRune(path, '\x00') {
		return "", errors.Wrapf(ErrInvalidPath, "%q", path)
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := ResolveHome()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Clean(path), nil
}
