package config

import (
	"fmt"
	"strings"

	"github.com/thoreinstein/aigrid/internal/errors"
)

// Validation errors for configuration fields.
var (
	// ErrUnsupportedVersion indicates a version other than CurrentVersion.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidDisplay indicates a non-positive display dimension.
	ErrInvalidDisplay = errors.New("display dimensions must be positive")

	// ErrInvalidInterval indicates a non-positive watch interval.
	ErrInvalidInterval = errors.New("watch interval must be positive")

	// ErrInvalidWatchMode indicates an unknown watch mode.
	ErrInvalidWatchMode = errors.New("invalid watch mode")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")
)

// WatchModes are the accepted values of watch.mode.
var WatchModes = []string{"poll", "notify"}

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version != CurrentVersion {
		errs = append(errs, &FieldError{Field: "version", Value: fmt.Sprint(cfg.Version), Err: ErrUnsupportedVersion})
	}

	if cfg.Display.Width <= 0 {
		errs = append(errs, &FieldError{Field: "display.width", Value: fmt.Sprint(cfg.Display.Width), Err: ErrInvalidDisplay})
	}
	if cfg.Display.Height <= 0 {
		errs = append(errs, &FieldError{Field: "display.height", Value: fmt.Sprint(cfg.Display.Height), Err: ErrInvalidDisplay})
	}

	if cfg.Watch.Interval <= 0 {
		errs = append(errs, &FieldError{Field: "watch.interval", Value: cfg.Watch.Interval.String(), Err: ErrInvalidInterval})
	}

	validMode := false
	for _, m := range WatchModes {
		if cfg.Watch.Mode == m {
			validMode = true
			break
		}
	}
	if !validMode {
		errs = append(errs, &FieldError{Field: "watch.mode", Value: cfg.Watch.Mode, Err: ErrInvalidWatchMode})
	}

	if cfg.ConfigDir != "" {
		if err := validatePath(cfg.ConfigDir); err != nil {
			errs = append(errs, &FieldError{Field: "config_dir", Value: cfg.ConfigDir, Err: err})
		}
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists.
func validatePath(path string) error {
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}
	if strings.TrimSpace(path) == "" {
		return ErrInvalidPath
	}
	return nil
}

// FieldError describes an invalid value of one configuration key.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Value
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
