package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/thoreinstein/aigrid/internal/errors"
	"github.com/thoreinstein/aigrid/internal/paths"
)

func TestInit(t *testing.T) {
	Init()

	if viper.GetInt("version") != 1 {
		t.Errorf("expected version default 1, got %d", viper.GetInt("version"))
	}
	if viper.GetInt("display.width") != DefaultDisplayWidth {
		t.Errorf("expected display.width default %d, got %d", DefaultDisplayWidth, viper.GetInt("display.width"))
	}
	if viper.GetString("watch.mode") != "poll" {
		t.Errorf("expected watch.mode default poll, got %q", viper.GetString("watch.mode"))
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv(EnvConfigDir, t.TempDir())
	t.Chdir(t.TempDir())
	Init()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	want := Default()
	if cfg.Version != want.Version || cfg.Display != want.Display || cfg.Watch != want.Watch {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := []byte("display:\n  width: 2560\n  height: 1440\nwatch:\n  interval: 500ms\n  mode: notify\n")
	if err := os.WriteFile(configPath, content, 0o600); err != nil {
		t.Fatal(err)
	}

	Init()

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Display.Width != 2560 || cfg.Display.Height != 1440 {
		t.Errorf("display = %+v, want 2560x1440", cfg.Display)
	}
	if cfg.Watch.Interval != 500*time.Millisecond {
		t.Errorf("watch.interval = %v, want 500ms", cfg.Watch.Interval)
	}
	if cfg.Watch.Mode != "notify" {
		t.Errorf("watch.mode = %q, want notify", cfg.Watch.Mode)
	}
	if FileUsed() != configPath {
		t.Errorf("FileUsed() = %q, want %q", FileUsed(), configPath)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv(EnvConfigDir, t.TempDir())
	t.Setenv("AIGRID_DISPLAY_WIDTH", "3840")
	t.Chdir(t.TempDir())
	Init()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Display.Width != 3840 {
		t.Errorf("display.width = %d, want 3840 from environment", cfg.Display.Width)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	Init()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Load() with non-existent explicit path should error")
	}
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "invalid version",
			content: "version: 2\n",
			wantErr: "version: unsupported config version: 2",
		},
		{
			name:    "invalid width",
			content: "display:\n  width: 0\n",
			wantErr: "display.width: display dimensions must be positive: 0",
		},
		{
			name:    "invalid mode",
			content: "watch:\n  mode: inotify\n",
			wantErr: "watch.mode: invalid watch mode: inotify",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init()

			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}

			_, err := Load(configPath)
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if err.Error() != "validating config: "+tt.wantErr {
				t.Errorf("Load() error = %v, want %v", err, "validating config: "+tt.wantErr)
			}
			if !errors.Is(err, errors.ErrInvalidConfig) {
				t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestInit_ClearsPreviousState(t *testing.T) {
	dir := t.TempDir()
	fileA := filepath.Join(dir, "config_a.yaml")
	if err := os.WriteFile(fileA, []byte("display:\n  width: 1000\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	Init()
	if _, err := Load(fileA); err != nil {
		t.Fatalf("first Load failed: %v", err)
	}

	dirB := t.TempDir()
	t.Setenv(EnvConfigDir, dirB)
	fileB := filepath.Join(dirB, "config.yaml")
	if err := os.WriteFile(fileB, []byte("display:\n  width: 2000\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	Init()
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if cfg.Display.Width != 2000 {
		t.Errorf("expected config from %s, got width %d (file %s)", fileB, cfg.Display.Width, FileUsed())
	}
}

func TestStoreDir(t *testing.T) {
	t.Setenv(EnvConfigDir, "")

	cfg := Default()
	got, err := cfg.StoreDir()
	if err != nil {
		t.Fatal(err)
	}
	if got != paths.ConfigDir() {
		t.Errorf("StoreDir() = %q, want %q", got, paths.ConfigDir())
	}

	cfg.ConfigDir = "/srv/aigrid/"
	got, _ = cfg.StoreDir()
	if got != "/srv/aigrid" {
		t.Errorf("StoreDir() = %q, want /srv/aigrid", got)
	}

	cfg.ConfigDir = ""
	t.Setenv(EnvConfigDir, "/from/env")
	got, _ = cfg.StoreDir()
	if got != "/from/env" {
		t.Errorf("StoreDir() = %q, want /from/env", got)
	}
}

func TestValidate(t *testing.T) {
	if errs := Validate(Default()); len(errs) != 0 {
		t.Errorf("Validate(Default()) = %v, want none", errs)
	}

	if errs := Validate(nil); len(errs) != 1 {
		t.Errorf("Validate(nil) = %v, want one error", errs)
	}

	bad := &Config{Version: 0, ConfigDir: "a\x00b"}
	errs := Validate(bad)
	wantIs := []error{ErrUnsupportedVersion, ErrInvalidDisplay, ErrInvalidDisplay, ErrInvalidInterval, ErrInvalidWatchMode, ErrInvalidPath}
	if len(errs) != len(wantIs) {
		t.Fatalf("Validate() returned %d errors, want %d: %v", len(errs), len(wantIs), errs)
	}
	for i, want := range wantIs {
		if !errors.Is(errs[i], want) {
			t.Errorf("errs[%d] = %v, want %v", i, errs[i], want)
		}
		var fe *FieldError
		if !errors.As(errs[i], &fe) {
			t.Errorf("errs[%d] is not a *FieldError", i)
		}
	}
}
