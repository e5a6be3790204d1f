package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thoreinstein/aigrid/internal/document"
	"github.com/thoreinstein/aigrid/internal/store"
)

const testWindows = `windows:
  - handle: 1
    title: "Terminal"
  - handle: 2
    title: "Assistant Chat B - Browser"
  - handle: 3
    title: "ai-service-a.com - Browser"
  - handle: 4
    title: "Chat Helper C"
`

// setupCommandTest points the commands at a fresh configuration
// directory and restores the globals afterwards.
func setupCommandTest(t *testing.T) string {
	t.Helper()
	viper.Reset()

	dir := t.TempDir()
	origDir, origCfg, origErr := configDir, toolConfig, configLoadErr
	configDir = dir
	toolConfig = nil
	configLoadErr = nil

	t.Cleanup(func() {
		configDir, toolConfig, configLoadErr = origDir, origCfg, origErr
		viper.Reset()
	})
	return dir
}

// newTestCmd returns a command whose output is captured in the buffer.
func newTestCmd(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&buf)
	c.SetErr(&buf)
	c.SetContext(t.Context())
	return c, &buf
}

// writeDemoConfig saves the sample configuration into dir.
func writeDemoConfig(t *testing.T, dir string) {
	t.Helper()
	if _, err := store.New(dir).Save(document.Demo()); err != nil {
		t.Fatalf("saving demo config: %v", err)
	}
}

func writeWindows(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "windows.yaml")
	if err := os.WriteFile(path, []byte(testWindows), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
