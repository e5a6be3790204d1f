// Package editor launches the user's preferred text editor.
package editor

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/aigrid/internal/errors"
)

// Editor runs an editor command attached to the given streams.
type Editor struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New returns an Editor attached to the process streams.
func New() *Editor {
	return &Editor{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Open edits path and waits for the editor to exit.
func Open(path string) error {
	return New().Open(path)
}

// Open edits path and waits for the editor to exit. The editor command
// may carry arguments, as in EDITOR="code --wait".
func (e *Editor) Open(path string) error {
	argv := strings.Fields(detectEditor())
	if len(argv) == 0 {
		return errors.New("no editor configured")
	}

	fmt.Fprintf(e.Stdout, "Location: %s\n", path)

	cmd := exec.Command(argv[0], append(argv[1:], path)...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", argv[0])
	}
	return nil
}

// detectEditor returns the editor command.
// Fallback chain: $AIGRID_EDITOR → $EDITOR → $VISUAL → nano → vi
func detectEditor() string {
	for _, env := range []string{"AIGRID_EDITOR", "EDITOR", "VISUAL"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}

	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}
	return "vi"
}
