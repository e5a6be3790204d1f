package commands

import (
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	c, buf := newTestCmd(t)
	if err := versionCmd.RunE(c, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "aigrid version ") {
		t.Errorf("unexpected output: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "commit:") {
		t.Errorf("output missing commit: %q", buf.String())
	}
}
