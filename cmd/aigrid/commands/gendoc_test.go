package commands

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFilePrepender(t *testing.T) {
	got := filePrepender("/tmp/docs/aigrid_config_edit.md")
	want := "---\ntitle: \"config edit\"\ndescription: \"Reference for config edit command\"\n---\n"
	if got != want {
		t.Errorf("filePrepender() = %q, want %q", got, want)
	}
}

func TestGenDoc_Markdown(t *testing.T) {
	origDir, origFormat := genDocDir, genDocFormat
	defer func() { genDocDir, genDocFormat = origDir, origFormat }()

	genDocDir = t.TempDir()
	genDocFormat = "markdown"

	c, _ := newTestCmd(t)
	if err := runGenDoc(c, nil); err != nil {
		t.Fatalf("runGenDoc() error = %v", err)
	}
	for _, name := range []string{"aigrid.md", "aigrid_arrange.md", "aigrid_config_edit.md"} {
		if _, err := os.Stat(filepath.Join(genDocDir, name)); err != nil {
			t.Errorf("%s not generated: %v", name, err)
		}
	}
}

func TestGenDoc_RequiresDir(t *testing.T) {
	origDir := genDocDir
	defer func() { genDocDir = origDir }()
	genDocDir = ""

	c, _ := newTestCmd(t)
	if err := runGenDoc(c, nil); err == nil {
		t.Error("expected error without --dir")
	}
}
