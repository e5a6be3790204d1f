package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWriteFile(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		perm os.FileMode
	}{
		{"json document", []byte("{\n  \"ai_apps\": []\n}\n"), 0644},
		{"empty data", []byte{}, 0644},
		{"private file", []byte("{}"), 0600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.json")

			require.NoError(t, AtomicWriteFile(path, tt.data, tt.perm))

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, string(tt.data), string(got))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, tt.perm, info.Mode().Perm())
		})
	}
}

func TestAtomicWriteFile_OverwriteExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ai_apps.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0600))

	require.NoError(t, AtomicWriteFile(path, []byte("new"), 0600))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestAtomicWriteFile_NoTempFileLeft(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, AtomicWriteFile(filepath.Join(dir, "a.json"), []byte("{}"), 0644))

	assert.Error(t, AtomicWriteFile(filepath.Join(dir, "missing", "b.json"), []byte("{}"), 0644))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.json", entries[0].Name())
}

func TestAtomicWriteFile_TargetIsDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "settings.json")
	require.NoError(t, os.Mkdir(target, 0o755))

	assert.Error(t, AtomicWriteFile(target, []byte("{}"), 0644))
}
