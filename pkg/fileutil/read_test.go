package fileutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFileWithLimit(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		size    int64
		wantErr bool
	}{
		{"small file", 100, false},
		{"exact limit", MaxFileSize, false},
		{"too large", MaxFileSize + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			f, err := os.Create(path)
			require.NoError(t, err)
			require.NoError(t, f.Truncate(tt.size))
			f.Close()

			data, err := ReadFileWithLimit(path)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrFileTooLarge), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, data, int(tt.size))
		})
	}
}

func TestReadFileWithLimit_Missing(t *testing.T) {
	_, err := ReadFileWithLimit(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestModTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")

	_, exists, err := ModTime(path)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
	stamp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, stamp, stamp))

	mtime, exists, err := ModTime(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.True(t, mtime.Equal(stamp))
}
