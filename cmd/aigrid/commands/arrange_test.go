package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/aigrid/internal/layout"
	"github.com/thoreinstein/aigrid/internal/window"
)

func resetArrangeFlags(t *testing.T) {
	t.Helper()
	reset := func() {
		arrangeWindows = ""
		arrangeFormat = formatText
		arrangeWidth = 0
		arrangeHeight = 0
		arrangeMinimizeOthers = false
		restoreWindows = ""
	}
	reset()
	t.Cleanup(reset)
}

func TestArrange_JSON(t *testing.T) {
	dir := setupCommandTest(t)
	resetArrangeFlags(t)
	writeDemoConfig(t, dir)
	arrangeWindows = writeWindows(t)
	arrangeFormat = formatJSON
	arrangeMinimizeOthers = true

	c, buf := newTestCmd(t)
	require.NoError(t, runArrange(c, nil))

	var got arrangeReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "grid", got.Mode)
	assert.Equal(t, layout.Grid{Cols: 4, Rows: 2}, got.Grid)
	assert.Equal(t, layout.Display{Width: 1920, Height: 1080}, got.Display)
	assert.Equal(t, layout.Outcome{Arranged: 3, Failed: 0, Total: 3}, got.Outcome)
	assert.Equal(t, 1, got.Minimized)

	require.Len(t, got.Placements, 3)
	assert.Equal(t, window.Handle(3), got.Placements[0].Handle)
	assert.Equal(t, window.Rect{X: 0, Y: 0, Width: 480, Height: 540}, got.Placements[0].Rect)
	assert.Equal(t, window.Handle(2), got.Placements[1].Handle)
	assert.Equal(t, window.Rect{X: 480, Y: 0, Width: 480, Height: 540}, got.Placements[1].Rect)
	assert.Equal(t, window.Handle(4), got.Placements[2].Handle)
}

func TestArrange_DisplayOverride(t *testing.T) {
	dir := setupCommandTest(t)
	resetArrangeFlags(t)
	writeDemoConfig(t, dir)
	arrangeWindows = writeWindows(t)
	arrangeFormat = formatYAML
	arrangeWidth = 2560
	arrangeHeight = 1440

	c, buf := newTestCmd(t)
	require.NoError(t, runArrange(c, nil))

	var got arrangeReport
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, layout.Display{Width: 2560, Height: 1440}, got.Display)
	require.NotEmpty(t, got.Placements)
	assert.Equal(t, 640, got.Placements[0].Rect.Width)
	assert.Equal(t, 720, got.Placements[0].Rect.Height)
}

func TestArrange_TOML(t *testing.T) {
	dir := setupCommandTest(t)
	resetArrangeFlags(t)
	writeDemoConfig(t, dir)
	arrangeWindows = writeWindows(t)
	arrangeFormat = formatTOML

	c, buf := newTestCmd(t)
	require.NoError(t, runArrange(c, nil))

	var got arrangeReport
	require.NoError(t, toml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 3, got.Outcome.Arranged)
	assert.Len(t, got.Placements, 3)
}

func TestArrange_Text(t *testing.T) {
	dir := setupCommandTest(t)
	resetArrangeFlags(t)
	writeDemoConfig(t, dir)
	arrangeWindows = writeWindows(t)

	c, buf := newTestCmd(t)
	require.NoError(t, runArrange(c, nil))

	out := buf.String()
	assert.Contains(t, out, "Layout: grid 4x2 on 1920x1080")
	assert.Contains(t, out, "0x3 -> cell (0,0) 480x540+0+0")
	assert.Contains(t, out, "Arranged 3 of 3 window(s)")
}

func TestArrange_NoConfiguration(t *testing.T) {
	setupCommandTest(t)
	resetArrangeFlags(t)
	arrangeWindows = writeWindows(t)

	c, _ := newTestCmd(t)
	assert.Error(t, runArrange(c, nil))
}

func TestRestore(t *testing.T) {
	dir := setupCommandTest(t)
	resetArrangeFlags(t)
	writeDemoConfig(t, dir)
	restoreWindows = writeWindows(t)

	c, buf := newTestCmd(t)
	require.NoError(t, runRestore(c, nil))
	assert.Equal(t, "Restored 3 of 3 window(s)\n", buf.String())
}

func TestRender_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, render(&buf, "xml", struct{}{}))
}
