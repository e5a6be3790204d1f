package validator

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporter_Text(t *testing.T) {
	result := &Result{}
	result.AddError("window.grid.cols", "Expected integer, got string")
	result.AddWarning("gui", "unknown key")

	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, FormatText).Report(result))

	output := buf.String()
	assert.Contains(t, output, "1 error(s)")
	assert.Contains(t, output, "1 warning(s)")
	assert.Contains(t, output, "window.grid.cols")
	assert.Contains(t, output, "Expected integer, got string")
}

func TestReporter_TextValid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, FormatText).Report(&Result{}))
	assert.Contains(t, buf.String(), "Configuration is valid")
}

func TestReporter_TextValidWithWarnings(t *testing.T) {
	result := &Result{}
	result.AddWarning("gui.theme", "unknown theme")

	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, FormatText).Report(result))
	assert.Contains(t, buf.String(), "Configuration is valid")
	assert.Contains(t, buf.String(), "Warnings:")
}

func TestReporter_JSON(t *testing.T) {
	result := &Result{}
	result.AddError("ai_apps[0].priority", "Priority must be a positive integer")

	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, FormatJSON).Report(result))

	var decoded struct {
		Valid  bool    `json:"valid"`
		Issues []Issue `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.False(t, decoded.Valid)
	require.Len(t, decoded.Issues, 1)
	assert.Equal(t, "ai_apps[0].priority", decoded.Issues[0].Field)
	assert.Equal(t, SeverityError, decoded.Issues[0].Severity)
}

func TestReporter_JSONNilResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, FormatJSON).Report(nil))
	assert.JSONEq(t, `{"valid":true,"issues":[]}`, buf.String())
}
