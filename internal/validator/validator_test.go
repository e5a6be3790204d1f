package validator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "unknown", Severity(42).String())
}

func TestSeverity_TextRoundTrip(t *testing.T) {
	data, err := json.Marshal(Issue{Field: "app.name", Message: "missing", Severity: SeverityWarning})
	require.NoError(t, err)
	assert.JSONEq(t, `{"field":"app.name","message":"missing","severity":"warning"}`, string(data))

	var got Issue
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, SeverityWarning, got.Severity)

	var s Severity
	assert.Error(t, s.UnmarshalText([]byte("fatal")))
}

func TestIssue_Error(t *testing.T) {
	tests := []struct {
		name string
		i    Issue
		want string
	}{
		{"with field", Issue{Field: "window.layout_mode", Message: "Invalid value", Severity: SeverityError}, "error: window.layout_mode: Invalid value"},
		{"without field", Issue{Message: "deprecated layout", Severity: SeverityWarning}, "warning: deprecated layout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.i.Error())
		})
	}
}

func TestResult_Helpers(t *testing.T) {
	var r Result
	assert.False(t, r.HasErrors())
	assert.False(t, r.HasWarnings())

	r.AddWarning("gui.theme", "unknown theme")
	assert.False(t, r.HasErrors(), "warnings never make a result invalid")
	assert.True(t, r.HasWarnings())

	r.AddError("app", "Required section 'app' is missing")
	assert.True(t, r.HasErrors())
	assert.Len(t, r.Errors(), 1)
	assert.Len(t, r.Warnings(), 1)
	assert.Equal(t, "gui.theme", r.Issues[0].Field, "issues keep insertion order")
}

func TestResult_NilSafety(t *testing.T) {
	var r *Result
	assert.False(t, r.HasErrors())
	assert.False(t, r.HasWarnings())
	assert.Nil(t, r.Errors())
	assert.Nil(t, r.Warnings())
}

func TestHasErrors(t *testing.T) {
	assert.False(t, HasErrors(nil))
	assert.False(t, HasErrors([]Issue{{Severity: SeverityWarning}}))
	assert.True(t, HasErrors([]Issue{{Severity: SeverityWarning}, {Severity: SeverityError}}))
}
