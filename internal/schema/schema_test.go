package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/aigrid/internal/document"
	"github.com/thoreinstein/aigrid/internal/validator"
)

func validDoc() document.Document {
	return document.Demo()
}

func fields(issues []validator.Issue) []string {
	out := make([]string, len(issues))
	for i, is := range issues {
		out[i] = is.Field
	}
	return out
}

func TestValidate_Valid(t *testing.T) {
	ok, issues := Validate(validDoc())
	assert.True(t, ok)
	assert.Empty(t, issues)
}

func TestValidate_EmptyAppListIsValid(t *testing.T) {
	doc := validDoc()
	doc[document.KeyAIApps] = []any{}
	ok, issues := Validate(doc)
	assert.True(t, ok)
	assert.Empty(t, issues)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d document.Document)
		want   []string
	}{
		{
			name:   "missing app section",
			mutate: func(d document.Document) { delete(d, "app") },
			want:   []string{"app"},
		},
		{
			name:   "missing every section",
			mutate: func(d document.Document) { delete(d, "app"); delete(d, "window"); delete(d, "ai_apps") },
			want:   []string{"app", "window", "ai_apps"},
		},
		{
			name:   "missing app fields",
			mutate: func(d document.Document) { d["app"] = map[string]any{} },
			want:   []string{"app.name", "app.version"},
		},
		{
			name:   "missing grid reported once",
			mutate: func(d document.Document) { delete(d["window"].(map[string]any), "grid") },
			want:   []string{"window.grid"},
		},
		{
			name:   "missing grid rows",
			mutate: func(d document.Document) { delete(d["window"].(map[string]any)["grid"].(map[string]any), "rows") },
			want:   []string{"window.grid.rows"},
		},
		{
			name:   "string cols",
			mutate: func(d document.Document) { d["window"].(map[string]any)["grid"].(map[string]any)["cols"] = "not_a_number" },
			want:   []string{"window.grid.cols"},
		},
		{
			name:   "float rows",
			mutate: func(d document.Document) { d["window"].(map[string]any)["grid"].(map[string]any)["rows"] = 2.5 },
			want:   []string{"window.grid.rows"},
		},
		{
			name:   "numeric app name",
			mutate: func(d document.Document) { d["app"].(map[string]any)["name"] = 7 },
			want:   []string{"app.name"},
		},
		{
			name:   "invalid layout mode",
			mutate: func(d document.Document) { d["window"].(map[string]any)["layout_mode"] = "invalid_mode" },
			want:   []string{"window.layout_mode"},
		},
		{
			name:   "non-string layout mode fails type and enum",
			mutate: func(d document.Document) { d["window"].(map[string]any)["layout_mode"] = true },
			want:   []string{"window.layout_mode", "window.layout_mode"},
		},
		{
			name:   "ai_apps not a list",
			mutate: func(d document.Document) { d["ai_apps"] = map[string]any{"name": "A"} },
			want:   []string{"ai_apps"},
		},
		{
			name: "ai_apps entry missing fields",
			mutate: func(d document.Document) {
				d["ai_apps"] = []any{map[string]any{"name": "A", "enabled": true, "priority": 1}, map[string]any{"keywords": []any{}}}
			},
			want: []string{"ai_apps[1].name", "ai_apps[1].enabled", "ai_apps[1].priority"},
		},
		{
			name:   "ai_apps entry not an object",
			mutate: func(d document.Document) { d["ai_apps"] = []any{"A"} },
			want:   []string{"ai_apps[0]"},
		},
		{
			name: "ordering across rule kinds",
			mutate: func(d document.Document) {
				delete(d, "app")
				d["window"].(map[string]any)["layout_mode"] = "stacked"
				d["ai_apps"] = []any{map[string]any{"name": "A", "enabled": true, "priority": 0}}
			},
			want: []string{"app", "window.layout_mode", "ai_apps[0].priority"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDoc()
			tt.mutate(doc)

			ok, issues := Validate(doc)
			assert.False(t, ok)
			assert.Equal(t, tt.want, fields(issues))
			for _, is := range issues {
				assert.Equal(t, validator.SeverityError, is.Severity)
			}
		})
	}
}

func TestValidate_NullValuesSkipTypeChecks(t *testing.T) {
	doc := validDoc()
	doc["app"].(map[string]any)["version"] = nil

	ok, issues := Validate(doc)
	assert.True(t, ok, "a present null satisfies the required-field check and skips the type check")
	assert.Empty(t, issues)
}

func TestValidate_Priority(t *testing.T) {
	tests := []struct {
		name     string
		priority any
		valid    bool
	}{
		{"one", 1, true},
		{"large", int64(1 << 40), true},
		{"zero", 0, false},
		{"negative", -3, false},
		{"float", 1.5, false},
		{"integral float", 2.0, false},
		{"string", "1", false},
		{"bool", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDoc()
			doc["ai_apps"] = []any{map[string]any{"name": "A", "enabled": true, "priority": tt.priority}}

			ok, issues := Validate(doc)
			assert.Equal(t, tt.valid, ok)
			if !tt.valid {
				require.Len(t, issues, 1)
				assert.Equal(t, "ai_apps[0].priority", issues[0].Field)
			}
		})
	}
}

func TestValidate_DoesNotMutate(t *testing.T) {
	doc := validDoc()
	before := doc.Clone()
	Validate(doc)
	assert.True(t, document.Equal(before, doc))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "string", KindString.String())
	assert.Equal(t, "integer", KindInteger.String())
	assert.Equal(t, "boolean", KindBoolean.String())
	assert.Equal(t, "unknown", Kind(9).String())
}
