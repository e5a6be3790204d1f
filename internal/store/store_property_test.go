package store

import (
	"fmt"
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/thoreinstein/aigrid/internal/document"
	"github.com/thoreinstein/aigrid/internal/logging"
)

// genValidDocument draws a configuration that passes the default schema.
func genValidDocument() *rapid.Generator[document.Document] {
	return rapid.Custom(func(t *rapid.T) document.Document {
		n := rapid.IntRange(0, 5).Draw(t, "apps")
		apps := make([]any, 0, n)
		for i := range n {
			apps = append(apps, map[string]any{
				"name":     fmt.Sprintf("svc-%d", i),
				"enabled":  rapid.Bool().Draw(t, "enabled"),
				"priority": rapid.IntRange(1, 100).Draw(t, "priority"),
				"keywords": []any{rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "keyword")},
			})
		}
		return document.Document{
			"app": map[string]any{
				"name":    rapid.StringMatching(`[A-Za-z ]{1,20}`).Draw(t, "name"),
				"version": rapid.StringMatching(`[0-9]\.[0-9]`).Draw(t, "version"),
			},
			"window": map[string]any{
				"layout_mode": rapid.SampledFrom([]string{"grid", "side_by_side"}).Draw(t, "mode"),
				"grid": map[string]any{
					"cols": rapid.IntRange(0, 8).Draw(t, "cols"),
					"rows": rapid.IntRange(0, 8).Draw(t, "rows"),
				},
			},
			"gui": map[string]any{
				"scale": math.Trunc(rapid.Float64Range(-1e22, 1e22).Draw(t, "scale")),
				"ratio": rapid.Float64Range(-1e3, 1e3).Draw(t, "ratio"),
			},
			document.KeyAIApps: apps,
		}
	})
}

// TestProperty_SaveLoadRoundTrip verifies that any valid document saved
// by one store is loaded unchanged by another.
func TestProperty_SaveLoadRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		doc := genValidDocument().Draw(rt, "doc")
		dir := t.TempDir()

		if _, err := New(dir, WithLogger(logging.NewDiscard())).Save(doc); err != nil {
			rt.Fatalf("save: %v", err)
		}
		loaded, issues, err := New(dir, WithLogger(logging.NewDiscard())).Load()
		if err != nil {
			rt.Fatalf("load: %v (%v)", err, issues)
		}
		if !document.Equal(doc, loaded) {
			rt.Fatalf("round trip mismatch:\nsaved  %v\nloaded %v", doc, loaded)
		}
	})
}
