package document

// App is the typed view of one ai_apps entry.
type App struct {
	Name     string
	Enabled  bool
	Priority int
	Keywords []string
}

// Apps projects the ai_apps list into typed entries, in list order.
// Entries that are not objects or lack a string name are skipped; schema
// validation reports them separately.
func (d Document) Apps() []App {
	list, ok := d[KeyAIApps].([]any)
	if !ok {
		return nil
	}

	apps := make([]App, 0, len(list))
	for _, item := range list {
		m, ok := asMap(item)
		if !ok {
			continue
		}
		name, ok := m["name"].(string)
		if !ok {
			continue
		}

		app := App{Name: name}
		app.Enabled, _ = m["enabled"].(bool)
		if p, ok := AsInt(m["priority"]); ok {
			app.Priority = int(p)
		}
		if kws, ok := m["keywords"].([]any); ok {
			for _, kw := range kws {
				if s, ok := kw.(string); ok && s != "" {
					app.Keywords = append(app.Keywords, s)
				}
			}
		}
		apps = append(apps, app)
	}
	return apps
}

// String returns the string at path, or "" when absent or not a string.
func (d Document) String(path string) string {
	v, _ := d.Lookup(path)
	s, _ := v.(string)
	return s
}

// Int returns the integer at path and whether it was present as an integer.
func (d Document) Int(path string) (int, bool) {
	v, ok := d.Lookup(path)
	if !ok {
		return 0, false
	}
	i, ok := AsInt(v)
	return int(i), ok
}

// Demo returns the sample configuration written by "aigrid init": a 4x2
// grid and three services.
func Demo() Document {
	return Document{
		"app": map[string]any{
			"name":    "Multi-AI Chat Manager",
			"version": "0.0.1",
		},
		"window": map[string]any{
			"layout_mode": "grid",
			"grid": map[string]any{
				"cols": 4,
				"rows": 2,
			},
			"display": map[string]any{
				"preferred_display": "auto",
			},
		},
		"gui": map[string]any{
			"theme":                   "dark",
			"auto_arrange_on_startup": true,
		},
		KeyAIApps: []any{
			map[string]any{
				"name":     "AI Service A",
				"enabled":  true,
				"priority": 1,
				"keywords": []any{"ai-service-a.com", "chat assistant a"},
			},
			map[string]any{
				"name":     "AI Service B",
				"enabled":  true,
				"priority": 2,
				"keywords": []any{"ai-service-b.ai", "assistant chat b"},
			},
			map[string]any{
				"name":     "AI Service C",
				"enabled":  true,
				"priority": 3,
				"keywords": []any{"ai-service-c.com", "chat helper c"},
			},
		},
	}.Clone()
}
