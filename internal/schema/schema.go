// Package schema validates configuration documents against the fixed
// aigrid rule set.
//
// Rules are plain records grouped by kind and evaluated in a fixed order:
// required sections, required fields, field types, enumerated values and
// finally the ai_apps list. The order only affects the order of the
// returned issues, never the verdict.
package schema

import (
	"fmt"
	"strings"

	"github.com/thoreinstein/aigrid/internal/document"
	"github.com/thoreinstein/aigrid/internal/validator"
)

// Kind is the runtime type a field is declared with.
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindBoolean
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// sectionRule declares a required top-level section and the fields it must contain.
type sectionRule struct {
	section string
	fields  []string
}

// typeRule declares the runtime type of a dotted field path.
type typeRule struct {
	path string
	kind Kind
}

// enumRule restricts a dotted field path to a set of values.
type enumRule struct {
	path   string
	values []string
}

// Schema is a closed set of typed rules.
type Schema struct {
	sections  []sectionRule
	types     []typeRule
	enums     []enumRule
	appFields []string
}

// LayoutModes are the accepted values of window.layout_mode.
var LayoutModes = []string{"grid", "side_by_side"}

// Default is the aigrid configuration schema.
var Default = &Schema{
	sections: []sectionRule{
		{section: "app", fields: []string{"name", "version"}},
		{section: "window", fields: []string{"layout_mode", "grid", "grid.cols", "grid.rows"}},
		{section: document.KeyAIApps},
	},
	types: []typeRule{
		{path: "app.name", kind: KindString},
		{path: "app.version", kind: KindString},
		{path: "window.layout_mode", kind: KindString},
		{path: "window.grid.cols", kind: KindInteger},
		{path: "window.grid.rows", kind: KindInteger},
	},
	enums: []enumRule{
		{path: "window.layout_mode", values: LayoutModes},
	},
	appFields: []string{"name", "enabled", "priority"},
}

// Validate checks doc against the Default schema.
func Validate(doc document.Document) (bool, []validator.Issue) {
	return Default.Validate(doc)
}

// Validate checks doc against the schema. The document is valid iff no
// error-severity issue is returned. Validate never mutates doc.
func (s *Schema) Validate(doc document.Document) (bool, []validator.Issue) {
	var r validator.Result
	doc = doc.Clone()

	for _, rule := range s.sections {
		checkSection(doc, rule, &r)
	}
	for _, rule := range s.types {
		checkType(doc, rule, &r)
	}
	for _, rule := range s.enums {
		checkEnum(doc, rule, &r)
	}
	if apps, ok := doc[document.KeyAIApps]; ok {
		s.checkApps(apps, &r)
	}

	return !r.HasErrors(), r.Issues
}

func checkSection(doc document.Document, rule sectionRule, r *validator.Result) {
	if _, ok := doc[rule.section]; !ok {
		r.AddError(rule.section, fmt.Sprintf("Required section '%s' is missing", rule.section))
		return
	}

	for _, field := range rule.fields {
		// A nested requirement is only checked once its parent exists, so a
		// missing "grid" is reported once rather than three times.
		if i := strings.LastIndexByte(field, '.'); i >= 0 && !doc.Has(rule.section+"."+field[:i]) {
			continue
		}
		path := rule.section + "." + field
		if !doc.Has(path) {
			r.AddError(path, fmt.Sprintf("Required field '%s' is missing", field))
		}
	}
}

func checkType(doc document.Document, rule typeRule, r *validator.Result) {
	value, ok := doc.Lookup(rule.path)
	if !ok || value == nil {
		return
	}
	if !isKind(value, rule.kind) {
		r.AddError(rule.path, fmt.Sprintf("Expected %s, got %s", rule.kind, document.TypeName(value)))
	}
}

func checkEnum(doc document.Document, rule enumRule, r *validator.Result) {
	value, ok := doc.Lookup(rule.path)
	if !ok || value == nil {
		return
	}
	if s, isString := value.(string); isString {
		for _, allowed := range rule.values {
			if s == allowed {
				return
			}
		}
	}
	r.AddError(rule.path, fmt.Sprintf("Invalid value '%v'. Valid options: %s", value, strings.Join(rule.values, ", ")))
}

func (s *Schema) checkApps(apps any, r *validator.Result) {
	list, ok := apps.([]any)
	if !ok {
		r.AddError(document.KeyAIApps, "AI apps must be a list")
		return
	}

	for i, item := range list {
		prefix := fmt.Sprintf("%s[%d]", document.KeyAIApps, i)
		entry, ok := item.(map[string]any)
		if !ok {
			r.AddError(prefix, "AI app entry must be an object")
			continue
		}

		for _, field := range s.appFields {
			if _, ok := entry[field]; !ok {
				r.AddError(prefix+"."+field, fmt.Sprintf("Required field '%s' is missing", field))
			}
		}

		if p, ok := entry["priority"]; ok {
			if n, isInt := document.AsInt(p); !isInt || n < 1 {
				r.AddError(prefix+".priority", "Priority must be a positive integer")
			}
		}
	}
}

func isKind(v any, k Kind) bool {
	switch k {
	case KindString:
		_, ok := v.(string)
		return ok
	case KindInteger:
		_, ok := document.AsInt(v)
		return ok
	case KindBoolean:
		_, ok := v.(bool)
		return ok
	}
	return false
}
