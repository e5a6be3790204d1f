// Package document holds the in-memory configuration tree.
//
// The configuration is persisted as two JSON files, settings.json and
// ai_apps.json, but handled as a single [Document]: the ai_apps list is
// merged into the settings tree under the "ai_apps" key when loading and
// split back out when saving.
package document

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// KeyAIApps is the key under which the service list lives, both in the
// merged document and in the ai_apps.json file.
const KeyAIApps = "ai_apps"

// Document is a configuration tree of string-keyed maps, slices and
// scalars. Numbers are held as int64 when written without a fraction or
// exponent and as float64 otherwise.
type Document map[string]any

// Decode parses a JSON object into a Document.
func Decode(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decoding JSON")
	}
	if dec.More() {
		return nil, errors.New("decoding JSON: unexpected data after top-level value")
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.Newf("decoding JSON: top-level value must be an object, got %s", TypeName(raw))
	}
	return Document(normalize(obj).(map[string]any)), nil
}

// Encode renders the document as 2-space indented JSON with a trailing newline.
func (d Document) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(encodable(map[string]any(d)), "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding JSON")
	}
	return append(data, '\n'), nil
}

// Clone returns a deep copy of the document with numbers normalized.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return Document(normalize(map[string]any(d)).(map[string]any))
}

// Lookup returns the value at a dotted path such as "window.grid.cols".
// The second result is false when any segment is missing or traverses a
// non-object value.
func (d Document) Lookup(path string) (any, bool) {
	var cur any = map[string]any(d)
	for key := range strings.SplitSeq(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Has reports whether a value exists at the dotted path.
func (d Document) Has(path string) bool {
	_, ok := d.Lookup(path)
	return ok
}

// Merge returns a copy of settings with apps stored under KeyAIApps.
func Merge(settings Document, apps any) Document {
	merged := settings.Clone()
	if merged == nil {
		merged = Document{}
	}
	merged[KeyAIApps] = normalize(apps)
	return merged
}

// Split separates a merged document into the settings tree (without
// KeyAIApps) and the ai_apps document {"ai_apps": [...]}. A document
// without a service list yields an empty list.
func (d Document) Split() (settings, apps Document) {
	settings = make(Document, len(d))
	for k, v := range d {
		if k == KeyAIApps {
			continue
		}
		settings[k] = normalize(v)
	}

	list, ok := d[KeyAIApps]
	if !ok || list == nil {
		list = []any{}
	}
	return settings, Document{KeyAIApps: normalize(list)}
}

// Equal reports whether two documents hold the same tree, ignoring key
// order and the concrete Go type used for integers.
func Equal(a, b Document) bool {
	return reflect.DeepEqual(normalize(map[string]any(a)), normalize(map[string]any(b)))
}

// TypeName returns a short JSON-flavoured name for a decoded value.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]any, Document:
		return "object"
	case []any:
		return "array"
	}
	if _, ok := AsInt(v); ok {
		return "integer"
	}
	if _, ok := asFloat(v); ok {
		return "number"
	}
	return reflect.TypeOf(v).String()
}

// AsInt returns v as an int64 when it holds an integer. Floats, even
// integral ones, and booleans are not integers.
func AsInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case json.Number:
		if strings.ContainsAny(n.String(), ".eE") {
			return 0, false
		}
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Document:
		return m, true
	}
	return nil, false
}

// normalize deep-copies v, turning Documents into plain maps, typed slices
// into []any and every integer into int64.
func normalize(v any) any {
	if m, ok := asMap(v); ok {
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[k] = normalize(val)
		}
		return out
	}

	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = val
		}
		return out
	case json.Number:
		if i, ok := AsInt(t); ok {
			return i
		}
		if f, err := strconv.ParseFloat(t.String(), 64); err == nil {
			return f
		}
		return t.String()
	}

	if i, ok := AsInt(v); ok {
		return i
	}
	if f, ok := v.(float32); ok {
		return float64(f)
	}
	return v
}

// encodable prepares a normalized tree for JSON output. Integral floats are
// written with a trailing ".0" so they decode back as floats.
func encodable(v any) any {
	switch t := normalize(v).(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = encodable(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = encodable(val)
		}
		return t
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return json.Number(strconv.FormatFloat(t, 'f', -1, 64) + ".0")
		}
		return t
	default:
		return t
	}
}
