// Package registry holds the ranked list of services that windows are
// classified against.
package registry

import (
	"cmp"
	"slices"
	"strings"

	"github.com/thoreinstein/aigrid/internal/document"
)

// Descriptor identifies one service by the keywords that appear in its
// window titles. Lower Priority ranks first.
type Descriptor struct {
	ID       string
	Keywords []string
	Priority int
}

// Matches reports whether title contains any of the descriptor's
// keywords, ignoring case. A descriptor without keywords never matches.
func (d Descriptor) Matches(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range d.Keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Registry is an immutable, priority-ordered set of descriptors.
type Registry struct {
	descriptors []Descriptor
}

// New builds a registry ordered by ascending priority. Descriptors with
// equal priority keep their relative order.
func New(descriptors []Descriptor) *Registry {
	ds := make([]Descriptor, len(descriptors))
	for i, d := range descriptors {
		d.Keywords = slices.Clone(d.Keywords)
		ds[i] = d
	}
	slices.SortStableFunc(ds, func(a, b Descriptor) int {
		return cmp.Compare(a.Priority, b.Priority)
	})
	return &Registry{descriptors: ds}
}

// FromDocument projects the enabled ai_apps entries of doc into a
// registry, keyed by app name. When doc has no usable entries the
// built-in table is returned.
func FromDocument(doc document.Document) *Registry {
	apps := doc.Apps()
	if len(apps) == 0 {
		return Default()
	}

	ds := make([]Descriptor, 0, len(apps))
	for _, app := range apps {
		if !app.Enabled {
			continue
		}
		ds = append(ds, Descriptor{
			ID:       app.Name,
			Keywords: app.Keywords,
			Priority: app.Priority,
		})
	}
	return New(ds)
}

// Default returns the built-in detection table.
func Default() *Registry {
	return New([]Descriptor{
		{ID: "ai_service_a", Keywords: []string{"ai-service-a.com", "chat assistant a"}, Priority: 1},
		{ID: "ai_service_b", Keywords: []string{"ai-service-b.ai", "assistant chat b"}, Priority: 2},
		{ID: "ai_service_c", Keywords: []string{"ai-service-c.com", "chat helper c"}, Priority: 3},
	})
}

// Descriptors returns a copy of the ranked descriptors.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, len(r.descriptors))
	for i, d := range r.descriptors {
		d.Keywords = slices.Clone(d.Keywords)
		out[i] = d
	}
	return out
}

// Len returns the number of descriptors.
func (r *Registry) Len() int {
	return len(r.descriptors)
}

// Lookup finds a descriptor by ID.
func (r *Registry) Lookup(id string) (Descriptor, bool) {
	for _, d := range r.descriptors {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Match returns the first descriptor, in rank order, with a keyword
// contained in title.
func (r *Registry) Match(title string) (Descriptor, bool) {
	for _, d := range r.descriptors {
		if d.Matches(title) {
			return d, true
		}
	}
	return Descriptor{}, false
}
