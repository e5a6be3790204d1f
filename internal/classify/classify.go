// Package classify assigns windows to services by title keyword and ranks
// the matches by service priority.
package classify

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/thoreinstein/aigrid/internal/errors"
	"github.com/thoreinstein/aigrid/internal/registry"
	"github.com/thoreinstein/aigrid/internal/window"
)

// UnmatchedPriority is the priority given to windows that match no service.
const UnmatchedPriority = 999

// Classified is a window annotated with the service it belongs to.
type Classified struct {
	window.Descriptor `yaml:",inline"`
	ServiceID string `json:"service_id,omitempty" yaml:"service_id,omitempty"`
	Priority  int    `json:"priority" yaml:"priority"`
	Matched   bool   `json:"matched" yaml:"matched"`
}

// Annotate classifies a single window. The first service in registry
// order with a keyword in the title wins.
func Annotate(w window.Descriptor, reg *registry.Registry) Classified {
	d, ok := reg.Match(w.Title)
	if !ok {
		return Classified{Descriptor: w, Priority: UnmatchedPriority}
	}
	return Classified{
		Descriptor: w,
		ServiceID:  d.ID,
		Priority:   d.Priority,
		Matched:    true,
	}
}

// Classify returns the matched windows ordered by ascending priority.
// Windows with equal priority keep their input order.
func Classify(windows []window.Descriptor, reg *registry.Registry) []Classified {
	out := make([]Classified, 0, len(windows))
	for _, w := range windows {
		if c := Annotate(w, reg); c.Matched {
			out = append(out, c)
		}
	}
	sortByPriority(out)
	return out
}

// All annotates every window, matched or not, in the same order as
// Classify with unmatched windows last.
func All(windows []window.Descriptor, reg *registry.Registry) []Classified {
	out := make([]Classified, len(windows))
	for i, w := range windows {
		out[i] = Annotate(w, reg)
	}
	sortByPriority(out)
	return out
}

// Descriptors strips the annotations.
func Descriptors(cs []Classified) []window.Descriptor {
	out := make([]window.Descriptor, len(cs))
	for i, c := range cs {
		out[i] = c.Descriptor
	}
	return out
}

func sortByPriority(cs []Classified) {
	slices.SortStableFunc(cs, func(a, b Classified) int {
		return cmp.Compare(a.Priority, b.Priority)
	})
}

// Detector enumerates windows and classifies them.
type Detector struct {
	windows  window.Enumerator
	registry *registry.Registry
	logger   *slog.Logger
}

// NewDetector creates a Detector. A nil logger discards.
func NewDetector(windows window.Enumerator, reg *registry.Registry, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Detector{windows: windows, registry: reg, logger: logger}
}

// Detect enumerates the current windows and returns the matched ones,
// ranked. Each detected service is logged.
func (d *Detector) Detect(ctx context.Context) ([]Classified, error) {
	ws, err := d.windows.Windows(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "enumerating windows")
	}

	found := Classify(ws, d.registry)
	for _, c := range found {
		d.logger.Info("detected service window",
			"service", c.ServiceID,
			"priority", c.Priority,
			"title", c.Title,
			"handle", c.Handle.String())
	}
	d.logger.Debug("classification complete", "windows", len(ws), "matched", len(found))
	return found, nil
}
