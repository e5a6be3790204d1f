// Package notify dispatches configuration lifecycle events to observers.
//
// Observers are invoked synchronously, in registration order, on the
// goroutine that triggered the event. Each invocation runs inside its own
// recover boundary: a panicking observer is logged and skipped, and the
// remaining observers still receive the event.
package notify

import (
	"log/slog"
	"sync"

	"github.com/thoreinstein/aigrid/internal/document"
	"github.com/thoreinstein/aigrid/internal/errors"
	"github.com/thoreinstein/aigrid/internal/validator"
)

// EventType identifies a configuration lifecycle event.
type EventType string

const (
	// ConfigLoaded is sent after a successful load.
	ConfigLoaded EventType = "config_loaded"
	// ConfigSaved is sent after a successful save.
	ConfigSaved EventType = "config_saved"
	// ConfigReloaded is sent after a change was detected and reloaded.
	ConfigReloaded EventType = "config_reloaded"
	// ConfigError is sent when a detected change failed to reload.
	ConfigError EventType = "config_error"
)

// Event is delivered to observers. Document is set for loaded, saved and
// reloaded events; Issues is set for error events.
type Event struct {
	Type     EventType
	Document document.Document
	Issues   []validator.Issue
}

// Observer receives configuration events.
type Observer func(Event)

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	id uint64
}

type entry struct {
	id       uint64
	observer Observer
}

// Dispatcher keeps an ordered list of observers.
type Dispatcher struct {
	mu      sync.Mutex
	entries []entry
	nextID  uint64
	logger  *slog.Logger
}

// NewDispatcher creates an empty dispatcher. A nil logger uses slog.Default().
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{logger: logger}
}

// Subscribe appends an observer and returns its subscription handle.
// A nil observer is ignored and yields a nil subscription.
func (d *Dispatcher) Subscribe(o Observer) *Subscription {
	if o == nil {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	d.entries = append(d.entries, entry{id: d.nextID, observer: o})
	return &Subscription{id: d.nextID}
}

// Unsubscribe removes the observer registered under sub. Unknown or nil
// subscriptions are ignored.
func (d *Dispatcher) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for i, e := range d.entries {
		if e.id == sub.id {
			d.entries = append(d.entries[:i:i], d.entries[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered observers.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

// Dispatch delivers ev to every observer registered at the time of the
// call and returns the number of observers that failed.
func (d *Dispatcher) Dispatch(ev Event) int {
	d.mu.Lock()
	snapshot := make([]entry, len(d.entries))
	copy(snapshot, d.entries)
	d.mu.Unlock()

	failed := 0
	for _, e := range snapshot {
		if err := d.invoke(e, ev); err != nil {
			failed++
			d.logger.Warn("observer notification failed",
				"event", string(ev.Type),
				"observer", e.id,
				"error", err)
		}
	}
	return failed
}

func (d *Dispatcher) invoke(e entry, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("observer panicked: %v", r)
		}
	}()
	e.observer(ev)
	return nil
}
