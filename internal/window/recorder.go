package window

import (
	"log/slog"
	"sync"
)

// Action names recorded by Recorder.
const (
	ActionPlace    = "place"
	ActionMinimize = "minimize"
	ActionRestore  = "restore"
)

// Call is one recorded window operation.
type Call struct {
	Action string
	Handle Handle
	Rect   Rect
}

// Recorder implements Placer and StateController without touching any
// window. Each call is logged and kept in order. It backs dry runs and
// tests.
type Recorder struct {
	logger *slog.Logger

	// Fail, when set, decides the error returned for a call. The call is
	// recorded either way.
	Fail func(Call) error

	mu    sync.Mutex
	calls []Call
}

// NewRecorder returns a Recorder logging to logger. A nil logger discards.
func NewRecorder(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Recorder{logger: logger}
}

// Place records a placement.
func (r *Recorder) Place(h Handle, rect Rect) error {
	return r.record(Call{Action: ActionPlace, Handle: h, Rect: rect})
}

// Minimize records a minimize request.
func (r *Recorder) Minimize(h Handle) error {
	return r.record(Call{Action: ActionMinimize, Handle: h})
}

// Restore records a restore request.
func (r *Recorder) Restore(h Handle) error {
	return r.record(Call{Action: ActionRestore, Handle: h})
}

// Calls returns the recorded calls in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

func (r *Recorder) record(c Call) error {
	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()

	attrs := []any{"action", c.Action, "handle", c.Handle.String()}
	if c.Action == ActionPlace {
		attrs = append(attrs, "rect", c.Rect.String())
	}
	r.logger.Debug("window operation", attrs...)

	if r.Fail != nil {
		return r.Fail(c)
	}
	return nil
}
