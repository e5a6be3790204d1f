package window

import (
	"context"
	"fmt"
)

// Handle is an opaque window identifier, stable for the lifetime of the
// window.
type Handle uint64

func (h Handle) String() string {
	return fmt.Sprintf("0x%x", uint64(h))
}

// Descriptor is a read-only snapshot of one on-screen window.
type Descriptor struct {
	// Handle identifies the window to the Placer and StateController.
	Handle Handle `json:"handle" yaml:"handle"`

	// Title is the window title; classification matches against it.
	Title string `json:"title" yaml:"title"`

	// ProcessName is the executable owning the window, if known.
	ProcessName string `json:"process,omitempty" yaml:"process,omitempty"`

	// ClassName is the windowing-system class, if known.
	ClassName string `json:"class,omitempty" yaml:"class,omitempty"`
}

// Rect is a screen rectangle in pixels with its origin at the top left.
type Rect struct {
	X      int `json:"x" yaml:"x" toml:"x"`
	Y      int `json:"y" yaml:"y" toml:"y"`
	Width  int `json:"width" yaml:"width" toml:"width"`
	Height int `json:"height" yaml:"height" toml:"height"`
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Enumerator lists the visible windows.
type Enumerator interface {
	Windows(ctx context.Context) ([]Descriptor, error)
}

// Placer moves and resizes a window.
type Placer interface {
	Place(h Handle, r Rect) error
}

// StateController minimizes and restores windows.
type StateController interface {
	Minimize(h Handle) error
	Restore(h Handle) error
}

// StaticEnumerator returns a fixed list of windows.
type StaticEnumerator []Descriptor

// Windows returns a copy of the list.
func (s StaticEnumerator) Windows(ctx context.Context) ([]Descriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]Descriptor(nil), s...), nil
}
