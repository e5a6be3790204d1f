// Package layout computes grid placements for windows and applies them.
//
// [Plan] is pure geometry. [Planner] applies a plan through a
// window.Placer and tallies the results; a placement that returns an
// error or panics is counted as failed and does not stop the others.
package layout

import (
	"log/slog"

	"github.com/thoreinstein/aigrid/internal/errors"
	"github.com/thoreinstein/aigrid/internal/window"
)

// Layout modes accepted in window.layout_mode.
const (
	ModeGrid       = "grid"
	ModeSideBySide = "side_by_side"
)

// Grid is the number of columns and rows windows are tiled into.
type Grid struct {
	Cols int `json:"cols" yaml:"cols" toml:"cols"`
	Rows int `json:"rows" yaml:"rows" toml:"rows"`
}

// Cells returns the number of cells, or 0 when either dimension is not
// positive.
func (g Grid) Cells() int {
	if g.Cols <= 0 || g.Rows <= 0 {
		return 0
	}
	return g.Cols * g.Rows
}

// Display is the size of the screen area being tiled.
type Display struct {
	Width  int `json:"width" yaml:"width" toml:"width"`
	Height int `json:"height" yaml:"height" toml:"height"`
}

// Placement is the target rectangle of one window.
type Placement struct {
	Handle window.Handle `json:"handle" yaml:"handle" toml:"handle"`
	Col    int           `json:"col" yaml:"col" toml:"col"`
	Row    int           `json:"row" yaml:"row" toml:"row"`
	Rect   window.Rect   `json:"rect" yaml:"rect" toml:"rect"`
}

// Outcome tallies an Arrange call. Total is the number of windows that
// had a cell; windows beyond the grid are not counted.
type Outcome struct {
	Arranged int `json:"arranged" yaml:"arranged" toml:"arranged"`
	Failed   int `json:"failed" yaml:"failed" toml:"failed"`
	Total    int `json:"total" yaml:"total" toml:"total"`
}

// GridForMode returns the grid used for a layout mode. side_by_side puts
// every window in one row of cols columns; any other mode uses the
// configured shape.
func GridForMode(mode string, cols, rows int) Grid {
	if mode == ModeSideBySide {
		return Grid{Cols: cols, Rows: 1}
	}
	return Grid{Cols: cols, Rows: rows}
}

// Plan assigns the first g.Cells() windows to cells in row-major order.
// Cell sizes use integer division, so residual pixels at the right and
// bottom edges are left uncovered.
func Plan(windows []window.Descriptor, g Grid, d Display) []Placement {
	n := min(len(windows), g.Cells())
	if n == 0 {
		return nil
	}

	w := d.Width / g.Cols
	h := d.Height / g.Rows

	out := make([]Placement, n)
	for i := range n {
		col, row := i%g.Cols, i/g.Cols
		out[i] = Placement{
			Handle: windows[i].Handle,
			Col:    col,
			Row:    row,
			Rect:   window.Rect{X: col * w, Y: row * h, Width: w, Height: h},
		}
	}
	return out
}

// Planner applies plans through a Placer.
type Planner struct {
	placer window.Placer
	logger *slog.Logger
}

// NewPlanner creates a Planner. A nil logger discards.
func NewPlanner(placer window.Placer, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Planner{placer: placer, logger: logger}
}

// Arrange plans windows onto the grid and places each one.
func (p *Planner) Arrange(windows []window.Descriptor, g Grid, d Display) Outcome {
	plan := Plan(windows, g, d)
	out := Outcome{Total: len(plan)}

	for _, pl := range plan {
		if err := p.place(pl); err != nil {
			out.Failed++
			p.logger.Warn("window placement failed", "handle", pl.Handle.String(), "error", err)
			continue
		}
		out.Arranged++
	}

	p.logger.Info("windows arranged",
		"arranged", out.Arranged,
		"failed", out.Failed,
		"total", out.Total,
		"skipped", len(windows)-out.Total)
	return out
}

func (p *Planner) place(pl Placement) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("placer panicked: %v", r)
		}
	}()
	return p.placer.Place(pl.Handle, pl.Rect)
}

// MinimizeAll minimizes every window and returns how many succeeded.
func MinimizeAll(windows []window.Descriptor, sc window.StateController) int {
	return applyAll(windows, sc.Minimize)
}

// RestoreAll restores every window and returns how many succeeded.
func RestoreAll(windows []window.Descriptor, sc window.StateController) int {
	return applyAll(windows, sc.Restore)
}

func applyAll(windows []window.Descriptor, fn func(window.Handle) error) int {
	n := 0
	for _, w := range windows {
		if safeCall(fn, w.Handle) == nil {
			n++
		}
	}
	return n
}

func safeCall(fn func(window.Handle) error, h window.Handle) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("state change panicked: %v", r)
		}
	}()
	return fn(h)
}
