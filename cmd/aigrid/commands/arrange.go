package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/aigrid/internal/classify"
	"github.com/thoreinstein/aigrid/internal/document"
	"github.com/thoreinstein/aigrid/internal/layout"
	"github.com/thoreinstein/aigrid/internal/logging"
	"github.com/thoreinstein/aigrid/internal/registry"
	"github.com/thoreinstein/aigrid/internal/window"
)

var (
	arrangeWindows        string
	arrangeFormat         string
	arrangeWidth          int
	arrangeHeight         int
	arrangeMinimizeOthers bool

	restoreWindows string
)

func init() {
	arrangeCmd.Flags().StringVarP(&arrangeWindows, "windows", "w", "",
		"YAML or JSON file listing the open windows")
	arrangeCmd.Flags().StringVar(&arrangeFormat, "format", formatText,
		"output format: text, json, yaml, toml")
	arrangeCmd.Flags().IntVar(&arrangeWidth, "width", 0,
		"display width in pixels (default from the tool configuration)")
	arrangeCmd.Flags().IntVar(&arrangeHeight, "height", 0,
		"display height in pixels (default from the tool configuration)")
	arrangeCmd.Flags().BoolVar(&arrangeMinimizeOthers, "minimize-others", false,
		"minimize windows that match no service")
	_ = arrangeCmd.MarkFlagRequired("windows")

	restoreCmd.Flags().StringVarP(&restoreWindows, "windows", "w", "",
		"YAML or JSON file listing the open windows")
	_ = restoreCmd.MarkFlagRequired("windows")

	rootCmd.AddCommand(arrangeCmd)
	rootCmd.AddCommand(restoreCmd)
}

var arrangeCmd = &cobra.Command{
	Use:   "arrange",
	Short: "Tile the service windows on the grid",
	Long: `Classify the listed windows and tile the matches on the configured grid
in priority order, filling cells left to right and top to bottom.

window.layout_mode selects the shape: "grid" uses window.grid.cols by
window.grid.rows cells, "side_by_side" puts the windows in a single row
of window.grid.cols cells. Windows beyond the last cell are left alone.

Placements are computed and recorded without moving real windows.`,
	Example: `  # Show where each service window goes
  aigrid arrange --windows windows.yaml

  # Use a 2560x1440 display and emit TOML
  aigrid arrange --windows windows.yaml --width 2560 --height 1440 --format toml

See Also: aigrid classify, aigrid restore`,
	Args: cobra.NoArgs,
	RunE: runArrange,
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the service windows",
	Long:  `Restore every listed window that belongs to a configured service.`,
	Example: `  aigrid restore --windows windows.yaml

See Also: aigrid arrange`,
	Args: cobra.NoArgs,
	RunE: runRestore,
}

// arrangeReport is the structured output of arrange.
type arrangeReport struct {
	Mode       string             `json:"mode" yaml:"mode" toml:"mode"`
	Grid       layout.Grid        `json:"grid" yaml:"grid" toml:"grid"`
	Display    layout.Display     `json:"display" yaml:"display" toml:"display"`
	Placements []layout.Placement `json:"placements" yaml:"placements" toml:"placements"`
	Outcome    layout.Outcome     `json:"outcome" yaml:"outcome" toml:"outcome"`
	Minimized  int                `json:"minimized,omitempty" yaml:"minimized,omitempty" toml:"minimized,omitempty"`
}

func runArrange(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(arrangeFormat, formatText, formatJSON, formatYAML, formatTOML); err != nil {
		return err
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	doc, err := loadDocument(s)
	if err != nil {
		return err
	}
	windows, err := readWindows(cmd, arrangeWindows)
	if err != nil {
		return err
	}

	logger := logging.FromContext(cmd.Context())
	all := classify.All(windows, registry.FromDocument(doc))
	var matched, others []window.Descriptor
	for _, c := range all {
		if c.Matched {
			matched = append(matched, c.Descriptor)
		} else {
			others = append(others, c.Descriptor)
		}
	}

	mode := doc.String("window.layout_mode")
	grid := gridFromDocument(doc, mode)
	display := resolveDisplay()

	rec := window.NewRecorder(logger)
	report := arrangeReport{
		Mode:       mode,
		Grid:       grid,
		Display:    display,
		Placements: layout.Plan(matched, grid, display),
		Outcome:    layout.NewPlanner(rec, logger).Arrange(matched, grid, display),
	}
	if report.Placements == nil {
		report.Placements = []layout.Placement{}
	}
	if arrangeMinimizeOthers {
		report.Minimized = layout.MinimizeAll(others, rec)
	}

	if arrangeFormat != formatText {
		return render(cmd.OutOrStdout(), arrangeFormat, report)
	}
	printArrangement(cmd.OutOrStdout(), report)
	return nil
}

func runRestore(cmd *cobra.Command, _ []string) error {
	reg, err := loadRegistry(cmd)
	if err != nil {
		return err
	}
	windows, err := readWindows(cmd, restoreWindows)
	if err != nil {
		return err
	}

	matched := classify.Descriptors(classify.Classify(windows, reg))
	n := layout.RestoreAll(matched, window.NewRecorder(logging.FromContext(cmd.Context())))
	fmt.Fprintf(cmd.OutOrStdout(), "Restored %d of %d window(s)\n", n, len(matched))
	return nil
}

// gridFromDocument reads the grid shape for mode. The schema guarantees
// window.grid.cols and window.grid.rows are integers.
func gridFromDocument(doc document.Document, mode string) layout.Grid {
	cols, _ := doc.Int("window.grid.cols")
	rows, _ := doc.Int("window.grid.rows")
	return layout.GridForMode(mode, cols, rows)
}

// resolveDisplay applies --width and --height over the configured display.
func resolveDisplay() layout.Display {
	cfg := currentConfig()
	d := layout.Display{Width: cfg.Display.Width, Height: cfg.Display.Height}
	if arrangeWidth > 0 {
		d.Width = arrangeWidth
	}
	if arrangeHeight > 0 {
		d.Height = arrangeHeight
	}
	return d
}

func printArrangement(w io.Writer, r arrangeReport) {
	fmt.Fprintf(w, "Layout: %s %dx%d on %dx%d\n", r.Mode, r.Grid.Cols, r.Grid.Rows, r.Display.Width, r.Display.Height)
	if len(r.Placements) == 0 {
		fmt.Fprintln(w, "No service windows to arrange.")
	}
	for _, p := range r.Placements {
		fmt.Fprintf(w, "  %s -> cell (%d,%d) %s\n", p.Handle, p.Col, p.Row, p.Rect)
	}
	fmt.Fprintf(w, "Arranged %d of %d window(s)", r.Outcome.Arranged, r.Outcome.Total)
	if r.Outcome.Failed > 0 {
		fmt.Fprintf(w, ", %d failed", r.Outcome.Failed)
	}
	fmt.Fprintln(w)
	if r.Minimized > 0 {
		fmt.Fprintf(w, "Minimized %d other window(s)\n", r.Minimized)
	}
}
