package commands

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/aigrid/internal/classify"
	"github.com/thoreinstein/aigrid/internal/errors"
	"github.com/thoreinstein/aigrid/internal/logging"
	"github.com/thoreinstein/aigrid/internal/registry"
	"github.com/thoreinstein/aigrid/internal/window"
	"github.com/thoreinstein/aigrid/pkg/fileutil"
)

var (
	classifyWindows     string
	classifyAll         bool
	classifyInteractive bool
	classifyFormat      string
	classifyService     string
)

func init() {
	classifyCmd.Flags().StringVarP(&classifyWindows, "windows", "w", "",
		"YAML or JSON file listing the open windows")
	classifyCmd.Flags().BoolVarP(&classifyAll, "all", "a", false,
		"include windows that match no service")
	classifyCmd.Flags().BoolVarP(&classifyInteractive, "interactive", "i", false,
		"browse the classified windows with a fuzzy finder")
	classifyCmd.Flags().StringVar(&classifyFormat, "format", formatText,
		"output format: text, json, yaml")
	classifyCmd.Flags().StringVarP(&classifyService, "service", "s", "",
		"only list windows of this service")
	_ = classifyCmd.MarkFlagRequired("windows")
	rootCmd.AddCommand(classifyCmd)
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Match windows to the configured services",
	Long: `Match each window title against the keywords of the enabled services
and list the matches ordered by service priority.

The window list is read from a file. Each entry has a handle, a title and
optionally the owning process and window class:

  windows:
    - handle: 1
      title: "Chat Assistant A - Browser"
      process: browser

Use --windows - to read the list from standard input.`,
	Example: `  # Show the service windows
  aigrid classify --windows windows.yaml

  # Include unmatched windows, as JSON
  aigrid classify --windows windows.yaml --all --format json

  # Only one service, reading the list from a pipe
  list-windows | aigrid classify --windows - --service "AI Service B"

  # Pick a window interactively
  aigrid classify --windows windows.yaml -i

See Also: aigrid arrange`,
	Args: cobra.NoArgs,
	RunE: runClassify,
}

func runClassify(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(classifyFormat, formatText, formatJSON, formatYAML); err != nil {
		return err
	}

	reg, err := loadRegistry(cmd)
	if err != nil {
		return err
	}

	if classifyService != "" {
		if _, ok := reg.Lookup(classifyService); !ok {
			return errors.NewUserError(
				errors.Wrapf(errors.ErrNotFound, "service %q", classifyService),
				"Check the ai_apps names in the configuration",
			)
		}
	}

	src, err := windowSource(cmd, classifyWindows)
	if err != nil {
		return err
	}

	var classified []classify.Classified
	if classifyAll {
		windows, err := src.Windows(cmd.Context())
		if err != nil {
			return errors.NewUserError(err, "Check the --windows file")
		}
		classified = classify.All(windows, reg)
	} else {
		det := classify.NewDetector(src, reg, logging.FromContext(cmd.Context()))
		classified, err = det.Detect(cmd.Context())
		if err != nil {
			return errors.NewUserError(err, "Check the --windows file")
		}
	}
	if classifyService != "" {
		classified = slices.DeleteFunc(classified, func(c classify.Classified) bool {
			return c.ServiceID != classifyService
		})
	}

	if classifyInteractive {
		return pickWindow(cmd.OutOrStdout(), classified)
	}

	if classifyFormat != formatText {
		return render(cmd.OutOrStdout(), classifyFormat, classified)
	}
	printClassified(cmd.OutOrStdout(), classified)
	return nil
}

// loadRegistry builds the service registry from the stored configuration.
func loadRegistry(cmd *cobra.Command) (*registry.Registry, error) {
	s, err := openStore(cmd)
	if err != nil {
		return nil, err
	}
	doc, err := loadDocument(s)
	if err != nil {
		return nil, err
	}
	return registry.FromDocument(doc), nil
}

// windowSource returns the enumerator for --windows. "-" reads the list
// from standard input once.
func windowSource(cmd *cobra.Command, path string) (window.Enumerator, error) {
	if path != "-" {
		return window.NewFileEnumerator(path), nil
	}

	data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), fileutil.MaxFileSize+1))
	if err != nil {
		return nil, errors.NewSystemError(errors.Wrap(err, "reading window list from stdin"), "")
	}
	if len(data) > fileutil.MaxFileSize {
		return nil, errors.NewUserError(fileutil.ErrFileTooLarge, "Pass a shorter window list")
	}
	windows, err := window.ParseList(data)
	if err != nil {
		return nil, errors.NewUserError(err, "Check the window list on stdin")
	}
	return window.StaticEnumerator(windows), nil
}

func readWindows(cmd *cobra.Command, path string) ([]window.Descriptor, error) {
	src, err := windowSource(cmd, path)
	if err != nil {
		return nil, err
	}
	windows, err := src.Windows(cmd.Context())
	if err != nil {
		return nil, errors.NewUserError(err, "Check the --windows file")
	}
	return windows, nil
}

func printClassified(w io.Writer, cs []classify.Classified) {
	if len(cs) == 0 {
		fmt.Fprintln(w, "No service windows found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "HANDLE\tSERVICE\tPRIORITY\tTITLE")
	for _, c := range cs {
		service, priority := c.ServiceID, fmt.Sprint(c.Priority)
		if !c.Matched {
			service, priority = "-", "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Handle, service, priority, c.Title)
	}
	_ = tw.Flush()
}

func pickWindow(w io.Writer, cs []classify.Classified) error {
	if len(cs) == 0 {
		fmt.Fprintln(w, "No service windows found.")
		return nil
	}

	idx, err := fuzzyfinder.Find(
		cs,
		func(i int) string {
			return fmt.Sprintf("%s: %s", serviceLabel(cs[i]), cs[i].Title)
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			c := cs[i]
			var sb strings.Builder
			fmt.Fprintf(&sb, "Handle:   %s\n", c.Handle)
			fmt.Fprintf(&sb, "Service:  %s\n", serviceLabel(c))
			fmt.Fprintf(&sb, "Priority: %d\n", c.Priority)
			if c.ProcessName != "" {
				fmt.Fprintf(&sb, "Process:  %s\n", c.ProcessName)
			}
			if c.ClassName != "" {
				fmt.Fprintf(&sb, "Class:    %s\n", c.ClassName)
			}
			fmt.Fprintf(&sb, "\nTitle:\n%s", c.Title)
			return sb.String()
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		return errors.Wrap(err, "interactive selection failed")
	}

	c := cs[idx]
	fmt.Fprintf(w, "Selected: %s (%s)\n", c.Title, serviceLabel(c))
	fmt.Fprintf(w, "Handle: %s\n", c.Handle)
	return nil
}

func serviceLabel(c classify.Classified) string {
	if !c.Matched {
		return "unmatched"
	}
	return c.ServiceID
}
