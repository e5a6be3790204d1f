package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
)

// Format specifies the output format for validation reports.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// Reporter formats and writes validation results.
type Reporter struct {
	out    io.Writer
	format Format
}

// NewReporter creates a new Reporter.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{out: out, format: format}
}

// Report writes the validation result to the output.
func (r *Reporter) Report(result *Result) error {
	if result == nil {
		result = &Result{}
	}

	switch r.format {
	case FormatJSON:
		return r.reportJSON(result)
	default:
		return r.reportText(result)
	}
}

type jsonReport struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
}

func (r *Reporter) reportJSON(result *Result) error {
	issues := result.Issues
	if issues == nil {
		issues = []Issue{}
	}
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(jsonReport{Valid: !result.HasErrors(), Issues: issues}), "encoding JSON report")
}

func (r *Reporter) reportText(result *Result) error {
	errs := result.Errors()
	warnings := result.Warnings()

	if len(errs) == 0 {
		fmt.Fprintln(r.out, color.GreenString("✓ Configuration is valid"))
		if len(warnings) == 0 {
			return nil
		}
	} else {
		summary := []string{color.RedString("%d error(s)", len(errs))}
		if len(warnings) > 0 {
			summary = append(summary, color.YellowString("%d warning(s)", len(warnings)))
		}
		fmt.Fprintf(r.out, "Validation failed: %s\n\n", strings.Join(summary, ", "))
		fmt.Fprintln(r.out, "Errors:")
		for _, i := range errs {
			r.printIssue(i, color.FgRed)
		}
		fmt.Fprintln(r.out)
	}

	if len(warnings) > 0 {
		fmt.Fprintln(r.out, "Warnings:")
		for _, i := range warnings {
			r.printIssue(i, color.FgYellow)
		}
		fmt.Fprintln(r.out)
	}

	return nil
}

func (r *Reporter) printIssue(i Issue, c color.Attribute) {
	var sb strings.Builder
	sb.WriteString("  • ")
	if i.Field != "" {
		sb.WriteString(color.New(c).Sprint(i.Field))
		sb.WriteString(": ")
	}
	sb.WriteString(i.Message)
	fmt.Fprintln(r.out, sb.String())
}
