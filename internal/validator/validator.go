package validator

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Severity represents the impact of a validation issue.
type Severity int

const (
	// SeverityError indicates a blocking validation failure.
	SeverityError Severity = iota
	// SeverityWarning indicates a non-blocking issue.
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity as its name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	default:
		return errors.Newf("unknown severity %q", string(text))
	}
	return nil
}

// Issue is a single validation problem. Issues are values and are never
// modified after creation.
type Issue struct {
	// Field is the dotted path of the offending field, e.g. "window.grid.cols"
	// or "ai_apps[2].priority".
	Field string `json:"field"`
	// Message is a human-readable description of the problem.
	Message string `json:"message"`
	// Severity indicates the impact of the issue.
	Severity Severity `json:"severity"`
}

// Error implements the error interface.
func (i Issue) Error() string {
	var sb strings.Builder
	sb.WriteString(i.Severity.String())
	sb.WriteString(": ")
	if i.Field != "" {
		sb.WriteString(i.Field)
		sb.WriteString(": ")
	}
	sb.WriteString(i.Message)
	return sb.String()
}

// Result aggregates validation issues in the order they were found.
type Result struct {
	Issues []Issue `json:"issues"`
}

// AddError appends an error issue.
func (r *Result) AddError(field, message string) {
	r.Issues = append(r.Issues, Issue{Field: field, Message: message, Severity: SeverityError})
}

// AddWarning appends a warning issue.
func (r *Result) AddWarning(field, message string) {
	r.Issues = append(r.Issues, Issue{Field: field, Message: message, Severity: SeverityWarning})
}

// HasErrors returns true if any issue has SeverityError.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	return HasErrors(r.Issues)
}

// HasWarnings returns true if any issue has SeverityWarning.
func (r *Result) HasWarnings() bool {
	if r == nil {
		return false
	}
	for _, i := range r.Issues {
		if i.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// Errors returns the error-severity issues.
func (r *Result) Errors() []Issue {
	if r == nil {
		return nil
	}
	return filter(r.Issues, SeverityError)
}

// Warnings returns the warning-severity issues.
func (r *Result) Warnings() []Issue {
	if r == nil {
		return nil
	}
	return filter(r.Issues, SeverityWarning)
}

// HasErrors reports whether issues contains an error-severity entry.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

func filter(issues []Issue, s Severity) []Issue {
	var res []Issue
	for _, i := range issues {
		if i.Severity == s {
			res = append(res, i)
		}
	}
	return res
}
