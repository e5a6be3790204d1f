package doctor

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Check is the interface that diagnostic checks must implement.
type Check interface {
	// Name returns the unique identifier for this check.
	Name() string

	// Category returns the grouping for this check (e.g., "filesystem", "config").
	Category() string

	// Run executes the diagnostic check and returns its result.
	Run() *CheckResult
}

// Runner executes diagnostic checks and aggregates their results.
type Runner struct {
	checks []Check
	clock  clockwork.Clock
}

// NewRunner creates a new diagnostic runner.
func NewRunner() *Runner {
	return &Runner{clock: clockwork.NewRealClock()}
}

// WithClock sets the clock used to stamp reports.
func (r *Runner) WithClock(c clockwork.Clock) *Runner {
	r.clock = c
	return r
}

// AddCheck registers a diagnostic check with the runner.
func (r *Runner) AddCheck(c Check) {
	r.checks = append(r.checks, c)
}

// Checks returns the registered checks in order.
func (r *Runner) Checks() []Check {
	return append([]Check(nil), r.checks...)
}

// Run executes all registered checks in order and returns a report.
func (r *Runner) Run() *Report {
	start := r.clock.Now()
	report := &Report{
		Timestamp: start.UTC(),
		Results:   make([]*CheckResult, 0, len(r.checks)),
	}

	for _, check := range r.checks {
		result := check.Run()
		report.Results = append(report.Results, result)

		switch result.Status {
		case SeverityPass:
			report.Summary.Passed++
		case SeverityInfo:
			report.Summary.Info++
		case SeverityWarning:
			report.Summary.Warnings++
		case SeverityError:
			report.Summary.Errors++
		}
	}

	report.Duration = r.clock.Since(start)
	return report
}

// Report aggregates all check results with timing and summary.
type Report struct {
	Timestamp time.Time      `json:"timestamp"`
	Duration  time.Duration  `json:"duration_ns"`
	Results   []*CheckResult `json:"results"`
	Summary   Summary        `json:"summary"`
}

// HasErrors returns true if any check has SeverityError.
func (r *Report) HasErrors() bool {
	return r.Summary.Errors > 0
}

// HasWarnings returns true if any check has SeverityWarning.
func (r *Report) HasWarnings() bool {
	return r.Summary.Warnings > 0
}
