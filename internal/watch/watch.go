// Package watch drives configuration hot reload.
//
// Both drivers reduce to calls of Checker.CheckForChanges, which decides
// from file modification times whether anything changed. The [Poller]
// calls it on a fixed interval. The [Notifier] calls it shortly after
// fsnotify reports activity on a tracked file, so a burst of writes from
// an editor results in a single check.
package watch

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/thoreinstein/aigrid/internal/errors"
	"github.com/thoreinstein/aigrid/internal/logging"
)

// Modes accepted by New.
const (
	ModePoll   = "poll"
	ModeNotify = "notify"
)

// Defaults for the drivers.
const (
	DefaultInterval = 2 * time.Second
	DefaultDebounce = 100 * time.Millisecond
)

// Checker reports whether the watched configuration changed and reloads
// it when it did.
type Checker interface {
	CheckForChanges() bool
}

// Runner runs a watch loop until ctx is cancelled.
type Runner interface {
	Run(ctx context.Context) error
}

type options struct {
	clock    clockwork.Clock
	interval time.Duration
	debounce time.Duration
	logger   *slog.Logger
}

// Option configures a driver.
type Option func(*options)

// WithClock sets the clock. Tests pass a clockwork fake clock.
func WithClock(c clockwork.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithInterval sets the polling interval.
func WithInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.interval = d
		}
	}
}

// WithDebounce sets how long the Notifier waits after the first event
// before checking.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		clock:    clockwork.NewRealClock(),
		interval: DefaultInterval,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New returns the driver for mode. dir and files are only used by the
// notify mode.
func New(mode string, checker Checker, dir string, files []string, opts ...Option) (Runner, error) {
	switch mode {
	case ModePoll, "":
		return NewPoller(checker, opts...), nil
	case ModeNotify:
		return NewNotifier(checker, dir, files, opts...), nil
	default:
		return nil, errors.Newf("unknown watch mode %q (valid: %s, %s)", mode, ModePoll, ModeNotify)
	}
}

// Poller checks for changes on a fixed interval.
type Poller struct {
	checker Checker
	opts    options
}

// NewPoller creates a Poller.
func NewPoller(checker Checker, opts ...Option) *Poller {
	return &Poller{checker: checker, opts: buildOptions(opts)}
}

// Run polls until ctx is cancelled. It returns nil on cancellation.
func (p *Poller) Run(ctx context.Context) error {
	ticker := p.opts.clock.NewTicker(p.opts.interval)
	defer ticker.Stop()

	p.opts.logger.Debug("polling for configuration changes", "interval", p.opts.interval)
	for {
		select {
		case <-ctx.Done():
			p.opts.logger.Debug("poller stopped")
			return nil
		case <-ticker.Chan():
			changed := p.checker.CheckForChanges()
			p.opts.logger.Log(ctx, logging.LevelTrace, "poll tick", "changed", changed)
			if changed {
				p.opts.logger.Debug("configuration change handled")
			}
		}
	}
}
