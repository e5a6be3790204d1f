package watch

import (
	"context"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thoreinstein/aigrid/internal/errors"
	"github.com/thoreinstein/aigrid/internal/logging"
)

// Notifier checks for changes when fsnotify reports activity on one of
// the tracked files. The directory is watched rather than the files so
// that editors which save by rename are still seen.
type Notifier struct {
	checker Checker
	dir     string
	files   []string
	opts    options
}

// NewNotifier creates a Notifier for files inside dir.
func NewNotifier(checker Checker, dir string, files []string, opts ...Option) *Notifier {
	return &Notifier{
		checker: checker,
		dir:     dir,
		files:   slices.Clone(files),
		opts:    buildOptions(opts),
	}
}

// Run watches until ctx is cancelled. It returns an error only when the
// watch cannot be established.
func (n *Notifier) Run(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating file watcher")
	}
	defer w.Close()

	if err := w.Add(n.dir); err != nil {
		return errors.Wrapf(err, "watching %s", n.dir)
	}
	n.opts.logger.Debug("watching configuration directory", "dir", n.dir, "files", n.files)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			n.opts.logger.Debug("notifier stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !n.tracked(ev) {
				continue
			}
			n.opts.logger.Log(ctx, logging.LevelTrace, "file event", "name", ev.Name, "op", ev.Op.String())
			if pending == nil {
				pending = n.opts.clock.After(n.opts.debounce)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			n.opts.logger.Warn("file watcher error", "error", err)

		case <-pending:
			pending = nil
			n.checker.CheckForChanges()
		}
	}
}

func (n *Notifier) tracked(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Chmod) {
		return false
	}
	return slices.Contains(n.files, filepath.Base(ev.Name))
}
