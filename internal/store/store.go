package store

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/thoreinstein/aigrid/internal/document"
	"github.com/thoreinstein/aigrid/internal/errors"
	"github.com/thoreinstein/aigrid/internal/notify"
	"github.com/thoreinstein/aigrid/internal/schema"
	"github.com/thoreinstein/aigrid/internal/validator"
	"github.com/thoreinstein/aigrid/pkg/fileutil"
)

// File names inside the configuration directory.
const (
	SettingsFile = "settings.json"
	AIAppsFile   = "ai_apps.json"
)

// Issue fields used for failures that are not schema violations.
const (
	FieldSettings   = "settings"
	FieldAIApps     = document.KeyAIApps
	FieldFileSystem = "file_system"
)

// FilePerm is the permission applied to saved configuration files.
const FilePerm os.FileMode = 0o644

// Store owns the committed configuration document of one directory.
// It is safe for use by multiple goroutines; observers run outside the
// internal lock on the goroutine of the triggering call.
type Store struct {
	dir        string
	logger     *slog.Logger
	dispatcher *notify.Dispatcher

	mu         sync.Mutex
	current    document.Document
	timestamps map[string]time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load, save and reload diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Store for the configuration directory dir. Nothing is
// read until Load is called.
func New(dir string, opts ...Option) *Store {
	s := &Store{
		dir:        dir,
		logger:     slog.Default(),
		timestamps: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.dispatcher = notify.NewDispatcher(s.logger)
	return s
}

// Dir returns the configuration directory.
func (s *Store) Dir() string {
	return s.dir
}

// Paths returns the paths of the settings and AI apps files.
func (s *Store) Paths() (settings, apps string) {
	return s.path(SettingsFile), s.path(AIAppsFile)
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *Store) files() []string {
	return []string{SettingsFile, AIAppsFile}
}

// Current returns a copy of the committed document. ok is false before
// the first successful load or save.
func (s *Store) Current() (doc document.Document, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, false
	}
	return s.current.Clone(), true
}

// Timestamps returns a copy of the recorded modification times.
func (s *Store) Timestamps() map[string]time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.timestamps)
}

// AddObserver registers o for configuration events.
func (s *Store) AddObserver(o notify.Observer) *notify.Subscription {
	return s.dispatcher.Subscribe(o)
}

// RemoveObserver unregisters a subscription. Unknown subscriptions are ignored.
func (s *Store) RemoveObserver(sub *notify.Subscription) {
	s.dispatcher.Unsubscribe(sub)
}

// Load reads both files, merges and validates them. The returned error
// is nil on success and otherwise wraps one of ErrMissingFile,
// ErrParseFailure or ErrSchemaViolation, with issues describing the
// failure. The merged document is returned even when it is invalid.
// Errors that leave the directory unreadable are returned without issues.
func (s *Store) Load() (document.Document, []validator.Issue, error) {
	doc, issues, err := s.load()
	if err != nil {
		return doc, issues, err
	}
	s.dispatch(notify.Event{Type: notify.ConfigLoaded, Document: doc.Clone()})
	return doc, nil, nil
}

func (s *Store) load() (document.Document, []validator.Issue, error) {
	settings, issues, err := s.readFile(SettingsFile, FieldSettings)
	if err != nil {
		return nil, issues, err
	}

	appsDoc, issues, err := s.readFile(AIAppsFile, FieldAIApps)
	if err != nil {
		return nil, issues, err
	}

	apps, ok := appsDoc[document.KeyAIApps]
	if !ok {
		apps = []any{}
	}
	merged := document.Merge(settings, apps)

	if valid, vIssues := schema.Validate(merged); !valid {
		s.logger.Debug("configuration failed validation", "dir", s.dir, "issues", len(vIssues))
		return merged, vIssues, errors.Wrapf(errors.ErrSchemaViolation, "%d validation issue(s)", len(vIssues))
	}

	s.mu.Lock()
	s.current = merged.Clone()
	s.refreshTimestampsLocked()
	s.mu.Unlock()

	s.logger.Info("configuration loaded", "dir", s.dir, "apps", len(merged.Apps()))
	return merged, nil, nil
}

// readFile loads one JSON file, describing a missing or unreadable file
// as a single issue on field.
func (s *Store) readFile(name, field string) (document.Document, []validator.Issue, error) {
	path := s.path(name)

	_, exists, err := fileutil.ModTime(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "checking %s", name)
	}
	if !exists {
		label := "Settings"
		if field == FieldAIApps {
			label = "AI apps"
		}
		return nil, []validator.Issue{{
			Field:    field,
			Message:  fmt.Sprintf("%s file not found: %s", label, path),
			Severity: validator.SeverityError,
		}}, errors.Wrapf(errors.ErrMissingFile, "%s", path)
	}

	data, err := fileutil.ReadFileWithLimit(path)
	if err == nil {
		var doc document.Document
		if doc, err = document.Decode(data); err == nil {
			return doc, nil, nil
		}
	}

	label := "settings"
	if field == FieldAIApps {
		label = "AI apps"
	}
	return nil, []validator.Issue{{
		Field:    field,
		Message:  fmt.Sprintf("Failed to parse %s file: %v", label, err),
		Severity: validator.SeverityError,
	}}, errors.Mark(errors.Wrapf(err, "parsing %s", path), errors.ErrParseFailure)
}

// Save validates doc and writes it as the two configuration files. On a
// schema violation nothing is written. A write failure is reported as a
// single file_system issue and an error wrapping ErrWriteFailure; a file
// written before the failure is not rolled back.
func (s *Store) Save(doc document.Document) ([]validator.Issue, error) {
	if valid, issues := schema.Validate(doc); !valid {
		return issues, errors.Wrapf(errors.ErrSchemaViolation, "%d validation issue(s)", len(issues))
	}

	committed := doc.Clone()
	settings, apps := committed.Split()

	for _, f := range []struct {
		name string
		doc  document.Document
	}{
		{SettingsFile, settings},
		{AIAppsFile, apps},
	} {
		if err := s.writeFile(f.name, f.doc); err != nil {
			s.logger.Error("saving configuration failed", "file", f.name, "error", err)
			return []validator.Issue{{
				Field:    FieldFileSystem,
				Message:  fmt.Sprintf("Failed to save configuration: %v", err),
				Severity: validator.SeverityError,
			}}, errors.Mark(errors.Wrapf(err, "saving %s", f.name), errors.ErrWriteFailure)
		}
	}

	s.mu.Lock()
	s.current = committed
	s.refreshTimestampsLocked()
	s.mu.Unlock()

	s.logger.Info("configuration saved", "dir", s.dir)
	s.dispatch(notify.Event{Type: notify.ConfigSaved, Document: committed.Clone()})
	return nil, nil
}

func (s *Store) writeFile(name string, doc document.Document) error {
	data, err := doc.Encode()
	if err != nil {
		return err
	}
	return fileutil.AtomicWriteFile(s.path(name), data, FilePerm)
}

// CheckForChanges reports whether any configuration file was modified
// since the last successful load or save. When one was, the configuration
// is reloaded: success sends config_reloaded, failure sends config_error
// and keeps the previously committed document. The result is true in both
// cases. Files that do not exist are ignored.
func (s *Store) CheckForChanges() bool {
	if !s.changed() {
		return false
	}

	doc, issues, err := s.load()
	if err != nil {
		if len(issues) == 0 {
			issues = []validator.Issue{{
				Field:    FieldFileSystem,
				Message:  err.Error(),
				Severity: validator.SeverityError,
			}}
		}
		s.logger.Warn("configuration reload failed", "dir", s.dir, "error", err)
		s.dispatch(notify.Event{Type: notify.ConfigError, Issues: issues})
		return true
	}

	s.dispatch(notify.Event{Type: notify.ConfigLoaded, Document: doc.Clone()})
	s.dispatch(notify.Event{Type: notify.ConfigReloaded, Document: doc.Clone()})
	return true
}

func (s *Store) changed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range s.files() {
		mtime, exists, err := fileutil.ModTime(s.path(name))
		if err != nil {
			s.logger.Warn("cannot stat configuration file", "file", name, "error", err)
			continue
		}
		if !exists {
			continue
		}
		if mtime.After(s.timestamps[name]) {
			s.logger.Debug("configuration file changed", "file", name, "mtime", mtime)
			return true
		}
	}
	return false
}

// refreshTimestampsLocked records the current modification time of every
// existing file. s.mu must be held.
func (s *Store) refreshTimestampsLocked() {
	for _, name := range s.files() {
		mtime, exists, err := fileutil.ModTime(s.path(name))
		if err != nil || !exists {
			continue
		}
		s.timestamps[name] = mtime
	}
}

func (s *Store) dispatch(ev notify.Event) {
	s.dispatcher.Dispatch(ev)
}
