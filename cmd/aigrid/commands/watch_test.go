package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/thoreinstein/aigrid/internal/document"
	"github.com/thoreinstein/aigrid/internal/notify"
	"github.com/thoreinstein/aigrid/internal/store"
	"github.com/thoreinstein/aigrid/internal/validator"
)

func resetWatchFlags(t *testing.T) {
	t.Helper()
	reset := func() {
		watchInterval = 0
		watchMode = ""
	}
	reset()
	t.Cleanup(reset)
}

func TestWatch_StopsOnCancel(t *testing.T) {
	dir := setupCommandTest(t)
	resetWatchFlags(t)
	writeDemoConfig(t, dir)
	watchInterval = time.Hour

	c, buf := newTestCmd(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	c.SetContext(ctx)

	if err := runWatch(c, nil); err != nil {
		t.Fatalf("runWatch() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "config_loaded: 3 service(s)") {
		t.Errorf("initial load not reported: %q", out)
	}
	if !strings.Contains(out, "Watching "+dir+" (poll)") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestWatch_ReportsInitialFailure(t *testing.T) {
	setupCommandTest(t)
	resetWatchFlags(t)

	c, buf := newTestCmd(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	c.SetContext(ctx)

	if err := runWatch(c, nil); err != nil {
		t.Fatalf("runWatch() error = %v", err)
	}
	if !strings.Contains(buf.String(), "initial load failed") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestWatch_UnknownMode(t *testing.T) {
	setupCommandTest(t)
	resetWatchFlags(t)
	watchMode = "inotify"

	c, _ := newTestCmd(t)
	if err := runWatch(c, nil); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestPrintEvent(t *testing.T) {
	ts := map[string]time.Time{
		store.SettingsFile: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		store.AIAppsFile:   time.Date(2026, 1, 2, 3, 4, 6, 0, time.UTC),
	}

	var buf bytes.Buffer
	printEvent(&buf, notify.Event{Type: notify.ConfigReloaded, Document: document.Demo()}, ts)
	want := "config_reloaded: 3 service(s)\n" +
		"  ai_apps.json modified 2026-01-02T03:04:06Z\n" +
		"  settings.json modified 2026-01-02T03:04:05Z\n"
	if buf.String() != want {
		t.Errorf("reload output = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	printEvent(&buf, notify.Event{Type: notify.ConfigLoaded, Document: document.Demo()}, ts)
	if buf.String() != "config_loaded: 3 service(s)\n" {
		t.Errorf("load output = %q", buf.String())
	}

	buf.Reset()
	printEvent(&buf, notify.Event{
		Type:   notify.ConfigError,
		Issues: []validator.Issue{{Field: "app", Message: "Required section 'app' is missing", Severity: validator.SeverityError}},
	}, ts)
	if !strings.Contains(buf.String(), "config_error: 1 issue(s)") || !strings.Contains(buf.String(), "app: Required section") {
		t.Errorf("error output = %q", buf.String())
	}
}
