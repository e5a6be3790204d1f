package commands

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/aigrid/internal/errors"
	"github.com/thoreinstein/aigrid/internal/logging"
	"github.com/thoreinstein/aigrid/internal/notify"
	"github.com/thoreinstein/aigrid/internal/watch"
)

var (
	watchInterval time.Duration
	watchMode     string
)

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0,
		"polling interval (default from the tool configuration)")
	watchCmd.Flags().StringVar(&watchMode, "mode", "",
		"change detection: poll, notify (default from the tool configuration)")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload the configuration when it changes",
	Long: `Load the configuration and keep it current: whenever settings.json or
ai_apps.json is modified, both are reloaded and validated again. Every
load, reload and failure is reported until interrupted.

Change detection polls file modification times by default. With
--mode notify, filesystem events trigger the check instead.`,
	Example: `  # Poll every 2 seconds
  aigrid watch

  # React to filesystem events
  aigrid watch --mode notify

See Also: aigrid validate`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, _ []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}

	cfg := currentConfig()
	mode := cfg.Watch.Mode
	if watchMode != "" {
		mode = watchMode
	}
	interval := cfg.Watch.Interval
	if watchInterval > 0 {
		interval = watchInterval
	}

	logger := logging.FromContext(cmd.Context())
	out := cmd.OutOrStdout()
	s.AddObserver(func(ev notify.Event) {
		logger.Debug("configuration event", "type", string(ev.Type), "issues", len(ev.Issues))
		printEvent(out, ev, s.Timestamps())
	})

	settingsPath, appsPath := s.Paths()
	runner, err := watch.New(mode, s, s.Dir(),
		[]string{filepath.Base(settingsPath), filepath.Base(appsPath)},
		watch.WithInterval(interval),
		watch.WithLogger(logger),
	)
	if err != nil {
		return errors.NewUserError(err, "Use --mode poll or --mode notify")
	}

	if _, issues, err := s.Load(); err != nil {
		if len(issues) == 0 {
			return errors.NewSystemError(err, "Check permissions on "+s.Dir())
		}
		fmt.Fprintf(out, "initial load failed: %v\n", err)
		for _, is := range issues {
			fmt.Fprintf(out, "  %s\n", is.Error())
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(out, "Watching %s (%s)\n", s.Dir(), mode)
	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return errors.NewSystemError(err, "Try --mode poll")
	}
	return nil
}

// printEvent writes one line per event. Reloads also list the
// modification time of each file that was read.
func printEvent(w io.Writer, ev notify.Event, timestamps map[string]time.Time) {
	if ev.Type == notify.ConfigError {
		fmt.Fprintf(w, "%s: %d issue(s)\n", ev.Type, len(ev.Issues))
		for _, is := range ev.Issues {
			fmt.Fprintf(w, "  %s\n", is.Error())
		}
		return
	}

	fmt.Fprintf(w, "%s: %d service(s)\n", ev.Type, len(ev.Document.Apps()))
	if ev.Type != notify.ConfigReloaded {
		return
	}
	for _, name := range slices.Sorted(maps.Keys(timestamps)) {
		fmt.Fprintf(w, "  %s modified %s\n", name, timestamps[name].Format(time.RFC3339))
	}
}
