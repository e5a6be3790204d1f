// Package logging provides structured logging for aigrid using slog.
//
// Loggers are built from [Config] and support a colorized text handler for
// terminals and the standard JSON handler for machine consumption. The
// configuration store, the classifier, the layout planner and the watch
// loop all accept a *slog.Logger; commands pull it from the context with
// [FromContext].
//
//	logger := logging.New(logging.Config{
//		Level:  slog.LevelInfo,
//		Format: logging.FormatText,
//		Output: os.Stderr,
//	})
//	logger.Info("configuration loaded", "dir", dir)
//
// Tests use [ForTest] so that output is attached to the test log.
package logging
