// Package logging provides structured logging with per-module log level configuration.
//
// # Overview
//
// The logging system uses Go's slog package with automatic output routing:
//   - Logs to stderr (or Config.Output) in text or JSON form
//   - Logs to the systemd journal when it is available
//   - Logs to both when both are available; if a journal write fails the
//     journal copy is dropped and the console keeps working
//
// Stdout is left to command output so that it stays machine readable.
//
// # Usage
//
// Initialize the logging system once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",      // Global log level: debug, info, warn, error
//		Format: "text",      // Output format: text or json
//		Modules: map[string]string{
//			"shutdown": "debug", // Per-module overrides
//		},
//	})
//
// Get a logger for your module:
//
//	logger := logging.GetLogger("shutdown").With("pid", pid)
//	logger.Info("Sending shutdown signal", "signal", "TERM")
//
// Loggers obtained before Initialize keep working; Initialize updates their
// level in place.
//
// # Viewing Logs
//
//	journalctl -t procctl                  # All procctl logs
//	journalctl -t procctl MODULE=shutdown  # Stop sequences only
//	journalctl -t procctl TARGET_PID=4242  # One target process
//	journalctl -t procctl -p notice        # Stop outcomes and problems
//
// Journal availability is checked via [github.com/coreos/go-systemd/v22/journal.Enabled].
package logging
