// Package cmd implements the procctl command tree.
package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/smazurov/procctl/internal/config"
	"github.com/smazurov/procctl/internal/logging"
	"github.com/smazurov/procctl/internal/metrics/exporters"
	"github.com/smazurov/procctl/internal/process"
	"github.com/spf13/cobra"
)

// ExitCodeError ends the program with Code without printing anything.
type ExitCodeError struct {
	Code int
}

func (e *ExitCodeError) Error() string {
	return "exit status " + strconv.Itoa(e.Code)
}

// NewRootCmd creates the procctl command tree.
func NewRootCmd() *cobra.Command {
	opts := DefaultOptions()

	root := &cobra.Command{
		Use:   "procctl",
		Short: "Signal, stop and hand off processes",
		Long: `procctl delivers signals to processes, stops services with a bounded ` +
			`graceful-shutdown sequence (request, wait, force kill) and replaces itself ` +
			`with another program while keeping its PID.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setup(opts, cmd)
		},
	}

	root.PersistentFlags().StringVarP(&opts.Config, "config", "c", opts.Config, "Path to configuration file")
	root.PersistentFlags().StringVar(&opts.LoggingLevel, "log-level", opts.LoggingLevel, "Global logging level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.LoggingFormat, "log-format", opts.LoggingFormat, "Logging format (text, json)")

	root.AddCommand(
		newPIDCmd(),
		newAliveCmd(),
		newSignalsCmd(),
		newStopCmd(opts),
		newGuardCmd(opts),
		newExecCmd(),
		newUpgradeCmd(opts),
		newVersionCmd(),
	)
	root.AddCommand(platformCommands(opts)...)

	return root
}

// setup loads configuration and initializes logging before any subcommand runs.
func setup(opts *Options, cmd *cobra.Command) error {
	if err := config.LoadConfig(opts, cmd); err != nil {
		return err
	}

	// Module overrides come from the [logging] table only.
	loggingConfig := config.LoadLoggingConfig(opts.Config)
	loggingConfig.Level = opts.LoggingLevel
	loggingConfig.Format = opts.LoggingFormat
	logging.Initialize(loggingConfig)
	return nil
}

// Execute runs the command tree and returns the process exit status.
// SIGINT and SIGTERM cancel the command context.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	logging.GetLogger("main").Error("Command failed", "error", err, "code", process.Code(err))
	return 1
}

// writeMetricsFile dumps all metrics for the textfile collector when path is set.
func writeMetricsFile(path string, logger *slog.Logger) {
	if path == "" {
		return
	}
	if err := exporters.WriteTextfile(path); err != nil {
		logger.Warn("Failed to write metrics file", "path", path, "error", err)
	}
}
