package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/smazurov/procctl/internal/config"
	"github.com/smazurov/procctl/internal/events"
	"github.com/smazurov/procctl/internal/logging"
	"github.com/smazurov/procctl/internal/metrics/exporters"
	"github.com/smazurov/procctl/internal/process"
	"github.com/smazurov/procctl/internal/shutdown"
	"github.com/smazurov/procctl/internal/systemd"
	"github.com/spf13/cobra"
)

const guardPollInterval = 500 * time.Millisecond

// statusNotifier reports guard progress to the service manager.
type statusNotifier interface {
	Ready(status string) error
	Stopping(status string) error
	Status(status string) error
}

// guard watches one process and stops it when procctl is told to stop.
type guard struct {
	ctl      process.Controller
	policy   func() config.ShutdownConfig
	bus      *events.Bus
	notifier statusNotifier
	poll     time.Duration
	logger   *slog.Logger
}

// run blocks until pid exits on its own or ctx is cancelled. On cancellation
// pid is stopped with the policy current at that moment; the stop itself is
// not cancelled.
func (g *guard) run(ctx context.Context, pid process.PID) (shutdown.Result, error) {
	logger := g.logger.With("pid", pid.String())
	g.notify(g.notifier.Ready, fmt.Sprintf("guarding pid %s", pid))
	logger.Info("Guarding process")

	ticker := time.NewTicker(g.poll)
	defer ticker.Stop()

	for {
		if !g.ctl.IsAlive(pid) {
			logger.Info("Process exited on its own")
			g.notify(g.notifier.Status, fmt.Sprintf("pid %s exited", pid))
			return shutdown.Result{PID: pid, Outcome: shutdown.OutcomeAlreadyStopped}, nil
		}

		select {
		case <-ctx.Done():
			cfg := g.policy()
			logger.Info("Guard interrupted, stopping process",
				"signal", cfg.Policy.Signal.String(),
				"timeout", cfg.Policy.Timeout.Duration())
			g.notify(g.notifier.Stopping, fmt.Sprintf("stopping pid %s with %s", pid, cfg.Policy.Signal))

			stopper := shutdown.NewStopper(shutdown.Options{
				Controller:   g.ctl,
				PollInterval: cfg.PollInterval,
				KillGrace:    cfg.KillGrace,
				Logger:       logging.GetLogger("shutdown"),
				Events:       g.bus,
			})
			return stopper.Stop(context.WithoutCancel(ctx), pid, cfg.Policy)

		case <-ticker.C:
		}
	}
}

func (g *guard) notify(send func(string) error, status string) {
	if err := send(status); err != nil {
		g.logger.Debug("Service manager notification failed", "error", err)
	}
}

func newGuardCmd(opts *Options) *cobra.Command {
	var target targetFlags

	cmd := &cobra.Command{
		Use:   "guard [pid]",
		Short: "Watch a process and stop it when procctl is told to stop",
		Long: `Blocks until the target exits or procctl receives SIGINT or SIGTERM, then runs ` +
			`the stop sequence. The [shutdown] table of the config file is reloaded when the ` +
			`file changes, so the policy in effect is the one current at stop time.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("guard")
			ctx := cmd.Context()

			pid, err := target.resolve(ctx, args)
			if err != nil {
				return err
			}

			bus := events.New()
			notifier := systemd.Notifier{}
			unsub := bus.Subscribe(func(e events.SignalDeliveredEvent) {
				if e.Forced {
					_ = notifier.Status(fmt.Sprintf("pid %s overdue, sent %s", e.PID, e.Signal))
				}
			})
			defer unsub()

			live := config.NewLivePolicy(opts.Config, opts.ShutdownConfig(), bus, logging.GetLogger("config"))
			if _, statErr := os.Stat(opts.Config); statErr == nil {
				if watchErr := live.Watch(); watchErr != nil {
					logger.Warn("Failed to start config watcher, hot-reload disabled", "error", watchErr)
				}
			}
			defer func() { _ = live.Stop() }()

			if opts.MetricsAddr != "" {
				srv := serveMetrics(opts.MetricsAddr, logger)
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
			}

			g := &guard{
				ctl:      process.Host{},
				policy:   live.Get,
				bus:      bus,
				notifier: notifier,
				poll:     guardPollInterval,
				logger:   logger,
			}
			result, err := g.run(ctx, pid)
			writeMetricsFile(opts.MetricsFile, logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", result.PID, result.Outcome, result.Elapsed.Round(time.Millisecond))
			return nil
		},
	}

	addPolicyFlags(cmd, opts)
	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", opts.MetricsAddr, "Serve /metrics on this address while guarding")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", opts.MetricsFile, "Write metrics to this file on exit")
	target.register(cmd)

	return cmd
}

func serveMetrics(addr string, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", exporters.HTTPHandler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", "error", err)
		}
	}()
	return srv
}
