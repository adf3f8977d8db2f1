// Package shutdown runs the bounded stop sequence for a process: request a
// graceful shutdown, wait up to the policy timeout, then force kill.
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/smazurov/procctl/internal/events"
	"github.com/smazurov/procctl/internal/logging"
	"github.com/smazurov/procctl/internal/metrics"
	"github.com/smazurov/procctl/internal/process"
)

const (
	defaultPollInterval = 100 * time.Millisecond
	defaultKillGrace    = 5 * time.Second
)

// ErrStillAlive is returned when the target survives a force kill.
var ErrStillAlive = errors.New("process still alive after force kill")

// Options configures a Stopper.
type Options struct {
	// Controller defaults to process.Host{}.
	Controller process.Controller

	// PollInterval is how often liveness is probed while waiting.
	PollInterval time.Duration

	// KillGrace bounds the wait after the force kill.
	KillGrace time.Duration

	Logger        *slog.Logger
	Events        *events.Bus
	OnStateChange StateChangeCallback
}

// Stopper stops processes it does not own. It keeps no per-pid state, so one
// Stopper may stop different pids concurrently. Overlapping stops of the
// same pid need coordination by the caller.
type Stopper struct {
	ctl           process.Controller
	pollInterval  time.Duration
	killGrace     time.Duration
	logger        *slog.Logger
	bus           *events.Bus
	onStateChange StateChangeCallback
}

// NewStopper creates a Stopper, filling zero options with defaults.
func NewStopper(opts Options) *Stopper {
	if opts.Controller == nil {
		opts.Controller = process.Host{}
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.KillGrace <= 0 {
		opts.KillGrace = defaultKillGrace
	}
	if opts.Logger == nil {
		opts.Logger = logging.GetLogger("shutdown")
	}
	return &Stopper{
		ctl:           opts.Controller,
		pollInterval:  opts.PollInterval,
		killGrace:     opts.KillGrace,
		logger:        opts.Logger,
		bus:           opts.Events,
		onStateChange: opts.OnStateChange,
	}
}

// Stop runs the stop sequence for pid.
//
// A target that is already gone ends immediately with OutcomeAlreadyStopped
// and no signal sent, as does one that vanishes before the shutdown request
// lands. A NoSuchProcess error from the kill means the target exited on its
// own and is treated as success. Cancelling ctx aborts the wait and returns
// ctx.Err().
func (s *Stopper) Stop(ctx context.Context, pid process.PID, policy Policy) (Result, error) {
	start := time.Now()
	logger := s.logger.With("pid", pid.String())
	result := Result{PID: pid}

	finish := func(outcome Outcome, from State) (Result, error) {
		s.transition(pid, from, StateStopped)
		result.Outcome = outcome
		result.Elapsed = time.Since(start)
		metrics.RecordStop(string(outcome), result.Elapsed)
		logger.Info("Process stopped", "outcome", outcome, "elapsed", result.Elapsed)
		return result, nil
	}

	if !s.ctl.IsAlive(pid) {
		logger.Debug("Process not running")
		return finish(OutcomeAlreadyStopped, StateRunning)
	}

	sig := policy.Signal
	result.Signal = sig
	logger.Info("Requesting shutdown", "signal", sig.String(), "timeout", policy.Timeout.Duration())

	err := s.ctl.RequestShutdown(pid, sig)
	s.recordDelivery(pid, sig.String(), false, err)
	switch {
	case errors.Is(err, process.ErrNoSuchProcess):
		logger.Debug("Process exited before shutdown request")
		return finish(OutcomeAlreadyStopped, StateRunning)
	case err != nil:
		logger.Error("Failed to request shutdown", "signal", sig.String(), "error", err)
		return result, fmt.Errorf("request shutdown of pid %s: %w", pid, err)
	}
	s.transition(pid, StateRunning, StateStopping)

	exited, err := s.waitForExit(ctx, pid, policy.Timeout.Duration())
	if err != nil {
		return result, err
	}
	if exited {
		return finish(OutcomeGraceful, StateStopping)
	}

	logger.Warn("Graceful shutdown timeout, forcing kill", "timeout", policy.Timeout.Duration())
	s.transition(pid, StateStopping, StateOverdue)

	err = s.ctl.ForceKill(pid)
	s.recordDelivery(pid, process.SIGKILL.String(), true, err)
	if err != nil && !errors.Is(err, process.ErrNoSuchProcess) {
		logger.Error("Failed to kill process", "error", err)
		return result, fmt.Errorf("kill pid %s: %w", pid, err)
	}

	exited, err = s.waitForExit(ctx, pid, s.killGrace)
	if err != nil {
		return result, err
	}
	if !exited {
		logger.Error("Process did not exit after kill", "grace", s.killGrace)
		return result, fmt.Errorf("pid %s: %w", pid, ErrStillAlive)
	}
	return finish(OutcomeForced, StateOverdue)
}

// waitForExit polls liveness until pid is gone or timeout elapses. It reports
// whether the process exited. A zero timeout still probes once.
func (s *Stopper) waitForExit(ctx context.Context, pid process.PID, timeout time.Duration) (bool, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		if !s.ctl.IsAlive(pid) {
			return true, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-deadline.C:
			return !s.ctl.IsAlive(pid), nil
		case <-ticker.C:
		}
	}
}

func (s *Stopper) transition(pid process.PID, from, to State) {
	s.logger.Debug("Stop state changed", "pid", pid.String(), "from", from, "to", to)

	if s.onStateChange != nil {
		s.onStateChange(pid, from, to)
	}
	if s.bus != nil {
		s.bus.Publish(events.StopStateChangedEvent{
			PID:       pid.String(),
			OldState:  string(from),
			NewState:  string(to),
			Timestamp: time.Now(),
		})
	}
}

func (s *Stopper) recordDelivery(pid process.PID, signal string, forced bool, err error) {
	ev := events.SignalDeliveredEvent{
		PID:       pid.String(),
		Signal:    signal,
		Forced:    forced,
		Timestamp: time.Now(),
	}
	switch {
	case errors.Is(err, process.ErrNoSuchProcess):
		// Target already gone; nothing was delivered and nothing failed.
		ev.Error = err.Error()
	case err != nil:
		ev.Error = err.Error()
		metrics.RecordSignalError(process.Code(err))
	default:
		metrics.RecordSignal(signal)
	}
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}
