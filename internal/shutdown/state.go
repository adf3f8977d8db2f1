package shutdown

import (
	"time"

	"github.com/smazurov/procctl/internal/process"
)

// State is the position of one stop sequence.
type State string

// Stop sequence states.
const (
	StateRunning  State = "running"  // Target alive, nothing sent yet
	StateStopping State = "stopping" // Shutdown requested, waiting for exit
	StateOverdue  State = "overdue"  // Timeout elapsed, force kill issued
	StateStopped  State = "stopped"  // Target gone
)

// Outcome describes how a stop sequence ended.
type Outcome string

// Stop outcomes.
const (
	OutcomeAlreadyStopped Outcome = "already_stopped"
	OutcomeGraceful       Outcome = "graceful"
	OutcomeForced         Outcome = "forced"
)

// Result contains information about a finished stop sequence.
type Result struct {
	PID     process.PID
	Outcome Outcome
	// Signal is the shutdown signal that was requested. It is the zero
	// value when the target was already gone.
	Signal  process.ShutdownSignal
	Elapsed time.Duration
}

// Policy controls how a service is asked to stop.
type Policy struct {
	Signal  process.ShutdownSignal  `toml:"signal" json:"signal"`
	Timeout process.ShutdownTimeout `toml:"timeout" json:"timeout"`
}

// DefaultPolicy returns TERM with the default timeout.
func DefaultPolicy() Policy {
	return Policy{
		Signal:  process.DefaultShutdownSignal(),
		Timeout: process.DefaultShutdownTimeout(),
	}
}

// StateChangeCallback is called synchronously on every state transition.
type StateChangeCallback func(pid process.PID, oldState, newState State)
