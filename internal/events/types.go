package events

import "time"

// Event type constants for kelindar/event.
const (
	TypeStopStateChanged uint32 = iota + 1
	TypeSignalDelivered
	TypePolicyReloaded
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// StopStateChangedEvent reports a transition of the stop sequence for one process.
type StopStateChangedEvent struct {
	PID       string    `json:"pid"`
	OldState  string    `json:"old_state"`
	NewState  string    `json:"new_state"`
	Timestamp time.Time `json:"timestamp"`
}

// Type returns the event type identifier for StopStateChangedEvent.
func (e StopStateChangedEvent) Type() uint32 { return TypeStopStateChanged }

// SignalDeliveredEvent reports an attempt to deliver a signal or termination.
// Error is empty when delivery succeeded.
type SignalDeliveredEvent struct {
	PID       string    `json:"pid"`
	Signal    string    `json:"signal"`
	Forced    bool      `json:"forced"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Type returns the event type identifier for SignalDeliveredEvent.
func (e SignalDeliveredEvent) Type() uint32 { return TypeSignalDelivered }

// PolicyReloadedEvent reports that the shutdown policy was reloaded from disk.
type PolicyReloadedEvent struct {
	Path      string    `json:"path"`
	Signal    string    `json:"signal"`
	Timeout   uint32    `json:"timeout"`
	Timestamp time.Time `json:"timestamp"`
}

// Type returns the event type identifier for PolicyReloadedEvent.
func (e PolicyReloadedEvent) Type() uint32 { return TypePolicyReloaded }
