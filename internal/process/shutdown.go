package process

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

const defaultShutdownTimeoutSeconds = 8

// ShutdownTimeout is the number of seconds to wait after sending the shutdown
// signal before a process is killed.
//
// Its external form is a bare integer in every encoding.
type ShutdownTimeout uint32

// DefaultShutdownTimeout returns the timeout used when none is configured.
func DefaultShutdownTimeout() ShutdownTimeout {
	return defaultShutdownTimeoutSeconds
}

// ParseShutdownTimeout parses a non-negative decimal count of seconds that
// fits in 32 bits.
func ParseShutdownTimeout(text string) (ShutdownTimeout, error) {
	seconds, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		return 0, newError(ErrCodeInvalidTimeoutValue, fmt.Sprintf("invalid shutdown timeout %q", text), err)
	}
	return ShutdownTimeout(seconds), nil
}

// Duration converts the timeout to a time.Duration.
func (t ShutdownTimeout) Duration() time.Duration {
	return time.Duration(t) * time.Second
}

func (t ShutdownTimeout) String() string {
	return strconv.FormatUint(uint64(t), 10)
}

// MarshalText implements encoding.TextMarshaler.
func (t ShutdownTimeout) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ShutdownTimeout) UnmarshalText(text []byte) error {
	parsed, err := ParseShutdownTimeout(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON writes the timeout as a bare number.
func (t ShutdownTimeout) MarshalJSON() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalJSON accepts a bare number only. A JSON null leaves t unchanged.
func (t *ShutdownTimeout) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var seconds uint32
	if err := json.Unmarshal(data, &seconds); err != nil {
		return newError(ErrCodeInvalidTimeoutValue, fmt.Sprintf("invalid shutdown timeout %s", data), err)
	}
	*t = ShutdownTimeout(seconds)
	return nil
}

// Set implements pflag.Value.
func (t *ShutdownTimeout) Set(text string) error {
	return t.UnmarshalText([]byte(text))
}

// Type implements pflag.Value.
func (t *ShutdownTimeout) Type() string {
	return "seconds"
}

// ShutdownSignal is the signal sent to a service to ask it to shut down.
//
// The zero value is usable and means the default, TERM. On the wire the
// wrapper is transparent: it encodes as the signal name.
type ShutdownSignal struct {
	sig Signal
}

// NewShutdownSignal wraps sig.
func NewShutdownSignal(sig Signal) ShutdownSignal {
	return ShutdownSignal{sig: sig}
}

// DefaultShutdownSignal returns the signal used when none is configured.
func DefaultShutdownSignal() ShutdownSignal {
	return ShutdownSignal{sig: SIGTERM}
}

// ParseShutdownSignal parses a signal name, see ParseSignal.
func ParseShutdownSignal(text string) (ShutdownSignal, error) {
	sig, err := ParseSignal(text)
	if err != nil {
		return ShutdownSignal{}, err
	}
	return ShutdownSignal{sig: sig}, nil
}

// Signal returns the wrapped signal.
func (s ShutdownSignal) Signal() Signal {
	if !s.sig.Valid() {
		return SIGTERM
	}
	return s.sig
}

func (s ShutdownSignal) String() string {
	return s.Signal().String()
}

// MarshalText implements encoding.TextMarshaler.
func (s ShutdownSignal) MarshalText() ([]byte, error) {
	return s.Signal().MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ShutdownSignal) UnmarshalText(text []byte) error {
	parsed, err := ParseShutdownSignal(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// UnmarshalJSON accepts a signal name string. A JSON null leaves s unchanged.
func (s *ShutdownSignal) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return newError(ErrCodeInvalidSignalName, fmt.Sprintf("invalid shutdown signal %s", data), err)
	}
	return s.UnmarshalText([]byte(name))
}

// Set implements pflag.Value.
func (s *ShutdownSignal) Set(text string) error {
	return s.UnmarshalText([]byte(text))
}

// Type implements pflag.Value.
func (s *ShutdownSignal) Type() string {
	return "signal"
}
