package process

import "fmt"

// Signal is one of the POSIX signals a supervisor understands.
//
// The set is the same on every platform so that a Windows CLI can talk to a
// Linux supervisor. The zero value is not a valid signal.
type Signal uint8

// Supported signals.
const (
	SIGINT Signal = iota + 1
	SIGILL
	SIGABRT
	SIGFPE
	SIGKILL
	SIGSEGV
	SIGTERM
	SIGHUP
	SIGQUIT
	SIGALRM
	SIGUSR1
	SIGUSR2
	SIGCHLD
)

var signalNames = [...]string{
	SIGINT:  "INT",
	SIGILL:  "ILL",
	SIGABRT: "ABRT",
	SIGFPE:  "FPE",
	SIGKILL: "KILL",
	SIGSEGV: "SEGV",
	SIGTERM: "TERM",
	SIGHUP:  "HUP",
	SIGQUIT: "QUIT",
	SIGALRM: "ALRM",
	SIGUSR1: "USR1",
	SIGUSR2: "USR2",
	SIGCHLD: "CHLD",
}

// Signals returns every supported signal in declaration order.
func Signals() []Signal {
	out := make([]Signal, 0, len(signalNames)-1)
	for s := SIGINT; int(s) < len(signalNames); s++ {
		out = append(out, s)
	}
	return out
}

// ParseSignal parses the exact uppercase name of a signal ("TERM", "HUP").
// Lowercase, "SIG"-prefixed and numeric forms are rejected.
func ParseSignal(name string) (Signal, error) {
	for s := SIGINT; int(s) < len(signalNames); s++ {
		if signalNames[s] == name {
			return s, nil
		}
	}
	return 0, newError(ErrCodeInvalidSignalName, fmt.Sprintf("invalid signal name %q", name), nil)
}

// Valid reports whether s is a member of the supported set.
func (s Signal) Valid() bool {
	return s >= SIGINT && int(s) < len(signalNames)
}

func (s Signal) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Signal(%d)", uint8(s))
	}
	return signalNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Signal) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, newError(ErrCodeInvalidSignalName, fmt.Sprintf("invalid signal %d", uint8(s)), nil)
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Signal) UnmarshalText(text []byte) error {
	parsed, err := ParseSignal(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
