//go:build unix

package process

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// posixSignals maps every supported Signal to its OS number. It must stay
// exhaustive over the Signal set and must not be exported: numbers never
// flow back into the Signal type.
var posixSignals = map[Signal]syscall.Signal{
	SIGINT:  unix.SIGINT,
	SIGILL:  unix.SIGILL,
	SIGABRT: unix.SIGABRT,
	SIGFPE:  unix.SIGFPE,
	SIGKILL: unix.SIGKILL,
	SIGSEGV: unix.SIGSEGV,
	SIGTERM: unix.SIGTERM,
	SIGHUP:  unix.SIGHUP,
	SIGQUIT: unix.SIGQUIT,
	SIGALRM: unix.SIGALRM,
	SIGUSR1: unix.SIGUSR1,
	SIGUSR2: unix.SIGUSR2,
	SIGCHLD: unix.SIGCHLD,
}

// CurrentPID returns the PID of the calling process.
func CurrentPID() PID {
	return PID(unix.Getpid())
}

// IsAlive reports whether pid refers to a running process.
//
// It sends the null signal. EPERM means the process exists but belongs to
// someone else, so it counts as alive. Unreaped zombies count as dead.
func IsAlive(pid PID) bool {
	if pid <= 0 {
		return false
	}
	if err := unix.Kill(int(pid), 0); err != nil && !errors.Is(err, unix.EPERM) {
		return false
	}
	return !isDefunct(pid)
}

// SendSignal delivers sig to pid with kill(2).
//
// A pid that does not exist yields ErrNoSuchProcess and missing rights yield
// ErrPermissionDenied. The errno is kept as the error's cause.
func SendSignal(pid PID, sig Signal) error {
	num, ok := posixSignals[sig]
	if !ok {
		return newError(ErrCodeInvalidSignalName, fmt.Sprintf("unsupported signal %s", sig), nil)
	}
	if pid <= 0 {
		return newError(ErrCodeNoSuchProcess, fmt.Sprintf("signal %s to pid %d", sig, pid), unix.ESRCH)
	}
	if err := unix.Kill(int(pid), num); err != nil {
		return errnoError(err, fmt.Sprintf("signal %s to pid %d", sig, pid))
	}
	return nil
}

// BecomeCommand replaces the calling process image with command, keeping the
// PID. command is resolved through PATH. On success it does not return.
func BecomeCommand(command string, args []string) error {
	path, err := exec.LookPath(command)
	if err != nil {
		return newError(ErrCodeExecFailed, fmt.Sprintf("resolve %q", command), err)
	}

	argv := make([]string, 0, len(args)+1)
	argv = append(argv, command)
	argv = append(argv, args...)

	err = unix.Exec(path, argv, os.Environ())
	return newError(ErrCodeExecFailed, fmt.Sprintf("exec %s", path), err)
}

func errnoError(err error, message string) error {
	switch {
	case errors.Is(err, unix.ESRCH):
		return newError(ErrCodeNoSuchProcess, message, err)
	case errors.Is(err, unix.EPERM):
		return newError(ErrCodePermissionDenied, message, err)
	default:
		return fmt.Errorf("%s: %w", message, err)
	}
}
