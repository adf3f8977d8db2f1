//go:build windows

package process

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/windows"
)

const (
	stillActive = 259

	// terminateWaitMillis bounds how long Terminate waits for the exit code
	// to settle after TerminateProcess returns.
	terminateWaitMillis = 1000
)

// CurrentPID returns the PID of the calling process.
func CurrentPID() PID {
	return PID(windows.GetCurrentProcessId())
}

// IsAlive reports whether pid refers to a running process.
func IsAlive(pid PID) bool {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		// The process exists but we may not query it.
		return errors.Is(err, windows.ERROR_ACCESS_DENIED)
	}
	defer windows.CloseHandle(h) //nolint:errcheck

	var code uint32
	if err := windows.GetExitCodeProcess(h, &code); err != nil {
		return false
	}
	return code == stillActive
}

// Terminate forcibly ends pid and returns its exit code, or the best value
// known when the code has not settled yet.
//
// Windows has no signal delivery, so this is the only way to stop a process
// by identity. The process handle is closed before returning.
func Terminate(pid PID) (uint32, error) {
	h, err := windows.OpenProcess(windows.PROCESS_TERMINATE|windows.PROCESS_QUERY_LIMITED_INFORMATION|windows.SYNCHRONIZE, false, uint32(pid))
	if err != nil {
		return 0, winError(err, fmt.Sprintf("open process %d", pid))
	}
	defer windows.CloseHandle(h) //nolint:errcheck

	if err := windows.TerminateProcess(h, 1); err != nil {
		return 0, winError(err, fmt.Sprintf("terminate process %d", pid))
	}

	_, _ = windows.WaitForSingleObject(h, terminateWaitMillis)

	var code uint32
	if err := windows.GetExitCodeProcess(h, &code); err != nil || code == stillActive {
		return 1, nil
	}
	return code, nil
}

// BecomeCommand runs command in place of the calling program.
//
// Windows cannot replace a process image, so the command runs as a child that
// inherits stdio and environment, and the calling process exits with the
// child's exit code. It returns only if the command could not be started.
func BecomeCommand(command string, args []string) error {
	path, err := exec.LookPath(command)
	if err != nil {
		return newError(ErrCodeExecFailed, fmt.Sprintf("resolve %q", command), err)
	}

	cmd := exec.Command(path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()

	if err := cmd.Start(); err != nil {
		return newError(ErrCodeExecFailed, fmt.Sprintf("start %s", path), err)
	}

	err = cmd.Wait()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.ExitCode())
	}
	if err != nil {
		os.Exit(1)
	}
	os.Exit(0)
	return nil
}

func winError(err error, message string) error {
	switch {
	case errors.Is(err, windows.ERROR_INVALID_PARAMETER):
		return newError(ErrCodeNoSuchProcess, message, err)
	case errors.Is(err, windows.ERROR_ACCESS_DENIED):
		return newError(ErrCodePermissionDenied, message, err)
	default:
		return fmt.Errorf("%s: %w", message, err)
	}
}
