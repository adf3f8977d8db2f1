package process

import (
	"errors"
	"fmt"
	"syscall"
	"testing"
)

func TestErrorIsMatchesCode(t *testing.T) {
	err := newError(ErrCodeNoSuchProcess, "signal TERM to pid 42", syscall.ESRCH)

	if !errors.Is(err, ErrNoSuchProcess) {
		t.Error("errors.Is(err, ErrNoSuchProcess) = false, want true")
	}
	if errors.Is(err, ErrPermissionDenied) {
		t.Error("errors.Is(err, ErrPermissionDenied) = true, want false")
	}
	if !errors.Is(err, syscall.ESRCH) {
		t.Error("OS errno is not reachable through Unwrap")
	}

	wrapped := fmt.Errorf("stop: %w", err)
	if got := Code(wrapped); got != ErrCodeNoSuchProcess {
		t.Errorf("Code() = %q, want %q", got, ErrCodeNoSuchProcess)
	}
	if got := Code(errors.New("plain")); got != "" {
		t.Errorf("Code(plain) = %q, want empty", got)
	}
}

func TestAccessDeniedAliasesPermissionDenied(t *testing.T) {
	err := newError(ErrCodePermissionDenied, "terminate", nil)
	if !errors.Is(err, ErrAccessDenied) {
		t.Error("errors.Is(err, ErrAccessDenied) = false, want true")
	}
}

func TestErrorMessage(t *testing.T) {
	err := newError(ErrCodeExecFailed, "exec /bin/nope", syscall.ENOENT)
	want := "EXEC_FAILED: exec /bin/nope: " + syscall.ENOENT.Error()
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
