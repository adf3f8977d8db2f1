package process

import (
	"errors"
	"fmt"
)

// Error codes for process control operations.
const (
	ErrCodeInvalidSignalName   = "INVALID_SIGNAL_NAME"
	ErrCodeInvalidTimeoutValue = "INVALID_TIMEOUT_VALUE"
	ErrCodeNoSuchProcess       = "NO_SUCH_PROCESS"
	ErrCodePermissionDenied    = "PERMISSION_DENIED"
	ErrCodeExecFailed          = "EXEC_FAILED"
)

// Sentinels for errors.Is. They match any *Error carrying the same code.
var (
	ErrInvalidSignalName   = &Error{Code: ErrCodeInvalidSignalName}
	ErrInvalidTimeoutValue = &Error{Code: ErrCodeInvalidTimeoutValue}
	ErrNoSuchProcess       = &Error{Code: ErrCodeNoSuchProcess}
	ErrPermissionDenied    = &Error{Code: ErrCodePermissionDenied}
	ErrExecFailed          = &Error{Code: ErrCodeExecFailed}

	// ErrAccessDenied is the Windows name for ErrPermissionDenied.
	ErrAccessDenied = ErrPermissionDenied
)

// Error represents a process control error with a code.
// Cause carries the underlying OS error (syscall.Errno on POSIX,
// windows.Errno on Windows) when there is one.
type Error struct {
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "process error"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a sentinel with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Cause == nil && t.Code == e.Code
}

// Code returns the error code carried by err, or "" if err is not an *Error.
func Code(err error) string {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Code
	}
	return ""
}

func newError(code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
