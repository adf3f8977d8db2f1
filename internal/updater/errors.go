package updater

import "fmt"

// Error codes for update operations.
const (
	ErrCodeInvalidState  = "INVALID_STATE"
	ErrCodeCheckFailed   = "CHECK_FAILED"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeNoUpdate      = "NO_UPDATE"
	ErrCodeApplyFailed   = "APPLY_FAILED"
	ErrCodeHandoffFailed = "HANDOFF_FAILED"
	ErrCodeDisabled      = "DISABLED"
)

// Sentinels for errors.Is.
var (
	ErrNotFound = &Error{Code: ErrCodeNotFound}
	ErrNoUpdate = &Error{Code: ErrCodeNoUpdate}
	ErrDisabled = &Error{Code: ErrCodeDisabled}
)

// Error represents an update-specific error with a code.
type Error struct {
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a sentinel with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Cause == nil && t.Code == e.Code
}

func newError(code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
