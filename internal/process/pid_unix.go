//go:build unix

package process

import (
	"fmt"
	"strconv"
)

// PID identifies a process. It is borrowed from whatever spawned the process
// and is only meaningful while that process exists.
type PID int

// ParsePID parses a positive decimal process id.
func ParsePID(text string) (PID, error) {
	n, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid pid %q: %w", text, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid pid %q: must be positive", text)
	}
	return PID(n), nil
}

func (p PID) String() string {
	return strconv.Itoa(int(p))
}
