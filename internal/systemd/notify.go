package systemd

import (
	"fmt"

	"github.com/coreos/go-systemd/v22/daemon"
)

// Notifier reports guard progress to systemd when running under a
// Type=notify unit. Outside systemd every call is a no-op.
type Notifier struct{}

// Ready signals that the guard is watching its target.
func (Notifier) Ready(status string) error {
	return notify(daemon.SdNotifyReady + "\n" + statusLine(status))
}

// Stopping signals that the stop sequence has begun.
func (Notifier) Stopping(status string) error {
	return notify(daemon.SdNotifyStopping + "\n" + statusLine(status))
}

// Status updates the free-form status line shown by systemctl status.
func (Notifier) Status(status string) error {
	return notify(statusLine(status))
}

func statusLine(status string) string {
	return "STATUS=" + status
}

func notify(state string) error {
	if _, err := daemon.SdNotify(false, state); err != nil {
		return fmt.Errorf("sd_notify: %w", err)
	}
	return nil
}
