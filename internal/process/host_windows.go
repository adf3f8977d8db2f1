//go:build windows

package process

// RequestShutdown terminates pid. Windows offers no catchable notification
// that can be sent to an arbitrary process, so every signal resolves to
// Terminate.
func (Host) RequestShutdown(pid PID, _ ShutdownSignal) error {
	_, err := Terminate(pid)
	return err
}

// ForceKill terminates pid.
func (Host) ForceKill(pid PID) error {
	_, err := Terminate(pid)
	return err
}
