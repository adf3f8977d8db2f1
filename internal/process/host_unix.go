//go:build unix

package process

// RequestShutdown delivers the configured shutdown signal.
func (Host) RequestShutdown(pid PID, sig ShutdownSignal) error {
	return SendSignal(pid, sig.Signal())
}

// ForceKill delivers KILL.
func (Host) ForceKill(pid PID) error {
	return SendSignal(pid, SIGKILL)
}
