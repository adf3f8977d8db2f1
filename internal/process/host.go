package process

// Controller is the platform-neutral set of process control operations a
// supervisor needs. Host is the implementation backed by the OS.
type Controller interface {
	// CurrentPID returns the PID of the calling process.
	CurrentPID() PID

	// IsAlive reports whether pid refers to a running process.
	IsAlive(pid PID) bool

	// RequestShutdown asks pid to shut down using the closest primitive the
	// platform offers for sig.
	RequestShutdown(pid PID, sig ShutdownSignal) error

	// ForceKill terminates pid unconditionally.
	ForceKill(pid PID) error

	// BecomeCommand hands execution of the calling process to command.
	BecomeCommand(command string, args []string) error
}

// Host controls processes on the local machine.
type Host struct{}

var _ Controller = Host{}

// CurrentPID implements Controller.
func (Host) CurrentPID() PID {
	return CurrentPID()
}

// IsAlive implements Controller.
func (Host) IsAlive(pid PID) bool {
	return IsAlive(pid)
}

// BecomeCommand implements Controller.
func (Host) BecomeCommand(command string, args []string) error {
	return BecomeCommand(command, args)
}
