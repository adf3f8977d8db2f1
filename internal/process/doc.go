// Package process provides cross-platform control over processes identified by PID.
//
// The package offers two layers:
//
// A shared vocabulary that is identical on every platform, so configuration files
// and CLI clients on any OS agree on one representation:
//   - Signal: a closed set of POSIX signal names (INT, TERM, KILL, ...)
//   - ShutdownSignal: the signal sent first when stopping a service (default TERM)
//   - ShutdownTimeout: seconds to wait before forcing termination (default 8)
//
// Platform primitives selected at build time:
//   - CurrentPID and IsAlive on every platform
//   - SendSignal on POSIX systems, delivered with kill(2)
//   - Terminate on Windows, where no signal delivery exists
//   - BecomeCommand, which replaces the running program with another one
//
// Host implements the platform-neutral Controller interface on top of these
// primitives. The package holds no state between calls and never owns the
// processes it acts on.
//
// Example:
//
//	var host process.Host
//	pid, _ := process.ParsePID("4242")
//	if host.IsAlive(pid) {
//	    err := host.RequestShutdown(pid, process.DefaultShutdownSignal())
//	    if errors.Is(err, process.ErrNoSuchProcess) {
//	        // already gone
//	    }
//	}
package process
