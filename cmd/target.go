package cmd

import (
	"context"
	"errors"

	"github.com/smazurov/procctl/internal/process"
	"github.com/smazurov/procctl/internal/systemd"
	"github.com/spf13/cobra"
)

// targetFlags selects the process to act on, either by PID argument or by
// the main process of a systemd service.
type targetFlags struct {
	unit string
	user bool
}

func (t *targetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&t.unit, "unit", "", "Act on the main process of this systemd service")
	cmd.Flags().BoolVar(&t.user, "user", false, "Look up --unit in the user service manager")
}

func (t *targetFlags) resolve(ctx context.Context, args []string) (process.PID, error) {
	if t.unit == "" {
		if len(args) != 1 {
			return 0, errors.New("expected a pid argument or --unit")
		}
		return process.ParsePID(args[0])
	}
	if len(args) != 0 {
		return 0, errors.New("a pid argument cannot be combined with --unit")
	}

	mgr, err := systemd.NewManager(ctx, t.user)
	if err != nil {
		return 0, err
	}
	defer mgr.Close()
	return mgr.ServicePID(ctx, t.unit)
}

// addPolicyFlags binds the shutdown policy options to cmd's flags.
func addPolicyFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().Var(&opts.ShutdownSignal, "signal", "Signal that asks the process to shut down")
	cmd.Flags().Var(&opts.ShutdownTimeout, "timeout", "Seconds to wait after the signal before killing")
	cmd.Flags().DurationVar(&opts.ShutdownPollInterval, "poll-interval", opts.ShutdownPollInterval, "Liveness probe interval (0 = default)")
	cmd.Flags().DurationVar(&opts.ShutdownKillGrace, "kill-grace", opts.ShutdownKillGrace, "Wait after the force kill before giving up (0 = default)")
}
