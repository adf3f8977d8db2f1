//go:build unix

package cmd

import (
	"github.com/smazurov/procctl/internal/logging"
	"github.com/smazurov/procctl/internal/metrics"
	"github.com/smazurov/procctl/internal/process"
	"github.com/spf13/cobra"
)

func platformCommands(_ *Options) []*cobra.Command {
	return []*cobra.Command{newSignalCmd()}
}

func newSignalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signal <pid> <SIGNAL>",
		Short: "Send a signal to a process",
		Long:  `SIGNAL is an exact uppercase name such as TERM or HUP; see "procctl signals".`,
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			pid, err := process.ParsePID(args[0])
			if err != nil {
				return err
			}
			sig, err := process.ParseSignal(args[1])
			if err != nil {
				return err
			}

			logger := logging.GetLogger("signal").With("pid", pid.String(), "signal", sig.String())
			if err := process.SendSignal(pid, sig); err != nil {
				metrics.RecordSignalError(process.Code(err))
				return err
			}
			metrics.RecordSignal(sig.String())
			logger.Debug("Signal delivered")
			return nil
		},
	}
}
