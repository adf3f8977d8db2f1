//go:build windows

package cmd

import (
	"fmt"

	"github.com/smazurov/procctl/internal/logging"
	"github.com/smazurov/procctl/internal/metrics"
	"github.com/smazurov/procctl/internal/process"
	"github.com/spf13/cobra"
)

func platformCommands(_ *Options) []*cobra.Command {
	return []*cobra.Command{newTerminateCmd()}
}

func newTerminateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "terminate <pid>",
		Short: "Forcibly end a process and print its exit code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := process.ParsePID(args[0])
			if err != nil {
				return err
			}

			code, err := process.Terminate(pid)
			if err != nil {
				metrics.RecordSignalError(process.Code(err))
				return err
			}
			metrics.RecordSignal(process.SIGKILL.String())
			logging.GetLogger("signal").Debug("Process terminated", "pid", pid.String(), "exit_code", code)

			fmt.Fprintln(cmd.OutOrStdout(), code)
			return nil
		},
	}
}
