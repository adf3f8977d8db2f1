package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/smazurov/procctl/internal/process"
	"github.com/smazurov/procctl/internal/version"
	"github.com/spf13/cobra"
)

func newPIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pid",
		Short: "Print the PID of procctl itself",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), process.CurrentPID())
		},
	}
}

func newAliveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alive <pid>",
		Short: "Report whether a process is running",
		Long:  `Prints true or false. The exit status is 1 when the process is not running.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := process.ParsePID(args[0])
			if err != nil {
				return err
			}
			alive := process.IsAlive(pid)
			fmt.Fprintln(cmd.OutOrStdout(), alive)
			if !alive {
				return &ExitCodeError{Code: 1}
			}
			return nil
		},
	}
}

func newSignalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signals",
		Short: "List the signal names procctl accepts",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, sig := range process.Signals() {
				fmt.Fprintln(cmd.OutOrStdout(), sig)
			}
		},
	}
}

func newExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec -- <command> [args...]",
		Short: "Replace procctl with another program, keeping the PID",
		Long: `Resolves command through PATH and replaces the procctl process image with it. ` +
			`On Windows the command runs as a child and procctl exits with its exit code.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return process.BecomeCommand(args[0], args[1:])
		},
	}
}

func newVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			fmt.Fprintln(cmd.OutOrStdout(), info)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}
