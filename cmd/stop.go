package cmd

import (
	"fmt"
	"time"

	"github.com/smazurov/procctl/internal/logging"
	"github.com/smazurov/procctl/internal/shutdown"
	"github.com/spf13/cobra"
)

func newStopCmd(opts *Options) *cobra.Command {
	var target targetFlags

	cmd := &cobra.Command{
		Use:   "stop [pid]",
		Short: "Stop a process: request shutdown, wait, then force kill",
		Long: `Sends the shutdown signal, waits up to the timeout for the process to exit ` +
			`and kills it if it is still running. Prints the pid, the outcome ` +
			`(already_stopped, graceful, forced) and the elapsed time.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("shutdown")

			pid, err := target.resolve(cmd.Context(), args)
			if err != nil {
				return err
			}

			stopper := shutdown.NewStopper(shutdown.Options{
				PollInterval: opts.ShutdownPollInterval,
				KillGrace:    opts.ShutdownKillGrace,
				Logger:       logger,
			})

			result, err := stopper.Stop(cmd.Context(), pid, opts.Policy())
			writeMetricsFile(opts.MetricsFile, logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", result.PID, result.Outcome, result.Elapsed.Round(time.Millisecond))
			return nil
		},
	}

	addPolicyFlags(cmd, opts)
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", opts.MetricsFile, "Write metrics to this file for the node-exporter textfile collector")
	target.register(cmd)

	return cmd
}
