package cmd

import (
	"errors"
	"fmt"

	"github.com/smazurov/procctl/internal/updater"
	"github.com/spf13/cobra"
)

// updaterStatus exposes why an updater stopped.
type updaterStatus interface {
	State() updater.State
	LastError() error
}

// upgradeFailure adds the updater's recorded failure to err when err does
// not already carry it.
func upgradeFailure(u updaterStatus, err error) error {
	last := u.LastError()
	if last == nil || errors.Is(err, last) {
		return err
	}
	return fmt.Errorf("%w (updater %s: %v)", err, u.State(), last)
}

func newUpgradeCmd(opts *Options) *cobra.Command {
	var checkOnly bool

	cmd := &cobra.Command{
		Use:   "upgrade [-- command args...]",
		Short: "Install the latest release and hand off to it",
		Long: `Downloads the latest release, replaces the procctl binary and then replaces ` +
			`the running process with the new binary, keeping the PID. The new binary runs ` +
			`the given procctl arguments, or "version" when none are given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := updater.New(updater.Options{
				Repository: opts.UpdateRepository,
				Prerelease: opts.UpdatePrerelease,
			})
			if err != nil {
				return err
			}
			if !u.IsEnabled() {
				return fmt.Errorf("upgrade disabled: %s", u.DisabledReason())
			}

			out := cmd.OutOrStdout()

			if checkOnly {
				info, checkErr := u.CheckForUpdate(cmd.Context())
				if checkErr != nil {
					return upgradeFailure(u, checkErr)
				}
				if info.UpdateAvailable {
					fmt.Fprintf(out, "update available: %s -> %s\n", info.CurrentVersion, info.LatestVersion)
				} else {
					fmt.Fprintf(out, "up to date: %s\n", info.CurrentVersion)
				}
				return nil
			}

			info, err := u.ApplyUpdate(cmd.Context())
			if errors.Is(err, updater.ErrNoUpdate) {
				fmt.Fprintf(out, "up to date: %s\n", info.CurrentVersion)
				return nil
			}
			if err != nil {
				return upgradeFailure(u, err)
			}
			fmt.Fprintf(out, "updated: %s -> %s\n", info.CurrentVersion, info.LatestVersion)

			if len(args) == 0 {
				args = []string{"version"}
			}
			return upgradeFailure(u, u.HandOff(args))
		},
	}

	cmd.Flags().StringVar(&opts.UpdateRepository, "repository", opts.UpdateRepository, "GitHub repository to update from (owner/name)")
	cmd.Flags().BoolVar(&opts.UpdatePrerelease, "prerelease", opts.UpdatePrerelease, "Include prereleases")
	cmd.Flags().BoolVar(&checkOnly, "check", false, "Only report whether an update is available")

	return cmd
}
