// Package updater replaces the running procctl binary with a newer release
// and hands execution over to it without changing the PID.
package updater

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/smazurov/procctl/internal/logging"
	"github.com/smazurov/procctl/internal/process"
	"github.com/smazurov/procctl/internal/version"
)

// Updater checks for, applies and hands off to new releases.
type Updater struct {
	repository selfupdate.Repository
	updater    *selfupdate.Updater
	ctl        process.Controller

	mu            sync.RWMutex
	state         State
	latestRelease *selfupdate.Release
	lastError     error

	enabled        bool
	disabledReason string

	logger *slog.Logger
}

// New creates an Updater. When the executable's directory is not writable
// the Updater is returned disabled rather than failing.
func New(opts Options) (*Updater, error) {
	logger := logging.GetLogger("updater")

	if opts.Controller == nil {
		opts.Controller = process.Host{}
	}

	canWrite, reason := checkWritePermission()
	if !canWrite {
		logger.Warn("Update disabled", "reason", reason)
		return &Updater{
			ctl:            opts.Controller,
			enabled:        false,
			disabledReason: reason,
			state:          StateIdle,
			logger:         logger,
		}, nil
	}

	source := opts.Source
	if source == nil {
		gh, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
		if err != nil {
			return nil, fmt.Errorf("failed to create GitHub source: %w", err)
		}
		source = gh
	}

	updater, err := selfupdate.NewUpdater(selfupdate.Config{
		Source:     source,
		Prerelease: opts.Prerelease,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create updater: %w", err)
	}

	return &Updater{
		repository: selfupdate.ParseSlug(opts.Repository),
		updater:    updater,
		ctl:        opts.Controller,
		state:      StateIdle,
		enabled:    true,
		logger:     logger.With("repository", opts.Repository),
	}, nil
}

func checkWritePermission() (bool, string) {
	exe, err := os.Executable()
	if err != nil {
		return false, fmt.Sprintf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return false, fmt.Sprintf("failed to resolve symlinks: %v", err)
	}

	dir := filepath.Dir(exe)

	f, err := os.CreateTemp(dir, ".procctl.update.*")
	if err != nil {
		return false, fmt.Sprintf("no write permission to %s: %v", dir, err)
	}
	f.Close()
	os.Remove(f.Name())
	return true, ""
}

// IsEnabled reports whether updates can be applied.
func (u *Updater) IsEnabled() bool {
	return u.enabled
}

// DisabledReason returns why updates are disabled, or "".
func (u *Updater) DisabledReason() string {
	return u.disabledReason
}

// State returns the current update state.
func (u *Updater) State() State {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.state
}

// CheckForUpdate queries the release source for the latest release and
// compares it against the running version. Nothing is downloaded.
func (u *Updater) CheckForUpdate(ctx context.Context) (*UpdateInfo, error) {
	if !u.enabled {
		return nil, newError(ErrCodeDisabled, u.disabledReason, nil)
	}

	if !u.transitionTo(StateChecking, StateIdle, StateAvailable, StateError) {
		return nil, newError(ErrCodeInvalidState,
			fmt.Sprintf("cannot check for updates in state %s", u.State()), nil)
	}

	currentVersion := version.Version

	release, found, err := u.updater.DetectLatest(ctx, u.repository)
	if err != nil {
		u.setError(err)
		return nil, newError(ErrCodeCheckFailed, "failed to check for updates", err)
	}
	if !found {
		u.setError(fmt.Errorf("no release found"))
		return nil, newError(ErrCodeNotFound, "repository not found or has no releases", nil)
	}

	// dev builds are always outdated
	if currentVersion != "dev" && !release.GreaterThan(currentVersion) {
		u.transitionTo(StateIdle)
		return &UpdateInfo{
			CurrentVersion:  currentVersion,
			LatestVersion:   release.Version(),
			UpdateAvailable: false,
		}, nil
	}

	u.mu.Lock()
	u.latestRelease = release
	u.mu.Unlock()
	u.transitionTo(StateAvailable)

	return &UpdateInfo{
		CurrentVersion:  currentVersion,
		LatestVersion:   release.Version(),
		ReleaseNotes:    release.ReleaseNotes,
		ReleaseURL:      release.URL,
		PublishedAt:     release.PublishedAt,
		AssetSize:       release.AssetByteSize,
		UpdateAvailable: true,
	}, nil
}

// ApplyUpdate downloads the latest release and replaces the executable on
// disk. The running process is untouched; call HandOff to switch to it.
func (u *Updater) ApplyUpdate(ctx context.Context) (*UpdateInfo, error) {
	if !u.enabled {
		return nil, newError(ErrCodeDisabled, u.disabledReason, nil)
	}

	info, err := u.CheckForUpdate(ctx)
	if err != nil {
		return nil, err
	}
	if !info.UpdateAvailable {
		return info, newError(ErrCodeNoUpdate, "no update available", nil)
	}

	if !u.transitionTo(StateApplying, StateAvailable) {
		return nil, newError(ErrCodeInvalidState,
			fmt.Sprintf("cannot apply update in state %s", u.State()), nil)
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		u.setError(err)
		return nil, newError(ErrCodeApplyFailed, "failed to get executable path", err)
	}

	u.mu.RLock()
	release := u.latestRelease
	u.mu.RUnlock()

	if err := u.updater.UpdateTo(ctx, release, exe); err != nil {
		u.setError(err)
		return nil, newError(ErrCodeApplyFailed, "failed to apply update", err)
	}

	u.transitionTo(StateApplied)
	u.logger.Info("Update applied", "version", release.Version(), "path", exe)
	return info, nil
}

// HandOff replaces the running process with the executable on disk, run
// with args. On POSIX the PID is kept, so a supervisor tracking it sees no
// exit. It returns only on failure.
func (u *Updater) HandOff(args []string) error {
	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return newError(ErrCodeHandoffFailed, "failed to get executable path", err)
	}

	u.transitionTo(StateHandoff)
	u.logger.Info("Handing off to updated binary", "path", exe, "args", args)

	if err := u.ctl.BecomeCommand(exe, args); err != nil {
		u.setError(err)
		return newError(ErrCodeHandoffFailed, "failed to exec updated binary", err)
	}
	return nil
}

func (u *Updater) transitionTo(newState State, validFromStates ...State) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	if len(validFromStates) > 0 && !slices.Contains(validFromStates, u.state) {
		return false
	}

	u.logger.Debug("State transition", "from", u.state, "to", newState)
	u.state = newState
	u.lastError = nil
	return true
}

func (u *Updater) setError(err error) {
	u.mu.Lock()
	u.lastError = err
	u.state = StateError
	u.mu.Unlock()
}

// LastError returns the error that moved the updater into StateError.
func (u *Updater) LastError() error {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.lastError
}
