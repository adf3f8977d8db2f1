package updater

import (
	"time"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/smazurov/procctl/internal/process"
)

// State represents the current state of the update process.
type State string

// Update states.
const (
	StateIdle      State = "idle"
	StateChecking  State = "checking"
	StateAvailable State = "available"
	StateApplying  State = "applying"
	StateApplied   State = "applied"
	StateHandoff   State = "handoff"
	StateError     State = "error"
)

// UpdateInfo contains information about an available update.
type UpdateInfo struct {
	CurrentVersion  string    `json:"current_version"`
	LatestVersion   string    `json:"latest_version"`
	ReleaseNotes    string    `json:"release_notes"`
	ReleaseURL      string    `json:"release_url"`
	PublishedAt     time.Time `json:"published_at"`
	AssetSize       int       `json:"asset_size"`
	UpdateAvailable bool      `json:"update_available"`
}

// Options contains configuration for the updater.
type Options struct {
	Repository string // GitHub repo slug (e.g., "smazurov/procctl")
	Prerelease bool   // Whether to include prereleases

	// Source defaults to the public GitHub API.
	Source selfupdate.Source

	// Controller performs the hand-off. Defaults to process.Host{}.
	Controller process.Controller
}
