package cmd

import (
	"time"

	"github.com/smazurov/procctl/internal/config"
	"github.com/smazurov/procctl/internal/process"
	"github.com/smazurov/procctl/internal/shutdown"
)

// Options for the CLI - flat structure with toml mapping. Each field can be
// set from the config file, a PROCCTL_ environment variable, or its flag.
type Options struct {
	Config string

	// Logging settings
	LoggingLevel  string `toml:"logging.level" env:"LOGGING_LEVEL" flag:"log-level"`
	LoggingFormat string `toml:"logging.format" env:"LOGGING_FORMAT" flag:"log-format"`

	// Shutdown policy
	ShutdownSignal       process.ShutdownSignal  `toml:"shutdown.signal" env:"SHUTDOWN_SIGNAL" flag:"signal"`
	ShutdownTimeout      process.ShutdownTimeout `toml:"shutdown.timeout" env:"SHUTDOWN_TIMEOUT" flag:"timeout"`
	ShutdownPollInterval time.Duration           `toml:"shutdown.poll_interval" env:"SHUTDOWN_POLL_INTERVAL" flag:"poll-interval"`
	ShutdownKillGrace    time.Duration           `toml:"shutdown.kill_grace" env:"SHUTDOWN_KILL_GRACE" flag:"kill-grace"`

	// Metrics
	MetricsAddr string `toml:"metrics.addr" env:"METRICS_ADDR" flag:"metrics-addr"`
	MetricsFile string `toml:"metrics.textfile" env:"METRICS_TEXTFILE" flag:"metrics-file"`

	// Self-update
	UpdateRepository string `toml:"update.repository" env:"UPDATE_REPOSITORY" flag:"repository"`
	UpdatePrerelease bool   `toml:"update.prerelease" env:"UPDATE_PRERELEASE" flag:"prerelease"`
}

// DefaultOptions returns the built-in defaults, the lowest precedence layer.
func DefaultOptions() *Options {
	return &Options{
		Config:           "/etc/procctl/procctl.toml",
		LoggingLevel:     "info",
		LoggingFormat:    "text",
		ShutdownSignal:   process.DefaultShutdownSignal(),
		ShutdownTimeout:  process.DefaultShutdownTimeout(),
		UpdateRepository: "smazurov/procctl",
	}
}

// Policy returns the shutdown policy selected by the options.
func (o *Options) Policy() shutdown.Policy {
	return shutdown.Policy{Signal: o.ShutdownSignal, Timeout: o.ShutdownTimeout}
}

// ShutdownConfig returns the [shutdown] settings selected by the options.
func (o *Options) ShutdownConfig() config.ShutdownConfig {
	return config.ShutdownConfig{
		Policy:       o.Policy(),
		PollInterval: o.ShutdownPollInterval,
		KillGrace:    o.ShutdownKillGrace,
	}
}
