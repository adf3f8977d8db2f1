package config

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/smazurov/procctl/internal/events"
)

// LivePolicy holds the current [shutdown] table and follows the config file
// when watched. It is safe for concurrent use.
type LivePolicy struct {
	current atomic.Pointer[ShutdownConfig]
	path    string
	bus     *events.Bus
	logger  *slog.Logger
	watcher *Watcher[ShutdownConfig]
}

// NewLivePolicy starts from initial. bus may be nil.
func NewLivePolicy(path string, initial ShutdownConfig, bus *events.Bus, logger *slog.Logger) *LivePolicy {
	lp := &LivePolicy{path: path, bus: bus, logger: logger}
	lp.current.Store(&initial)
	return lp
}

// Get returns the current snapshot.
func (lp *LivePolicy) Get() ShutdownConfig {
	return *lp.current.Load()
}

// Set replaces the snapshot and publishes a PolicyReloadedEvent.
func (lp *LivePolicy) Set(cfg ShutdownConfig) {
	lp.current.Store(&cfg)
	lp.logger.Info("Shutdown policy reloaded",
		"signal", cfg.Policy.Signal.String(),
		"timeout", cfg.Policy.Timeout.Duration())

	if lp.bus != nil {
		lp.bus.Publish(events.PolicyReloadedEvent{
			Path:      lp.path,
			Signal:    cfg.Policy.Signal.String(),
			Timeout:   uint32(cfg.Policy.Timeout),
			Timestamp: time.Now(),
		})
	}
}

// Watch follows the config file until Stop. A file that fails to load keeps
// the previous snapshot.
func (lp *LivePolicy) Watch(opts ...WatcherOption[ShutdownConfig]) error {
	lp.watcher = NewConfigWatcher(lp.path, LoadShutdownConfig, lp.logger, opts...)
	lp.watcher.OnReload(lp.Set)
	return lp.watcher.Start()
}

// Stop ends watching, if started.
func (lp *LivePolicy) Stop() error {
	if lp.watcher == nil {
		return nil
	}
	return lp.watcher.Stop()
}
