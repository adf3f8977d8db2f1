package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Logger is a duck-typed interface satisfied by *slog.Logger.
// Use this interface instead of *slog.Logger to decouple from the concrete type.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var (
	moduleLoggers   = make(map[string]*slog.Logger)
	moduleLevelVars = make(map[string]*slog.LevelVar)
	globalConfig    Config
	globalLevelVar  = &slog.LevelVar{} // default level
	isInitialized   bool
	mutex           sync.RWMutex
)

// Config represents logging configuration.
type Config struct {
	Level   string            `toml:"level"`
	Format  string            `toml:"format"`
	Modules map[string]string `toml:"modules"`

	// Output receives console logs. Defaults to os.Stderr so that command
	// output on stdout stays machine readable.
	Output io.Writer `toml:"-"`

	// DisableJournal keeps logs out of the systemd journal even when it is
	// available.
	DisableJournal bool `toml:"-"`
}

// Initialize sets up the logging system.
func Initialize(config Config) {
	mutex.Lock()
	defer mutex.Unlock()

	globalConfig = config
	isInitialized = true

	globalLevel := parseLevel(config.Level)
	if globalLevel == nil {
		defaultLevel := slog.LevelInfo
		globalLevel = &defaultLevel
	}
	globalLevelVar.Set(*globalLevel)

	// Existing module loggers keep their identity; only level and handler change.
	for module, levelVar := range moduleLevelVars {
		levelVar.Set(moduleLevel(module, *globalLevel))
		moduleLoggers[module] = slog.New(createHandler(config, levelVar)).With("module", module)
	}

	slog.SetDefault(slog.New(createHandler(config, globalLevelVar)))
}

// GetLogger returns a logger for the specified module, creating it if needed.
func GetLogger(module string) *slog.Logger {
	mutex.RLock()
	if logger, exists := moduleLoggers[module]; exists {
		mutex.RUnlock()
		return logger
	}
	mutex.RUnlock()

	mutex.Lock()
	defer mutex.Unlock()

	// Double-check in case another goroutine created it
	if logger, exists := moduleLoggers[module]; exists {
		return logger
	}

	// A LevelVar per module lets Initialize change the level later.
	levelVar := &slog.LevelVar{}
	level := slog.LevelInfo
	if isInitialized {
		if parsed := parseLevel(globalConfig.Level); parsed != nil {
			level = *parsed
		}
		level = moduleLevel(module, level)
	}
	levelVar.Set(level)

	cfg := Config{Format: "text"}
	if isInitialized {
		cfg = globalConfig
	}

	logger := slog.New(createHandler(cfg, levelVar)).With("module", module)
	moduleLoggers[module] = logger
	moduleLevelVars[module] = levelVar
	return logger
}

// moduleLevel returns the override for module, or fallback.
func moduleLevel(module string, fallback slog.Level) slog.Level {
	if levelStr, exists := globalConfig.Modules[module]; exists {
		if parsed := parseLevel(levelStr); parsed != nil {
			return *parsed
		}
	}
	return fallback
}

// createHandler creates a slog handler for the configured format and level.
// Logs go to the console writer and to the journal when available.
// Level can be slog.Level or *slog.LevelVar for dynamic level changes.
func createHandler(config Config, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}

	out := config.Output
	if out == nil {
		out = os.Stderr
	}

	var consoleHandler slog.Handler
	if config.Format == "json" {
		consoleHandler = slog.NewJSONHandler(out, opts)
	} else {
		consoleHandler = slog.NewTextHandler(out, opts)
	}

	if config.DisableJournal || !IsJournalAvailable() {
		return consoleHandler
	}

	// Under systemd stderr usually ends up in the journal already.
	if config.Output == nil && !isStderrAvailable() {
		return NewJournalHandler(level)
	}
	return newTeeHandler(consoleHandler, NewJournalHandler(level))
}

// isStderrAvailable checks if stderr is connected to a terminal, pipe, socket, or file.
func isStderrAvailable() bool {
	fi, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	mode := fi.Mode()
	// Available if terminal, pipe, socket, or regular file (not /dev/null which is ModeDevice)
	return (mode&os.ModeCharDevice) != 0 || (mode&os.ModeNamedPipe) != 0 || (mode&os.ModeSocket) != 0 || mode.IsRegular()
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) *slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		l := slog.LevelDebug
		return &l
	case "info":
		l := slog.LevelInfo
		return &l
	case "warn", "warning":
		l := slog.LevelWarn
		return &l
	case "error":
		l := slog.LevelError
		return &l
	default:
		return nil
	}
}
