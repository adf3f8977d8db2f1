package logging

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/coreos/go-systemd/v22/journal"
)

// SyslogIdentifier tags every journal entry written by this process.
const SyslogIdentifier = "procctl"

// targetPIDField holds the pid procctl acts on. journald already records
// procctl's own pid as _PID.
const targetPIDField = "TARGET_PID"

// JournalHandler writes records to the systemd journal as structured fields.
//
// Stop outcomes are raised above their slog level so that
// `journalctl -p notice` lists every stop: a graceful or no-op stop is
// logged as notice, a forced one as warning.
type JournalHandler struct {
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// NewJournalHandler creates a journal handler filtering at level.
func NewJournalHandler(level slog.Leveler) *JournalHandler {
	return &JournalHandler{level: level}
}

// Enabled implements slog.Handler.
func (h *JournalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler. It returns the send error and leaves the
// fallback to the caller.
func (h *JournalHandler) Handle(_ context.Context, r slog.Record) error {
	fields := map[string]string{"SYSLOG_IDENTIFIER": SyslogIdentifier}

	for _, attr := range h.attrs {
		addAttrToFields(fields, attr, h.groups)
	}
	r.Attrs(func(attr slog.Attr) bool {
		addAttrToFields(fields, attr, h.groups)
		return true
	})

	priority := recordPriority(r.Level, fields["OUTCOME"])
	if err := journal.Send(r.Message, priority, fields); err != nil {
		return fmt.Errorf("send to journal: %w", err)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *JournalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &JournalHandler{
		level:  h.level,
		attrs:  append(slices.Clip(h.attrs), attrs...),
		groups: h.groups,
	}
}

// WithGroup implements slog.Handler.
func (h *JournalHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &JournalHandler{
		level:  h.level,
		attrs:  h.attrs,
		groups: append(slices.Clip(h.groups), name),
	}
}

// recordPriority maps a record to a journal priority. outcome is the
// record's stop outcome, if it has one.
func recordPriority(level slog.Level, outcome string) journal.Priority {
	priority := mapLevelToPriority(level)
	if outcome == "" || priority != journal.PriInfo {
		return priority
	}
	if outcome == "forced" {
		return journal.PriWarning
	}
	return journal.PriNotice
}

// mapLevelToPriority maps slog levels to journal priorities.
func mapLevelToPriority(level slog.Level) journal.Priority {
	switch {
	case level >= slog.LevelError:
		return journal.PriErr
	case level >= slog.LevelWarn:
		return journal.PriWarning
	case level >= slog.LevelInfo:
		return journal.PriInfo
	default:
		return journal.PriDebug
	}
}

// addAttrToFields flattens attr into journal fields. Groups become key
// prefixes joined by '_'.
func addAttrToFields(fields map[string]string, attr slog.Attr, groups []string) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}

	if attr.Value.Kind() == slog.KindGroup {
		next := groups
		if attr.Key != "" {
			next = append(slices.Clip(groups), attr.Key)
		}
		for _, a := range attr.Value.Group() {
			addAttrToFields(fields, a, next)
		}
		return
	}

	key := journalFieldName(groups, attr.Key)
	if key == "" {
		return
	}

	switch attr.Value.Kind() {
	case slog.KindInt64:
		fields[key] = strconv.FormatInt(attr.Value.Int64(), 10)
	case slog.KindUint64:
		fields[key] = strconv.FormatUint(attr.Value.Uint64(), 10)
	case slog.KindFloat64:
		fields[key] = strconv.FormatFloat(attr.Value.Float64(), 'f', -1, 64)
	case slog.KindTime:
		fields[key] = attr.Value.Time().Format("2006-01-02T15:04:05.000Z07:00")
	default:
		fields[key] = attr.Value.String()
	}
}

// journalFieldName builds a valid journal field name: uppercase letters,
// digits and '_', not starting with '_' or a digit. The top-level "pid"
// names the target process.
func journalFieldName(groups []string, key string) string {
	if len(groups) == 0 && key == "pid" {
		return targetPIDField
	}

	var b strings.Builder
	for _, part := range append(slices.Clip(groups), key) {
		if b.Len() > 0 {
			b.WriteByte('_')
		}
		for _, r := range strings.ToUpper(part) {
			switch {
			case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
				b.WriteRune(r)
			default:
				b.WriteByte('_')
			}
		}
	}

	name := strings.TrimLeft(b.String(), "_0123456789")
	if len(name) > 64 {
		name = name[:64]
	}
	return name
}

// IsJournalAvailable checks if systemd journal is available.
func IsJournalAvailable() bool {
	return journal.Enabled()
}
