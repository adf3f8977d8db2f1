// Package systemd resolves service units to the processes procctl acts on.
package systemd

import (
	"context"
	"fmt"

	"github.com/coreos/go-systemd/v22/dbus"
	"github.com/smazurov/procctl/internal/process"
)

// unitProperties is the part of *dbus.Conn the Manager reads from.
type unitProperties interface {
	GetUnitPropertyContext(ctx context.Context, unit, propertyName string) (*dbus.Property, error)
	GetUnitTypePropertyContext(ctx context.Context, unit, unitType, propertyName string) (*dbus.Property, error)
	Close()
}

// Manager queries systemd over D-Bus.
type Manager struct {
	conn unitProperties
}

// NewManager connects to the user manager when user is set, otherwise to
// the system manager.
func NewManager(ctx context.Context, user bool) (*Manager, error) {
	var (
		conn *dbus.Conn
		err  error
	)
	if user {
		conn, err = dbus.NewUserConnectionContext(ctx)
	} else {
		conn, err = dbus.NewSystemConnectionContext(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to systemd: %w", err)
	}
	return &Manager{conn: conn}, nil
}

// ActiveState returns the ActiveState property of a unit ("active", "inactive", ...).
func (m *Manager) ActiveState(ctx context.Context, unit string) (string, error) {
	prop, err := m.conn.GetUnitPropertyContext(ctx, unit, "ActiveState")
	if err != nil {
		return "", err
	}
	state, ok := prop.Value.Value().(string)
	if !ok {
		return "", fmt.Errorf("unit %s: unexpected ActiveState %v", unit, prop.Value)
	}
	return state, nil
}

// ServicePID returns the main process of a service that systemd considers
// running. An inactive or failed unit yields ErrNoSuchProcess naming the
// state instead of a bare MainPID of 0.
func (m *Manager) ServicePID(ctx context.Context, unit string) (process.PID, error) {
	state, err := m.ActiveState(ctx, unit)
	if err != nil {
		return 0, fmt.Errorf("unit %s: %w", unit, err)
	}
	switch state {
	case "inactive", "failed":
		return 0, &process.Error{
			Code:    process.ErrCodeNoSuchProcess,
			Message: fmt.Sprintf("unit %s is %s", unit, state),
		}
	}
	return m.MainPID(ctx, unit)
}

// MainPID returns the main process of a service unit. A unit without a
// running main process yields ErrNoSuchProcess.
func (m *Manager) MainPID(ctx context.Context, unit string) (process.PID, error) {
	prop, err := m.conn.GetUnitTypePropertyContext(ctx, unit, "Service", "MainPID")
	if err != nil {
		return 0, fmt.Errorf("unit %s: %w", unit, err)
	}
	pid, ok := prop.Value.Value().(uint32)
	if !ok {
		return 0, fmt.Errorf("unit %s: unexpected MainPID %v", unit, prop.Value)
	}
	if pid == 0 {
		return 0, &process.Error{
			Code:    process.ErrCodeNoSuchProcess,
			Message: fmt.Sprintf("unit %s has no main process", unit),
		}
	}
	return process.PID(pid), nil
}

// Close cleanly closes the D-Bus connection.
func (m *Manager) Close() {
	if m.conn != nil {
		m.conn.Close()
	}
}
