package supervisor

import (
	"context"
	"strings"
	"time"

	"github.com/firefly-engineering/projrouter/internal/config"
	"github.com/firefly-engineering/projrouter/internal/system"
)

// Supervisor starts, stops and queries managed processes.
type Supervisor interface {
	// ReloadIndex makes the supervisor re-read its descriptors.
	ReloadIndex(ctx context.Context) error

	// EnableStart enables the service at boot and starts it now.
	EnableStart(ctx context.Context, service string) error

	// Restart stops and starts the service so it picks up a rewritten
	// descriptor.
	Restart(ctx context.Context, service string) error

	// DisableStop stops the service and disables it at boot.
	DisableStop(ctx context.Context, service string) error

	// IsActive reports whether the service is running.
	IsActive(ctx context.Context, service string) bool
}

// Systemd drives systemctl.
type Systemd struct {
	Exec    system.CommandExecutor
	Timeout time.Duration
}

// NewSystemd returns a Systemd supervisor using exec for systemctl calls.
func NewSystemd(exec system.CommandExecutor) *Systemd {
	return &Systemd{Exec: exec, Timeout: config.CommandTimeout}
}

func (s *Systemd) systemctl(ctx context.Context, args ...string) (*system.Result, error) {
	return system.RunChecked(ctx, s.Exec, s.Timeout, "systemctl", args...)
}

func (s *Systemd) ReloadIndex(ctx context.Context) error {
	_, err := s.systemctl(ctx, "daemon-reload")
	return err
}

func (s *Systemd) EnableStart(ctx context.Context, service string) error {
	_, err := s.systemctl(ctx, "enable", "--now", service)
	return err
}

func (s *Systemd) Restart(ctx context.Context, service string) error {
	_, err := s.systemctl(ctx, "restart", service)
	return err
}

func (s *Systemd) DisableStop(ctx context.Context, service string) error {
	_, err := s.systemctl(ctx, "disable", "--now", service)
	return err
}

// Reload asks a running service to reload its configuration.
func (s *Systemd) Reload(ctx context.Context, service string) error {
	_, err := s.systemctl(ctx, "reload", service)
	return err
}

func (s *Systemd) IsActive(ctx context.Context, service string) bool {
	res, err := s.systemctl(ctx, "is-active", service)
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(res.Stdout)) == "active"
}
