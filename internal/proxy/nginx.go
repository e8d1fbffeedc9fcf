package proxy

import (
	"context"
	"time"

	"github.com/firefly-engineering/projrouter/internal/config"
	"github.com/firefly-engineering/projrouter/internal/supervisor"
	"github.com/firefly-engineering/projrouter/internal/system"
)

// Controller validates, reloads and queries the reverse proxy.
type Controller interface {
	Validate(ctx context.Context) error
	Reload(ctx context.Context) error
	IsActive(ctx context.Context) bool
}

// Nginx is the nginx Controller.
type Nginx struct {
	// Binary is the nginx executable used for config tests.
	Binary string

	// Service is the systemd unit running nginx.
	Service string

	exec    system.CommandExecutor
	timeout time.Duration
	systemd *supervisor.Systemd
}

// NewNginx returns a controller for the stock "nginx" unit.
func NewNginx(exec system.CommandExecutor) *Nginx {
	return &Nginx{
		Binary:  "nginx",
		Service: "nginx",
		exec:    exec,
		timeout: config.CommandTimeout,
		systemd: supervisor.NewSystemd(exec),
	}
}

// Validate runs "nginx -t". On failure the error carries stdout and stderr.
func (n *Nginx) Validate(ctx context.Context) error {
	_, err := system.RunChecked(ctx, n.exec, n.timeout, n.Binary, "-t")
	return err
}

// Reload runs "systemctl reload nginx".
func (n *Nginx) Reload(ctx context.Context) error {
	return n.systemd.Reload(ctx, n.Service)
}

func (n *Nginx) IsActive(ctx context.Context) bool {
	return n.systemd.IsActive(ctx, n.Service)
}
