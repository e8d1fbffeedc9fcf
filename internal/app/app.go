// Package app provides the application context for projrouter.
// It allows dependency injection for testing.
package app

import (
	"context"
	"os"
	"time"

	"github.com/firefly-engineering/projrouter/internal/audit"
	"github.com/firefly-engineering/projrouter/internal/config"
	"github.com/firefly-engineering/projrouter/internal/errors"
	"github.com/firefly-engineering/projrouter/internal/health"
	"github.com/firefly-engineering/projrouter/internal/logging"
	"github.com/firefly-engineering/projrouter/internal/proxy"
	"github.com/firefly-engineering/projrouter/internal/reconcile"
	"github.com/firefly-engineering/projrouter/internal/registry"
	"github.com/firefly-engineering/projrouter/internal/supervisor"
	"github.com/firefly-engineering/projrouter/internal/system"
)

// App holds the application dependencies
type App struct {
	// Paths holds the configured paths
	Paths *config.Paths

	// RegistryPath is the registry file every operation reads
	RegistryPath string

	// Executor runs systemctl and nginx
	Executor system.CommandExecutor

	// Prober checks ports and health endpoints
	Prober health.Prober

	// Optional overrides; built from Executor and Paths when nil
	Descriptors supervisor.DescriptorWriter
	Supervisor  supervisor.Supervisor
	Proxy       proxy.Controller

	// UseLock takes the registry advisory lock around mutations
	UseLock bool

	// VerifyAttempts and VerifyInterval control post-activate health polling
	VerifyAttempts int
	VerifyInterval time.Duration
}

// Option is a function that configures the App
type Option func(*App)

// WithPaths sets custom paths
func WithPaths(paths *config.Paths) Option {
	return func(a *App) {
		a.Paths = paths
	}
}

// WithRegistryPath sets the registry file
func WithRegistryPath(path string) Option {
	return func(a *App) {
		a.RegistryPath = path
	}
}

// WithExecutor sets a custom command executor
func WithExecutor(exec system.CommandExecutor) Option {
	return func(a *App) {
		a.Executor = exec
	}
}

// WithProber sets a custom health prober
func WithProber(p health.Prober) Option {
	return func(a *App) {
		a.Prober = p
	}
}

// WithDescriptorWriter sets a custom entry point and unit writer
func WithDescriptorWriter(w supervisor.DescriptorWriter) Option {
	return func(a *App) {
		a.Descriptors = w
	}
}

// WithSupervisor sets a custom process supervisor
func WithSupervisor(s supervisor.Supervisor) Option {
	return func(a *App) {
		a.Supervisor = s
	}
}

// WithProxy sets a custom proxy controller
func WithProxy(c proxy.Controller) Option {
	return func(a *App) {
		a.Proxy = c
	}
}

// WithLock enables the advisory registry lock
func WithLock(enabled bool) Option {
	return func(a *App) {
		a.UseLock = enabled
	}
}

// New creates a new App with the given options.
func New(opts ...Option) *App {
	app := &App{
		Paths:          config.DefaultPaths(),
		RegistryPath:   os.Getenv(config.RegistryEnv),
		VerifyAttempts: 5,
		VerifyInterval: 400 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.Executor == nil {
		app.Executor = system.DefaultExecutor()
	}
	if app.Prober == nil {
		app.Prober = health.NewProber()
	}

	return app
}

// Store returns the registry store, or an error when no registry was given.
func (a *App) Store() (*registry.Store, error) {
	if a.RegistryPath == "" {
		return nil, errors.New(errors.KindGeneral, errors.ExitGeneralError,
			"no registry given: pass --registry or set "+config.RegistryEnv)
	}
	return registry.NewStore(a.RegistryPath), nil
}

// AuditLogger returns the audit trail rooted at the state directory.
func (a *App) AuditLogger() *audit.Logger {
	return audit.NewLogger(a.Paths.StateDir)
}

// DescriptorWriter returns the configured writer or the systemd default.
func (a *App) DescriptorWriter() supervisor.DescriptorWriter {
	if a.Descriptors != nil {
		return a.Descriptors
	}
	return &supervisor.UnitWriter{UnitDir: a.Paths.UnitDir, Binary: executable()}
}

// ProcessSupervisor returns the configured supervisor or systemd.
func (a *App) ProcessSupervisor() supervisor.Supervisor {
	if a.Supervisor != nil {
		return a.Supervisor
	}
	return supervisor.NewSystemd(a.Executor)
}

// ProxyController returns the configured proxy controller or nginx.
func (a *App) ProxyController() proxy.Controller {
	if a.Proxy != nil {
		return a.Proxy
	}
	return proxy.NewNginx(a.Executor)
}

// Reconciler wires the collaborators into a reconcile.Reconciler.
func (a *App) Reconciler() (*reconcile.Reconciler, error) {
	store, err := a.Store()
	if err != nil {
		return nil, err
	}
	return &reconcile.Reconciler{
		Store:          store,
		Descriptors:    a.DescriptorWriter(),
		Supervisor:     a.ProcessSupervisor(),
		Proxy:          a.ProxyController(),
		Prober:         a.Prober,
		Audit:          a.AuditLogger(),
		UseLock:        a.UseLock,
		VerifyAttempts: a.VerifyAttempts,
		VerifyInterval: a.VerifyInterval,
	}, nil
}

// IsActive reports whether a project's service is running
func (a *App) IsActive(name string) bool {
	return a.ProcessSupervisor().IsActive(context.Background(), config.ServiceName(name))
}

func executable() string {
	exe, err := os.Executable()
	if err != nil {
		logging.Debug("failed to resolve executable, falling back to PATH lookup", "error", err)
		return "projrouter"
	}
	return exe
}

// Default is the default application instance
var Default = New()

// SetDefault sets the default application instance (used for testing)
func SetDefault(app *App) {
	Default = app
}

// ResetDefault resets to the default application instance
func ResetDefault() {
	Default = New()
}
