package app

import (
	"path/filepath"
	"testing"

	"github.com/firefly-engineering/projrouter/internal/config"
	"github.com/firefly-engineering/projrouter/internal/errors"
	"github.com/firefly-engineering/projrouter/internal/health"
	"github.com/firefly-engineering/projrouter/internal/proxy"
	"github.com/firefly-engineering/projrouter/internal/supervisor"
	"github.com/firefly-engineering/projrouter/internal/system"
)

func TestNew(t *testing.T) {
	t.Setenv(config.RegistryEnv, "")
	app := New()

	if app == nil {
		t.Fatal("New() returned nil")
	}
	if app.Paths == nil {
		t.Error("Paths should not be nil")
	}
	if app.Executor == nil {
		t.Error("Executor should default to the OS executor")
	}
	if _, ok := app.Prober.(*health.NetProber); !ok {
		t.Errorf("Prober = %T, want *health.NetProber", app.Prober)
	}
	if app.UseLock {
		t.Error("locking should be off by default")
	}
}

func TestNew_RegistryFromEnv(t *testing.T) {
	t.Setenv(config.RegistryEnv, "/etc/projrouter/registry.toml")

	if got := New().RegistryPath; got != "/etc/projrouter/registry.toml" {
		t.Errorf("RegistryPath = %q, want env value", got)
	}
	if got := New(WithRegistryPath("/tmp/r.toml")).RegistryPath; got != "/tmp/r.toml" {
		t.Errorf("RegistryPath = %q, option should win over env", got)
	}
}

func TestNew_WithPaths(t *testing.T) {
	customPaths := &config.Paths{UnitDir: "/custom/units", StateDir: "/custom/state"}

	app := New(WithPaths(customPaths))

	if app.Paths != customPaths {
		t.Error("WithPaths did not set custom paths")
	}
	if app.AuditLogger() == nil {
		t.Error("AuditLogger should not be nil")
	}
}

func TestDefaults_UseExecutor(t *testing.T) {
	mock := system.NewMockExecutor()
	app := New(WithExecutor(mock), WithPaths(&config.Paths{UnitDir: "/units", StateDir: "/state"}))

	if _, ok := app.ProcessSupervisor().(*supervisor.Systemd); !ok {
		t.Errorf("ProcessSupervisor = %T, want *supervisor.Systemd", app.ProcessSupervisor())
	}
	if _, ok := app.ProxyController().(*proxy.Nginx); !ok {
		t.Errorf("ProxyController = %T, want *proxy.Nginx", app.ProxyController())
	}
	w, ok := app.DescriptorWriter().(*supervisor.UnitWriter)
	if !ok {
		t.Fatalf("DescriptorWriter = %T, want *supervisor.UnitWriter", app.DescriptorWriter())
	}
	if w.UnitDir != "/units" {
		t.Errorf("UnitDir = %q, want /units", w.UnitDir)
	}

	mock.AddResponse("systemctl is-active proj-alpha.service", "active\n", "", nil)
	if !app.IsActive("alpha") {
		t.Error("IsActive(alpha) = false, want true")
	}
	if last, _ := mock.LastCommand(); last.String() != "systemctl is-active proj-alpha.service" {
		t.Errorf("last command = %q", last.String())
	}
}

func TestReconciler(t *testing.T) {
	registryPath := filepath.Join(t.TempDir(), "registry.toml")
	app := New(
		WithExecutor(system.NewMockExecutor()),
		WithRegistryPath(registryPath),
		WithLock(true),
	)

	r, err := app.Reconciler()
	if err != nil {
		t.Fatalf("Reconciler failed: %v", err)
	}
	if r.Store.Path != registryPath {
		t.Errorf("Store.Path = %q, want %q", r.Store.Path, registryPath)
	}
	if !r.UseLock {
		t.Error("UseLock should follow WithLock")
	}
	if r.Audit == nil {
		t.Error("Audit should be wired")
	}
}

func TestReconciler_NoRegistry(t *testing.T) {
	t.Setenv(config.RegistryEnv, "")
	app := New(WithExecutor(system.NewMockExecutor()))

	_, err := app.Reconciler()
	if err == nil {
		t.Fatal("Reconciler should fail without a registry path")
	}
	if errors.GetExitCode(err) != errors.ExitGeneralError {
		t.Errorf("exit code = %d, want %d", errors.GetExitCode(err), errors.ExitGeneralError)
	}
}

func TestSetDefault(t *testing.T) {
	original := Default
	defer func() { Default = original }()

	customApp := New(WithRegistryPath("/custom.toml"))
	SetDefault(customApp)

	if Default != customApp {
		t.Error("SetDefault did not update Default")
	}
}

func TestResetDefault(t *testing.T) {
	original := Default
	defer func() { Default = original }()

	customApp := New(WithRegistryPath("/custom.toml"))
	SetDefault(customApp)

	ResetDefault()

	if Default == customApp {
		t.Error("ResetDefault did not create new Default")
	}
	if Default.Paths == nil {
		t.Error("ResetDefault should create app with default paths")
	}
}
