// Package testutil provides test utilities for integration tests
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/firefly-engineering/projrouter/internal/app"
	"github.com/firefly-engineering/projrouter/internal/config"
	"github.com/firefly-engineering/projrouter/internal/reconcile"
	"github.com/firefly-engineering/projrouter/internal/registry"
	"github.com/firefly-engineering/projrouter/internal/supervisor"
)

// TestEnv holds the test environment
type TestEnv struct {
	T            *testing.T
	TmpDir       string
	Paths        *config.Paths
	RegistryPath string
	Store        *registry.Store
	Host         *FakeHost
	App          *app.App
	cleanup      func()
}

// NewTestEnv creates a registry rooted in a temp dir and an App whose
// collaborators all talk to a FakeHost. The App becomes app.Default until
// Cleanup.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir()

	paths := &config.Paths{
		UnitDir:  filepath.Join(tmpDir, "units"),
		StateDir: filepath.Join(tmpDir, "state"),
	}
	for _, dir := range []string{paths.UnitDir, paths.StateDir, filepath.Join(tmpDir, "projects")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	registryPath := filepath.Join(tmpDir, "registry.toml")
	store := registry.NewStore(registryPath)
	reg := &registry.Registry{
		Global: registry.Global{
			Root:       filepath.Join(tmpDir, "projects"),
			Domain:     "example.com",
			HTTPSPort:  443,
			RoutesFile: filepath.Join(tmpDir, "nginx", "projrouter-routes.conf"),
		},
		Projects: map[string]int{},
	}
	if err := store.Save(reg); err != nil {
		t.Fatalf("Failed to write registry: %v", err)
	}

	host := NewFakeHost()
	host.Units = &supervisor.UnitWriter{UnitDir: paths.UnitDir, Binary: "/usr/local/bin/projrouter"}

	testApp := app.New(
		app.WithPaths(paths),
		app.WithRegistryPath(registryPath),
		app.WithExecutor(host),
		app.WithProber(host),
		app.WithDescriptorWriter(host),
	)
	testApp.VerifyInterval = 0

	originalDefault := app.Default
	app.SetDefault(testApp)

	return &TestEnv{
		T:            t,
		TmpDir:       tmpDir,
		Paths:        paths,
		RegistryPath: registryPath,
		Store:        store,
		Host:         host,
		App:          testApp,
		cleanup: func() {
			app.SetDefault(originalDefault)
		},
	}
}

// Cleanup restores the original app default
func (e *TestEnv) Cleanup() {
	if e.cleanup != nil {
		e.cleanup()
	}
}

// Reconciler returns the reconciler wired to the fake host.
func (e *TestEnv) Reconciler() *reconcile.Reconciler {
	e.T.Helper()

	r, err := e.App.Reconciler()
	if err != nil {
		e.T.Fatalf("Failed to build reconciler: %v", err)
	}
	return r
}

// Registry loads the current registry from disk.
func (e *TestEnv) Registry() *registry.Registry {
	e.T.Helper()

	reg, err := e.Store.Load()
	if err != nil {
		e.T.Fatalf("Failed to load registry: %v", err)
	}
	return reg
}

// AddProject registers a project directly in the registry and marks its
// backend as running, without going through Activate.
func (e *TestEnv) AddProject(name string, port int) {
	e.T.Helper()

	reg := e.Registry()
	reg.Set(name, port)
	if err := e.Store.Save(reg); err != nil {
		e.T.Fatalf("Failed to save registry: %v", err)
	}
	e.Host.Start(name, port)
}

// RegistryBytes returns the raw registry file.
func (e *TestEnv) RegistryBytes() []byte {
	e.T.Helper()
	return e.readFile(e.RegistryPath)
}

// RoutesPath returns the generated routes file path.
func (e *TestEnv) RoutesPath() string {
	return filepath.Join(e.TmpDir, "nginx", "projrouter-routes.conf")
}

// RoutesBytes returns the generated routes file, or nil if absent.
func (e *TestEnv) RoutesBytes() []byte {
	e.T.Helper()

	data, err := os.ReadFile(e.RoutesPath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		e.T.Fatalf("Failed to read routes: %v", err)
	}
	return data
}

// ProjectDir returns the workspace directory of a project.
func (e *TestEnv) ProjectDir(name string) string {
	return filepath.Join(e.TmpDir, "projects", name)
}

// ProjectDirExists checks if a project workspace was created
func (e *TestEnv) ProjectDirExists(name string) bool {
	_, err := os.Stat(e.ProjectDir(name))
	return err == nil
}

func (e *TestEnv) readFile(path string) []byte {
	e.T.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		e.T.Fatalf("Failed to read %s: %v", path, err)
	}
	return data
}
