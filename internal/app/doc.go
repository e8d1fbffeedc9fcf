// Package app provides the application context for projrouter.
//
// This package manages application-wide dependencies using the functional
// options pattern, enabling easy testing through dependency injection.
//
// # App Context
//
// The App struct holds the host collaborators the reconciler talks to:
//
//	type App struct {
//	    Paths        *config.Paths               // unit and state directories
//	    RegistryPath string                      // registry.toml
//	    Executor     system.CommandExecutor      // systemctl / nginx
//	    Prober       health.Prober               // TCP and HTTP probes
//	    Descriptors  supervisor.DescriptorWriter // entry point + unit
//	    Supervisor   supervisor.Supervisor       // systemd
//	    Proxy        proxy.Controller            // nginx
//	}
//
// Collaborators left nil are built on demand from Executor and Paths, so a
// test that only swaps the executor still exercises the real systemd and
// nginx adapters.
//
// # Creating an App
//
//	// Production usage
//	a := app.New(app.WithRegistryPath("/etc/projrouter/registry.toml"))
//
//	// Testing with custom dependencies
//	a := app.New(
//	    app.WithPaths(testPaths),
//	    app.WithExecutor(mockExec),
//	    app.WithProber(fakeProber),
//	)
//
// # Available Options
//
//	WithPaths(paths)              // Custom path configuration
//	WithRegistryPath(path)        // Registry file
//	WithExecutor(exec)            // Command executor
//	WithProber(prober)            // Health prober
//	WithDescriptorWriter(writer)  // Entry point and unit writer
//	WithSupervisor(sup)           // Process supervisor
//	WithProxy(ctl)                // Proxy controller
//	WithLock(enabled)             // Advisory registry lock
package app
