// Package testutil provides a simulated host and registry fixtures for tests.
//
// # Test Environment
//
// NewTestEnv builds a temp directory holding a registry, a project root,
// a unit directory and a state directory, and installs an app.App whose
// executor, prober and descriptor writer are all one FakeHost:
//
//	env := testutil.NewTestEnv(t)
//	defer env.Cleanup()
//
//	r := env.Reconciler()
//	if err := r.Activate(ctx, "alpha", 9001); err != nil {
//	    t.Fatal(err)
//	}
//	env.Host.CommandLines() // systemctl and nginx invocations, in order
//
// # Fake Host
//
// FakeHost answers probes from the commands it has seen: a backend listens
// after its unit was enabled and stops after it was disabled. Strays marks
// ports held by unmanaged processes; Down marks URLs that fail.
//
// # Fixtures
//
// Registry fixtures are embedded using go:embed:
//
//	fixtures/valid_registry.toml
//	fixtures/duplicate_ports_registry.toml
//	fixtures/missing_global_registry.toml
package testutil
