package cmd

import (
	"strconv"

	"github.com/firefly-engineering/projrouter/internal/app"
	"github.com/firefly-engineering/projrouter/internal/errors"
	"github.com/firefly-engineering/projrouter/internal/reconcile"
	"github.com/firefly-engineering/projrouter/internal/registry"
)

// reconciler returns the reconciler wired from the default app.
func reconciler() (*reconcile.Reconciler, error) {
	return app.Default.Reconciler()
}

// loadRegistry loads the registry named by --registry.
func loadRegistry() (*registry.Registry, error) {
	store, err := app.Default.Store()
	if err != nil {
		return nil, err
	}
	return store.Load()
}

// isActive checks if a project's service is running using the app's supervisor.
func isActive(name string) bool {
	return app.Default.IsActive(name)
}

// parsePort parses a port argument, reporting bad input as InvalidPort.
func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrap(errors.KindInvalidPort, errors.ExitInvalidInput,
			"invalid port "+strconv.Quote(s), err)
	}
	return port, nil
}
