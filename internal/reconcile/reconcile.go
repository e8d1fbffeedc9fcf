package reconcile

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/firefly-engineering/projrouter/internal/audit"
	"github.com/firefly-engineering/projrouter/internal/config"
	"github.com/firefly-engineering/projrouter/internal/errors"
	"github.com/firefly-engineering/projrouter/internal/health"
	"github.com/firefly-engineering/projrouter/internal/logging"
	"github.com/firefly-engineering/projrouter/internal/proxy"
	"github.com/firefly-engineering/projrouter/internal/registry"
	"github.com/firefly-engineering/projrouter/internal/routes"
	"github.com/firefly-engineering/projrouter/internal/supervisor"
)

// Reconciler applies registry mutations to the host and audits drift.
type Reconciler struct {
	Store       *registry.Store
	Descriptors supervisor.DescriptorWriter
	Supervisor  supervisor.Supervisor
	Proxy       proxy.Controller
	Prober      health.Prober

	// Audit records lifecycle events. Nil disables the trail.
	Audit *audit.Logger

	// UseLock serializes mutations with an advisory lock on the registry.
	UseLock bool

	// VerifyAttempts and VerifyInterval bound how long Activate waits for
	// a freshly started backend to answer its local health probe.
	VerifyAttempts int
	VerifyInterval time.Duration
}

// Activate registers name on port and brings its backend and route up.
func (r *Reconciler) Activate(ctx context.Context, name string, port int) error {
	if err := config.ValidateProjectName(name); err != nil {
		return err
	}
	if err := config.ValidatePort(port); err != nil {
		return err
	}

	unlock, err := r.lock()
	if err != nil {
		return err
	}
	defer unlock()

	reg, err := r.precheck(name, port)
	if err != nil {
		return err
	}

	op := audit.NewOperationID()
	err = r.activate(ctx, reg, name, port)
	r.record(op, name, port, audit.EventActivate, err)
	return err
}

// precheck loads the registry and rejects ports that belong to another
// project or are already accepting connections. Nothing is mutated.
func (r *Reconciler) precheck(name string, port int) (*registry.Registry, error) {
	reg, err := r.Store.Load()
	if err != nil {
		return nil, err
	}
	if owner, ok := reg.Owner(port); ok && owner != name {
		return nil, errors.PortConflict(port, owner)
	}
	if r.Prober.PortOpen(config.LocalHost, port, config.PortProbeTimeout) {
		return nil, errors.PortInUse(port)
	}
	return reg, nil
}

func (r *Reconciler) activate(ctx context.Context, reg *registry.Registry, name string, port int) error {
	log := logging.With("project", name, "port", port)

	log.Debug("writing descriptors", "step", "descriptor")
	dir, err := config.ProjectDir(reg.Global.Root, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	unitPath, err := r.Descriptors.Write(name, dir, port)
	if err != nil {
		return err
	}

	log.Debug("starting service", "step", "supervisor", "unit", unitPath)
	svc := config.ServiceName(name)
	if err := r.Supervisor.ReloadIndex(ctx); err != nil {
		return err
	}
	if err := r.Supervisor.EnableStart(ctx, svc); err != nil {
		return err
	}
	// enable --now leaves a running unit on its old port.
	if prev, ok := reg.Port(name); ok && prev != port {
		log.Debug("restarting service on new port", "step", "supervisor", "previous", prev)
		if err := r.Supervisor.Restart(ctx, svc); err != nil {
			return err
		}
	}

	log.Debug("persisting registry", "step", "registry")
	next := reg.Clone()
	next.Set(name, port)
	if err := r.Store.Save(next); err != nil {
		return err
	}

	log.Debug("publishing routes", "step", "routes")
	if err := r.publish(ctx, next); err != nil {
		return err
	}

	log.Debug("verifying", "step", "verify")
	return r.verify(next, name, port)
}

// Deactivate stops name's backend and removes its route. The project
// directory is kept so the project can be activated again.
func (r *Reconciler) Deactivate(ctx context.Context, name string) error {
	unlock, err := r.lock()
	if err != nil {
		return err
	}
	defer unlock()

	reg, err := r.Store.Load()
	if err != nil {
		return err
	}
	port, ok := reg.Port(name)
	if !ok {
		return errors.ProjectNotFound(name)
	}

	op := audit.NewOperationID()
	err = r.deactivate(ctx, reg, name)
	r.record(op, name, port, audit.EventDeactivate, err)
	return err
}

func (r *Reconciler) deactivate(ctx context.Context, reg *registry.Registry, name string) error {
	svc := config.ServiceName(name)
	if err := r.Supervisor.DisableStop(ctx, svc); err != nil {
		logging.Warn("failed to stop service, continuing", "project", name, "service", svc, "error", err)
	}

	next := reg.Clone()
	next.Delete(name)
	if err := r.Store.Save(next); err != nil {
		return err
	}
	return r.publish(ctx, next)
}

// Resync rewrites the routes file from the registry and reloads the proxy.
// It repairs route drift without touching any backend.
func (r *Reconciler) Resync(ctx context.Context) error {
	unlock, err := r.lock()
	if err != nil {
		return err
	}
	defer unlock()

	reg, err := r.Store.Load()
	if err != nil {
		return err
	}
	return r.publish(ctx, reg)
}

// publish renders routes for reg, replaces the routes file and reloads the
// proxy once the full configuration validates.
func (r *Reconciler) publish(ctx context.Context, reg *registry.Registry) error {
	content, err := routes.Render(reg.Projects)
	if err != nil {
		return err
	}
	if err := routes.Write(reg.Global.RoutesFile, content); err != nil {
		return err
	}
	if err := r.Proxy.Validate(ctx); err != nil {
		return err
	}
	return r.Proxy.Reload(ctx)
}

func (r *Reconciler) verify(reg *registry.Registry, name string, port int) error {
	local := health.LocalHealthURL(port)
	attempts := max(r.VerifyAttempts, 1)
	ok := false
	for i := 0; i < attempts; i++ {
		if i > 0 && r.VerifyInterval > 0 {
			time.Sleep(r.VerifyInterval)
		}
		if ok = r.Prober.HTTPOK(local, config.LocalHealthTimeout, false); ok {
			break
		}
	}
	if !ok {
		return errors.VerificationFailed("backend", local)
	}

	external := health.ExternalHealthURL(reg.Global.Domain, reg.Global.HTTPSPort, name)
	if !r.Prober.HTTPOK(external, config.ExternalHealthTimeout, true) {
		return errors.VerificationFailed("external", external)
	}
	return nil
}

func (r *Reconciler) lock() (func(), error) {
	if !r.UseLock {
		return func() {}, nil
	}
	l, err := r.Store.TryLock()
	if errors.Is(err, registry.ErrLocked) {
		logging.UserInfo("Waiting for registry lock held by another process...")
		l, err = r.Store.Lock()
	}
	if err != nil {
		return nil, err
	}
	return func() {
		if err := l.Unlock(); err != nil {
			logging.Warn("failed to release registry lock", "error", err)
		}
	}, nil
}

// record appends the outcome of a mutation to the audit trail. Audit
// failures never change the outcome of the operation.
func (r *Reconciler) record(op, name string, port int, kind audit.EventType, opErr error) {
	if r.Audit == nil {
		return
	}
	event := audit.Event{Operation: op, Type: kind, Project: name, Port: port}
	if opErr != nil {
		event.Type = audit.EventError
		event.Details = fmt.Sprintf("%s: %v", kind, opErr)
	}
	if err := r.Audit.Log(event); err != nil {
		logging.Warn("failed to write audit event", "project", name, "error", err)
	}
}
