package reconcile

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/firefly-engineering/projrouter/internal/config"
	"github.com/firefly-engineering/projrouter/internal/errors"
	"github.com/firefly-engineering/projrouter/internal/health"
	"github.com/firefly-engineering/projrouter/internal/logging"
	"github.com/firefly-engineering/projrouter/internal/registry"
	"github.com/firefly-engineering/projrouter/internal/routes"
)

// CheckReport is the outcome of a Check.
type CheckReport struct {
	ProxyConfigOK bool             `json:"proxy_config_ok"`
	ProxyActive   bool             `json:"proxy_active"`
	RoutesInSync  bool             `json:"routes_in_sync"`
	Projects      []*ProjectStatus `json:"projects"`
	Discrepancies []string         `json:"discrepancies"`
}

// ProjectStatus is the observed state of one registered project.
type ProjectStatus struct {
	Name            string `json:"name"`
	Port            int    `json:"port"`
	Service         string `json:"service"`
	ServiceActive   bool   `json:"service_active"`
	Listening       bool   `json:"listening"`
	LocalHealthy    bool   `json:"local_healthy"`
	ExternalHealthy bool   `json:"external_healthy"`
}

// Healthy reports whether every probe for the project passed.
func (p *ProjectStatus) Healthy() bool {
	return p.ServiceActive && p.Listening && p.LocalHealthy && p.ExternalHealthy
}

// OK reports whether the check found nothing wrong.
func (r *CheckReport) OK() bool {
	return len(r.Discrepancies) == 0
}

func (r *CheckReport) add(format string, args ...any) {
	r.Discrepancies = append(r.Discrepancies, fmt.Sprintf(format, args...))
}

// Check audits the host against the registry without changing anything.
// The report is returned even when the check fails; the error is then a
// CheckFailed listing every discrepancy. A registry that cannot be loaded
// returns no report.
func (r *Reconciler) Check(ctx context.Context) (*CheckReport, error) {
	reg, err := r.Store.Load()
	if err != nil {
		return nil, err
	}

	report := &CheckReport{Projects: []*ProjectStatus{}, Discrepancies: []string{}}

	r.checkProxy(ctx, report)
	r.checkRoutes(reg, report)
	for _, name := range reg.Names() {
		report.Projects = append(report.Projects, r.checkProject(ctx, reg, name, report))
	}


	if !report.OK() {
		return report, errors.CheckFailed(report.Discrepancies)
	}
	return report, nil
}

func (r *Reconciler) checkProxy(ctx context.Context, report *CheckReport) {
	if err := r.Proxy.Validate(ctx); err != nil {
		var re *errors.RouterError
		if errors.As(err, &re) && re.Command != "" {
			report.add("%s failed:\n%s\n%s", re.Command, re.Stdout, re.Stderr)
		} else {
			report.add("nginx -t failed: %v", err)
		}
	} else {
		report.ProxyConfigOK = true
	}

	report.ProxyActive = r.Proxy.IsActive(ctx)
	if !report.ProxyActive {
		report.add("nginx service is not active")
	}
}

func (r *Reconciler) checkRoutes(reg *registry.Registry, report *CheckReport) {
	path := reg.Global.RoutesFile
	actual, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		report.add("nginx routes file missing: %s", path)
		return
	}
	if err != nil {
		report.add("nginx routes file unreadable: %s: %v", path, err)
		return
	}

	expected, err := routes.Render(reg.Projects)
	if err != nil {
		report.add("failed to render routes: %v", err)
		return
	}
	if string(actual) == string(expected) {
		report.RoutesInSync = true
		return
	}

	msg := "nginx routes file differs from registry (run activate/deactivate or resync)"
	if parsed, err := routes.Parse(actual); err == nil {
		if diff := routes.Diff(routes.FromProjects(reg.Projects), parsed); len(diff) > 0 {
			msg += ": " + strings.Join(diff, "; ")
		}
	}
	report.add("%s", msg)
}

func (r *Reconciler) checkProject(ctx context.Context, reg *registry.Registry, name string, report *CheckReport) *ProjectStatus {
	port, _ := reg.Port(name)
	st := &ProjectStatus{Name: name, Port: port, Service: config.ServiceName(name)}

	st.ServiceActive = r.Supervisor.IsActive(ctx, st.Service)
	if !st.ServiceActive {
		report.add("%s: systemd not active (%s)", name, st.Service)
	}

	st.Listening = r.Prober.PortOpen(config.LocalHost, port, config.PortProbeTimeout)
	if !st.Listening {
		report.add("%s: port not listening on %s:%d", name, config.LocalHost, port)
		return st
	}

	local := health.LocalHealthURL(port)
	st.LocalHealthy = r.Prober.HTTPOK(local, config.LocalHealthTimeout, false)
	if !st.LocalHealthy {
		report.add("%s: backend health failed %s", name, local)
	}

	external := health.ExternalHealthURL(reg.Global.Domain, reg.Global.HTTPSPort, name)
	st.ExternalHealthy = r.Prober.HTTPOK(external, config.ExternalHealthTimeout, true)
	if !st.ExternalHealthy {
		report.add("%s: external health failed %s", name, external)
	}

	logging.Debug("checked project", "project", name, "port", port, "healthy", st.Healthy())
	return st
}

// Status probes a single registered project. The discrepancies found are
// returned alongside; a nil error does not mean the project is healthy.
func (r *Reconciler) Status(ctx context.Context, name string) (*ProjectStatus, []string, error) {
	if err := config.ValidateProjectName(name); err != nil {
		return nil, nil, err
	}
	reg, err := r.Store.Load()
	if err != nil {
		return nil, nil, err
	}
	if _, ok := reg.Port(name); !ok {
		return nil, nil, errors.ProjectNotFound(name)
	}

	report := &CheckReport{}
	st := r.checkProject(ctx, reg, name, report)
	return st, report.Discrepancies, nil
}
