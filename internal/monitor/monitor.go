// Package monitor provides background health monitoring for projects.
package monitor

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/firefly-engineering/projrouter/internal/audit"
	"github.com/firefly-engineering/projrouter/internal/logging"
	"github.com/firefly-engineering/projrouter/internal/reconcile"
)

// ReportFunc receives the outcome of every check round.
type ReportFunc func(report *reconcile.CheckReport, err error)

// Monitor periodically audits the host against the registry.
type Monitor struct {
	interval    time.Duration
	r           *reconcile.Reconciler
	autoRestart bool
	history     bool
	report      ReportFunc
	files       map[string]bool
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithAutoRestart enables starting projects whose service is not active.
func WithAutoRestart(enabled bool) Option {
	return func(m *Monitor) {
		m.autoRestart = enabled
	}
}

// WithCheckHistory records the outcome of every round as one check
// event per project in the audit trail.
func WithCheckHistory(enabled bool) Option {
	return func(m *Monitor) {
		m.history = enabled
	}
}

// WithReporter sets a callback invoked after every round.
func WithReporter(fn ReportFunc) Option {
	return func(m *Monitor) {
		m.report = fn
	}
}

// WithWatchFiles runs an extra round whenever one of paths is written,
// created, removed or renamed.
func WithWatchFiles(paths ...string) Option {
	return func(m *Monitor) {
		if m.files == nil {
			m.files = make(map[string]bool)
		}
		for _, p := range paths {
			if p != "" {
				m.files[filepath.Clean(p)] = true
			}
		}
	}
}

// New creates a new Monitor.
func New(interval time.Duration, r *reconcile.Reconciler, opts ...Option) *Monitor {
	m := &Monitor{
		interval: interval,
		r:        r,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run starts the monitoring loop. It blocks until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	logging.Debug("starting health monitor", "interval", m.interval, "autoRestart", m.autoRestart)

	var (
		events <-chan fsnotify.Event
		errs   <-chan error
	)
	if len(m.files) > 0 {
		w, err := m.watcher()
		if err != nil {
			return err
		}
		defer w.Close()
		events, errs = w.Events, w.Errors
	}

	// Run an immediate check, then loop on interval.
	m.checkAll(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Debug("health monitor stopping")
			return ctx.Err()
		case <-ticker.C:
			m.checkAll(ctx)
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if !m.relevant(ev) {
				continue
			}
			logging.Debug("watched file changed", "path", ev.Name, "op", ev.Op.String())
			m.checkAll(ctx)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logging.Warn("file watcher error", "error", err)
		}
	}
}

// watcher watches the parent directories of the watched files, since
// editors and atomic writers replace files rather than write in place.
func (m *Monitor) watcher() (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dirs := make(map[string]bool)
	for f := range m.files {
		dir := filepath.Dir(f)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := w.Add(dir); err != nil {
			logging.Warn("cannot watch directory", "dir", dir, "error", err)
		}
	}
	return w, nil
}

func (m *Monitor) relevant(ev fsnotify.Event) bool {
	if !m.files[filepath.Clean(ev.Name)] {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

// checkAll runs one Check and, if enabled, restarts stopped services.
func (m *Monitor) checkAll(ctx context.Context) *reconcile.CheckReport {
	report, err := m.r.Check(ctx)
	if m.report != nil {
		m.report(report, err)
	}
	if report == nil {
		logging.Warn("monitor check failed", "error", err)
		return nil
	}
	if m.history {
		m.recordHistory(report)
	}

	if !m.autoRestart {
		return report
	}
	for _, st := range report.Projects {
		if ctx.Err() != nil {
			break
		}
		if st.ServiceActive {
			continue
		}
		m.restart(ctx, st)
	}
	return report
}

func (m *Monitor) restart(ctx context.Context, st *reconcile.ProjectStatus) {
	logging.UserInfo("Auto-restarting %s (%s not active)", st.Name, st.Service)

	if err := m.r.Supervisor.EnableStart(ctx, st.Service); err != nil {
		logging.Warn("auto-restart failed", "project", st.Name, "error", err)
		m.logEvent(audit.EventError, st.Name, st.Port, "auto-restart failed: "+err.Error())
		return
	}
	m.logEvent(audit.EventRestart, st.Name, st.Port, "auto-restart")
}

func (m *Monitor) recordHistory(report *reconcile.CheckReport) {
	for _, st := range report.Projects {
		details := "healthy"
		if !st.Healthy() {
			details = "unhealthy"
		}
		m.logEvent(audit.EventCheck, st.Name, st.Port, details)
	}
}

func (m *Monitor) logEvent(eventType audit.EventType, project string, port int, details string) {
	if m.r.Audit == nil {
		return
	}
	if err := m.r.Audit.LogEvent(eventType, project, port, details); err != nil {
		logging.Warn("failed to write audit event", "project", project, "event", eventType, "error", err)
	}
}
