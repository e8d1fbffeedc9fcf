package testutil

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/firefly-engineering/projrouter/internal/config"
	"github.com/firefly-engineering/projrouter/internal/supervisor"
	"github.com/firefly-engineering/projrouter/internal/system"
)

// FakeHost simulates a single machine for reconciler tests.
//
// It records every command through an embedded MockExecutor and keeps just
// enough state to answer probes consistently: a project's backend listens
// once "systemctl enable --now" succeeded for its unit and stops listening
// after "systemctl disable --now". A rewritten descriptor only takes effect
// when the unit starts from stopped or on "systemctl restart". FakeHost implements
// system.CommandExecutor, health.Prober and supervisor.DescriptorWriter.
type FakeHost struct {
	*system.MockExecutor

	// Units, when set, also writes the real descriptor files.
	Units *supervisor.UnitWriter

	// NginxActive is reported by "systemctl is-active nginx".
	NginxActive bool

	// Strays are ports held by processes projrouter does not manage.
	Strays map[int]bool

	// Down lists URLs that fail even though the backend is up.
	Down map[string]bool

	// Probes records every port and HTTP probe in order.
	Probes []string

	ports       map[string]int
	descriptors map[string]int
	running     map[string]bool
}

// NewFakeHost returns a host with nginx running and no backends.
func NewFakeHost() *FakeHost {
	return &FakeHost{
		MockExecutor: system.NewMockExecutor(),
		NginxActive:  true,
		Strays:       make(map[int]bool),
		Down:         make(map[string]bool),
		ports:        make(map[string]int),
		descriptors:  make(map[string]int),
		running:      make(map[string]bool),
	}
}

// Start marks project as already deployed and running on port.
func (h *FakeHost) Start(project string, port int) {
	h.ports[project] = port
	h.descriptors[project] = port
	h.running[project] = true
}

// Stop simulates the backend of project crashing.
func (h *FakeHost) Stop(project string) {
	h.running[project] = false
}

// Running reports whether project's backend is up.
func (h *FakeHost) Running(project string) bool {
	return h.running[project]
}

// DescriptorPort returns the port the last descriptor for project used.
func (h *FakeHost) DescriptorPort(project string) (int, bool) {
	port, ok := h.descriptors[project]
	return port, ok
}

// ListeningPort returns the port project's live backend listens on.
func (h *FakeHost) ListeningPort(project string) (int, bool) {
	if !h.running[project] {
		return 0, false
	}
	port, ok := h.ports[project]
	return port, ok
}

func (h *FakeHost) launch(project string) {
	if port, ok := h.descriptors[project]; ok {
		h.ports[project] = port
	}
	h.running[project] = true
}

func (h *FakeHost) Run(ctx context.Context, name string, args ...string) (*system.Result, error) {
	line := system.MockCommand{Name: name, Args: args}.String()
	_, scripted := h.Responses[line]

	res, err := h.MockExecutor.Run(ctx, name, args...)
	if err != nil || scripted || name != "systemctl" || len(args) == 0 {
		return res, err
	}

	switch {
	case args[0] == "is-active" && len(args) == 2:
		active := h.NginxActive
		if args[1] != "nginx" {
			active = h.running[projectOf(args[1])]
		}
		if !active {
			return &system.Result{Stdout: []byte("inactive\n"), ExitCode: 3}, fmt.Errorf("exit status 3")
		}
		return &system.Result{Stdout: []byte("active\n")}, nil
	case args[0] == "enable" && len(args) == 3:
		if project := projectOf(args[2]); !h.running[project] {
			h.launch(project)
		}
	case args[0] == "restart" && len(args) == 2:
		h.launch(projectOf(args[1]))
	case args[0] == "disable" && len(args) == 3:
		h.running[projectOf(args[2])] = false
	}
	return res, nil
}

func projectOf(service string) string {
	return strings.TrimSuffix(strings.TrimPrefix(service, config.ServicePrefix), config.ServiceSuffix)
}

func (h *FakeHost) Write(name, dir string, port int) (string, error) {
	h.descriptors[name] = port
	if h.Units != nil {
		return h.Units.Write(name, dir, port)
	}
	return "/etc/systemd/system/" + config.ServiceName(name), nil
}

func (h *FakeHost) PortOpen(host string, port int, timeout time.Duration) bool {
	h.Probes = append(h.Probes, fmt.Sprintf("tcp %s:%d", host, port))
	return h.listening(port)
}

func (h *FakeHost) listening(port int) bool {
	if h.Strays[port] {
		return true
	}
	for project, p := range h.ports {
		if p == port && h.running[project] {
			return true
		}
	}
	return false
}

func (h *FakeHost) HTTPOK(rawURL string, timeout time.Duration, allowInsecureTLS bool) bool {
	h.Probes = append(h.Probes, "get "+rawURL)
	if h.Down[rawURL] {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Hostname() == config.LocalHost {
		port, _ := strconv.Atoi(u.Port())
		return h.listening(port)
	}
	if !allowInsecureTLS {
		return false
	}
	project := strings.Split(strings.Trim(u.Path, "/"), "/")[0]
	return h.running[project]
}
