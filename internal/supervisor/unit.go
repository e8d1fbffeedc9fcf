package supervisor

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"

	shellquote "github.com/kballard/go-shellquote"
	"gopkg.in/ini.v1"

	"github.com/firefly-engineering/projrouter/internal/config"
	"github.com/firefly-engineering/projrouter/internal/fsutil"
	"github.com/firefly-engineering/projrouter/internal/logging"
)

func init() {
	// systemd wants Key=Value without column alignment.
	ini.PrettyFormat = false
}

// DescriptorWriter produces a project's entry point and service descriptor.
type DescriptorWriter interface {
	// Write materializes the artifacts for project name living in dir and
	// serving on port. It returns the descriptor path.
	Write(name, dir string, port int) (string, error)
}

// UnitWriter writes a shell entry point into the project directory and a
// systemd unit into UnitDir.
type UnitWriter struct {
	// UnitDir is where unit files go (normally /etc/systemd/system).
	UnitDir string

	// Binary is the projrouter executable the entry point execs into.
	Binary string

	// User and Group run the service; empty leaves systemd's default.
	User  string
	Group string
}

// EntryPoint renders the executable that starts the placeholder backend.
func (w *UnitWriter) EntryPoint(name string, port int) []byte {
	line := shellquote.Join(w.Binary, "serve", "--project", name, "--port", strconv.Itoa(port))
	return []byte("#!/bin/sh\n# AUTOGENERATED by projrouter - DO NOT EDIT\nexec " + line + "\n")
}

// Unit renders the systemd unit for a project.
func (w *UnitWriter) Unit(name, dir string) ([]byte, error) {
	f := ini.Empty()

	unit, err := f.NewSection("Unit")
	if err != nil {
		return nil, err
	}
	unit.Key("Description").SetValue("Project backend " + name)
	unit.Key("After").SetValue("network.target")

	svc, err := f.NewSection("Service")
	if err != nil {
		return nil, err
	}
	svc.Key("Type").SetValue("simple")
	svc.Key("WorkingDirectory").SetValue(dir)
	svc.Key("ExecStart").SetValue(filepath.Join(dir, config.EntryPointName))
	svc.Key("Restart").SetValue("always")
	if w.User != "" {
		svc.Key("User").SetValue(w.User)
	}
	if w.Group != "" {
		svc.Key("Group").SetValue(w.Group)
	}

	install, err := f.NewSection("Install")
	if err != nil {
		return nil, err
	}
	install.Key("WantedBy").SetValue("multi-user.target")

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to render unit: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *UnitWriter) Write(name, dir string, port int) (string, error) {
	entry := filepath.Join(dir, config.EntryPointName)
	if err := fsutil.WriteFileAtomic(entry, w.EntryPoint(name, port), 0755); err != nil {
		return "", fmt.Errorf("failed to write entry point: %w", err)
	}

	unit, err := w.Unit(name, dir)
	if err != nil {
		return "", err
	}
	unitPath := filepath.Join(w.UnitDir, config.ServiceName(name))
	if err := fsutil.WriteFileAtomic(unitPath, unit, 0644); err != nil {
		return "", fmt.Errorf("failed to write unit: %w", err)
	}

	logging.Debug("wrote service descriptor", "project", name, "unit", unitPath, "entry", entry)
	return unitPath, nil
}
