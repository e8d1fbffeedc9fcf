package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/firefly-engineering/projrouter/internal/errors"
)

// projectNameRegex validates project names. Names become URL path segments,
// directory names and part of a systemd unit name, so only a conservative
// character set is allowed.
var projectNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

const (
	DefaultUnitDir  = "/etc/systemd/system"
	DefaultStateDir = "/var/lib/projrouter"
	ServicePrefix   = "proj-"
	ServiceSuffix   = ".service"

	// LocalHost is the loopback address every backend binds to.
	LocalHost = "127.0.0.1"

	// HealthPath is served by every backend.
	HealthPath = "/health"

	// EntryPointName is the executable written into each project directory.
	EntryPointName = "backend"

	// RegistryEnv is consulted when --registry is not given.
	RegistryEnv = "PROJROUTER_REGISTRY"

	MinPort = 1
	MaxPort = 65535
)

// Timeouts bounding every blocking call.
const (
	PortProbeTimeout      = 300 * time.Millisecond
	LocalHealthTimeout    = 2 * time.Second
	ExternalHealthTimeout = 4 * time.Second
	CommandTimeout        = 30 * time.Second
)

// ValidateProjectName checks that name only uses [a-zA-Z0-9_-].
func ValidateProjectName(name string) error {
	if !projectNameRegex.MatchString(name) {
		return errors.InvalidName(name)
	}
	return nil
}

// ValidatePort checks that port is in 1-65535.
func ValidatePort(port int) error {
	if port < MinPort || port > MaxPort {
		return errors.InvalidPort(port)
	}
	return nil
}

// ServiceName returns the systemd unit name for a project.
func ServiceName(project string) string {
	return ServicePrefix + project + ServiceSuffix
}

// ProjectDir returns the workspace directory of a project under root.
// The result is guaranteed to stay inside root even if name were to
// contain traversal elements or root holds symlinks.
func ProjectDir(root, name string) (string, error) {
	if err := ValidateProjectName(name); err != nil {
		return "", err
	}
	dir, err := securejoin.SecureJoin(root, name)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project directory: %w", err)
	}
	return dir, nil
}

// Paths holds host paths that are not part of the registry.
type Paths struct {
	// UnitDir is where systemd unit descriptors are written.
	UnitDir string

	// StateDir holds the audit trail.
	StateDir string
}

// DefaultPaths returns the default path configuration
func DefaultPaths() *Paths {
	return &Paths{
		UnitDir:  DefaultUnitDir,
		StateDir: DefaultStateDir,
	}
}

// UnitPath returns the unit descriptor path for a project.
func (p *Paths) UnitPath(project string) string {
	return filepath.Join(p.UnitDir, ServiceName(project))
}
