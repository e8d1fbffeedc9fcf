// Package registry loads and persists the project registry, the source of
// truth mapping project names to backend ports plus host-wide settings.
package registry

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/firefly-engineering/projrouter/internal/config"
	"github.com/firefly-engineering/projrouter/internal/errors"
	"github.com/firefly-engineering/projrouter/internal/fsutil"
	"github.com/firefly-engineering/projrouter/internal/logging"
)

// Global holds the [global] section of the registry.
type Global struct {
	Root       string `toml:"root"`
	Domain     string `toml:"domain"`
	HTTPSPort  int    `toml:"https_port"`
	RoutesFile string `toml:"nginx_routes_file"`
}

// Registry is the in-memory form of the registry file.
type Registry struct {
	Global   Global         `toml:"global"`
	Projects map[string]int `toml:"projects"`
}

// requiredGlobalKeys lists the keys that must be present in [global].
var requiredGlobalKeys = []string{"root", "domain", "https_port", "nginx_routes_file"}

// Store reads and writes one registry file. It is the only writer of that file.
type Store struct {
	Path string
}

// NewStore returns a Store for the registry at path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load reads the registry from disk and validates every invariant.
func (s *Store) Load() (*Registry, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.RegistryMissing(s.Path)
		}
		return nil, errors.Wrap(errors.KindGeneral, errors.ExitGeneralError, "failed to read registry", err)
	}
	return Parse(data)
}

// Parse decodes registry TOML and validates it.
func Parse(data []byte) (*Registry, error) {
	var reg Registry
	meta, err := toml.Decode(string(data), &reg)
	if err != nil {
		return nil, errors.RegistryMalformed("failed to parse registry", err)
	}

	for _, key := range requiredGlobalKeys {
		if !meta.IsDefined("global", key) {
			return nil, errors.RegistryMalformed(fmt.Sprintf("registry is missing global field %q", key), nil)
		}
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		logging.Debug("ignoring unknown registry keys", "keys", fmt.Sprint(undecoded))
	}

	if reg.Projects == nil {
		reg.Projects = make(map[string]int)
	}

	if err := reg.Validate(); err != nil {
		return nil, errors.RegistryMalformed("invalid registry", err)
	}

	return &reg, nil
}

// Save writes the registry atomically.
func (s *Store) Save(reg *Registry) error {
	data, err := reg.Encode()
	if err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(s.Path, data, 0644); err != nil {
		return errors.Wrap(errors.KindGeneral, errors.ExitGeneralError, "failed to write registry", err)
	}
	logging.Debug("registry saved", "path", s.Path, "projects", len(reg.Projects))
	return nil
}

// Encode serializes the registry deterministically: [global] first with
// keys in fixed order, then [projects] sorted by name.
func (r *Registry) Encode() ([]byte, error) {
	out := *r
	if out.Projects == nil {
		out.Projects = map[string]int{}
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("failed to encode registry: %w", err)
	}
	return buf.Bytes(), nil
}

// Validate checks the global settings and every project entry.
func (r *Registry) Validate() error {
	g := r.Global
	if g.Root == "" {
		return fmt.Errorf("global root is empty")
	}
	if g.Domain == "" {
		return fmt.Errorf("global domain is empty")
	}
	if g.RoutesFile == "" {
		return fmt.Errorf("global nginx_routes_file is empty")
	}
	if err := config.ValidatePort(g.HTTPSPort); err != nil {
		return fmt.Errorf("global https_port: %w", err)
	}

	owners := make(map[int]string, len(r.Projects))
	for _, name := range r.Names() {
		port := r.Projects[name]
		if err := config.ValidateProjectName(name); err != nil {
			return err
		}
		if err := config.ValidatePort(port); err != nil {
			return fmt.Errorf("project %s: %w", name, err)
		}
		if other, taken := owners[port]; taken {
			return fmt.Errorf("projects %s and %s share port %d", other, name, port)
		}
		owners[port] = name
	}
	return nil
}

// Names returns the project names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Projects))
	for name := range r.Projects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Port returns the port registered for name.
func (r *Registry) Port(name string) (int, bool) {
	port, ok := r.Projects[name]
	return port, ok
}

// Owner returns the project registered on port.
func (r *Registry) Owner(port int) (string, bool) {
	for _, name := range r.Names() {
		if r.Projects[name] == port {
			return name, true
		}
	}
	return "", false
}

// Set registers or moves name to port.
func (r *Registry) Set(name string, port int) {
	if r.Projects == nil {
		r.Projects = make(map[string]int)
	}
	r.Projects[name] = port
}

// Delete removes name from the registry.
func (r *Registry) Delete(name string) {
	delete(r.Projects, name)
}

// Clone returns a deep copy.
func (r *Registry) Clone() *Registry {
	c := &Registry{Global: r.Global, Projects: make(map[string]int, len(r.Projects))}
	for name, port := range r.Projects {
		c.Projects[name] = port
	}
	return c
}
