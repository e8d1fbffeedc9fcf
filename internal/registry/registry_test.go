package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/firefly-engineering/projrouter/internal/errors"
)

const validRegistry = `[global]
root = "/srv/projects"
domain = "example.com"
https_port = 443
nginx_routes_file = "/etc/nginx/snippets/projrouter-routes.conf"

[projects]
beta = 9002
alpha = 9001
`

func writeRegistry(t *testing.T, content string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write registry: %v", err)
	}
	return NewStore(path)
}

func TestLoad(t *testing.T) {
	store := writeRegistry(t, validRegistry)

	reg, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if reg.Global.Root != "/srv/projects" {
		t.Errorf("Root = %q, want %q", reg.Global.Root, "/srv/projects")
	}
	if reg.Global.Domain != "example.com" {
		t.Errorf("Domain = %q, want %q", reg.Global.Domain, "example.com")
	}
	if reg.Global.HTTPSPort != 443 {
		t.Errorf("HTTPSPort = %d, want 443", reg.Global.HTTPSPort)
	}
	if reg.Global.RoutesFile != "/etc/nginx/snippets/projrouter-routes.conf" {
		t.Errorf("RoutesFile = %q", reg.Global.RoutesFile)
	}

	names := reg.Names()
	if strings.Join(names, ",") != "alpha,beta" {
		t.Errorf("Names() = %v, want [alpha beta]", names)
	}
	if port, _ := reg.Port("beta"); port != 9002 {
		t.Errorf("Port(beta) = %d, want 9002", port)
	}
}

func TestLoad_Missing(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.toml"))

	_, err := store.Load()
	if !errors.IsKind(err, errors.KindRegistryMissing) {
		t.Fatalf("Load error = %v, want RegistryMissing", err)
	}
}

func TestLoad_NoProjectsSection(t *testing.T) {
	store := writeRegistry(t, `[global]
root = "/srv"
domain = "example.com"
https_port = 8443
nginx_routes_file = "/tmp/routes.conf"
`)

	reg, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if reg.Projects == nil || len(reg.Projects) != 0 {
		t.Errorf("Projects = %v, want empty non-nil map", reg.Projects)
	}
}

func TestLoad_Malformed(t *testing.T) {
	global := `[global]
root = "/srv"
domain = "example.com"
https_port = 443
nginx_routes_file = "/tmp/routes.conf"
`
	tests := []struct {
		name    string
		content string
	}{
		{"not toml", "this is = = not toml"},
		{"missing root", strings.Replace(global, `root = "/srv"`, "", 1)},
		{"missing domain", strings.Replace(global, `domain = "example.com"`, "", 1)},
		{"missing https_port", strings.Replace(global, "https_port = 443", "", 1)},
		{"missing routes file", strings.Replace(global, `nginx_routes_file = "/tmp/routes.conf"`, "", 1)},
		{"https_port not a number", strings.Replace(global, "https_port = 443", `https_port = "443"`, 1)},
		{"https_port out of range", strings.Replace(global, "https_port = 443", "https_port = 70000", 1)},
		{"project port out of range", global + "\n[projects]\nalpha = 0\n"},
		{"project port not a number", global + "\n[projects]\nalpha = \"x\"\n"},
		{"project name invalid", global + "\n[projects]\n\"bad name\" = 9001\n"},
		{"duplicate ports", global + "\n[projects]\nalpha = 9001\nbeta = 9001\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := writeRegistry(t, tt.content)
			_, err := store.Load()
			if !errors.IsKind(err, errors.KindRegistryMalformed) {
				t.Errorf("Load error = %v, want RegistryMalformed", err)
			}
		})
	}
}

func TestSave_DeterministicLayout(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "registry.toml"))
	reg := &Registry{
		Global: Global{
			Root:       "/srv/projects",
			Domain:     "example.com",
			HTTPSPort:  443,
			RoutesFile: "/etc/nginx/routes.conf",
		},
		Projects: map[string]int{"zeta": 9003, "alpha": 9001, "mid": 9002},
	}

	if err := store.Save(reg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	first, err := os.ReadFile(store.Path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	if err := store.Save(reg.Clone()); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	second, _ := os.ReadFile(store.Path)
	if string(first) != string(second) {
		t.Errorf("Save is not deterministic:\n%s\n---\n%s", first, second)
	}

	text := string(first)
	order := []string{"[global]", "root", "domain", "https_port", "nginx_routes_file", "[projects]", "alpha", "mid", "zeta"}
	last := -1
	for _, token := range order {
		idx := strings.Index(text, token)
		if idx < 0 {
			t.Fatalf("saved registry lacks %q:\n%s", token, text)
		}
		if idx < last {
			t.Errorf("%q appears out of order in:\n%s", token, text)
		}
		last = idx
	}

	info, _ := os.Stat(store.Path)
	if info.Mode().Perm() != 0644 {
		t.Errorf("mode = %v, want 0644", info.Mode().Perm())
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store := writeRegistry(t, validRegistry)

	original, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := store.Save(original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	reloaded, err := store.Load()
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	if reloaded.Global != original.Global {
		t.Errorf("Global = %+v, want %+v", reloaded.Global, original.Global)
	}
	if len(reloaded.Projects) != len(original.Projects) {
		t.Fatalf("Projects = %v, want %v", reloaded.Projects, original.Projects)
	}
	for name, port := range original.Projects {
		if reloaded.Projects[name] != port {
			t.Errorf("Projects[%s] = %d, want %d", name, reloaded.Projects[name], port)
		}
	}
}

func TestRegistryHelpers(t *testing.T) {
	reg := &Registry{}
	reg.Set("alpha", 9001)
	reg.Set("beta", 9002)

	if owner, ok := reg.Owner(9002); !ok || owner != "beta" {
		t.Errorf("Owner(9002) = %q, %v; want beta, true", owner, ok)
	}
	if _, ok := reg.Owner(9999); ok {
		t.Error("Owner(9999) should not be found")
	}

	clone := reg.Clone()
	clone.Delete("alpha")
	if _, ok := reg.Port("alpha"); !ok {
		t.Error("Delete on clone must not affect the original")
	}
	if _, ok := clone.Port("alpha"); ok {
		t.Error("Delete should remove alpha from the clone")
	}
}

func TestLock_Exclusive(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "registry.toml"))

	lock, err := store.Lock()
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	if _, err := store.TryLock(); !errors.Is(err, ErrLocked) {
		t.Errorf("TryLock while held = %v, want ErrLocked", err)
	}

	if err := lock.Unlock(); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}

	second, err := store.TryLock()
	if err != nil {
		t.Fatalf("TryLock after Unlock failed: %v", err)
	}
	_ = second.Unlock()
}
