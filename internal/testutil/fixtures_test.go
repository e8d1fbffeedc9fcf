package testutil

import (
	"testing"

	"github.com/firefly-engineering/projrouter/internal/errors"
)

func TestValidRegistry(t *testing.T) {
	reg, err := ValidRegistry()
	if err != nil {
		t.Fatalf("ValidRegistry() error: %v", err)
	}

	if reg.Global.Domain != "example.com" {
		t.Errorf("Domain = %q, want %q", reg.Global.Domain, "example.com")
	}
	if port, _ := reg.Port("beta"); port != 9002 {
		t.Errorf("Port(beta) = %d, want 9002", port)
	}
}

func TestInvalidRegistryFixtures(t *testing.T) {
	for _, name := range []string{"duplicate_ports_registry.toml", "missing_global_registry.toml"} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadRegistryFixture(name)
			if !errors.IsKind(err, errors.KindRegistryMalformed) {
				t.Errorf("LoadRegistryFixture(%s) error = %v, want RegistryMalformed", name, err)
			}
		})
	}
}

func TestLoadFixture_NotFound(t *testing.T) {
	if _, err := LoadFixture("nonexistent.toml"); err == nil {
		t.Error("LoadFixture should fail for nonexistent file")
	}
}
