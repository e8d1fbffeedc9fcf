package testutil

import (
	"embed"

	"github.com/firefly-engineering/projrouter/internal/registry"
)

//go:embed fixtures/*.toml
var fixturesFS embed.FS

// LoadFixture loads a fixture file by name.
func LoadFixture(name string) ([]byte, error) {
	return fixturesFS.ReadFile("fixtures/" + name)
}

// LoadRegistryFixture parses a registry fixture.
func LoadRegistryFixture(name string) (*registry.Registry, error) {
	data, err := LoadFixture(name)
	if err != nil {
		return nil, err
	}
	return registry.Parse(data)
}

// ValidRegistry returns the alpha/beta registry fixture.
func ValidRegistry() (*registry.Registry, error) {
	return LoadRegistryFixture("valid_registry.toml")
}
