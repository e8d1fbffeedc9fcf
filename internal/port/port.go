package port

import (
	"fmt"

	"github.com/firefly-engineering/projrouter/internal/config"
	"github.com/firefly-engineering/projrouter/internal/health"
	"github.com/firefly-engineering/projrouter/internal/registry"
)

// Default range scanned when none is given.
const (
	DefaultFrom = 9000
	DefaultTo   = 9999
)

// Range is an inclusive port range.
type Range struct {
	From int
	To   int
}

// Validate checks that the range is ordered and within 1-65535.
func (r Range) Validate() error {
	if err := config.ValidatePort(r.From); err != nil {
		return err
	}
	if err := config.ValidatePort(r.To); err != nil {
		return err
	}
	if r.From > r.To {
		return fmt.Errorf("invalid port range %d-%d", r.From, r.To)
	}
	return nil
}

// Allocate finds the lowest port in r that no project owns and nothing
// listens on. prober may be nil to consult the registry only.
func Allocate(reg *registry.Registry, r Range, prober health.Prober) (int, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}

	used := make(map[int]bool, len(reg.Projects))
	for _, p := range reg.Projects {
		used[p] = true
	}

	for p := r.From; p <= r.To; p++ {
		if used[p] {
			continue
		}
		if prober != nil && prober.PortOpen(config.LocalHost, p, config.PortProbeTimeout) {
			continue
		}
		return p, nil
	}

	return 0, fmt.Errorf("no available ports in range %d-%d", r.From, r.To)
}
