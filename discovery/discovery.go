package discovery

import (
	"github.com/kbukum/foundation/spi"
)

// Discoverer enumerates candidate managers. It may return an empty slice.
type Discoverer interface {
	Discover() ([]spi.Manager, error)
}

// Func adapts a plain function to the Discoverer interface.
type Func func() ([]spi.Manager, error)

// Discover calls f.
func (f Func) Discover() ([]spi.Manager, error) { return f() }

// Static returns a Discoverer that always yields the given managers.
func Static(managers ...spi.Manager) Discoverer {
	return Func(func() ([]spi.Manager, error) {
		out := make([]spi.Manager, len(managers))
		copy(out, managers)
		return out, nil
	})
}
