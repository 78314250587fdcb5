package discovery

import (
	"fmt"
	"sync"

	"github.com/kbukum/foundation/errors"
	"github.com/kbukum/foundation/spi"
)

// Factory creates a manager candidate.
type Factory func() (spi.Manager, error)

type entry struct {
	name    string
	factory Factory
}

// Catalog is an ordered set of named manager factories.
type Catalog struct {
	mu      sync.RWMutex
	entries []entry
	index   map[string]int
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{index: make(map[string]int)}
}

// Register appends a named factory. Names must be unique.
func (c *Catalog) Register(name string, factory Factory) error {
	if name == "" {
		return errors.InvalidInput("name", "factory name must not be empty")
	}
	if factory == nil {
		return errors.InvalidInput("factory", fmt.Sprintf("factory %q is nil", name))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.index[name]; exists {
		return errors.AlreadyExists("manager factory").WithDetail("name", name)
	}
	c.index[name] = len(c.entries)
	c.entries = append(c.entries, entry{name: name, factory: factory})
	return nil
}

// Names returns the registered factory names in registration order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.name
	}
	return names
}

// Len returns the number of registered factories.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Discover instantiates every registered factory in registration order.
// The first factory error aborts discovery.
func (c *Catalog) Discover() ([]spi.Manager, error) {
	c.mu.RLock()
	entries := make([]entry, len(c.entries))
	copy(entries, c.entries)
	c.mu.RUnlock()

	managers := make([]spi.Manager, 0, len(entries))
	for _, e := range entries {
		m, err := e.factory()
		if err != nil {
			return nil, errors.DiscoveryFailed(e.name, err)
		}
		if m == nil {
			return nil, errors.DiscoveryFailed(e.name, fmt.Errorf("factory %q returned a nil manager", e.name))
		}
		managers = append(managers, m)
	}
	return managers, nil
}

// --- process-wide catalog ---

var defaultCatalog = NewCatalog()

// Default returns the process-wide catalog plugins register into.
func Default() *Catalog { return defaultCatalog }

// Register adds a factory to the process-wide catalog.
func Register(name string, factory Factory) error {
	return defaultCatalog.Register(name, factory)
}

// MustRegister is like Register but panics on error. Intended for init functions.
func MustRegister(name string, factory Factory) {
	if err := Register(name, factory); err != nil {
		panic(err)
	}
}
