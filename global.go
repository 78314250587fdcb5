package foundation

import (
	"sync"
	"sync/atomic"

	"github.com/kbukum/foundation/discovery"
	"github.com/kbukum/foundation/logger"
	"github.com/kbukum/foundation/observability"
	"github.com/kbukum/foundation/spi"

	// Registers the built-in manager with the default catalog.
	_ "github.com/kbukum/foundation/defaults"
)

var (
	defaultRegistry atomic.Pointer[Registry]
	buildDefault    = sync.OnceValue(newDefaultRegistry)
)

func newDefaultRegistry() *Registry {
	opts := []Option{}
	if m, err := observability.NewRegistryMetrics(observability.Meter(observability.InstrumentationName)); err == nil {
		opts = append(opts, WithMetrics(m))
	} else {
		logger.Get(ComponentName).Warn("registry metrics unavailable", logger.ErrorFields("metrics", err))
	}
	return New(discovery.Default(), opts...)
}

// Default returns the process-wide registry. It is the registry installed
// with SetDefault or, when none was, one over discovery.Default() built on
// first call. Resolution still waits for the first accessor.
func Default() *Registry {
	if r := defaultRegistry.Load(); r != nil {
		return r
	}
	defaultRegistry.CompareAndSwap(nil, buildDefault())
	return defaultRegistry.Load()
}

// SetDefault installs r as the process-wide registry. It reports false, and
// changes nothing, when r is nil or a default is already in place.
func SetDefault(r *Registry) bool {
	if r == nil {
		return false
	}
	return defaultRegistry.CompareAndSwap(nil, r)
}

// GetProperty returns a property from the default registry.
func GetProperty(name, defaultValue string) string {
	return Default().Property(name, defaultValue)
}

// Net returns the default registry's network provider.
func Net() spi.NetworkProvider { return Default().Network() }

// Server returns the default registry's server provider.
func Server() spi.ServerProvider { return Default().Server() }

// App returns the default registry's application provider.
func App() spi.ApplicationProvider { return Default().Application() }
