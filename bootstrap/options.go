package bootstrap

import (
	"time"

	"github.com/kbukum/foundation/discovery"
	"github.com/kbukum/foundation/logger"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	discoverer      discovery.Discoverer
	gracefulTimeout *time.Duration
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger. If not set, the logger is initialized from
// the config's logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithDiscoverer replaces discovery.Default() as the registry's source of
// provider managers. Such an app keeps a private registry; without this
// option the app's registry is the process-wide foundation.Default().
func WithDiscoverer(d discovery.Discoverer) Option {
	return func(o *appOptions) {
		o.discoverer = d
	}
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}
