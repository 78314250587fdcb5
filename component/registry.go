package component

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/foundation/errors"
	"github.com/kbukum/foundation/logger"
)

// DefaultStopTimeout bounds each component's Stop call.
const DefaultStopTimeout = 10 * time.Second

type entry struct {
	component Component
	started   bool
}

// Group manages component lifecycle with deterministic ordering.
// Components are started in registration order and stopped in reverse order.
type Group struct {
	mu      sync.RWMutex
	entries []*entry
	lookup  map[string]*entry
	log     *logger.Logger
}

// NewGroup creates an empty group.
func NewGroup() *Group {
	return &Group{
		lookup: make(map[string]*entry),
		log:    logger.Get("component"),
	}
}

// Register adds c. Names must be unique.
func (g *Group) Register(c Component) error {
	if c == nil {
		return errors.InvalidInput("component", "must not be nil")
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	name := c.Name()
	if _, exists := g.lookup[name]; exists {
		return errors.AlreadyExists("component " + name)
	}
	e := &entry{component: c}
	g.entries = append(g.entries, e)
	g.lookup[name] = e

	g.log.Debug("component registered", map[string]interface{}{
		logger.FieldComponent: name,
	})
	return nil
}

// StartAll starts components in registration order and stops at the first
// failure. Components already started stay started.
func (g *Group) StartAll(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, e := range g.entries {
		if e.started {
			continue
		}
		name := e.component.Name()
		if err := e.component.Start(ctx); err != nil {
			g.log.Error("component start failed", map[string]interface{}{
				logger.FieldComponent: name,
				logger.FieldError:     err.Error(),
			})
			return fmt.Errorf("start %s: %w", name, err)
		}
		e.started = true
		g.log.Debug("component started", map[string]interface{}{
			logger.FieldComponent: name,
		})
	}
	g.log.Info("components started", map[string]interface{}{
		"count": len(g.entries),
	})
	return nil
}

// StopAll stops started components in reverse registration order. Every
// component is attempted; failures are joined.
func (g *Group) StopAll(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	var errs []error
	for i := len(g.entries) - 1; i >= 0; i-- {
		e := g.entries[i]
		if !e.started {
			continue
		}
		name := e.component.Name()

		stopCtx, cancel := context.WithTimeout(ctx, DefaultStopTimeout)
		err := e.component.Stop(stopCtx)
		cancel()
		e.started = false

		if err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", name, err))
			g.log.Error("component stop failed", map[string]interface{}{
				logger.FieldComponent: name,
				logger.FieldError:     err.Error(),
			})
			continue
		}
		g.log.Debug("component stopped", map[string]interface{}{
			logger.FieldComponent: name,
		})
	}
	return stderrors.Join(errs...)
}

// HealthAll returns the health of every component in registration order.
func (g *Group) HealthAll(ctx context.Context) []Health {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]Health, 0, len(g.entries))
	for _, e := range g.entries {
		out = append(out, e.component.Health(ctx))
	}
	return out
}

// Describe returns descriptions of components implementing Describable.
func (g *Group) Describe() []Description {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []Description
	for _, e := range g.entries {
		d, ok := e.component.(Describable)
		if !ok {
			continue
		}
		desc := d.Describe()
		if desc.Name == "" {
			desc.Name = e.component.Name()
		}
		out = append(out, desc)
	}
	return out
}

// Get returns the component registered under name, or nil.
func (g *Group) Get(name string) Component {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if e, ok := g.lookup[name]; ok {
		return e.component
	}
	return nil
}

// All returns the components in registration order.
func (g *Group) All() []Component {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Component, 0, len(g.entries))
	for _, e := range g.entries {
		out = append(out, e.component)
	}
	return out
}
