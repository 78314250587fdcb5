package foundation

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/foundation/component"
	"github.com/kbukum/foundation/discovery"
	"github.com/kbukum/foundation/errors"
	"github.com/kbukum/foundation/logger"
	"github.com/kbukum/foundation/nullprovider"
	"github.com/kbukum/foundation/observability"
	"github.com/kbukum/foundation/spi"
	"github.com/kbukum/foundation/validation"
)

// ComponentName is the name the registry reports as a component.
const ComponentName = "foundation"

// Registry selects one provider manager on first use and serves typed
// providers from it. The zero value is not usable; call New.
type Registry struct {
	discoverer discovery.Discoverer
	fallback   spi.Manager
	log        *logger.Logger
	metrics    *observability.RegistryMetrics
	tracer     trace.Tracer

	once     sync.Once
	selected spi.Manager
	fellBack bool
}

var (
	_ component.Component   = (*Registry)(nil)
	_ component.Describable = (*Registry)(nil)
)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger faults and selection are reported to.
func WithLogger(l *logger.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// WithMetrics records resolution outcomes and swallowed faults.
func WithMetrics(m *observability.RegistryMetrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// WithTracer sets the tracer the resolution span is started on.
func WithTracer(t trace.Tracer) Option {
	return func(r *Registry) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithFallback replaces the null manager selected when resolution fails.
func WithFallback(m spi.Manager) Option {
	return func(r *Registry) {
		if m != nil {
			r.fallback = m
		}
	}
}

// New creates an unresolved registry. A nil discoverer finds no candidates.
func New(d discovery.Discoverer, opts ...Option) *Registry {
	r := &Registry{
		discoverer: d,
		fallback:   nullprovider.NewManager(),
		log:        logger.Get(ComponentName),
		tracer:     observability.Tracer(observability.InstrumentationName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// manager returns the selected manager, resolving it on first use.
func (r *Registry) manager() spi.Manager {
	r.once.Do(r.resolve)
	return r.selected
}

// selection is the outcome of a successful discovery.
type selection struct {
	manager    spi.Manager
	order      int
	candidates int
}

// resolve never panics: a panic from the tracer or the metrics keeps a
// manager already selected and otherwise selects the fallback.
func (r *Registry) resolve() {
	defer func() {
		if v := recover(); v != nil {
			if r.selected == nil {
				r.selected, r.fellBack = r.fallback, true
			}
			r.fault(context.Background(), "resolve", errors.Panic("resolve", v))
		}
	}()

	ctx, span := r.tracer.Start(context.Background(), observability.SpanResolve)
	defer span.End()

	sel, err := r.discover(ctx)
	if err != nil {
		r.selected, r.fellBack = r.fallback, true

		appErr, ok := errors.AsAppError(err)
		if !ok {
			appErr = errors.Internal(err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, string(appErr.Code))
		span.SetAttributes(attribute.String(observability.AttrOutcome, observability.OutcomeFallback))
		r.metrics.RecordResolve(ctx, observability.OutcomeFallback)
		r.fault(ctx, "resolve", appErr)
		r.report(func() {
			r.log.Warn("no provider manager resolved, using fallback", map[string]interface{}{
				logger.FieldManager: fmt.Sprintf("%T", r.fallback),
			})
		})
		return
	}

	r.selected = sel.manager
	span.SetAttributes(
		attribute.String(observability.AttrOutcome, observability.OutcomeSelected),
		attribute.String(observability.AttrManager, fmt.Sprintf("%T", sel.manager)),
		attribute.Int(observability.AttrOrder, sel.order),
		attribute.Int(observability.AttrCandidates, sel.candidates),
	)
	r.metrics.RecordResolve(ctx, observability.OutcomeSelected)
	r.report(func() {
		r.log.Info("provider manager selected", map[string]interface{}{
			logger.FieldManager:    fmt.Sprintf("%T", sel.manager),
			logger.FieldOrder:      sel.order,
			logger.FieldCandidates: sel.candidates,
		})
	})
}

// discover runs the discoverer and picks the lowest-order candidate. Every
// failure, including a panic, comes back as an *errors.AppError.
func (r *Registry) discover(ctx context.Context) (sel selection, err error) {
	ctx, span := r.tracer.Start(ctx, observability.SpanDiscover)
	defer r.report(func() { span.End() })
	defer func() {
		if v := recover(); v != nil {
			sel, err = selection{}, errors.Panic("resolve", v)
		}
		if err != nil {
			observability.SetSpanError(ctx, err)
		}
	}()

	if r.discoverer == nil {
		return selection{}, errors.NoCandidates()
	}
	candidates, err := r.discoverer.Discover()
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok && appErr.Code == errors.ErrCodeDiscoveryFailed {
			return selection{}, appErr
		}
		return selection{}, errors.DiscoveryFailed("discoverer", err)
	}
	if len(candidates) == 0 {
		return selection{}, errors.NoCandidates()
	}

	slices.SortStableFunc(candidates, func(a, b spi.Manager) int {
		return cmp.Compare(a.Order(), b.Order())
	})
	selected := candidates[0]
	if selected == nil {
		return selection{}, errors.DiscoveryFailed("discoverer", fmt.Errorf("nil manager discovered"))
	}
	return selection{manager: selected, order: selected.Order(), candidates: len(candidates)}, nil
}

// Resolve forces resolution and returns the selected manager, which is the
// fallback when resolution failed. It never returns nil.
func (r *Registry) Resolve() spi.Manager {
	return r.manager()
}

// FellBack reports whether resolution failed and the fallback is in use.
func (r *Registry) FellBack() bool {
	r.manager()
	return r.fellBack
}

// Property returns the named property from the selected manager, or
// defaultValue when the manager has no answer or fails.
func (r *Registry) Property(name, defaultValue string) string {
	if err := validation.Required("name", name); err != nil {
		r.report(func() { r.manager() })
		return defaultValue
	}
	return safeCall(r, "property", defaultValue, func(m spi.Manager) (string, error) {
		return m.Property(name, defaultValue)
	})
}

// Network returns the network provider, or the null provider on failure.
func (r *Registry) Network() spi.NetworkProvider {
	return safeCall(r, "network", spi.NetworkProvider(nullprovider.Default), func(m spi.Manager) (spi.NetworkProvider, error) {
		p, err := m.Network()
		if err == nil && p == nil {
			err = errors.ProviderNotFound(string(spi.CapabilityNetwork))
		}
		return p, err
	})
}

// Server returns the server provider, or the null provider on failure.
func (r *Registry) Server() spi.ServerProvider {
	return safeCall(r, "server", spi.ServerProvider(nullprovider.Default), func(m spi.Manager) (spi.ServerProvider, error) {
		p, err := m.Server()
		if err == nil && p == nil {
			err = errors.ProviderNotFound(string(spi.CapabilityServer))
		}
		return p, err
	})
}

// Application returns the application provider, or the null provider on failure.
func (r *Registry) Application() spi.ApplicationProvider {
	return safeCall(r, "application", spi.ApplicationProvider(nullprovider.Default), func(m spi.Manager) (spi.ApplicationProvider, error) {
		p, err := m.Application()
		if err == nil && p == nil {
			err = errors.ProviderNotFound(string(spi.CapabilityApplication))
		}
		return p, err
	})
}

// Name implements component.Component.
func (r *Registry) Name() string { return ComponentName }

// Start resolves the manager eagerly. Resolution failures are not returned;
// they leave the registry on its fallback.
func (r *Registry) Start(_ context.Context) error {
	r.manager()
	return nil
}

// Stop implements component.Component.
func (r *Registry) Stop(_ context.Context) error { return nil }

// Health reports degraded while the fallback is in use.
func (r *Registry) Health(_ context.Context) component.Health {
	if r.FellBack() {
		return component.Health{
			Name:    ComponentName,
			Status:  component.StatusDegraded,
			Message: "no provider manager resolved; serving defaults",
		}
	}
	return component.Health{Name: ComponentName, Status: component.StatusHealthy}
}

// Describe implements component.Describable.
func (r *Registry) Describe() component.Description {
	details := fmt.Sprintf("manager=%T", r.manager())
	if r.FellBack() {
		details += " (fallback)"
	}
	return component.Description{Name: "Provider registry", Type: "registry", Details: details}
}
