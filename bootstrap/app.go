package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kbukum/foundation"
	"github.com/kbukum/foundation/component"
	"github.com/kbukum/foundation/defaults"
	"github.com/kbukum/foundation/discovery"
	"github.com/kbukum/foundation/logger"
	"github.com/kbukum/foundation/observability"
	"github.com/kbukum/foundation/server"
)

// App owns the registry, the optional diagnostics server and their lifecycle.
type App struct {
	Name       string
	Cfg        *Config
	Registry   *foundation.Registry
	Server     *server.Server
	Components *component.Group
	Logger     *logger.Logger

	discoverer      discovery.Discoverer
	gracefulTimeout time.Duration
	telemetry       []func(context.Context) error

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// NewApp validates cfg and builds the application. Telemetry exporters are
// created here when enabled; nothing is started until Run or Start.
func NewApp(cfg *Config, opts ...Option) (*App, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	o := resolveOptions(opts)
	a := &App{
		Name:            cfg.Name,
		Cfg:             cfg,
		Components:      component.NewGroup(),
		discoverer:      discovery.Default(),
		gracefulTimeout: 15 * time.Second,
	}
	if o.discoverer != nil {
		a.discoverer = o.discoverer
	}
	if o.gracefulTimeout != nil {
		a.gracefulTimeout = *o.gracefulTimeout
	}
	if o.logger != nil {
		a.Logger = o.logger
	} else {
		logger.Init(&cfg.Logging)
		a.Logger = logger.GetGlobalLogger()
	}

	defaults.Use(&cfg.Settings)

	regOpts := []foundation.Option{foundation.WithLogger(a.Logger.WithComponent(foundation.ComponentName))}
	if cfg.Observability.Enabled {
		metrics, err := a.initTelemetry(context.Background())
		if err != nil {
			return nil, err
		}
		regOpts = append(regOpts, foundation.WithMetrics(metrics))
	}
	a.Registry = foundation.New(a.discoverer, regOpts...)
	if o.discoverer == nil && !foundation.SetDefault(a.Registry) {
		// Another registry already serves the process; share it.
		a.Registry = foundation.Default()
		a.Logger.Info("using the existing process-wide provider registry")
	}
	if err := a.Components.Register(a.Registry); err != nil {
		return nil, err
	}

	if cfg.Server.Enabled {
		a.Server = server.New(cfg.Server, a.Logger)
		a.Server.RegisterEndpoints(server.Deps{
			ServiceName: a.Name,
			Health:      a.Components.HealthAll,
			Describe:    a.Components.Describe,
			Environment: a.Registry,
		})
		if err := a.Components.Register(a.Server); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// RegisterComponent adds c to the lifecycle. Register before Start.
func (a *App) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// initTelemetry installs the OTLP tracer and meter providers and returns the
// registry instruments.
func (a *App) initTelemetry(ctx context.Context) (*observability.RegistryMetrics, error) {
	oc := a.Cfg.Observability

	tp, err := observability.InitTracer(ctx, observability.TracerConfig{
		ServiceName:    a.Name,
		ServiceVersion: a.Cfg.Version,
		Environment:    a.Cfg.Env,
		Endpoint:       oc.Endpoint,
		Insecure:       oc.Insecure,
		SampleRate:     oc.SampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	a.telemetry = append(a.telemetry, tp.Shutdown)

	mp, err := observability.InitMeter(ctx, observability.MeterConfig{
		ServiceName:    a.Name,
		ServiceVersion: a.Cfg.Version,
		Environment:    a.Cfg.Env,
		Endpoint:       oc.Endpoint,
		Insecure:       oc.Insecure,
		Interval:       oc.Interval,
	})
	if err != nil {
		return nil, fmt.Errorf("init meter: %w", err)
	}
	a.telemetry = append(a.telemetry, mp.Shutdown)

	return observability.NewRegistryMetrics(mp.Meter(observability.InstrumentationName))
}

// ReadyCheck reports components that are not healthy.
func (a *App) ReadyCheck(ctx context.Context) error {
	var notHealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		detail := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			detail += "(" + h.Message + ")"
		}
		notHealthy = append(notHealthy, detail)
	}
	if len(notHealthy) > 0 {
		return fmt.Errorf("components not healthy: %v", notHealthy)
	}
	return nil
}

// Run starts the application, blocks until a shutdown signal or ctx is done,
// then shuts down.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}
	a.Logger.Info("application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)
	return a.Shutdown(context.Background())
}

// Start starts every component, runs OnStart hooks, performs the ready check
// and runs OnReady hooks. A degraded registry is reported, not fatal.
func (a *App) Start(ctx context.Context) error {
	start := time.Now()
	a.Logger.Info("starting application", map[string]interface{}{
		"name":    a.Name,
		"version": a.Cfg.Version,
	})

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("start components: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("ready check reported issues", logger.ErrorFields("ready_check", err))
	}
	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	app := a.Registry.Application()
	srv := a.Registry.Server()
	fields := logger.DurationFields("start", time.Since(start))
	fields["app_id"] = app.AppID()
	fields["env"] = srv.EnvType()
	fields["idc"] = srv.DataCenter()
	fields["fell_back"] = a.Registry.FellBack()
	a.Logger.Info("application started", fields)
	return nil
}

// WaitForSignal blocks until SIGINT/SIGTERM or ctx is done.
func (a *App) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("received shutdown signal", map[string]interface{}{
			"signal": sig.String(),
		})
		return sig
	case <-ctx.Done():
		a.Logger.Info("context canceled, shutting down")
		return nil
	}
}

// Shutdown runs OnStop hooks, stops components in reverse order and flushes
// telemetry, all within the graceful timeout.
func (a *App) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.gracefulTimeout)
	defer cancel()

	var errs []error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("onStop hook error", logger.ErrorFields("shutdown", err))
		errs = append(errs, err)
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("component shutdown error", logger.ErrorFields("shutdown", err))
		errs = append(errs, err)
	}
	errs = append(errs, a.flushTelemetry(ctx)...)

	a.Logger.Info("application shutdown complete")
	return stderrors.Join(errs...)
}

// flushTelemetry shuts the tracer and meter providers down concurrently.
func (a *App) flushTelemetry(ctx context.Context) []error {
	flushErrs := make([]error, len(a.telemetry))
	var g errgroup.Group
	for i, flush := range a.telemetry {
		g.Go(func() error {
			if err := flush(ctx); err != nil {
				flushErrs[i] = fmt.Errorf("telemetry shutdown: %w", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, err := range flushErrs {
		if err != nil {
			a.Logger.Error("telemetry flush error", logger.MergeWithError(logger.Fields(logger.FieldOperation, "shutdown"), err))
			errs = append(errs, err)
		}
	}
	return errs
}
