package bootstrap

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/foundation"
	"github.com/kbukum/foundation/component"
	"github.com/kbukum/foundation/discovery"
	"github.com/kbukum/foundation/logger"
	"github.com/kbukum/foundation/nullprovider"
	"github.com/kbukum/foundation/spi"
)

// mockComponent implements component.Component for testing.
type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   component.Health
	started  bool
	stopped  bool
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	m.started = true
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	m.stopped = true
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) component.Health {
	return m.health
}

// namedManager answers app.id with its id.
type namedManager struct {
	nullprovider.Manager
	id string
}

func (m namedManager) Order() int { return 0 }
func (m namedManager) Property(name, def string) (string, error) {
	if name == "app.id" {
		return m.id, nil
	}
	return def, nil
}

func newTestConfig(name string) *Config {
	cfg := &Config{}
	cfg.Name = name
	return cfg
}

func newTestApp(t *testing.T, cfg *Config, opts ...Option) *App {
	t.Helper()
	opts = append([]Option{
		WithLogger(logger.Nop()),
		WithDiscoverer(discovery.Static(namedManager{id: "svc"})),
	}, opts...)
	app, err := NewApp(cfg, opts...)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t, newTestConfig("test-svc"))

	if app.Name != "test-svc" {
		t.Errorf("expected name 'test-svc', got %q", app.Name)
	}
	if app.Registry == nil || app.Components == nil || app.Logger == nil {
		t.Fatal("expected registry, components and logger")
	}
	if app.Server != nil {
		t.Error("server should be disabled by default")
	}
	if app.Components.Get("foundation") == nil {
		t.Error("expected registry registered as component")
	}
	if app.Cfg.AppPropertiesFile == "" || app.Cfg.Server.Port == 0 {
		t.Error("expected defaults applied")
	}
}

func TestNewAppValidation(t *testing.T) {
	cfg := newTestConfig("test")
	cfg.Observability.SampleRate = 2

	if _, err := NewApp(cfg, WithLogger(logger.Nop())); err == nil {
		t.Error("expected error for sample rate above 1")
	}

	cfg = newTestConfig("test")
	cfg.Server.Port = -1
	if _, err := NewApp(cfg, WithLogger(logger.Nop())); err == nil {
		t.Error("expected error for negative port")
	}
}

func TestNewAppWithOptions(t *testing.T) {
	app := newTestApp(t, newTestConfig("test"), WithGracefulTimeout(30*time.Second))
	if app.gracefulTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", app.gracefulTimeout)
	}
}

func TestRegisterComponentDuplicate(t *testing.T) {
	app := newTestApp(t, newTestConfig("test"))
	if err := app.RegisterComponent(&mockComponent{name: "db"}); err != nil {
		t.Fatalf("RegisterComponent failed: %v", err)
	}
	if err := app.RegisterComponent(&mockComponent{name: "db"}); err == nil {
		t.Error("expected error for duplicate component registration")
	}
}

func TestHooks(t *testing.T) {
	app := newTestApp(t, newTestConfig("test"))
	var calls []string
	app.OnStart(func(context.Context) error { calls = append(calls, "start"); return nil })
	app.OnReady(func(context.Context) error { calls = append(calls, "ready"); return nil })
	app.OnStop(func(context.Context) error { calls = append(calls, "stop"); return nil })

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := app.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if fmt.Sprint(calls) != "[start ready stop]" {
		t.Errorf("unexpected hook order %v", calls)
	}
}

func TestRunHooksError(t *testing.T) {
	err := runHooks(context.Background(), []Hook{
		func(context.Context) error { return nil },
		func(context.Context) error { return fmt.Errorf("boom") },
	})
	if err == nil {
		t.Fatal("expected hook error")
	}
}

func TestStartResolvesRegistry(t *testing.T) {
	app := newTestApp(t, newTestConfig("test"))
	if err := app.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if app.Registry.FellBack() {
		t.Error("expected a selected manager")
	}
	if got := app.Registry.Property("app.id", ""); got != "svc" {
		t.Errorf("app.id = %q, want svc", got)
	}
	if err := app.ReadyCheck(context.Background()); err != nil {
		t.Errorf("ReadyCheck: %v", err)
	}
}

// processDiscoveries counts how often the default catalog built the test manager.
var processDiscoveries atomic.Int32

func init() {
	discovery.MustRegister("bootstrap-test", func() (spi.Manager, error) {
		processDiscoveries.Add(1)
		return namedManager{id: "process"}, nil
	})
}

func TestAppSharesProcessRegistry(t *testing.T) {
	ctx := context.Background()
	first, err := NewApp(newTestConfig("first"), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if foundation.Default() != first.Registry {
		t.Fatal("app registry is not the process default")
	}
	if got := foundation.GetProperty("app.id", ""); got != "process" {
		t.Errorf("foundation.GetProperty(app.id) = %q, want process", got)
	}
	if foundation.App() != first.Registry.Application() {
		t.Error("foundation.App() differs from the app registry")
	}

	second, err := NewApp(newTestConfig("second"), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if second.Registry != first.Registry {
		t.Error("second app built its own registry")
	}
	if err := second.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	foundation.Net()

	if got := processDiscoveries.Load(); got != 1 {
		t.Errorf("discoveries = %d, want 1", got)
	}
}

func TestReadyCheckReportsFallback(t *testing.T) {
	app := newTestApp(t, newTestConfig("test"),
		WithDiscoverer(discovery.Func(func() ([]spi.Manager, error) {
			return nil, fmt.Errorf("no plugins")
		})))

	if err := app.Start(context.Background()); err != nil {
		t.Fatalf("Start must not fail on fallback: %v", err)
	}
	if err := app.ReadyCheck(context.Background()); err == nil {
		t.Error("expected ready check to report the degraded registry")
	}
}

func TestStartComponentFailure(t *testing.T) {
	app := newTestApp(t, newTestConfig("test"))
	app.RegisterComponent(&mockComponent{name: "broken", startErr: fmt.Errorf("refused")})
	if err := app.Start(context.Background()); err == nil {
		t.Error("expected start error")
	}
}

func TestRunWithServer(t *testing.T) {
	cfg := newTestConfig("test")
	cfg.Server.Enabled = true
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = freePort(t)
	app := newTestApp(t, cfg)
	if app.Server == nil {
		t.Fatal("expected server")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for app.Server.Health(ctx).Status != component.StatusHealthy {
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("server did not start")
		}
		time.Sleep(10 * time.Millisecond)
	}

	resp, err := http.Get("http://" + app.Server.Addr() + "/environment")
	if err != nil {
		cancel()
		t.Fatalf("GET /environment: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run returned %v", err)
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("SERVER_PORT", "9091")
	t.Setenv("OBSERVABILITY_SAMPLE_RATE", "0.5")
	cfg, err := LoadConfig("bootstrap-test-service")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "bootstrap-test-service" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Server.Port != 9091 {
		t.Errorf("Server.Port = %d, want 9091", cfg.Server.Port)
	}
	if cfg.Observability.SampleRate != 0.5 {
		t.Errorf("SampleRate = %v, want 0.5", cfg.Observability.SampleRate)
	}
}

func TestShutdownFlushesTelemetry(t *testing.T) {
	app := newTestApp(t, newTestConfig("test"))
	var flushed atomic.Int32
	app.telemetry = []func(context.Context) error{
		func(context.Context) error { flushed.Add(1); return nil },
		func(context.Context) error { flushed.Add(1); return fmt.Errorf("exporter unreachable") },
		func(context.Context) error { flushed.Add(1); return fmt.Errorf("meter closed") },
	}

	err := app.Shutdown(context.Background())
	if got := flushed.Load(); got != 3 {
		t.Errorf("flushed = %d, want 3", got)
	}
	if err == nil {
		t.Fatal("expected joined flush errors")
	}
	for _, want := range []string{"exporter unreachable", "meter closed"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}
