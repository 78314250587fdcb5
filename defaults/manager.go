package defaults

import (
	"math"
	"sync"

	"github.com/kbukum/foundation/config"
	"github.com/kbukum/foundation/discovery"
	"github.com/kbukum/foundation/errors"
	"github.com/kbukum/foundation/logger"
	"github.com/kbukum/foundation/spi"
)

// LowestPrecedence is the order of the default manager.
const LowestPrecedence = math.MaxInt32

// ServiceName is the config service name the registered factory loads
// settings for.
const ServiceName = "foundation"

// Manager holds providers keyed by capability.
type Manager struct {
	mu        sync.RWMutex
	providers map[spi.Capability]spi.Provider
	order     []spi.Capability
}

var _ spi.Manager = (*Manager)(nil)

// NewManager creates a manager with the given providers registered.
func NewManager(providers ...spi.Provider) *Manager {
	m := &Manager{providers: make(map[spi.Capability]spi.Provider)}
	for _, p := range providers {
		m.Register(p)
	}
	return m
}

// New builds the default manager from settings. Providers that fail to
// initialize are kept with whatever they resolved and the failure is logged.
func New(s *config.Settings) *Manager {
	log := logger.Get("foundation.defaults")
	providers := []spi.Provider{
		NewApplicationProvider(s.AppPropertiesFile, s.AppID),
		NewServerProvider(s.ServerPropertiesFile, s.Env, s.DataCenter),
		NewNetworkProvider(),
	}
	for _, p := range providers {
		if err := p.Initialize(); err != nil {
			log.Error("provider initialization failed", map[string]interface{}{
				logger.FieldCapability: string(p.Capability()),
				logger.FieldError:      err.Error(),
			})
		}
	}
	return NewManager(providers...)
}

var (
	settingsMu sync.RWMutex
	settings   *config.Settings
)

// Use makes Factory build from s instead of loading settings itself. Call it
// before the registry resolves; later calls have no effect on a resolved
// registry.
func Use(s *config.Settings) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	settings = s
}

// Factory builds the default manager from the settings passed to Use, or
// from settings loaded for ServiceName.
func Factory() (spi.Manager, error) {
	settingsMu.RLock()
	s := settings
	settingsMu.RUnlock()

	if s == nil {
		loaded, err := config.LoadSettings(ServiceName)
		if err != nil {
			return nil, err
		}
		s = loaded
	}
	return New(s), nil
}

func init() {
	discovery.MustRegister("default", Factory)
}

// Register adds p, replacing any provider with the same capability while
// keeping its original lookup position.
func (m *Manager) Register(p spi.Provider) {
	if p == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := p.Capability()
	if _, ok := m.providers[c]; !ok {
		m.order = append(m.order, c)
	}
	m.providers[c] = p
}

// Order implements spi.Manager.
func (m *Manager) Order() int { return LowestPrecedence }

// Property asks each provider in registration order and returns the first hit.
func (m *Manager) Property(name, defaultValue string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.order {
		if v, ok := m.providers[c].Lookup(name); ok {
			return v, nil
		}
	}
	return defaultValue, nil
}

// Network implements spi.Manager.
func (m *Manager) Network() (spi.NetworkProvider, error) {
	return lookup[spi.NetworkProvider](m, spi.CapabilityNetwork)
}

// Server implements spi.Manager.
func (m *Manager) Server() (spi.ServerProvider, error) {
	return lookup[spi.ServerProvider](m, spi.CapabilityServer)
}

// Application implements spi.Manager.
func (m *Manager) Application() (spi.ApplicationProvider, error) {
	return lookup[spi.ApplicationProvider](m, spi.CapabilityApplication)
}

// String implements fmt.Stringer.
func (m *Manager) String() string { return "DefaultProviderManager" }

func lookup[T spi.Provider](m *Manager, c spi.Capability) (T, error) {
	m.mu.RLock()
	p, ok := m.providers[c]
	m.mu.RUnlock()

	var zero T
	if !ok {
		return zero, errors.ProviderNotFound(string(c))
	}
	typed, ok := p.(T)
	if !ok {
		return zero, errors.ProviderNotFound(string(c)).
			WithDetail("reason", "registered provider does not implement the capability")
	}
	return typed, nil
}
