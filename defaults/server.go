package defaults

import (
	"io"
	"strings"
	"sync"

	"github.com/kbukum/foundation/logger"
	"github.com/kbukum/foundation/spi"
)

// Server property names and the environment variables backing them.
const (
	PropertyEnv        = "env"
	PropertyDataCenter = "idc"

	EnvEnv        = "ENV"
	EnvDataCenter = "IDC"
)

// ServerProvider serves the deployment environment and data center.
type ServerProvider struct {
	mu         sync.RWMutex
	path       string
	env        string
	dataCenter string
	props      *propertySource
	logger     *logger.Logger
}

var _ spi.ServerProvider = (*ServerProvider)(nil)

// NewServerProvider creates a provider reading the server properties file at
// path. env and dataCenter, when not blank, override every other source.
func NewServerProvider(path, env, dataCenter string) *ServerProvider {
	p := &ServerProvider{
		path:   path,
		props:  newPropertySource(),
		logger: logger.Get("foundation.defaults").WithFields(map[string]interface{}{"provider": "server"}),
	}
	p.props.bindEnv(PropertyEnv, EnvEnv)
	p.props.bindEnv(PropertyDataCenter, EnvDataCenter)
	p.props.set(PropertyEnv, env)
	p.props.set(PropertyDataCenter, dataCenter)
	return p
}

// Capability implements spi.Provider.
func (p *ServerProvider) Capability() spi.Capability { return spi.CapabilityServer }

// Initialize loads the configured server properties file. A missing file is fine.
func (p *ServerProvider) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.path != "" {
		found, err := p.props.loadFile(p.path)
		if err != nil {
			return err
		}
		if !found {
			p.logger.Debug("server properties file not found", map[string]interface{}{
				"path": p.path,
			})
		}
	}
	p.refresh()
	return nil
}

// InitializeFrom loads server properties from r instead of a file.
func (p *ServerProvider) InitializeFrom(r io.Reader) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if r != nil {
		if err := p.props.load(r); err != nil {
			return err
		}
	}
	p.refresh()
	return nil
}

// refresh recomputes env and data center. Callers hold p.mu.
func (p *ServerProvider) refresh() {
	p.env, _ = p.props.lookup(PropertyEnv)
	p.dataCenter, _ = p.props.lookup(PropertyDataCenter)

	fields := map[string]interface{}{
		"env": p.env,
		"idc": p.dataCenter,
	}
	if p.env != "" {
		fields["env_source"] = p.props.source(PropertyEnv)
	}
	if p.dataCenter != "" {
		fields["idc_source"] = p.props.source(PropertyDataCenter)
	}
	p.logger.Info("server environment resolved", fields)
}

// EnvType returns the environment name, or "" when unset.
func (p *ServerProvider) EnvType() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.env
}

// IsEnvTypeSet reports whether any source provided an environment.
func (p *ServerProvider) IsEnvTypeSet() bool { return p.EnvType() != "" }

// DataCenter returns the data center, or "" when unset.
func (p *ServerProvider) DataCenter() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dataCenter
}

// IsDataCenterSet reports whether any source provided a data center.
func (p *ServerProvider) IsDataCenterSet() bool { return p.DataCenter() != "" }

// Lookup implements spi.Provider.
func (p *ServerProvider) Lookup(name string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	switch {
	case strings.EqualFold(name, PropertyEnv):
		return p.env, p.env != ""
	case strings.EqualFold(name, PropertyDataCenter):
		return p.dataCenter, p.dataCenter != ""
	}
	return p.props.lookup(name)
}

// String implements fmt.Stringer.
func (p *ServerProvider) String() string {
	return "environment [" + p.EnvType() + "] data center [" + p.DataCenter() + "] properties: " + p.path + " (DefaultServerProvider)"
}
