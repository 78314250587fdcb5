package defaults

import (
	"io"
	"strings"
	"sync"

	"github.com/kbukum/foundation/logger"
	"github.com/kbukum/foundation/spi"
)

// Application property names and the environment variables backing them.
const (
	PropertyAppID           = spi.PropertyAppID
	PropertyAccessKeySecret = spi.PropertyAccessKeySecret

	EnvAppID           = "APP_ID"
	EnvAccessKeySecret = "APOLLO_ACCESS_KEY_SECRET"
)

// ApplicationProvider serves the application identity.
type ApplicationProvider struct {
	mu     sync.RWMutex
	path   string
	appID  string
	props  *propertySource
	logger *logger.Logger
}

var _ spi.ApplicationProvider = (*ApplicationProvider)(nil)

// NewApplicationProvider creates a provider reading the properties file at
// path. appID, when not blank, overrides every other source.
func NewApplicationProvider(path, appID string) *ApplicationProvider {
	p := &ApplicationProvider{
		path:   path,
		props:  newPropertySource(),
		logger: logger.Get("foundation.defaults").WithFields(map[string]interface{}{"provider": "application"}),
	}
	p.props.bindEnv(PropertyAppID, EnvAppID)
	p.props.bindEnv(PropertyAccessKeySecret, EnvAccessKeySecret)
	p.props.set(PropertyAppID, appID)
	return p
}

// Capability implements spi.Provider.
func (p *ApplicationProvider) Capability() spi.Capability { return spi.CapabilityApplication }

// Initialize loads the configured properties file. A missing file is fine.
func (p *ApplicationProvider) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.path != "" {
		found, err := p.props.loadFile(p.path)
		if err != nil {
			return err
		}
		if !found {
			p.logger.Debug("app properties file not found", map[string]interface{}{
				"path": p.path,
			})
		}
	}
	p.refresh()
	return nil
}

// InitializeFrom loads application properties from r instead of a file.
func (p *ApplicationProvider) InitializeFrom(r io.Reader) error {
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

// refresh recomputes the cached app id. Callers hold p.mu.
func (p *ApplicationProvider) refresh() {
	p.appID, _ = p.props.lookup(PropertyAppID)
	if p.appID == "" {
		p.logger.Warn("app.id is not set", map[string]interface{}{
			"env":  EnvAppID,
			"path": p.path,
		})
		return
	}
	p.logger.Info("app.id resolved", map[string]interface{}{
		"app_id": p.appID,
		"source": p.props.source(PropertyAppID),
	})
}

// AppID returns the application id, or "" when unset.
func (p *ApplicationProvider) AppID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.appID
}

// IsAppIDSet reports whether any source provided an app id.
func (p *ApplicationProvider) IsAppIDSet() bool {
	return strings.TrimSpace(p.AppID()) != ""
}

// AccessKeySecret returns the access key secret, or "" when unset.
func (p *ApplicationProvider) AccessKeySecret() string {
	v, _ := p.Lookup(PropertyAccessKeySecret)
	return v
}

// Lookup implements spi.Provider.
func (p *ApplicationProvider) Lookup(name string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if strings.EqualFold(name, PropertyAppID) {
		return p.appID, p.appID != ""
	}
	return p.props.lookup(name)
}

// String implements fmt.Stringer.
func (p *ApplicationProvider) String() string {
	return "appId [" + p.AppID() + "] properties: " + p.path + " (DefaultApplicationProvider)"
}
