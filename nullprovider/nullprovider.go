// Package nullprovider implements the inert fallback used when no real
// provider manager can be established. It performs no I/O.
package nullprovider

import (
	"io"
	"math"

	"github.com/kbukum/foundation/spi"
)

// Default is the shared provider returned for every capability.
var Default = &Provider{}

// Provider implements every capability contract with empty answers.
type Provider struct{}

var (
	_ spi.NetworkProvider     = (*Provider)(nil)
	_ spi.ServerProvider      = (*Provider)(nil)
	_ spi.ApplicationProvider = (*Provider)(nil)
)

func (*Provider) Capability() spi.Capability     { return spi.CapabilityAny }
func (*Provider) Initialize() error              { return nil }
func (*Provider) InitializeFrom(io.Reader) error { return nil }
func (*Provider) Lookup(string) (string, bool)   { return "", false }
func (*Provider) HostAddress() string            { return "" }
func (*Provider) HostName() string               { return "" }
func (*Provider) EnvType() string                { return "" }
func (*Provider) IsEnvTypeSet() bool             { return false }
func (*Provider) DataCenter() string             { return "" }
func (*Provider) IsDataCenterSet() bool          { return false }
func (*Provider) AppID() string                  { return "" }
func (*Provider) IsAppIDSet() bool               { return false }
func (*Provider) AccessKeySecret() string        { return "" }
func (*Provider) String() string                 { return "NullProvider" }

// Manager is the fallback spi.Manager. It ranks last and never fails.
type Manager struct{}

var _ spi.Manager = Manager{}

// NewManager returns the fallback manager.
func NewManager() Manager { return Manager{} }

// Order ranks the null manager behind every real manager.
func (Manager) Order() int { return math.MaxInt }

// Property always answers with defaultValue.
func (Manager) Property(_, defaultValue string) (string, error) { return defaultValue, nil }

func (Manager) Network() (spi.NetworkProvider, error)         { return Default, nil }
func (Manager) Server() (spi.ServerProvider, error)           { return Default, nil }
func (Manager) Application() (spi.ApplicationProvider, error) { return Default, nil }

func (Manager) String() string { return "NullProviderManager" }
