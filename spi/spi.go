package spi

import "io"

// Capability identifies one of the provider contracts a Manager serves.
type Capability string

const (
	CapabilityNetwork       Capability = "network"
	CapabilityServer        Capability = "server"
	CapabilityApplication   Capability = "application"
	CapabilityPropertyStore Capability = "property_store"
	// CapabilityAny is reported by providers that serve every capability.
	CapabilityAny Capability = "any"
)

// Well-known application property names.
const (
	PropertyAppID = "app.id"
	// PropertyAccessKeySecret holds a credential and must not leave the process.
	PropertyAccessKeySecret = "apollo.access-key.secret"
)

// Provider is the base contract of every environment provider.
type Provider interface {
	// Capability returns the contract this provider is registered under.
	Capability() Capability
	// Initialize loads the provider's state from its default sources.
	Initialize() error
	// Lookup returns the value the provider holds for name.
	Lookup(name string) (string, bool)
}

// NetworkProvider answers which host the process runs on.
type NetworkProvider interface {
	Provider
	HostAddress() string
	HostName() string
}

// ServerProvider answers which environment and data center the host belongs to.
type ServerProvider interface {
	Provider
	EnvType() string
	IsEnvTypeSet() bool
	DataCenter() string
	IsDataCenterSet() bool
	// InitializeFrom loads server settings from a properties stream.
	InitializeFrom(r io.Reader) error
}

// ApplicationProvider answers which application the process is.
type ApplicationProvider interface {
	Provider
	AppID() string
	IsAppIDSet() bool
	AccessKeySecret() string
	// InitializeFrom loads application settings from a properties stream.
	InitializeFrom(r io.Reader) error
}

// Manager owns a set of providers and is the unit selected by the registry.
//
// Managers are ranked by Order: the lowest value wins. Errors returned by a
// Manager are treated as delegation faults by the registry.
type Manager interface {
	Order() int
	// Property returns the value for name, or defaultValue when no provider holds it.
	Property(name, defaultValue string) (string, error)
	Network() (NetworkProvider, error)
	Server() (ServerProvider, error)
	Application() (ApplicationProvider, error)
}
