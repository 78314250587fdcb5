package defaults

import (
	"net"
	"os"
	"strings"
	"sync"

	"github.com/kbukum/foundation/logger"
	"github.com/kbukum/foundation/spi"
)

// Network property names.
const (
	PropertyHostAddress = "host.address"
	PropertyHostName    = "host.name"

	loopbackAddress = "127.0.0.1"
)

// NetworkProvider serves the local host address and name.
type NetworkProvider struct {
	mu       sync.RWMutex
	address  string
	name     string
	addrs    func() ([]net.IP, error)
	hostname func() (string, error)
	logger   *logger.Logger
}

var _ spi.NetworkProvider = (*NetworkProvider)(nil)

// NewNetworkProvider creates a provider backed by the host's interfaces.
func NewNetworkProvider() *NetworkProvider {
	return &NetworkProvider{
		addrs:    upInterfaceIPs,
		hostname: os.Hostname,
		logger:   logger.Get("foundation.defaults").WithFields(map[string]interface{}{"provider": "network"}),
	}
}

// Capability implements spi.Provider.
func (p *NetworkProvider) Capability() spi.Capability { return spi.CapabilityNetwork }

// Initialize inspects the network interfaces and host name. Lookup failures
// degrade to the loopback address.
func (p *NetworkProvider) Initialize() error {
	ips, err := p.addrs()
	if err != nil {
		p.logger.Warn("listing network interfaces failed", logger.ErrorFields("initialize", err))
	}
	address := pickAddress(ips)

	name, err := p.hostname()
	name = strings.TrimSpace(name)
	if err != nil || name == "" {
		if err != nil {
			p.logger.Warn("resolving host name failed", logger.ErrorFields("initialize", err))
		}
		name = address
	}

	p.mu.Lock()
	p.address, p.name = address, name
	p.mu.Unlock()

	p.logger.Debug("host resolved", map[string]interface{}{
		"host_address": address,
		"host_name":    name,
	})
	return nil
}

// HostAddress returns the selected IPv4 address.
func (p *NetworkProvider) HostAddress() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.address
}

// HostName returns the host name, or the address when it is unknown.
func (p *NetworkProvider) HostName() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.name
}

// Lookup implements spi.Provider.
func (p *NetworkProvider) Lookup(name string) (string, bool) {
	var v string
	switch {
	case strings.EqualFold(name, PropertyHostAddress):
		v = p.HostAddress()
	case strings.EqualFold(name, PropertyHostName):
		v = p.HostName()
	}
	return v, v != ""
}

// String implements fmt.Stringer.
func (p *NetworkProvider) String() string {
	return "hostName [" + p.HostName() + "] hostIP [" + p.HostAddress() + "] (DefaultNetworkProvider)"
}

// pickAddress chooses a private IPv4 address first, then any other routable
// IPv4 address, then loopback.
func pickAddress(ips []net.IP) string {
	var public string
	for _, ip := range ips {
		v4 := ip.To4()
		if v4 == nil || v4.IsLoopback() || v4.IsLinkLocalUnicast() || v4.IsUnspecified() {
			continue
		}
		if v4.IsPrivate() {
			return v4.String()
		}
		if public == "" {
			public = v4.String()
		}
	}
	if public != "" {
		return public
	}
	return loopbackAddress
}

// upInterfaceIPs lists addresses of interfaces that are up and not loopback.
func upInterfaceIPs() ([]net.IP, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	var ips []net.IP
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			switch v := a.(type) {
			case *net.IPNet:
				ips = append(ips, v.IP)
			case *net.IPAddr:
				ips = append(ips, v.IP)
			}
		}
	}
	return ips, nil
}
