package defaults

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/foundation/config"
	"github.com/kbukum/foundation/discovery"
	apperrors "github.com/kbukum/foundation/errors"
	"github.com/kbukum/foundation/spi"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestApplicationProviderPrecedence(t *testing.T) {
	path := writeFile(t, "app.properties", "app.id=from-file\nowner=team-a\n")

	tests := []struct {
		name    string
		setting string
		env     string
		want    string
		source  string
	}{
		{"file only", "", "", "from-file", sourceFile},
		{"env over file", "", "from-env", "from-env", sourceEnvironment},
		{"setting over env", "from-setting", "from-env", "from-setting", sourceSetting},
		{"blank setting ignored", "   ", "", "from-file", sourceFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvAppID, tt.env)
			p := NewApplicationProvider(path, tt.setting)
			if err := p.Initialize(); err != nil {
				t.Fatalf("Initialize: %v", err)
			}
			if got := p.AppID(); got != tt.want {
				t.Errorf("AppID() = %q, want %q", got, tt.want)
			}
			if !p.IsAppIDSet() {
				t.Error("IsAppIDSet() = false")
			}
			if got := p.props.source(PropertyAppID); got != tt.source {
				t.Errorf("source = %q, want %q", got, tt.source)
			}
			if v, ok := p.Lookup("owner"); !ok || v != "team-a" {
				t.Errorf("Lookup(owner) = %q, %v", v, ok)
			}
		})
	}
}

func TestApplicationProviderMissingFile(t *testing.T) {
	t.Setenv(EnvAppID, "")
	p := NewApplicationProvider(filepath.Join(t.TempDir(), "absent.properties"), "")
	if err := p.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if p.IsAppIDSet() {
		t.Errorf("AppID() = %q, want unset", p.AppID())
	}
	if _, ok := p.Lookup(PropertyAppID); ok {
		t.Error("Lookup(app.id) should be absent")
	}
}

func TestApplicationProviderInitializeFrom(t *testing.T) {
	t.Setenv(EnvAppID, "")
	t.Setenv(EnvAccessKeySecret, "")
	p := NewApplicationProvider("", "")
	err := p.InitializeFrom(strings.NewReader("app.id =  trimmed  \napollo.access-key.secret=s3cret\n"))
	if err != nil {
		t.Fatalf("InitializeFrom: %v", err)
	}
	if got := p.AppID(); got != "trimmed" {
		t.Errorf("AppID() = %q, want trimmed", got)
	}
	if got := p.AccessKeySecret(); got != "s3cret" {
		t.Errorf("AccessKeySecret() = %q", got)
	}

	t.Setenv(EnvAccessKeySecret, "env-secret")
	if got := p.AccessKeySecret(); got != "env-secret" {
		t.Errorf("AccessKeySecret() = %q, want env-secret", got)
	}
}

func TestServerProvider(t *testing.T) {
	path := writeFile(t, "server.properties", "env=PRO\nidc=file-dc\nzone=z1\n")

	t.Run("file", func(t *testing.T) {
		t.Setenv(EnvEnv, "")
		t.Setenv(EnvDataCenter, "")
		p := NewServerProvider(path, "", "")
		if err := p.Initialize(); err != nil {
			t.Fatalf("Initialize: %v", err)
		}
		if p.EnvType() != "PRO" || !p.IsEnvTypeSet() {
			t.Errorf("EnvType() = %q", p.EnvType())
		}
		if p.DataCenter() != "file-dc" || !p.IsDataCenterSet() {
			t.Errorf("DataCenter() = %q", p.DataCenter())
		}
		if v, ok := p.Lookup("zone"); !ok || v != "z1" {
			t.Errorf("Lookup(zone) = %q, %v", v, ok)
		}
	})

	t.Run("env and settings", func(t *testing.T) {
		t.Setenv(EnvEnv, "FAT")
		t.Setenv(EnvDataCenter, "env-dc")
		p := NewServerProvider(path, "", "setting-dc")
		if err := p.Initialize(); err != nil {
			t.Fatalf("Initialize: %v", err)
		}
		if got := p.EnvType(); got != "FAT" {
			t.Errorf("EnvType() = %q, want FAT", got)
		}
		if got := p.DataCenter(); got != "setting-dc" {
			t.Errorf("DataCenter() = %q, want setting-dc", got)
		}
	})

	t.Run("nothing set", func(t *testing.T) {
		t.Setenv(EnvEnv, "")
		t.Setenv(EnvDataCenter, "")
		p := NewServerProvider(filepath.Join(t.TempDir(), "none"), "", "")
		if err := p.Initialize(); err != nil {
			t.Fatalf("Initialize: %v", err)
		}
		if p.IsEnvTypeSet() || p.IsDataCenterSet() {
			t.Errorf("expected unset, got env=%q idc=%q", p.EnvType(), p.DataCenter())
		}
	})
}

func TestPickAddress(t *testing.T) {
	tests := []struct {
		name string
		ips  []string
		want string
	}{
		{"empty", nil, loopbackAddress},
		{"loopback only", []string{"127.0.0.1", "::1"}, loopbackAddress},
		{"private preferred", []string{"8.8.8.8", "10.1.2.3"}, "10.1.2.3"},
		{"public fallback", []string{"fe80::1", "169.254.0.9", "8.8.4.4"}, "8.8.4.4"},
		{"first private wins", []string{"192.168.1.5", "172.16.0.2"}, "192.168.1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ips []net.IP
			for _, s := range tt.ips {
				ips = append(ips, net.ParseIP(s))
			}
			if got := pickAddress(ips); got != tt.want {
				t.Errorf("pickAddress() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNetworkProvider(t *testing.T) {
	p := NewNetworkProvider()
	p.addrs = func() ([]net.IP, error) { return []net.IP{net.ParseIP("10.0.0.7")}, nil }
	p.hostname = func() (string, error) { return "box-1", nil }
	if err := p.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if p.HostAddress() != "10.0.0.7" || p.HostName() != "box-1" {
		t.Errorf("got %s / %s", p.HostAddress(), p.HostName())
	}
	if v, ok := p.Lookup("HOST.NAME"); !ok || v != "box-1" {
		t.Errorf("Lookup(HOST.NAME) = %q, %v", v, ok)
	}

	p.addrs = func() ([]net.IP, error) { return nil, errors.New("no interfaces") }
	p.hostname = func() (string, error) { return "", errors.New("no hostname") }
	if err := p.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if p.HostAddress() != loopbackAddress || p.HostName() != loopbackAddress {
		t.Errorf("degraded = %s / %s", p.HostAddress(), p.HostName())
	}
}

func TestManager(t *testing.T) {
	t.Setenv(EnvAppID, "")
	t.Setenv(EnvEnv, "")
	t.Setenv(EnvDataCenter, "")

	app := NewApplicationProvider("", "svc-1")
	server := NewServerProvider("", "DEV", "")
	for _, p := range []spi.Provider{app, server} {
		if err := p.Initialize(); err != nil {
			t.Fatalf("Initialize: %v", err)
		}
	}
	m := NewManager(app, server)

	if m.Order() != LowestPrecedence {
		t.Errorf("Order() = %d", m.Order())
	}
	if v, _ := m.Property(PropertyAppID, "x"); v != "svc-1" {
		t.Errorf("Property(app.id) = %q", v)
	}
	if v, _ := m.Property(PropertyEnv, "x"); v != "DEV" {
		t.Errorf("Property(env) = %q", v)
	}
	if v, _ := m.Property("missing", "fallback"); v != "fallback" {
		t.Errorf("Property(missing) = %q", v)
	}

	if a, err := m.Application(); err != nil || a.AppID() != "svc-1" {
		t.Errorf("Application() = %v, %v", a, err)
	}
	if _, err := m.Network(); apperrors.CodeOf(err) != apperrors.ErrCodeProviderNotFound {
		t.Errorf("Network() err = %v, want PROVIDER_NOT_FOUND", err)
	}

	replacement := NewApplicationProvider("", "svc-2")
	_ = replacement.Initialize()
	m.Register(replacement)
	if a, _ := m.Application(); a.AppID() != "svc-2" {
		t.Errorf("replaced Application().AppID() = %q", a.AppID())
	}
}

func TestNewFromSettings(t *testing.T) {
	t.Setenv(EnvAppID, "")
	t.Setenv(EnvEnv, "")
	t.Setenv(EnvDataCenter, "")

	s := &config.Settings{
		AppPropertiesFile:    writeFile(t, "app.properties", "app.id=settings-app\n"),
		ServerPropertiesFile: writeFile(t, "server.properties", "idc=dc-9\n"),
		Env:                  "UAT",
	}
	m := New(s)

	if a, _ := m.Application(); a.AppID() != "settings-app" {
		t.Errorf("AppID() = %q", a.AppID())
	}
	srv, _ := m.Server()
	if srv.EnvType() != "UAT" || srv.DataCenter() != "dc-9" {
		t.Errorf("server = %s / %s", srv.EnvType(), srv.DataCenter())
	}
	n, err := m.Network()
	if err != nil || n.HostAddress() == "" {
		t.Errorf("Network() = %v, %v", n, err)
	}
	if v, _ := m.Property(PropertyHostAddress, ""); v == "" {
		t.Error("Property(host.address) is empty")
	}
}

func TestRegisteredWithDefaultCatalog(t *testing.T) {
	found := false
	for _, name := range discovery.Default().Names() {
		if name == "default" {
			found = true
		}
	}
	if !found {
		t.Fatalf("default factory not registered, names = %v", discovery.Default().Names())
	}
}

func TestFactoryUsesSettings(t *testing.T) {
	t.Setenv(EnvAppID, "")
	Use(&config.Settings{
		AppPropertiesFile:    writeFile(t, "app.properties", "app.id=from-use\n"),
		ServerPropertiesFile: filepath.Join(t.TempDir(), "absent"),
	})
	t.Cleanup(func() { Use(nil) })

	m, err := Factory()
	if err != nil {
		t.Fatalf("Factory: %v", err)
	}
	if m.Order() != LowestPrecedence {
		t.Errorf("Order() = %d", m.Order())
	}
	if v, _ := m.Property(PropertyAppID, ""); v != "from-use" {
		t.Errorf("app.id = %q, want from-use", v)
	}
}
