package discovery

import (
	stderrors "errors"
	"testing"

	"github.com/kbukum/foundation/errors"
	"github.com/kbukum/foundation/nullprovider"
	"github.com/kbukum/foundation/spi"
)

type orderedManager struct {
	nullprovider.Manager
	order int
}

func (m orderedManager) Order() int { return m.order }

func factoryFor(order int) Factory {
	return func() (spi.Manager, error) { return orderedManager{order: order}, nil }
}

func TestCatalogRegisterAndNames(t *testing.T) {
	c := NewCatalog()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := c.Register(name, factoryFor(1)); err != nil {
			t.Fatalf("Register(%q) failed: %v", name, err)
		}
	}

	names := c.Names()
	want := []string{"zeta", "alpha", "mid"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("expected registration order %v, got %v", want, names)
			break
		}
	}
	if c.Len() != 3 {
		t.Errorf("expected Len 3, got %d", c.Len())
	}
}

func TestCatalogRegisterRejects(t *testing.T) {
	c := NewCatalog()
	if err := c.Register("dup", factoryFor(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name    string
		reg     string
		factory Factory
		code    errors.ErrorCode
	}{
		{"duplicate", "dup", factoryFor(2), errors.ErrCodeAlreadyExists},
		{"empty name", "", factoryFor(2), errors.ErrCodeInvalidInput},
		{"nil factory", "nil", nil, errors.ErrCodeInvalidInput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := c.Register(tc.reg, tc.factory)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.CodeOf(err); got != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, got)
			}
		})
	}
	if c.Len() != 1 {
		t.Errorf("rejected registrations must not be stored, Len=%d", c.Len())
	}
}

func TestCatalogDiscoverPreservesOrder(t *testing.T) {
	c := NewCatalog()
	_ = c.Register("a", factoryFor(5))
	_ = c.Register("b", factoryFor(1))
	_ = c.Register("c", factoryFor(3))

	managers, err := c.Discover()
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	got := make([]int, len(managers))
	for i, m := range managers {
		got[i] = m.Order()
	}
	want := []int{5, 1, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected discovery order %v, got %v", want, got)
		}
	}
}

func TestCatalogDiscoverEmpty(t *testing.T) {
	managers, err := NewCatalog().Discover()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(managers) != 0 {
		t.Errorf("expected no candidates, got %d", len(managers))
	}
}

func TestCatalogDiscoverFactoryError(t *testing.T) {
	cause := stderrors.New("config missing")
	c := NewCatalog()
	_ = c.Register("ok", factoryFor(1))
	_ = c.Register("broken", func() (spi.Manager, error) { return nil, cause })

	_, err := c.Discover()
	if err == nil {
		t.Fatal("expected discovery error")
	}
	if errors.CodeOf(err) != errors.ErrCodeDiscoveryFailed {
		t.Errorf("expected DISCOVERY_FAILED, got %s", errors.CodeOf(err))
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be preserved")
	}
	appErr, _ := errors.AsAppError(err)
	if appErr.Details["source"] != "broken" {
		t.Errorf("expected source=broken, got %v", appErr.Details["source"])
	}
}

func TestCatalogDiscoverNilManager(t *testing.T) {
	c := NewCatalog()
	_ = c.Register("nil", func() (spi.Manager, error) { return nil, nil })
	if _, err := c.Discover(); err == nil {
		t.Fatal("expected error for nil manager")
	}
}

func TestStaticAndFunc(t *testing.T) {
	d := Static(orderedManager{order: 2}, orderedManager{order: 7})
	managers, err := d.Discover()
	if err != nil || len(managers) != 2 {
		t.Fatalf("expected 2 managers, got %d, %v", len(managers), err)
	}
	managers[0] = nil
	again, _ := d.Discover()
	if again[0] == nil {
		t.Error("Static must hand out a fresh slice on every call")
	}

	calls := 0
	f := Func(func() ([]spi.Manager, error) {
		calls++
		return nil, nil
	})
	_, _ = f.Discover()
	if calls != 1 {
		t.Errorf("expected Func to be called once, got %d", calls)
	}
}

func TestMustRegisterPanicsOnDuplicate(t *testing.T) {
	name := "discovery-test-duplicate"
	MustRegister(name, factoryFor(1))

	defer func() {
		if recover() == nil {
			t.Error("expected MustRegister to panic on duplicate")
		}
	}()
	MustRegister(name, factoryFor(1))
}
