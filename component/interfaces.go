package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed part of the process.
type Component interface {
	// Name returns the unique name of the component.
	Name() string

	// Start initializes the component.
	Start(ctx context.Context) error

	// Stop releases the component's resources.
	Stop(ctx context.Context) error

	// Health returns the current health of the component.
	Health(ctx context.Context) Health
}

// Description summarizes a component for the diagnostics /info endpoint.
type Description struct {
	// Name is a display name. Empty means the component's Name().
	Name string `json:"name"`
	// Type categorizes the component, e.g. "registry" or "server".
	Type string `json:"type"`
	// Details is a one-line summary, e.g. "manager=*defaults.Manager".
	Details string `json:"details,omitempty"`
}

// Describable is optionally implemented by components that can describe
// themselves.
type Describable interface {
	Describe() Description
}

// Overall folds component health into one status: unhealthy beats degraded
// beats healthy. No components is healthy.
func Overall(healths []Health) HealthStatus {
	status := StatusHealthy
	for _, h := range healths {
		switch h.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}
