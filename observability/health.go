package observability

import "context"

// HealthStatus represents the health state of a component or application.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDown     HealthStatus = "down"
	HealthStatusDegraded HealthStatus = "degraded"
)

// Health describes the health of an individual lifecycle participant.
type Health struct {
	Name    string            `json:"name"`
	Status  HealthStatus      `json:"status"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// HealthChecker is implemented by instances that can report their health.
type HealthChecker interface {
	CheckHealth(ctx context.Context) Health
}

// Report aggregates component health for a running application.
type Report struct {
	Service    string       `json:"service"`
	AppID      string       `json:"app_id,omitempty"`
	Status     HealthStatus `json:"status"`
	Components []Health     `json:"components,omitempty"`
}

// NewReport creates a Report with status up.
func NewReport(service, appID string) *Report {
	return &Report{
		Service: service,
		AppID:   appID,
		Status:  HealthStatusUp,
	}
}

// Add appends a component result. Down wins over degraded, degraded over up.
func (r *Report) Add(h Health) {
	r.Components = append(r.Components, h)

	switch h.Status {
	case HealthStatusDown:
		r.Status = HealthStatusDown
	case HealthStatusDegraded:
		if r.Status != HealthStatusDown {
			r.Status = HealthStatusDegraded
		}
	}
}

// Healthy reports whether no component is down.
func (r *Report) Healthy() bool {
	return r.Status != HealthStatusDown
}
