package lifecycle

import (
	"context"

	"github.com/kbukum/modkit/observability"
)

// Health checks every registered instance that implements
// observability.HealthChecker, in registration order.
func (m *Manager) Health(ctx context.Context) []observability.Health {
	var results []observability.Health
	for _, instance := range m.Instances() {
		if hc, ok := instance.(observability.HealthChecker); ok {
			results = append(results, hc.CheckHealth(ctx))
		}
	}
	return results
}

// Descriptions collects the self-descriptions of Describable instances.
func (m *Manager) Descriptions() []Description {
	var out []Description
	for _, instance := range m.Instances() {
		if d, ok := instance.(Describable); ok {
			out = append(out, d.Describe())
		}
	}
	return out
}

// Routes collects the routes reported by RouteProvider instances.
func (m *Manager) Routes() []Route {
	var out []Route
	for _, instance := range m.Instances() {
		if rp, ok := instance.(RouteProvider); ok {
			out = append(out, rp.Routes()...)
		}
	}
	return out
}
