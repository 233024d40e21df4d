package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kbukum/modkit/lifecycle"
	"github.com/kbukum/modkit/module"
	"github.com/kbukum/modkit/observability"
)

// ModuleInfo describes one compiled module in the summary.
type ModuleInfo struct {
	Name        string
	Dynamic     bool
	Global      bool
	Providers   int
	Controllers int
	Imports     int
}

// Summary records what the application wired at startup and renders it.
type Summary struct {
	serviceName     string
	version         string
	appID           string
	startupDuration time.Duration
	instances       int
	modules         []ModuleInfo
	infrastructure  []lifecycle.Description
	routes          []lifecycle.Route
	health          []observability.Health
}

// NewSummary creates an empty summary.
func NewSummary(serviceName, version, appID string) *Summary {
	return &Summary{
		serviceName: serviceName,
		version:     version,
		appID:       appID,
	}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackModule adds a compiled module.
func (s *Summary) TrackModule(m *module.Compiled) {
	s.modules = append(s.modules, ModuleInfo{
		Name:        m.Name,
		Dynamic:     m.IsDynamic,
		Global:      m.IsGlobal,
		Providers:   len(m.Metadata.Providers),
		Controllers: len(m.Metadata.Controllers),
		Imports:     len(m.Metadata.Imports),
	})
}

// Collect gathers modules and live lifecycle information: descriptions,
// routes and health.
func (s *Summary) Collect(ctx context.Context, modules []*module.Compiled, lc *lifecycle.Manager) {
	s.modules = s.modules[:0]
	for _, m := range modules {
		s.TrackModule(m)
	}
	s.instances = lc.Len()
	s.infrastructure = lc.Descriptions()
	s.routes = lc.Routes()
	s.health = lc.Health(ctx)
}

// Modules returns the tracked modules.
func (s *Summary) Modules() []ModuleInfo { return s.modules }

// Routes returns the collected routes.
func (s *Summary) Routes() []lifecycle.Route { return s.routes }

// Write renders the summary as a tree.
func (s *Summary) Write(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\n🚀 %s", s.serviceName)
	if s.version != "" {
		fmt.Fprintf(&b, " v%s", s.version)
	}
	fmt.Fprintf(&b, " started in %.2fs (id %s)\n\n", s.startupDuration.Seconds(), s.appID)

	fmt.Fprintf(&b, "📦 Modules (%d, %d instances)\n", len(s.modules), s.instances)
	for i, m := range s.modules {
		var tags []string
		if m.Dynamic {
			tags = append(tags, "dynamic")
		}
		if m.Global {
			tags = append(tags, "global")
		}
		tag := ""
		if len(tags) > 0 {
			tag = " [" + strings.Join(tags, ",") + "]"
		}
		fmt.Fprintf(&b, "   %s %s%s: %d providers, %d controllers, %d imports\n",
			treePrefix(i, len(s.modules)), m.Name, tag, m.Providers, m.Controllers, m.Imports)
	}

	if len(s.infrastructure) > 0 {
		fmt.Fprintf(&b, "\n📊 Infrastructure\n")
		for i, inf := range s.infrastructure {
			details := inf.Details
			if inf.Port > 0 {
				details = fmt.Sprintf("%s (:%d)", details, inf.Port)
			}
			fmt.Fprintf(&b, "   %s %s [%s]: %s\n", treePrefix(i, len(s.infrastructure)), inf.Name, inf.Type, details)
		}
	}

	if len(s.routes) > 0 {
		fmt.Fprintf(&b, "\n🌐 Routes (%d)\n", len(s.routes))
		for i, r := range s.routes {
			fmt.Fprintf(&b, "   %s %-7s %s → %s\n", treePrefix(i, len(s.routes)), r.Method, r.Path, r.Handler)
		}
	}

	if len(s.health) > 0 {
		fmt.Fprintf(&b, "\n🏥 Health Check\n")
		healthy := 0
		for i, h := range s.health {
			msg := ""
			if h.Message != "" {
				msg = " — " + h.Message
			}
			fmt.Fprintf(&b, "   %s %s %s: %s%s\n", treePrefix(i, len(s.health)), healthIcon(h.Status), h.Name, h.Status, msg)
			if h.Status == observability.HealthStatusUp {
				healthy++
			}
		}
		if healthy == len(s.health) {
			fmt.Fprintf(&b, "\n✅ All components healthy (%d/%d)\n", healthy, len(s.health))
		} else {
			fmt.Fprintf(&b, "\n⚠️  Some components have issues (%d/%d healthy)\n", healthy, len(s.health))
		}
	}

	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthIcon(status observability.HealthStatus) string {
	switch status {
	case observability.HealthStatusUp:
		return "✅"
	case observability.HealthStatusDegraded:
		return "⚠️"
	case observability.HealthStatusDown:
		return "❌"
	default:
		return "❓"
	}
}
