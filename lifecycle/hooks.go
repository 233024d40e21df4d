package lifecycle

import "context"

// ModuleInitHook is implemented by instances that initialize after every
// module has been wired.
type ModuleInitHook interface {
	OnModuleInit(ctx context.Context) error
}

// BootstrapHook is implemented by instances that start work once every
// init hook has completed, such as listeners and consumers.
type BootstrapHook interface {
	OnApplicationBootstrap(ctx context.Context) error
}

// ModuleDestroyHook is implemented by instances that release resources when
// the application closes.
type ModuleDestroyHook interface {
	OnModuleDestroy(ctx context.Context) error
}

// ShutdownHook is implemented by instances that react to application
// shutdown. signal is the name of the OS signal, or empty for a programmatic close.
type ShutdownHook interface {
	OnApplicationShutdown(ctx context.Context, signal string) error
}

// Phase names a lifecycle phase.
type Phase string

const (
	PhaseInit      Phase = "init"
	PhaseBootstrap Phase = "bootstrap"
	PhaseDestroy   Phase = "destroy"
	PhaseShutdown  Phase = "shutdown"
)

// Hook returns the hook method name invoked in the phase.
func (p Phase) Hook() string {
	switch p {
	case PhaseInit:
		return "OnModuleInit"
	case PhaseBootstrap:
		return "OnApplicationBootstrap"
	case PhaseDestroy:
		return "OnModuleDestroy"
	case PhaseShutdown:
		return "OnApplicationShutdown"
	default:
		return string(p)
	}
}

// Teardown reports whether the phase runs in reverse registration order.
func (p Phase) Teardown() bool {
	return p == PhaseDestroy || p == PhaseShutdown
}

// Description holds summary information an instance reports about itself
// for the startup summary.
type Description struct {
	// Name is the display name (e.g., "HTTP Server", "Claude").
	Name string
	// Type categorizes the instance: "server", "client", "database", etc.
	Type string
	// Details is a one-liner such as "0.0.0.0:8080" or "model=claude-sonnet-4".
	Details string
	// Port is the primary port, 0 if not applicable.
	Port int
}

// Describable is optionally implemented by lifecycle participants to appear
// in the infrastructure section of the startup summary.
type Describable interface {
	Describe() Description
}

// Route is a single HTTP route for the startup summary.
type Route struct {
	Method  string
	Path    string
	Handler string
}

// RouteProvider is optionally implemented by controllers to report their routes.
type RouteProvider interface {
	Routes() []Route
}
