package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/modkit/di"
	"github.com/kbukum/modkit/errors"
	"github.com/kbukum/modkit/lifecycle"
	"github.com/kbukum/modkit/logger"
	"github.com/kbukum/modkit/module"
	"github.com/kbukum/modkit/observability"
)

const defaultShutdownTimeout = 15 * time.Second

// AppToken resolves the running *App, for controllers that report readiness.
var AppToken = di.TypeOf[*App]()

// App wires a root module into an injector, drives the lifecycle phases and
// owns shutdown. It is the only type most applications touch directly.
//
// Example:
//
//	app, err := bootstrap.Create(ctx, AppModule, bootstrap.WithConfig(&cfg))
//	if err != nil {
//	    return err
//	}
//	svc, err := di.ResolveType[*ChatService](ctx, app)
type App struct {
	root    module.Ref
	id      string
	name    string
	version string

	injector  *di.Injector
	lifecycle *lifecycle.Manager
	compiler  *module.Compiler
	log       *logger.Logger
	metrics   *observability.ContainerMetrics

	shutdownTimeout time.Duration
	handleSignals   bool
	summaryOut      io.Writer

	mu          sync.Mutex
	state       State
	modules     []*module.Compiled
	owners      map[di.Token]string
	listeners   []ShutdownListener
	closeErr    error
	summary     *Summary
	signalOnce  sync.Once
	stopSignals func()
	closing     chan struct{}
	done        chan struct{}
}

// New creates an App for root without initializing it.
func New(root module.Ref, opts ...Option) (*App, error) {
	o := resolveOptions(opts)

	a := &App{
		root:            root,
		id:              uuid.New().String(),
		metrics:         o.metrics,
		shutdownTimeout: defaultShutdownTimeout,
		handleSignals:   true,
		summaryOut:      o.summary,
		closing:         make(chan struct{}),
		done:            make(chan struct{}),
	}

	var hookTimeout time.Duration
	if o.cfg != nil {
		o.cfg.ApplyDefaults()
		if err := o.cfg.Validate(); err != nil {
			return nil, fmt.Errorf("config validation: %w", err)
		}
		base := o.cfg.GetServiceConfig()
		a.name = base.Name
		a.version = base.Version
		a.shutdownTimeout = base.Container.ShutdownTimeout
		a.handleSignals = base.Container.SignalsEnabled()
		hookTimeout = base.Container.HookTimeout
		if o.logger == nil {
			logger.Init(&base.Logging)
			logger.RegisterDefaults()
		}
	}
	if o.shutdownTimeout != nil {
		a.shutdownTimeout = *o.shutdownTimeout
	}
	if o.hookTimeout != nil {
		hookTimeout = *o.hookTimeout
	}
	if o.handleSignals != nil {
		a.handleSignals = *o.handleSignals
	}

	base := o.logger
	if base == nil {
		base = logger.GetGlobalLogger()
	}
	a.log = base.WithComponent(logger.ComponentApp).WithFields(logger.Fields(logger.FieldAppID, a.id))

	a.compiler = module.NewCompiler(base.WithComponent(logger.ComponentCompiler))
	rootModule, err := a.compiler.Compile(root)
	if err != nil {
		return nil, err
	}
	if a.name == "" {
		a.name = rootModule.Name
	}

	a.injector = di.New(
		di.WithLogger(base.WithComponent(logger.ComponentInjector)),
		di.WithMetrics(a.metrics),
		di.WithConstructHook(a.track),
	)
	a.lifecycle = lifecycle.NewManager(
		lifecycle.WithLogger(base.WithComponent(logger.ComponentLifecycle)),
		lifecycle.WithMetrics(a.metrics),
		lifecycle.WithHookTimeout(hookTimeout),
	)
	a.summary = NewSummary(a.name, a.version, a.id)
	return a, nil
}

// Create is New followed by Init.
func Create(ctx context.Context, root module.Ref, opts ...Option) (*App, error) {
	a, err := New(root, opts...)
	if err != nil {
		return nil, err
	}
	if err := a.Init(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// ID returns the unique id of this application instance.
func (a *App) ID() string { return a.id }

// Name returns the service name.
func (a *App) Name() string { return a.name }

// Injector returns the root injector.
func (a *App) Injector() *di.Injector { return a.injector }

// Lifecycle returns the lifecycle registry.
func (a *App) Lifecycle() *lifecycle.Manager { return a.lifecycle }

// Summary returns the startup summary collected by Init.
func (a *App) Summary() *Summary { return a.summary }

// State returns the current lifecycle state.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Modules returns the flattened module list, in registration order.
func (a *App) Modules() []*module.Compiled {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.modules)
}

// Get resolves tok from the root injector.
func (a *App) Get(ctx context.Context, tok di.Token) (any, error) {
	return a.injector.Get(ctx, tok)
}

// Done is closed once Close has finished.
func (a *App) Done() <-chan struct{} { return a.done }

// Init compiles the module graph, registers and eagerly instantiates every
// class provider and controller, then runs the init and bootstrap hooks.
// Calling Init on a running App is a no-op. A failed Init leaves the App in
// StateFailed; Close still releases whatever was instantiated.
func (a *App) Init(ctx context.Context) error {
	a.mu.Lock()
	switch a.state {
	case StateRunning:
		a.mu.Unlock()
		return nil
	case StateUninitialized:
		a.state = StateInitializing
		a.mu.Unlock()
	default:
		state := a.state
		a.mu.Unlock()
		return errors.InvalidState("init", state.String())
	}

	start := time.Now()
	a.log.Info("initializing application", logger.Fields("name", a.name, "version", a.version))

	ctx, op := observability.StartOperation(ctx, observability.SpanInit,
		attribute.String(observability.AttrAppID, a.id))
	err := a.bootstrap(ctx)
	op.SetAttributes(attribute.Int(observability.AttrModuleCount, len(a.Modules())))
	op.End(err)

	if err != nil {
		a.setState(StateFailed)
		code := "UNKNOWN"
		if e, ok := errors.As(err); ok {
			code = string(e.Code)
		}
		a.metrics.RecordError(ctx, code, logger.ComponentApp)
		a.log.Error("application init failed", logger.MergeWithError(nil, err))
		return err
	}

	a.setState(StateRunning)
	if a.handleSignals {
		a.installSignals()
	}

	elapsed := time.Since(start)
	a.log.Info("application started", logger.DurationFields("init", elapsed))
	a.summary.SetStartupDuration(elapsed)
	a.summary.Collect(ctx, a.Modules(), a.lifecycle)
	if a.summaryOut != nil {
		if err := a.summary.Write(a.summaryOut); err != nil {
			a.log.Warn("could not write startup summary", logger.MergeWithError(nil, err))
		}
	}
	return nil
}

func (a *App) setState(s State) {
	a.mu.Lock()
	a.state = s
	a.mu.Unlock()
}

func (a *App) bootstrap(ctx context.Context) error {
	modules, err := a.compiler.ExtractImports(a.root)
	if err != nil {
		return err
	}
	owners := make(map[di.Token]string)
	for _, m := range modules {
		owners[m.Type.Token()] = m.Name
		for _, p := range m.Metadata.Providers {
			owners[p.ToProvider().Token()] = m.Name
		}
		for _, c := range m.Metadata.Controllers {
			owners[c.Token()] = m.Name
		}
	}
	a.mu.Lock()
	a.modules = modules
	a.owners = owners
	a.mu.Unlock()

	a.injector.RegisterProvider(di.Provider{Provide: AppToken, UseValue: a})

	// Every provider is registered before anything is instantiated, so a
	// module can depend on providers of modules it imports.
	for _, m := range modules {
		a.register(m)
	}
	for _, m := range modules {
		if err := a.instantiate(ctx, m); err != nil {
			return err
		}
	}
	a.checkExports(modules)

	if err := a.lifecycle.CallModuleInitHooks(ctx); err != nil {
		return err
	}
	return a.lifecycle.CallBootstrapHooks(ctx)
}

func (a *App) register(m *module.Compiled) {
	a.injector.RegisterProvider(m.Type.Provider())
	for _, p := range m.Metadata.Providers {
		a.injector.RegisterProvider(p)
	}
	for _, c := range m.Metadata.Controllers {
		a.injector.RegisterProvider(c)
	}
	a.log.Debug("module registered", logger.Fields(
		logger.FieldModule, m.Name,
		"providers", len(m.Metadata.Providers),
		"controllers", len(m.Metadata.Controllers),
		"dynamic", m.IsDynamic,
		"global", m.IsGlobal,
	))
}

// track registers singleton class instances with the lifecycle registry as
// soon as they are built, so a dependency always precedes its dependents.
func (a *App) track(tok di.Token, p di.Provider, v any) {
	if p.Kind() != di.KindClass || p.EffectiveScope() != di.ScopeDefault {
		return
	}
	a.mu.Lock()
	owner := a.owners[tok]
	a.mu.Unlock()
	a.lifecycle.RegisterFrom(owner, v)
}

// instantiate resolves the module instance, its class providers and its
// controllers. Singletons were registered by track while being built; the
// module instance and transient classes are registered here.
func (a *App) instantiate(ctx context.Context, m *module.Compiled) error {
	tokens := []di.Token{m.Type.Token()}
	for _, r := range m.Metadata.Providers {
		p := r.ToProvider()
		if p.Kind() != di.KindClass || p.EffectiveScope() == di.ScopeRequest {
			continue
		}
		tokens = append(tokens, p.Token())
	}
	for _, c := range m.Metadata.Controllers {
		tokens = append(tokens, c.Token())
	}

	for _, tok := range tokens {
		instance, err := a.injector.Get(ctx, tok)
		if err != nil {
			return withModule(err, m.Name)
		}
		a.lifecycle.RegisterFrom(m.Name, instance)
	}
	return nil
}

// withModule attaches the module name to a container error that has none.
// The error is copied first: concurrent resolvers of one token share it.
func withModule(err error, name string) error {
	e, ok := errors.As(err)
	if !ok || e.Module != "" {
		return err
	}
	annotated := *e
	return annotated.WithModule(name)
}

func (a *App) checkExports(modules []*module.Compiled) {
	for _, m := range modules {
		for _, tok := range m.Metadata.Exports {
			if !a.injector.Has(tok) {
				a.log.Warn("exported token has no provider", logger.Fields(
					logger.FieldModule, m.Name,
					logger.FieldToken, tok.String(),
				))
			}
		}
	}
}

// Close runs the destroy and shutdown hooks in reverse registration order,
// then the shutdown listeners concurrently, then clears the injector cache
// and the lifecycle registry. signal names the OS signal that triggered the
// close, or is empty. Close is bounded by the shutdown timeout and only runs
// once; later calls return nil.
func (a *App) Close(ctx context.Context, signal string) error {
	a.mu.Lock()
	switch a.state {
	case StateClosing, StateClosed:
		a.mu.Unlock()
		return nil
	case StateInitializing:
		a.mu.Unlock()
		return errors.InvalidState("close", StateInitializing.String())
	}
	a.state = StateClosing
	listeners := slices.Clone(a.listeners)
	stopSignals := a.stopSignals
	close(a.closing)
	a.mu.Unlock()

	if stopSignals != nil {
		stopSignals()
	}

	if a.shutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.shutdownTimeout)
		defer cancel()
	}

	a.log.Info("shutting down application", logger.Fields(
		logger.FieldSignal, signal,
		"timeout", a.shutdownTimeout.String(),
	))
	ctx, op := observability.StartOperation(ctx, observability.SpanClose,
		attribute.String(observability.AttrAppID, a.id),
		attribute.String(observability.AttrSignal, signal),
	)

	result := make(chan error, 1)
	go func() { result <- a.teardown(ctx, signal, listeners) }()

	var err error
	select {
	case err = <-result:
	case <-ctx.Done():
		err = fmt.Errorf("shutdown did not complete within %s: %w", a.shutdownTimeout, ctx.Err())
	}
	duration := op.End(err)

	a.mu.Lock()
	a.state = StateClosed
	a.closeErr = err
	a.mu.Unlock()
	close(a.done)

	if err != nil {
		a.log.Error("shutdown completed with errors", logger.MergeWithError(
			logger.DurationFields("close", duration), err))
		return err
	}
	a.log.Info("application shutdown complete", logger.DurationFields("close", duration))
	return nil
}

func (a *App) teardown(ctx context.Context, signal string, listeners []ShutdownListener) error {
	var errs []error
	if err := a.lifecycle.CallModuleDestroyHooks(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.lifecycle.CallShutdownHooks(ctx, signal); err != nil {
		errs = append(errs, err)
	}
	if err := runListeners(ctx, listeners); err != nil {
		errs = append(errs, err)
	}
	a.injector.Clear()
	a.lifecycle.Clear()
	return stderrors.Join(errs...)
}

// closeError returns the result of the completed Close.
func (a *App) closeError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closeErr
}

// ReadyCheck reports the health of every lifecycle participant that
// implements observability.HealthChecker. The error lists components that are down.
func (a *App) ReadyCheck(ctx context.Context) (*observability.Report, error) {
	report := observability.NewReport(a.name, a.id)
	var down []string
	for _, h := range a.lifecycle.Health(ctx) {
		report.Add(h)
		if h.Status == observability.HealthStatusDown {
			detail := h.Name
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			down = append(down, detail)
		}
	}
	if len(down) > 0 {
		return report, fmt.Errorf("unhealthy components: %v", down)
	}
	return report, nil
}
