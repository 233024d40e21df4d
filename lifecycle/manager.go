package lifecycle

import (
	"context"
	stderrors "errors"
	"fmt"
	"iter"
	"reflect"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/modkit/errors"
	"github.com/kbukum/modkit/logger"
	"github.com/kbukum/modkit/observability"
)

type entry struct {
	instance any
	module   string
	keyless  bool
}

// Manager records lifecycle participants in registration order and runs the
// hook phases over them. Init and bootstrap run in registration order and
// stop at the first failure. Destroy and shutdown run in reverse order over
// every participant and report all failures together.
type Manager struct {
	mu      sync.RWMutex
	entries []entry
	index   map[any]int

	hookTimeout time.Duration
	log         *logger.Logger
	metrics     *observability.ContainerMetrics
}

// Option configures a Manager.
type Option func(*Manager)

// WithHookTimeout bounds each individual hook. Zero means no bound.
func WithHookTimeout(d time.Duration) Option {
	return func(m *Manager) { m.hookTimeout = d }
}

// WithLogger sets the logger used for hook events.
func WithLogger(l *logger.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithMetrics sets the instruments hook invocations are recorded on.
func WithMetrics(metrics *observability.ContainerMetrics) Option {
	return func(m *Manager) { m.metrics = metrics }
}

// NewManager creates an empty Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{index: make(map[any]int)}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = logger.Get(logger.ComponentLifecycle)
	}
	return m
}

// Register appends instance unless it is already registered.
// It reports whether the instance was added.
func (m *Manager) Register(instance any) bool {
	return m.RegisterFrom("", instance)
}

// RegisterFrom is Register with the name of the module the instance belongs
// to, which is attached to hook failures. Values that are neither comparable
// nor a map, func or slice have no identity and are deduplicated by deep
// equality with other such values.
func (m *Manager) RegisterFrom(module string, instance any) bool {
	if instance == nil {
		return false
	}
	key, ok := identityKey(instance)

	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		if _, exists := m.index[key]; exists {
			return false
		}
		m.index[key] = len(m.entries)
	} else {
		for _, e := range m.entries {
			if e.keyless && reflect.DeepEqual(e.instance, instance) {
				return false
			}
		}
	}
	m.entries = append(m.entries, entry{instance: instance, module: module, keyless: !ok})
	return true
}

type pointerIdentity struct {
	typ reflect.Type
	ptr uintptr
}

// identityKey returns a map key identifying instance. Pointers and other
// comparable values key by themselves; maps, funcs and slices by their
// address. Values with no usable identity return false.
func identityKey(instance any) (any, bool) {
	rv := reflect.ValueOf(instance)
	switch rv.Kind() {
	case reflect.Map, reflect.Func, reflect.Slice:
		return pointerIdentity{typ: rv.Type(), ptr: rv.Pointer()}, true
	}
	if rv.Comparable() {
		return instance, true
	}
	return nil, false
}

// Instances returns the registered instances in registration order.
func (m *Manager) Instances() []any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]any, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.instance
	}
	return out
}

// Len returns the number of registered instances.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Clear empties the registry.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	m.index = make(map[any]int)
}

// CallModuleInitHooks runs OnModuleInit in registration order.
func (m *Manager) CallModuleInitHooks(ctx context.Context) error {
	return m.run(ctx, PhaseInit, func(instance any) func(context.Context) error {
		if h, ok := instance.(ModuleInitHook); ok {
			return h.OnModuleInit
		}
		return nil
	})
}

// CallBootstrapHooks runs OnApplicationBootstrap in registration order.
func (m *Manager) CallBootstrapHooks(ctx context.Context) error {
	return m.run(ctx, PhaseBootstrap, func(instance any) func(context.Context) error {
		if h, ok := instance.(BootstrapHook); ok {
			return h.OnApplicationBootstrap
		}
		return nil
	})
}

// CallModuleDestroyHooks runs OnModuleDestroy in reverse registration order.
func (m *Manager) CallModuleDestroyHooks(ctx context.Context) error {
	return m.run(ctx, PhaseDestroy, func(instance any) func(context.Context) error {
		if h, ok := instance.(ModuleDestroyHook); ok {
			return h.OnModuleDestroy
		}
		return nil
	})
}

// CallShutdownHooks runs OnApplicationShutdown in reverse registration order.
func (m *Manager) CallShutdownHooks(ctx context.Context, signal string) error {
	return m.run(ctx, PhaseShutdown, func(instance any) func(context.Context) error {
		if h, ok := instance.(ShutdownHook); ok {
			return func(ctx context.Context) error { return h.OnApplicationShutdown(ctx, signal) }
		}
		return nil
	})
}

// hookSelector returns the hook of instance for a phase, or nil when the
// instance does not implement it.
type hookSelector func(instance any) func(context.Context) error

func (m *Manager) snapshot() []entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.entries)
}

// backward yields entries last to first without modifying the slice.
func backward(entries []entry) iter.Seq[entry] {
	return func(yield func(entry) bool) {
		for _, e := range slices.Backward(entries) {
			if !yield(e) {
				return
			}
		}
	}
}

func (m *Manager) run(ctx context.Context, phase Phase, selectHook hookSelector) error {
	entries := m.snapshot()
	order := slices.Values(entries)
	if phase.Teardown() {
		order = backward(entries)
	}

	var errs []error
	invoked := 0
	for e := range order {
		hook := selectHook(e.instance)
		if hook == nil {
			continue
		}
		invoked++
		if err := m.invoke(ctx, phase, e, hook); err != nil {
			if !phase.Teardown() {
				return err
			}
			errs = append(errs, err)
		}
	}

	m.log.Debug("lifecycle phase completed", logger.Fields(
		logger.FieldPhase, string(phase),
		"invoked", invoked,
		"failed", len(errs),
	))
	return stderrors.Join(errs...)
}

// invoke runs one hook with its span, timeout and metrics. A panicking hook
// is reported as a failure.
func (m *Manager) invoke(ctx context.Context, phase Phase, e entry, hook func(context.Context) error) error {
	label := fmt.Sprintf("%T", e.instance)
	ctx, op := observability.StartOperation(ctx, observability.SpanHook,
		attribute.String(observability.AttrHook, phase.Hook()),
		attribute.String(observability.AttrPhase, string(phase)),
		attribute.String(observability.AttrInstance, label),
		attribute.String(observability.AttrModule, e.module),
	)

	var err error
	if cause := m.call(ctx, hook); cause != nil {
		err = errors.HookFailure(phase.Hook(), label, e.module, cause)
	}
	duration := op.End(err)
	m.metrics.RecordHook(ctx, string(phase), observability.Status(err), duration)

	if err != nil {
		m.metrics.RecordError(ctx, string(errors.ErrCodeHookFailure), logger.ComponentLifecycle)
		m.log.Error("lifecycle hook failed", logger.MergeWithError(logger.Fields(
			logger.FieldHook, phase.Hook(),
			logger.FieldInstance, label,
			logger.FieldModule, e.module,
		), err))
		return err
	}
	m.log.Debug("lifecycle hook completed", logger.Fields(
		logger.FieldHook, phase.Hook(),
		logger.FieldInstance, label,
		logger.FieldDuration, duration.Milliseconds(),
	))
	return nil
}

func (m *Manager) call(ctx context.Context, hook func(context.Context) error) error {
	if m.hookTimeout <= 0 {
		return safeCall(ctx, hook)
	}

	ctx, cancel := context.WithTimeout(ctx, m.hookTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- safeCall(ctx, hook) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("hook did not complete within %s: %w", m.hookTimeout, ctx.Err())
	}
}

func safeCall(ctx context.Context, hook func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return hook(ctx)
}
