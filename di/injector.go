package di

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/kbukum/modkit/errors"
	"github.com/kbukum/modkit/logger"
	"github.com/kbukum/modkit/observability"
)

// Resolver is anything that can resolve a token to a value.
type Resolver interface {
	Get(ctx context.Context, tok Token) (any, error)
}

// Option configures an Injector.
type Option func(*Injector)

// WithLogger sets the logger used for resolution events.
func WithLogger(l *logger.Logger) Option {
	return func(i *Injector) { i.log = l }
}

// WithMetrics sets the instruments resolutions are recorded on.
func WithMetrics(m *observability.ContainerMetrics) Option {
	return func(i *Injector) { i.metrics = m }
}

// ConstructHook observes a value right after its provider built it. Hooks see
// dependencies before the values that depend on them.
type ConstructHook func(tok Token, p Provider, v any)

// WithConstructHook sets the hook called after every class or factory
// construction, including those made through child injectors.
func WithConstructHook(h ConstructHook) Option {
	return func(i *Injector) { i.onConstruct = h }
}

// Injector owns provider definitions and cached instances, and resolves
// tokens on demand, delegating to its parent for tokens it has no provider for.
type Injector struct {
	parent *Injector

	mu        sync.RWMutex
	providers map[Token]Provider
	order     []Token
	instances map[Token]any
	scoped    map[Token]any

	flights     singleflight.Group
	log         *logger.Logger
	metrics     *observability.ContainerMetrics
	onConstruct ConstructHook
}

// New creates a root injector.
func New(opts ...Option) *Injector {
	i := newInjector(nil)
	for _, opt := range opts {
		opt(i)
	}
	if i.log == nil {
		i.log = logger.Get(logger.ComponentInjector)
	}
	return i
}

func newInjector(parent *Injector) *Injector {
	return &Injector{
		parent:    parent,
		providers: make(map[Token]Provider),
		instances: make(map[Token]any),
		scoped:    make(map[Token]any),
	}
}

// CreateChild returns an injector that falls back to i for unknown tokens.
// Request-scoped providers resolved through the child are cached in the child.
func (i *Injector) CreateChild() *Injector {
	child := newInjector(i)
	child.log = i.log
	child.metrics = i.metrics
	child.onConstruct = i.onConstruct
	return child
}

// Parent returns the parent injector, or nil for a root.
func (i *Injector) Parent() *Injector { return i.parent }

// RegisterProvider stores a provider under its token, replacing any earlier
// provider and cached instance for that token. Value providers seed the
// instance cache immediately.
func (i *Injector) RegisterProvider(r Registrable) {
	p := r.ToProvider()
	p.Provide = p.Token()

	i.mu.Lock()
	defer i.mu.Unlock()

	if _, exists := i.providers[p.Provide]; exists {
		i.log.Debug("provider replaced", logger.Fields(logger.FieldToken, p.Provide.String()))
	} else {
		i.order = append(i.order, p.Provide)
	}
	i.providers[p.Provide] = p
	delete(i.instances, p.Provide)
	delete(i.scoped, p.Provide)
	if p.Kind() == KindValue {
		i.instances[p.Provide] = p.UseValue
	}
}

// Has reports whether tok has a provider in i or one of its ancestors.
func (i *Injector) Has(tok Token) bool {
	for cur := i; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		_, ok := cur.providers[tok]
		cur.mu.RUnlock()
		if ok {
			return true
		}
	}
	return false
}

// Tokens returns the locally registered tokens in registration order.
func (i *Injector) Tokens() []Token {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return append([]Token(nil), i.order...)
}

// Provider returns the locally registered provider for tok.
func (i *Injector) Provider(tok Token) (Provider, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	p, ok := i.providers[tok]
	return p, ok
}

// Clear drops every cached instance. Provider definitions are kept and value
// providers are re-seeded.
func (i *Injector) Clear() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.instances = make(map[Token]any)
	i.scoped = make(map[Token]any)
	for tok, p := range i.providers {
		if p.Kind() == KindValue {
			i.instances[tok] = p.UseValue
		}
	}
}

// Get resolves tok, failing with PROVIDER_NOT_FOUND when no provider exists
// in i or any ancestor.
func (i *Injector) Get(ctx context.Context, tok Token) (any, error) {
	v, _, err := i.get(ctx, tok, false)
	return v, err
}

// GetOptional resolves tok, reporting false instead of failing when no
// provider exists anywhere in the chain.
func (i *Injector) GetOptional(ctx context.Context, tok Token) (any, bool, error) {
	return i.get(ctx, tok, true)
}

func (i *Injector) get(ctx context.Context, tok Token, optional bool) (any, bool, error) {
	path := pathFrom(ctx)
	if path.contains(tok) {
		err := errors.CyclicDependency(path.labels(tok))
		i.metrics.RecordError(ctx, string(err.Code), logger.ComponentInjector)
		return nil, false, err
	}
	ctx = path.push(ctx, tok)

	ctx, op := observability.StartOperation(ctx, observability.SpanResolve,
		attribute.String(observability.AttrToken, tok.String()))

	v, found, outcome, err := i.resolve(ctx, tok)
	if !found && err == nil {
		if optional {
			outcome = observability.OutcomeAbsent
		} else {
			err = errors.ProviderNotFound(tok.String())
		}
	}
	if err != nil {
		outcome = observability.OutcomeError
	}

	op.SetAttributes(attribute.String(observability.AttrOutcome, outcome))
	duration := op.End(err)
	i.record(ctx, tok, outcome, duration, err)

	if err != nil {
		return nil, false, err
	}
	return v, found, nil
}

func (i *Injector) record(ctx context.Context, tok Token, outcome string, d time.Duration, err error) {
	i.metrics.RecordResolution(ctx, tok.String(), outcome, d)
	if err == nil {
		if outcome != observability.OutcomeCached {
			i.log.Debug("provider resolved", logger.Fields(
				logger.FieldToken, tok.String(),
				"outcome", outcome,
				logger.FieldDuration, d.Milliseconds(),
			))
		}
		return
	}
	code := "UNKNOWN"
	if e, ok := errors.As(err); ok {
		code = string(e.Code)
	}
	i.metrics.RecordError(ctx, code, logger.ComponentInjector)
	i.log.Debug("resolution failed", logger.MergeWithError(logger.Fields(logger.FieldToken, tok.String()), err))
}

// lookup walks the injector chain. It returns the request-scoped or singleton
// instance when one is cached, otherwise the nearest provider and its owner.
func (i *Injector) lookup(tok Token) (owner *Injector, p Provider, cached any, hit, ok bool) {
	i.mu.RLock()
	v, scopedHit := i.scoped[tok]
	i.mu.RUnlock()
	if scopedHit {
		return i, Provider{}, v, true, true
	}

	for cur := i; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		inst, cachedHere := cur.instances[tok]
		prov, found := cur.providers[tok]
		cur.mu.RUnlock()
		if cachedHere {
			return cur, prov, inst, true, true
		}
		if found {
			return cur, prov, nil, false, true
		}
	}
	return nil, Provider{}, nil, false, false
}

func (i *Injector) resolve(ctx context.Context, tok Token) (any, bool, string, error) {
	owner, p, cached, hit, ok := i.lookup(tok)
	if !ok {
		return nil, false, "", nil
	}
	if hit {
		return cached, true, observability.OutcomeCached, nil
	}

	switch p.Kind() {
	case KindInvalid:
		return nil, true, "", errors.InvalidProvider(tok.String())
	case KindValue:
		return p.UseValue, true, observability.OutcomeCached, nil
	case KindExisting:
		v, err := i.Get(ctx, p.UseExisting)
		return v, true, observability.OutcomeAlias, err
	}

	switch scope := p.EffectiveScope(); scope {
	case ScopeTransient:
		v, err := owner.construct(ctx, tok, p)
		return v, true, observability.OutcomeConstructed, err
	case ScopeRequest:
		v, err := i.memoize(ctx, tok, scope, func(ctx context.Context) (any, error) {
			return i.construct(ctx, tok, p)
		})
		return v, true, observability.OutcomeConstructed, err
	default:
		v, err := owner.memoize(ctx, tok, scope, func(ctx context.Context) (any, error) {
			return owner.construct(ctx, tok, p)
		})
		return v, true, observability.OutcomeConstructed, err
	}
}

// memoize constructs and caches tok at most once per injector, even when
// several goroutines resolve it concurrently. Waiters give up when ctx is done.
func (i *Injector) memoize(ctx context.Context, tok Token, scope Scope, build func(context.Context) (any, error)) (any, error) {
	ch := i.flights.DoChan(tok.String(), func() (any, error) {
		if v, ok := i.cachedIn(tok, scope); ok {
			return v, nil
		}
		v, err := build(ctx)
		if err != nil {
			return nil, err
		}
		i.store(tok, scope, v)
		return v, nil
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (i *Injector) cachedIn(tok Token, scope Scope) (any, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if scope == ScopeRequest {
		v, ok := i.scoped[tok]
		return v, ok
	}
	v, ok := i.instances[tok]
	return v, ok
}

func (i *Injector) store(tok Token, scope Scope, v any) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if scope == ScopeRequest {
		i.scoped[tok] = v
		return
	}
	i.instances[tok] = v
}

// construct runs a class constructor or factory with its resolved dependencies
// and reports the result to the construct hook. Dependencies are resolved
// through i, in declaration order. A panicking constructor becomes
// RESOLUTION_FAILED whatever the scope.
func (i *Injector) construct(ctx context.Context, tok Token, p Provider) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, errors.ResolutionFailed(tok.String(), fmt.Errorf("panic: %v", r))
		}
	}()
	v, err = i.build(ctx, tok, p)
	if err == nil && i.onConstruct != nil {
		i.onConstruct(tok, p, v)
	}
	return v, err
}

func (i *Injector) build(ctx context.Context, tok Token, p Provider) (any, error) {
	switch p.Kind() {
	case KindClass:
		args, err := i.resolveArgs(ctx, p.classDeps())
		if err != nil {
			return nil, err
		}
		v, err := p.UseClass.ctor(ctx, args)
		if err != nil {
			return nil, errors.ResolutionFailed(tok.String(), err)
		}
		return v, nil

	case KindFactory:
		args, err := i.resolveArgs(ctx, p.Inject)
		if err != nil {
			return nil, err
		}
		v, err := p.UseFactory(ctx, args)
		if err != nil {
			return nil, errors.ResolutionFailed(tok.String(), err)
		}
		if d, ok := v.(Deferred); ok {
			if v, err = d.Await(ctx); err != nil {
				return nil, errors.ResolutionFailed(tok.String(), err)
			}
		}
		return v, nil

	default:
		return nil, errors.InvalidProvider(tok.String())
	}
}

func (i *Injector) resolveArgs(ctx context.Context, deps []Dep) ([]any, error) {
	args := make([]any, len(deps))
	for idx, dep := range deps {
		v, _, err := i.get(ctx, dep.Token, dep.Optional)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}
	return args, nil
}
