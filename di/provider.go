package di

import (
	"context"
	"fmt"
	"reflect"
)

// Scope governs how a resolved value is cached.
type Scope int

const (
	// ScopeDefault caches the first resolved value (singleton).
	ScopeDefault Scope = iota
	// ScopeTransient constructs a fresh value on every resolution.
	ScopeTransient
	// ScopeRequest caches the value in the injector Get was called on.
	// Resolved from the root injector it behaves like ScopeDefault.
	ScopeRequest
)

func (s Scope) String() string {
	switch s {
	case ScopeTransient:
		return "TRANSIENT"
	case ScopeRequest:
		return "REQUEST"
	default:
		return "DEFAULT"
	}
}

// Dep is a declared dependency of a class or factory.
type Dep struct {
	Token    Token
	Optional bool
}

// Inject declares a required dependency on tok.
func Inject(tok Token) Dep { return Dep{Token: tok} }

// Optional declares a dependency on tok that resolves to nil when no provider exists.
func Optional(tok Token) Dep { return Dep{Token: tok, Optional: true} }

// Constructor builds a value from its positional dependency values.
type Constructor func(ctx context.Context, args []any) (any, error)

// Factory is the function of a factory provider. It may return a Deferred,
// which the injector awaits before caching the result.
type Factory func(ctx context.Context, args []any) (any, error)

// Class is a constructible type: a token, the ordered dependencies of its
// constructor, the constructor itself and its default scope.
type Class struct {
	token  Token
	params []Dep
	ctor   Constructor
	scope  Scope
}

// NewClass declares a constructible type keyed by the type token of T.
//
//	var UserServiceClass = di.NewClass(func(ctx context.Context, args []any) (*UserService, error) {
//		return &UserService{repo: di.Arg[*UserRepo](args, 0)}, nil
//	}, di.Inject(di.TypeOf[*UserRepo]()))
func NewClass[T any](ctor func(ctx context.Context, args []any) (T, error), deps ...Dep) *Class {
	return &Class{
		token:  TypeOf[T](),
		params: deps,
		ctor: func(ctx context.Context, args []any) (any, error) {
			return ctor(ctx, args)
		},
	}
}

// Named returns a copy of the class keyed by a name token instead of its type.
func (c *Class) Named(name string) *Class {
	cp := *c
	cp.token = Named(name)
	return &cp
}

// InScope returns a copy of the class with the given default scope.
func (c *Class) InScope(s Scope) *Class {
	cp := *c
	cp.scope = s
	return &cp
}

// Token returns the token the class registers under when listed bare.
func (c *Class) Token() Token { return c.token }

// Deps returns the declared constructor dependencies.
func (c *Class) Deps() []Dep { return append([]Dep(nil), c.params...) }

// Scope returns the class default scope.
func (c *Class) Scope() Scope { return c.scope }

// ToProvider turns a bare class into an implicit class provider keyed by itself.
func (c *Class) ToProvider() Provider {
	return Provider{Provide: c.token, UseClass: c}
}

// Kind is the recognized shape of a provider.
type Kind int

const (
	KindInvalid Kind = iota
	KindClass
	KindValue
	KindFactory
	KindExisting
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindValue:
		return "value"
	case KindFactory:
		return "factory"
	case KindExisting:
		return "existing"
	default:
		return "invalid"
	}
}

// Provider describes how to produce the value bound to Provide. Exactly one
// of UseClass, UseValue, UseFactory or UseExisting is expected; when several
// are set the first in that order wins. A nil UseValue counts as unset.
type Provider struct {
	Provide     Token
	UseClass    *Class
	UseValue    any
	UseFactory  Factory
	UseExisting Token
	// Inject lists factory arguments in order. For class providers a non-zero
	// entry replaces the class dependency at the same position.
	Inject []Dep
	// Scope overrides the class scope when not ScopeDefault.
	Scope Scope
}

// ToProvider returns the provider itself.
func (p Provider) ToProvider() Provider { return p }

// Kind classifies the provider.
func (p Provider) Kind() Kind {
	switch {
	case p.UseClass != nil:
		return KindClass
	case p.UseValue != nil:
		return KindValue
	case p.UseFactory != nil:
		return KindFactory
	case !p.UseExisting.IsZero():
		return KindExisting
	default:
		return KindInvalid
	}
}

// EffectiveScope is the scope resolutions use: Scope when set, otherwise
// the class scope.
func (p Provider) EffectiveScope() Scope {
	if p.Scope == ScopeDefault && p.UseClass != nil {
		return p.UseClass.scope
	}
	return p.Scope
}

// Token returns the token the provider registers under. A class provider
// without Provide registers under the class token.
func (p Provider) Token() Token {
	if p.Provide.IsZero() && p.UseClass != nil {
		return p.UseClass.token
	}
	return p.Provide
}

// classDeps merges the class parameters with per-position Inject overrides.
func (p Provider) classDeps() []Dep {
	deps := append([]Dep(nil), p.UseClass.params...)
	for i, override := range p.Inject {
		if override.Token.IsZero() {
			continue
		}
		if i < len(deps) {
			deps[i] = override
		} else {
			deps = append(deps, override)
		}
	}
	return deps
}

// Registrable is anything that can be registered into an injector: a
// Provider or a bare *Class.
type Registrable interface {
	ToProvider() Provider
}

// Deferred is a pending computation returned by a factory.
type Deferred interface {
	Await(ctx context.Context) (any, error)
}

type deferred struct {
	done chan struct{}
	val  any
	err  error
}

// Defer starts fn in its own goroutine and returns a Deferred for its result.
func Defer(ctx context.Context, fn func(ctx context.Context) (any, error)) Deferred {
	d := &deferred{done: make(chan struct{})}
	go func() {
		d.val, d.err = fn(ctx)
		close(d.done)
	}()
	return d
}

// Resolved returns an already completed Deferred.
func Resolved(v any) Deferred {
	d := &deferred{done: make(chan struct{}), val: v}
	close(d.done)
	return d
}

func (d *deferred) Await(ctx context.Context) (any, error) {
	select {
	case <-d.done:
		return d.val, d.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Arg returns args[i] as T, or the zero T when the position is missing, nil
// (an absent optional dependency) or of another type.
func Arg[T any](args []any, i int) T {
	var zero T
	if i < 0 || i >= len(args) || args[i] == nil {
		return zero
	}
	v, ok := args[i].(T)
	if !ok {
		return zero
	}
	return v
}

// RequireArg returns args[i] as T, failing when the position is missing, nil
// or holds another type. Use it for required dependencies so a wiring mistake
// surfaces as a construction error.
func RequireArg[T any](args []any, i int) (T, error) {
	var zero T
	if i < 0 || i >= len(args) {
		return zero, fmt.Errorf("argument %d of %d: out of range", i, len(args))
	}
	if args[i] == nil {
		return zero, fmt.Errorf("argument %d: expected %s, got nil", i, reflect.TypeFor[T]())
	}
	v, ok := args[i].(T)
	if !ok {
		return zero, fmt.Errorf("argument %d: expected %s, got %T", i, reflect.TypeFor[T](), args[i])
	}
	return v, nil
}
