package di

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/modkit/errors"
	"github.com/kbukum/modkit/logger"
)

type repo struct{ id int }

type service struct {
	repo *repo
}

var counter atomic.Int64

func newRepoClass() *Class {
	return NewClass(func(ctx context.Context, args []any) (*repo, error) {
		return &repo{id: int(counter.Add(1))}, nil
	})
}

func newServiceClass() *Class {
	return NewClass(func(ctx context.Context, args []any) (*service, error) {
		return &service{repo: Arg[*repo](args, 0)}, nil
	}, Inject(TypeOf[*repo]()))
}

func newTestInjector() *Injector {
	return New(WithLogger(logger.NewNop()))
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Named("CONFIG"), "name:CONFIG"},
		{TypeOf[*repo](), "type:*github.com/kbukum/modkit/di.repo"},
		{TypeOf[string](), "type:string"},
		{Token{}, "<unset>"},
	}
	for _, tc := range tests {
		if got := tc.tok.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
	if Named("a") != Named("a") {
		t.Error("expected equal name tokens")
	}
	if TypeOf[*repo]() == TypeOf[repo]() {
		t.Error("expected pointer and value type tokens to differ")
	}
}

func TestProviderKind(t *testing.T) {
	tests := []struct {
		name string
		p    Provider
		want Kind
	}{
		{"class", Provider{Provide: Named("a"), UseClass: newRepoClass()}, KindClass},
		{"value", Provider{Provide: Named("a"), UseValue: 1}, KindValue},
		{"factory", Provider{Provide: Named("a"), UseFactory: func(context.Context, []any) (any, error) { return nil, nil }}, KindFactory},
		{"existing", Provider{Provide: Named("a"), UseExisting: Named("b")}, KindExisting},
		{"nil value is unset", Provider{Provide: Named("a"), UseValue: nil}, KindInvalid},
		{"class wins over value", Provider{Provide: Named("a"), UseClass: newRepoClass(), UseValue: 1}, KindClass},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.p.Kind(); got != tc.want {
				t.Errorf("Kind() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestValueProvider(t *testing.T) {
	inj := newTestInjector()
	cfg := &struct{ Port int }{Port: 8080}
	inj.RegisterProvider(Provider{Provide: Named("CONFIG"), UseValue: cfg})

	inj.mu.RLock()
	seeded := inj.instances[Named("CONFIG")]
	inj.mu.RUnlock()
	if seeded != cfg {
		t.Fatal("expected value provider to seed the instance cache on registration")
	}

	v, err := inj.Get(context.Background(), Named("CONFIG"))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v != cfg {
		t.Errorf("expected the registered value, got %v", v)
	}
}

func TestDefaultScopeIsSingleton(t *testing.T) {
	inj := newTestInjector()
	inj.RegisterProvider(newRepoClass())
	ctx := context.Background()

	a, err := inj.Get(ctx, TypeOf[*repo]())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	b, _ := inj.Get(ctx, TypeOf[*repo]())
	if a != b {
		t.Error("expected identical instances for default scope")
	}
}

func TestTransientScope(t *testing.T) {
	inj := newTestInjector()
	inj.RegisterProvider(newRepoClass().InScope(ScopeTransient))
	ctx := context.Background()

	a, _ := inj.Get(ctx, TypeOf[*repo]())
	b, _ := inj.Get(ctx, TypeOf[*repo]())
	if a == b {
		t.Error("expected distinct instances for transient scope")
	}
}

func TestProviderScopeOverridesClass(t *testing.T) {
	inj := newTestInjector()
	inj.RegisterProvider(Provider{Provide: Named("REPO"), UseClass: newRepoClass(), Scope: ScopeTransient})
	ctx := context.Background()

	a, _ := inj.Get(ctx, Named("REPO"))
	b, _ := inj.Get(ctx, Named("REPO"))
	if a == b {
		t.Error("expected provider scope to make the class transient")
	}
}

func TestProviderNotFound(t *testing.T) {
	inj := newTestInjector()
	ctx := context.Background()

	_, err := inj.Get(ctx, Named("MISSING"))
	if !errors.IsProviderNotFound(err) {
		t.Fatalf("expected PROVIDER_NOT_FOUND, got %v", err)
	}

	v, ok, err := inj.GetOptional(ctx, Named("MISSING"))
	if err != nil {
		t.Fatalf("expected no error for optional, got %v", err)
	}
	if ok || v != nil {
		t.Errorf("expected absent value, got %v (ok=%v)", v, ok)
	}
}

func TestOptionalDependency(t *testing.T) {
	inj := newTestInjector()
	inj.RegisterProvider(NewClass(func(ctx context.Context, args []any) (*service, error) {
		return &service{repo: Arg[*repo](args, 0)}, nil
	}, Optional(TypeOf[*repo]())))

	v, err := inj.Get(context.Background(), TypeOf[*service]())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v.(*service).repo != nil {
		t.Error("expected nil repo for absent optional dependency")
	}
}

func TestFactoryWithClassDependency(t *testing.T) {
	inj := newTestInjector()
	var order []string
	inj.RegisterProvider(NewClass(func(ctx context.Context, args []any) (*repo, error) {
		order = append(order, "X")
		return &repo{id: 7}, nil
	}))

	calls := 0
	var received []any
	inj.RegisterProvider(Provider{
		Provide: Named("Y"),
		UseFactory: func(ctx context.Context, args []any) (any, error) {
			order = append(order, "Y")
			calls++
			received = args
			return fmt.Sprintf("y-%d", Arg[*repo](args, 0).id), nil
		},
		Inject: []Dep{Inject(TypeOf[*repo]())},
	})

	ctx := context.Background()
	v, err := inj.Get(ctx, Named("Y"))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v != "y-7" {
		t.Errorf("expected y-7, got %v", v)
	}
	if strings.Join(order, ",") != "X,Y" {
		t.Errorf("expected X constructed before Y, got %v", order)
	}
	x, _ := inj.Get(ctx, TypeOf[*repo]())
	if len(received) != 1 || received[0] != x {
		t.Errorf("expected factory to receive X as sole argument, got %v", received)
	}

	if _, err := inj.Get(ctx, Named("Y")); err != nil {
		t.Fatalf("second Get failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected factory invoked once, got %d", calls)
	}
}

func TestDeferredFactory(t *testing.T) {
	inj := newTestInjector()
	inj.RegisterProvider(Provider{
		Provide: Named("ASYNC"),
		UseFactory: func(ctx context.Context, args []any) (any, error) {
			return Defer(ctx, func(ctx context.Context) (any, error) {
				time.Sleep(10 * time.Millisecond)
				return "ready", nil
			}), nil
		},
	})

	v, err := inj.Get(context.Background(), Named("ASYNC"))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v != "ready" {
		t.Errorf("expected awaited value, got %v", v)
	}
}

func TestDeferredFactoryError(t *testing.T) {
	inj := newTestInjector()
	cause := stderrors.New("upstream unavailable")
	inj.RegisterProvider(Provider{
		Provide: Named("ASYNC"),
		UseFactory: func(ctx context.Context, args []any) (any, error) {
			return Defer(ctx, func(ctx context.Context) (any, error) { return nil, cause }), nil
		},
	})

	_, err := inj.Get(context.Background(), Named("ASYNC"))
	if !errors.HasCode(err, errors.ErrCodeResolutionFailed) {
		t.Fatalf("expected RESOLUTION_FAILED, got %v", err)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be preserved")
	}
}

func TestDeferredAwaitHonoursContext(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	d := Defer(context.Background(), func(ctx context.Context) (any, error) {
		<-block
		return nil, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := d.Await(ctx); !stderrors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}

	if v, err := Resolved(3).Await(context.Background()); err != nil || v != 3 {
		t.Errorf("expected resolved value 3, got %v, %v", v, err)
	}
}

func TestExistingProviderIsNotCached(t *testing.T) {
	inj := newTestInjector()
	inj.RegisterProvider(newRepoClass())
	inj.RegisterProvider(Provider{Provide: Named("REPO_ALIAS"), UseExisting: TypeOf[*repo]()})
	ctx := context.Background()

	alias, err := inj.Get(ctx, Named("REPO_ALIAS"))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	target, _ := inj.Get(ctx, TypeOf[*repo]())
	if alias != target {
		t.Error("expected alias to return the target instance")
	}

	inj.mu.RLock()
	_, cached := inj.instances[Named("REPO_ALIAS")]
	inj.mu.RUnlock()
	if cached {
		t.Error("expected alias token to have no cache entry")
	}
}

func TestInvalidProviderFailsAtResolution(t *testing.T) {
	inj := newTestInjector()
	inj.RegisterProvider(Provider{Provide: Named("BROKEN")})

	if !inj.Has(Named("BROKEN")) {
		t.Fatal("expected invalid provider to be stored")
	}
	_, err := inj.Get(context.Background(), Named("BROKEN"))
	if !errors.IsInvalidProvider(err) {
		t.Errorf("expected INVALID_PROVIDER, got %v", err)
	}
}

func TestClassInjectOverride(t *testing.T) {
	inj := newTestInjector()
	inj.RegisterProvider(newRepoClass())
	special := &repo{id: 99}
	inj.RegisterProvider(Provider{Provide: Named("SPECIAL_REPO"), UseValue: special})
	inj.RegisterProvider(Provider{
		Provide:  Named("SVC"),
		UseClass: newServiceClass(),
		Inject:   []Dep{Inject(Named("SPECIAL_REPO"))},
	})

	v, err := inj.Get(context.Background(), Named("SVC"))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v.(*service).repo != special {
		t.Error("expected overridden dependency to be injected")
	}
}

func TestCyclicDependency(t *testing.T) {
	inj := newTestInjector()
	inj.RegisterProvider(Provider{
		Provide:    Named("A"),
		UseFactory: func(ctx context.Context, args []any) (any, error) { return "a", nil },
		Inject:     []Dep{Inject(Named("B"))},
	})
	inj.RegisterProvider(Provider{
		Provide:    Named("B"),
		UseFactory: func(ctx context.Context, args []any) (any, error) { return "b", nil },
		Inject:     []Dep{Inject(Named("A"))},
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := inj.Get(ctx, Named("A"))
	if !errors.IsCyclicDependency(err) {
		t.Fatalf("expected CYCLIC_DEPENDENCY, got %v", err)
	}
	e, _ := errors.As(err)
	want := []string{"name:A", "name:B", "name:A"}
	if strings.Join(e.Path, ",") != strings.Join(want, ",") {
		t.Errorf("expected path %v, got %v", want, e.Path)
	}
}

func TestCyclicAlias(t *testing.T) {
	inj := newTestInjector()
	inj.RegisterProvider(Provider{Provide: Named("A"), UseExisting: Named("A")})

	_, err := inj.Get(context.Background(), Named("A"))
	if !errors.IsCyclicDependency(err) {
		t.Errorf("expected CYCLIC_DEPENDENCY for self alias, got %v", err)
	}
}

func TestConstructorError(t *testing.T) {
	inj := newTestInjector()
	cause := stderrors.New("dial failed")
	inj.RegisterProvider(NewClass(func(ctx context.Context, args []any) (*repo, error) {
		return nil, cause
	}))

	_, err := inj.Get(context.Background(), TypeOf[*repo]())
	e, ok := errors.As(err)
	if !ok || e.Code != errors.ErrCodeResolutionFailed {
		t.Fatalf("expected RESOLUTION_FAILED, got %v", err)
	}
	if e.Token != TypeOf[*repo]().String() {
		t.Errorf("expected failing token, got %q", e.Token)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be preserved")
	}

	inj.mu.RLock()
	_, cached := inj.instances[TypeOf[*repo]()]
	inj.mu.RUnlock()
	if cached {
		t.Error("failed construction must not be cached")
	}
}

func TestConstructorPanicRecovered(t *testing.T) {
	panicking := NewClass(func(ctx context.Context, args []any) (*repo, error) {
		panic("boom")
	})
	tests := []struct {
		name     string
		provider Registrable
	}{
		{"singleton class", panicking},
		{"transient class", panicking.InScope(ScopeTransient)},
		{"request class", panicking.InScope(ScopeRequest)},
		{"transient factory", Provider{
			Provide: TypeOf[*repo](),
			Scope:   ScopeTransient,
			UseFactory: func(ctx context.Context, args []any) (any, error) {
				panic("boom")
			},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inj := newTestInjector()
			inj.RegisterProvider(tt.provider)

			_, err := inj.Get(context.Background(), TypeOf[*repo]())
			if !errors.HasCode(err, errors.ErrCodeResolutionFailed) {
				t.Fatalf("expected RESOLUTION_FAILED, got %v", err)
			}
			if !strings.Contains(err.Error(), "panic: boom") {
				t.Errorf("expected panic message, got %q", err.Error())
			}
		})
	}
}

func TestConstructHookSeesDependenciesFirst(t *testing.T) {
	var mu sync.Mutex
	var built []string
	inj := New(WithLogger(logger.NewNop()), WithConstructHook(func(tok Token, p Provider, v any) {
		mu.Lock()
		defer mu.Unlock()
		built = append(built, tok.String())
	}))
	inj.RegisterProvider(newServiceClass())
	inj.RegisterProvider(newRepoClass())
	inj.RegisterProvider(Provider{Provide: Named("opts"), UseValue: "v"})

	ctx := context.Background()
	if _, err := inj.Get(ctx, TypeOf[*service]()); err != nil {
		t.Fatalf("resolve service: %v", err)
	}
	if _, err := inj.Get(ctx, TypeOf[*service]()); err != nil {
		t.Fatalf("resolve cached service: %v", err)
	}
	if _, err := inj.Get(ctx, Named("opts")); err != nil {
		t.Fatalf("resolve value: %v", err)
	}

	want := []string{TypeOf[*repo]().String(), TypeOf[*service]().String()}
	if strings.Join(built, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, built)
	}

	child := inj.CreateChild()
	child.RegisterProvider(NewClass(func(ctx context.Context, args []any) (*repo, error) {
		return &repo{}, nil
	}).Named("scoped").InScope(ScopeRequest))
	if _, err := child.Get(ctx, Named("scoped")); err != nil {
		t.Fatalf("resolve scoped: %v", err)
	}
	if built[len(built)-1] != Named("scoped").String() {
		t.Errorf("expected child constructions to reach the hook, got %v", built)
	}
}

func TestDependencyErrorPropagates(t *testing.T) {
	inj := newTestInjector()
	inj.RegisterProvider(newServiceClass())

	_, err := inj.Get(context.Background(), TypeOf[*service]())
	e, ok := errors.As(err)
	if !ok || e.Code != errors.ErrCodeProviderNotFound {
		t.Fatalf("expected PROVIDER_NOT_FOUND, got %v", err)
	}
	if e.Token != TypeOf[*repo]().String() {
		t.Errorf("expected missing dependency token, got %q", e.Token)
	}
}

func TestChildInjectorDelegatesToParent(t *testing.T) {
	root := newTestInjector()
	root.RegisterProvider(newRepoClass())
	child := root.CreateChild()

	if child.Parent() != root {
		t.Fatal("expected child parent to be root")
	}
	ctx := context.Background()
	fromChild, err := child.Get(ctx, TypeOf[*repo]())
	if err != nil {
		t.Fatalf("Get from child failed: %v", err)
	}
	fromRoot, _ := root.Get(ctx, TypeOf[*repo]())
	if fromChild != fromRoot {
		t.Error("expected singleton to be shared with the parent")
	}
	if len(child.Tokens()) != 0 {
		t.Error("expected child to hold no providers of its own")
	}
}

func TestChildOverridesParent(t *testing.T) {
	root := newTestInjector()
	root.RegisterProvider(Provider{Provide: Named("ENV"), UseValue: "root"})
	child := root.CreateChild()
	child.RegisterProvider(Provider{Provide: Named("ENV"), UseValue: "child"})

	ctx := context.Background()
	if v, _ := child.Get(ctx, Named("ENV")); v != "child" {
		t.Errorf("expected child value, got %v", v)
	}
	if v, _ := root.Get(ctx, Named("ENV")); v != "root" {
		t.Errorf("expected root value, got %v", v)
	}
}

func TestRequestScopePerChild(t *testing.T) {
	root := newTestInjector()
	root.RegisterProvider(newRepoClass().InScope(ScopeRequest))
	ctx := context.Background()

	req1 := root.CreateChild()
	req2 := root.CreateChild()

	a1, _ := req1.Get(ctx, TypeOf[*repo]())
	a2, _ := req1.Get(ctx, TypeOf[*repo]())
	b1, _ := req2.Get(ctx, TypeOf[*repo]())
	if a1 != a2 {
		t.Error("expected one instance per child injector")
	}
	if a1 == b1 {
		t.Error("expected distinct instances across child injectors")
	}

	r1, _ := root.Get(ctx, TypeOf[*repo]())
	r2, _ := root.Get(ctx, TypeOf[*repo]())
	if r1 != r2 {
		t.Error("expected request scope to behave as singleton on the root")
	}
	c1, _ := root.CreateChild().Get(ctx, TypeOf[*repo]())
	if c1 == r1 {
		t.Error("expected root-cached request instance not to leak into children")
	}
}

func TestClear(t *testing.T) {
	inj := newTestInjector()
	inj.RegisterProvider(newRepoClass())
	inj.RegisterProvider(Provider{Provide: Named("CONFIG"), UseValue: "cfg"})
	ctx := context.Background()

	before, _ := inj.Get(ctx, TypeOf[*repo]())
	inj.Clear()
	after, err := inj.Get(ctx, TypeOf[*repo]())
	if err != nil {
		t.Fatalf("Get after Clear failed: %v", err)
	}
	if before == after {
		t.Error("expected a new instance after Clear")
	}
	if v, err := inj.Get(ctx, Named("CONFIG")); err != nil || v != "cfg" {
		t.Errorf("expected value provider to survive Clear, got %v, %v", v, err)
	}
	if len(inj.Tokens()) != 2 {
		t.Errorf("expected providers to be kept, got %v", inj.Tokens())
	}
}

func TestRegistrationOrderAndReplace(t *testing.T) {
	inj := newTestInjector()
	inj.RegisterProvider(Provider{Provide: Named("A"), UseValue: 1})
	inj.RegisterProvider(Provider{Provide: Named("B"), UseValue: 2})
	inj.RegisterProvider(Provider{Provide: Named("A"), UseValue: 3})

	toks := inj.Tokens()
	if len(toks) != 2 || toks[0] != Named("A") || toks[1] != Named("B") {
		t.Errorf("expected [A B], got %v", toks)
	}
	if v, _ := inj.Get(context.Background(), Named("A")); v != 3 {
		t.Errorf("expected replaced value 3, got %v", v)
	}
	if p, ok := inj.Provider(Named("B")); !ok || p.Kind() != KindValue {
		t.Errorf("expected value provider for B, got %v %v", p.Kind(), ok)
	}
}

func TestConcurrentFirstResolutionConstructsOnce(t *testing.T) {
	inj := newTestInjector()
	var calls atomic.Int32
	inj.RegisterProvider(NewClass(func(ctx context.Context, args []any) (*repo, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return &repo{}, nil
	}))

	const n = 16
	results := make([]any, n)
	var wg sync.WaitGroup
	for k := 0; k < n; k++ {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			v, err := inj.Get(context.Background(), TypeOf[*repo]())
			if err != nil {
				t.Errorf("Get failed: %v", err)
			}
			results[k] = v
		}(k)
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("expected constructor to run once, ran %d times", calls.Load())
	}
	for k := 1; k < n; k++ {
		if results[k] != results[0] {
			t.Fatal("expected every caller to receive the same instance")
		}
	}
}

func TestResolveHelpers(t *testing.T) {
	inj := newTestInjector()
	inj.RegisterProvider(newRepoClass())
	inj.RegisterProvider(Provider{Provide: Named("NAME"), UseValue: "modkit"})
	ctx := context.Background()

	r, err := ResolveType[*repo](ctx, inj)
	if err != nil || r == nil {
		t.Fatalf("ResolveType failed: %v", err)
	}

	if _, err := Resolve[int](ctx, inj, Named("NAME")); !errors.HasCode(err, errors.ErrCodeResolutionFailed) {
		t.Errorf("expected type mismatch to fail, got %v", err)
	}

	if s, ok := TryResolve[string](ctx, inj, Named("NAME")); !ok || s != "modkit" {
		t.Errorf("expected TryResolve to succeed, got %q %v", s, ok)
	}
	if _, ok := TryResolve[string](ctx, inj, Named("MISSING")); ok {
		t.Error("expected TryResolve to fail for missing token")
	}

	if got := MustResolve[string](ctx, inj, Named("NAME")); got != "modkit" {
		t.Errorf("expected modkit, got %q", got)
	}
	defer func() {
		if recover() == nil {
			t.Error("expected MustResolve to panic for missing token")
		}
	}()
	MustResolve[string](ctx, inj, Named("MISSING"))
}

func TestArg(t *testing.T) {
	args := []any{"a", nil, 3}
	if Arg[string](args, 0) != "a" {
		t.Error("expected string arg")
	}
	if Arg[*repo](args, 1) != nil {
		t.Error("expected nil for absent optional")
	}
	if Arg[string](args, 2) != "" {
		t.Error("expected zero value on type mismatch")
	}
	if Arg[int](args, 5) != 0 {
		t.Error("expected zero value out of range")
	}
}

func TestRequireArg(t *testing.T) {
	args := []any{"a", nil, 3}
	if v, err := RequireArg[string](args, 0); err != nil || v != "a" {
		t.Errorf("expected string arg, got %q %v", v, err)
	}
	if _, err := RequireArg[*repo](args, 1); err == nil {
		t.Error("expected error for nil argument")
	}
	_, err := RequireArg[string](args, 2)
	if err == nil || !strings.Contains(err.Error(), "expected string, got int") {
		t.Errorf("expected type mismatch error, got %v", err)
	}
	if _, err := RequireArg[int](args, 5); err == nil {
		t.Error("expected error out of range")
	}
}

func TestRequireArgFailsConstruction(t *testing.T) {
	inj := newTestInjector()
	inj.RegisterProvider(Provider{Provide: Named("count"), UseValue: 3})
	inj.RegisterProvider(NewClass(func(ctx context.Context, args []any) (*service, error) {
		r, err := RequireArg[*repo](args, 0)
		if err != nil {
			return nil, err
		}
		return &service{repo: r}, nil
	}, Inject(Named("count"))))

	_, err := inj.Get(context.Background(), TypeOf[*service]())
	if !errors.HasCode(err, errors.ErrCodeResolutionFailed) {
		t.Fatalf("expected RESOLUTION_FAILED, got %v", err)
	}
	if !strings.Contains(err.Error(), "got int") {
		t.Errorf("expected wrong-type detail, got %q", err.Error())
	}
}

func TestClassAccessors(t *testing.T) {
	c := newServiceClass().Named("SERVICE").InScope(ScopeTransient)
	if c.Token() != Named("SERVICE") {
		t.Errorf("expected named token, got %s", c.Token())
	}
	if c.Scope() != ScopeTransient {
		t.Errorf("expected transient scope, got %s", c.Scope())
	}
	if len(c.Deps()) != 1 || c.Deps()[0].Token != TypeOf[*repo]() {
		t.Errorf("unexpected deps %v", c.Deps())
	}
	if newServiceClass().Token() != TypeOf[*service]() {
		t.Error("expected original class to keep its type token")
	}
}
