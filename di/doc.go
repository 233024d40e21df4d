// Package di provides the injector: a registry of providers keyed by tokens
// and an on-demand resolver with scoped caching and parent-chain lookup.
//
// Tokens are either names or Go type identities:
//
//	var ConfigToken = di.Named("CONFIG")
//	repoToken := di.TypeOf[*UserRepo]()
//
// Providers come in four shapes: class, value, factory and existing (alias).
// Dependencies are declared explicitly rather than inferred:
//
//	inj := di.New()
//	inj.RegisterProvider(di.Provider{Provide: ConfigToken, UseValue: cfg})
//	inj.RegisterProvider(di.NewClass(newUserRepo, di.Inject(ConfigToken)))
//	inj.RegisterProvider(di.Provider{
//	    Provide:    di.Named("GREETER"),
//	    UseFactory: func(ctx context.Context, args []any) (any, error) { ... },
//	    Inject:     []di.Dep{di.Inject(repoToken)},
//	})
//
//	repo, err := di.Resolve[*UserRepo](ctx, inj, repoToken)
//
// A token that reappears on its own resolution path fails with a
// CYCLIC_DEPENDENCY error. First resolution of a singleton constructs it once
// even under concurrent callers.
package di
