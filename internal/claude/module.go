package claude

import (
	"context"

	"github.com/kbukum/modkit/di"
	"github.com/kbukum/modkit/module"
)

// OptionsToken is the token the client options are provided under.
var OptionsToken = di.Named("CLAUDE_OPTIONS")

// ServiceClass builds the Service from the provided Options.
var ServiceClass = di.NewClass(func(ctx context.Context, args []any) (*Service, error) {
	opts, err := di.RequireArg[Options](args, 0)
	if err != nil {
		return nil, err
	}
	return NewService(opts)
}, di.Inject(OptionsToken))

// ServiceToken resolves the Service.
var ServiceToken = ServiceClass.Token()

// Module is the static Claude module definition.
var Module = module.Define("ClaudeModule", module.Metadata{
	Providers: []di.Registrable{ServiceClass},
	Exports:   []di.Token{ServiceToken},
})

// ForRoot provides the Claude service configured with opts. The module is
// global when an API key is present.
func ForRoot(opts Options) *module.Dynamic {
	return &module.Dynamic{
		Module: Module,
		Providers: []di.Registrable{
			di.Provider{Provide: OptionsToken, UseValue: opts},
			ServiceClass,
		},
		Exports: []di.Token{ServiceToken},
		Global:  opts.APIKey != "",
	}
}

// AsyncOptions builds Options from other providers, possibly slowly, for
// example by reading a secret store.
type AsyncOptions struct {
	Imports    []module.Ref
	Inject     []di.Dep
	UseFactory func(ctx context.Context, args []any) (Options, error)
}

// ForRootAsync provides the Claude service with options produced by a
// factory. The factory runs in the background and the injector waits for it.
func ForRootAsync(o AsyncOptions) *module.Dynamic {
	factory := func(ctx context.Context, args []any) (any, error) {
		return di.Defer(ctx, func(ctx context.Context) (any, error) {
			return o.UseFactory(ctx, args)
		}), nil
	}
	return &module.Dynamic{
		Module:  Module,
		Imports: o.Imports,
		Providers: []di.Registrable{
			di.Provider{Provide: OptionsToken, UseFactory: factory, Inject: o.Inject},
			ServiceClass,
		},
		Exports: []di.Token{ServiceToken},
		Global:  true,
	}
}
