package module

import "github.com/kbukum/modkit/di"

// Metadata lists what a module contributes to the application.
type Metadata struct {
	// Providers are registered into the application injector. Class-shaped
	// providers are instantiated eagerly at bootstrap.
	Providers []di.Registrable
	// Controllers are instantiated eagerly after the providers.
	Controllers []*di.Class
	// Imports are the modules this module depends on.
	Imports []Ref
	// Exports name the provider tokens this module makes available to importers.
	Exports []di.Token
}

// Ref is a module reference: a static *Definition or a *Dynamic.
type Ref interface {
	definition() *Definition
}

// Definition is a static module: a name, its metadata and an optional class
// producing the module instance.
type Definition struct {
	name  string
	meta  Metadata
	class *di.Class
}

// Option configures a Definition.
type Option func(*Definition)

// WithClass sets the class that constructs the module instance. The instance
// takes part in lifecycle hooks like any provider.
func WithClass(c *di.Class) Option {
	return func(d *Definition) { d.class = c }
}

// Define declares a static module.
//
//	var UsersModule = module.Define("UsersModule", module.Metadata{
//	    Imports:   []module.Ref{DatabaseModule},
//	    Providers: []di.Registrable{UserRepoClass, UserServiceClass},
//	    Exports:   []di.Token{di.TypeOf[*UserService]()},
//	})
func Define(name string, meta Metadata, opts ...Option) *Definition {
	d := &Definition{name: name, meta: meta}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Definition) definition() *Definition { return d }

// Name returns the module name.
func (d *Definition) Name() string { return d.name }

// Metadata returns the static metadata.
func (d *Definition) Metadata() Metadata { return d.meta }

// Token returns the token the module instance is registered under.
func (d *Definition) Token() di.Token { return di.Named("module:" + d.name) }

// Provider returns the provider for the module instance. Without a class the
// instance is the Definition itself.
func (d *Definition) Provider() di.Provider {
	if d.class != nil {
		return di.Provider{Provide: d.Token(), UseClass: d.class}
	}
	return di.Provider{Provide: d.Token(), UseValue: d}
}

// Dynamic is a module built at composition time. Its metadata replaces the
// static metadata of Module.
type Dynamic struct {
	Module      *Definition
	Providers   []di.Registrable
	Controllers []*di.Class
	Imports     []Ref
	Exports     []di.Token
	Global      bool
}

func (m *Dynamic) definition() *Definition { return m.Module }

func (m *Dynamic) metadata() Metadata {
	return Metadata{
		Providers:   m.Providers,
		Controllers: m.Controllers,
		Imports:     m.Imports,
		Exports:     m.Exports,
	}
}
