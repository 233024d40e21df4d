// Package module defines composable modules and the compiler that flattens
// their import graph.
//
// A static module is declared once with Define. A dynamic module wraps a
// definition with metadata computed at composition time:
//
//	func ForRoot(opts Options) *module.Dynamic {
//	    return &module.Dynamic{
//	        Module:    ClaudeModule,
//	        Providers: []di.Registrable{di.Provider{Provide: OptionsToken, UseValue: opts}},
//	        Global:    opts.APIKey != "",
//	    }
//	}
//
// ExtractImports returns every reachable module exactly once, in pre-order of
// the declared imports.
package module
