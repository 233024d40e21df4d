package httpserver

import (
	"context"

	"github.com/kbukum/modkit/di"
	"github.com/kbukum/modkit/logger"
	"github.com/kbukum/modkit/module"
)

// ConfigToken is the token the server configuration is provided under.
var ConfigToken = di.Named("HTTP_SERVER_CONFIG")

// ServerClass builds the Server from the provided Config.
var ServerClass = di.NewClass(func(ctx context.Context, args []any) (*Server, error) {
	cfg, err := di.RequireArg[Config](args, 0)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return New(cfg, logger.WithComponent("http-server")), nil
}, di.Inject(ConfigToken))

// Module is the static server module definition.
var Module = module.Define("HTTPServerModule", module.Metadata{
	Providers: []di.Registrable{ServerClass},
	Exports:   []di.Token{ServerClass.Token()},
})

// ForRoot returns the server module configured with cfg. The module is
// global so every controller can resolve the server.
func ForRoot(cfg Config) *module.Dynamic {
	return &module.Dynamic{
		Module: Module,
		Providers: []di.Registrable{
			di.Provider{Provide: ConfigToken, UseValue: cfg},
			ServerClass,
		},
		Exports: []di.Token{ServerClass.Token()},
		Global:  true,
	}
}
