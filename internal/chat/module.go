package chat

import (
	"context"

	"github.com/kbukum/modkit/bootstrap"
	"github.com/kbukum/modkit/di"
	"github.com/kbukum/modkit/internal/auth"
	"github.com/kbukum/modkit/internal/claude"
	"github.com/kbukum/modkit/internal/httpserver"
	"github.com/kbukum/modkit/module"
)

// ChatControllerClass builds the ChatController. The verifier is optional so
// the module also runs without AuthModule.
var ChatControllerClass = di.NewClass(func(ctx context.Context, args []any) (*ChatController, error) {
	srv, err := di.RequireArg[*httpserver.Server](args, 0)
	if err != nil {
		return nil, err
	}
	svc, err := di.RequireArg[*claude.Service](args, 1)
	if err != nil {
		return nil, err
	}
	return NewChatController(srv, svc, di.Arg[*auth.Verifier](args, 2)), nil
},
	di.Inject(httpserver.ServerClass.Token()),
	di.Inject(claude.ServiceToken),
	di.Optional(auth.VerifierClass.Token()),
)

// ServiceNameToken carries the service name reported by the liveness probe.
var ServiceNameToken = di.Named("SERVICE_NAME")

// HealthControllerClass builds the HealthController.
var HealthControllerClass = di.NewClass(func(ctx context.Context, args []any) (*HealthController, error) {
	srv, err := di.RequireArg[*httpserver.Server](args, 0)
	if err != nil {
		return nil, err
	}
	app, err := di.RequireArg[*bootstrap.App](args, 2)
	if err != nil {
		return nil, err
	}
	return NewHealthController(srv, di.Arg[string](args, 1), app), nil
},
	di.Inject(httpserver.ServerClass.Token()),
	di.Inject(ServiceNameToken),
	di.Inject(bootstrap.AppToken),
)

// AppModule is the chat-api root module.
func AppModule(cfg Config) *module.Definition {
	imports := []module.Ref{
		httpserver.ForRoot(cfg.Server),
		claude.ForRoot(cfg.Claude),
	}
	if cfg.Auth.Enabled {
		imports = append(imports, auth.ForRoot(cfg.Auth))
	}

	return module.Define("AppModule", module.Metadata{
		Imports: imports,
		Providers: []di.Registrable{
			di.Provider{Provide: ServiceNameToken, UseValue: cfg.Name},
		},
		Controllers: []*di.Class{HealthControllerClass, ChatControllerClass},
	})
}
