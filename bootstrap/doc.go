// Package bootstrap runs a modkit application: it compiles the module graph
// from a root module, registers every provider into a root injector,
// instantiates class providers and controllers eagerly, and drives the
// lifecycle phases.
//
// # Quick Start
//
//	var cfg ChatConfig
//	if err := config.LoadConfig("chat-api", &cfg); err != nil {
//	    log.Fatal(err)
//	}
//	app, err := bootstrap.New(AppModule, bootstrap.WithConfig(&cfg))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// An App moves through Uninitialized, Initializing, Running, Closing and
// Closed. SIGINT and SIGTERM route into Close unless disabled, and Close
// runs at most once.
package bootstrap
