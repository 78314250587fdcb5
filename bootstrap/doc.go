// Package bootstrap wires the provider registry, the diagnostics server and
// OpenTelemetry into one application lifecycle.
//
// # Quick Start
//
//	cfg, err := bootstrap.LoadConfig("foundation")
//	app, err := bootstrap.NewApp(cfg)
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Run starts every component, runs hooks, blocks until SIGINT/SIGTERM or
// context cancellation and shuts down in reverse order.
package bootstrap
