// Command chat-api serves a small chat API backed by the Claude Messages API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/modkit/bootstrap"
	"github.com/kbukum/modkit/config"
	"github.com/kbukum/modkit/internal/chat"
	"github.com/kbukum/modkit/logger"
	"github.com/kbukum/modkit/observability"
	"github.com/kbukum/modkit/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "chat-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg chat.Config
	if err := config.LoadConfig("chat-api", &cfg, config.WithDefault("name", "chat-api")); err != nil {
		return err
	}
	if cfg.Version == "" {
		cfg.Version = version.Current().Short()
	}
	cfg.ApplyDefaults()

	metrics, err := observability.NewContainerMetrics(observability.Meter(observability.InstrumentationName))
	if err != nil {
		return err
	}

	app, err := bootstrap.New(chat.AppModule(cfg),
		bootstrap.WithConfig(&cfg),
		bootstrap.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}

	// SIGINT and SIGTERM are handled by the app and end Run.
	ctx := context.Background()
	if cfg.Tracing.Enabled {
		if err := initTelemetry(ctx, app, &cfg); err != nil {
			return err
		}
	}
	return app.Run(ctx)
}

// initTelemetry installs the OTLP trace and metric providers and flushes
// them after every other shutdown step.
func initTelemetry(ctx context.Context, app *bootstrap.App, cfg *chat.Config) error {
	tc := observability.DefaultTracerConfig(cfg.Name)
	tc.ServiceVersion = cfg.Version
	tc.Environment = cfg.Environment
	tc.Endpoint = cfg.Tracing.Endpoint
	tc.Insecure = cfg.Tracing.Insecure
	tc.SampleRate = cfg.Tracing.SampleRate
	tp, err := observability.InitTracer(ctx, tc)
	if err != nil {
		return err
	}

	mc := observability.DefaultMeterConfig(cfg.Name)
	mc.ServiceVersion = cfg.Version
	mc.Environment = cfg.Environment
	mc.Endpoint = cfg.Tracing.Endpoint
	mc.Insecure = cfg.Tracing.Insecure
	mp, err := observability.InitMeter(ctx, &mc)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return err
	}

	app.OnShutdown(tp.Shutdown, mp.Shutdown)
	logger.Info("telemetry enabled", logger.Fields("endpoint", cfg.Tracing.Endpoint))
	return nil
}
