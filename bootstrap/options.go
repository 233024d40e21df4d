package bootstrap

import (
	"io"
	"os"
	"time"

	"github.com/kbukum/modkit/logger"
	"github.com/kbukum/modkit/observability"
)

// Option configures the App during creation.
type Option func(*appOptions)

// appOptions collects all option values before applying them to App.
// Pointer fields distinguish "not set" from zero so explicit options win
// over values taken from the config.
type appOptions struct {
	cfg             Config
	logger          *logger.Logger
	metrics         *observability.ContainerMetrics
	shutdownTimeout *time.Duration
	hookTimeout     *time.Duration
	handleSignals   *bool
	summary         io.Writer
	summarySet      bool
}

// resolveOptions applies all options and returns the collected values.
func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if !o.summarySet {
		o.summary = os.Stdout
	}
	return o
}

// WithConfig supplies the service configuration. Defaults are applied and
// the config is validated when the App is created.
func WithConfig(cfg Config) Option {
	return func(o *appOptions) {
		o.cfg = cfg
	}
}

// WithLogger sets a custom logger for the application.
// If not set, the logger is initialized from the config's Logging field.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithMetrics records resolutions and hooks on the given instruments.
func WithMetrics(m *observability.ContainerMetrics) Option {
	return func(o *appOptions) {
		o.metrics = m
	}
}

// WithShutdownTimeout sets the maximum duration of Close.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.shutdownTimeout = &d
	}
}

// WithHookTimeout bounds every individual lifecycle hook.
func WithHookTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.hookTimeout = &d
	}
}

// WithSignals enables or disables SIGINT/SIGTERM handling.
func WithSignals(enabled bool) Option {
	return func(o *appOptions) {
		o.handleSignals = &enabled
	}
}

// WithSummaryWriter sets where the startup summary is written. Nil disables it.
func WithSummaryWriter(w io.Writer) Option {
	return func(o *appOptions) {
		o.summary = w
		o.summarySet = true
	}
}
