package config

import (
	"fmt"
	"time"

	"github.com/kbukum/modkit/logger"
	"github.com/kbukum/modkit/validation"
)

// ServiceConfig contains the configuration every modkit application needs.
// Projects extend this by embedding it in their own config structs.
//
// Example:
//
//	type MyConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Claude ClaudeOptions `yaml:"claude" mapstructure:"claude"`
//	}
type ServiceConfig struct {
	Name        string          `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string          `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Version     string          `yaml:"version" mapstructure:"version"`
	Debug       bool            `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config   `yaml:"logging" mapstructure:"logging"`
	Container   ContainerConfig `yaml:"container" mapstructure:"container"`
	Tracing     TracingConfig   `yaml:"tracing" mapstructure:"tracing"`
}

// ContainerConfig tunes the application orchestrator.
type ContainerConfig struct {
	// ShutdownTimeout bounds the whole close sequence.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout" validate:"gte=0"`
	// HookTimeout bounds each individual lifecycle hook; zero disables it.
	HookTimeout time.Duration `yaml:"hook_timeout" mapstructure:"hook_timeout" validate:"gte=0"`
	// HandleSignals installs SIGINT/SIGTERM handling that routes into Close.
	HandleSignals *bool `yaml:"handle_signals" mapstructure:"handle_signals"`
}

// SignalsEnabled reports whether signal handling is on (default true).
func (c *ContainerConfig) SignalsEnabled() bool {
	return c.HandleSignals == nil || *c.HandleSignals
}

// TracingConfig configures OTLP export of container traces and metrics.
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint" validate:"required_if=Enabled true"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// GetServiceConfig returns the base ServiceConfig.
// When embedded in a larger config struct, this method is promoted
// so the embedding struct automatically satisfies bootstrap's config contract.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults applies default values to the base configuration.
// Override this in embedding structs and call c.ServiceConfig.ApplyDefaults() first.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	// Propagate service name into logging so Init() uses the right tag.
	if c.Logging.ServiceName == "" && c.Name != "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()

	if c.Container.ShutdownTimeout == 0 {
		c.Container.ShutdownTimeout = 15 * time.Second
	}
	if c.Tracing.Enabled {
		if c.Tracing.Endpoint == "" {
			c.Tracing.Endpoint = "localhost:4318"
		}
		if c.Tracing.SampleRate == 0 {
			c.Tracing.SampleRate = 1.0
		}
	}
}

// Validate validates the base configuration fields.
// Override this in embedding structs and call c.ServiceConfig.Validate() first.
func (c *ServiceConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
