package chat

import (
	"github.com/kbukum/modkit/config"
	"github.com/kbukum/modkit/internal/auth"
	"github.com/kbukum/modkit/internal/claude"
	"github.com/kbukum/modkit/internal/httpserver"
)

// Config is the chat-api configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server httpserver.Config `yaml:"server" mapstructure:"server"`
	Claude claude.Options    `yaml:"claude" mapstructure:"claude"`
	Auth   auth.Options      `yaml:"auth" mapstructure:"auth"`
}

// ApplyDefaults fills unset fields of every section.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Claude.ApplyDefaults()
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	return c.Claude.Validate()
}
