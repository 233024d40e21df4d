package bootstrap

import (
	"github.com/kbukum/modkit/config"
)

// Config is the contract for application configuration passed to WithConfig.
// Any struct that embeds config.ServiceConfig satisfies it through promoted methods.
//
// Example:
//
//	type ChatConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Claude claude.Options `yaml:"claude" mapstructure:"claude"`
//	}
//
//	app, err := bootstrap.New(AppModule, bootstrap.WithConfig(&cfg))
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
