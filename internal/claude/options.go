package claude

import (
	"fmt"
	"time"

	"github.com/kbukum/modkit/validation"
)

// Model names accepted by the Messages API.
const (
	ModelSonnet = "claude-sonnet-4-5"
	ModelHaiku  = "claude-haiku-4-5"
	ModelOpus   = "claude-opus-4-1"
)

// Options configures the Claude client.
type Options struct {
	APIKey      string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
	Model       string        `yaml:"model" mapstructure:"model"`
	MaxTokens   int64         `yaml:"max_tokens" mapstructure:"max_tokens" validate:"gte=0"`
	Temperature *float64      `yaml:"temperature" mapstructure:"temperature" validate:"omitempty,gte=0,lte=1"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	MaxRetries  int           `yaml:"max_retries" mapstructure:"max_retries" validate:"gte=0"`
	// HistoryLimit caps the messages kept per conversation.
	HistoryLimit int `yaml:"history_limit" mapstructure:"history_limit" validate:"gte=0"`
}

// ApplyDefaults fills unset fields.
func (o *Options) ApplyDefaults() {
	if o.Model == "" {
		o.Model = ModelSonnet
	}
	if o.MaxTokens == 0 {
		o.MaxTokens = 4096
	}
	if o.Timeout == 0 {
		o.Timeout = 60 * time.Second
	}
	if o.MaxRetries == 0 {
		o.MaxRetries = 3
	}
	if o.HistoryLimit == 0 {
		o.HistoryLimit = 50
	}
}

// Validate checks the options.
func (o *Options) Validate() error {
	if err := validation.Validate(o); err != nil {
		return fmt.Errorf("claude: %w", err)
	}
	return nil
}
