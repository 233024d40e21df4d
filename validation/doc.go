// Package validation validates configuration structs using
// go-playground/validator struct tags.
//
//	type ContainerConfig struct {
//	    ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
//	}
//
//	if err := validation.Validate(cfg); err != nil { ... }
//
// Failures are reported as INVALID_CONFIG errors whose details list every
// offending field by its mapstructure key.
package validation
