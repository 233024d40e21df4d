// Package config provides configuration loading and validation for modkit
// applications.
//
// It uses Viper to load configuration from a YAML file and environment
// variables, optionally seeded from a .env file, and validates the result
// with struct tags.
//
// # Usage
//
//	var cfg MyConfig
//	if err := config.LoadConfig("chat-api", &cfg); err != nil { ... }
//
// Environment variables override file values; CONTAINER_SHUTDOWN_TIMEOUT
// binds to container.shutdown_timeout.
package config
