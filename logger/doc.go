// Package logger provides structured logging for modkit applications
// using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers. The injector, module compiler, lifecycle manager
// and application each log through their own named component logger.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get(logger.ComponentInjector)
//	log.Debug("provider resolved", logger.Fields(logger.FieldToken, tok))
package logger
