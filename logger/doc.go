// Package logger provides structured logging for foundation using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with map-based structured fields. The provider
// registry is the main consumer: every fault it swallows is reported here.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("foundation")
//	log.Error("Initialize provider manager failed", logger.ErrorFields("resolve", err))
package logger
