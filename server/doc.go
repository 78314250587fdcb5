// Package server provides the diagnostics HTTP server: a Gin engine behind
// an h2c handler that reports the resolved environment, component health and
// build information.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: request ID generation and propagation
//   - RequestLogger: request logging with duration tracking
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - /health: component health aggregation
//   - /ready: readiness probe
//   - /info: build version and component descriptions
//   - /environment: resolved application, server and network identity
//   - /environment/properties/:name: a single property lookup
package server
