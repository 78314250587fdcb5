// Package component defines the lifecycle contract shared by the provider
// registry and the diagnostics server.
//
// A Group starts components in registration order, stops them in reverse and
// aggregates their health for the /health endpoint.
package component
