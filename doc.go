// Package foundation resolves the process-wide environment provider manager
// and exposes it through a small set of accessors that never fail.
//
// The first accessor call runs discovery exactly once, orders the candidates
// by ascending Order (stable, so ties keep discovery order) and caches the
// winner for the life of the process. When discovery errors, panics or finds
// nothing, an inert null manager is selected instead and discovery is never
// attempted again.
//
// Typical use:
//
//	appID := foundation.App().AppID()
//	env := foundation.Server().EnvType()
//	timeout := foundation.GetProperty("http.timeout", "30s")
//
// Accessor faults are logged and answered with the caller's default or the
// null provider. Plugins contribute managers by registering a factory with
// discovery.Register from an init function. The defaults package registers
// the built-in manager, which ranks last.
package foundation
