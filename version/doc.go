// Package version reports build information for the diagnostics /info
// endpoint.
//
// Values are set at link time and fall back to the VCS stamp the Go
// toolchain embeds:
//
//	go build -ldflags "-X github.com/kbukum/foundation/version.Version=1.2.0"
package version
