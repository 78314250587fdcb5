// Package discovery enumerates candidate provider managers available in the
// running process.
//
// Plugins register a named Factory with the process-wide catalog from their
// init function, the same way database/sql drivers register themselves:
//
//	func init() {
//	    discovery.MustRegister("consul", newConsulManager)
//	}
//
// Importing the plugin for its side effect makes it a candidate:
//
//	import _ "github.com/kbukum/foundation/defaults"
//
// Candidates are returned in registration order; ranking them is the
// registry's job.
package discovery
