// Package defaults provides the built-in provider manager.
//
// Importing the package registers a "default" factory with the process-wide
// discovery catalog. The manager ranks last, so any other registered plugin
// is preferred over it.
//
// Identity is resolved from three sources, highest precedence first:
//
//  1. explicit settings (config.Settings AppID, Env, DataCenter)
//  2. environment variables (APP_ID, APOLLO_ACCESS_KEY_SECRET, ENV, IDC)
//  3. properties files (app.properties, /opt/settings/server.properties)
//
// Property keys served: app.id, apollo.access-key.secret, env, idc,
// host.address, host.name, plus any other key present in the properties files.
package defaults
