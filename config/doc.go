// Package config loads foundation settings.
//
// Settings come from a config.yml found in the standard locations, an
// optional .env file, and the process environment, merged with Viper.
// Environment variables override file values; they are matched against
// nested keys by splitting on underscores (APP_ID -> app_id, app.id).
//
// # Usage
//
//	settings, err := config.LoadSettings("my-service")
//
// A minimal config.yml:
//
//	app_properties_file: ./META-INF/app.properties
//	server_properties_file: /opt/settings/server.properties
//	logging:
//	  level: info
//	  format: json
package config
