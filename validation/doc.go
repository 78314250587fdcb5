// Package validation validates foundation inputs and settings.
//
// Struct tag validation uses go-playground/validator and reports field names
// by their mapstructure key, so messages match the keys users write in
// config.yml:
//
//	type Settings struct {
//	    AppID string `mapstructure:"app_id" validate:"omitempty,max=128"`
//	}
//	err := validation.Validate(settings)
//
// Programmatic validation collects errors for single values:
//
//	err := validation.New().Required("name", name).MaxLength("name", name, 256).Validate()
package validation
