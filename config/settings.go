package config

import (
	"fmt"
	"runtime"

	"github.com/kbukum/foundation/logger"
	"github.com/kbukum/foundation/validation"
)

// Default locations of the properties files read by the default providers.
const (
	DefaultAppPropertiesFile           = "./META-INF/app.properties"
	DefaultServerPropertiesFile        = "/opt/settings/server.properties"
	DefaultWindowsServerPropertiesFile = "C:/opt/settings/server.properties"
)

// Settings configures the default environment providers.
//
// AppID, Env and DataCenter take precedence over environment variables and
// properties files when set.
type Settings struct {
	Name                 string        `yaml:"name" mapstructure:"name"`
	AppPropertiesFile    string        `yaml:"app_properties_file" mapstructure:"app_properties_file" validate:"required"`
	ServerPropertiesFile string        `yaml:"server_properties_file" mapstructure:"server_properties_file" validate:"required"`
	AppID                string        `yaml:"app_id" mapstructure:"app_id" validate:"omitempty,max=128,printascii"`
	Env                  string        `yaml:"env" mapstructure:"env" validate:"omitempty,max=64,printascii"`
	DataCenter           string        `yaml:"idc" mapstructure:"idc" validate:"omitempty,max=64,printascii"`
	Logging              logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults fills unset file locations and logging defaults.
func (s *Settings) ApplyDefaults() {
	if s.AppPropertiesFile == "" {
		s.AppPropertiesFile = DefaultAppPropertiesFile
	}
	if s.ServerPropertiesFile == "" {
		s.ServerPropertiesFile = serverPropertiesFileFor(runtime.GOOS)
	}
	if s.Logging.ServiceName == "" && s.Name != "" {
		s.Logging.ServiceName = s.Name
	}
	s.Logging.ApplyDefaults()
}

// Validate checks field constraints and the logging configuration.
func (s *Settings) Validate() error {
	if err := validation.Validate(s); err != nil {
		return err
	}
	if err := s.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}

// LoadSettings loads, defaults and validates Settings for a service.
func LoadSettings(serviceName string, opts ...LoaderOption) (*Settings, error) {
	s := &Settings{Name: serviceName}
	if err := LoadConfig(serviceName, s, opts...); err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = serviceName
	}
	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func serverPropertiesFileFor(goos string) string {
	if goos == "windows" {
		return DefaultWindowsServerPropertiesFile
	}
	return DefaultServerPropertiesFile
}
