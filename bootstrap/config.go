package bootstrap

import (
	"fmt"
	"time"

	"github.com/kbukum/foundation/config"
	"github.com/kbukum/foundation/server"
	"github.com/kbukum/foundation/validation"
)

// Config is the application configuration: provider settings plus the
// diagnostics server and telemetry export.
//
//	name: foundation
//	app_id: orders
//	server:
//	  enabled: true
//	  port: 8070
//	observability:
//	  enabled: true
//	  endpoint: otel-collector:4318
type Config struct {
	config.Settings `yaml:",inline" mapstructure:",squash"`
	Version         string              `yaml:"version" mapstructure:"version"`
	Server          server.Config       `yaml:"server" mapstructure:"server"`
	Observability   ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
}

// ObservabilityConfig controls OTLP export of traces and metrics.
type ObservabilityConfig struct {
	Enabled    bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string        `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	Insecure   bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64       `yaml:"sample_rate" mapstructure:"sample_rate" validate:"min=0,max=1"`
	Interval   time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ApplyDefaults fills unset values.
func (c *Config) ApplyDefaults() {
	c.Settings.ApplyDefaults()
	if c.Version == "" {
		c.Version = "dev"
	}
	c.Server.ApplyDefaults()
	if c.Observability.Endpoint == "" {
		c.Observability.Endpoint = "localhost:4318"
	}
	if c.Observability.SampleRate == 0 {
		c.Observability.SampleRate = 1.0
	}
	if c.Observability.Interval == 0 {
		c.Observability.Interval = 15 * time.Second
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Settings.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("config.server: %w", err)
	}
	if err := validation.Validate(&c.Observability); err != nil {
		return fmt.Errorf("config.observability: %w", err)
	}
	return nil
}

// LoadConfig loads, defaults and validates the configuration for service.
func LoadConfig(service string, opts ...config.LoaderOption) (*Config, error) {
	cfg := &Config{}
	cfg.Name = service
	if err := config.LoadConfig(service, cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = service
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
