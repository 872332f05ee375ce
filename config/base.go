package config

import "github.com/kbukum/fusekit/validation"

// Environments accepted by BaseConfig.
var Environments = []string{"development", "staging", "production"}

// BaseConfig identifies the application running the pipelines.
type BaseConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Version     string `yaml:"version" mapstructure:"version"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`
}

// ApplyDefaults applies default values to base configuration.
func (c *BaseConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
}

// Validate validates base configuration.
func (c *BaseConfig) Validate() error {
	return validation.New().
		Required("base.name", c.Name).
		Custom(c.Environment != "", "base.environment", "is required").
		OneOf("base.environment", c.Environment, Environments).
		Validate()
}
