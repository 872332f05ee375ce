package config

import (
	"github.com/kbukum/fusekit/logger"
	"github.com/kbukum/fusekit/observability"
	"github.com/kbukum/fusekit/stage"
	"github.com/kbukum/fusekit/validation"
)

// Default buffer settings.
const (
	DefaultBufferSize     = 16
	DefaultBufferOverflow = "backpressure"
)

// BufferConfig configures Buffer stages built from configuration.
type BufferConfig struct {
	Size     int    `yaml:"size" mapstructure:"size" validate:"gte=1"`
	Overflow string `yaml:"overflow" mapstructure:"overflow"`
}

// Strategy parses Overflow.
func (c BufferConfig) Strategy() (stage.OverflowStrategy, error) {
	return stage.ParseOverflowStrategy(c.Overflow)
}

// StreamConfig is the configuration of an application running fused
// pipelines.
//
//	base:
//	  name: etl
//	buffer:
//	  size: 64
//	  overflow: drop-head
//	logging:
//	  level: debug
//	telemetry:
//	  enabled: true
//	  endpoint: collector:4318
type StreamConfig struct {
	Base      BaseConfig                    `yaml:"base" mapstructure:"base"`
	Buffer    BufferConfig                  `yaml:"buffer" mapstructure:"buffer"`
	Logging   logger.Config                 `yaml:"logging" mapstructure:"logging"`
	Telemetry observability.TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults fills in every unset field.
func (c *StreamConfig) ApplyDefaults() {
	c.Base.ApplyDefaults()
	if c.Buffer.Size == 0 {
		c.Buffer.Size = DefaultBufferSize
	}
	if c.Buffer.Overflow == "" {
		c.Buffer.Overflow = DefaultBufferOverflow
	}
	c.Logging.ApplyDefaults()
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = c.Base.Name
	}
	if c.Telemetry.ServiceVersion == "" {
		c.Telemetry.ServiceVersion = c.Base.Version
	}
	if c.Telemetry.Environment == "" {
		c.Telemetry.Environment = c.Base.Environment
	}
	c.Telemetry.ApplyDefaults()
}

// Validate checks struct tags first, then the cross-field rules.
func (c *StreamConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Base.Validate(); err != nil {
		return err
	}
	_, err := c.Buffer.Strategy()
	return validation.New().
		Check("buffer.overflow", err).
		Check("logging", c.Logging.Validate()).
		Validate()
}
