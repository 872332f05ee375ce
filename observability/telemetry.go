package observability

import (
	"context"
	"errors"
	"time"
)

// TelemetryConfig configures the OTLP trace and metric exporters.
type TelemetryConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	ServiceName    string        `mapstructure:"service_name"`
	ServiceVersion string        `mapstructure:"service_version"`
	Environment    string        `mapstructure:"environment"`
	Endpoint       string        `mapstructure:"endpoint" validate:"required_if=Enabled true"`
	Insecure       bool          `mapstructure:"insecure"`
	SampleRate     float64       `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	MetricInterval time.Duration `mapstructure:"metric_interval"`
}

// ApplyDefaults fills in development defaults.
func (c *TelemetryConfig) ApplyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "fusekit"
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = "1.0.0"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.MetricInterval == 0 {
		c.MetricInterval = 15 * time.Second
	}
}

// Setup initializes tracing and metrics when cfg.Enabled is set. The
// returned function shuts both providers down; it is a no-op when telemetry
// is disabled.
func Setup(ctx context.Context, cfg *TelemetryConfig) (func(context.Context) error, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	tp, err := InitTracer(ctx, cfg)
	if err != nil {
		return nil, err
	}
	mp, err := InitMeter(ctx, cfg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
