package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/fusekit/logger"
)

// InitMeter installs a global meter provider exporting to cfg.Endpoint over
// OTLP HTTP. The provider must be shut down on exit.
func InitMeter(ctx context.Context, cfg *TelemetryConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.MetricInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricInterval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.MetricInterval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metric instrument names.
const (
	MetricElementsPushed  = "stream.elements.pushed"
	MetricElementsEmitted = "stream.elements.emitted"
	MetricPulls           = "stream.pulls"
	MetricStageFailures   = "stream.stage.failures"
	MetricRunDuration     = "stream.run.duration"
)

// Metrics holds the instruments recorded by the stream interpreter and
// pipeline runs.
type Metrics struct {
	pushed        metric.Int64Counter
	emitted       metric.Int64Counter
	pulls         metric.Int64Counter
	stageFailures metric.Int64Counter
	runDuration   metric.Float64Histogram
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	pushed, err := meter.Int64Counter(MetricElementsPushed,
		metric.WithDescription("Elements delivered into a stage"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricElementsPushed, err)
	}

	emitted, err := meter.Int64Counter(MetricElementsEmitted,
		metric.WithDescription("Elements emitted downstream by a stage"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricElementsEmitted, err)
	}

	pulls, err := meter.Int64Counter(MetricPulls,
		metric.WithDescription("Upstream pulls issued by a stage"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricPulls, err)
	}

	stageFailures, err := meter.Int64Counter(MetricStageFailures,
		metric.WithDescription("Stage failures by stage and error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricStageFailures, err)
	}

	runDuration, err := meter.Float64Histogram(MetricRunDuration,
		metric.WithDescription("Duration of pipeline runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricRunDuration, err)
	}

	return &Metrics{
		pushed:        pushed,
		emitted:       emitted,
		pulls:         pulls,
		stageFailures: stageFailures,
		runDuration:   runDuration,
	}, nil
}

// RecordPush counts an element delivered into stage.
func (m *Metrics) RecordPush(ctx context.Context, pipeline, stage string) {
	m.pushed.Add(ctx, 1, stageAttrs(pipeline, stage))
}

// RecordEmit counts an element emitted by stage.
func (m *Metrics) RecordEmit(ctx context.Context, pipeline, stage string) {
	m.emitted.Add(ctx, 1, stageAttrs(pipeline, stage))
}

// RecordPull counts an upstream pull issued by stage.
func (m *Metrics) RecordPull(ctx context.Context, pipeline, stage string) {
	m.pulls.Add(ctx, 1, stageAttrs(pipeline, stage))
}

// RecordStageFailure records a failure raised by stage.
func (m *Metrics) RecordStageFailure(ctx context.Context, pipeline, stage, code string) {
	m.stageFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrPipeline, pipeline),
		attribute.String(AttrStage, stage),
		attribute.String(AttrErrorCode, code),
	))
}

// RecordRun records a finished pipeline run.
func (m *Metrics) RecordRun(ctx context.Context, pipeline, status string, duration time.Duration) {
	m.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(AttrPipeline, pipeline),
		attribute.String(AttrStatus, status),
	))
}

func stageAttrs(pipeline, stage string) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String(AttrPipeline, pipeline),
		attribute.String(AttrStage, stage),
	)
}
