package interpreter

import (
	"context"

	"github.com/google/uuid"

	"github.com/kbukum/fusekit/logger"
	"github.com/kbukum/fusekit/observability"
)

// Settings is the resolved form of a set of Options.
type Settings struct {
	Name    string
	RunID   string
	Logger  *logger.Logger
	Metrics *observability.Metrics
	Context context.Context
}

// Option configures an Interpreter.
type Option func(*Settings)

// NewSettings applies opts over the defaults: name "pipeline", a fresh
// run id, the global logger and no metrics.
func NewSettings(opts ...Option) Settings {
	s := Settings{
		Name:    "pipeline",
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.RunID == "" {
		s.RunID = uuid.NewString()
	}
	if s.Logger == nil {
		s.Logger = logger.GetGlobalLogger()
	}
	return s
}

// WithLogger sets the logger. Defaults to the global logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Settings) { s.Logger = l }
}

// WithMetrics records element, pull and failure counts on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Settings) { s.Metrics = m }
}

// WithName names the chain in logs and metrics.
func WithName(name string) Option {
	return func(s *Settings) {
		if name != "" {
			s.Name = name
		}
	}
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(s *Settings) { s.RunID = id }
}

// WithContext sets the context used for metric recording.
func WithContext(ctx context.Context) Option {
	return func(s *Settings) {
		if ctx != nil {
			s.Context = ctx
		}
	}
}
