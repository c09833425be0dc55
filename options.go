package edgelimit

import "github.com/rs/zerolog"

// Option configures a Limiter at construction time.
type Option func(*Limiter)

// WithLogger attaches a zerolog logger. Verdicts are logged at debug level,
// decode fallbacks at warn. The default logger discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(l *Limiter) {
		l.log = log
	}
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(l *Limiter) {
		l.metrics = m
	}
}
