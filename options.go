package skfactor

import (
	"log/slog"

	"github.com/hupe1980/skfactor/resource"
)

type options struct {
	workers          int
	logger           *Logger
	metricsCollector MetricsCollector
	resources        *resource.Controller
	rdfProvider      RDFProvider
}

// Option configures a StaticStructureFactor.
type Option func(*options)

// WithWorkers sets the number of worker slots used to split the k axis.
//
// Each worker owns a private histogram; memory grows as workers * bins.
// If n <= 0, runtime.GOMAXPROCS(0) is used.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLogger configures structured logging for accumulate and reduce.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := skfactor.NewJSONLogger(slog.LevelInfo)
//	sf, _ := skfactor.New(200, 20, 0, skfactor.ModeDirect, skfactor.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &skfactor.BasicMetricsCollector{}
//	sf, _ := skfactor.New(200, 20, 0, skfactor.ModeRDF, skfactor.WithMetricsCollector(metrics))
//	// ... accumulate frames ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithResourceController shares a resource controller between engines.
//
// The direct estimator reserves its n*n distance matrix against the
// controller's memory limit, and every Accumulate holds one frame slot.
func WithResourceController(c *resource.Controller) Option {
	return func(o *options) {
		o.resources = c
	}
}

// WithRDFProvider replaces the radial distribution function used in ModeRDF.
// If nil is passed, the built-in density.RDF is used.
func WithRDFProvider(p RDFProvider) Option {
	return func(o *options) {
		o.rdfProvider = p
	}
}
