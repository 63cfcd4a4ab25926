// Package prommetrics exports structure factor metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	mc, _ := prommetrics.New(reg, "skfactor")
//	sf, _ := skfactor.New(200, 20, 0, skfactor.ModeRDF, skfactor.WithMetricsCollector(mc))
package prommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/skfactor"
)

// Collector implements skfactor.MetricsCollector.
type Collector struct {
	latency *prometheus.HistogramVec
	frames  *prometheus.CounterVec
	points  *prometheus.CounterVec
	reduced *prometheus.GaugeVec
}

var _ skfactor.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg.
// namespace prefixes every metric name.
func New(reg prometheus.Registerer, namespace string) (*Collector, error) {
	c := &Collector{
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of accumulate and reduce calls.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"op", "mode", "status"}),
		frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames passed to Accumulate.",
		}, []string{"mode", "status"}),
		points: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_total",
			Help:      "Points in successfully accumulated frames.",
		}, []string{"mode"}),
		reduced: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reduced_frames",
			Help:      "Frame count covered by the last successful reduce.",
		}, []string{"mode"}),
	}

	for _, m := range []prometheus.Collector{c.latency, c.frames, c.points, c.reduced} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordAccumulate implements skfactor.MetricsCollector.
func (c *Collector) RecordAccumulate(mode skfactor.Mode, points int, d time.Duration, err error) {
	m, s := mode.String(), status(err)
	c.latency.WithLabelValues("accumulate", m, s).Observe(d.Seconds())
	c.frames.WithLabelValues(m, s).Inc()
	if err == nil {
		c.points.WithLabelValues(m).Add(float64(points))
	}
}

// RecordReduce implements skfactor.MetricsCollector.
func (c *Collector) RecordReduce(mode skfactor.Mode, frames uint64, d time.Duration, err error) {
	m, s := mode.String(), status(err)
	c.latency.WithLabelValues("reduce", m, s).Observe(d.Seconds())
	if err == nil {
		c.reduced.WithLabelValues(m).Set(float64(frames))
	}
}
