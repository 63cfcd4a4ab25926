package skfactor

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// prommetrics package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordAccumulate is called after each Accumulate.
	// points is the frame's particle count, err is nil if successful.
	RecordAccumulate(mode Mode, points int, duration time.Duration, err error)

	// RecordReduce is called after each Reduce that did work.
	RecordReduce(mode Mode, frames uint64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAccumulate(Mode, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordReduce(Mode, uint64, time.Duration, error)  {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	FrameCount        atomic.Int64
	FrameErrors       atomic.Int64
	PointsTotal       atomic.Int64
	AccumulateNanos   atomic.Int64
	ReduceCount       atomic.Int64
	ReduceErrors      atomic.Int64
	ReduceTotalNanos  atomic.Int64
	LastReducedFrames atomic.Uint64
}

// RecordAccumulate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAccumulate(_ Mode, points int, duration time.Duration, err error) {
	if err != nil {
		b.FrameErrors.Add(1)
		return
	}
	b.FrameCount.Add(1)
	b.PointsTotal.Add(int64(points))
	b.AccumulateNanos.Add(duration.Nanoseconds())
}

// RecordReduce implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReduce(_ Mode, frames uint64, duration time.Duration, err error) {
	b.ReduceCount.Add(1)
	b.ReduceTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ReduceErrors.Add(1)
		return
	}
	b.LastReducedFrames.Store(frames)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	frames := b.FrameCount.Load()
	var avg int64
	if frames > 0 {
		avg = b.AccumulateNanos.Load() / frames
	}
	return BasicMetricsStats{
		FrameCount:          frames,
		FrameErrors:         b.FrameErrors.Load(),
		PointsTotal:         b.PointsTotal.Load(),
		AccumulateAvgNanos:  avg,
		ReduceCount:         b.ReduceCount.Load(),
		ReduceErrors:        b.ReduceErrors.Load(),
		LastReducedFrames:   b.LastReducedFrames.Load(),
		ReduceTotalDuration: time.Duration(b.ReduceTotalNanos.Load()),
	}
}

// BasicMetricsStats is a point-in-time copy of BasicMetricsCollector.
type BasicMetricsStats struct {
	FrameCount          int64
	FrameErrors         int64
	PointsTotal         int64
	AccumulateAvgNanos  int64
	ReduceCount         int64
	ReduceErrors        int64
	LastReducedFrames   uint64
	ReduceTotalDuration time.Duration
}
