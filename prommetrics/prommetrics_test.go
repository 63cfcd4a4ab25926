package prommetrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/skfactor"
	"github.com/hupe1980/skfactor/box"
)

func TestCollector_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg, "skf")
	require.NoError(t, err)

	c.RecordAccumulate(skfactor.ModeDirect, 10, time.Millisecond, nil)
	c.RecordAccumulate(skfactor.ModeDirect, 10, time.Millisecond, nil)
	c.RecordAccumulate(skfactor.ModeDirect, 5, time.Millisecond, errors.New("boom"))
	c.RecordReduce(skfactor.ModeDirect, 2, time.Millisecond, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.frames.WithLabelValues("direct", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.frames.WithLabelValues("direct", "error")))
	assert.Equal(t, 20.0, testutil.ToFloat64(c.points.WithLabelValues("direct")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.reduced.WithLabelValues("direct")))
	assert.Equal(t, 3, testutil.CollectAndCount(c.latency))
}

func TestCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg, "skf")
	require.NoError(t, err)

	_, err = New(reg, "skf")
	assert.Error(t, err)
}

func TestCollector_WithEngine(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg, "skf")
	require.NoError(t, err)

	sf, err := skfactor.New(8, 8, 0, skfactor.ModeDirect, skfactor.WithMetricsCollector(c), skfactor.WithWorkers(2))
	require.NoError(t, err)
	defer sf.Close()

	b, err := box.Cube(10)
	require.NoError(t, err)
	require.NoError(t, sf.Accumulate(context.Background(), b, []box.Vec3{{0, 0, 0}, {1, 0, 0}}))
	require.NoError(t, sf.Reduce())

	assert.Equal(t, 1.0, testutil.ToFloat64(c.frames.WithLabelValues("direct", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.reduced.WithLabelValues("direct")))
}
