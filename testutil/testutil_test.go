package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/skfactor/box"
)

func TestIdealGas(t *testing.T) {
	rng := NewRNG(4711)
	b, err := box.New3D(4, 6, 8)
	require.NoError(t, err)

	points := rng.IdealGas(b, 100)
	require.Len(t, points, 100)
	for _, p := range points {
		assert.GreaterOrEqual(t, p[0], -2.0)
		assert.Less(t, p[0], 2.0)
		assert.GreaterOrEqual(t, p[2], -4.0)
		assert.Less(t, p[2], 4.0)
	}
}

func TestIdealGas_2D(t *testing.T) {
	rng := NewRNG(1)
	b, err := box.New2D(5, 5)
	require.NoError(t, err)

	for _, p := range rng.IdealGas(b, 20) {
		assert.Zero(t, p[2])
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(7)
	first := rng.Float64()
	rng.Reset()
	assert.Equal(t, first, rng.Float64())
	assert.Equal(t, int64(7), rng.Seed())
}

func TestLattices(t *testing.T) {
	sc, b := SimpleCubic(3, 2)
	assert.Len(t, sc, 27)
	assert.Equal(t, box.Vec3{6, 6, 6}, b.L())

	fcc, b := FCC(2, 1.5)
	assert.Len(t, fcc, 32)
	assert.InDelta(t, 27.0, b.Volume(), 1e-12)

	// Nearest neighbor distance of fcc is a/sqrt(2).
	assert.InDelta(t, 1.5/1.4142135623730951, b.Distance(fcc[0], fcc[1]), 1e-12)
}

func TestJitter(t *testing.T) {
	points, _ := SimpleCubic(2, 1)
	orig := append([]box.Vec3(nil), points...)

	NewRNG(3).Jitter(points, 0.1)
	assert.NotEqual(t, orig, points)
}
