package box

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		build   func() (Box, error)
		wantErr bool
	}{
		{"Cube", func() (Box, error) { return Cube(5) }, false},
		{"2D ignores Lz", func() (Box, error) { return New(2, 3, -1, 0, 0, 0, true) }, false},
		{"Zero Lx", func() (Box, error) { return New3D(0, 1, 1) }, true},
		{"Negative Ly", func() (Box, error) { return New2D(1, -1) }, true},
		{"Zero Lz in 3D", func() (Box, error) { return New3D(1, 1, 0) }, true},
		{"NaN", func() (Box, error) { return New3D(math.NaN(), 1, 1) }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.build()
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidBox)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestVolumeAndMinLength(t *testing.T) {
	b3, err := New3D(2, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, 24.0, b3.Volume())
	assert.Equal(t, 2.0, b3.MinLength())
	assert.False(t, b3.Is2D())

	b2, err := New2D(5, 3)
	require.NoError(t, err)
	assert.Equal(t, 15.0, b2.Volume())
	assert.Equal(t, 3.0, b2.MinLength())
	assert.True(t, b2.Is2D())
	assert.Equal(t, Vec3{5, 3, 0}, b2.L())
}

func TestDistanceMinimumImage(t *testing.T) {
	b, err := Cube(10)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, b.Distance(Vec3{0, 0, 0}, Vec3{9, 0, 0}), 1e-12)
	assert.InDelta(t, math.Sqrt(3), b.Distance(Vec3{-4.5, -4.5, -4.5}, Vec3{4.5, 4.5, 4.5}), 1e-12)
	assert.InDelta(t, 3.0, b.Distance(Vec3{1, 1, 1}, Vec3{1, 4, 1}), 1e-12)
	assert.Equal(t, 0.0, b.Distance(Vec3{1, 2, 3}, Vec3{1, 2, 3}))
}

func TestDistance2DIgnoresZ(t *testing.T) {
	b, err := New2D(4, 4)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, b.Distance(Vec3{0, 0, 0}, Vec3{3, 0, 0}), 1e-12)
}

func TestFractionalRoundTrip(t *testing.T) {
	b, err := New(3, 4, 5, 0.2, -0.1, 0.3, false)
	require.NoError(t, err)

	v := Vec3{1.25, -0.5, 2}
	got := b.Absolute(b.Fractional(v))
	for i := range v {
		assert.InDelta(t, v[i], got[i], 1e-12)
	}
}

func TestAllDistances(t *testing.T) {
	b, err := Cube(10)
	require.NoError(t, err)

	pts := []Vec3{{0, 0, 0}, {1, 0, 0}, {9, 0, 0}}
	out := make([]float64, len(pts)*len(pts))
	require.NoError(t, b.AllDistances(context.Background(), pts, pts, out))

	want := []float64{
		0, 1, 1,
		1, 0, 2,
		1, 2, 0,
	}
	for i := range want {
		assert.InDelta(t, want[i], out[i], 1e-12, "index %d", i)
	}

	err = b.AllDistances(context.Background(), pts, pts, make([]float64, 3))
	require.Error(t, err)
}

func TestAllDistancesCanceled(t *testing.T) {
	b, err := Cube(10)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pts := make([]Vec3, 64)
	err = b.AllDistances(ctx, pts, pts, make([]float64, 64*64))
	assert.ErrorIs(t, err, context.Canceled)
}
