package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinc(t *testing.T) {
	tests := []struct {
		name     string
		x        float64
		expected float64
	}{
		{"Zero", 0, 1},
		{"Pi", math.Pi, 0},
		{"HalfPi", math.Pi / 2, 2 / math.Pi},
		{"Negative", -math.Pi / 2, 2 / math.Pi},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, Sinc(tc.x), 1e-15)
		})
	}
}

func TestSimpson(t *testing.T) {
	t.Run("Cubic is exact", func(t *testing.T) {
		// Simpson integrates polynomials up to degree 3 exactly.
		const n = 11
		dx := 2.0 / float64(n-1)
		got := Simpson(func(i int) float64 {
			x := float64(i) * dx
			return x*x*x - 2*x + 1
		}, n, dx)
		// ∫0..2 (x³ - 2x + 1) dx = 4 - 4 + 2
		assert.InDelta(t, 2.0, got, 1e-12)
	})

	t.Run("Sine", func(t *testing.T) {
		const n = 1001
		dx := math.Pi / float64(n-1)
		ys := make([]float64, n)
		for i := range ys {
			ys[i] = math.Sin(float64(i) * dx)
		}
		assert.InDelta(t, 2.0, SimpsonSlice(ys, dx), 1e-10)
	})

	t.Run("Zero integrand", func(t *testing.T) {
		assert.Equal(t, 0.0, Simpson(func(int) float64 { return 0 }, 1001, 0.01))
	})

	t.Run("Even count panics", func(t *testing.T) {
		require.Panics(t, func() {
			Simpson(func(int) float64 { return 1 }, 10, 0.1)
		})
	})
}

func TestNextDown(t *testing.T) {
	x := NextDown(2.5)
	assert.Less(t, x, 2.5)
	assert.Equal(t, 2.5, math.Nextafter(x, math.Inf(1)))
}

func TestKahanSum(t *testing.T) {
	var k KahanSum
	naive := 0.0
	k.Add(1)
	naive += 1
	for i := 0; i < 10_000; i++ {
		k.Add(1e-16)
		naive += 1e-16
	}

	assert.InDelta(t, 1+1e-12, k.Sum(), 1e-15)
	assert.Equal(t, 1.0, naive)

	k.Reset()
	assert.Equal(t, 0.0, k.Sum())
}
