package histogram

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidAxis is returned when an axis cannot be constructed.
var ErrInvalidAxis = errors.New("invalid axis")

// Axis is an immutable partition of [Min, Max) into Bins equal-width bins.
type Axis struct {
	bins     int
	min, max float64
	width    float64
}

// NewAxis creates a regular axis with bins bins spanning [min, max).
func NewAxis(bins int, min, max float64) (Axis, error) {
	if bins <= 0 {
		return Axis{}, fmt.Errorf("%w: bins must be positive, got %d", ErrInvalidAxis, bins)
	}
	if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return Axis{}, fmt.Errorf("%w: bounds must be finite", ErrInvalidAxis)
	}
	if max <= min {
		return Axis{}, fmt.Errorf("%w: max (%g) must be greater than min (%g)", ErrInvalidAxis, max, min)
	}

	return Axis{
		bins:  bins,
		min:   min,
		max:   max,
		width: (max - min) / float64(bins),
	}, nil
}

// Bins returns the number of bins.
func (a Axis) Bins() int { return a.bins }

// Min returns the lower bound.
func (a Axis) Min() float64 { return a.min }

// Max returns the upper bound.
func (a Axis) Max() float64 { return a.max }

// Width returns the bin width.
func (a Axis) Width() float64 { return a.width }

// Center returns the midpoint of bin i.
func (a Axis) Center(i int) float64 {
	return a.min + (float64(i)+0.5)*a.width
}

// Centers returns the bin midpoints in increasing order.
func (a Axis) Centers() []float64 {
	out := make([]float64, a.bins)
	for i := range out {
		out[i] = a.Center(i)
	}
	return out
}

// Edges returns the Bins+1 bin boundaries. The last edge is exactly Max.
func (a Axis) Edges() []float64 {
	out := make([]float64, a.bins+1)
	for i := 0; i < a.bins; i++ {
		out[i] = a.min + float64(i)*a.width
	}
	out[a.bins] = a.max
	return out
}

// Bin returns the bin containing x. ok is false when x lies outside [Min, Max).
func (a Axis) Bin(x float64) (idx int, ok bool) {
	if !(x >= a.min && x < a.max) {
		return 0, false
	}
	idx = int(math.Floor((x - a.min) / a.width))
	// Rounding can push values just below Max into the overflow bin.
	if idx >= a.bins {
		idx = a.bins - 1
	}
	return idx, true
}
