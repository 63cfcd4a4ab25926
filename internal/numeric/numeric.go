package numeric

import "math"

// Sinc returns sin(x)/x with Sinc(0) = 1.
func Sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	return math.Sin(x) / x
}

// Simpson integrates n uniformly spaced samples f(0)..f(n-1) with spacing dx
// using the composite Simpson rule.
//
// n must be odd (an even number of intervals); Simpson panics otherwise.
func Simpson(f func(i int) float64, n int, dx float64) float64 {
	if n < 3 || n%2 == 0 {
		panic("numeric: Simpson requires an odd sample count >= 3")
	}

	sum := f(0) + f(n-1)
	for i := 1; i < n-1; i++ {
		if i%2 == 1 {
			sum += 4 * f(i)
		} else {
			sum += 2 * f(i)
		}
	}

	return sum * dx / 3
}

// SimpsonSlice integrates the samples in ys with spacing dx.
func SimpsonSlice(ys []float64, dx float64) float64 {
	return Simpson(func(i int) float64 { return ys[i] }, len(ys), dx)
}

// NextDown returns the largest float64 strictly less than x in magnitude,
// stepping toward zero.
func NextDown(x float64) float64 {
	return math.Nextafter(x, 0)
}

// KahanSum is a compensated running sum.
// The zero value is ready to use. Not safe for concurrent use.
type KahanSum struct {
	sum          float64
	compensation float64
}

// Add adds v to the running sum.
func (k *KahanSum) Add(v float64) {
	y := v - k.compensation
	t := k.sum + y
	k.compensation = (t - k.sum) - y
	k.sum = t
}

// Sum returns the current sum.
func (k *KahanSum) Sum() float64 {
	return k.sum
}

// Reset clears the sum.
func (k *KahanSum) Reset() {
	k.sum = 0
	k.compensation = 0
}
