// Package pool recycles the scratch buffers of per-frame estimators.
package pool

import "sync"

// MaxRetained is the largest buffer, in elements, returned to the pool.
// Larger buffers are left to the garbage collector.
const MaxRetained = 1 << 24

var float64s = sync.Pool{
	New: func() any {
		s := make([]float64, 0, 1024)
		return &s
	},
}

// GetFloat64s returns a buffer of length n. Its contents are undefined.
func GetFloat64s(n int) *[]float64 {
	p := float64s.Get().(*[]float64)
	if cap(*p) < n {
		*p = make([]float64, n)
	}
	*p = (*p)[:n]
	return p
}

// PutFloat64s returns a buffer obtained from GetFloat64s.
func PutFloat64s(p *[]float64) {
	if p == nil || cap(*p) > MaxRetained {
		return
	}
	*p = (*p)[:0]
	float64s.Put(p)
}
