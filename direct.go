package skfactor

import (
	"context"

	"github.com/hupe1980/skfactor/box"
	"github.com/hupe1980/skfactor/internal/numeric"
	"github.com/hupe1980/skfactor/internal/pool"
)

// accumulateDirect adds (1/n) * sum_ij sinc(k*r_ij) to every k bin.
// Self pairs are included, so a single point yields exactly 1.
func (s *StaticStructureFactor) accumulateDirect(ctx context.Context, b box.Box, points []box.Vec3) error {
	n := len(points)
	size := int64(n) * int64(n) * 8
	if err := s.resources.AcquireMemory(ctx, size); err != nil {
		return err
	}
	defer s.resources.ReleaseMemory(size)

	buf := pool.GetFloat64s(n * n)
	defer pool.PutFloat64s(buf)
	distances := *buf
	if err := b.AllDistances(ctx, points, points, distances); err != nil {
		return err
	}

	inv := 1 / float64(n)
	return s.pool.ForRange(ctx, s.axis.Bins(), func(slot, lo, hi int) {
		var sum numeric.KahanSum
		for ki := lo; ki < hi; ki++ {
			k := s.centers[ki]
			sum.Reset()
			for _, d := range distances {
				sum.Add(numeric.Sinc(k * d))
			}
			s.frame.Increment(slot, ki, sum.Sum()*inv)
		}
	})
}
