package skfactor

import (
	"context"
	"fmt"
	"math"

	"github.com/hupe1980/skfactor/box"
	"github.com/hupe1980/skfactor/density"
	"github.com/hupe1980/skfactor/internal/numeric"
	"github.com/hupe1980/skfactor/locality"
)

// RDFBins is the number of g(r) bins integrated per frame in ModeRDF.
// Simpson's rule needs an even number of intervals, so it must be odd.
const RDFBins = 1001

// Compile-time check: fails to build if RDFBins is even.
const _ uint = RDFBins%2 - 1

// RDFProvider computes g(r) for one frame.
//
// The returned curve must hold bins values whose centers evenly split
// [0, rMax].
type RDFProvider interface {
	ComputeRDF(ctx context.Context, b box.Box, points []box.Vec3, bins int, rMax float64) (density.Curve, error)
}

// RDFProviderFunc adapts a function to RDFProvider.
type RDFProviderFunc func(ctx context.Context, b box.Box, points []box.Vec3, bins int, rMax float64) (density.Curve, error)

// ComputeRDF implements RDFProvider.
func (f RDFProviderFunc) ComputeRDF(ctx context.Context, b box.Box, points []box.Vec3, bins int, rMax float64) (density.Curve, error) {
	return f(ctx, b, points, bins, rMax)
}

func defaultRDFProvider(workers int) RDFProvider {
	return RDFProviderFunc(func(ctx context.Context, b box.Box, points []box.Vec3, bins int, rMax float64) (density.Curve, error) {
		rdf, err := density.New(bins, rMax, 0, density.WithWorkers(workers))
		if err != nil {
			return nil, err
		}
		q := locality.NewBruteForce(b, points)
		if err := rdf.Accumulate(ctx, q, points, locality.Ball(rMax, true)); err != nil {
			return nil, err
		}
		return rdf, nil
	})
}

// accumulateRDF adds 4*pi*n/V * integral r^2 (g(r)-1) sinc(k*r) dr to every
// k bin and returns the r_max used for the frame.
func (s *StaticStructureFactor) accumulateRDF(ctx context.Context, b box.Box, points []box.Vec3) (float64, error) {
	rMax := numeric.NextDown(0.5 * b.MinLength())
	if !(rMax > 0) {
		return 0, fmt.Errorf("%w: %s leaves no positive rdf cutoff", ErrDegenerateBox, b)
	}

	curve, err := s.rdf.ComputeRDF(ctx, b, points, RDFBins, rMax)
	if err != nil {
		return 0, err
	}
	rs, g := curve.BinCenters(), curve.RDF()
	if len(rs) != RDFBins || len(g) != RDFBins {
		return 0, fmt.Errorf("%w: rdf has %d centers and %d values, want %d", ErrInvalidArgument, len(rs), len(g), RDFBins)
	}

	norm := 4 * math.Pi * float64(len(points)) / b.Volume()
	dr := rMax / RDFBins

	err = s.pool.ForRange(ctx, s.axis.Bins(), func(slot, lo, hi int) {
		for ki := lo; ki < hi; ki++ {
			k := s.centers[ki]
			integral := numeric.Simpson(func(i int) float64 {
				r := rs[i]
				return r * r * (g[i] - 1) * numeric.Sinc(k*r)
			}, RDFBins, dr)
			s.frame.Increment(slot, ki, norm*integral)
		}
	})
	if err != nil {
		return 0, err
	}
	return rMax, nil
}
