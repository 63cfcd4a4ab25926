package density

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/hupe1980/skfactor/box"
	"github.com/hupe1980/skfactor/internal/histogram"
	"github.com/hupe1980/skfactor/locality"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidArgument is returned for unusable RDF parameters.
	ErrInvalidArgument = errors.New("invalid rdf argument")

	// ErrBoxMismatch is returned when the query radius does not fit the
	// histogram or the box.
	ErrBoxMismatch = errors.New("rdf radius incompatible with box")
)

// Curve is a computed g(r) sampled at bin centers.
type Curve interface {
	BinCenters() []float64
	RDF() []float64
}

// Option configures an RDF.
type Option func(*RDF)

// WithNormalize scales the density by (N-1)/N so that g(r) tends to 1 when
// self pairs are excluded from small systems.
func WithNormalize(normalize bool) Option {
	return func(r *RDF) {
		r.normalize = normalize
	}
}

// WithWorkers sets how many goroutines split the query points.
// Values <= 0 use runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(r *RDF) {
		r.workers = n
	}
}

// RDF accumulates a radial distribution function.
// Not safe for concurrent use.
type RDF struct {
	axis      histogram.Axis
	normalize bool
	workers   int

	local  *histogram.Local
	counts *histogram.Histogram

	frames       int
	nPoints      int
	nQueryPoints int
	lastBox      box.Box

	dirty bool
	g     []float64
	nr    []float64
}

var _ Curve = (*RDF)(nil)

// New creates an RDF with bins bins over [rMin, rMax).
func New(bins int, rMax, rMin float64, opts ...Option) (*RDF, error) {
	if bins <= 0 {
		return nil, fmt.Errorf("%w: bins must be positive, got %d", ErrInvalidArgument, bins)
	}
	if !(rMax > 0) {
		return nil, fmt.Errorf("%w: r_max must be positive, got %g", ErrInvalidArgument, rMax)
	}
	if rMin < 0 || rMax <= rMin {
		return nil, fmt.Errorf("%w: r_min must be in [0, r_max), got %g", ErrInvalidArgument, rMin)
	}

	axis, err := histogram.NewAxis(bins, rMin, rMax)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	r := &RDF{axis: axis}
	for _, opt := range opts {
		opt(r)
	}
	if r.workers <= 0 {
		r.workers = runtime.GOMAXPROCS(0)
	}

	r.local = histogram.NewLocal(axis, r.workers)
	r.counts = histogram.New(axis)
	return r, nil
}

// Accumulate adds the pair distances between queryPoints and the points of q
// that fall inside the histogram range.
func (r *RDF) Accumulate(ctx context.Context, q locality.Query, queryPoints []box.Vec3, args locality.QueryArgs) error {
	b := q.Box()
	if args.RMax > r.axis.Max() {
		args.RMax = r.axis.Max()
	}
	if args.RMin < r.axis.Min() {
		args.RMin = r.axis.Min()
	}
	if r.axis.Max() > 0.5*b.MinLength() {
		return fmt.Errorf("%w: r_max %g exceeds half the smallest box length %g", ErrBoxMismatch, r.axis.Max(), b.MinLength())
	}

	res, err := q.Query(queryPoints, args)
	if err != nil {
		return err
	}

	n := res.Len()
	chunk := (n + r.workers - 1) / r.workers
	if chunk == 0 {
		chunk = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	slot := 0
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		s := slot
		slot++
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row := r.local.Row(s)
			for bond := range res.Range(lo, hi) {
				if bin, ok := r.axis.Bin(bond.Distance); ok {
					row[bin]++
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	r.frames++
	r.nPoints += len(q.Points())
	r.nQueryPoints += n
	r.lastBox = b
	r.dirty = true
	return nil
}

// Reset discards all accumulated frames.
func (r *RDF) Reset() {
	r.local.Reset()
	r.counts.Reset()
	r.frames = 0
	r.nPoints = 0
	r.nQueryPoints = 0
	r.g = nil
	r.nr = nil
	r.dirty = false
}

// FrameCount returns the number of accumulated frames.
func (r *RDF) FrameCount() int { return r.frames }

// BinCenters implements Curve.
func (r *RDF) BinCenters() []float64 { return r.axis.Centers() }

// BinEdges returns the Bins+1 bin boundaries.
func (r *RDF) BinEdges() []float64 { return r.axis.Edges() }

// BinCounts returns the raw pair counts summed over frames.
func (r *RDF) BinCounts() []float64 {
	r.reduce()
	return append([]float64(nil), r.counts.Values()...)
}

// RDF implements Curve. Values are zero before the first frame.
func (r *RDF) RDF() []float64 {
	r.reduce()
	return append([]float64(nil), r.g...)
}

// NR returns the cumulative number of neighbors within each bin's upper edge,
// averaged over query points and frames.
func (r *RDF) NR() []float64 {
	r.reduce()
	return append([]float64(nil), r.nr...)
}

func (r *RDF) reduce() {
	if !r.dirty && r.g != nil {
		return
	}
	bins := r.axis.Bins()
	r.g = make([]float64, bins)
	r.nr = make([]float64, bins)
	if r.frames == 0 {
		return
	}

	r.local.ReduceInto(r.counts)

	avgPoints := float64(r.nPoints) / float64(r.frames)
	avgQuery := float64(r.nQueryPoints) / float64(r.frames)
	rho := avgPoints / r.lastBox.Volume()
	if r.normalize && avgPoints > 1 {
		rho *= (avgPoints - 1) / avgPoints
	}

	edges := r.axis.Edges()
	norm := float64(r.frames) * avgQuery
	var cumulative float64
	for i := 0; i < bins; i++ {
		count := r.counts.At(i)
		shell := shellVolume(edges[i], edges[i+1], r.lastBox.Is2D())
		if ideal := norm * rho * shell; ideal > 0 {
			r.g[i] = count / ideal
		}
		cumulative += count
		r.nr[i] = cumulative / norm
	}
	r.dirty = false
}

func shellVolume(r1, r2 float64, is2D bool) float64 {
	if is2D {
		return math.Pi * (r2*r2 - r1*r1)
	}
	return 4.0 / 3.0 * math.Pi * (r2*r2*r2 - r1*r1*r1)
}
