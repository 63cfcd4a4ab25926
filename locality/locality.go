package locality

import (
	"errors"
	"fmt"
	"iter"

	"github.com/hupe1980/skfactor/box"
)

// ErrInvalidQuery is returned for unusable query arguments.
var ErrInvalidQuery = errors.New("invalid query arguments")

// Mode selects the neighbor criterion.
type Mode int

const (
	// ModeBall finds all points with RMin <= r < RMax.
	ModeBall Mode = iota
)

func (m Mode) String() string {
	switch m {
	case ModeBall:
		return "ball"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// QueryArgs configures a neighbor query.
type QueryArgs struct {
	Mode Mode
	RMax float64
	RMin float64
	// ExcludeII skips bonds between query point i and point i.
	// Use it when the query points are the reference points.
	ExcludeII bool
}

// Ball returns ball query arguments with radius rMax.
func Ball(rMax float64, excludeII bool) QueryArgs {
	return QueryArgs{Mode: ModeBall, RMax: rMax, ExcludeII: excludeII}
}

// Validate checks the arguments.
func (a QueryArgs) Validate() error {
	if a.Mode != ModeBall {
		return fmt.Errorf("%w: unsupported mode %v", ErrInvalidQuery, a.Mode)
	}
	if !(a.RMax > 0) {
		return fmt.Errorf("%w: r_max must be positive, got %g", ErrInvalidQuery, a.RMax)
	}
	if a.RMin < 0 || a.RMin >= a.RMax {
		return fmt.Errorf("%w: r_min must be in [0, r_max), got %g", ErrInvalidQuery, a.RMin)
	}
	return nil
}

// Bond is one neighbor pair.
type Bond struct {
	QueryIndex int
	PointIndex int
	Distance   float64
}

// Query is a spatial index over a fixed set of points.
type Query interface {
	// Box returns the periodic box of the points.
	Box() box.Box
	// Points returns the reference points. The slice must not be modified.
	Points() []box.Vec3
	// Query prepares a neighbor search for queryPoints.
	Query(queryPoints []box.Vec3, args QueryArgs) (*Result, error)
}

// BruteForce tests all pairs.
type BruteForce struct {
	box    box.Box
	points []box.Vec3
}

var _ Query = (*BruteForce)(nil)

// NewBruteForce creates a brute-force query over points.
func NewBruteForce(b box.Box, points []box.Vec3) *BruteForce {
	return &BruteForce{box: b, points: points}
}

// Box implements Query.
func (q *BruteForce) Box() box.Box { return q.box }

// Points implements Query.
func (q *BruteForce) Points() []box.Vec3 { return q.points }

// Query implements Query.
func (q *BruteForce) Query(queryPoints []box.Vec3, args QueryArgs) (*Result, error) {
	if err := args.Validate(); err != nil {
		return nil, err
	}
	return &Result{q: q, queryPoints: queryPoints, args: args}, nil
}

// Result is a lazily evaluated neighbor search.
type Result struct {
	q           *BruteForce
	queryPoints []box.Vec3
	args        QueryArgs
}

// Len returns the number of query points.
func (r *Result) Len() int { return len(r.queryPoints) }

// Args returns the query arguments.
func (r *Result) Args() QueryArgs { return r.args }

// All yields the bonds of every query point.
func (r *Result) All() iter.Seq[Bond] {
	return r.Range(0, len(r.queryPoints))
}

// Range yields the bonds of query points lo..hi-1 in query order.
// Ranges over disjoint intervals may be consumed concurrently.
func (r *Result) Range(lo, hi int) iter.Seq[Bond] {
	return func(yield func(Bond) bool) {
		b := r.q.box
		for i := lo; i < hi; i++ {
			qp := r.queryPoints[i]
			for j, p := range r.q.points {
				if r.args.ExcludeII && i == j {
					continue
				}
				d := b.Distance(qp, p)
				if d < r.args.RMin || d >= r.args.RMax {
					continue
				}
				if !yield(Bond{QueryIndex: i, PointIndex: j, Distance: d}) {
					return
				}
			}
		}
	}
}

// Collect materializes all bonds.
func (r *Result) Collect() []Bond {
	var out []Bond
	for bond := range r.All() {
		out = append(out, bond)
	}
	return out
}
