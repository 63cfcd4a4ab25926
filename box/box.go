package box

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ErrInvalidBox is returned when box parameters are not usable.
var ErrInvalidBox = errors.New("invalid box")

// Vec3 is a position or displacement in three dimensions.
type Vec3 [3]float64

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Box is an immutable periodic box.
type Box struct {
	l          Vec3
	xy, xz, yz float64
	is2D       bool
}

// New creates a box with edge lengths lx, ly, lz and tilt factors xy, xz, yz.
// For 2D boxes lz, xz and yz are ignored.
func New(lx, ly, lz, xy, xz, yz float64, is2D bool) (Box, error) {
	if is2D {
		lz, xz, yz = 0, 0, 0
	}
	for _, v := range []float64{lx, ly, lz, xy, xz, yz} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Box{}, fmt.Errorf("%w: parameters must be finite", ErrInvalidBox)
		}
	}
	if lx <= 0 || ly <= 0 {
		return Box{}, fmt.Errorf("%w: Lx and Ly must be positive (got %g, %g)", ErrInvalidBox, lx, ly)
	}
	if !is2D && lz <= 0 {
		return Box{}, fmt.Errorf("%w: Lz must be positive for a 3D box (got %g)", ErrInvalidBox, lz)
	}

	return Box{
		l:    Vec3{lx, ly, lz},
		xy:   xy,
		xz:   xz,
		yz:   yz,
		is2D: is2D,
	}, nil
}

// New3D creates an orthorhombic 3D box.
func New3D(lx, ly, lz float64) (Box, error) {
	return New(lx, ly, lz, 0, 0, 0, false)
}

// New2D creates a rectangular 2D box.
func New2D(lx, ly float64) (Box, error) {
	return New(lx, ly, 0, 0, 0, 0, true)
}

// Cube creates a cubic 3D box with side l.
func Cube(l float64) (Box, error) {
	return New3D(l, l, l)
}

// L returns the edge lengths. Lz is 0 for 2D boxes.
func (b Box) L() Vec3 { return b.l }

// Tilt returns the tilt factors xy, xz, yz.
func (b Box) Tilt() (xy, xz, yz float64) { return b.xy, b.xz, b.yz }

// Is2D reports whether the box is two-dimensional.
func (b Box) Is2D() bool { return b.is2D }

// Volume returns the box volume (area for 2D boxes).
func (b Box) Volume() float64 {
	if b.is2D {
		return b.l[0] * b.l[1]
	}
	return b.l[0] * b.l[1] * b.l[2]
}

// MinLength returns the smallest edge length in the periodic dimensions.
func (b Box) MinLength() float64 {
	m := math.Min(b.l[0], b.l[1])
	if !b.is2D {
		m = math.Min(m, b.l[2])
	}
	return m
}

// Fractional converts a displacement to fractional coordinates.
func (b Box) Fractional(v Vec3) Vec3 {
	var fz float64
	if !b.is2D {
		fz = v[2] / b.l[2]
	}
	fy := (v[1] - b.yz*b.l[2]*fz) / b.l[1]
	fx := (v[0] - b.xy*b.l[1]*fy - b.xz*b.l[2]*fz) / b.l[0]
	return Vec3{fx, fy, fz}
}

// Absolute converts fractional coordinates to a displacement.
func (b Box) Absolute(f Vec3) Vec3 {
	if b.is2D {
		return Vec3{b.l[0]*f[0] + b.xy*b.l[1]*f[1], b.l[1] * f[1], 0}
	}
	return Vec3{
		b.l[0]*f[0] + b.xy*b.l[1]*f[1] + b.xz*b.l[2]*f[2],
		b.l[1]*f[1] + b.yz*b.l[2]*f[2],
		b.l[2] * f[2],
	}
}

// Wrap maps a displacement to its minimum image.
func (b Box) Wrap(v Vec3) Vec3 {
	f := b.Fractional(v)
	f[0] -= math.Round(f[0])
	f[1] -= math.Round(f[1])
	if !b.is2D {
		f[2] -= math.Round(f[2])
	}
	return b.Absolute(f)
}

// Distance returns the minimum-image distance between a and c.
func (b Box) Distance(a, c Vec3) float64 {
	return b.Wrap(c.Sub(a)).Norm()
}

// AllDistances writes the minimum-image distance between every a[i] and c[j]
// into out[i*len(c)+j]. out must hold len(a)*len(c) values.
//
// Rows are computed concurrently.
func (b Box) AllDistances(ctx context.Context, a, c []Vec3, out []float64) error {
	if len(out) != len(a)*len(c) {
		return fmt.Errorf("distance buffer holds %d values, want %d", len(out), len(a)*len(c))
	}
	if len(a) == 0 || len(c) == 0 {
		return nil
	}

	workers := runtime.GOMAXPROCS(0)
	rows := (len(a) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for lo := 0; lo < len(a); lo += rows {
		hi := min(lo+rows, len(a))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				row := out[i*len(c) : (i+1)*len(c)]
				for j := range c {
					row[j] = b.Distance(a[i], c[j])
				}
			}
			return nil
		})
	}

	return g.Wait()
}

// String implements fmt.Stringer.
func (b Box) String() string {
	if b.is2D {
		return fmt.Sprintf("Box2D(Lx=%g, Ly=%g, xy=%g)", b.l[0], b.l[1], b.xy)
	}
	return fmt.Sprintf("Box3D(Lx=%g, Ly=%g, Lz=%g, xy=%g, xz=%g, yz=%g)", b.l[0], b.l[1], b.l[2], b.xy, b.xz, b.yz)
}
