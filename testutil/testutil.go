package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/skfactor/box"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// IdealGas returns n points uniformly distributed in b.
// Coordinates are centered on the origin; 2D boxes get z = 0.
func (r *RNG) IdealGas(b box.Box, n int) []box.Vec3 {
	r.mu.Lock()
	defer r.mu.Unlock()

	points := make([]box.Vec3, n)
	for i := range points {
		f := box.Vec3{r.rand.Float64() - 0.5, r.rand.Float64() - 0.5, 0}
		if !b.Is2D() {
			f[2] = r.rand.Float64() - 0.5
		}
		points[i] = b.Absolute(f)
	}
	return points
}

// Jitter displaces every point by a gaussian with standard deviation sigma
// per coordinate. z is left untouched when only two coordinates are used.
func (r *RNG) Jitter(points []box.Vec3, sigma float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range points {
		for d := range 3 {
			points[i][d] += sigma * r.rand.NormFloat64()
		}
	}
}

// SimpleCubic returns a cells^3 simple cubic lattice with spacing a and the
// cubic box that holds it periodically.
func SimpleCubic(cells int, a float64) ([]box.Vec3, box.Box) {
	return lattice(cells, a, []box.Vec3{{0, 0, 0}})
}

// FCC returns a cells^3 face-centered cubic lattice with cube edge a
// (4 points per cell) and its periodic box.
func FCC(cells int, a float64) ([]box.Vec3, box.Box) {
	return lattice(cells, a, []box.Vec3{
		{0, 0, 0},
		{0.5, 0.5, 0},
		{0.5, 0, 0.5},
		{0, 0.5, 0.5},
	})
}

func lattice(cells int, a float64, basis []box.Vec3) ([]box.Vec3, box.Box) {
	l := float64(cells) * a
	b, err := box.Cube(l)
	if err != nil {
		panic(err)
	}

	points := make([]box.Vec3, 0, cells*cells*cells*len(basis))
	for i := range cells {
		for j := range cells {
			for k := range cells {
				for _, p := range basis {
					points = append(points, box.Vec3{
						(float64(i)+p[0])*a - l/2,
						(float64(j)+p[1])*a - l/2,
						(float64(k)+p[2])*a - l/2,
					})
				}
			}
		}
	}
	return points, b
}
