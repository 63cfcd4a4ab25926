// Package testutil generates deterministic particle configurations for tests
// and benchmarks.
//
// This package is intended for use in tests and benchmarks only.
//
//	rng := testutil.NewRNG(42)
//	b, _ := box.Cube(10)
//	gas := rng.IdealGas(b, 500)              // uniform in the box
//	fcc, b := testutil.FCC(4, 1.6)           // 4x4x4 unit cells
//	rng.Jitter(fcc, 0.05)                    // gaussian displacement
package testutil
