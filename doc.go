// Package skfactor accumulates the static structure factor S(k) of particle
// configurations over many frames.
//
// S(k) describes how density fluctuations of a system scatter at wave number
// k. For an isotropic system it is estimated either directly from all point
// pairs (Debye scattering) or from the Fourier transform of the radial
// distribution function g(r).
//
// # Quick Start
//
//	sf, _ := skfactor.New(200, 20, 0, skfactor.ModeDirect)
//	defer sf.Close()
//
//	b, _ := box.Cube(10)
//	for _, frame := range frames {
//	    _ = sf.Accumulate(ctx, b, frame)
//	}
//	s := sf.Values()        // S(k) averaged over frames
//	k := sf.BinCenters()    // k at the middle of every bin
//
// # Estimators
//
// ModeDirect computes
//
//	S(k) = 1/N * sum_i sum_j sinc(k * r_ij)
//
// over all pairs including i == j, using minimum-image distances. It costs
// O(bins * N^2) per frame and holds the N x N distance matrix in memory.
//
// ModeRDF computes g(r) with RDFBins bins up to just below half the smallest
// box length and integrates
//
//	S(k) = 1 + 4*pi*N/V * integral r^2 (g(r) - 1) sinc(k*r) dr
//
// with Simpson's rule. The cutoff limits the resolvable wave numbers:
// MinValidK reports 2*pi/r_max of the smallest box seen, and ValidMask marks
// the bins at or above it. Use WithRDFProvider to supply g(r) from another
// source.
//
// # Lifecycle
//
// An engine starts empty. Accumulate (or Compute) adds frames, Reduce merges
// the per-worker histograms and normalizes the average. Accessors reduce on
// read, so calling Reduce explicitly is optional. Reset discards all frames;
// Close releases the worker pool while keeping results readable.
//
// # Observability
//
// WithLogger attaches structured logging (log/slog), WithMetricsCollector
// records frame and reduce timings; see package prommetrics for a Prometheus
// collector. WithResourceController bounds the memory of direct-mode distance
// matrices and the number of frames in flight across engines.
//
// # Persistence
//
// Snapshot returns a snapshot.Result that package snapshot encodes, compresses
// and writes to any blobstore.BlobStore (local disk, memory, S3 or MinIO).
package skfactor
