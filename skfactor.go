package skfactor

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/skfactor/box"
	"github.com/hupe1980/skfactor/internal/histogram"
	"github.com/hupe1980/skfactor/internal/parallel"
	"github.com/hupe1980/skfactor/resource"
	"github.com/hupe1980/skfactor/snapshot"
)

// Mode selects the estimator used for every frame.
type Mode int

const (
	// ModeDirect sums sinc(k*r) over all point pairs. O(bins * n^2) per frame.
	ModeDirect Mode = iota
	// ModeRDF Fourier transforms g(r) - 1 computed up to half the smallest
	// box length.
	ModeRDF
)

// String returns the lowercase mode name.
func (m Mode) String() string {
	switch m {
	case ModeDirect:
		return "direct"
	case ModeRDF:
		return "rdf"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "direct" or "rdf".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "direct":
		return ModeDirect, nil
	case "rdf":
		return ModeRDF, nil
	default:
		return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidArgument, s)
	}
}

// State is the accumulation state of a StaticStructureFactor.
type State int

const (
	// StateEmpty means no frame has been accumulated since construction or Reset.
	StateEmpty State = iota
	// StateAccumulating means frames were added after the last reduction.
	StateAccumulating
	// StateReduced means Values reflects every accumulated frame.
	StateReduced
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateAccumulating:
		return "accumulating"
	case StateReduced:
		return "reduced"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// StaticStructureFactor accumulates S(k) over frames.
//
// Each worker owns a private histogram row; Reduce sums the rows, normalizes
// the result and caches it until the next Accumulate. All methods are safe for
// concurrent use; calls are serialized internally.
type StaticStructureFactor struct {
	mu sync.Mutex

	mode    Mode
	axis    histogram.Axis
	centers []float64

	pool   *parallel.Pool
	local  *histogram.Local // committed frames
	frame  *histogram.Local // frame in progress
	result *histogram.Histogram

	frames    uint64
	minValidK float64
	state     State
	closed    bool

	logger    *Logger
	metrics   MetricsCollector
	resources *resource.Controller
	rdf       RDFProvider
}

// New creates a StaticStructureFactor with bins bins over [kMin, kMax).
//
// It returns an error matching ErrInvalidArgument if bins <= 0, kMax <= 0,
// kMin < 0 or kMax <= kMin.
func New(bins int, kMax, kMin float64, mode Mode, opts ...Option) (*StaticStructureFactor, error) {
	if bins <= 0 {
		return nil, &ErrInvalidBins{Bins: bins}
	}
	switch {
	case math.IsNaN(kMax) || math.IsNaN(kMin) || math.IsInf(kMax, 0) || math.IsInf(kMin, 0):
		return nil, &ErrInvalidRange{KMin: kMin, KMax: kMax, Reason: "bounds must be finite"}
	case kMax <= 0:
		return nil, &ErrInvalidRange{KMin: kMin, KMax: kMax, Reason: "k_max must be positive"}
	case kMax <= kMin:
		return nil, &ErrInvalidRange{KMin: kMin, KMax: kMax, Reason: "k_max must be greater than k_min"}
	case kMin < 0:
		return nil, &ErrInvalidRange{KMin: kMin, KMax: kMax, Reason: "k_min must not be negative"}
	}
	if mode != ModeDirect && mode != ModeRDF {
		return nil, fmt.Errorf("%w: unknown mode %d", ErrInvalidArgument, int(mode))
	}

	axis, err := histogram.NewAxis(bins, kMin, kMax)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = &NoopMetricsCollector{}
	}

	pool := parallel.NewPool(o.workers)
	if o.rdfProvider == nil {
		o.rdfProvider = defaultRDFProvider(pool.Workers())
	}

	return &StaticStructureFactor{
		mode:      mode,
		axis:      axis,
		centers:   axis.Centers(),
		pool:      pool,
		local:     histogram.NewLocal(axis, pool.Workers()),
		frame:     histogram.NewLocal(axis, pool.Workers()),
		result:    histogram.New(axis),
		minValidK: math.Inf(1),
		logger:    o.logger.WithMode(mode),
		metrics:   o.metricsCollector,
		resources: o.resources,
		rdf:       o.rdfProvider,
	}, nil
}

// Accumulate adds one frame.
//
// points are the query points of the frame; their count is len(points).
// A frame that returns an error, including a canceled context, leaves the
// accumulated results untouched.
func (s *StaticStructureFactor) Accumulate(ctx context.Context, b box.Box, points []box.Vec3) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.accumulateLocked(ctx, b, points)
}

func (s *StaticStructureFactor) accumulateLocked(ctx context.Context, b box.Box, points []box.Vec3) (err error) {
	if s.closed {
		return ErrClosed
	}
	if len(points) == 0 {
		return fmt.Errorf("%w: frame has no points", ErrInvalidArgument)
	}
	if v := b.Volume(); !(v > 0) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s has volume %g", ErrDegenerateBox, b, v)
	}

	frame := s.frames + 1
	start := time.Now()
	defer func() {
		d := time.Since(start)
		s.metrics.RecordAccumulate(s.mode, len(points), d, err)
		s.logger.LogAccumulate(ctx, frame, len(points), d, err)
	}()

	if err := s.resources.AcquireFrame(ctx); err != nil {
		return err
	}
	defer s.resources.ReleaseFrame()

	// Kernels write into s.frame; it is merged only once the frame is complete.
	switch s.mode {
	case ModeDirect:
		if err := s.accumulateDirect(ctx, b, points); err != nil {
			s.frame.Reset()
			return translateError(err)
		}
	case ModeRDF:
		rMax, err := s.accumulateRDF(ctx, b, points)
		if err != nil {
			s.frame.Reset()
			return translateError(err)
		}
		s.minValidK = math.Min(s.minValidK, 2*math.Pi/rMax)
		s.logger.LogMinValidK(ctx, frame, rMax, s.minValidK)
	}

	s.frame.MergeInto(s.local)
	s.frames = frame
	s.state = StateAccumulating
	return nil
}

// Compute accumulates one frame, discarding previous frames first if reset
// is true.
func (s *StaticStructureFactor) Compute(ctx context.Context, b box.Box, points []box.Vec3, reset bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if reset {
		s.resetLocked()
	}
	return s.accumulateLocked(ctx, b, points)
}

// Reduce merges the worker histograms and normalizes the result.
//
// It returns ErrNoFrames before the first frame, leaving Values all zero.
// Reducing an already reduced engine does nothing.
func (s *StaticStructureFactor) Reduce() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.reduceLocked()
}

func (s *StaticStructureFactor) reduceLocked() (err error) {
	switch s.state {
	case StateEmpty:
		return ErrNoFrames
	case StateReduced:
		return nil
	}

	start := time.Now()
	defer func() {
		d := time.Since(start)
		s.metrics.RecordReduce(s.mode, s.frames, d, err)
		s.logger.LogReduce(context.Background(), s.frames, d, err)
	}()

	s.local.ReduceInto(s.result)

	frames := float64(s.frames)
	switch s.mode {
	case ModeDirect:
		if s.frames > 1 {
			s.result.Apply(func(v float64) float64 { return v / frames })
		}
	case ModeRDF:
		s.result.Apply(func(v float64) float64 { return 1 + v/frames })
	}

	s.state = StateReduced
	return nil
}

// Values returns S(k) at every bin center, reducing first if frames were
// added since the last reduction. Before the first frame all values are zero.
func (s *StaticStructureFactor) Values() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAccumulating {
		_ = s.reduceLocked()
	}
	return append([]float64(nil), s.result.Values()...)
}

// BinCenters returns the k value at the middle of every bin.
func (s *StaticStructureFactor) BinCenters() []float64 {
	return append([]float64(nil), s.centers...)
}

// BinEdges returns the Bins+1 bin boundaries.
func (s *StaticStructureFactor) BinEdges() []float64 {
	return s.axis.Edges()
}

// MinValidK returns the smallest k resolved by every RDF frame so far.
// It is +Inf in ModeDirect and before the first frame.
func (s *StaticStructureFactor) MinValidK() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.minValidK
}

// ValidMask marks the bins whose center is at least MinValidK.
// In ModeDirect every bin is valid.
func (s *StaticStructureFactor) ValidMask() *bitset.BitSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	mask := bitset.New(uint(len(s.centers)))
	for i, k := range s.centers {
		if s.mode == ModeDirect || k >= s.minValidK {
			mask.Set(uint(i))
		}
	}
	return mask
}

// FrameCount returns the number of accumulated frames.
func (s *StaticStructureFactor) FrameCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.frames
}

// State returns the current accumulation state.
func (s *StaticStructureFactor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Mode returns the estimator mode.
func (s *StaticStructureFactor) Mode() Mode { return s.mode }

// Bins returns the number of k bins.
func (s *StaticStructureFactor) Bins() int { return s.axis.Bins() }

// KMin returns the lower bound of the k axis.
func (s *StaticStructureFactor) KMin() float64 { return s.axis.Min() }

// KMax returns the upper bound of the k axis.
func (s *StaticStructureFactor) KMax() float64 { return s.axis.Max() }

// Reset discards all frames and returns to StateEmpty.
func (s *StaticStructureFactor) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
}

func (s *StaticStructureFactor) resetLocked() {
	s.local.Reset()
	s.frame.Reset()
	s.result.Reset()
	s.frames = 0
	s.minValidK = math.Inf(1)
	s.state = StateEmpty
}

// Snapshot reduces pending frames and returns a copy of the result.
func (s *StaticStructureFactor) Snapshot() (*snapshot.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reduceLocked(); err != nil {
		return nil, err
	}

	return &snapshot.Result{
		Mode:       s.mode.String(),
		Bins:       s.axis.Bins(),
		KMin:       s.axis.Min(),
		KMax:       s.axis.Max(),
		Frames:     s.frames,
		MinValidK:  s.minValidK,
		BinCenters: append([]float64(nil), s.centers...),
		Values:     append([]float64(nil), s.result.Values()...),
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Close stops the worker pool. Further calls to Accumulate return ErrClosed.
// Results stay readable.
func (s *StaticStructureFactor) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.pool.Close()
	return nil
}
