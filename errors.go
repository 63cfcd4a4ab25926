package skfactor

import (
	"errors"
	"fmt"

	"github.com/hupe1980/skfactor/box"
	"github.com/hupe1980/skfactor/density"
	"github.com/hupe1980/skfactor/internal/parallel"
	"github.com/hupe1980/skfactor/locality"
)

var (
	// ErrInvalidArgument is returned when construction parameters are invalid.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoFrames is returned by Reduce before any frame was accumulated.
	ErrNoFrames = errors.New("no frames accumulated")

	// ErrDegenerateBox is returned when a box has no usable extent, e.g. when
	// half its smallest length leaves no positive RDF cutoff.
	ErrDegenerateBox = errors.New("degenerate box")

	// ErrClosed is returned when using a closed StaticStructureFactor.
	ErrClosed = errors.New("structure factor closed")
)

// ErrInvalidBins indicates a non-positive bin count.
//
// It matches ErrInvalidArgument via errors.Is.
type ErrInvalidBins struct {
	Bins int
}

func (e *ErrInvalidBins) Error() string {
	return fmt.Sprintf("invalid bin count: %d (must be positive)", e.Bins)
}

func (e *ErrInvalidBins) Unwrap() error { return ErrInvalidArgument }

// ErrInvalidRange indicates an unusable k range.
//
// It matches ErrInvalidArgument via errors.Is.
type ErrInvalidRange struct {
	KMin   float64
	KMax   float64
	Reason string
}

func (e *ErrInvalidRange) Error() string {
	return fmt.Sprintf("invalid k range [%g, %g): %s", e.KMin, e.KMax, e.Reason)
}

func (e *ErrInvalidRange) Unwrap() error { return ErrInvalidArgument }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, parallel.ErrPoolClosed) {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}
	if errors.Is(err, box.ErrInvalidBox) || errors.Is(err, density.ErrBoxMismatch) {
		if errors.Is(err, ErrDegenerateBox) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrDegenerateBox, err)
	}
	if errors.Is(err, locality.ErrInvalidQuery) || errors.Is(err, density.ErrInvalidArgument) {
		return fmt.Errorf("%w: %w", ErrDegenerateBox, err)
	}

	return err
}
