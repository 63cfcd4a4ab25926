package snapshot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"
)

// Result is an exported S(k) curve.
type Result struct {
	Mode       string
	Bins       int
	KMin       float64
	KMax       float64
	Frames     uint64
	MinValidK  float64 // +Inf when no bound applies
	BinCenters []float64
	Values     []float64
	CreatedAt  time.Time
}

// Validate checks the internal consistency of r.
func (r *Result) Validate() error {
	switch {
	case r.Bins <= 0:
		return fmt.Errorf("%w: bins %d", ErrInvalidResult, r.Bins)
	case len(r.BinCenters) != r.Bins || len(r.Values) != r.Bins:
		return fmt.Errorf("%w: %d bins but %d centers and %d values", ErrInvalidResult, r.Bins, len(r.BinCenters), len(r.Values))
	case !(r.KMax > r.KMin):
		return fmt.Errorf("%w: k range [%g, %g)", ErrInvalidResult, r.KMin, r.KMax)
	}
	return nil
}

// Valid reports whether bin i is trustworthy. Only rdf results carry a
// lower bound; bins below MinValidK are invalid.
func (r *Result) Valid(i int) bool {
	if r.Mode != "rdf" {
		return true
	}
	return r.BinCenters[i] >= r.MinValidK
}

// WriteCSV writes "k,S(k),valid" rows with a header line.
func (r *Result) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"k", "S(k)", "valid"}); err != nil {
		return err
	}
	for i, k := range r.BinCenters {
		row := []string{
			strconv.FormatFloat(k, 'g', -1, 64),
			strconv.FormatFloat(r.Values[i], 'g', -1, 64),
			strconv.FormatBool(r.Valid(i)),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// wireResult is the codec representation of Result.
type wireResult struct {
	Mode       string    `json:"mode"`
	Bins       int       `json:"bins"`
	KMin       float64   `json:"k_min"`
	KMax       float64   `json:"k_max"`
	Frames     uint64    `json:"frames"`
	MinValidK  *float64  `json:"min_valid_k"`
	BinCenters []float64 `json:"bin_centers"`
	Values     []float64 `json:"values"`
	CreatedAt  time.Time `json:"created_at"`
}

func toWire(r *Result) wireResult {
	w := wireResult{
		Mode:       r.Mode,
		Bins:       r.Bins,
		KMin:       r.KMin,
		KMax:       r.KMax,
		Frames:     r.Frames,
		BinCenters: r.BinCenters,
		Values:     r.Values,
		CreatedAt:  r.CreatedAt,
	}
	if !math.IsInf(r.MinValidK, 0) && !math.IsNaN(r.MinValidK) {
		v := r.MinValidK
		w.MinValidK = &v
	}
	return w
}

func fromWire(w wireResult) *Result {
	r := &Result{
		Mode:       w.Mode,
		Bins:       w.Bins,
		KMin:       w.KMin,
		KMax:       w.KMax,
		Frames:     w.Frames,
		MinValidK:  math.Inf(1),
		BinCenters: w.BinCenters,
		Values:     w.Values,
		CreatedAt:  w.CreatedAt,
	}
	if w.MinValidK != nil {
		r.MinValidK = *w.MinValidK
	}
	return r
}

// ErrInvalidResult is returned for inconsistent results.
var ErrInvalidResult = errors.New("invalid snapshot result")
