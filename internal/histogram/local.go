package histogram

import "fmt"

// Local holds one private histogram row per worker slot.
//
// Rows are allocated lazily by the worker that first writes to them. Each
// slot must be written by at most one goroutine at a time; the worker pool
// guarantees this by binding slots to its goroutines.
type Local struct {
	axis Axis
	rows [][]float64
}

// NewLocal creates a set with one (lazily allocated) row per slot.
func NewLocal(axis Axis, slots int) *Local {
	if slots <= 0 {
		panic(fmt.Sprintf("histogram: slots must be positive, got %d", slots))
	}
	return &Local{
		axis: axis,
		rows: make([][]float64, slots),
	}
}

// Axis returns the shared axis.
func (l *Local) Axis() Axis { return l.axis }

// Slots returns the number of worker slots.
func (l *Local) Slots() int { return len(l.rows) }

// Increment adds v to bin of the slot's private row.
// bin must be in [0, Bins); slot must be in [0, Slots).
func (l *Local) Increment(slot, bin int, v float64) {
	row := l.rows[slot]
	if row == nil {
		row = make([]float64, l.axis.Bins())
		l.rows[slot] = row
	}
	row[bin] += v
}

// Row returns the private row of slot, allocating it if needed.
// Intended for tight loops that write many bins of one slot.
func (l *Local) Row(slot int) []float64 {
	if l.rows[slot] == nil {
		l.rows[slot] = make([]float64, l.axis.Bins())
	}
	return l.rows[slot]
}

// ReduceInto overwrites target with the binwise sum over all live rows.
// The rows keep their cumulative contents.
func (l *Local) ReduceInto(target *Histogram) {
	if target.Len() != l.axis.Bins() {
		panic(fmt.Sprintf("histogram: reduce target has %d bins, want %d", target.Len(), l.axis.Bins()))
	}
	target.Reset()
	for _, row := range l.rows {
		if row == nil {
			continue
		}
		for i, v := range row {
			target.cells[i] += v
		}
	}
}

// MergeInto adds every live row to the same slot of dst and zeroes it.
// dst must share the axis and slot count.
func (l *Local) MergeInto(dst *Local) {
	if dst.axis.Bins() != l.axis.Bins() || len(dst.rows) != len(l.rows) {
		panic(fmt.Sprintf("histogram: merge target has %d slots of %d bins, want %d of %d",
			len(dst.rows), dst.axis.Bins(), len(l.rows), l.axis.Bins()))
	}
	for slot, row := range l.rows {
		if row == nil {
			continue
		}
		target := dst.Row(slot)
		for i, v := range row {
			target[i] += v
		}
		clear(row)
	}
}

// Reset zeroes every live row.
func (l *Local) Reset() {
	for _, row := range l.rows {
		clear(row)
	}
}
