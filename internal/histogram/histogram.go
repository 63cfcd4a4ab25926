package histogram

// Histogram is a dense array of float64 cells over one Axis.
type Histogram struct {
	axis  Axis
	cells []float64
}

// New creates a zeroed histogram over axis.
func New(axis Axis) *Histogram {
	return &Histogram{
		axis:  axis,
		cells: make([]float64, axis.Bins()),
	}
}

// Axis returns the histogram axis.
func (h *Histogram) Axis() Axis { return h.axis }

// Add adds v to bin i.
func (h *Histogram) Add(i int, v float64) { h.cells[i] += v }

// At returns the value of bin i.
func (h *Histogram) At(i int) float64 { return h.cells[i] }

// Set overwrites bin i.
func (h *Histogram) Set(i int, v float64) { h.cells[i] = v }

// Len returns the number of bins.
func (h *Histogram) Len() int { return len(h.cells) }

// Values returns the backing cells. The slice is owned by the histogram.
func (h *Histogram) Values() []float64 { return h.cells }

// Apply replaces every cell with fn(cell).
func (h *Histogram) Apply(fn func(v float64) float64) {
	for i, v := range h.cells {
		h.cells[i] = fn(v)
	}
}

// Reset zeroes every cell.
func (h *Histogram) Reset() {
	clear(h.cells)
}
