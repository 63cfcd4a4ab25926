// Package xyz reads and writes extended XYZ trajectories.
//
// A frame is a point count line, a comment line carrying the box as
// box=Lx Ly Lz [xy xz yz] or box2d=Lx Ly, and one "type x y z" row per point.
package xyz

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/hupe1980/skfactor/box"
)

// maxPrealloc caps the capacity reserved from a point count line; longer
// frames grow as rows arrive.
const maxPrealloc = 1 << 16

// ErrSyntax is matched by every *SyntaxError.
var ErrSyntax = errors.New("xyz: syntax error")

// SyntaxError reports a malformed line.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("xyz: line %d: %s", e.Line, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// Frame is one configuration of a trajectory.
type Frame struct {
	Box     box.Box
	Types   []string
	Points  []box.Vec3
	Comment string
}

// Reader reads frames sequentially.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

// NewReader returns a Reader on r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{sc: sc}
}

func (r *Reader) next() (string, bool) {
	if !r.sc.Scan() {
		return "", false
	}
	r.line++
	return strings.TrimSpace(r.sc.Text()), true
}

func (r *Reader) errorf(format string, args ...any) error {
	return &SyntaxError{Line: r.line, Msg: fmt.Sprintf(format, args...)}
}

// Next returns the next frame, or io.EOF after the last one.
func (r *Reader) Next() (*Frame, error) {
	var head string
	for {
		s, ok := r.next()
		if !ok {
			if err := r.sc.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		if s != "" {
			head = s
			break
		}
	}

	n, err := strconv.Atoi(head)
	if err != nil || n <= 0 {
		return nil, r.errorf("invalid point count %q", head)
	}

	comment, ok := r.next()
	if !ok {
		return nil, r.unexpectedEOF()
	}
	b, err := ParseBox(comment)
	if err != nil {
		return nil, r.errorf("%v", err)
	}

	f := &Frame{
		Box:     b,
		Types:   make([]string, 0, min(n, maxPrealloc)),
		Points:  make([]box.Vec3, 0, min(n, maxPrealloc)),
		Comment: comment,
	}
	for range n {
		s, ok := r.next()
		if !ok {
			return nil, r.unexpectedEOF()
		}
		fields := strings.Fields(s)
		if len(fields) < 3 || (!b.Is2D() && len(fields) < 4) {
			return nil, r.errorf("want type and coordinates, got %q", s)
		}
		var p box.Vec3
		for d := 0; d < 3 && d+1 < len(fields); d++ {
			v, err := strconv.ParseFloat(fields[d+1], 64)
			if err != nil {
				return nil, r.errorf("invalid coordinate %q", fields[d+1])
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, r.errorf("non-finite coordinate %q", fields[d+1])
			}
			p[d] = v
		}
		if b.Is2D() {
			p[2] = 0
		}
		f.Types = append(f.Types, fields[0])
		f.Points = append(f.Points, p)
	}
	return f, nil
}

func (r *Reader) unexpectedEOF() error {
	if err := r.sc.Err(); err != nil {
		return err
	}
	return fmt.Errorf("xyz: line %d: %w", r.line, io.ErrUnexpectedEOF)
}

// Frames iterates over the remaining frames. Iteration stops after the
// first error.
func (r *Reader) Frames() iter.Seq2[*Frame, error] {
	return func(yield func(*Frame, error) bool) {
		for {
			f, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(f, err) || err != nil {
				return
			}
		}
	}
}

// ReadAll reads every frame of r.
func ReadAll(r io.Reader) ([]*Frame, error) {
	var frames []*Frame
	for f, err := range NewReader(r).Frames() {
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// ParseBox extracts the box from a comment line.
func ParseBox(comment string) (box.Box, error) {
	fields := strings.Fields(comment)
	for i, f := range fields {
		key, first, ok := strings.Cut(f, "=")
		if !ok || (key != "box" && key != "box2d") {
			continue
		}

		want := []int{3, 6}
		if key == "box2d" {
			want = []int{2}
		}
		vals := []string{first}
		for _, g := range fields[i+1:] {
			if strings.Contains(g, "=") || len(vals) == want[len(want)-1] {
				break
			}
			vals = append(vals, g)
		}
		nums, err := parseFloats(vals)
		if err != nil {
			return box.Box{}, err
		}
		// Trailing non-numeric words end the box.
		for len(nums) > 0 && !slices.Contains(want, len(nums)) {
			nums = nums[:len(nums)-1]
		}

		switch len(nums) {
		case 2:
			return box.New2D(nums[0], nums[1])
		case 3:
			return box.New3D(nums[0], nums[1], nums[2])
		case 6:
			return box.New(nums[0], nums[1], nums[2], nums[3], nums[4], nums[5], false)
		default:
			return box.Box{}, fmt.Errorf("%s wants %v values, got %d", key, want, len(nums))
		}
	}
	return box.Box{}, fmt.Errorf("comment %q has no box= or box2d= field", comment)
}

func parseFloats(vals []string) ([]float64, error) {
	out := make([]float64, 0, len(vals))
	for i, v := range vals {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			if i == 0 {
				return nil, fmt.Errorf("invalid box length %q", v)
			}
			break
		}
		out = append(out, x)
	}
	return out, nil
}

// Write writes f in the format read by Reader.
func Write(w io.Writer, f *Frame) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%d\n", len(f.Points))
	l := f.Box.L()
	xy, xz, yz := f.Box.Tilt()
	switch {
	case f.Box.Is2D():
		fmt.Fprintf(bw, "box2d=%g %g", l[0], l[1])
	case xy != 0 || xz != 0 || yz != 0:
		fmt.Fprintf(bw, "box=%g %g %g %g %g %g", l[0], l[1], l[2], xy, xz, yz)
	default:
		fmt.Fprintf(bw, "box=%g %g %g", l[0], l[1], l[2])
	}
	if f.Comment != "" && !strings.Contains(f.Comment, "box") {
		fmt.Fprintf(bw, " %s", f.Comment)
	}
	bw.WriteByte('\n')

	for i, p := range f.Points {
		typ := "X"
		if i < len(f.Types) && f.Types[i] != "" {
			typ = f.Types[i]
		}
		fmt.Fprintf(bw, "%s %g %g %g\n", typ, p[0], p[1], p[2])
	}
	return bw.Flush()
}
