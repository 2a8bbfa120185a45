// Package series provides the aligned numeric frame the statistical core
// consumes, plus the return and interest arithmetic used to derive outcome
// series from prices. The core itself never reads timestamps or aligns data;
// that responsibility ends here, at the boundary.
package series

import (
	"fmt"
	"math"
	"sort"
)

// Frame is an ordered collection of equal-length named float columns.
// Columns are stored in insertion order so reports are deterministic.
type Frame struct {
	names []string
	cols  map[string][]float64
	n     int
}

// NewFrame creates an empty frame.
func NewFrame() *Frame {
	return &Frame{cols: make(map[string][]float64)}
}

// AddColumn appends a named column. Every column must match the length of the
// first column added, and values must be finite: the statistical core assumes
// pre-aligned, NaN-free input and does not re-check it.
func (f *Frame) AddColumn(name string, values []float64) error {
	if name == "" {
		return fmt.Errorf("column name cannot be empty")
	}
	if _, exists := f.cols[name]; exists {
		return fmt.Errorf("duplicate column %q", name)
	}
	if len(f.names) > 0 && len(values) != f.n {
		return fmt.Errorf("column %q has %d rows, frame has %d", name, len(values), f.n)
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("column %q has non-finite value at row %d", name, i)
		}
	}
	if len(f.names) == 0 {
		f.n = len(values)
	}
	f.names = append(f.names, name)
	f.cols[name] = values
	return nil
}

// Column returns the named column, or false if it does not exist.
// The returned slice is the frame's backing storage; callers that mutate it
// must copy first.
func (f *Frame) Column(name string) ([]float64, bool) {
	c, ok := f.cols[name]
	return c, ok
}

// Names returns the column names in insertion order.
func (f *Frame) Names() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// Len returns the row count.
func (f *Frame) Len() int {
	return f.n
}

// Width returns the column count.
func (f *Frame) Width() int {
	return len(f.names)
}

// Require verifies that every named column is present.
func (f *Frame) Require(names ...string) error {
	missing := make([]string, 0)
	for _, name := range names {
		if _, ok := f.cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("frame is missing columns %v", missing)
	}
	return nil
}

// Select returns a new frame holding only the named columns, in the given
// order. Columns share backing storage with the source frame.
func (f *Frame) Select(names ...string) (*Frame, error) {
	if err := f.Require(names...); err != nil {
		return nil, err
	}
	out := NewFrame()
	for _, name := range names {
		if err := out.AddColumn(name, f.cols[name]); err != nil {
			return nil, err
		}
	}
	return out, nil
}
