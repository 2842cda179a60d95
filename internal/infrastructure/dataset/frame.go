// Package dataset holds the tabular container the offline pipeline runs on:
// a small column store with pandas-like missing-value semantics. String cells
// use "" as missing, float cells use NaN.
package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Kind is the storage type of a column.
type Kind int

const (
	String Kind = iota
	Float
)

// Column is a single named column of uniform kind.
type Column struct {
	Kind   Kind
	Str    []string
	Floats []float64
}

// Len returns the number of cells in the column.
func (c *Column) Len() int {
	if c.Kind == String {
		return len(c.Str)
	}
	return len(c.Floats)
}

// Frame is an ordered collection of equal-length columns with an optional
// row index (listing URLs once modeling prep has run).
type Frame struct {
	names []string
	cols  map[string]*Column
	index []string
	rows  int
}

// NewFrame returns an empty frame.
func NewFrame() *Frame {
	return &Frame{cols: make(map[string]*Column)}
}

// NumRows returns the row count.
func (f *Frame) NumRows() int { return f.rows }

// Columns returns column names in insertion order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// Has reports whether the frame contains the named column.
func (f *Frame) Has(name string) bool {
	_, ok := f.cols[name]
	return ok
}

// Col returns the named column, or nil when absent.
func (f *Frame) Col(name string) *Column {
	return f.cols[name]
}

// SetStrings adds or replaces a string column.
func (f *Frame) SetStrings(name string, vals []string) error {
	if err := f.checkLen(name, len(vals)); err != nil {
		return err
	}
	if !f.Has(name) {
		f.names = append(f.names, name)
	}
	f.cols[name] = &Column{Kind: String, Str: vals}
	f.rows = len(vals)
	return nil
}

// SetFloats adds or replaces a float column.
func (f *Frame) SetFloats(name string, vals []float64) error {
	if err := f.checkLen(name, len(vals)); err != nil {
		return err
	}
	if !f.Has(name) {
		f.names = append(f.names, name)
	}
	f.cols[name] = &Column{Kind: Float, Floats: vals}
	f.rows = len(vals)
	return nil
}

func (f *Frame) checkLen(name string, n int) error {
	if len(f.names) == 0 || (len(f.names) == 1 && f.Has(name)) {
		return nil
	}
	if n != f.rows {
		return fmt.Errorf("column %q has %d rows, frame has %d", name, n, f.rows)
	}
	return nil
}

// Strings returns the cells of a string column.
func (f *Frame) Strings(name string) ([]string, bool) {
	c, ok := f.cols[name]
	if !ok || c.Kind != String {
		return nil, false
	}
	return c.Str, true
}

// Floats returns the cells of a float column.
func (f *Frame) Floats(name string) ([]float64, bool) {
	c, ok := f.cols[name]
	if !ok || c.Kind != Float {
		return nil, false
	}
	return c.Floats, true
}

// Drop removes the named columns; absent names are ignored so callers can
// pass fixed drop lists against partial schemas.
func (f *Frame) Drop(names ...string) {
	for _, name := range names {
		if !f.Has(name) {
			continue
		}
		delete(f.cols, name)
		for i, n := range f.names {
			if n == name {
				f.names = append(f.names[:i], f.names[i+1:]...)
				break
			}
		}
	}
}

// Filter keeps only rows where keep[i] is true.
func (f *Frame) Filter(keep []bool) {
	n := 0
	for _, k := range keep {
		if k {
			n++
		}
	}
	for _, col := range f.cols {
		if col.Kind == String {
			out := make([]string, 0, n)
			for i, k := range keep {
				if k {
					out = append(out, col.Str[i])
				}
			}
			col.Str = out
		} else {
			out := make([]float64, 0, n)
			for i, k := range keep {
				if k {
					out = append(out, col.Floats[i])
				}
			}
			col.Floats = out
		}
	}
	if f.index != nil {
		out := make([]string, 0, n)
		for i, k := range keep {
			if k {
				out = append(out, f.index[i])
			}
		}
		f.index = out
	}
	f.rows = n
}

// SetIndex moves the named string column out of the feature columns and
// keeps it as the row identifier.
func (f *Frame) SetIndex(name string) error {
	vals, ok := f.Strings(name)
	if !ok {
		return fmt.Errorf("index column %q is not a string column", name)
	}
	f.index = append([]string(nil), vals...)
	f.Drop(name)
	return nil
}

// Index returns the row identifiers, nil when none were set.
func (f *Frame) Index() []string { return f.index }

// ToFloat coerces a string column to float in place. Cells that do not
// parse become NaN.
func (f *Frame) ToFloat(name string) {
	c, ok := f.cols[name]
	if !ok || c.Kind != String {
		return
	}
	out := make([]float64, len(c.Str))
	for i, s := range c.Str {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = v
	}
	f.cols[name] = &Column{Kind: Float, Floats: out}
}

// Median returns the median of a float column ignoring NaN cells.
// Returns NaN when every cell is missing.
func Median(vals []float64) float64 {
	present := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return math.NaN()
	}
	sort.Float64s(present)
	mid := len(present) / 2
	if len(present)%2 == 1 {
		return present[mid]
	}
	return (present[mid-1] + present[mid]) / 2
}

// GroupedMedians returns the median of vals per distinct key, ignoring NaN
// cells. Rows whose key is NaN are excluded from every group.
func GroupedMedians(keys, vals []float64) map[float64]float64 {
	groups := make(map[float64][]float64)
	for i, k := range keys {
		if math.IsNaN(k) {
			continue
		}
		groups[k] = append(groups[k], vals[i])
	}
	medians := make(map[float64]float64, len(groups))
	for k, group := range groups {
		medians[k] = Median(group)
	}
	return medians
}
