// Package dataframe implements the in-memory table the analysis tools
// operate on: named columns with inferred per-column types, built from
// CSV or Excel input.
package dataframe

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the inferred type of a column.
type Kind string

const (
	KindString Kind = "string"
	KindInt    Kind = "int64"
	KindFloat  Kind = "float64"
	KindBool   Kind = "bool"
	KindTime   Kind = "time"
)

// Column is a single named, typed column. Cells hold nil for missing
// values, otherwise int64, float64, bool, time.Time, or string
// according to Kind.
type Column struct {
	Name  string
	Kind  Kind
	Cells []any
}

// Frame is a rows × named-columns table.
type Frame struct {
	cols []Column
}

// timeLayouts are tried in order during type inference.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// New builds a Frame from a header row and string records, inferring a
// type for each column. Records shorter than the header are padded with
// missing values; longer records are truncated.
func New(header []string, records [][]string) *Frame {
	f := &Frame{cols: make([]Column, len(header))}
	for i, name := range header {
		raw := make([]string, len(records))
		for r, rec := range records {
			if i < len(rec) {
				raw[r] = strings.TrimSpace(rec[i])
			}
		}
		f.cols[i] = inferColumn(strings.TrimSpace(name), raw)
	}
	return f
}

// inferColumn picks the narrowest type that parses every non-empty cell.
func inferColumn(name string, raw []string) Column {
	kind := inferKind(raw)
	cells := make([]any, len(raw))
	for i, s := range raw {
		if s == "" {
			cells[i] = nil
			continue
		}
		cells[i] = parseCell(s, kind)
	}
	return Column{Name: name, Kind: kind, Cells: cells}
}

func inferKind(raw []string) Kind {
	for _, k := range []Kind{KindInt, KindFloat, KindBool, KindTime} {
		if columnParsesAs(raw, k) {
			return k
		}
	}
	return KindString
}

func columnParsesAs(raw []string, k Kind) bool {
	seen := false
	for _, s := range raw {
		if s == "" {
			continue
		}
		seen = true
		if parseCell(s, k) == nil {
			return false
		}
	}
	// An all-empty column stays a string column.
	return seen
}

func parseCell(s string, k Kind) any {
	switch k {
	case KindInt:
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return v
		}
	case KindFloat:
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	case KindBool:
		switch strings.ToLower(s) {
		case "true":
			return true
		case "false":
			return false
		}
	case KindTime:
		for _, layout := range timeLayouts {
			if v, err := time.Parse(layout, s); err == nil {
				return v
			}
		}
	case KindString:
		return s
	}
	return nil
}

// Rows returns the number of rows.
func (f *Frame) Rows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return len(f.cols[0].Cells)
}

// Cols returns the number of columns.
func (f *Frame) Cols() int { return len(f.cols) }

// ColumnNames returns the column names in order.
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column, or false if it does not exist.
func (f *Frame) Column(name string) (*Column, bool) {
	for i := range f.cols {
		if f.cols[i].Name == name {
			return &f.cols[i], true
		}
	}
	return nil, false
}

// Cell returns the value at (row, col), nil when missing.
func (f *Frame) Cell(row, col int) any {
	if col < 0 || col >= len(f.cols) {
		return nil
	}
	c := f.cols[col]
	if row < 0 || row >= len(c.Cells) {
		return nil
	}
	return c.Cells[row]
}

// Head returns a new Frame with at most n leading rows.
func (f *Frame) Head(n int) *Frame {
	if n < 0 {
		n = 0
	}
	if n > f.Rows() {
		n = f.Rows()
	}
	out := &Frame{cols: make([]Column, len(f.cols))}
	for i, c := range f.cols {
		out.cols[i] = Column{Name: c.Name, Kind: c.Kind, Cells: append([]any(nil), c.Cells[:n]...)}
	}
	return out
}

// Select returns a new Frame containing only the named columns, in the
// order given.
func (f *Frame) Select(names []string) (*Frame, error) {
	out := &Frame{cols: make([]Column, 0, len(names))}
	for _, name := range names {
		c, ok := f.Column(name)
		if !ok {
			return nil, fmt.Errorf("no such column: %s", name)
		}
		out.cols = append(out.cols, Column{Name: c.Name, Kind: c.Kind, Cells: append([]any(nil), c.Cells...)})
	}
	return out, nil
}

// Filter returns a new Frame with the rows for which keep returns true.
func (f *Frame) Filter(keep func(row int) bool) *Frame {
	out := &Frame{cols: make([]Column, len(f.cols))}
	for i, c := range f.cols {
		out.cols[i] = Column{Name: c.Name, Kind: c.Kind}
	}
	for r := 0; r < f.Rows(); r++ {
		if !keep(r) {
			continue
		}
		for i := range f.cols {
			out.cols[i].Cells = append(out.cols[i].Cells, f.cols[i].Cells[r])
		}
	}
	return out
}

// Float64 converts a numeric cell to float64. Returns false for nil and
// non-numeric cells.
func Float64(cell any) (float64, bool) {
	switch v := cell.(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// Numeric reports whether the column holds int64 or float64 cells.
func (c *Column) Numeric() bool {
	return c.Kind == KindInt || c.Kind == KindFloat
}

// Floats returns all non-missing numeric cells as float64s.
func (c *Column) Floats() []float64 {
	out := make([]float64, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if v, ok := Float64(cell); ok {
			out = append(out, v)
		}
	}
	return out
}

// Sum returns the sum of a numeric column's non-missing cells.
func (f *Frame) Sum(name string) (float64, error) {
	vals, err := f.numericColumn(name)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum, nil
}

// Mean returns the arithmetic mean of a numeric column's non-missing cells.
func (f *Frame) Mean(name string) (float64, error) {
	vals, err := f.numericColumn(name)
	if err != nil {
		return 0, err
	}
	if len(vals) == 0 {
		return 0, fmt.Errorf("column %s has no values", name)
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals)), nil
}

// Min returns the minimum of a numeric column's non-missing cells.
func (f *Frame) Min(name string) (float64, error) {
	return f.fold(name, math.Inf(1), math.Min)
}

// Max returns the maximum of a numeric column's non-missing cells.
func (f *Frame) Max(name string) (float64, error) {
	return f.fold(name, math.Inf(-1), math.Max)
}

func (f *Frame) fold(name string, init float64, fn func(a, b float64) float64) (float64, error) {
	vals, err := f.numericColumn(name)
	if err != nil {
		return 0, err
	}
	if len(vals) == 0 {
		return 0, fmt.Errorf("column %s has no values", name)
	}
	acc := init
	for _, v := range vals {
		acc = fn(acc, v)
	}
	return acc, nil
}

// Count returns the number of non-missing cells in a column.
func (f *Frame) Count(name string) (int, error) {
	c, ok := f.Column(name)
	if !ok {
		return 0, fmt.Errorf("no such column: %s", name)
	}
	n := 0
	for _, cell := range c.Cells {
		if cell != nil {
			n++
		}
	}
	return n, nil
}

func (f *Frame) numericColumn(name string) ([]float64, error) {
	c, ok := f.Column(name)
	if !ok {
		return nil, fmt.Errorf("no such column: %s", name)
	}
	if !c.Numeric() {
		return nil, fmt.Errorf("column %s is not numeric (%s)", name, c.Kind)
	}
	return c.Floats(), nil
}
