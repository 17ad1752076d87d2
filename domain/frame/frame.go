// Package frame provides the tabular container consumed by every engine in
// this module: an ordered collection of named, typed columns with a stable
// name-to-index snapshot and per-kind missing-value representations.
package frame

import (
	"math"
	"time"

	"wrangle/domain/core"
)

// Kind identifies the closed set of column value kinds.
type Kind string

const (
	KindNumeric Kind = "numeric"
	KindFactor  Kind = "factor"
	KindString  Kind = "string"
	KindBool    Kind = "bool"
	KindTime    Kind = "time"
)

// Column is a single named column. Exactly one value slice is populated,
// chosen by Kind. Missing values are NaN for numeric columns, code -1 for
// factors, and a false validity-mask entry for string/bool/time columns.
type Column struct {
	Name string
	Kind Kind

	Floats []float64

	Codes  []int
	Levels []string

	Strs     []string
	StrValid []bool

	Bools     []bool
	BoolValid []bool

	Times     []time.Time
	TimeValid []bool
}

// NewNumeric builds a numeric column. NaN marks missing values.
func NewNumeric(name string, values []float64) Column {
	return Column{Name: name, Kind: KindNumeric, Floats: values}
}

// NewFactor builds a factor column from string labels, assigning levels in
// first-encountered order. Empty labels are treated as missing.
func NewFactor(name string, labels []string) Column {
	codes := make([]int, len(labels))
	var levels []string
	seen := make(map[string]int)
	for i, label := range labels {
		if label == "" {
			codes[i] = -1
			continue
		}
		idx, ok := seen[label]
		if !ok {
			idx = len(levels)
			levels = append(levels, label)
			seen[label] = idx
		}
		codes[i] = idx
	}
	return Column{Name: name, Kind: KindFactor, Codes: codes, Levels: levels}
}

// NewFactorWithLevels builds a factor column from explicit codes and levels.
// Codes index into levels; -1 marks missing.
func NewFactorWithLevels(name string, codes []int, levels []string) Column {
	return Column{Name: name, Kind: KindFactor, Codes: codes, Levels: levels}
}

// NewString builds a string column with every entry valid.
func NewString(name string, values []string) Column {
	valid := make([]bool, len(values))
	for i := range valid {
		valid[i] = true
	}
	return Column{Name: name, Kind: KindString, Strs: values, StrValid: valid}
}

// NewStringWithMissing builds a string column with an explicit validity mask.
func NewStringWithMissing(name string, values []string, valid []bool) Column {
	return Column{Name: name, Kind: KindString, Strs: values, StrValid: valid}
}

// NewBool builds a boolean column with every entry valid.
func NewBool(name string, values []bool) Column {
	valid := make([]bool, len(values))
	for i := range valid {
		valid[i] = true
	}
	return Column{Name: name, Kind: KindBool, Bools: values, BoolValid: valid}
}

// NewTime builds a time column with every entry valid.
func NewTime(name string, values []time.Time) Column {
	valid := make([]bool, len(values))
	for i := range valid {
		valid[i] = true
	}
	return Column{Name: name, Kind: KindTime, Times: values, TimeValid: valid}
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	switch c.Kind {
	case KindNumeric:
		return len(c.Floats)
	case KindFactor:
		return len(c.Codes)
	case KindString:
		return len(c.Strs)
	case KindBool:
		return len(c.Bools)
	case KindTime:
		return len(c.Times)
	}
	return 0
}

// Missing reports whether row i holds a missing value.
func (c *Column) Missing(i int) bool {
	switch c.Kind {
	case KindNumeric:
		return math.IsNaN(c.Floats[i])
	case KindFactor:
		return c.Codes[i] < 0
	case KindString:
		return !c.StrValid[i]
	case KindBool:
		return !c.BoolValid[i]
	case KindTime:
		return !c.TimeValid[i]
	}
	return true
}

// Label returns a string rendering of the value at row i, used for grouping
// keys and frequency tables. ok is false for missing values.
func (c *Column) Label(i int) (string, bool) {
	if c.Missing(i) {
		return "", false
	}
	switch c.Kind {
	case KindNumeric:
		return formatFloat(c.Floats[i]), true
	case KindFactor:
		return c.Levels[c.Codes[i]], true
	case KindString:
		return c.Strs[i], true
	case KindBool:
		if c.Bools[i] {
			return "true", true
		}
		return "false", true
	case KindTime:
		return c.Times[i].Format(time.RFC3339), true
	}
	return "", false
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() Column {
	out := Column{Name: c.Name, Kind: c.Kind}
	out.Floats = append([]float64(nil), c.Floats...)
	out.Codes = append([]int(nil), c.Codes...)
	out.Levels = append([]string(nil), c.Levels...)
	out.Strs = append([]string(nil), c.Strs...)
	out.StrValid = append([]bool(nil), c.StrValid...)
	out.Bools = append([]bool(nil), c.Bools...)
	out.BoolValid = append([]bool(nil), c.BoolValid...)
	out.Times = append([]time.Time(nil), c.Times...)
	out.TimeValid = append([]bool(nil), c.TimeValid...)
	return out
}

// take returns a copy of the column restricted to the given row indices.
func (c *Column) take(rows []int) Column {
	out := Column{Name: c.Name, Kind: c.Kind, Levels: append([]string(nil), c.Levels...)}
	switch c.Kind {
	case KindNumeric:
		out.Floats = make([]float64, len(rows))
		for j, i := range rows {
			out.Floats[j] = c.Floats[i]
		}
	case KindFactor:
		out.Codes = make([]int, len(rows))
		for j, i := range rows {
			out.Codes[j] = c.Codes[i]
		}
	case KindString:
		out.Strs = make([]string, len(rows))
		out.StrValid = make([]bool, len(rows))
		for j, i := range rows {
			out.Strs[j] = c.Strs[i]
			out.StrValid[j] = c.StrValid[i]
		}
	case KindBool:
		out.Bools = make([]bool, len(rows))
		out.BoolValid = make([]bool, len(rows))
		for j, i := range rows {
			out.Bools[j] = c.Bools[i]
			out.BoolValid[j] = c.BoolValid[i]
		}
	case KindTime:
		out.Times = make([]time.Time, len(rows))
		out.TimeValid = make([]bool, len(rows))
		for j, i := range rows {
			out.Times[j] = c.Times[i]
			out.TimeValid[j] = c.TimeValid[i]
		}
	}
	return out
}

// Frame is an ordered collection of equally sized columns with unique names.
// The name-to-position map is a snapshot rebuilt on every structural change,
// so lookups during selection and range resolution are O(1).
type Frame struct {
	cols  []Column
	index map[string]int
}

// New builds a frame from columns, validating unique names and equal lengths.
func New(cols ...Column) (*Frame, error) {
	f := &Frame{index: make(map[string]int, len(cols))}
	rows := -1
	for _, col := range cols {
		if _, dup := f.index[col.Name]; dup {
			return nil, core.NewValidationError(col.Name, core.ErrDuplicateColumn.Error())
		}
		if rows >= 0 && col.Len() != rows {
			return nil, core.NewValidationError(col.Name, core.ErrColumnLength.Error())
		}
		rows = col.Len()
		f.index[col.Name] = len(f.cols)
		f.cols = append(f.cols, col)
	}
	return f, nil
}

// MustNew is New for statically known inputs; it panics on invalid columns.
func MustNew(cols ...Column) *Frame {
	f, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Frame) reindex() {
	f.index = make(map[string]int, len(f.cols))
	for i, col := range f.cols {
		f.index[col.Name] = i
	}
}

// Rows returns the number of rows.
func (f *Frame) Rows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return f.cols[0].Len()
}

// NumColumns returns the number of columns.
func (f *Frame) NumColumns() int {
	return len(f.cols)
}

// Names returns column names in frame order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.cols))
	for i, col := range f.cols {
		names[i] = col.Name
	}
	return names
}

// Pos returns the position of a column by name.
func (f *Frame) Pos(name string) (int, bool) {
	i, ok := f.index[name]
	return i, ok
}

// Has reports whether a column exists.
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Column returns a pointer to the named column, valid until the frame is
// structurally modified.
func (f *Frame) Column(name string) (*Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return &f.cols[i], true
}

// ColumnAt returns a pointer to the column at position i.
func (f *Frame) ColumnAt(i int) *Column {
	return &f.cols[i]
}

// AddColumn appends a column; duplicate names are rejected.
func (f *Frame) AddColumn(col Column) error {
	if _, dup := f.index[col.Name]; dup {
		return core.NewValidationError(col.Name, core.ErrDuplicateColumn.Error())
	}
	if len(f.cols) > 0 && col.Len() != f.Rows() {
		return core.NewValidationError(col.Name, core.ErrColumnLength.Error())
	}
	f.index[col.Name] = len(f.cols)
	f.cols = append(f.cols, col)
	return nil
}

// SetColumn adds the column, or replaces an existing column of the same name
// in place (preserving its position).
func (f *Frame) SetColumn(col Column) error {
	if i, ok := f.index[col.Name]; ok {
		if col.Len() != f.Rows() {
			return core.NewValidationError(col.Name, core.ErrColumnLength.Error())
		}
		f.cols[i] = col
		return nil
	}
	return f.AddColumn(col)
}

// Select returns a new frame holding copies of the named columns, in the
// order given.
func (f *Frame) Select(names []string) (*Frame, error) {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		col, ok := f.Column(name)
		if !ok {
			return nil, core.NewValidationError(name, core.ErrColumnNotFound.Error())
		}
		cols = append(cols, col.Clone())
	}
	return New(cols...)
}

// FilterRows returns a new frame keeping only rows where keep[i] is true.
func (f *Frame) FilterRows(keep []bool) *Frame {
	var rows []int
	for i, k := range keep {
		if k {
			rows = append(rows, i)
		}
	}
	out := &Frame{}
	for _, col := range f.cols {
		out.cols = append(out.cols, col.take(rows))
	}
	out.reindex()
	return out
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := &Frame{}
	for _, col := range f.cols {
		out.cols = append(out.cols, col.Clone())
	}
	out.reindex()
	return out
}

// Rename changes a column's name in place.
func (f *Frame) Rename(old, new string) error {
	i, ok := f.index[old]
	if !ok {
		return core.NewValidationError(old, core.ErrColumnNotFound.Error())
	}
	if _, dup := f.index[new]; dup && new != old {
		return core.NewValidationError(new, core.ErrDuplicateColumn.Error())
	}
	f.cols[i].Name = new
	f.reindex()
	return nil
}

// Bind column-binds b onto a, returning a new frame. Duplicate names in b
// are rejected.
func Bind(a, b *Frame) (*Frame, error) {
	out := a.Clone()
	for _, col := range b.cols {
		if err := out.AddColumn(col.Clone()); err != nil {
			return nil, err
		}
	}
	return out, nil
}
