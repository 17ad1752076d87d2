// Package tabulate builds frequency tables and two-way crosstabulations
// over frame columns, with optional observation weights.
package tabulate

import (
	"sort"
	"strconv"

	"wrangle/domain/core"
	"wrangle/domain/frame"
	"wrangle/domain/selection"
	"wrangle/selector"
)

// Options select the columns to tabulate and the weighting.
type Options struct {
	Select     selection.Spec
	Exclude    selection.Spec
	IgnoreCase bool
	Regex      bool

	// Weights are per-observation counting weights; nil counts each row
	// as 1.
	Weights []float64
}

// Entry is one row of a frequency table.
type Entry struct {
	Value string
	N     float64
	// Percent is relative to all rows, ValidPercent to non-missing rows,
	// and Cumulative accumulates ValidPercent in table order.
	Percent      float64
	ValidPercent float64
	Cumulative   float64
}

// Table is the frequency table of a single column. Missing values are
// counted separately and never appear as an Entry.
type Table struct {
	Column  string
	Entries []Entry
	Missing float64
	Total   float64
}

// Frequencies computes one frequency table per selected column. Factor
// columns order entries by level, numeric columns by value, and other
// kinds by first appearance.
func Frequencies(f *frame.Frame, opts Options, d *core.Diagnostics) ([]Table, error) {
	names, err := selector.Resolve(f, opts.Select, opts.Exclude, selector.Options{
		IgnoreCase: opts.IgnoreCase,
		Regex:      opts.Regex,
	})
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		d.Warn("no columns matched the selection")
		return nil, nil
	}
	if opts.Weights != nil && len(opts.Weights) != f.Rows() {
		return nil, core.ErrWeightsLength
	}

	tables := make([]Table, 0, len(names))
	for _, name := range names {
		col, _ := f.Column(name)
		tables = append(tables, tabulateColumn(col, opts.Weights))
	}
	return tables, nil
}

func tabulateColumn(col *frame.Column, weights []float64) Table {
	t := Table{Column: col.Name}
	counts := make(map[string]float64)
	var order []string

	for i := 0; i < col.Len(); i++ {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		t.Total += w
		label, ok := col.Label(i)
		if !ok {
			t.Missing += w
			continue
		}
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label] += w
	}

	switch col.Kind {
	case frame.KindFactor:
		order = orderByLevels(order, col.Levels)
	case frame.KindNumeric:
		sort.Slice(order, func(a, b int) bool {
			va, _ := strconv.ParseFloat(order[a], 64)
			vb, _ := strconv.ParseFloat(order[b], 64)
			return va < vb
		})
	}

	valid := t.Total - t.Missing
	cum := 0.0
	for _, label := range order {
		n := counts[label]
		entry := Entry{Value: label, N: n}
		if t.Total > 0 {
			entry.Percent = 100 * n / t.Total
		}
		if valid > 0 {
			entry.ValidPercent = 100 * n / valid
			cum += entry.ValidPercent
			entry.Cumulative = cum
		}
		t.Entries = append(t.Entries, entry)
	}
	return t
}

func orderByLevels(labels, levels []string) []string {
	present := make(map[string]bool, len(labels))
	for _, l := range labels {
		present[l] = true
	}
	var out []string
	for _, level := range levels {
		if present[level] {
			out = append(out, level)
		}
	}
	return out
}

// Crosstab is a two-way contingency table. Cells hold (possibly weighted)
// counts. Observations missing either variable are excluded from the cells,
// the margins, and Total; they accumulate in MissingObservation only.
type Crosstab struct {
	RowVar, ColVar     string
	RowLabels          []string
	ColLabels          []string
	Counts             [][]float64
	RowTotals          []float64
	ColTotals          []float64
	Total              float64
	MissingObservation float64
}

// CrosstabOf computes the contingency table of two columns.
func CrosstabOf(f *frame.Frame, rowVar, colVar string, weights []float64, d *core.Diagnostics) (*Crosstab, error) {
	rowCol, ok := f.Column(rowVar)
	if !ok {
		return nil, core.NewValidationError(rowVar, core.ErrColumnNotFound.Error())
	}
	colCol, ok := f.Column(colVar)
	if !ok {
		return nil, core.NewValidationError(colVar, core.ErrColumnNotFound.Error())
	}
	if weights != nil && len(weights) != f.Rows() {
		return nil, core.ErrWeightsLength
	}

	ct := &Crosstab{RowVar: rowVar, ColVar: colVar}
	rowIdx := make(map[string]int)
	colIdx := make(map[string]int)
	cells := make(map[[2]int]float64)

	for i := 0; i < f.Rows(); i++ {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		rl, rok := rowCol.Label(i)
		cl, cok := colCol.Label(i)
		if !rok || !cok {
			ct.MissingObservation += w
			continue
		}
		ri, seen := rowIdx[rl]
		if !seen {
			ri = len(ct.RowLabels)
			rowIdx[rl] = ri
			ct.RowLabels = append(ct.RowLabels, rl)
		}
		ci, seen := colIdx[cl]
		if !seen {
			ci = len(ct.ColLabels)
			colIdx[cl] = ci
			ct.ColLabels = append(ct.ColLabels, cl)
		}
		cells[[2]int{ri, ci}] += w
		ct.Total += w
	}

	ct.Counts = make([][]float64, len(ct.RowLabels))
	ct.RowTotals = make([]float64, len(ct.RowLabels))
	ct.ColTotals = make([]float64, len(ct.ColLabels))
	for ri := range ct.Counts {
		ct.Counts[ri] = make([]float64, len(ct.ColLabels))
		for ci := range ct.Counts[ri] {
			n := cells[[2]int{ri, ci}]
			ct.Counts[ri][ci] = n
			ct.RowTotals[ri] += n
			ct.ColTotals[ci] += n
		}
	}
	return ct, nil
}

// Proportions returns the crosstab cells divided by the chosen margin:
// "row", "col", or "total".
func (ct *Crosstab) Proportions(margin string) [][]float64 {
	out := make([][]float64, len(ct.Counts))
	for ri := range ct.Counts {
		out[ri] = make([]float64, len(ct.Counts[ri]))
		for ci, n := range ct.Counts[ri] {
			var denom float64
			switch margin {
			case "row":
				denom = ct.RowTotals[ri]
			case "col":
				denom = ct.ColTotals[ci]
			default:
				denom = ct.Total
			}
			if denom > 0 {
				out[ri][ci] = n / denom
			}
		}
	}
	return out
}
