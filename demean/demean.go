// Package demean decomposes variables into group-level aggregates
// ("between" components) and residuals from those aggregates ("within"
// components), the centering step of panel and multilevel analysis. It
// supports interaction-product terms, categorical dummy expansion, a choice
// of group statistic, and cross-classified designs with several
// simultaneous grouping variables.
package demean

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"wrangle/domain/core"
	"wrangle/domain/frame"
	"wrangle/domain/selection"
	"wrangle/internal/fuzzy"
	"wrangle/selector"
	"wrangle/stats"
)

// Stat names the statistic computed per group.
type Stat string

const (
	StatMean   Stat = "mean"
	StatMedian Stat = "median"
	StatMode   Stat = "mode"
	StatMin    Stat = "min"
	StatMax    Stat = "max"
)

// Role tags an output column as a between or within component, for
// consumers that branch on the decomposition side.
type Role string

const (
	RoleBetween Role = "between"
	RoleWithin  Role = "within"
)

// Options configure a decomposition.
type Options struct {
	// Select names the variables to decompose; nil selects every column
	// that is not a grouping variable. Formula is an alternative
	// front-end supporting interaction terms, e.g. "x1 + x2*x3".
	Select  selection.Spec
	Formula string

	// By lists the grouping variables; ByFormula is the formula
	// front-end, e.g. "g1 + g2". More than one grouping variable yields
	// the cross-classified decomposition.
	By        []string
	ByFormula string

	// Stat is the per-group statistic; Demean fixes it at the mean.
	Stat Stat

	// Weights are observation weights applied to mean and median group
	// statistics. Length must equal the row count.
	Weights []float64

	// SuffixBetween and SuffixWithin default to "_between" and "_within".
	SuffixBetween string
	SuffixWithin  string
}

// DefaultOptions returns mean-centering with the standard suffixes.
func DefaultOptions() Options {
	return Options{Stat: StatMean, SuffixBetween: "_between", SuffixWithin: "_within"}
}

// Decomposition holds the computed components: a frame containing the
// between columns followed by the within columns, and a role per column.
// Binding the frame back onto the original data is the caller's choice.
type Decomposition struct {
	Frame *frame.Frame
	Roles map[string]Role
}

// Demean computes the between/within decomposition with mean centering,
// the only statistic for which between + within reproduces the original
// in the single-grouping-variable case.
func Demean(f *frame.Frame, opts Options, d *core.Diagnostics) (*Decomposition, error) {
	opts.Stat = StatMean
	return Degroup(f, opts, d)
}

// Degroup computes the between/within decomposition with the configured
// group statistic.
func Degroup(f *frame.Frame, opts Options, d *core.Diagnostics) (*Decomposition, error) {
	if opts.SuffixBetween == "" {
		opts.SuffixBetween = "_between"
	}
	if opts.SuffixWithin == "" {
		opts.SuffixWithin = "_within"
	}
	if opts.Stat == "" {
		opts.Stat = StatMean
	}

	by := opts.By
	if len(by) == 0 && opts.ByFormula != "" {
		parsed, err := selection.ParseVariables(opts.ByFormula)
		if err != nil {
			return nil, err
		}
		by = parsed
	}
	if len(by) == 0 {
		return nil, core.ErrNoGroups
	}

	terms, err := resolveTerms(f, opts, by)
	if err != nil {
		return nil, err
	}

	// Unresolvable names are fatal before any numeric work begins.
	if err := validateNames(f, terms, by); err != nil {
		return nil, err
	}

	if opts.Weights != nil {
		if len(opts.Weights) != f.Rows() {
			return nil, core.ErrWeightsLength
		}
		if !validWeights(opts.Weights) {
			d.Warn("weights must all be positive, proceeding unweighted")
			opts.Weights = nil
		}
	}

	work := f.Clone()
	variables := expandInteractions(work, terms, d)
	variables, values, err := coerceVariables(work, variables, d)
	if err != nil {
		return nil, err
	}

	groupRows := make([][][]int, len(by))
	for gi, g := range by {
		col, _ := work.Column(g)
		groupRows[gi] = groupIndex(col)
	}

	type decomposed struct {
		between [][]float64 // one per grouping variable
		within  []float64
	}
	results := make([]decomposed, len(variables))

	// Each variable's decomposition is independent; the group index is
	// shared read-only.
	var g errgroup.Group
	for vi := range variables {
		vi := vi
		g.Go(func() error {
			x := values[vi]
			betweens := make([][]float64, len(by))
			for gi := range by {
				between, err := groupStatistic(x, groupRows[gi], opts.Stat, opts.Weights)
				if err != nil {
					return err
				}
				betweens[gi] = between
			}
			within := make([]float64, len(x))
			for i, v := range x {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					within[i] = math.NaN()
					continue
				}
				sum := 0.0
				for gi := range betweens {
					sum += betweens[gi][i]
				}
				within[i] = v - sum
			}
			results[vi] = decomposed{between: betweens, within: within}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Decomposition{Roles: make(map[string]Role)}
	var cols []frame.Column
	for vi, name := range variables {
		for gi, gname := range by {
			colName := name + opts.SuffixBetween
			if len(by) > 1 {
				colName = name + opts.SuffixBetween + "_" + gname
			}
			cols = append(cols, frame.NewNumeric(colName, results[vi].between[gi]))
			out.Roles[colName] = RoleBetween
		}
	}
	for vi, name := range variables {
		colName := name + opts.SuffixWithin
		cols = append(cols, frame.NewNumeric(colName, results[vi].within))
		out.Roles[colName] = RoleWithin
	}
	out.Frame, err = frame.New(cols...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// resolveTerms produces the term list from the formula front-end or the
// structured selection. A nil selection means every non-grouping column.
// Explicit specs name variables directly, so their unmatched entries are
// carried into the term list for validateNames to reject, where a pattern
// spec matching nothing stays an empty selection.
func resolveTerms(f *frame.Frame, opts Options, by []string) ([]selection.Term, error) {
	if opts.Formula != "" {
		return selection.ParseFormula(opts.Formula)
	}
	sel := opts.Select
	excl := selection.Spec(selection.Names(by...))
	names, err := selector.Resolve(f, sel, excl, selector.DefaultOptions())
	if err != nil {
		return nil, err
	}
	if exp, ok := sel.(selection.Explicit); ok {
		for _, entry := range exp.Names {
			if !f.Has(entry) && !isRangeEntry(f, entry) {
				names = append(names, entry)
			}
		}
	}
	terms := make([]selection.Term, len(names))
	for i, name := range names {
		terms[i] = selection.Term{Vars: []string{name}}
	}
	return terms, nil
}

func validWeights(w []float64) bool {
	for _, v := range w {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return false
		}
	}
	return true
}

// isRangeEntry recognizes "a:b" explicit-list entries naming a column range,
// which resolve positionally rather than as a literal variable name.
func isRangeEntry(f *frame.Frame, entry string) bool {
	if !strings.Contains(entry, ":") {
		return false
	}
	parts := strings.SplitN(entry, ":", 2)
	return f.Has(strings.TrimSpace(parts[0])) && f.Has(strings.TrimSpace(parts[1]))
}

func validateNames(f *frame.Frame, terms []selection.Term, by []string) error {
	var missing []string
	check := func(name string) {
		if !f.Has(name) {
			missing = append(missing, name)
		}
	}
	for _, t := range terms {
		for _, v := range t.Vars {
			check(v)
		}
	}
	for _, g := range by {
		check(g)
	}
	if len(missing) == 0 {
		return nil
	}
	suggestions := make(map[string][]string, len(missing))
	for _, name := range missing {
		suggestions[name] = fuzzy.Suggest(name, f.Names(), 2)
	}
	return core.NewUnknownVariableError(missing, suggestions)
}

// expandInteractions materializes every interaction term as an eager
// elementwise product column and returns the flat variable list. The
// product is what gets decomposed; double demeaning is unsupported.
func expandInteractions(work *frame.Frame, terms []selection.Term, d *core.Diagnostics) []string {
	var variables []string
	for _, t := range terms {
		if !t.Interaction() {
			variables = append(variables, t.Vars[0])
			continue
		}
		product := make([]float64, work.Rows())
		for i := range product {
			product[i] = 1
		}
		for _, v := range t.Vars {
			col, _ := work.Column(v)
			x, ok := frame.ToNumeric(col)
			if !ok {
				for i := range product {
					product[i] = math.NaN()
				}
				break
			}
			for i, val := range x {
				product[i] *= val
			}
		}
		name := t.Name()
		if work.Has(name) {
			d.Warn("interaction product replaces an existing column", "column", name)
		}
		work.SetColumn(frame.NewNumeric(name, product))
		variables = append(variables, name)
	}
	return variables
}

// coerceVariables turns every selected column into a numeric vector.
// Categorical columns become zero-based codes; those with more than two
// levels additionally expand into one binary dummy per level, each of which
// is decomposed independently. One notice lists all coerced variables.
func coerceVariables(work *frame.Frame, variables []string, d *core.Diagnostics) ([]string, [][]float64, error) {
	var outNames []string
	var outValues [][]float64
	var coerced []string

	for _, name := range variables {
		col, ok := work.Column(name)
		if !ok {
			return nil, nil, core.NewValidationError(name, core.ErrColumnNotFound.Error())
		}
		switch col.Kind {
		case frame.KindNumeric:
			outNames = append(outNames, name)
			outValues = append(outValues, append([]float64(nil), col.Floats...))
		case frame.KindFactor, frame.KindString:
			fac := *col
			if col.Kind == frame.KindString {
				labels := make([]string, len(col.Strs))
				for i, s := range col.Strs {
					if col.StrValid[i] {
						labels[i] = s
					}
				}
				fac = frame.NewFactor(name, labels)
			}
			coerced = append(coerced, name)

			codes := make([]float64, len(fac.Codes))
			for i, code := range fac.Codes {
				if code < 0 {
					codes[i] = math.NaN()
					continue
				}
				codes[i] = float64(code)
			}
			outNames = append(outNames, name)
			outValues = append(outValues, codes)

			if len(fac.Levels) > 2 {
				for li, level := range fac.Levels {
					dummy := make([]float64, len(fac.Codes))
					for i, code := range fac.Codes {
						switch {
						case code < 0:
							dummy[i] = math.NaN()
						case code == li:
							dummy[i] = 1
						}
					}
					dummyName := fmt.Sprintf("%s_%s", name, level)
					outNames = append(outNames, dummyName)
					outValues = append(outValues, dummy)
				}
			}
		default:
			x, ok := frame.ToNumeric(col)
			if !ok {
				d.Info("unsupported column kind, variable skipped", "column", name, "kind", col.Kind)
				continue
			}
			coerced = append(coerced, name)
			outNames = append(outNames, name)
			outValues = append(outValues, x)
		}
	}
	if len(coerced) > 0 {
		d.Info("non-numeric variables were coerced for decomposition: " + strings.Join(coerced, ", "))
	}
	return outNames, outValues, nil
}

// groupIndex partitions rows by the grouping column's value. Missing values
// form their own group, so every row belongs to exactly one group.
func groupIndex(col *frame.Column) [][]int {
	var order []string
	rows := make(map[string][]int)
	for i := 0; i < col.Len(); i++ {
		key, ok := col.Label(i)
		if !ok {
			key = "\x00missing"
		}
		if _, seen := rows[key]; !seen {
			order = append(order, key)
		}
		rows[key] = append(rows[key], i)
	}
	out := make([][]int, len(order))
	for gi, key := range order {
		out[gi] = rows[key]
	}
	return out
}

// groupStatistic broadcasts the per-group statistic back to every row of
// its group.
func groupStatistic(x []float64, groups [][]int, stat Stat, weights []float64) ([]float64, error) {
	out := make([]float64, len(x))
	for _, rows := range groups {
		values := make([]float64, len(rows))
		var w []float64
		if weights != nil {
			w = make([]float64, len(rows))
		}
		for j, i := range rows {
			values[j] = x[i]
			if w != nil {
				w[j] = weights[i]
			}
		}

		var agg float64
		var err error
		switch stat {
		case StatMean:
			agg, err = stats.WeightedMean(values, w)
		case StatMedian:
			agg, err = stats.WeightedMedian(values, w)
		case StatMode:
			agg = stats.Mode(values)
		case StatMin:
			agg = stats.Min(values)
		case StatMax:
			agg = stats.Max(values)
		default:
			return nil, core.NewValidationError("stat", "unknown group statistic "+string(stat))
		}
		if err != nil {
			return nil, err
		}
		for _, i := range rows {
			out[i] = agg
		}
	}
	return out, nil
}
