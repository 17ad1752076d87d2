package transform

import (
	"math"

	"wrangle/domain/core"
	"wrangle/domain/frame"
	"wrangle/selector"
)

// Plan is the normalized execution plan the argument processor produces:
// the working frame (rows filtered, append copies created), the ordered
// transform targets, the resolved weights vector, and per-target center and
// scale values with NaN marking "compute automatically".
type Plan struct {
	Frame   *frame.Frame
	Columns []string // transform targets (suffixed copies in append mode)
	Sources []string // original column name per target
	Weights []float64

	Centers   []float64
	CenterOff bool
	Scales    []float64
	ScaleOff  bool
}

// Prepare runs the shared argument-processing protocol and returns the
// execution plan. Every policy here runs before any numeric work, so a call
// either fails eagerly or transforms consistently. defaultSuffix is the
// operation's append suffix, used when Options.Suffix is empty.
func Prepare(f *frame.Frame, opts Options, defaultSuffix string, d *core.Diagnostics) (*Plan, error) {
	selected, err := selector.Resolve(f, opts.Select, opts.Exclude, selector.Options{
		IgnoreCase: opts.IgnoreCase,
		Regex:      opts.Regex,
	})
	if err != nil {
		return nil, err
	}

	work := f.Clone()

	// A named weight column is never itself transformed.
	weights := opts.Weights
	if opts.WeightsColumn != "" {
		if col, ok := work.Column(opts.WeightsColumn); ok {
			selected = remove(selected, opts.WeightsColumn)
			if w, ok := frame.ToNumeric(col); ok {
				weights = w
			}
		} else {
			d.Warn("weight column not found, proceeding unweighted", "column", opts.WeightsColumn)
		}
	}
	if weights != nil {
		if len(weights) != work.Rows() {
			return nil, core.ErrWeightsLength
		}
		if !validWeights(weights) {
			d.Warn("weights must all be positive, proceeding unweighted")
			weights = nil
		}
	}

	// Restrict to numeric columns unless factors are forced in.
	if !opts.KeepFactors {
		var kept, skipped []string
		for _, name := range selected {
			col, _ := work.Column(name)
			if frame.IsNumeric(col) {
				kept = append(kept, name)
			} else {
				skipped = append(skipped, name)
			}
		}
		if len(skipped) > 0 {
			d.Info("skipping non-numeric columns", "columns", skipped)
		}
		selected = kept
	}

	// Row filtering happens once, so every column's statistics see the
	// same row subset.
	switch opts.NAPolicy {
	case NAPolicyNone, "":
	case NAPolicySelected:
		work, weights = dropMissingRows(work, weights, selected)
	case NAPolicyAll:
		work, weights = dropMissingRows(work, weights, work.Names())
	default:
		return nil, core.NewValidationError("na_policy", "unknown policy "+string(opts.NAPolicy))
	}

	targets := selected
	sources := selected
	if opts.Append {
		suffix := opts.Suffix
		if suffix == "" {
			suffix = defaultSuffix
		}
		targets = make([]string, len(selected))
		for i, name := range selected {
			col, _ := work.Column(name)
			copied := col.Clone()
			copied.Name = name + suffix
			if err := work.SetColumn(copied); err != nil {
				return nil, err
			}
			targets[i] = copied.Name
		}
	}

	centers, centerOff, err := resolveSetting(opts.Center, "center", sources)
	if err != nil {
		return nil, err
	}
	scales, scaleOff, err := resolveSetting(opts.Scale, "scale", sources)
	if err != nil {
		return nil, err
	}

	if opts.Reference != nil {
		var missing []string
		for _, name := range sources {
			if !opts.Reference.Has(name) {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			return nil, core.NewReferenceError(missing)
		}
	}

	return &Plan{
		Frame:     work,
		Columns:   targets,
		Sources:   sources,
		Weights:   weights,
		Centers:   centers,
		CenterOff: centerOff,
		Scales:    scales,
		ScaleOff:  scaleOff,
	}, nil
}

// resolveSetting expands a Setting into one value per selected column, with
// the unset sentinel where automatic computation applies.
func resolveSetting(s *Setting, arg string, selected []string) ([]float64, bool, error) {
	out := make([]float64, len(selected))
	for i := range out {
		out[i] = unset()
	}
	if s == nil {
		return out, false, nil
	}
	if s.Off {
		return out, true, nil
	}
	if len(s.ByName) > 0 {
		for i, name := range selected {
			if v, ok := s.ByName[name]; ok {
				out[i] = v
			}
		}
		return out, false, nil
	}
	switch len(s.Values) {
	case 0:
	case 1:
		for i := range out {
			out[i] = s.Values[0]
		}
	case len(selected):
		copy(out, s.Values)
	default:
		return nil, false, core.NewOverrideLengthError(arg, len(s.Values), len(selected))
	}
	return out, false, nil
}

func validWeights(w []float64) bool {
	for _, v := range w {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return false
		}
	}
	return true
}

func remove(names []string, drop string) []string {
	out := names[:0]
	for _, name := range names {
		if name != drop {
			out = append(out, name)
		}
	}
	return out
}

func dropMissingRows(f *frame.Frame, weights []float64, columns []string) (*frame.Frame, []float64) {
	keep := make([]bool, f.Rows())
	for i := range keep {
		keep[i] = true
	}
	for _, name := range columns {
		col, ok := f.Column(name)
		if !ok {
			continue
		}
		for i := 0; i < col.Len(); i++ {
			if col.Missing(i) {
				keep[i] = false
			}
		}
	}
	filtered := f.FilterRows(keep)
	if weights == nil {
		return filtered, nil
	}
	w := make([]float64, 0, filtered.Rows())
	for i, k := range keep {
		if k {
			w = append(w, weights[i])
		}
	}
	return filtered, w
}
