package transform

import (
	"math"

	"wrangle/domain/core"
	"wrangle/domain/frame"
	"wrangle/stats"
)

// RescaleOptions extends the shared arguments with the target range.
// ToByName overrides the range per column; other columns use To.
type RescaleOptions struct {
	Options
	To       [2]float64
	ToByName map[string][2]float64
}

// DefaultRescaleOptions rescales onto [0, 100].
func DefaultRescaleOptions() RescaleOptions {
	return RescaleOptions{Options: DefaultOptions(), To: [2]float64{0, 100}}
}

// Rescale linearly maps each selected column from its observed range onto
// the target range. The default append suffix is "_r".
func Rescale(f *frame.Frame, opts RescaleOptions, d *core.Diagnostics) (*frame.Frame, error) {
	plan, err := Prepare(f, opts.Options, "_r", d)
	if err != nil {
		return nil, err
	}
	if len(plan.Columns) == 0 {
		d.Warn("no columns matched the selection, data returned unchanged")
		return plan.Frame, nil
	}

	for i, target := range plan.Columns {
		col, _ := plan.Frame.Column(target)
		x, ok := frame.ToNumeric(col)
		if !ok {
			d.Info("unsupported column kind, passed through unchanged", "column", target, "kind", col.Kind)
			continue
		}

		to := opts.To
		if r, ok := opts.ToByName[plan.Sources[i]]; ok {
			to = r
		}
		rescaleInPlace(x, to, d)
		if err := plan.Frame.SetColumn(frame.NewNumeric(target, x)); err != nil {
			return nil, err
		}
	}
	return plan.Frame, nil
}

func rescaleInPlace(x []float64, to [2]float64, d *core.Diagnostics) {
	lo, hi := stats.Min(x), stats.Max(x)
	if math.IsNaN(lo) {
		d.Info("all values missing or infinite, variable left unchanged")
		return
	}
	if lo == hi {
		// A constant column carries no range information; it maps onto the
		// midpoint of the target range.
		d.Warn("variable has zero range, all values set to the target midpoint")
		mid := (to[0] + to[1]) / 2
		for i, v := range x {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				x[i] = mid
			} else {
				x[i] = math.NaN()
			}
		}
		return
	}
	span := hi - lo
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			x[i] = math.NaN()
			continue
		}
		x[i] = (v-lo)/span*(to[1]-to[0]) + to[0]
	}
}

// NormalizeOptions extends the shared arguments with bounds handling.
// When IncludeBounds is false, values are compressed away from exact 0 and
// 1 with the Smithson–Verkuilen transformation (x·(n−1)+0.5)/n.
type NormalizeOptions struct {
	Options
	IncludeBounds bool
}

// DefaultNormalizeOptions normalizes onto [0, 1] including the bounds.
func DefaultNormalizeOptions() NormalizeOptions {
	return NormalizeOptions{Options: DefaultOptions(), IncludeBounds: true}
}

// Normalize rescales each selected column onto the unit interval. The
// default append suffix is "_n".
func Normalize(f *frame.Frame, opts NormalizeOptions, d *core.Diagnostics) (*frame.Frame, error) {
	plan, err := Prepare(f, opts.Options, "_n", d)
	if err != nil {
		return nil, err
	}
	if len(plan.Columns) == 0 {
		d.Warn("no columns matched the selection, data returned unchanged")
		return plan.Frame, nil
	}

	for _, target := range plan.Columns {
		col, _ := plan.Frame.Column(target)
		x, ok := frame.ToNumeric(col)
		if !ok {
			d.Info("unsupported column kind, passed through unchanged", "column", target, "kind", col.Kind)
			continue
		}

		rescaleInPlace(x, [2]float64{0, 1}, d)
		if !opts.IncludeBounds {
			n := float64(len(stats.Finite(x)))
			if n > 0 {
				for i, v := range x {
					if !math.IsNaN(v) {
						x[i] = (v*(n-1) + 0.5) / n
					}
				}
			}
		}
		if err := plan.Frame.SetColumn(frame.NewNumeric(target, x)); err != nil {
			return nil, err
		}
	}
	return plan.Frame, nil
}

// Slide shifts each selected column so its minimum lands on lowest. The
// default append suffix is "_s".
func Slide(f *frame.Frame, opts Options, lowest float64, d *core.Diagnostics) (*frame.Frame, error) {
	plan, err := Prepare(f, opts, "_s", d)
	if err != nil {
		return nil, err
	}
	if len(plan.Columns) == 0 {
		d.Warn("no columns matched the selection, data returned unchanged")
		return plan.Frame, nil
	}

	for _, target := range plan.Columns {
		col, _ := plan.Frame.Column(target)
		x, ok := frame.ToNumeric(col)
		if !ok {
			d.Info("unsupported column kind, passed through unchanged", "column", target, "kind", col.Kind)
			continue
		}
		lo := stats.Min(x)
		if math.IsNaN(lo) {
			d.Info("all values missing or infinite, variable left unchanged")
			continue
		}
		for i, v := range x {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				x[i] = math.NaN()
				continue
			}
			x[i] = v - lo + lowest
		}
		if err := plan.Frame.SetColumn(frame.NewNumeric(target, x)); err != nil {
			return nil, err
		}
	}
	return plan.Frame, nil
}
