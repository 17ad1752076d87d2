package transform

import (
	"math"

	"wrangle/domain/core"
	"wrangle/domain/frame"
)

// NAValues lists sentinel values to convert to missing: Numbers match
// numeric columns, Labels match factor and string columns.
type NAValues struct {
	Numbers []float64
	Labels  []string
}

// ConvertToNA replaces the listed sentinel values with missing values in
// every selected column. Non-numeric columns participate regardless of
// KeepFactors, since no numeric coercion is involved.
func ConvertToNA(f *frame.Frame, opts Options, na NAValues, d *core.Diagnostics) (*frame.Frame, error) {
	opts.KeepFactors = true
	plan, err := Prepare(f, opts, "_na", d)
	if err != nil {
		return nil, err
	}
	if len(plan.Columns) == 0 {
		d.Warn("no columns matched the selection, data returned unchanged")
		return plan.Frame, nil
	}

	numbers := make(map[float64]bool, len(na.Numbers))
	for _, v := range na.Numbers {
		numbers[v] = true
	}
	labels := make(map[string]bool, len(na.Labels))
	for _, s := range na.Labels {
		labels[s] = true
	}

	for _, target := range plan.Columns {
		col, _ := plan.Frame.Column(target)
		replaced := 0
		switch col.Kind {
		case frame.KindNumeric:
			for i, v := range col.Floats {
				if numbers[v] {
					col.Floats[i] = math.NaN()
					replaced++
				}
			}
		case frame.KindFactor:
			for i, code := range col.Codes {
				if code >= 0 && labels[col.Levels[code]] {
					col.Codes[i] = -1
					replaced++
				}
			}
		case frame.KindString:
			for i, s := range col.Strs {
				if col.StrValid[i] && labels[s] {
					col.StrValid[i] = false
					replaced++
				}
			}
		default:
			d.Info("unsupported column kind, passed through unchanged", "column", target, "kind", col.Kind)
		}
		if replaced > 0 {
			d.Info("converted values to missing", "column", target, "count", replaced)
		}
	}
	return plan.Frame, nil
}
