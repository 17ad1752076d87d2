package transform

import (
	"math"

	"wrangle/domain/core"
	"wrangle/domain/frame"
)

// Unstandardize inverts a standardization using its provenance:
// x*scale + center. Missing positions stay missing.
func Unstandardize(x []float64, res Result) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[i] = math.NaN()
			continue
		}
		out[i] = v*res.Scale + res.Center
	}
	return out
}

// Uncenter inverts a centering: x + center.
func Uncenter(x []float64, res Result) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[i] = math.NaN()
			continue
		}
		out[i] = v + res.Center
	}
	return out
}

// UnstandardizeFrame inverts a frame-level standardization, applying each
// Result to the column it names. Columns without a matching result pass
// through untouched.
func UnstandardizeFrame(f *frame.Frame, results []Result) (*frame.Frame, error) {
	out := f.Clone()
	for _, res := range results {
		col, ok := out.Column(res.Column)
		if !ok {
			return nil, core.NewValidationError(res.Column, core.ErrColumnNotFound.Error())
		}
		x, ok := frame.ToNumeric(col)
		if !ok {
			return nil, core.NewValidationError(res.Column, "column cannot be coerced to numeric")
		}
		if err := out.SetColumn(frame.NewNumeric(res.Column, Unstandardize(x, res))); err != nil {
			return nil, err
		}
	}
	return out, nil
}
