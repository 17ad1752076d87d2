package transform

import (
	"math"

	"wrangle/domain/core"
	"wrangle/stats"
)

// Result describes one transformed vector together with its provenance:
// the center subtracted and the scale divided by (the divisor actually
// applied, so two-SD standardization stores twice the spread). Inverse
// operations and reporting consume this struct directly.
type Result struct {
	Column string
	Values []float64
	Center float64
	Scale  float64
	Robust bool
}

// VectorOptions are the per-vector arguments of the centering engine.
// Center and Scale of NaN mean "compute automatically"; CenterOff and
// ScaleOff pin them at 0 and 1.
type VectorOptions struct {
	Robust bool
	TwoSD  bool

	Weights   []float64
	Reference []float64

	Center    float64
	CenterOff bool
	Scale     float64
	ScaleOff  bool
}

// DefaultVectorOptions returns automatic center and scale computation.
func DefaultVectorOptions() VectorOptions {
	return VectorOptions{Center: math.NaN(), Scale: math.NaN()}
}

// StandardizeVector centers x and divides it by its spread. Missing and
// infinite positions stay missing in the output; recoverable conditions
// (all missing, a single distinct value, zero spread) fall back to
// documented defaults and report through the collector instead of failing.
func StandardizeVector(x []float64, opts VectorOptions, d *core.Diagnostics) Result {
	return transformVector(x, opts, true, d)
}

// CenterVector subtracts the center from x without scaling.
func CenterVector(x []float64, opts VectorOptions, d *core.Diagnostics) Result {
	opts.ScaleOff = true
	opts.TwoSD = false
	return transformVector(x, opts, false, d)
}

func transformVector(x []float64, opts VectorOptions, scaling bool, d *core.Diagnostics) Result {
	out := Result{Values: append([]float64(nil), x...), Center: 0, Scale: 1, Robust: opts.Robust}

	valid := validMask(x, opts.Weights)
	values := maskedValues(x, valid)
	if len(values) == 0 {
		d.Info("all values missing or infinite, variable left unchanged")
		return out
	}

	distinct := countDistinct(values)
	overridden := !isUnset(opts.Center) || opts.CenterOff || opts.Reference != nil ||
		!isUnset(opts.Scale) || opts.ScaleOff
	if distinct == 1 && !overridden {
		// Zero-centered output avoids a zero divisor for a constant input.
		d.Info("variable has only one unique value, returning zero-centered values")
		for i := range out.Values {
			if valid[i] {
				out.Values[i] = 0
			} else {
				out.Values[i] = math.NaN()
			}
		}
		out.Center = values[0]
		return out
	}
	if distinct == 2 {
		d.Info("variable has only two unique values, consider treating it as categorical")
	}

	pop := values
	popWeights := weightsFor(x, opts.Weights, valid)
	if opts.Reference != nil {
		pop = stats.Finite(opts.Reference)
		popWeights = nil
	}

	center := opts.Center
	switch {
	case opts.CenterOff:
		center = 0
	case isUnset(center):
		if opts.Robust {
			center, _ = stats.WeightedMedian(pop, popWeights)
		} else {
			center, _ = stats.WeightedMean(pop, popWeights)
		}
	}

	scale := 1.0
	if scaling {
		scale = opts.Scale
		switch {
		case opts.ScaleOff:
			scale = 1
		case isUnset(scale):
			if opts.Robust {
				scale, _ = stats.WeightedMAD(pop, popWeights)
			} else {
				scale, _ = stats.WeightedSD(pop, popWeights)
			}
			if scale == 0 || math.IsNaN(scale) {
				statName := "SD"
				if opts.Robust {
					statName = "MAD"
				}
				d.Warn("spread statistic is zero, variable is shifted but not scaled", "statistic", statName)
				scale = 1
			}
		}
		if opts.TwoSD {
			scale *= 2
		}
	}

	for i := range out.Values {
		if !valid[i] {
			out.Values[i] = math.NaN()
			continue
		}
		out.Values[i] = (x[i] - center) / scale
	}
	out.Center = center
	out.Scale = scale
	return out
}

// validMask marks positions finite in x and, when weights are supplied,
// finite in the weights as well.
func validMask(x, w []float64) []bool {
	valid := make([]bool, len(x))
	for i, v := range x {
		valid[i] = !math.IsNaN(v) && !math.IsInf(v, 0)
		if valid[i] && w != nil && i < len(w) {
			valid[i] = !math.IsNaN(w[i]) && !math.IsInf(w[i], 0)
		}
	}
	return valid
}

func maskedValues(x []float64, valid []bool) []float64 {
	out := make([]float64, 0, len(x))
	for i, v := range x {
		if valid[i] {
			out = append(out, v)
		}
	}
	return out
}

func weightsFor(x, w []float64, valid []bool) []float64 {
	if w == nil {
		return nil
	}
	out := make([]float64, 0, len(x))
	for i := range x {
		if valid[i] {
			out = append(out, w[i])
		}
	}
	return out
}

func countDistinct(values []float64) int {
	seen := make(map[float64]bool, len(values))
	for _, v := range values {
		seen[v] = true
	}
	return len(seen)
}
