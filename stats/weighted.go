// Package stats provides the weighted and robust statistics primitives the
// transformation engines are built on: mean, step-interpolated median,
// standard deviation, and median absolute deviation, each in weighted and
// unweighted form, plus the grouping statistics mode, min, and max.
//
// Every function ignores non-finite values (and their weights) before
// computing, and returns NaN when nothing finite remains.
package stats

import (
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"wrangle/domain/core"
)

// MADScale is the consistency constant making the MAD comparable to the
// standard deviation under normality.
const MADScale = 1.4826

// Finite returns a copy of x with non-finite values removed.
func Finite(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// finitePairs filters x and w down to positions where both are finite.
func finitePairs(x, w []float64) ([]float64, []float64, error) {
	if len(x) != len(w) {
		return nil, nil, core.ErrWeightsLength
	}
	xs := make([]float64, 0, len(x))
	ws := make([]float64, 0, len(w))
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) || math.IsNaN(w[i]) || math.IsInf(w[i], 0) {
			continue
		}
		xs = append(xs, v)
		ws = append(ws, w[i])
	}
	return xs, ws, nil
}

// Mean returns the arithmetic mean of the finite values of x.
func Mean(x []float64) float64 {
	xs := Finite(x)
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

// SD returns the sample standard deviation of the finite values of x.
func SD(x []float64) float64 {
	xs := Finite(x)
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.StdDev(xs, nil)
}

// Median returns the median of the finite values of x.
func Median(x []float64) float64 {
	xs := Finite(x)
	if len(xs) == 0 {
		return math.NaN()
	}
	m, err := mstats.Median(xs)
	if err != nil {
		return math.NaN()
	}
	return m
}

// MAD returns the scaled median absolute deviation of the finite values
// of x.
func MAD(x []float64) float64 {
	xs := Finite(x)
	if len(xs) == 0 {
		return math.NaN()
	}
	m, err := mstats.MedianAbsoluteDeviation(xs)
	if err != nil {
		return math.NaN()
	}
	return MADScale * m
}

// WeightedMean returns the weighted arithmetic mean. A nil weight vector
// falls back to the unweighted mean.
func WeightedMean(x, w []float64) (float64, error) {
	if w == nil {
		return Mean(x), nil
	}
	xs, ws, err := finitePairs(x, w)
	if err != nil {
		return math.NaN(), err
	}
	if len(xs) == 0 {
		return math.NaN(), nil
	}
	return stat.Mean(xs, ws), nil
}

// WeightedSD returns the weighted sample standard deviation (weighted
// variance with denominator sum(w)-1). A nil weight vector falls back to
// the unweighted sample SD.
func WeightedSD(x, w []float64) (float64, error) {
	if w == nil {
		return SD(x), nil
	}
	xs, ws, err := finitePairs(x, w)
	if err != nil {
		return math.NaN(), err
	}
	if len(xs) < 2 {
		return math.NaN(), nil
	}
	return stat.StdDev(xs, ws), nil
}

// WeightedMedian returns the weighted median using step-function
// interpolation: with values sorted and p_k the normalized cumulative
// weight, the median is the first value whose p_k reaches 0.5, averaged
// with the next value when p_k hits 0.5 exactly.
func WeightedMedian(x, w []float64) (float64, error) {
	if w == nil {
		return Median(x), nil
	}
	xs, ws, err := finitePairs(x, w)
	if err != nil {
		return math.NaN(), err
	}
	if len(xs) == 0 {
		return math.NaN(), nil
	}

	order := make([]int, len(xs))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return xs[order[a]] < xs[order[b]] })

	total := 0.0
	for _, v := range ws {
		total += v
	}
	if total <= 0 {
		return math.NaN(), nil
	}

	cum := 0.0
	for k, idx := range order {
		cum += ws[idx]
		p := cum / total
		if p < 0.5 {
			continue
		}
		if p == 0.5 && k+1 < len(order) {
			return (xs[idx] + xs[order[k+1]]) / 2, nil
		}
		return xs[idx], nil
	}
	return xs[order[len(order)-1]], nil
}

// WeightedMAD returns the scaled weighted median absolute deviation.
func WeightedMAD(x, w []float64) (float64, error) {
	if w == nil {
		return MAD(x), nil
	}
	med, err := WeightedMedian(x, w)
	if err != nil || math.IsNaN(med) {
		return math.NaN(), err
	}
	dev := make([]float64, len(x))
	for i, v := range x {
		dev[i] = math.Abs(v - med)
	}
	dmed, err := WeightedMedian(dev, w)
	if err != nil {
		return math.NaN(), err
	}
	return MADScale * dmed, nil
}

// Mode returns the most frequent finite value, breaking ties in favor of
// the value encountered first.
func Mode(x []float64) float64 {
	xs := Finite(x)
	if len(xs) == 0 {
		return math.NaN()
	}
	counts := make(map[float64]int, len(xs))
	first := make(map[float64]int, len(xs))
	for i, v := range xs {
		if _, ok := first[v]; !ok {
			first[v] = i
		}
		counts[v]++
	}
	best := xs[0]
	for v, n := range counts {
		switch {
		case n > counts[best]:
			best = v
		case n == counts[best] && first[v] < first[best]:
			best = v
		}
	}
	return best
}

// Min returns the smallest finite value of x.
func Min(x []float64) float64 {
	xs := Finite(x)
	if len(xs) == 0 {
		return math.NaN()
	}
	m, err := mstats.Min(xs)
	if err != nil {
		return math.NaN()
	}
	return m
}

// Max returns the largest finite value of x.
func Max(x []float64) float64 {
	xs := Finite(x)
	if len(xs) == 0 {
		return math.NaN()
	}
	m, err := mstats.Max(xs)
	if err != nil {
		return math.NaN()
	}
	return m
}
