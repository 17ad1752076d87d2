// Package transform implements the numeric transformation pipeline:
// a shared argument processor that turns a selection plus weights, append,
// and missing-value policies into an execution plan, and the centering,
// standardization, rescaling, and related engines that run per column
// against that plan.
package transform

import (
	"math"

	"wrangle/domain/frame"
	"wrangle/domain/selection"
)

// NAPolicy controls row filtering before any column is transformed.
type NAPolicy string

const (
	// NAPolicyNone keeps every row.
	NAPolicyNone NAPolicy = "none"
	// NAPolicySelected drops rows with a missing value in any selected column.
	NAPolicySelected NAPolicy = "selected"
	// NAPolicyAll drops rows with a missing value in any column.
	NAPolicyAll NAPolicy = "all"
)

// Setting supplies explicit center or scale values in place of automatic
// computation. Values of length 1 broadcast to every selected column;
// length len(selected) applies positionally; ByName matches columns by
// name, leaving unmatched columns automatic. Off fixes the statistic at
// its neutral value (0 for center, 1 for scale).
type Setting struct {
	Values []float64
	ByName map[string]float64
	Off    bool
}

// Fixed returns a Setting broadcasting a single value.
func Fixed(v float64) *Setting {
	return &Setting{Values: []float64{v}}
}

// PerColumn returns a Setting matching values by column name.
func PerColumn(values map[string]float64) *Setting {
	return &Setting{ByName: values}
}

// Off returns a Setting that disables the statistic.
func Off() *Setting {
	return &Setting{Off: true}
}

// Options are the shared arguments of every frame-level transformation.
type Options struct {
	// Select and Exclude choose the columns to transform; nil Select
	// means every column.
	Select  selection.Spec
	Exclude selection.Spec

	// IgnoreCase and Regex adjust name matching, as in selector.Options.
	IgnoreCase bool
	Regex      bool

	// WeightsColumn names a frame column holding observation weights; the
	// column is pulled out of the selection and never itself transformed.
	// Weights supplies the vector directly instead.
	WeightsColumn string
	Weights       []float64

	// KeepFactors forces categorical, string, boolean, and time columns
	// into the selection; they are coerced to numeric before transforming.
	KeepFactors bool

	// NAPolicy filters rows once, before any column is transformed.
	NAPolicy NAPolicy

	// Append leaves originals untouched and writes results into new
	// suffixed copies. Suffix overrides the per-operation default.
	Append bool
	Suffix string

	// Reference supplies an external population to compute center and
	// scale from; it must contain every selected column.
	Reference *frame.Frame

	// Center and Scale bypass automatic computation where set.
	Center *Setting
	Scale  *Setting

	// Robust switches to median/MAD statistics; TwoSD divides by twice
	// the spread.
	Robust bool
	TwoSD  bool
}

// DefaultOptions returns the default transformation arguments: all columns,
// unweighted, no row filtering, transform in place.
func DefaultOptions() Options {
	return Options{NAPolicy: NAPolicyNone}
}

// unset is the per-column sentinel for "compute automatically".
func unset() float64 { return math.NaN() }

func isUnset(v float64) bool { return math.IsNaN(v) }
