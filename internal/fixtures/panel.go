// Package fixtures generates seeded synthetic datasets for tests and
// benchmarks: grouped numeric variables with known between-group structure,
// a categorical grouping column, and a configurable share of missing values.
package fixtures

import (
	"fmt"
	"math"
	"math/rand"

	"wrangle/domain/frame"
)

// PanelConfig configures the synthetic panel generator.
type PanelConfig struct {
	Groups       int
	RowsPerGroup int
	Variables    int
	// GroupSpread is the standard deviation of the group means,
	// NoiseSpread the within-group standard deviation.
	GroupSpread float64
	NoiseSpread float64
	// MissingShare is the fraction of values replaced with NaN.
	MissingShare float64
	Seed         int64
}

// DefaultPanelConfig returns a small balanced panel.
func DefaultPanelConfig() PanelConfig {
	return PanelConfig{
		Groups:       5,
		RowsPerGroup: 20,
		Variables:    2,
		GroupSpread:  10,
		NoiseSpread:  1,
		Seed:         42,
	}
}

// Panel generates the synthetic frame: numeric columns x1..xN plus a factor
// column "group". Rows are grouped contiguously, so group g occupies rows
// [g*RowsPerGroup, (g+1)*RowsPerGroup).
func Panel(cfg PanelConfig) *frame.Frame {
	rng := rand.New(rand.NewSource(cfg.Seed))
	rows := cfg.Groups * cfg.RowsPerGroup

	labels := make([]string, rows)
	for g := 0; g < cfg.Groups; g++ {
		name := fmt.Sprintf("g%d", g+1)
		for i := 0; i < cfg.RowsPerGroup; i++ {
			labels[g*cfg.RowsPerGroup+i] = name
		}
	}

	cols := make([]frame.Column, 0, cfg.Variables+1)
	for v := 0; v < cfg.Variables; v++ {
		values := make([]float64, rows)
		for g := 0; g < cfg.Groups; g++ {
			center := rng.NormFloat64() * cfg.GroupSpread
			for i := 0; i < cfg.RowsPerGroup; i++ {
				values[g*cfg.RowsPerGroup+i] = center + rng.NormFloat64()*cfg.NoiseSpread
			}
		}
		for i := range values {
			if cfg.MissingShare > 0 && rng.Float64() < cfg.MissingShare {
				values[i] = math.NaN()
			}
		}
		cols = append(cols, frame.NewNumeric(fmt.Sprintf("x%d", v+1), values))
	}
	cols = append(cols, frame.NewFactor("group", labels))
	return frame.MustNew(cols...)
}
