package fileio

import (
	"math"
	"strconv"
	"strings"
	"time"

	"wrangle/domain/frame"
)

// SniffConfig holds the ratio thresholds deciding each column's type from
// its cell text.
type SniffConfig struct {
	// NumericThreshold is the share of non-missing cells that must parse
	// as numbers for a numeric column; unparsable cells become missing.
	NumericThreshold float64
	// BoolThreshold and TimeThreshold work the same way for boolean and
	// timestamp columns.
	BoolThreshold float64
	TimeThreshold float64
	// MaxLevels caps the distinct values of a factor column; above it the
	// column stays plain text.
	MaxLevels int
}

// DefaultSniffConfig returns the default thresholds.
func DefaultSniffConfig() SniffConfig {
	return SniffConfig{
		NumericThreshold: 0.8,
		BoolThreshold:    0.9,
		TimeThreshold:    0.8,
		MaxLevels:        100,
	}
}

var missingTokens = map[string]bool{
	"": true, "na": true, "n/a": true, "null": true, "nan": true,
}

func isMissingCell(s string) bool {
	return missingTokens[strings.ToLower(s)]
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

func parseTimeCell(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseBoolCell(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true", "yes":
		return true, true
	case "false", "no":
		return false, true
	}
	return false, false
}

// sniffColumn decides a column's kind from its cells and builds it.
// Numeric wins first, then boolean, then timestamp, then factor, then
// plain text, mirroring most-restrictive-first coercion.
func sniffColumn(name string, cells []string, cfg SniffConfig) frame.Column {
	valid := 0
	numeric := 0
	boolean := 0
	timestamp := 0
	distinct := make(map[string]bool)
	for _, cell := range cells {
		if isMissingCell(cell) {
			continue
		}
		valid++
		distinct[cell] = true
		if _, err := strconv.ParseFloat(cell, 64); err == nil {
			numeric++
		}
		if _, ok := parseBoolCell(cell); ok {
			boolean++
		}
		if _, ok := parseTimeCell(cell); ok {
			timestamp++
		}
	}

	if valid == 0 {
		return frame.NewNumeric(name, nanColumn(len(cells)))
	}

	switch {
	case float64(numeric)/float64(valid) >= cfg.NumericThreshold:
		values := make([]float64, len(cells))
		for i, cell := range cells {
			v, err := strconv.ParseFloat(cell, 64)
			if isMissingCell(cell) || err != nil {
				values[i] = math.NaN()
				continue
			}
			values[i] = v
		}
		return frame.NewNumeric(name, values)

	case float64(boolean)/float64(valid) >= cfg.BoolThreshold:
		values := make([]bool, len(cells))
		mask := make([]bool, len(cells))
		for i, cell := range cells {
			if b, ok := parseBoolCell(cell); ok {
				values[i] = b
				mask[i] = true
			}
		}
		return frame.Column{Name: name, Kind: frame.KindBool, Bools: values, BoolValid: mask}

	case float64(timestamp)/float64(valid) >= cfg.TimeThreshold:
		values := make([]time.Time, len(cells))
		mask := make([]bool, len(cells))
		for i, cell := range cells {
			if t, ok := parseTimeCell(cell); ok {
				values[i] = t
				mask[i] = true
			}
		}
		return frame.Column{Name: name, Kind: frame.KindTime, Times: values, TimeValid: mask}

	case len(distinct) <= cfg.MaxLevels:
		labels := make([]string, len(cells))
		for i, cell := range cells {
			if !isMissingCell(cell) {
				labels[i] = cell
			}
		}
		return frame.NewFactor(name, labels)
	}

	values := make([]string, len(cells))
	mask := make([]bool, len(cells))
	for i, cell := range cells {
		if !isMissingCell(cell) {
			values[i] = cell
			mask[i] = true
		}
	}
	return frame.NewStringWithMissing(name, values, mask)
}

func nanColumn(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
