package frame

import (
	"math"
	"strconv"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ToNumeric converts a column of any supported kind into a float64 vector
// with NaN marking missing entries. This is the single coercion rule shared
// by every numeric engine:
//
//   - numeric: returned as a copy
//   - bool: false/true become 0/1
//   - time: seconds since the Unix epoch
//   - factor: if every level label parses as a number, the parsed values;
//     otherwise dense codes 1..k in level order
//   - string: converted to a factor first, then the factor rule
//
// ok is false for kinds the engines should pass through untouched.
func ToNumeric(c *Column) ([]float64, bool) {
	switch c.Kind {
	case KindNumeric:
		return append([]float64(nil), c.Floats...), true
	case KindBool:
		out := make([]float64, len(c.Bools))
		for i, b := range c.Bools {
			switch {
			case !c.BoolValid[i]:
				out[i] = math.NaN()
			case b:
				out[i] = 1
			}
		}
		return out, true
	case KindTime:
		out := make([]float64, len(c.Times))
		for i := range c.Times {
			if !c.TimeValid[i] {
				out[i] = math.NaN()
				continue
			}
			out[i] = float64(c.Times[i].Unix())
		}
		return out, true
	case KindFactor:
		return factorToNumeric(c), true
	case KindString:
		labels := make([]string, len(c.Strs))
		for i, s := range c.Strs {
			if c.StrValid[i] {
				labels[i] = s
			}
		}
		fac := NewFactor(c.Name, labels)
		return factorToNumeric(&fac), true
	}
	return nil, false
}

func factorToNumeric(c *Column) []float64 {
	parsed := make([]float64, len(c.Levels))
	numericLevels := true
	for i, level := range c.Levels {
		v, err := strconv.ParseFloat(level, 64)
		if err != nil {
			numericLevels = false
			break
		}
		parsed[i] = v
	}

	out := make([]float64, len(c.Codes))
	for i, code := range c.Codes {
		switch {
		case code < 0:
			out[i] = math.NaN()
		case numericLevels:
			out[i] = parsed[code]
		default:
			out[i] = float64(code + 1)
		}
	}
	return out
}

// IsNumeric reports whether a column holds native numeric values. Used as
// the default eligibility test for numeric transforms.
func IsNumeric(c *Column) bool {
	return c.Kind == KindNumeric
}

// IsCategorical reports whether a column holds factor or string values.
func IsCategorical(c *Column) bool {
	return c.Kind == KindFactor || c.Kind == KindString
}
