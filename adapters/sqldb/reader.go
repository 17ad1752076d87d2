// Package sqldb loads query results into frames. The database driver is
// the caller's choice; any database/sql-compatible driver works through
// sqlx.
package sqldb

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"wrangle/domain/frame"
)

// Read runs the query and converts the result set into a typed frame.
// Column types follow the driver's scanned Go types: numbers become
// numeric columns, booleans boolean, timestamps time, and everything else
// text. NULLs become missing values.
func Read(ctx context.Context, db *sqlx.DB, query string, args ...interface{}) (*frame.Frame, error) {
	rows, err := db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	cells := make([][]interface{}, len(names))
	for rows.Next() {
		record, err := rows.SliceScan()
		if err != nil {
			return nil, err
		}
		for ci := range names {
			var v interface{}
			if ci < len(record) {
				v = record[ci]
			}
			cells[ci] = append(cells[ci], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	cols := make([]frame.Column, len(names))
	for ci, name := range names {
		cols[ci] = columnFromValues(name, cells[ci])
	}
	return frame.New(cols...)
}

// columnFromValues picks the column kind from the first non-NULL scanned
// value and converts the rest accordingly.
func columnFromValues(name string, values []interface{}) frame.Column {
	kind := frame.KindString
	for _, v := range values {
		if v == nil {
			continue
		}
		switch v.(type) {
		case int64, float64:
			kind = frame.KindNumeric
		case bool:
			kind = frame.KindBool
		case time.Time:
			kind = frame.KindTime
		default:
			kind = frame.KindString
		}
		break
	}

	switch kind {
	case frame.KindNumeric:
		out := make([]float64, len(values))
		for i, v := range values {
			out[i] = numericCell(v)
		}
		return frame.NewNumeric(name, out)
	case frame.KindBool:
		bools := make([]bool, len(values))
		mask := make([]bool, len(values))
		for i, v := range values {
			if b, ok := v.(bool); ok {
				bools[i] = b
				mask[i] = true
			}
		}
		return frame.Column{Name: name, Kind: frame.KindBool, Bools: bools, BoolValid: mask}
	case frame.KindTime:
		times := make([]time.Time, len(values))
		mask := make([]bool, len(values))
		for i, v := range values {
			if t, ok := v.(time.Time); ok {
				times[i] = t
				mask[i] = true
			}
		}
		return frame.Column{Name: name, Kind: frame.KindTime, Times: times, TimeValid: mask}
	}

	strs := make([]string, len(values))
	mask := make([]bool, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		strs[i] = textCell(v)
		mask[i] = true
	}
	return frame.NewStringWithMissing(name, strs, mask)
}

func numericCell(v interface{}) float64 {
	switch x := v.(type) {
	case int64:
		return float64(x)
	case float64:
		return x
	case []byte:
		if f, err := strconv.ParseFloat(string(x), 64); err == nil {
			return f
		}
	}
	return math.NaN()
}

func textCell(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	}
	return fmt.Sprint(v)
}
