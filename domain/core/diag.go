package core

import (
	"fmt"
	"io"
)

// Level classifies a diagnostic record.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Diag is a single structured diagnostic emitted by an engine.
type Diag struct {
	Level   Level
	Message string
	Context map[string]interface{}
}

// Diagnostics accumulates structured diagnostics during a call. Engines
// append to it instead of printing; the caller decides whether and how to
// render. A nil *Diagnostics discards everything, so callers that do not
// care simply pass nil.
type Diagnostics struct {
	Records []Diag
}

// NewDiagnostics creates an empty collector.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

func (d *Diagnostics) append(level Level, message string, kv []interface{}) {
	if d == nil {
		return
	}
	rec := Diag{Level: level, Message: message}
	if len(kv) > 0 {
		rec.Context = make(map[string]interface{}, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			key, ok := kv[i].(string)
			if !ok {
				key = fmt.Sprint(kv[i])
			}
			rec.Context[key] = kv[i+1]
		}
	}
	d.Records = append(d.Records, rec)
}

// Info records an informational notice (verbose-only advisories).
func (d *Diagnostics) Info(message string, kv ...interface{}) {
	d.append(LevelInfo, message, kv)
}

// Warn records a warning about a recoverable condition.
func (d *Diagnostics) Warn(message string, kv ...interface{}) {
	d.append(LevelWarning, message, kv)
}

// Infof records a formatted informational notice.
func (d *Diagnostics) Infof(format string, args ...interface{}) {
	d.append(LevelInfo, fmt.Sprintf(format, args...), nil)
}

// Warnf records a formatted warning.
func (d *Diagnostics) Warnf(format string, args ...interface{}) {
	d.append(LevelWarning, fmt.Sprintf(format, args...), nil)
}

// Merge appends another collector's records, preserving order.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if d == nil || other == nil {
		return
	}
	d.Records = append(d.Records, other.Records...)
}

// HasWarnings reports whether any warning-level record was collected.
func (d *Diagnostics) HasWarnings() bool {
	if d == nil {
		return false
	}
	for _, rec := range d.Records {
		if rec.Level == LevelWarning {
			return true
		}
	}
	return false
}

// Render writes collected records to w, one per line.
func (d *Diagnostics) Render(w io.Writer) {
	if d == nil {
		return
	}
	for _, rec := range d.Records {
		if len(rec.Context) > 0 {
			fmt.Fprintf(w, "[%s] %s %v\n", rec.Level, rec.Message, rec.Context)
		} else {
			fmt.Fprintf(w, "[%s] %s\n", rec.Level, rec.Message)
		}
	}
}
