// Package fileio reads and writes frames as CSV and Excel files. Column
// types are sniffed from the cell text using ratio thresholds, so files
// round-trip into typed columns without a schema.
package fileio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"wrangle/domain/core"
	"wrangle/domain/frame"
)

// Metadata identifies a frame read from an external source. Fingerprint
// digests the raw cell text, so rereading an unchanged file yields the same
// value while ID is unique per read.
type Metadata struct {
	ID          uuid.UUID
	Path        string
	Format      string // "csv" or "xlsx"
	Sheet       string
	Rows        int
	Columns     int
	Fingerprint core.Hash
	ReadAt      time.Time
}

// Reader loads CSV or Excel files into frames.
type Reader struct {
	path   string
	format string
	sheet  string
	sniff  SniffConfig
}

// NewReader creates a reader for the given path, picking the format from
// the file extension.
func NewReader(path string) *Reader {
	format := "xlsx"
	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		format = "csv"
	}
	return &Reader{path: path, format: format, sheet: "Sheet1", sniff: DefaultSniffConfig()}
}

// WithSheet sets the Excel sheet name (default "Sheet1").
func (r *Reader) WithSheet(sheet string) *Reader {
	r.sheet = sheet
	return r
}

// WithSniffConfig overrides the type-sniffing thresholds.
func (r *Reader) WithSniffConfig(cfg SniffConfig) *Reader {
	r.sniff = cfg
	return r
}

// Read loads the file into a typed frame.
func (r *Reader) Read() (*frame.Frame, *Metadata, error) {
	if _, err := os.Stat(r.path); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.format), r.path)
	}

	var rows [][]string
	var err error
	switch r.format {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		err = fmt.Errorf("unsupported file type: %s", r.format)
	}
	if err != nil {
		return nil, nil, err
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("%s needs a header row and at least one data row", r.path)
	}

	f, err := framify(rows, r.sniff)
	if err != nil {
		return nil, nil, err
	}
	meta := &Metadata{
		ID:          uuid.New(),
		Path:        r.path,
		Format:      r.format,
		Sheet:       r.sheet,
		Rows:        f.Rows(),
		Columns:     f.NumColumns(),
		Fingerprint: core.NewCellHash(rows),
		ReadAt:      time.Now(),
	}
	return f, meta, nil
}

func (r *Reader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

func (r *Reader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", r.sheet, err)
	}
	return rows, nil
}

// framify converts header + data rows into typed columns.
func framify(rows [][]string, cfg SniffConfig) (*frame.Frame, error) {
	header := rows[0]
	data := rows[1:]

	cols := make([]frame.Column, 0, len(header))
	for ci, rawName := range header {
		name := strings.TrimSpace(rawName)
		if name == "" {
			name = fmt.Sprintf("column_%d", ci+1)
		}
		cells := make([]string, len(data))
		for ri, row := range data {
			if ci < len(row) {
				cells[ri] = strings.TrimSpace(row[ci])
			}
		}
		cols = append(cols, sniffColumn(name, cells, cfg))
	}
	return frame.New(cols...)
}
