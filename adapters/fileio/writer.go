package fileio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"wrangle/domain/frame"
)

// Write saves the frame to path as CSV or Excel, chosen by extension.
// Missing values become empty cells.
func Write(f *frame.Frame, path string) error {
	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		return writeCSV(f, path)
	}
	return writeExcel(f, path, "Sheet1")
}

func writeCSV(f *frame.Frame, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(f.Names()); err != nil {
		return err
	}
	record := make([]string, f.NumColumns())
	for i := 0; i < f.Rows(); i++ {
		for ci := 0; ci < f.NumColumns(); ci++ {
			label, ok := f.ColumnAt(ci).Label(i)
			if !ok {
				label = ""
			}
			record[ci] = label
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeExcel(f *frame.Frame, path, sheet string) error {
	x := excelize.NewFile()
	defer x.Close()

	for ci, name := range f.Names() {
		cell, err := excelize.CoordinatesToCellName(ci+1, 1)
		if err != nil {
			return err
		}
		if err := x.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}
	for i := 0; i < f.Rows(); i++ {
		for ci := 0; ci < f.NumColumns(); ci++ {
			cell, err := excelize.CoordinatesToCellName(ci+1, i+2)
			if err != nil {
				return err
			}
			col := f.ColumnAt(ci)
			if col.Missing(i) {
				continue
			}
			var value interface{}
			switch col.Kind {
			case frame.KindNumeric:
				value = col.Floats[i]
			case frame.KindBool:
				value = col.Bools[i]
			case frame.KindTime:
				value = col.Times[i]
			default:
				label, _ := col.Label(i)
				value = label
			}
			if err := x.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return x.SaveAs(path)
}
