// Package excel reads indicator frames from XLSX and CSV files. It is the
// file-format boundary: everything past it is an aligned, NaN-free
// series.Frame and the statistical core never sees a file again.
package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"quantsig/domain/series"
	apperrors "quantsig/internal/errors"
)

// DataReader handles reading Excel and CSV files into a series frame.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
}

// NewDataReader creates a reader for the given path; the format is inferred
// from the extension.
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType, sheet: "Sheet1"}
}

// SetSheet overrides the worksheet read from XLSX files.
func (r *DataReader) SetSheet(sheet string) {
	r.sheet = sheet
}

// Frame reads the file into an aligned frame of float columns. The first row
// is the header; a leading "Date" column is skipped, since the core never
// reads timestamps. Every remaining cell must parse as a finite number.
func (r *DataReader) Frame(_ context.Context) (*series.Frame, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, apperrors.DataError(fmt.Sprintf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath), err)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, apperrors.InvalidInputf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, apperrors.DataError("file must have a header row and at least one data row", nil)
	}
	return r.buildFrame(rows)
}

func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, apperrors.DataError("opening Excel file", err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, apperrors.DataError(fmt.Sprintf("reading sheet %s", r.sheet), err)
	}
	return rows, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, apperrors.DataError("opening CSV file", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, apperrors.DataError("reading CSV file", err)
	}
	return rows, nil
}

func (r *DataReader) buildFrame(rows [][]string) (*series.Frame, error) {
	headers := rows[0]
	data := rows[1:]

	frame := series.NewFrame()
	for col, header := range headers {
		name := strings.TrimSpace(header)
		if name == "" || strings.EqualFold(name, "Date") {
			continue
		}
		values := make([]float64, len(data))
		for i, row := range data {
			if col >= len(row) {
				return nil, apperrors.DataError(
					fmt.Sprintf("row %d is missing column %q", i+2, name), nil)
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
			if err != nil {
				return nil, apperrors.DataError(
					fmt.Sprintf("row %d column %q is not numeric: %q", i+2, name, row[col]), err)
			}
			values[i] = v
		}
		if err := frame.AddColumn(name, values); err != nil {
			return nil, apperrors.DataError(fmt.Sprintf("adding column %q", name), err)
		}
	}
	if frame.Width() == 0 {
		return nil, apperrors.DataError("file has no numeric columns", nil)
	}
	return frame, nil
}
