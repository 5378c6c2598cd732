// Package source reads spreadsheet files into header-plus-rows tables.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// ErrEmpty is returned when a source has no header row.
var ErrEmpty = errors.New("spreadsheet has no header row")

// Table is an ordered sequence of rows sharing one header.
type Table struct {
	Header []string
	Rows   [][]string
}

// Cell returns row i, column j, or "" when the row is short.
func (t Table) Cell(i, j int) string {
	if i < 0 || i >= len(t.Rows) || j < 0 || j >= len(t.Rows[i]) {
		return ""
	}
	return t.Rows[i][j]
}

// IsCSV reports whether the file name carries a .csv extension.
func IsCSV(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}

// ReadFile loads a table from a .csv or .xlsx file.
func ReadFile(path string) (Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return Table{}, fmt.Errorf("source: failed to open file: %w", err)
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return Table{}, fmt.Errorf("source: %s: %w", filepath.Base(path), ErrUnsupportedFormat)
	}
}

// ReadCSV reads a CSV stream. The first record is the header; rows may have
// any number of fields.
func ReadCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Table{}, fmt.Errorf("source: %w", ErrEmpty)
		}
		return Table{}, fmt.Errorf("source: failed to read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	var rows [][]string
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Table{}, fmt.Errorf("source: failed to read record: %w", err)
		}
		if blank(record) {
			continue
		}
		rows = append(rows, record)
	}

	return Table{Header: header, Rows: rows}, nil
}

// ReadXLSX reads the first sheet of an Excel workbook.
func ReadXLSX(path string) (Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("source: opening Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, fmt.Errorf("source: %w", ErrEmpty)
	}

	all, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("source: reading sheet %q: %w", sheets[0], err)
	}
	if len(all) == 0 {
		return Table{}, fmt.Errorf("source: %w", ErrEmpty)
	}

	var rows [][]string
	for _, record := range all[1:] {
		if blank(record) {
			continue
		}
		rows = append(rows, record)
	}
	return Table{Header: all[0], Rows: rows}, nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
