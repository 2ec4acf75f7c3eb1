// Package importer turns uploaded snapshot files into the engine's raw table
// shape, and serializes exported views back out. It knows nothing about
// classification; it is the file-format boundary only.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tealeg/xlsx/v3"

	"tagview-api/pkg/engine"
)

// ReadSnapshot reads a tabular snapshot from r, dispatching on the file
// extension: .xlsx (vendor export) or .csv.
func ReadSnapshot(r io.Reader, filename string) (*engine.RawTable, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return ReadXLSX(r)
	case ".csv":
		return ReadCSV(r)
	default:
		return nil, fmt.Errorf("unsupported snapshot format %q (want .xlsx or .csv)", filepath.Ext(filename))
	}
}

// ReadSnapshotFile reads a snapshot from disk.
func ReadSnapshotFile(path string) (*engine.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer f.Close()
	return ReadSnapshot(f, path)
}

// ReadXLSX reads the first sheet of an Excel workbook as a flat table: the
// first row is the header, every following non-empty row is data.
func ReadXLSX(r io.Reader) (*engine.RawTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	xlFile, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	if len(xlFile.Sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := xlFile.Sheets[0]
	defer sheet.Close()

	headerRow, err := sheet.Row(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	var columns []string
	for colIdx := 0; colIdx < sheet.MaxCol; colIdx++ {
		cell := headerRow.GetCell(colIdx)
		if cell == nil {
			break
		}
		columns = append(columns, strings.TrimSpace(cell.String()))
	}
	for len(columns) > 0 && columns[len(columns)-1] == "" {
		columns = columns[:len(columns)-1]
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("sheet %q has an empty header row", sheet.Name)
	}

	table := &engine.RawTable{Columns: columns}
	for rowIdx := 1; rowIdx < sheet.MaxRow; rowIdx++ {
		row, err := sheet.Row(rowIdx)
		if err != nil {
			break
		}

		rowData := make(engine.Row, len(columns))
		empty := true
		for colIdx, name := range columns {
			cell := row.GetCell(colIdx)
			if cell == nil {
				continue
			}
			value := strings.TrimSpace(cell.String())
			if value != "" {
				empty = false
			}
			rowData[name] = value
		}
		if empty {
			continue // trailing blank rows are common in vendor exports
		}
		table.Rows = append(table.Rows, rowData)
	}

	return table, nil
}

// ReadCSV reads a comma-delimited snapshot, header first. Rows may be ragged;
// short rows leave the remaining columns blank.
func ReadCSV(r io.Reader) (*engine.RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("snapshot is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF") // UTF-8 BOM
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	table := &engine.RawTable{Columns: columns}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		data := make(engine.Row, len(columns))
		empty := true
		for i, name := range columns {
			if i >= len(record) {
				break
			}
			value := strings.TrimSpace(record[i])
			if value != "" {
				empty = false
			}
			data[name] = value
		}
		if empty {
			continue
		}
		table.Rows = append(table.Rows, data)
	}

	return table, nil
}

// WriteCSV serializes a flat table (header first) as comma-delimited output.
func WriteCSV(w io.Writer, table [][]string) error {
	cw := csv.NewWriter(w)
	for _, row := range table {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX serializes a flat table as a single-sheet Excel workbook.
func WriteXLSX(w io.Writer, table [][]string, sheetName string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}
	for _, row := range table {
		xr := sheet.AddRow()
		for _, value := range row {
			xr.AddCell().SetString(value)
		}
	}
	return file.Write(w)
}

// BuildXLSX is a convenience wrapper returning workbook bytes, used by the
// export handler and tests.
func BuildXLSX(table [][]string, sheetName string) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, table, sheetName); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
