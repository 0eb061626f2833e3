package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"spws/domain/sharepoint"
)

// DefaultSheetName is used when no sheet name is given.
const DefaultSheetName = "Items"

// maxSheetNameLen is the longest sheet name the format allows.
const maxSheetNameLen = 31

// Writer renders list items into a downloadable document.
type Writer interface {
	Write(sheet string, items []sharepoint.ListItem) (*bytes.Buffer, error)
}

// XLSXWriter writes list items to an XLSX workbook: one header row with the
// union of field names in first-seen order, then one row per item.
type XLSXWriter struct {
	ColumnWidth float64
}

// NewXLSXWriter creates a workbook writer.
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{ColumnWidth: 20}
}

// Write renders items into a single sheet.
func (w *XLSXWriter) Write(sheet string, items []sharepoint.ListItem) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet = SheetName(sheet)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headers := Headers(items)
	if err := w.writeHeaders(f, sheet, headers); err != nil {
		return nil, fmt.Errorf("write headers: %w", err)
	}
	if err := w.writeRows(f, sheet, headers, items); err != nil {
		return nil, fmt.Errorf("write rows: %w", err)
	}
	if len(headers) > 0 {
		last, _ := excelize.ColumnNumberToName(len(headers))
		if err := f.SetColWidth(sheet, "A", last, w.ColumnWidth); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

// Headers returns the union of item field names in first-seen order.
func Headers(items []sharepoint.ListItem) []string {
	seen := make(map[string]bool)
	var headers []string
	for _, item := range items {
		for _, f := range item.Fields {
			if !seen[f.Name] {
				seen[f.Name] = true
				headers = append(headers, f.Name)
			}
		}
	}
	return headers
}

// SheetName makes a list name usable as a sheet name.
func SheetName(name string) string {
	var b []rune
	for _, r := range name {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			r = '_'
		}
		b = append(b, r)
		if len(b) == maxSheetNameLen {
			break
		}
	}
	if len(b) == 0 {
		return DefaultSheetName
	}
	return string(b)
}

func (w *XLSXWriter) writeHeaders(f *excelize.File, sheet string, headers []string) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

func (w *XLSXWriter) writeRows(f *excelize.File, sheet string, headers []string, items []sharepoint.ListItem) error {
	columns := make(map[string]int, len(headers))
	for i, h := range headers {
		columns[h] = i + 1
	}

	for row, item := range items {
		for _, field := range item.Fields {
			// Values stay strings so IDs and lookup values are not reinterpreted.
			cell, _ := excelize.CoordinatesToCellName(columns[field.Name], row+2)
			if err := f.SetCellStr(sheet, cell, field.Value); err != nil {
				return err
			}
		}
	}
	return nil
}
