package export

import (
	"fmt"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv; charset=utf-8"
)

// Sheet is a single worksheet: a header row followed by data rows.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
	// Widths sets column widths by index. Missing entries keep the default.
	Widths []float64
}

// XLSX renders sheet as an Excel workbook with a bold, shaded header row.
func XLSX(sheet Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	name := sheet.Name
	if name == "" {
		name = "Sheet1"
	}
	index, err := f.NewSheet(name)
	if err != nil {
		return nil, err
	}
	if name != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}
	f.SetActiveSheet(index)

	for c, v := range sheet.Header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(name, cell, v); err != nil {
			return nil, err
		}
	}
	for r, values := range sheet.Rows {
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(name, cell, v); err != nil {
				return nil, err
			}
		}
	}

	for c, width := range sheet.Widths {
		if width <= 0 {
			continue
		}
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetColWidth(name, col, col, width)
	}

	if len(sheet.Header) > 0 {
		style, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
		})
		if err != nil {
			return nil, err
		}
		last, _ := excelize.CoordinatesToCellName(len(sheet.Header), 1)
		_ = f.SetCellStyle(name, "A1", last, style)
		_ = f.SetPanes(name, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// CSV marshals a slice of structs tagged with `csv:"..."`.
func CSV(rows interface{}) ([]byte, error) {
	out, err := gocsv.MarshalBytes(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return out, nil
}
