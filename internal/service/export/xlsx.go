package export

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"VolDash/internal/domain/service"

	"github.com/xuri/excelize/v2"
)

// XLSXExporter writes selected table rows into an Excel workbook.
type XLSXExporter struct{}

func NewXLSXExporter() *XLSXExporter { return &XLSXExporter{} }

// Workbook writes one sheet per section, named after the table. Row 1 holds
// the column names. Cells that parse as numbers are stored as numbers.
func (x *XLSXExporter) Workbook(sections []service.SheetSection) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, sec := range sections {
		sheet := string(sec.Table)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return nil, fmt.Errorf("sheet %s: %w", sheet, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}

		header := make([]interface{}, len(sec.Columns))
		for j, c := range sec.Columns {
			header[j] = c
		}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return nil, fmt.Errorf("sheet %s header: %w", sheet, err)
		}

		for r, rec := range sec.Rows {
			row := make([]interface{}, len(sec.Columns))
			for j, c := range sec.Columns {
				row[j] = cellValue(rec[c])
			}
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return nil, fmt.Errorf("sheet %s row %d: %w", sheet, r+2, err)
			}
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func cellValue(s string) interface{} {
	t := strings.TrimSpace(s)
	if t == "" {
		return s
	}
	if v, err := strconv.ParseFloat(t, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		return v
	}
	return s
}
