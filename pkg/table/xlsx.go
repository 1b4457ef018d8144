package table

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

// WriteXLSX exports body as a single-sheet workbook. The header row holds the
// field names so the file can be imported back; placeholder rows are not
// exported.
func WriteXLSX(w io.Writer, body Body) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := body.Resource
	if sheet == "" {
		sheet = "Sheet1"
	}
	if len(sheet) > maxSheetName {
		sheet = sheet[:maxSheetName]
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("table: name sheet: %w", err)
		}
	}

	header := make([]any, 0, len(body.Columns))
	for _, column := range body.Columns {
		header = append(header, column.Field)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("table: write header: %w", err)
	}

	line := 2
	for _, row := range body.Rows {
		if row.Placeholder {
			continue
		}
		cells := make([]any, 0, len(row.Cells))
		for _, cell := range row.Cells {
			cells = append(cells, cell)
		}
		axis, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			return fmt.Errorf("table: row %d: %w", line, err)
		}
		if err := f.SetSheetRow(sheet, axis, &cells); err != nil {
			return fmt.Errorf("table: write row %d: %w", line, err)
		}
		line++
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("table: write workbook: %w", err)
	}
	return nil
}
