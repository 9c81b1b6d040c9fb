package audit

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// maxSheetName is the sheet name length Excel accepts.
const maxSheetName = 31

// workbook wraps an excelize file with a cursor per current sheet.
type workbook struct {
	file  *excelize.File
	sheet string
	row   int
}

func newWorkbook() *workbook {
	return &workbook{file: excelize.NewFile()}
}

// addSheet starts a new sheet and moves the cursor to its first row. The
// first call renames the default Sheet1 instead of adding a second sheet.
func (w *workbook) addSheet(name string) error {
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}

	if w.sheet == "" {
		if err := w.file.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("rename default sheet to %s: %w", name, err)
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}

	w.sheet = name
	w.row = 1
	return nil
}

// header writes a bold column-title row and widens the columns to fit
// guest names and email addresses.
func (w *workbook) header(columns []string) error {
	if err := w.writeRow(toCells(columns)); err != nil {
		return err
	}

	style, err := w.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		first, _ := excelize.CoordinatesToCellName(1, w.row-1)
		last, _ := excelize.CoordinatesToCellName(len(columns), w.row-1)
		_ = w.file.SetCellStyle(w.sheet, first, last, style)
	}

	startCol, _ := excelize.ColumnNumberToName(1)
	endCol, _ := excelize.ColumnNumberToName(len(columns))
	_ = w.file.SetColWidth(w.sheet, startCol, endCol, 16)
	return nil
}

func (w *workbook) writeRow(row []interface{}) error {
	if w.sheet == "" {
		return fmt.Errorf("no active sheet")
	}
	for i, val := range row {
		cell, err := excelize.CoordinatesToCellName(i+1, w.row)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.sheet, cell, val); err != nil {
			return err
		}
	}
	w.row++
	return nil
}

func (w *workbook) save(wr io.Writer) error {
	return w.file.Write(wr)
}

func (w *workbook) close() error {
	return w.file.Close()
}

func toCells(columns []string) []interface{} {
	cells := make([]interface{}, len(columns))
	for i, c := range columns {
		cells[i] = c
	}
	return cells
}
