package tabular

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// XLSXOptions configures ReadXLSX.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// ReadXLSX reads every row of one sheet as trimmed strings.
func ReadXLSX(path string, opts XLSXOptions) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		rows = append(rows, rowToStrings(row, f.Date1904))
	}
	return rows, nil
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex < 0 || opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

// xlsxTimeLayout renders date cells in a form timing.ParseString reads. The
// wall clock is kept; the reader applies the configured zone.
const xlsxTimeLayout = "2006-01-02T15:04:05"

func rowToStrings(row *xlsx.Row, date1904 bool) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cellString(cell, date1904)
	}
	return cells
}

// cellString returns the display text of cell, except that date-formatted
// numeric cells yield their native value rounded to the second.
func cellString(cell *xlsx.Cell, date1904 bool) string {
	if cell.Type() == xlsx.CellTypeNumeric && cell.IsTime() {
		if t, err := cell.GetTime(date1904); err == nil {
			return t.Round(time.Second).Format(xlsxTimeLayout)
		}
	}
	return strings.TrimSpace(cell.String())
}
