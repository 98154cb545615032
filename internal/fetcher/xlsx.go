package fetcher

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// XLSXOptions configures the XLSX parser.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// ReadXLSX reads one worksheet and returns its header and data rows.
// Trailing rows that are entirely empty are kept; the cleaning stage drops them.
func ReadXLSX(path string, opts XLSXOptions) (*Sheet, error) {
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

	return splitHeader(rows), nil
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

// rowToStrings renders each cell as text. Date-formatted numeric cells are
// emitted as RFC3339 so the display format (e.g. "m/d/yy h:mm") never
// reaches the date parser.
func rowToStrings(row *xlsx.Row, date1904 bool) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		if cell == nil {
			continue
		}
		cells[j] = cellString(cell, date1904)
	}
	return cells
}

func cellString(cell *xlsx.Cell, date1904 bool) string {
	if cell.Type() == xlsx.CellTypeNumeric && cell.IsTime() {
		if t, err := cell.GetTime(date1904); err == nil {
			return t.Round(time.Second).UTC().Format(time.RFC3339)
		}
	}
	return cell.String()
}
