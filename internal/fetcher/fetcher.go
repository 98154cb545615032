// Package fetcher reads claims spreadsheets (XLSX and CSV) into raw string tables.
package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Sheet is a raw table: the first row of the source is the header, every
// following row is data. Cells are untyped strings.
type Sheet struct {
	Header []string
	Rows   [][]string
}

// Options configures ReadFile.
type Options struct {
	SheetName string // XLSX only
	Charset   string // CSV only; e.g. "windows-1252"
}

// ReadFile loads a spreadsheet from disk, choosing the parser by extension.
// Files ending in .xlsx are read as workbooks; anything else is parsed as CSV.
func ReadFile(ctx context.Context, path string, opts Options) (*Sheet, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(path, XLSXOptions{SheetName: opts.SheetName})
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: open file")
	}
	defer f.Close() //nolint:errcheck

	return ReadCSV(ctx, f, CSVOptions{Charset: opts.Charset, LazyQuotes: true})
}

func splitHeader(rows [][]string) *Sheet {
	s := &Sheet{}
	if len(rows) == 0 {
		return s
	}
	s.Header = rows[0]
	s.Rows = rows[1:]
	return s
}
