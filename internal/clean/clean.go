// Package clean turns raw spreadsheet rows into a validated claims table.
package clean

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/claims-risk-cli/internal/fetcher"
	"github.com/sells-group/claims-risk-cli/internal/model"
)

// ErrNoHeader is returned when the source has no header row at all.
var ErrNoHeader = eris.New("clean: source has no header row")

// Stats counts the coercions applied while cleaning.
type Stats struct {
	RawRows         int
	DroppedEmpty    int
	BadAmounts      int
	BadServiceDates int
	BadEntryDates   int
	FilledDealers   int
	FilledServicers int
}

// Load reads a spreadsheet from disk and cleans it. Any read failure is
// returned as-is; cleaning itself never fails once a header exists.
func Load(ctx context.Context, path string, opts fetcher.Options) (*model.Table, error) {
	sheet, err := fetcher.ReadFile(ctx, path, opts)
	if err != nil {
		return nil, eris.Wrapf(err, "clean: load %s", path)
	}

	table, stats, err := Build(sheet.Header, sheet.Rows)
	if err != nil {
		return nil, err
	}

	zap.L().Info("clean: loaded claims",
		zap.String("path", path),
		zap.Int("raw_rows", stats.RawRows),
		zap.Int("claims", table.Len()),
		zap.Int("dropped_empty", stats.DroppedEmpty),
		zap.Int("bad_amounts", stats.BadAmounts),
		zap.Int("bad_service_dates", stats.BadServiceDates),
	)

	return table, nil
}

// Build maps a header and data rows onto a claims table.
//
// Rows that are blank in every cell are removed. Amounts that fail to parse
// become 0, dates that fail to parse become nil, and empty dealer/servicer
// cells become "Unknown". Zero data rows yields an empty, valid table.
func Build(header []string, rows [][]string) (*model.Table, Stats, error) {
	stats := Stats{RawRows: len(rows)}

	columns := make([]string, len(header))
	colIdx := make(map[string]int, len(header))
	nonEmpty := 0
	for i, h := range header {
		name := strings.TrimSpace(h)
		columns[i] = name
		if name == "" {
			continue
		}
		nonEmpty++
		if _, dup := colIdx[name]; !dup {
			colIdx[name] = i
		}
	}
	if nonEmpty == 0 {
		return nil, stats, ErrNoHeader
	}

	table := &model.Table{Columns: dedupe(columns), Claims: make([]model.Claim, 0, len(rows))}

	for i, row := range rows {
		if isBlank(row) {
			stats.DroppedEmpty++
			continue
		}

		c := model.Claim{
			Row:             i + 1,
			ClaimID:         getCol(row, colIdx, model.ColClaimID),
			VIN:             getCol(row, colIdx, model.ColVIN),
			SellingDealer:   getCol(row, colIdx, model.ColSellingDealer),
			DefaultServicer: getCol(row, colIdx, model.ColDefaultServicer),
			Vehicle:         getCol(row, colIdx, model.ColVehicle),
			Coverage:        getCol(row, colIdx, model.ColCoverage),
		}

		if raw := getCol(row, colIdx, model.ColPaidAmount); raw != "" {
			amt, ok := ParseAmount(raw)
			if !ok {
				stats.BadAmounts++
			}
			c.PaidAmount = amt
		}

		if raw := getCol(row, colIdx, model.ColServiceDate); raw != "" {
			if c.ServiceDate = ParseDate(raw); c.ServiceDate == nil {
				stats.BadServiceDates++
			}
		}
		if raw := getCol(row, colIdx, model.ColEntryDate); raw != "" {
			if c.EntryDate = ParseDate(raw); c.EntryDate == nil {
				stats.BadEntryDates++
			}
		}

		if c.SellingDealer == "" {
			c.SellingDealer = model.UnknownParty
			stats.FilledDealers++
		}
		if c.DefaultServicer == "" {
			c.DefaultServicer = model.UnknownParty
			stats.FilledServicers++
		}

		c.Extra = extras(row, columns, colIdx)
		table.Claims = append(table.Claims, c)
	}

	return table, stats, nil
}

var mappedColumns = map[string]bool{
	model.ColClaimID:         true,
	model.ColVIN:             true,
	model.ColPaidAmount:      true,
	model.ColSellingDealer:   true,
	model.ColDefaultServicer: true,
	model.ColServiceDate:     true,
	model.ColEntryDate:       true,
	model.ColVehicle:         true,
	model.ColCoverage:        true,
}

func extras(row []string, columns []string, colIdx map[string]int) map[string]string {
	var out map[string]string
	for i, name := range columns {
		if name == "" || mappedColumns[name] || colIdx[name] != i || i >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[i])
		if v == "" {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[name] = v
	}
	return out
}

// getCol safely retrieves a trimmed cell value by column name.
func getCol(row []string, colIdx map[string]int, col string) string {
	idx, ok := colIdx[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// dedupe drops blank and repeated header names, keeping first occurrences.
func dedupe(columns []string) []string {
	seen := make(map[string]bool, len(columns))
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
