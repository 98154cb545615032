package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/claims-risk-cli/internal/model"
)

const dateLayout = "2006-01-02"

// Output file names.
const (
	FileMultipleClaimsPerVIN = "multiple_claims_per_vin.csv"
	FileHighDollarClaims     = "high_dollar_claims.csv"
	FileMultipleDealers      = "multiple_dealers_per_vin.csv"
	FileRepeatedClaims       = "repeated_claims_timeframe.csv"
	FileDealerStats          = "high_risk_dealers_stats.csv"
	FileDealerClaims         = "high_risk_dealers_claims.csv"
	FileLuxuryStats          = "luxury_vehicle_stats.csv"
	FileLuxuryClaims         = "luxury_vehicle_claims.csv"
	FileCoverageStats        = "coverage_type_stats.csv"
	FileSummaryText          = "summary_report.txt"
	FileHTMLReport           = "risk_report.html"
)

// claimFiles maps detectors to the file holding their flagged claims.
var claimFiles = map[model.DetectorName]string{
	model.DetectorMultipleClaimsPerVIN:  FileMultipleClaimsPerVIN,
	model.DetectorHighDollarClaims:      FileHighDollarClaims,
	model.DetectorMultipleDealersPerVIN: FileMultipleDealers,
	model.DetectorRepeatedClaims:        FileRepeatedClaims,
	model.DetectorHighClaimsPerDealer:   FileDealerClaims,
	model.DetectorLuxuryVehicles:        FileLuxuryClaims,
}

// statsFiles maps detectors to the file holding their group statistics.
var statsFiles = map[model.DetectorName]string{
	model.DetectorHighClaimsPerDealer: FileDealerStats,
	model.DetectorLuxuryVehicles:      FileLuxuryStats,
	model.DetectorCoverageTypes:       FileCoverageStats,
}

// WriteFindingCSVs writes one CSV per non-empty finding into dir and returns
// the paths written. The coverage stats file is always written. Claim files
// use the source header, in source order; the luxury file adds a Brand column.
func WriteFindingCSVs(dir string, columns []string, findings *model.Findings) ([]string, error) {
	var written []string
	for _, f := range findings.All() {
		if f.Err != nil {
			continue
		}
		always := f.Detector == model.DetectorCoverageTypes
		if f.Empty() && !always {
			continue
		}

		if name, ok := statsFiles[f.Detector]; ok {
			path := filepath.Join(dir, name)
			if err := writeStatsCSV(path, f); err != nil {
				return written, err
			}
			written = append(written, path)
		}
		if name, ok := claimFiles[f.Detector]; ok {
			cols := columns
			if f.Detector == model.DetectorLuxuryVehicles && !slices.Contains(columns, "Brand") {
				cols = append(append([]string{}, columns...), "Brand")
			}
			path := filepath.Join(dir, name)
			if err := writeClaimsCSV(path, cols, f.Claims); err != nil {
				return written, err
			}
			written = append(written, path)
		}
	}
	return written, nil
}

func writeClaimsCSV(path string, columns []string, claims []model.Claim) error {
	file, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create %s", filepath.Base(path))
	}
	defer file.Close() //nolint:errcheck

	w := csv.NewWriter(file)
	if err := w.Write(columns); err != nil {
		return eris.Wrap(err, "report: write header")
	}
	for _, c := range claims {
		if err := w.Write(claimRow(columns, c)); err != nil {
			return eris.Wrap(err, "report: write row")
		}
	}
	w.Flush()
	return eris.Wrapf(w.Error(), "report: flush %s", filepath.Base(path))
}

func writeStatsCSV(path string, f model.Finding) error {
	file, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create %s", filepath.Base(path))
	}
	defer file.Close() //nolint:errcheck

	header := []string{f.GroupBy, "claim_count", "total_paid", "avg_paid"}
	withMax := f.Detector != model.DetectorHighClaimsPerDealer
	if withMax {
		header = append(header, "max_paid")
	}

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "report: write header")
	}
	for _, s := range f.Stats {
		row := []string{
			s.Key,
			strconv.Itoa(s.ClaimCount),
			formatFloat(s.TotalPaid),
			formatFloat(s.AvgPaid),
		}
		if withMax {
			row = append(row, formatFloat(s.MaxPaid))
		}
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "report: write row")
		}
	}
	w.Flush()
	return eris.Wrapf(w.Error(), "report: flush %s", filepath.Base(path))
}

// claimRow renders a claim in the given column order. Columns not mapped to
// a claim field come from the claim's extra cells.
func claimRow(columns []string, c model.Claim) []string {
	row := make([]string, len(columns))
	for i, col := range columns {
		switch col {
		case model.ColClaimID:
			row[i] = c.ClaimID
		case model.ColVIN:
			row[i] = c.VIN
		case model.ColPaidAmount:
			row[i] = formatFloat(c.PaidAmount)
		case model.ColSellingDealer:
			row[i] = c.SellingDealer
		case model.ColDefaultServicer:
			row[i] = c.DefaultServicer
		case model.ColServiceDate:
			if c.ServiceDate != nil {
				row[i] = c.ServiceDate.Format(dateLayout)
			}
		case model.ColEntryDate:
			if c.EntryDate != nil {
				row[i] = c.EntryDate.Format(dateLayout)
			}
		case model.ColVehicle:
			row[i] = c.Vehicle
		case model.ColCoverage:
			row[i] = c.Coverage
		case "Brand":
			row[i] = c.Brand
			if row[i] == "" {
				row[i] = c.Extra[col]
			}
		default:
			row[i] = c.Extra[col]
		}
	}
	return row
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
