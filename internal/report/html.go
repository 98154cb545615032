package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/claims-risk-cli/internal/model"
)

//go:embed templates/risk_report.html.tmpl
var templateFS embed.FS

var reportTmpl = template.Must(template.ParseFS(templateFS, "templates/risk_report.html.tmpl"))

// topN caps the ranked tables in the HTML report.
const topN = 10

type htmlSection struct {
	Title      string
	Level      string
	Caption    string
	TableTitle string
	Headers    []string
	Rows       [][]string
}

type htmlReport struct {
	GeneratedAt string
	Source      string
	Totals      []statLine
	Sections    []htmlSection
	Skipped     []statLine
}

// WriteHTML renders the HTML risk report.
func WriteHTML(w io.Writer, s model.Summary, findings *model.Findings) error {
	data := htmlReport{
		GeneratedAt: s.GeneratedAt.Format("2006-01-02 15:04:05"),
		Source:      s.Source,
		Totals: []statLine{
			{"Total Claims Analyzed", count(s.TotalClaims)},
			{"Total Amount Paid", money(s.TotalPaid)},
			{"Average Claim Amount", money(s.AvgClaimAmount)},
			{"Maximum Claim Amount", money(s.MaxClaimAmount)},
			{"Unique VINs", count(s.UniqueVINs)},
			{"Unique Dealers", count(s.UniqueDealers)},
		},
	}

	for _, f := range findings.All() {
		if f.Err != nil {
			data.Skipped = append(data.Skipped, statLine{f.Detector.Title(), f.Err.Error()})
			continue
		}
		if sec, ok := buildSection(f); ok {
			data.Sections = append(data.Sections, sec)
		}
	}

	return eris.Wrap(reportTmpl.Execute(w, data), "report: render html")
}

// WriteHTMLFile writes the HTML report into dir and returns its path.
func WriteHTMLFile(dir string, s model.Summary, findings *model.Findings) (string, error) {
	path := filepath.Join(dir, FileHTMLReport)
	f, err := os.Create(path)
	if err != nil {
		return "", eris.Wrap(err, "report: create html file")
	}
	defer f.Close() //nolint:errcheck

	if err := WriteHTML(f, s, findings); err != nil {
		return "", err
	}
	return path, nil
}

func buildSection(f model.Finding) (htmlSection, bool) {
	if f.Empty() {
		return htmlSection{}, false
	}
	sec := htmlSection{Title: f.Detector.Title()}

	switch f.Detector {
	case model.DetectorMultipleClaimsPerVIN:
		sec.Level = "high"
		sec.Caption = fmt.Sprintf("Found %s VINs with multiple claims", count(len(f.Stats)))
		sec.TableTitle = "Top VINs by Claim Count"
		sec.Headers = []string{"VIN", "Claim Count", "Total Paid", "Vehicle"}
		for _, st := range head(f.Stats, topN) {
			sec.Rows = append(sec.Rows, []string{st.Key, count(st.ClaimCount), money(st.TotalPaid), st.Vehicle})
		}

	case model.DetectorHighDollarClaims:
		sec.Level = "high"
		sec.Caption = fmt.Sprintf("Found %s high dollar claims above %s", count(len(f.Claims)), money(f.Threshold))
		sec.TableTitle = "Top High Dollar Claims"
		sec.Headers = []string{"Claim #", "Paid Amount", "VIN", "Vehicle", "Selling Dealer"}
		claims := make([]model.Claim, len(f.Claims))
		copy(claims, f.Claims)
		sort.SliceStable(claims, func(i, j int) bool { return claims[i].PaidAmount > claims[j].PaidAmount })
		for _, c := range head(claims, topN) {
			sec.Rows = append(sec.Rows, []string{c.ClaimID, money(c.PaidAmount), c.VIN, c.Vehicle, c.SellingDealer})
		}

	case model.DetectorMultipleDealersPerVIN:
		sec.Level = "high"
		sec.Caption = fmt.Sprintf("Found %s VINs with claims from multiple dealers", count(len(f.Stats)))
		sec.TableTitle = "VINs with Multiple Dealers"
		sec.Headers = []string{"VIN", "Vehicle", "Dealers", "Claim Count", "Total Paid"}
		for _, st := range f.Stats {
			sec.Rows = append(sec.Rows, []string{st.Key, st.Vehicle, strings.Join(st.Dealers, ", "), count(st.ClaimCount), money(st.TotalPaid)})
		}

	case model.DetectorRepeatedClaims:
		sec.Level = "high"
		sec.Caption = fmt.Sprintf("Found %s VINs with repeated claims within %s days", count(len(f.Stats)), count(int(f.Threshold)))
		sec.TableTitle = "Top VINs by Claim Count"
		sec.Headers = []string{"VIN", "Claim Count", "Total Paid", "Vehicle"}
		for _, st := range head(f.Stats, topN) {
			sec.Rows = append(sec.Rows, []string{st.Key, count(st.ClaimCount), money(st.TotalPaid), st.Vehicle})
		}

	case model.DetectorHighClaimsPerDealer:
		sec.Level = "medium"
		sec.Caption = fmt.Sprintf("Found %s dealers with high claim frequency or amounts", count(len(f.Stats)))
		sec.TableTitle = "Top Dealers by Total Paid Amount"
		sec.Headers = []string{"Selling Dealer", "Claim Count", "Total Paid", "Average Paid"}
		for _, st := range head(f.Stats, topN) {
			sec.Rows = append(sec.Rows, []string{st.Key, count(st.ClaimCount), money(st.TotalPaid), money(st.AvgPaid)})
		}

	case model.DetectorLuxuryVehicles:
		sec.Level = "medium"
		sec.Caption = fmt.Sprintf("Found %s luxury brands with claims", count(len(f.Stats)))
		sec.TableTitle = "Luxury Brands by Total Paid Amount"
		sec.Headers = []string{"Brand", "Claim Count", "Total Paid", "Average Paid", "Maximum Paid"}
		sec.Rows = statRowsWithMax(f.Stats)

	case model.DetectorCoverageTypes:
		sec.Level = "low"
		sec.Caption = fmt.Sprintf("Analyzed %s different coverage types", count(len(f.Stats)))
		sec.TableTitle = "Coverage Types by Total Paid Amount"
		sec.Headers = []string{"Coverage Type", "Claim Count", "Total Paid", "Average Paid", "Maximum Paid"}
		sec.Rows = statRowsWithMax(f.Stats)

	default:
		return htmlSection{}, false
	}
	return sec, true
}

func statRowsWithMax(stats []model.GroupStats) [][]string {
	rows := make([][]string, 0, len(stats))
	for _, st := range stats {
		rows = append(rows, []string{st.Key, count(st.ClaimCount), money(st.TotalPaid), money(st.AvgPaid), money(st.MaxPaid)})
	}
	return rows
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
