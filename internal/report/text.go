package report

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/claims-risk-cli/internal/model"
)

// printer formats counts and currency with US grouping separators.
var printer = message.NewPrinter(language.AmericanEnglish)

func money(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

func count(n int) string {
	return printer.Sprintf("%d", n)
}

type statLine struct {
	Label string
	Value string
}

// patternLines renders the populated fields of a pattern's stats.
func patternLines(p model.PatternStats, name model.DetectorName) []statLine {
	var lines []statLine
	switch name {
	case model.DetectorMultipleClaimsPerVIN, model.DetectorMultipleDealersPerVIN, model.DetectorRepeatedClaims:
		lines = append(lines,
			statLine{"VINs Flagged", count(p.VINsFlagged)},
			statLine{"Claims Flagged", count(p.ClaimsFlagged)})
	case model.DetectorHighDollarClaims:
		lines = append(lines,
			statLine{"Claims Flagged", count(p.ClaimsFlagged)},
			statLine{"Total Amount", money(p.TotalAmount)})
	case model.DetectorHighClaimsPerDealer:
		lines = append(lines,
			statLine{"Dealers Flagged", count(p.DealersFlagged)},
			statLine{"Claims Flagged", count(p.ClaimsFlagged)})
	case model.DetectorLuxuryVehicles:
		lines = append(lines,
			statLine{"Brands Flagged", count(p.BrandsFlagged)},
			statLine{"Claims Flagged", count(p.ClaimsFlagged)})
	case model.DetectorCoverageTypes:
		lines = append(lines, statLine{"Coverage Types", count(p.CoverageTypes)})
	default:
		lines = append(lines, statLine{"Claims Flagged", count(p.ClaimsFlagged)})
	}
	return lines
}

// orderedPatterns returns the summary's pattern names in canonical order,
// followed by any unknown names sorted alphabetically.
func orderedPatterns(s model.Summary) []model.DetectorName {
	var out []model.DetectorName
	seen := make(map[model.DetectorName]bool)
	for _, name := range model.DetectorOrder {
		if _, ok := s.RiskPatterns[name]; ok {
			out = append(out, name)
			seen[name] = true
		}
	}
	var rest []model.DetectorName
	for name := range s.RiskPatterns {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	return append(out, rest...)
}

// WriteText renders the plain-text summary report.
func WriteText(w io.Writer, s model.Summary) error {
	p := &errWriter{w: w}

	p.line("HIGH RISK PATTERN DETECTION SUMMARY")
	p.line("===================================")
	p.line("")
	if s.Source != "" {
		p.line("Source: " + s.Source)
	}
	p.line("Total Claims Analyzed: " + count(s.TotalClaims))
	p.line("Total Amount Paid: " + money(s.TotalPaid))
	p.line("Average Claim Amount: " + money(s.AvgClaimAmount))
	p.line("Maximum Claim Amount: " + money(s.MaxClaimAmount))
	p.line("Unique VINs: " + count(s.UniqueVINs))
	p.line("Unique Dealers: " + count(s.UniqueDealers))
	p.line("")

	p.line("RISK PATTERNS DETECTED")
	p.line("=====================")
	p.line("")
	for _, name := range orderedPatterns(s) {
		p.line(name.Title() + ":")
		for _, l := range patternLines(s.RiskPatterns[name], name) {
			p.line("  - " + l.Label + ": " + l.Value)
		}
		p.line("")
	}

	if len(s.Errors) > 0 {
		p.line("SKIPPED DETECTORS")
		p.line("=================")
		p.line("")
		names := make([]model.DetectorName, 0, len(s.Errors))
		for name := range s.Errors {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
		for _, name := range names {
			p.line("  - " + name.Title() + ": " + s.Errors[name])
		}
	}

	return eris.Wrap(p.err, "report: write summary text")
}

// WriteTextFile writes the summary report into dir and returns its path.
func WriteTextFile(dir string, s model.Summary) (string, error) {
	path := filepath.Join(dir, FileSummaryText)
	f, err := os.Create(path)
	if err != nil {
		return "", eris.Wrap(err, "report: create summary file")
	}
	defer f.Close() //nolint:errcheck

	if err := WriteText(f, s); err != nil {
		return "", err
	}
	return path, nil
}

// errWriter stops writing after the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) line(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s+"\n")
}
