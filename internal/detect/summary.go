package detect

import (
	"time"

	"github.com/sells-group/claims-risk-cli/internal/model"
)

// Summarize assembles the run summary from the table and the findings.
// Findings that are empty are omitted; findings that failed are listed
// under Errors. It never fails, whatever subset of detectors produced output.
func Summarize(t *model.Table, findings *model.Findings) model.Summary {
	s := model.Summary{
		GeneratedAt:  time.Now().UTC(),
		RiskPatterns: make(map[model.DetectorName]model.PatternStats),
	}

	if t != nil {
		vins := make(map[string]bool)
		dealers := make(map[string]bool)
		for i, c := range t.Claims {
			s.TotalPaid += c.PaidAmount
			if i == 0 || c.PaidAmount > s.MaxClaimAmount {
				s.MaxClaimAmount = c.PaidAmount
			}
			if c.VIN != "" {
				vins[c.VIN] = true
			}
			if c.SellingDealer != "" {
				dealers[c.SellingDealer] = true
			}
		}
		s.TotalClaims = len(t.Claims)
		if s.TotalClaims > 0 {
			s.AvgClaimAmount = s.TotalPaid / float64(s.TotalClaims)
		}
		s.UniqueVINs = len(vins)
		s.UniqueDealers = len(dealers)
	}

	for _, f := range findings.All() {
		if f.Err != nil {
			if s.Errors == nil {
				s.Errors = make(map[model.DetectorName]string)
			}
			s.Errors[f.Detector] = f.Err.Error()
			continue
		}
		if f.Detector != model.DetectorCoverageTypes && f.Empty() {
			continue
		}
		s.RiskPatterns[f.Detector] = patternStats(f)
	}

	return s
}

func patternStats(f model.Finding) model.PatternStats {
	switch f.Detector {
	case model.DetectorMultipleClaimsPerVIN, model.DetectorMultipleDealersPerVIN, model.DetectorRepeatedClaims:
		return model.PatternStats{
			VINsFlagged:   distinct(f.Claims, vinKey),
			ClaimsFlagged: len(f.Claims),
		}
	case model.DetectorHighDollarClaims:
		var total float64
		for _, c := range f.Claims {
			total += c.PaidAmount
		}
		return model.PatternStats{ClaimsFlagged: len(f.Claims), TotalAmount: total}
	case model.DetectorHighClaimsPerDealer:
		return model.PatternStats{DealersFlagged: len(f.Stats), ClaimsFlagged: len(f.Claims)}
	case model.DetectorLuxuryVehicles:
		return model.PatternStats{BrandsFlagged: len(f.Stats), ClaimsFlagged: len(f.Claims)}
	case model.DetectorCoverageTypes:
		return model.PatternStats{CoverageTypes: len(f.Stats)}
	}
	return model.PatternStats{ClaimsFlagged: len(f.Claims)}
}

func distinct(claims []model.Claim, key func(model.Claim) string) int {
	seen := make(map[string]bool)
	for _, c := range claims {
		if k := key(c); k != "" {
			seen[k] = true
		}
	}
	return len(seen)
}
