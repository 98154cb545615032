package detect

import (
	"github.com/sells-group/claims-risk-cli/internal/model"
)

// HighClaimsPerDealer flags selling dealers with either a high claim volume
// or a high average payout. Either condition alone is enough.
type HighClaimsPerDealer struct {
	CountThreshold   int
	AmountMultiplier float64
}

func (d HighClaimsPerDealer) Name() model.DetectorName { return model.DetectorHighClaimsPerDealer }
func (d HighClaimsPerDealer) Requires() []string {
	return []string{model.ColSellingDealer, model.ColPaidAmount}
}

func (d HighClaimsPerDealer) Detect(t *model.Table) model.Finding {
	f := model.Finding{Detector: d.Name(), GroupBy: model.ColSellingDealer}
	if t.Len() == 0 {
		return f
	}

	avgCutoff := meanPaid(t.Claims) * d.AmountMultiplier
	f.Threshold = avgCutoff

	stats := aggregate(t.Claims, dealerKey, false)
	flagged := make(map[string]bool)
	for _, s := range stats {
		if s.ClaimCount >= d.CountThreshold || s.AvgPaid >= avgCutoff {
			flagged[s.Key] = true
		}
	}
	if len(flagged) == 0 {
		return f
	}

	f.Stats = filterStats(stats, flagged)
	sortByTotalDesc(f.Stats)
	f.FlaggedKeys = statKeys(f.Stats)
	f.Claims = claimsWithKeys(t.Claims, dealerKey, flagged)
	return f
}
