package detect

import (
	"github.com/sells-group/claims-risk-cli/internal/model"
)

// MultipleClaimsPerVIN flags every claim on a VIN that has at least
// Threshold claims.
type MultipleClaimsPerVIN struct {
	Threshold int
}

func (d MultipleClaimsPerVIN) Name() model.DetectorName { return model.DetectorMultipleClaimsPerVIN }
func (d MultipleClaimsPerVIN) Requires() []string       { return []string{model.ColVIN} }

func (d MultipleClaimsPerVIN) Detect(t *model.Table) model.Finding {
	f := model.Finding{Detector: d.Name(), GroupBy: model.ColVIN}

	stats := aggregate(t.Claims, vinKey, false)
	flagged := make(map[string]bool)
	for _, s := range stats {
		if s.ClaimCount >= d.Threshold {
			flagged[s.Key] = true
		}
	}
	if len(flagged) == 0 {
		return f
	}

	f.Stats = filterStats(stats, flagged)
	sortByCountDesc(f.Stats)
	f.FlaggedKeys = statKeys(f.Stats)
	f.Claims = claimsWithKeys(t.Claims, vinKey, flagged)
	f.Threshold = float64(d.Threshold)
	return f
}

// MultipleDealersPerVIN flags every claim on a VIN billed through more than
// one distinct selling dealer.
type MultipleDealersPerVIN struct{}

func (d MultipleDealersPerVIN) Name() model.DetectorName { return model.DetectorMultipleDealersPerVIN }
func (d MultipleDealersPerVIN) Requires() []string {
	return []string{model.ColVIN, model.ColSellingDealer}
}

func (d MultipleDealersPerVIN) Detect(t *model.Table) model.Finding {
	f := model.Finding{Detector: d.Name(), GroupBy: model.ColVIN}

	order, groups := groupIndex(t.Claims, vinKey)
	dealers := make(map[string][]string, len(order))
	flagged := make(map[string]bool)
	for _, vin := range order {
		seen := make(map[string]bool)
		for _, i := range groups[vin] {
			dealer := t.Claims[i].SellingDealer
			if !seen[dealer] {
				seen[dealer] = true
				dealers[vin] = append(dealers[vin], dealer)
			}
		}
		if len(seen) > 1 {
			flagged[vin] = true
		}
	}
	if len(flagged) == 0 {
		return f
	}

	f.Stats = filterStats(aggregate(t.Claims, vinKey, false), flagged)
	for i := range f.Stats {
		f.Stats[i].Dealers = dealers[f.Stats[i].Key]
	}
	sortByCountDesc(f.Stats)
	f.FlaggedKeys = statKeys(f.Stats)
	f.Claims = claimsWithKeys(t.Claims, vinKey, flagged)
	return f
}
