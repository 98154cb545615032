package detect

import (
	"sort"

	"github.com/sells-group/claims-risk-cli/internal/model"
)

// RepeatedClaimsTimeframe flags every claim on a VIN where two claims,
// adjacent in service-date order, are at most DaysThreshold days apart.
// Claims without a service date sort last and never form a qualifying pair.
type RepeatedClaimsTimeframe struct {
	DaysThreshold int
}

func (d RepeatedClaimsTimeframe) Name() model.DetectorName { return model.DetectorRepeatedClaims }
func (d RepeatedClaimsTimeframe) Requires() []string {
	return []string{model.ColVIN, model.ColServiceDate}
}

func (d RepeatedClaimsTimeframe) Detect(t *model.Table) model.Finding {
	f := model.Finding{Detector: d.Name(), GroupBy: model.ColVIN, Threshold: float64(d.DaysThreshold)}

	order, groups := groupIndex(t.Claims, vinKey)
	flagged := make(map[string]bool)
	for _, vin := range order {
		idx := groups[vin]
		if len(idx) < 2 {
			continue
		}
		if d.hasClosePair(t.Claims, idx) {
			flagged[vin] = true
		}
	}
	if len(flagged) == 0 {
		return f
	}

	f.Stats = filterStats(aggregate(t.Claims, vinKey, false), flagged)
	sortByCountDesc(f.Stats)
	f.FlaggedKeys = statKeys(f.Stats)
	f.Claims = claimsWithKeys(t.Claims, vinKey, flagged)
	return f
}

func (d RepeatedClaimsTimeframe) hasClosePair(claims []model.Claim, idx []int) bool {
	sorted := make([]int, len(idx))
	copy(sorted, idx)
	sort.SliceStable(sorted, func(a, b int) bool {
		da, db := claims[sorted[a]].ServiceDate, claims[sorted[b]].ServiceDate
		switch {
		case da == nil:
			return false
		case db == nil:
			return true
		}
		return da.Before(*db)
	})

	for i := 0; i+1 < len(sorted); i++ {
		cur, next := claims[sorted[i]].ServiceDate, claims[sorted[i+1]].ServiceDate
		if cur == nil || next == nil {
			continue
		}
		if daysBetween(*cur, *next) <= d.DaysThreshold {
			return true
		}
	}
	return false
}
