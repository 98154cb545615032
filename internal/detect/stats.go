package detect

import (
	"math"
	"sort"
	"time"

	"github.com/sells-group/claims-risk-cli/internal/model"
)

// aggregate computes per-key claim statistics. Groups appear in first-seen
// order; callers sort as needed. Claims with an empty key are skipped.
func aggregate(claims []model.Claim, key func(model.Claim) string, withMax bool) []model.GroupStats {
	order, groups := groupIndex(claims, key)
	out := make([]model.GroupStats, 0, len(order))
	for _, k := range order {
		idx := groups[k]
		gs := model.GroupStats{Key: k, ClaimCount: len(idx), HasMax: withMax}
		for j, i := range idx {
			amt := claims[i].PaidAmount
			gs.TotalPaid += amt
			if j == 0 || amt > gs.MaxPaid {
				gs.MaxPaid = amt
			}
		}
		gs.AvgPaid = gs.TotalPaid / float64(gs.ClaimCount)
		if !withMax {
			gs.MaxPaid = 0
		}
		gs.Vehicle = claims[idx[0]].Vehicle
		out = append(out, gs)
	}
	return out
}

// sortByTotalDesc orders stats by total paid, highest first, then by key.
func sortByTotalDesc(stats []model.GroupStats) {
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].TotalPaid != stats[j].TotalPaid {
			return stats[i].TotalPaid > stats[j].TotalPaid
		}
		return stats[i].Key < stats[j].Key
	})
}

// sortByCountDesc orders stats by claim count, highest first, then by key.
func sortByCountDesc(stats []model.GroupStats) {
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].ClaimCount != stats[j].ClaimCount {
			return stats[i].ClaimCount > stats[j].ClaimCount
		}
		return stats[i].Key < stats[j].Key
	})
}

func filterStats(stats []model.GroupStats, keys map[string]bool) []model.GroupStats {
	out := make([]model.GroupStats, 0, len(keys))
	for _, s := range stats {
		if keys[s.Key] {
			out = append(out, s)
		}
	}
	return out
}

func statKeys(stats []model.GroupStats) []string {
	keys := make([]string, len(stats))
	for i, s := range stats {
		keys[i] = s.Key
	}
	return keys
}

// meanPaid returns the average paid amount, or 0 for no claims.
func meanPaid(claims []model.Claim) float64 {
	if len(claims) == 0 {
		return 0
	}
	var sum float64
	for _, c := range claims {
		sum += c.PaidAmount
	}
	return sum / float64(len(claims))
}

// sampleStdDev returns the n-1 standard deviation of paid amounts. With
// fewer than two claims it is 0.
func sampleStdDev(claims []model.Claim, mean float64) float64 {
	n := len(claims)
	if n < 2 {
		return 0
	}
	var ss float64
	for _, c := range claims {
		d := c.PaidAmount - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// daysBetween returns the whole days from a to b, rounding down.
func daysBetween(a, b time.Time) int {
	return int(math.Floor(b.Sub(a).Hours() / 24))
}
