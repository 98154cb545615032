package detect

import (
	"github.com/sells-group/claims-risk-cli/internal/model"
)

// CoverageTypePatterns describes payout per coverage type across the whole
// table. It flags nothing; its stats are always reported.
type CoverageTypePatterns struct{}

func (d CoverageTypePatterns) Name() model.DetectorName { return model.DetectorCoverageTypes }
func (d CoverageTypePatterns) Requires() []string {
	return []string{model.ColCoverage, model.ColPaidAmount}
}

func (d CoverageTypePatterns) Detect(t *model.Table) model.Finding {
	f := model.Finding{Detector: d.Name(), GroupBy: model.ColCoverage}
	f.Stats = aggregate(t.Claims, coverageKey, true)
	sortByTotalDesc(f.Stats)
	f.FlaggedKeys = statKeys(f.Stats)
	return f
}
