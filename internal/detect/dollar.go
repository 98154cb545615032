package detect

import (
	"github.com/sells-group/claims-risk-cli/internal/model"
)

// HighDollarClaims flags claims paid strictly above
// mean + StdDevThreshold × sample standard deviation of the whole table.
type HighDollarClaims struct {
	StdDevThreshold float64
}

func (d HighDollarClaims) Name() model.DetectorName { return model.DetectorHighDollarClaims }
func (d HighDollarClaims) Requires() []string       { return []string{model.ColPaidAmount} }

func (d HighDollarClaims) Detect(t *model.Table) model.Finding {
	f := model.Finding{Detector: d.Name()}
	if t.Len() == 0 {
		return f
	}

	threshold := d.Cutoff(t)
	f.Threshold = threshold

	for _, c := range t.Claims {
		if c.PaidAmount > threshold {
			f.Claims = append(f.Claims, c)
		}
	}
	return f
}

// Cutoff returns the dollar amount a claim must exceed to be flagged.
func (d HighDollarClaims) Cutoff(t *model.Table) float64 {
	mean := meanPaid(t.Claims)
	return mean + d.StdDevThreshold*sampleStdDev(t.Claims, mean)
}
