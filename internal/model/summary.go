package model

import "time"

// PatternStats holds the per-detector counts in a Summary. Only the fields
// relevant to the detector are populated.
type PatternStats struct {
	VINsFlagged    int     `json:"vins_flagged,omitempty" yaml:"vins_flagged,omitempty"`
	DealersFlagged int     `json:"dealers_flagged,omitempty" yaml:"dealers_flagged,omitempty"`
	BrandsFlagged  int     `json:"brands_flagged,omitempty" yaml:"brands_flagged,omitempty"`
	CoverageTypes  int     `json:"coverage_types,omitempty" yaml:"coverage_types,omitempty"`
	ClaimsFlagged  int     `json:"claims_flagged,omitempty" yaml:"claims_flagged,omitempty"`
	TotalAmount    float64 `json:"total_amount,omitempty" yaml:"total_amount,omitempty"`
}

// Summary is the run-level report assembled from all findings.
type Summary struct {
	Source         string                        `json:"source,omitempty" yaml:"source,omitempty"`
	GeneratedAt    time.Time                     `json:"generated_at" yaml:"generated_at"`
	TotalClaims    int                           `json:"total_claims" yaml:"total_claims"`
	TotalPaid      float64                       `json:"total_paid" yaml:"total_paid"`
	AvgClaimAmount float64                       `json:"avg_claim_amount" yaml:"avg_claim_amount"`
	MaxClaimAmount float64                       `json:"max_claim_amount" yaml:"max_claim_amount"`
	UniqueVINs     int                           `json:"unique_vins" yaml:"unique_vins"`
	UniqueDealers  int                           `json:"unique_dealers" yaml:"unique_dealers"`
	RiskPatterns   map[DetectorName]PatternStats `json:"risk_patterns" yaml:"risk_patterns"`
	Errors         map[DetectorName]string       `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Pattern returns the stats for a detector if it flagged anything.
func (s *Summary) Pattern(name DetectorName) (PatternStats, bool) {
	if s == nil || s.RiskPatterns == nil {
		return PatternStats{}, false
	}
	p, ok := s.RiskPatterns[name]
	return p, ok
}
