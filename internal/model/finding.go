package model

// DetectorName identifies one of the risk detectors.
type DetectorName string

const (
	DetectorMultipleClaimsPerVIN  DetectorName = "multiple_claims_per_vin"
	DetectorHighDollarClaims      DetectorName = "high_dollar_claims"
	DetectorMultipleDealersPerVIN DetectorName = "multiple_dealers_per_vin"
	DetectorRepeatedClaims        DetectorName = "repeated_claims_timeframe"
	DetectorHighClaimsPerDealer   DetectorName = "high_claims_per_dealer"
	DetectorLuxuryVehicles        DetectorName = "luxury_vehicle_patterns"
	DetectorCoverageTypes         DetectorName = "coverage_type_patterns"
)

// DetectorOrder is the canonical execution and reporting order.
var DetectorOrder = []DetectorName{
	DetectorMultipleClaimsPerVIN,
	DetectorHighDollarClaims,
	DetectorMultipleDealersPerVIN,
	DetectorRepeatedClaims,
	DetectorHighClaimsPerDealer,
	DetectorLuxuryVehicles,
	DetectorCoverageTypes,
}

// Title returns the section heading used in reports.
func (d DetectorName) Title() string {
	switch d {
	case DetectorMultipleClaimsPerVIN:
		return "Multiple Claims per VIN"
	case DetectorHighDollarClaims:
		return "High Dollar Claims"
	case DetectorMultipleDealersPerVIN:
		return "Multiple Dealers per VIN"
	case DetectorRepeatedClaims:
		return "Repeated Claims within Timeframe"
	case DetectorHighClaimsPerDealer:
		return "High Claims per Dealer"
	case DetectorLuxuryVehicles:
		return "Luxury Vehicle Patterns"
	case DetectorCoverageTypes:
		return "Coverage Type Patterns"
	}
	return string(d)
}

// GroupStats aggregates claims sharing one grouping key.
type GroupStats struct {
	Key        string   `json:"key"`
	ClaimCount int      `json:"claim_count"`
	TotalPaid  float64  `json:"total_paid"`
	AvgPaid    float64  `json:"avg_paid"`
	MaxPaid    float64  `json:"max_paid,omitempty"`
	HasMax     bool     `json:"-"`
	Dealers    []string `json:"dealers,omitempty"` // distinct dealers, first-seen order
	Vehicle    string   `json:"vehicle,omitempty"` // first vehicle description in the group
}

// Finding is the output of one detector.
type Finding struct {
	Detector    DetectorName `json:"detector"`
	GroupBy     string       `json:"group_by,omitempty"`
	FlaggedKeys []string     `json:"flagged_keys,omitempty"`
	Claims      []Claim      `json:"claims"`
	Stats       []GroupStats `json:"stats,omitempty"`
	Threshold   float64      `json:"threshold,omitempty"`
	Err         error        `json:"-"`
}

// Empty reports whether the finding flagged nothing. A finding that failed
// on schema is also empty.
func (f Finding) Empty() bool {
	if f.Err != nil {
		return true
	}
	if f.Detector == DetectorCoverageTypes {
		return len(f.Stats) == 0
	}
	return len(f.Claims) == 0
}

// Findings is the immutable set of detector outputs for one run.
type Findings struct {
	items []Finding
	index map[DetectorName]int
}

// NewFindings builds a Findings collection. Order of the input is preserved.
func NewFindings(items ...Finding) *Findings {
	f := &Findings{
		items: make([]Finding, len(items)),
		index: make(map[DetectorName]int, len(items)),
	}
	copy(f.items, items)
	for i, it := range f.items {
		f.index[it.Detector] = i
	}
	return f
}

// Get returns the finding for a detector, if one was produced.
func (f *Findings) Get(name DetectorName) (Finding, bool) {
	if f == nil {
		return Finding{}, false
	}
	i, ok := f.index[name]
	if !ok {
		return Finding{}, false
	}
	return f.items[i], true
}

// All returns a copy of the findings in run order.
func (f *Findings) All() []Finding {
	if f == nil {
		return nil
	}
	out := make([]Finding, len(f.items))
	copy(out, f.items)
	return out
}

// Len returns the number of findings.
func (f *Findings) Len() int {
	if f == nil {
		return 0
	}
	return len(f.items)
}
