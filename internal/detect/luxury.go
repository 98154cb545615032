package detect

import (
	"github.com/sells-group/claims-risk-cli/internal/model"
)

// LuxuryVehiclePatterns collects every claim on a vehicle whose resolved
// brand is in the luxury allowlist, with per-brand totals. Brand matching is
// exact and case-sensitive.
type LuxuryVehiclePatterns struct {
	brands   map[string]bool
	resolver BrandResolver
}

// NewLuxuryVehiclePatterns builds the detector. A nil resolver uses TokenBrand.
func NewLuxuryVehiclePatterns(brands []string, resolver BrandResolver) *LuxuryVehiclePatterns {
	if resolver == nil {
		resolver = BrandResolverFunc(TokenBrand)
	}
	return &LuxuryVehiclePatterns{brands: keySet(brands), resolver: resolver}
}

func (d *LuxuryVehiclePatterns) Name() model.DetectorName { return model.DetectorLuxuryVehicles }
func (d *LuxuryVehiclePatterns) Requires() []string {
	return []string{model.ColVehicle, model.ColPaidAmount}
}

// Detect returns copies of the matching claims with Brand set; the table's
// own claims are left untouched.
func (d *LuxuryVehiclePatterns) Detect(t *model.Table) model.Finding {
	f := model.Finding{Detector: d.Name(), GroupBy: "Brand"}

	for _, c := range t.Claims {
		brand, ok := d.resolver.Resolve(c.Vehicle)
		if !ok || !d.brands[brand] {
			continue
		}
		c.Brand = brand
		f.Claims = append(f.Claims, c)
	}
	if len(f.Claims) == 0 {
		return f
	}

	f.Stats = aggregate(f.Claims, brandKey, true)
	sortByTotalDesc(f.Stats)
	f.FlaggedKeys = statKeys(f.Stats)
	return f
}
