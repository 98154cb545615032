// Package detect implements the heuristic claim risk detectors, the runner
// that executes them against one claims table, and the summary assembler.
package detect

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/claims-risk-cli/internal/model"
)

// ErrUnsupportedSchema marks a finding whose detector could not run because
// the table lacks a column it depends on.
var ErrUnsupportedSchema = eris.New("detect: unsupported dataset schema")

// Detector is one heuristic rule. Detect must not mutate the table.
type Detector interface {
	Name() model.DetectorName
	// Requires lists the source columns the detector reads.
	Requires() []string
	Detect(t *model.Table) model.Finding
}

// CheckSchema returns an ErrUnsupportedSchema-wrapped error naming the
// columns the detector needs but the table lacks.
func CheckSchema(d Detector, t *model.Table) error {
	missing := t.MissingColumns(d.Requires()...)
	if len(missing) == 0 {
		return nil
	}
	return eris.Wrapf(ErrUnsupportedSchema, "%s: missing columns %s", d.Name(), strings.Join(missing, ", "))
}

// claimsWithKeys returns the claims whose key is in the set, in table order.
func claimsWithKeys(claims []model.Claim, key func(model.Claim) string, keys map[string]bool) []model.Claim {
	var out []model.Claim
	for _, c := range claims {
		if keys[key(c)] {
			out = append(out, c)
		}
	}
	return out
}

// groupIndex buckets claim indices by key in first-seen order. Claims with
// an empty key are not grouped.
func groupIndex(claims []model.Claim, key func(model.Claim) string) ([]string, map[string][]int) {
	var order []string
	groups := make(map[string][]int)
	for i, c := range claims {
		k := key(c)
		if k == "" {
			continue
		}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}
	return order, groups
}

func vinKey(c model.Claim) string      { return c.VIN }
func dealerKey(c model.Claim) string   { return c.SellingDealer }
func coverageKey(c model.Claim) string { return c.Coverage }
func brandKey(c model.Claim) string    { return c.Brand }

func keySet(keys []string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}
