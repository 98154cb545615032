package model

import "time"

// Source column keys. Matching is exact after trimming surrounding whitespace.
const (
	ColClaimID         = "Claim #"
	ColVIN             = "VIN"
	ColPaidAmount      = "Paid Amount"
	ColSellingDealer   = "Selling Dealer"
	ColDefaultServicer = "Default Servicer"
	ColServiceDate     = "RO Date"
	ColEntryDate       = "Entry Date"
	ColVehicle         = "Vehicle"
	ColCoverage        = "Coverage"
)

// UnknownParty fills empty dealer and servicer cells.
const UnknownParty = "Unknown"

// Claim is one cleaned row of the claims table.
type Claim struct {
	Row             int               `json:"row"` // 1-based data row in the source sheet
	ClaimID         string            `json:"claim_id"`
	VIN             string            `json:"vin"`
	PaidAmount      float64           `json:"paid_amount"`
	SellingDealer   string            `json:"selling_dealer"`
	DefaultServicer string            `json:"default_servicer"`
	ServiceDate     *time.Time        `json:"service_date,omitempty"`
	EntryDate       *time.Time        `json:"entry_date,omitempty"`
	Vehicle         string            `json:"vehicle"`
	Coverage        string            `json:"coverage"`
	Brand           string            `json:"brand,omitempty"` // set only on luxury finding rows
	Extra           map[string]string `json:"extra,omitempty"` // unmapped source columns
}

// Table is the cleaned, read-only claims dataset for one run.
type Table struct {
	Columns []string `json:"columns"`
	Claims  []Claim  `json:"claims"`
}

// Len returns the number of claims.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Claims)
}

// HasColumn reports whether the source header contained the given column.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// MissingColumns returns the subset of names not present in the header,
// preserving the order given.
func (t *Table) MissingColumns(names ...string) []string {
	var missing []string
	for _, n := range names {
		if !t.HasColumn(n) {
			missing = append(missing, n)
		}
	}
	return missing
}
