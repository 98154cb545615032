package detect

import (
	"fmt"
	"time"

	"github.com/sells-group/claims-risk-cli/internal/model"
)

var allColumns = []string{
	model.ColClaimID, model.ColVIN, model.ColVehicle, model.ColCoverage,
	model.ColSellingDealer, model.ColDefaultServicer, model.ColServiceDate,
	model.ColEntryDate, model.ColPaidAmount,
}

var claimSeq int

// claim builds a test claim. An empty date leaves ServiceDate nil.
func claim(vin, dealer string, paid float64, date string) model.Claim {
	claimSeq++
	c := model.Claim{
		Row:             claimSeq,
		ClaimID:         fmt.Sprintf("C-%d", claimSeq),
		VIN:             vin,
		SellingDealer:   dealer,
		DefaultServicer: model.UnknownParty,
		PaidAmount:      paid,
		Vehicle:         "2020 HONDA ACCORD",
		Coverage:        "POWERTRAIN",
	}
	if date != "" {
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			panic(err)
		}
		c.ServiceDate = &d
	}
	return c
}

func withVehicle(c model.Claim, vehicle string) model.Claim {
	c.Vehicle = vehicle
	return c
}

func withCoverage(c model.Claim, coverage string) model.Claim {
	c.Coverage = coverage
	return c
}

func newTable(claims ...model.Claim) *model.Table {
	return &model.Table{Columns: allColumns, Claims: claims}
}

func vinsOf(claims []model.Claim) map[string]int {
	out := make(map[string]int)
	for _, c := range claims {
		out[c.VIN]++
	}
	return out
}
