package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Columns(t *testing.T) {
	tbl := &Table{Columns: []string{ColVIN, ColPaidAmount}}

	assert.True(t, tbl.HasColumn(ColVIN))
	assert.False(t, tbl.HasColumn(ColCoverage))
	assert.Equal(t, []string{ColCoverage, ColVehicle}, tbl.MissingColumns(ColVIN, ColCoverage, ColPaidAmount, ColVehicle))
	assert.Nil(t, tbl.MissingColumns(ColVIN))
}

func TestTable_NilSafe(t *testing.T) {
	var tbl *Table
	assert.Equal(t, 0, tbl.Len())
	assert.False(t, tbl.HasColumn(ColVIN))
	assert.Equal(t, []string{ColVIN}, tbl.MissingColumns(ColVIN))
}

func TestDetectorName_Title(t *testing.T) {
	for _, d := range DetectorOrder {
		assert.NotEqual(t, string(d), d.Title(), "missing title for %s", d)
	}
	assert.Equal(t, "custom", DetectorName("custom").Title())
	assert.Len(t, DetectorOrder, 7)
}

func TestFinding_Empty(t *testing.T) {
	tests := []struct {
		name string
		f    Finding
		want bool
	}{
		{name: "no claims", f: Finding{Detector: DetectorMultipleClaimsPerVIN}, want: true},
		{name: "claims", f: Finding{Detector: DetectorMultipleClaimsPerVIN, Claims: []Claim{{VIN: "X"}}}, want: false},
		{name: "stats without claims", f: Finding{Detector: DetectorHighClaimsPerDealer, Stats: []GroupStats{{Key: "D"}}}, want: true},
		{name: "coverage with stats", f: Finding{Detector: DetectorCoverageTypes, Stats: []GroupStats{{Key: "P"}}}, want: false},
		{name: "coverage without stats", f: Finding{Detector: DetectorCoverageTypes}, want: true},
		{name: "failed", f: Finding{Detector: DetectorHighDollarClaims, Claims: []Claim{{}}, Err: errors.New("x")}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.Empty())
		})
	}
}

func TestFindings(t *testing.T) {
	items := []Finding{
		{Detector: DetectorHighDollarClaims, Threshold: 10},
		{Detector: DetectorCoverageTypes},
	}
	f := NewFindings(items...)

	items[0].Threshold = 99
	got, ok := f.Get(DetectorHighDollarClaims)
	require.True(t, ok)
	assert.InDelta(t, 10, got.Threshold, 0.0001, "input slice must be copied")

	all := f.All()
	all[0].Threshold = 42
	got, _ = f.Get(DetectorHighDollarClaims)
	assert.InDelta(t, 10, got.Threshold, 0.0001, "All must return a copy")

	_, ok = f.Get(DetectorLuxuryVehicles)
	assert.False(t, ok)
	assert.Equal(t, 2, f.Len())
	assert.Equal(t, DetectorCoverageTypes, f.All()[1].Detector)
}

func TestFindings_Nil(t *testing.T) {
	var f *Findings
	assert.Equal(t, 0, f.Len())
	assert.Nil(t, f.All())
	_, ok := f.Get(DetectorCoverageTypes)
	assert.False(t, ok)
}

func TestFinding_JSONOmitsError(t *testing.T) {
	b, err := json.Marshal(Finding{Detector: DetectorHighDollarClaims, Err: errors.New("boom")})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "boom")
	assert.Contains(t, string(b), `"detector":"high_dollar_claims"`)
}

func TestSummary_Pattern(t *testing.T) {
	s := &Summary{RiskPatterns: map[DetectorName]PatternStats{
		DetectorHighDollarClaims: {ClaimsFlagged: 2},
	}}

	p, ok := s.Pattern(DetectorHighDollarClaims)
	require.True(t, ok)
	assert.Equal(t, 2, p.ClaimsFlagged)

	_, ok = s.Pattern(DetectorCoverageTypes)
	assert.False(t, ok)

	var nilSummary *Summary
	_, ok = nilSummary.Pattern(DetectorCoverageTypes)
	assert.False(t, ok)
}

func TestRunStatus_Values(t *testing.T) {
	assert.Equal(t, RunStatus("running"), RunStatusRunning)
	assert.Equal(t, RunStatus("complete"), RunStatusComplete)
	assert.Equal(t, RunStatus("failed"), RunStatusFailed)
}
