package detect

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/claims-risk-cli/internal/config"
	"github.com/sells-group/claims-risk-cli/internal/model"
)

func luxuryFixture() *model.Table {
	return newTable(
		withVehicle(claim("V1", "D", 900, ""), "2021 BMW X5"),
		withVehicle(claim("V2", "D", 2500, ""), "2020 PORSCHE 911"),
		withVehicle(claim("V3", "D", 300, ""), "2019 HONDA CIVIC"),
		withVehicle(claim("V4", "D", 400, ""), "2018 bmw M3"),
		withVehicle(claim("V5", "D", 700, ""), "TESLA"),
		withVehicle(claim("V6", "D", 1200, ""), "2022 LAND ROVER DEFENDER"),
		withVehicle(claim("V7", "D", 1100, ""), "2017  BMW   330I"),
	)
}

func TestLuxuryVehiclePatterns_TokenBrand(t *testing.T) {
	d := NewLuxuryVehiclePatterns(config.DefaultLuxuryBrands, nil)
	table := luxuryFixture()

	f := d.Detect(table)

	assert.Equal(t, []string{"PORSCHE", "BMW"}, f.FlaggedKeys)
	require.Len(t, f.Stats, 2)
	assert.Equal(t, 2, f.Stats[1].ClaimCount)
	assert.InDelta(t, 2000, f.Stats[1].TotalPaid, 0.001)
	assert.InDelta(t, 1100, f.Stats[1].MaxPaid, 0.001)
	assert.True(t, f.Stats[1].HasMax)
	for _, c := range f.Claims {
		assert.NotEmpty(t, c.Brand)
	}
	for _, c := range table.Claims {
		assert.Empty(t, c.Brand, "table must not be mutated")
	}
}

func TestLuxuryVehiclePatterns_AllowlistResolver(t *testing.T) {
	brands := config.DefaultLuxuryBrands
	d := NewLuxuryVehiclePatterns(brands, NewAllowlistBrandResolver(brands))

	f := d.Detect(luxuryFixture())

	assert.Equal(t, []string{"PORSCHE", "BMW", "LAND ROVER"}, f.FlaggedKeys)
}

func TestLuxuryVehiclePatterns_StatsPartitionClaims(t *testing.T) {
	f := NewLuxuryVehiclePatterns(config.DefaultLuxuryBrands, nil).Detect(luxuryFixture())

	var count int
	var total float64
	for i, s := range f.Stats {
		count += s.ClaimCount
		total += s.TotalPaid
		if i > 0 {
			assert.GreaterOrEqual(t, f.Stats[i-1].TotalPaid, s.TotalPaid)
		}
	}
	var claimTotal float64
	for _, c := range f.Claims {
		claimTotal += c.PaidAmount
	}
	assert.Equal(t, len(f.Claims), count)
	assert.InDelta(t, claimTotal, total, 0.001)
}

func TestLuxuryVehiclePatterns_NoMatches(t *testing.T) {
	table := newTable(withVehicle(claim("V", "D", 1, ""), "2019 HONDA CIVIC"))
	f := NewLuxuryVehiclePatterns(config.DefaultLuxuryBrands, nil).Detect(table)
	assert.True(t, f.Empty())
	assert.Empty(t, f.Stats)
}

func TestTokenBrand(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		found bool
	}{
		{in: "2021 BMW X5", want: "BMW", found: true},
		{in: "2021 Mercedes-Benz C300", want: "Mercedes-Benz", found: true},
		{in: "  2020\tAUDI  A4 ", want: "AUDI", found: true},
		{in: "TESLA", found: false},
		{in: "", found: false},
	}
	for _, tt := range tests {
		got, ok := TokenBrand(tt.in)
		assert.Equal(t, tt.found, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestAllowlistBrandResolver(t *testing.T) {
	r := NewAllowlistBrandResolver([]string{"ROVER", "LAND ROVER", " ", "ASTON MARTIN"})

	tests := []struct {
		in   string
		want string
	}{
		{in: "2022 LAND ROVER DEFENDER", want: "LAND ROVER"},
		{in: "2019 ASTON MARTIN", want: "ASTON MARTIN"},
		{in: "2019 ROVER 75", want: "ROVER"},
		{in: "2018 HONDA CIVIC", want: "HONDA"},
		{in: "2018 LANDMARK X", want: "LANDMARK"},
	}
	for _, tt := range tests {
		got, ok := r.Resolve(tt.in)
		assert.True(t, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, ok := r.Resolve("SOLO")
	assert.False(t, ok)
}

func TestCachedBrandResolver(t *testing.T) {
	var mu sync.Mutex
	calls := make(map[string]int)
	r := NewCachedBrandResolver(BrandResolverFunc(func(v string) (string, bool) {
		mu.Lock()
		calls[v]++
		mu.Unlock()
		return TokenBrand(v)
	}))

	for i := 0; i < 3; i++ {
		brand, ok := r.Resolve("2021 BMW X5")
		assert.True(t, ok)
		assert.Equal(t, "BMW", brand)

		_, ok = r.Resolve("TESLA")
		assert.False(t, ok)
	}

	assert.Equal(t, 1, calls["2021 BMW X5"])
	assert.Equal(t, 1, calls["TESLA"])
	assert.Equal(t, 2, r.Len())
}

func TestCachedBrandResolver_Concurrent(t *testing.T) {
	r := NewCachedBrandResolver(BrandResolverFunc(TokenBrand))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, v := range []string{"2021 BMW X5", "2020 AUDI A4", "2019 KIA RIO"} {
				_, _ = r.Resolve(v)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, r.Len())
}
