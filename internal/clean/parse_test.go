package clean

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"100", 100, true},
		{"1,234.56", 1234.56, true},
		{"$99.10", 99.10, true},
		{" $ 7 ", 7, true},
		{"0", 0, true},
		{"-0", 0, true},
		{"(12.50)", 0, false},
		{"-$5", 0, false},
		{"-5", 0, false},
		{"", 0, false},
		{"N/A", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"12abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseAmount(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestParseDate(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2025-08-07", day(2025, 8, 7)},
		{"2025-08-07 13:45:00", time.Date(2025, 8, 7, 13, 45, 0, 0, time.UTC)},
		{"8/7/2025", day(2025, 8, 7)},
		{"08/07/2025", day(2025, 8, 7)},
		{"8/7/25", day(2025, 8, 7)},
		{"8/7/25 10:30", time.Date(2025, 8, 7, 10, 30, 0, 0, time.UTC)},
		{"2025-08-07 10:30", time.Date(2025, 8, 7, 10, 30, 0, 0, time.UTC)},
		{"2025-08-07T10:30:00Z", time.Date(2025, 8, 7, 10, 30, 0, 0, time.UTC)},
		{"08-07-25", day(2025, 8, 7)},
		{"Aug 7, 2025", day(2025, 8, 7)},
		{"7-Aug-25", day(2025, 8, 7)},
		{"45876", day(2025, 8, 7)},
		{"45876.5", time.Date(2025, 8, 7, 12, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseDate(tt.raw)
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %s want %s", got, tt.want)
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "yesterday", "13/45/2025", "0", "-3", "99999999"} {
		t.Run(raw, func(t *testing.T) {
			assert.Nil(t, ParseDate(raw))
		})
	}
}
