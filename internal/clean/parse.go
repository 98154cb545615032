package clean

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order. Spreadsheet exports commonly render
// dates as US month/day with either two- or four-digit years.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"1/2/2006",
	"01/02/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/06",
	"1/2/06 15:04",
	"01-02-06",
	"1-2-06",
	"01-02-2006",
	"Jan 2, 2006",
	"2-Jan-06",
	"02-Jan-2006",
}

// Excel serial day 0 in the 1900 date system, adjusted for the phantom
// 1900-02-29 so serials from March 1900 onward map correctly.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

const maxExcelSerial = 2958465 // 9999-12-31

// ParseDate parses a date cell. It returns nil when the value is not a
// recognizable date; it never fails.
func ParseDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}

	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(serial) || serial < 1 || serial > maxExcelSerial {
		return nil
	}
	days := math.Floor(serial)
	frac := serial - days
	t := excelEpoch.AddDate(0, 0, int(days)).Add(time.Duration(frac * float64(24*time.Hour)))
	return &t
}

// ParseAmount parses a currency cell such as "1,234.50" or "$99". Paid
// amounts are non-negative, so negative and accounting-style "(12.00)"
// values are rejected. The second return is false when the value could not
// be parsed, in which case the amount is 0.
func ParseAmount(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.HasPrefix(s, "(") {
		return 0, false
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}
