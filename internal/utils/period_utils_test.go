package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidPeriod(t *testing.T) {
	valid := []struct{ month, year int }{
		{1, 2000}, {12, 2100}, {6, 2025},
	}
	for _, tc := range valid {
		require.Truef(t, ValidPeriod(tc.month, tc.year), "expected %d/%d to be valid", tc.month, tc.year)
	}

	invalid := []struct{ month, year int }{
		{0, 2025}, {13, 2025}, {-3, 2025}, {6, 1999}, {6, 2101}, {6, 0},
	}
	for _, tc := range invalid {
		require.Falsef(t, ValidPeriod(tc.month, tc.year), "expected %d/%d to be invalid", tc.month, tc.year)
	}
}

func TestPeriodBoundsHalfOpen(t *testing.T) {
	start, end := PeriodBounds(3, 2025)
	require.True(t, start.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)), "start of march")
	require.True(t, end.Equal(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)), "end exclusive at april 1")

	// December rolls into January of the next year.
	start, end = PeriodBounds(12, 2024)
	require.True(t, end.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)), "december end is next january")
	require.Equal(t, 31*24*time.Hour, end.Sub(start), "december spans 31 days")

	// February in a leap year.
	start, end = PeriodBounds(2, 2024)
	require.Equal(t, 29*24*time.Hour, end.Sub(start), "feb 2024 spans 29 days")
}

func TestLeaseActiveInPeriod(t *testing.T) {
	date := func(y, m, d int) time.Time {
		return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	}
	ptr := func(tm time.Time) *time.Time { return &tm }

	cases := []struct {
		name   string
		start  time.Time
		end    *time.Time
		month  int
		year   int
		active bool
	}{
		{"open-ended before period", date(2024, 1, 1), nil, 3, 2025, true},
		{"open-ended starting mid-period", date(2025, 3, 15), nil, 3, 2025, true},
		{"starts after period", date(2025, 4, 1), nil, 3, 2025, false},
		{"ended before period", date(2024, 1, 1), ptr(date(2025, 2, 28)), 3, 2025, false},
		{"ends on first day of period", date(2024, 1, 1), ptr(date(2025, 3, 1)), 3, 2025, true},
		{"ends mid-period", date(2024, 1, 1), ptr(date(2025, 3, 15)), 3, 2025, true},
		{"starts on last day of period", date(2025, 3, 31), nil, 3, 2025, true},
	}
	for _, tc := range cases {
		require.Equalf(t, tc.active, LeaseActiveInPeriod(tc.start, tc.end, tc.month, tc.year), "%s", tc.name)
	}
}
