package utils

import (
	"time"

	"github.com/poofware/liquidation-service/internal/constants"
)

// ValidPeriod reports whether month/year name a period the engine will
// compute for. The year bound keeps obviously-garbled input (0, 99,
// 20255) out of the ledgers.
func ValidPeriod(month, year int) bool {
	if month < 1 || month > 12 {
		return false
	}
	return year >= constants.MinLiquidationYear && year <= constants.MaxLiquidationYear
}

// PeriodBounds returns the half-open UTC interval [start, end) covering
// the given month. This is the single source of truth for period
// boundaries: the rent ledger and the charge ledger both scope rows
// with it, so a charge and a rent entry can never land in different
// months for the same timestamp.
func PeriodBounds(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// PeriodStartDate returns the first day of the period as a date-only
// value. Mandate validity windows are resolved against it.
func PeriodStartDate(month, year int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// LeaseActiveInPeriod reports whether a lease running [startDate,
// endDate] (endDate nil = open-ended) overlaps the given month.
func LeaseActiveInPeriod(startDate time.Time, endDate *time.Time, month, year int) bool {
	periodStart, periodEnd := PeriodBounds(month, year)
	if !startDate.Before(periodEnd) {
		return false
	}
	if endDate != nil && endDate.Before(periodStart) {
		return false
	}
	return true
}
