// Package analytics computes descriptive statistics and forward targets over
// a ledger snapshot. All functions are pure: they take an explicit reference
// date and a ledger, perform no I/O, and are safe to call repeatedly.
package analytics

import (
	"caixa/internal/core"
	"caixa/internal/ledger"
)

// maxMonthAttempts bounds the backward month walk of the locator to one year
// per offset.
const maxMonthAttempts = 12

// FindValidDaysWithMovement locates, for each of the last monthsBack months,
// the most recent month in which targetDay carries at least one recorded
// movement, and returns that exact date.
//
// For each month offset the search starts at (year, month, targetDay): if the
// day does not exist in the month (day 31 in a 30-day month) the search moves
// to the previous month; if the candidate day has no movement the search
// retries the same target day one month earlier. Each offset gives up after
// maxMonthAttempts months and then contributes no date.
//
// This is a "nearest month with movement on a fixed day" search: it never
// falls back to adjacent days within a month. Closed days are not skipped; a
// movement recorded on a holiday or weekend counts like any other.
func FindValidDaysWithMovement(today core.Date, targetDay, monthsBack int, led *ledger.Ledger) []core.Date {
	var validDays []core.Date
	if targetDay < 1 || targetDay > 31 || monthsBack < 1 {
		return validDays
	}

	for i := 0; i < monthsBack; i++ {
		year, month := monthsAgo(today.Year(), today.Month(), i)

		for attempts := 0; attempts < maxMonthAttempts; attempts++ {
			if targetDay > core.DaysInMonth(year, month) {
				year, month = monthsAgo(year, month, 1)
				continue
			}

			candidate := core.NewDate(year, month, targetDay)
			if led.HasMovementOn(candidate) {
				validDays = append(validDays, candidate)
				break
			}

			year, month = monthsAgo(year, month, 1)
		}
	}

	return validDays
}

// monthsAgo returns the (year, month) pair n months before the given one,
// normalizing month underflow into year decrements.
func monthsAgo(year, month, n int) (int, int) {
	total := year*12 + (month - 1) - n
	return total / 12, total%12 + 1
}
