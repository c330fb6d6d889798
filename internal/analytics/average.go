package analytics

import (
	"caixa/internal/core"
	"caixa/internal/ledger"
)

type (
	// AverageResult is the outcome of a daily-average calculation. DataPoints
	// counts the accepted historical days, not the underlying records;
	// DataPoints == 0 means "no data" and Average is meaningless then. A zero
	// Average with DataPoints > 0 is a valid result.
	AverageResult struct {
		TargetDay  int
		Average    core.Money
		DataPoints int
	}

	// WeeklyAverage is the per-record average for one ISO 8601 week.
	WeeklyAverage struct {
		Week       int // 1-53
		Year       int // ISO week-numbering year
		Average    core.Money
		DataPoints int
	}

	// MonthlyAverage carries both the month total and the per-record average.
	MonthlyAverage struct {
		Month      int // 1-12
		Year       int
		Average    core.Money
		Total      core.Money
		DataPoints int
	}
)

// HasData reports whether the calculation found any historical day to average.
func (r AverageResult) HasData() bool { return r.DataPoints > 0 }

func (r WeeklyAverage) HasData() bool { return r.DataPoints > 0 }

func (r MonthlyAverage) HasData() bool { return r.DataPoints > 0 }

// CalculateDailyAverage averages the per-day movement totals over the
// historical days located for targetDay in the last monthsBack months.
// The divisor is the number of accepted days, not the record count.
func CalculateDailyAverage(today core.Date, targetDay, monthsBack int, led *ledger.Ledger) AverageResult {
	validDays := FindValidDaysWithMovement(today, targetDay, monthsBack, led)
	if len(validDays) == 0 {
		return AverageResult{TargetDay: targetDay}
	}

	var total int64
	for _, day := range validDays {
		total += led.SumOn(day).Cents
	}

	return AverageResult{
		TargetDay:  targetDay,
		Average:    core.Money{Cents: divRoundHalfUp(total, int64(len(validDays)))},
		DataPoints: len(validDays),
	}
}

// CalculateWeeklyAverage averages the amounts of all records in the given ISO
// week. The divisor is the record count.
func CalculateWeeklyAverage(week, year int, led *ledger.Ledger) WeeklyAverage {
	records := led.InISOWeek(year, week)
	result := WeeklyAverage{Week: week, Year: year, DataPoints: len(records)}
	if len(records) == 0 {
		return result
	}

	var total int64
	for _, m := range records {
		total += m.Amount.Cents
	}
	result.Average = core.Money{Cents: divRoundHalfUp(total, int64(len(records)))}
	return result
}

// CalculateMonthlyAverage sums the records of a calendar month and averages
// them over the record count.
func CalculateMonthlyAverage(month, year int, led *ledger.Ledger) MonthlyAverage {
	records := led.InMonth(year, month)
	result := MonthlyAverage{Month: month, Year: year, DataPoints: len(records)}

	var total int64
	for _, m := range records {
		total += m.Amount.Cents
	}
	result.Total = core.Money{Cents: total}
	if len(records) > 0 {
		result.Average = core.Money{Cents: divRoundHalfUp(total, int64(len(records)))}
	}
	return result
}

// divRoundHalfUp divides total cents by n, rounding half away from zero.
// n must be positive; callers guard the zero-denominator case structurally.
func divRoundHalfUp(total, n int64) int64 {
	if total >= 0 {
		return (total + n/2) / n
	}
	return -((-total + n/2) / n)
}
