package analytics

import (
	"caixa/internal/core"
	"caixa/internal/ledger"
)

// TargetProjection is a forward-looking revenue goal derived from a trailing
// window of historical months. MonthsSampled counts the window months that
// had revenue data; zero means no projection could be made.
//
// Scaling policy: mean-of-period-totals. Monthly is the mean of the trailing
// monthly revenue totals; Daily is Monthly divided by the day count of the
// reference month; Weekly is exactly 7 times the implied daily rate.
type TargetProjection struct {
	Daily         core.Money
	Weekly        core.Money
	Monthly       core.Money
	MonthsSampled int
}

func (p TargetProjection) HasData() bool { return p.MonthsSampled > 0 }

// ProjectTargets computes today's, this week's, and this month's revenue
// target from the monthsBack fully elapsed months before the reference date.
// The current month is excluded so a partially recorded month does not drag
// the projection down. Only revenue records contribute.
func ProjectTargets(today core.Date, monthsBack int, led *ledger.Ledger) TargetProjection {
	if monthsBack < 1 {
		monthsBack = 1
	}
	revenue := led.ByType(core.Revenue)

	var totals int64
	sampled := 0
	for i := 1; i <= monthsBack; i++ {
		year, month := monthsAgo(today.Year(), today.Month(), i)
		m := CalculateMonthlyAverage(month, year, revenue)
		if !m.HasData() {
			continue
		}
		totals += m.Total.Cents
		sampled++
	}

	if sampled == 0 {
		return TargetProjection{}
	}

	monthly := divRoundHalfUp(totals, int64(sampled))
	daily := divRoundHalfUp(monthly, int64(core.DaysInMonth(today.Year(), today.Month())))

	return TargetProjection{
		Daily:         core.Money{Cents: daily},
		Weekly:        core.Money{Cents: 7 * daily},
		Monthly:       core.Money{Cents: monthly},
		MonthsSampled: sampled,
	}
}
