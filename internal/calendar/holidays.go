// Package calendar decides whether the shop is open on a given date.
//
// The holiday list covers the fixed Brazilian national holidays only. Moving
// holidays (Carnaval, Easter-based dates) are out of scope.
package calendar

import (
	"time"

	"caixa/internal/core"
)

// FixedHolidays holds the (month, day) pairs of the fixed national holidays.
var FixedHolidays = [][2]int{
	{1, 1},   // Ano Novo
	{4, 21},  // Tiradentes
	{5, 1},   // Dia do Trabalho
	{9, 7},   // Independência
	{10, 12}, // Nossa Senhora Aparecida
	{11, 2},  // Finados
	{11, 15}, // Proclamação da República
	{11, 20}, // Consciência Negra
	{12, 25}, // Natal
}

// IsHoliday reports whether the date falls on a fixed national holiday.
// The check is year-independent.
func IsHoliday(d core.Date) bool {
	month, day := d.Month(), d.Day()
	for _, h := range FixedHolidays {
		if h[0] == month && h[1] == day {
			return true
		}
	}
	return false
}

// IsWeekend reports whether the date falls on a Saturday or Sunday.
func IsWeekend(d core.Date) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsClosedDay reports whether the shop is assumed closed on the date.
func IsClosedDay(d core.Date) bool {
	return IsHoliday(d) || IsWeekend(d)
}

// PreviousOpenDay walks backward from d to the nearest day the shop is open.
// When the walk crosses into the previous month it settles on that month's
// last day without further closed-day checks.
func PreviousOpenDay(d core.Date) core.Date {
	month := d.Month()
	for IsClosedDay(d) {
		prev := d.AddDays(-1)
		if prev.Month() != month {
			return prev // last day of the previous month
		}
		d = prev
	}
	return d
}
