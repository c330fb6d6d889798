// Package ledger holds an in-memory snapshot of movement records and the
// query operations the analytics engine runs against it.
//
// A Ledger is an immutable snapshot: callers build one from persisted state
// and hand it to the calculation functions. Records with an empty date are
// treated as malformed and never match a date-based filter.
package ledger

import (
	"sort"

	"caixa/internal/core"
)

type Ledger struct {
	movements []core.Movement
}

// New builds a ledger snapshot from the given records. The slice is copied so
// later mutations by the caller do not leak into the snapshot.
func New(movements []core.Movement) *Ledger {
	ms := make([]core.Movement, len(movements))
	copy(ms, movements)
	return &Ledger{movements: ms}
}

// Len returns the number of records in the ledger.
func (l *Ledger) Len() int {
	return len(l.movements)
}

// All returns a copy of every record in the ledger.
func (l *Ledger) All() []core.Movement {
	out := make([]core.Movement, len(l.movements))
	copy(out, l.movements)
	return out
}

// OnDay returns the records dated exactly on the given calendar day.
func (l *Ledger) OnDay(d core.Date) []core.Movement {
	var out []core.Movement
	for _, m := range l.movements {
		if m.Date.IsEmpty() {
			continue
		}
		if m.Date.SameDay(d) {
			out = append(out, m)
		}
	}
	return out
}

// HasMovementOn reports whether at least one record is dated on the given day.
func (l *Ledger) HasMovementOn(d core.Date) bool {
	for _, m := range l.movements {
		if m.Date.IsEmpty() {
			continue
		}
		if m.Date.SameDay(d) {
			return true
		}
	}
	return false
}

// SumOn returns the total amount of all records dated on the given day.
func (l *Ledger) SumOn(d core.Date) core.Money {
	var total core.Money
	for _, m := range l.OnDay(d) {
		total = total.Add(m.Amount)
	}
	return total
}

// InMonth returns records dated within the given calendar month.
func (l *Ledger) InMonth(year, month int) []core.Movement {
	var out []core.Movement
	for _, m := range l.movements {
		if m.Date.IsEmpty() {
			continue
		}
		if m.Date.Year() == year && m.Date.Month() == month {
			out = append(out, m)
		}
	}
	return out
}

// InISOWeek returns records whose date falls in the given ISO 8601 week.
// The year is the ISO week-numbering year, so records from late December may
// belong to week 1 of the following year.
func (l *Ledger) InISOWeek(isoYear, week int) []core.Movement {
	var out []core.Movement
	for _, m := range l.movements {
		if m.Date.IsEmpty() {
			continue
		}
		y, w := m.Date.ISOWeek()
		if y == isoYear && w == week {
			out = append(out, m)
		}
	}
	return out
}

// InRange returns records dated within [from, to], inclusive on both ends.
func (l *Ledger) InRange(from, to core.Date) []core.Movement {
	var out []core.Movement
	for _, m := range l.movements {
		if m.Date.IsEmpty() {
			continue
		}
		if m.Date.Before(from.Time) || m.Date.After(to.Time) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// ByType returns a sub-ledger containing only records of the given type.
func (l *Ledger) ByType(t core.MovementType) *Ledger {
	var out []core.Movement
	for _, m := range l.movements {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return &Ledger{movements: out}
}

// ByCategory returns a sub-ledger containing only records of the given category.
func (l *Ledger) ByCategory(category string) *Ledger {
	var out []core.Movement
	for _, m := range l.movements {
		if m.Category == category {
			out = append(out, m)
		}
	}
	return &Ledger{movements: out}
}

// Recent returns up to limit records, most recent date first. Records with an
// empty date sort last.
func (l *Ledger) Recent(limit int) []core.Movement {
	out := l.All()
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Date, out[j].Date
		if a.IsEmpty() {
			return false
		}
		if b.IsEmpty() {
			return true
		}
		return a.After(b.Time)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
