// Package installment splits a total amount into dated installment entries.
//
// Splitting is done on integer cents: every entry gets the floor share and
// the last entry absorbs the remainder, so the emitted amounts always sum to
// the requested total exactly. Due dates are derived by calendar arithmetic
// on the start date; no timezone conversion is involved.
package installment

import (
	"fmt"

	"github.com/google/uuid"

	"caixa/internal/core"
)

type (
	// Entry is one slice of a split: an amount and the day it falls due.
	Entry struct {
		Amount  core.Money
		DueDate core.Date
	}

	// Plan describes a payment split into installments at creation time.
	Plan struct {
		Description  string
		Total        core.Money
		Count        int
		IntervalDays int
		Start        core.Date // due date of the first installment
		Recorded     core.Date // ledger date stamped on every generated movement
		Category     string
		Type         core.MovementType
	}
)

// SplitCents divides totalCents into count shares. Every share is the floor
// of the even split except the last, which receives the remainder.
// count is clamped to at least 1.
func SplitCents(totalCents int64, count int) []int64 {
	if count < 1 {
		count = 1
	}
	base := totalCents / int64(count)
	remainder := totalCents - base*int64(count)

	shares := make([]int64, count)
	for i := range shares {
		shares[i] = base
	}
	shares[count-1] += remainder
	return shares
}

// Split emits the installment entries for a total: count amounts due every
// intervalDays starting at start. count and intervalDays are clamped to 1.
func Split(total core.Money, count, intervalDays int, start core.Date) []Entry {
	if count < 1 {
		count = 1
	}
	if intervalDays < 1 {
		intervalDays = 1
	}

	shares := SplitCents(total.Cents, count)
	entries := make([]Entry, count)
	for i, cents := range shares {
		entries[i] = Entry{
			Amount:  core.Money{Cents: cents},
			DueDate: start.AddDays(i * intervalDays),
		}
	}
	return entries
}

// BuildMovements generates one ledger movement per installment of the plan.
// Each movement carries a fresh ID, the plan metadata, and a numbered
// description suffix when the plan has more than one installment.
func BuildMovements(p Plan) []core.Movement {
	if p.Count < 1 {
		p.Count = 1
	}
	if p.IntervalDays < 1 {
		p.IntervalDays = 1
	}

	entries := Split(p.Total, p.Count, p.IntervalDays, p.Start)
	movements := make([]core.Movement, len(entries))
	for i, e := range entries {
		desc := p.Description
		if p.Count > 1 {
			desc = fmt.Sprintf("%s (%d/%d)", p.Description, i+1, p.Count)
		}
		movements[i] = core.Movement{
			ID:           uuid.NewString(),
			Description:  desc,
			Amount:       e.Amount,
			Date:         p.Recorded,
			DueDate:      e.DueDate,
			Paid:         false,
			Category:     p.Category,
			Type:         p.Type,
			Installments: p.Count,
			IntervalDays: p.IntervalDays,
		}
	}
	return movements
}
