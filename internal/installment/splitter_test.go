package installment

import (
	"testing"

	"caixa/internal/core"
)

func TestSplitCentsSumInvariant(t *testing.T) {
	totals := []int64{0, 1, 99, 100, 101, 1000, 33333, 1000001}
	for _, total := range totals {
		for count := 1; count <= 360; count++ {
			shares := SplitCents(total, count)
			if len(shares) != count {
				t.Fatalf("SplitCents(%d, %d) returned %d shares", total, count, len(shares))
			}
			var sum int64
			for _, s := range shares {
				sum += s
			}
			if sum != total {
				t.Fatalf("SplitCents(%d, %d) sums to %d", total, count, sum)
			}
		}
	}
}

func TestSplitCentsRemainderOnLast(t *testing.T) {
	shares := SplitCents(1000, 3)
	want := []int64{333, 333, 334}
	for i, s := range shares {
		if s != want[i] {
			t.Fatalf("shares = %v, want %v", shares, want)
		}
	}
}

func TestSplitCentsClampCount(t *testing.T) {
	shares := SplitCents(500, 0)
	if len(shares) != 1 || shares[0] != 500 {
		t.Fatalf("count 0 must clamp to a single full share, got %v", shares)
	}
}

func TestSplitDueDateSpacing(t *testing.T) {
	start := core.NewDate(2024, 12, 20)
	entries := Split(core.Money{Cents: 90000}, 6, 30, start)

	for i, e := range entries {
		want := start.AddDays(i * 30)
		if !e.DueDate.SameDay(want) {
			t.Fatalf("entry %d due %s, want %s", i, e.DueDate, want)
		}
	}
	// Month boundary: the second entry falls on 2025-01-19.
	if !entries[1].DueDate.SameDay(core.NewDate(2025, 1, 19)) {
		t.Fatalf("entry 1 due %s, want 2025-01-19", entries[1].DueDate)
	}
}

func TestSplitSingleInstallment(t *testing.T) {
	entries := Split(core.Money{Cents: 12345}, 1, 30, core.NewDate(2024, 12, 20))
	if len(entries) != 1 {
		t.Fatalf("expected single entry, got %d", len(entries))
	}
	if entries[0].Amount.Cents != 12345 {
		t.Fatalf("entry amount = %d, want full total", entries[0].Amount.Cents)
	}
}

func TestSplitClampsInterval(t *testing.T) {
	entries := Split(core.Money{Cents: 200}, 2, 0, core.NewDate(2024, 12, 20))
	if !entries[1].DueDate.SameDay(core.NewDate(2024, 12, 21)) {
		t.Fatalf("interval 0 must clamp to 1 day, got %s", entries[1].DueDate)
	}
}

func TestBuildMovements(t *testing.T) {
	plan := Plan{
		Description:  "geladeira nova",
		Total:        core.Money{Cents: 100000},
		Count:        3,
		IntervalDays: 30,
		Start:        core.NewDate(2025, 1, 10),
		Recorded:     core.NewDate(2024, 12, 20),
		Category:     "Equipamentos",
		Type:         core.Expense,
	}

	movements := BuildMovements(plan)
	if len(movements) != 3 {
		t.Fatalf("expected 3 movements, got %d", len(movements))
	}

	var sum int64
	seen := map[string]bool{}
	for i, m := range movements {
		sum += m.Amount.Cents
		if m.ID == "" || seen[m.ID] {
			t.Fatalf("movement %d has missing or duplicate ID %q", i, m.ID)
		}
		seen[m.ID] = true
		if err := m.Validate(); err != nil {
			t.Fatalf("movement %d invalid: %v", i, err)
		}
		if !m.Date.SameDay(plan.Recorded) {
			t.Fatalf("movement %d recorded on %s, want %s", i, m.Date, plan.Recorded)
		}
		if m.Paid {
			t.Fatalf("generated installments must start pending")
		}
		if m.Installments != 3 || m.IntervalDays != 30 {
			t.Fatalf("movement %d missing plan metadata: %+v", i, m)
		}
	}
	if sum != plan.Total.Cents {
		t.Fatalf("installments sum to %d, want %d", sum, plan.Total.Cents)
	}
	if movements[0].Description != "geladeira nova (1/3)" {
		t.Fatalf("unexpected description %q", movements[0].Description)
	}
}

func TestBuildMovementsSingleKeepsDescription(t *testing.T) {
	plan := Plan{
		Description: "aluguel",
		Total:       core.Money{Cents: 150000},
		Count:       1,
		Start:       core.NewDate(2025, 1, 5),
		Recorded:    core.NewDate(2024, 12, 28),
		Category:    "Aluguel",
		Type:        core.Expense,
	}
	movements := BuildMovements(plan)
	if len(movements) != 1 {
		t.Fatalf("expected 1 movement, got %d", len(movements))
	}
	if movements[0].Description != "aluguel" {
		t.Fatalf("single installment must keep the plain description, got %q", movements[0].Description)
	}
}
