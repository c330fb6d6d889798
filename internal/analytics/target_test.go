package analytics

import (
	"testing"

	"caixa/internal/core"
	"caixa/internal/ledger"
)

func TestProjectTargetsMeanOfMonthlyTotals(t *testing.T) {
	led := ledger.New([]core.Movement{
		mv("nov1", 2024, 11, 4, 100000, core.Revenue),
		mv("nov2", 2024, 11, 18, 140000, core.Revenue),
		mv("oct", 2024, 10, 7, 120000, core.Revenue),
		mv("sep", 2024, 9, 9, 100000, core.Revenue),
		// Expenses and the partial current month must not contribute.
		mv("exp", 2024, 11, 5, 999999, core.Expense),
		mv("dec", 2024, 12, 2, 888888, core.Revenue),
	})
	today := core.NewDate(2024, 12, 10)

	got := ProjectTargets(today, 3, led)
	if got.MonthsSampled != 3 {
		t.Fatalf("MonthsSampled = %d, want 3", got.MonthsSampled)
	}
	// Mean of (2400.00, 1200.00, 1000.00) = 1533.33 monthly.
	if got.Monthly.Cents != 153333 {
		t.Fatalf("Monthly = %d, want 153333", got.Monthly.Cents)
	}
	// December has 31 days: 1533.33 / 31 = 49.46 daily.
	if got.Daily.Cents != 4946 {
		t.Fatalf("Daily = %d, want 4946", got.Daily.Cents)
	}
	// Weekly is exactly 7 times the implied daily rate.
	if got.Weekly.Cents != 7*got.Daily.Cents {
		t.Fatalf("Weekly = %d, want %d", got.Weekly.Cents, 7*got.Daily.Cents)
	}
}

func TestProjectTargetsSkipsEmptyMonths(t *testing.T) {
	// Only September has revenue in the window; the mean covers sampled
	// months, not the whole window.
	led := ledger.New([]core.Movement{
		mv("sep", 2024, 9, 9, 90000, core.Revenue),
	})
	got := ProjectTargets(core.NewDate(2024, 12, 10), 3, led)
	if got.MonthsSampled != 1 {
		t.Fatalf("MonthsSampled = %d, want 1", got.MonthsSampled)
	}
	if got.Monthly.Cents != 90000 {
		t.Fatalf("Monthly = %d, want 90000", got.Monthly.Cents)
	}
}

func TestProjectTargetsNoData(t *testing.T) {
	got := ProjectTargets(core.NewDate(2024, 12, 10), 3, ledger.New(nil))
	if got.HasData() {
		t.Fatalf("empty ledger must yield no projection, got %+v", got)
	}
	if got.Daily.Cents != 0 || got.Weekly.Cents != 0 || got.Monthly.Cents != 0 {
		t.Fatalf("no-data projection must be zero-valued, got %+v", got)
	}
}

func TestProjectTargetsWindowCrossesYear(t *testing.T) {
	led := ledger.New([]core.Movement{
		mv("dec", 2024, 12, 2, 310000, core.Revenue),
		mv("nov", 2024, 11, 4, 300000, core.Revenue),
	})
	got := ProjectTargets(core.NewDate(2025, 1, 15), 2, led)
	if got.MonthsSampled != 2 {
		t.Fatalf("MonthsSampled = %d, want 2", got.MonthsSampled)
	}
	if got.Monthly.Cents != 305000 {
		t.Fatalf("Monthly = %d, want 305000", got.Monthly.Cents)
	}
	// January has 31 days.
	if got.Daily.Cents != 9839 { // 305000/31 rounded half-up
		t.Fatalf("Daily = %d, want 9839", got.Daily.Cents)
	}
}
