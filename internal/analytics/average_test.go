package analytics

import (
	"testing"

	"caixa/internal/core"
	"caixa/internal/ledger"
)

func TestCalculateDailyAverageEndToEnd(t *testing.T) {
	led := ledger.New([]core.Movement{
		mv("dec", 2024, 12, 2, 120000, core.Expense),
		mv("nov", 2024, 11, 2, 110000, core.Expense),
		mv("oct", 2024, 10, 2, 105000, core.Expense),
	})
	today := core.NewDate(2024, 12, 20)

	got := CalculateDailyAverage(today, 2, 3, led)
	if !got.HasData() {
		t.Fatalf("expected data, got none")
	}
	if got.DataPoints != 3 {
		t.Fatalf("DataPoints = %d, want 3", got.DataPoints)
	}
	// (1200.00 + 1100.00 + 1050.00) / 3 = 1116.67, rounded half-up.
	if got.Average.Cents != 111667 {
		t.Fatalf("Average = %d cents, want 111667", got.Average.Cents)
	}
}

func TestCalculateDailyAverageDividesByDaysNotRecords(t *testing.T) {
	// Two records on the same accepted day: the divisor is still 1.
	led := ledger.New([]core.Movement{
		mv("a", 2024, 12, 2, 1000, core.Expense),
		mv("b", 2024, 12, 2, 500, core.Expense),
	})
	got := CalculateDailyAverage(core.NewDate(2024, 12, 20), 2, 1, led)
	if got.DataPoints != 1 {
		t.Fatalf("DataPoints = %d, want 1", got.DataPoints)
	}
	if got.Average.Cents != 1500 {
		t.Fatalf("Average = %d, want 1500", got.Average.Cents)
	}
}

func TestCalculateDailyAverageNoData(t *testing.T) {
	got := CalculateDailyAverage(core.NewDate(2024, 12, 20), 2, 3, ledger.New(nil))
	if got.HasData() {
		t.Fatalf("empty ledger must report no data, got %+v", got)
	}
	if got.DataPoints != 0 || got.Average.Cents != 0 {
		t.Fatalf("no-data result must be zero-valued, got %+v", got)
	}
}

func TestCalculateDailyAverageZeroIsNotNoData(t *testing.T) {
	// A recorded zero-amount day is a data point with average zero,
	// distinguishable from the absent case by DataPoints.
	led := ledger.New([]core.Movement{
		mv("zero", 2024, 12, 2, 0, core.Expense),
	})
	got := CalculateDailyAverage(core.NewDate(2024, 12, 20), 2, 1, led)
	if !got.HasData() {
		t.Fatalf("zero-amount day must still count as data")
	}
	if got.Average.Cents != 0 {
		t.Fatalf("Average = %d, want 0", got.Average.Cents)
	}
}

func TestCalculateWeeklyAverage(t *testing.T) {
	led := ledger.New([]core.Movement{
		mv("a", 2024, 12, 2, 1000, core.Revenue), // Monday, ISO 2024/W49
		mv("b", 2024, 12, 4, 2000, core.Revenue),
		mv("c", 2024, 12, 11, 9000, core.Revenue), // W50, excluded
	})
	got := CalculateWeeklyAverage(49, 2024, led)
	if got.DataPoints != 2 {
		t.Fatalf("DataPoints = %d, want 2", got.DataPoints)
	}
	if got.Average.Cents != 1500 {
		t.Fatalf("Average = %d, want 1500", got.Average.Cents)
	}

	empty := CalculateWeeklyAverage(30, 2024, led)
	if empty.HasData() || empty.Average.Cents != 0 {
		t.Fatalf("empty week must report no data, got %+v", empty)
	}
}

func TestCalculateWeeklyAverageCrossYearWeek(t *testing.T) {
	// 2024-12-31 belongs to ISO week 1 of 2025.
	led := ledger.New([]core.Movement{
		mv("nye", 2024, 12, 31, 4000, core.Revenue),
		mv("jan", 2025, 1, 2, 2000, core.Revenue),
	})
	got := CalculateWeeklyAverage(1, 2025, led)
	if got.DataPoints != 2 {
		t.Fatalf("DataPoints = %d, want 2", got.DataPoints)
	}
	if got.Average.Cents != 3000 {
		t.Fatalf("Average = %d, want 3000", got.Average.Cents)
	}
}

func TestCalculateMonthlyAverage(t *testing.T) {
	led := ledger.New([]core.Movement{
		mv("a", 2024, 11, 2, 1000, core.Revenue),
		mv("b", 2024, 11, 20, 2001, core.Revenue),
		mv("c", 2024, 12, 1, 9000, core.Revenue),
	})
	got := CalculateMonthlyAverage(11, 2024, led)
	if got.DataPoints != 2 {
		t.Fatalf("DataPoints = %d, want 2", got.DataPoints)
	}
	if got.Total.Cents != 3001 {
		t.Fatalf("Total = %d, want 3001", got.Total.Cents)
	}
	if got.Average.Cents != 1501 { // 3001/2 rounded half-up
		t.Fatalf("Average = %d, want 1501", got.Average.Cents)
	}

	empty := CalculateMonthlyAverage(1, 2024, led)
	if empty.HasData() || empty.Total.Cents != 0 {
		t.Fatalf("empty month must report no data, got %+v", empty)
	}
}

func TestMonthlyTotalsReconcileWithYearSum(t *testing.T) {
	records := []core.Movement{
		mv("a", 2024, 1, 3, 1111, core.Revenue),
		mv("b", 2024, 2, 29, 2222, core.Revenue),
		mv("c", 2024, 6, 15, 3333, core.Revenue),
		mv("d", 2024, 12, 31, 4444, core.Revenue),
		mv("e", 2023, 12, 31, 99999, core.Revenue), // other year, excluded
	}
	led := ledger.New(records)

	var monthSum int64
	for m := 1; m <= 12; m++ {
		monthSum += CalculateMonthlyAverage(m, 2024, led).Total.Cents
	}

	var yearSum int64
	for _, r := range records {
		if r.Date.Year() == 2024 {
			yearSum += r.Amount.Cents
		}
	}

	if monthSum != yearSum {
		t.Fatalf("sum of monthly totals %d != year sum %d", monthSum, yearSum)
	}
}

func TestDivRoundHalfUp(t *testing.T) {
	cases := []struct {
		total, n, want int64
	}{
		{335000, 3, 111667},
		{3001, 2, 1501},
		{10, 4, 3}, // 2.5 rounds up
		{9, 4, 2},  // 2.25 rounds down
		{0, 5, 0},
		{-10, 4, -3}, // half away from zero
	}
	for _, tc := range cases {
		if got := divRoundHalfUp(tc.total, tc.n); got != tc.want {
			t.Fatalf("divRoundHalfUp(%d, %d) = %d, want %d", tc.total, tc.n, got, tc.want)
		}
	}
}
