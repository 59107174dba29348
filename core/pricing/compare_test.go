package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"quote-engine/core/types"
)

func TestCompareBillingCycles(t *testing.T) {
	got := CompareBillingCycles(150000)

	want := []struct {
		cycle   types.BillingCycle
		total   int64
		monthly int64
		savings int64
		percent string
	}{
		{types.BillingAnnual, 127500, 10625, 22500, "15"},
		{types.BillingSemestral, 138000, 23000, 0, "0"},
		{types.BillingQuarterly, 145500, 48500, 0, "0"},
		{types.BillingMonthly, 150000, 150000, 0, "0"},
	}

	if len(got) != len(want) {
		t.Fatalf("got %d comparisons, want %d", len(got), len(want))
	}
	for i, w := range want {
		c := got[i]
		if c.Cycle != w.cycle {
			t.Errorf("position %d: cycle %s, want %s", i, c.Cycle, w.cycle)
			continue
		}
		if c.TotalCost != w.total {
			t.Errorf("%s TotalCost = %d, want %d", c.Cycle, c.TotalCost, w.total)
		}
		if c.MonthlyCost != w.monthly {
			t.Errorf("%s MonthlyCost = %d, want %d", c.Cycle, c.MonthlyCost, w.monthly)
		}
		if c.Savings != w.savings {
			t.Errorf("%s Savings = %d, want %d", c.Cycle, c.Savings, w.savings)
		}
		if !c.SavingsPercent.Equal(decimal.RequireFromString(w.percent)) {
			t.Errorf("%s SavingsPercent = %s, want %s", c.Cycle, c.SavingsPercent, w.percent)
		}
	}

	if best := BestBillingCycle(150000); best.Cycle != types.BillingAnnual {
		t.Errorf("BestBillingCycle = %s, want annual", best.Cycle)
	}
}

func TestCompareBillingCyclesCheapestFirst(t *testing.T) {
	for _, base := range []int64{1, 7, 99, 150000, 644719, 4999999, 123456789} {
		list := CompareBillingCycles(base)
		for i := 1; i < len(list); i++ {
			if list[0].MonthlyCost > list[i].MonthlyCost {
				t.Errorf("base %d: first cycle %s costs more than %s", base, list[0].Cycle, list[i].Cycle)
			}
			if list[i-1].MonthlyCost > list[i].MonthlyCost {
				t.Errorf("base %d: list not sorted at %d", base, i)
			}
		}
	}
}

func TestCompareBillingCyclesTiesKeepEnumerationOrder(t *testing.T) {
	list := CompareBillingCycles(0)
	for i, cycle := range types.BillingCycles {
		if list[i].Cycle != cycle {
			t.Errorf("position %d: %s, want %s", i, list[i].Cycle, cycle)
		}
		if !list[i].SavingsPercent.IsZero() {
			t.Errorf("%s: percent must be 0 for a zero base price", cycle)
		}
	}
}

func TestCompareBillingCyclesPercentPrecision(t *testing.T) {
	// annual: round(333 × 0.85) = 283, savings 50, 50/333 = 15.015..%
	list := CompareBillingCycles(333)
	if list[0].Cycle != types.BillingAnnual {
		t.Fatalf("expected annual first, got %s", list[0].Cycle)
	}
	if !list[0].SavingsPercent.Equal(decimal.RequireFromString("15.02")) {
		t.Errorf("SavingsPercent = %s, want 15.02", list[0].SavingsPercent)
	}
}

func TestCompareBillingCyclesLargeBase(t *testing.T) {
	const base = int64(1_000_000_000_000_000_000)
	list := CompareBillingCycles(base)

	want := []types.BillingCycle{types.BillingAnnual, types.BillingSemestral, types.BillingQuarterly, types.BillingMonthly}
	for i, cycle := range want {
		if list[i].Cycle != cycle {
			t.Fatalf("position %d: %s, want %s", i, list[i].Cycle, cycle)
		}
	}
	for _, c := range list {
		if c.MonthlyCost <= 0 {
			t.Errorf("%s MonthlyCost = %d, want positive", c.Cycle, c.MonthlyCost)
		}
		if c.SavingsPercent.GreaterThan(decimal.NewFromInt(15)) {
			t.Errorf("%s SavingsPercent = %s, above the largest discount", c.Cycle, c.SavingsPercent)
		}
	}

	annual := list[0]
	if annual.MonthlyCost != 70833333333333333 {
		t.Errorf("annual MonthlyCost = %d, want 70833333333333333", annual.MonthlyCost)
	}
	if annual.Savings != 150_000_000_000_000_000 {
		t.Errorf("annual Savings = %d, want 150000000000000000", annual.Savings)
	}
	if monthly := list[3]; monthly.MonthlyCost != base || monthly.Savings != 0 || !monthly.SavingsPercent.IsZero() {
		t.Errorf("monthly = %+v, want full price and no savings", monthly)
	}
}
