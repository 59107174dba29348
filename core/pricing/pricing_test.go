// Package pricing - Pricing engine tests
// Concrete scenarios plus the properties every quote relies on.
package pricing

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"quote-engine/core/catalog"
	"quote-engine/core/types"
	"quote-engine/internal/errors"
)

const (
	minProjectValue = 300000
	maxProjectValue = 50000000
)

func mustPlan(t *testing.T, id string) types.PricingPlan {
	t.Helper()
	plan, ok := FindPricingPlan(id)
	if !ok {
		t.Fatalf("plan %q not in catalog", id)
	}
	return plan
}

func mustBreakdown(t *testing.T, plan types.PricingPlan, value int64, c types.Complexity, m types.MaterialQuality,
	b types.BrandPreference, u types.Urgency, cycle types.BillingCycle) *types.ProjectPriceBreakdown {
	t.Helper()
	bd, err := CalculateProjectPriceBreakdown(plan, value, c, m, b, u, cycle)
	if err != nil {
		t.Fatalf("CalculateProjectPriceBreakdown: %v", err)
	}
	return bd
}

func TestBreakdownScenarios(t *testing.T) {
	basico := mustPlan(t, "basico")

	tests := []struct {
		name        string
		value       int64
		complexity  types.Complexity
		material    types.MaterialQuality
		brand       types.BrandPreference
		urgency     types.Urgency
		cycle       types.BillingCycle
		adjusted    int64
		discount    int64
		final       int64
		monthly     int64
		savingTotal int64
	}{
		{
			name:       "neutral factors monthly",
			value:      1000000,
			complexity: types.ComplexityMedium, material: types.MaterialStandard,
			brand: types.BrandStandard, urgency: types.UrgencyNormal,
			cycle:    types.BillingMonthly,
			adjusted: 150000, discount: 0, final: 150000, monthly: 150000, savingTotal: 0,
		},
		{
			name:       "neutral factors annual",
			value:      1000000,
			complexity: types.ComplexityMedium, material: types.MaterialStandard,
			brand: types.BrandStandard, urgency: types.UrgencyNormal,
			cycle:    types.BillingAnnual,
			adjusted: 150000, discount: 22500, final: 127500, monthly: 10625, savingTotal: 22500,
		},
		{
			// 150000 × 2 × 1.15 × 1.25 × 1.3 × 1.15 = 644718.75
			name:       "every factor raised, quarterly",
			value:      2000000,
			complexity: types.ComplexityLarge, material: types.MaterialPremium,
			brand: types.BrandPremium, urgency: types.UrgencyPriority,
			cycle:    types.BillingQuarterly,
			adjusted: 644719, discount: 19342, final: 625377, monthly: 208459, savingTotal: 19342,
		},
		{
			// 150000 × 0.5 × 0.85 × 0.9 = 57375
			name:       "discount factors semestral",
			value:      500000,
			complexity: types.ComplexitySmall, material: types.MaterialStandard,
			brand: types.BrandEconomic, urgency: types.UrgencyNormal,
			cycle:    types.BillingSemestral,
			adjusted: 57375, discount: 4590, final: 52785, monthly: 8798, savingTotal: 4590,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bd := mustBreakdown(t, basico, tt.value, tt.complexity, tt.material, tt.brand, tt.urgency, tt.cycle)

			if bd.AdjustedBasePrice != tt.adjusted {
				t.Errorf("AdjustedBasePrice = %d, want %d", bd.AdjustedBasePrice, tt.adjusted)
			}
			if bd.BillingCycleDiscountAmount != tt.discount {
				t.Errorf("BillingCycleDiscountAmount = %d, want %d", bd.BillingCycleDiscountAmount, tt.discount)
			}
			if bd.FinalPrice != tt.final {
				t.Errorf("FinalPrice = %d, want %d", bd.FinalPrice, tt.final)
			}
			if bd.MonthlyEquivalent != tt.monthly {
				t.Errorf("MonthlyEquivalent = %d, want %d", bd.MonthlyEquivalent, tt.monthly)
			}
			if bd.Savings.Total != tt.savingTotal {
				t.Errorf("Savings.Total = %d, want %d", bd.Savings.Total, tt.savingTotal)
			}
			if bd.BasePrice != basico.BasePrice {
				t.Errorf("BasePrice = %d, want %d", bd.BasePrice, basico.BasePrice)
			}
		})
	}
}

func TestBreakdownKeepsIntermediateFactors(t *testing.T) {
	bd := mustBreakdown(t, mustPlan(t, "premium"), 9500000,
		types.ComplexityIndustrial, types.MaterialLuxury, types.BrandEconomic, types.UrgencyUrgent, types.BillingAnnual)

	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"project value factor", bd.ProjectValueFactor, "9.5"},
		{"complexity", bd.ComplexityFactor, "1.35"},
		{"material", bd.MaterialFactor, "1.5"},
		{"brand", bd.BrandFactor, "0.9"},
		{"urgency", bd.UrgencyFactor, "1.35"},
		{"discount rate", bd.BillingCycleDiscount, "0.15"},
	}
	for _, c := range checks {
		if !c.got.Equal(decimal.RequireFromString(c.want)) {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}
	if bd.BillingCycle != types.BillingAnnual {
		t.Errorf("BillingCycle = %s", bd.BillingCycle)
	}
}

func TestBreakdownIsDeterministic(t *testing.T) {
	plan := mustPlan(t, "estandar")
	first := mustBreakdown(t, plan, 3333333, types.ComplexityLarge, types.MaterialPremium,
		types.BrandEconomic, types.UrgencyUrgent, types.BillingQuarterly)
	for i := 0; i < 50; i++ {
		again := mustBreakdown(t, plan, 3333333, types.ComplexityLarge, types.MaterialPremium,
			types.BrandEconomic, types.UrgencyUrgent, types.BillingQuarterly)
		if again.FinalPrice != first.FinalPrice || again.MonthlyEquivalent != first.MonthlyEquivalent {
			t.Fatalf("run %d differs: %+v vs %+v", i, again, first)
		}
	}
}

func TestBreakdownUnknownLevelsFail(t *testing.T) {
	plan := mustPlan(t, "basico")

	tests := []struct {
		name string
		run  func() error
	}{
		{"complexity", func() error {
			_, err := CalculateProjectPriceBreakdown(plan, 1000000, "huge", types.MaterialStandard,
				types.BrandStandard, types.UrgencyNormal, types.BillingMonthly)
			return err
		}},
		{"material", func() error {
			_, err := CalculateProjectPriceBreakdown(plan, 1000000, types.ComplexityMedium, "gold",
				types.BrandStandard, types.UrgencyNormal, types.BillingMonthly)
			return err
		}},
		{"brand", func() error {
			_, err := CalculateProjectPriceBreakdown(plan, 1000000, types.ComplexityMedium, types.MaterialStandard,
				"boutique", types.UrgencyNormal, types.BillingMonthly)
			return err
		}},
		{"urgency", func() error {
			_, err := CalculateProjectPriceBreakdown(plan, 1000000, types.ComplexityMedium, types.MaterialStandard,
				types.BrandStandard, "yesterday", types.BillingMonthly)
			return err
		}},
		{"billing cycle", func() error {
			_, err := CalculateProjectPriceBreakdown(plan, 1000000, types.ComplexityMedium, types.MaterialStandard,
				types.BrandStandard, types.UrgencyNormal, "weekly")
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if err == nil {
				t.Fatal("expected an error for an unknown level")
			}
			if !errors.IsType(err, errors.TypeInput) {
				t.Errorf("expected INPUT_ERROR, got %v", err)
			}
		})
	}
}

// TestUrgencySavingsUsesGeneralFormula prices with an urgency table that has a
// discount level, so the urgency saving is non-zero.
func TestUrgencySavingsUsesGeneralFormula(t *testing.T) {
	factors := DefaultFactors()
	factors.Urgency = catalog.NewFactorTable("urgency",
		catalog.FactorRow[types.Urgency]{Level: types.UrgencyNormal, Factor: "1.0", Description: "normal"},
		catalog.FactorRow[types.Urgency]{Level: "off_peak", Factor: "0.9", Description: "off-peak scheduling"},
	)
	engine := NewEngine(catalog.Default, factors)
	plan := mustPlan(t, "basico")

	bd, err := engine.CalculateProjectPriceBreakdown(plan, 1000000, types.ComplexityMedium,
		types.MaterialStandard, types.BrandStandard, "off_peak", types.BillingQuarterly)
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}

	if bd.AdjustedBasePrice != 135000 {
		t.Fatalf("AdjustedBasePrice = %d, want 135000", bd.AdjustedBasePrice)
	}
	if bd.Savings.FromUrgency != 15000 {
		t.Errorf("FromUrgency = %d, want 15000", bd.Savings.FromUrgency)
	}
	if bd.Savings.FromBillingCycle != 4050 {
		t.Errorf("FromBillingCycle = %d, want 4050", bd.Savings.FromBillingCycle)
	}
	if bd.Savings.Total != 19050 {
		t.Errorf("Total = %d, want 19050", bd.Savings.Total)
	}
}

func TestUrgencySavingsZeroWhenUrgencyRaisesPrice(t *testing.T) {
	bd := mustBreakdown(t, mustPlan(t, "basico"), 1000000, types.ComplexityMedium,
		types.MaterialStandard, types.BrandStandard, types.UrgencyUrgent, types.BillingMonthly)
	if bd.Savings.FromUrgency != 0 {
		t.Errorf("FromUrgency = %d, want 0", bd.Savings.FromUrgency)
	}
	if bd.AdjustedBasePrice != 202500 {
		t.Errorf("AdjustedBasePrice = %d, want 202500", bd.AdjustedBasePrice)
	}
}

// TestBreakdownMonotonicInFactors raises one factor at a time
func TestBreakdownMonotonicInFactors(t *testing.T) {
	plan := mustPlan(t, "estandar")
	const value = 4200000

	price := func(c types.Complexity, m types.MaterialQuality, b types.BrandPreference, u types.Urgency) int64 {
		return mustBreakdown(t, plan, value, c, m, b, u, types.BillingMonthly).AdjustedBasePrice
	}

	complexities := catalog.Complexity.Levels()
	for i := 1; i < len(complexities); i++ {
		lo := price(complexities[i-1], types.MaterialStandard, types.BrandStandard, types.UrgencyNormal)
		hi := price(complexities[i], types.MaterialStandard, types.BrandStandard, types.UrgencyNormal)
		if hi < lo {
			t.Errorf("complexity %s -> %s decreased price %d -> %d", complexities[i-1], complexities[i], lo, hi)
		}
	}

	materials := catalog.Material.Levels()
	for i := 1; i < len(materials); i++ {
		lo := price(types.ComplexityMedium, materials[i-1], types.BrandStandard, types.UrgencyNormal)
		hi := price(types.ComplexityMedium, materials[i], types.BrandStandard, types.UrgencyNormal)
		if hi < lo {
			t.Errorf("material %s -> %s decreased price %d -> %d", materials[i-1], materials[i], lo, hi)
		}
	}

	brands := catalog.Brand.Levels()
	for i := 1; i < len(brands); i++ {
		lo := price(types.ComplexityMedium, types.MaterialStandard, brands[i-1], types.UrgencyNormal)
		hi := price(types.ComplexityMedium, types.MaterialStandard, brands[i], types.UrgencyNormal)
		if hi < lo {
			t.Errorf("brand %s -> %s decreased price %d -> %d", brands[i-1], brands[i], lo, hi)
		}
	}

	urgencies := catalog.Urgency.Levels()
	for i := 1; i < len(urgencies); i++ {
		lo := price(types.ComplexityMedium, types.MaterialStandard, types.BrandStandard, urgencies[i-1])
		hi := price(types.ComplexityMedium, types.MaterialStandard, types.BrandStandard, urgencies[i])
		if hi < lo {
			t.Errorf("urgency %s -> %s decreased price %d -> %d", urgencies[i-1], urgencies[i], lo, hi)
		}
	}
}

func TestFinalPriceNonIncreasingWithDiscount(t *testing.T) {
	plan := mustPlan(t, "premium")
	var previous int64 = -1
	for _, cycle := range types.BillingCycles {
		bd := mustBreakdown(t, plan, 12750000, types.ComplexityLarge, types.MaterialPremium,
			types.BrandStandard, types.UrgencyPriority, cycle)
		if previous >= 0 && bd.FinalPrice > previous {
			t.Errorf("%s final price %d exceeds previous cycle's %d", cycle, bd.FinalPrice, previous)
		}
		previous = bd.FinalPrice
	}
}

func TestBreakdownExactHalfRoundsUp(t *testing.T) {
	// 150000 × 0.3 × 1.25 × 1.15 is exactly 64687.5
	bd := mustBreakdown(t, mustPlan(t, "basico"), 300000,
		types.ComplexityMedium, types.MaterialPremium, types.BrandStandard, types.UrgencyPriority,
		types.BillingMonthly)
	if bd.AdjustedBasePrice != 64688 {
		t.Errorf("AdjustedBasePrice = %d, want 64688", bd.AdjustedBasePrice)
	}
	if bd.FinalPrice != 64688 {
		t.Errorf("FinalPrice = %d, want 64688", bd.FinalPrice)
	}
}

func TestBreakdownRejectsOversizedProjectValue(t *testing.T) {
	for _, value := range []int64{MaxAmount + 1, math.MaxInt64, math.MinInt64} {
		_, err := CalculateProjectPriceBreakdown(mustPlan(t, "empresarial"), value,
			types.ComplexityIndustrial, types.MaterialLuxury, types.BrandPremium, types.UrgencyUrgent,
			types.BillingAnnual)
		if !errors.IsType(err, errors.TypeInput) {
			t.Errorf("value %d: err = %v, want INPUT_ERROR", value, err)
		}
	}

	if _, err := CalculateProjectPriceBreakdown(mustPlan(t, "empresarial"), MaxAmount,
		types.ComplexityIndustrial, types.MaterialLuxury, types.BrandPremium, types.UrgencyUrgent,
		types.BillingAnnual); err != nil {
		t.Errorf("MaxAmount: %v", err)
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"0.5", 1},
		{"1.4999", 1},
		{"2.5", 3},
		{"-0.5", 0},
		{"-1.5", -1},
		{"-1.51", -2},
		{"644718.75", 644719},
		{"64687.5", 64688},
	}
	for _, tt := range tests {
		if got := roundHalfUp(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("roundHalfUp(%s) = %d, want %d", tt.in, got, tt.want)
		}
	}

	if got := roundPlaces(decimal.RequireFromString("33.335"), 2); !got.Equal(decimal.RequireFromString("33.34")) {
		t.Errorf("roundPlaces = %s, want 33.34", got)
	}
}

func TestFormatCLP(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "$0"},
		{950, "$950"},
		{1500, "$1.500"},
		{300000, "$300.000"},
		{2500000, "$2.500.000"},
		{15000001, "$15.000.001"},
		{-22500, "$-22.500"},
	}
	for _, tt := range tests {
		if got := FormatCLP(tt.amount); got != tt.want {
			t.Errorf("FormatCLP(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

// sampleValues covers every plan boundary plus a stride through the allowed range
func sampleValues() []int64 {
	values := []int64{1, 299999}
	for _, p := range catalog.Default.Plans() {
		values = append(values, p.MinProjectValue-1, p.MinProjectValue, p.MinProjectValue+1)
		if p.MaxProjectValue != nil {
			values = append(values, *p.MaxProjectValue-1, *p.MaxProjectValue, *p.MaxProjectValue+1)
		}
	}
	for v := int64(minProjectValue); v <= maxProjectValue; v += 99991 {
		values = append(values, v)
	}
	return append(values, maxProjectValue)
}
