// Package pricing - Billing cycle comparison
package pricing

import (
	"sort"

	"github.com/shopspring/decimal"

	"quote-engine/core/catalog"
	"quote-engine/core/types"
)

var (
	one     = decimal.NewFromInt(1)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// CompareBillingCycles prices basePrice under every billing cycle and ranks
// them cheapest monthly cost first. Savings are measured against paying
// basePrice every month for a year; ties keep enumeration order.
func (e *Engine) CompareBillingCycles(basePrice int64) []types.BillingCycleComparison {
	base := decimal.NewFromInt(basePrice)
	out := make([]types.BillingCycleComparison, 0, len(types.BillingCycles))

	for _, cycle := range types.BillingCycles {
		rate, err := catalog.BillingDiscount(cycle)
		if err != nil {
			panic(err) // types.BillingCycles and the discount table are out of sync
		}

		discounted := roundHalfUp(base.Mul(one.Sub(rate)))
		// kept in decimal: a year of monthly payments can exceed int64
		normalized := decimal.NewFromInt(discounted).Mul(decimal.NewFromInt(int64(12 / cycle.Months())))
		monthly := roundHalfUp(normalized.Div(twelve))
		rawSavings := base.Sub(normalized)

		percent := decimal.Zero
		if basePrice > 0 {
			percent = roundPlaces(rawSavings.Div(base).Mul(hundred), 2)
			if percent.IsNegative() {
				percent = decimal.Zero
			}
		}
		savings := int64(0)
		if rawSavings.IsPositive() {
			savings = rawSavings.IntPart()
		}

		out = append(out, types.BillingCycleComparison{
			Cycle:          cycle,
			TotalCost:      discounted,
			MonthlyCost:    monthly,
			Savings:        savings,
			SavingsPercent: percent,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MonthlyCost < out[j].MonthlyCost
	})
	return out
}
