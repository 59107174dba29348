// Package pricing - Price breakdown
package pricing

import (
	"github.com/shopspring/decimal"

	"quote-engine/core/catalog"
	"quote-engine/core/types"
	"quote-engine/internal/errors"
)

// projectValueScale turns a project value into a multiplier per million CLP
var projectValueScale = decimal.NewFromInt(1_000_000)

// CalculateProjectPriceBreakdown prices a project.
//
// adjusted = round(basePrice × value/1e6 × complexity × material × brand × urgency)
// discount = round(adjusted × rate(cycle))
// final    = adjusted − discount
// monthly  = round(final / months(cycle))
//
// Each rounding is applied once to the exact product; none feeds on a
// previously rounded residual. Unknown level keys and project values
// beyond MaxAmount are an INPUT_ERROR.
func (e *Engine) CalculateProjectPriceBreakdown(
	plan types.PricingPlan,
	projectValue int64,
	complexity types.Complexity,
	material types.MaterialQuality,
	brand types.BrandPreference,
	urgency types.Urgency,
	cycle types.BillingCycle,
) (*types.ProjectPriceBreakdown, error) {
	if projectValue > MaxAmount || projectValue < -MaxAmount {
		return nil, errors.Newf(errors.TypeInput, "project value %d is out of range", projectValue)
	}
	complexityEntry, err := e.factors.Complexity.Lookup(complexity)
	if err != nil {
		return nil, err
	}
	materialEntry, err := e.factors.Material.Lookup(material)
	if err != nil {
		return nil, err
	}
	brandEntry, err := e.factors.Brand.Lookup(brand)
	if err != nil {
		return nil, err
	}
	urgencyEntry, err := e.factors.Urgency.Lookup(urgency)
	if err != nil {
		return nil, err
	}
	rate, err := catalog.BillingDiscount(cycle)
	if err != nil {
		return nil, err
	}

	projectValueFactor := decimal.NewFromInt(projectValue).Div(projectValueScale)

	withoutUrgency := decimal.NewFromInt(plan.BasePrice).
		Mul(projectValueFactor).
		Mul(complexityEntry.Factor).
		Mul(materialEntry.Factor).
		Mul(brandEntry.Factor)

	adjusted := roundHalfUp(withoutUrgency.Mul(urgencyEntry.Factor))
	discountAmount := roundHalfUp(decimal.NewFromInt(adjusted).Mul(rate))
	finalPrice := adjusted - discountAmount
	monthly := roundHalfUp(decimal.NewFromInt(finalPrice).Div(decimal.NewFromInt(int64(cycle.Months()))))

	// urgency factors below 1 would show up here as a saving
	baseWithoutUrgency := roundHalfUp(withoutUrgency)
	fromUrgency := max(0, baseWithoutUrgency-adjusted)
	fromBilling := max(0, discountAmount)

	return &types.ProjectPriceBreakdown{
		BasePrice:                  plan.BasePrice,
		ProjectValueFactor:         projectValueFactor,
		ComplexityFactor:           complexityEntry.Factor,
		MaterialFactor:             materialEntry.Factor,
		BrandFactor:                brandEntry.Factor,
		UrgencyFactor:              urgencyEntry.Factor,
		AdjustedBasePrice:          adjusted,
		BillingCycle:               cycle,
		BillingCycleDiscount:       rate,
		BillingCycleDiscountAmount: discountAmount,
		FinalPrice:                 finalPrice,
		MonthlyEquivalent:          monthly,
		Savings: types.Savings{
			FromBillingCycle: fromBilling,
			FromUrgency:      fromUrgency,
			Total:            max(0, discountAmount+fromUrgency),
		},
	}, nil
}
