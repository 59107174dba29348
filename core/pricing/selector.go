// Package pricing - Plan selection and validation
package pricing

import (
	"quote-engine/core/types"
)

// Reason keys returned by ValidatePlanForProject
const (
	ReasonBelowMinimum = "calculator.plan_min_value_error"
	ReasonAboveMaximum = "calculator.plan_max_value_error"
)

// FindPricingPlan looks a plan up by ID
func (e *Engine) FindPricingPlan(id string) (types.PricingPlan, bool) {
	return e.catalog.Lookup(id)
}

// FindPlanByProjectValue returns the plan whose range contains projectValue.
// It never fails: values below the lowest minimum get the first plan and any
// other unmatched value gets the last one.
func (e *Engine) FindPlanByProjectValue(projectValue int64) types.PricingPlan {
	for i := 0; i < e.catalog.Len(); i++ {
		if plan := e.catalog.At(i); plan.Contains(projectValue) {
			return plan
		}
	}

	first := e.catalog.First()
	if projectValue < first.MinProjectValue {
		return first
	}
	return e.catalog.Last()
}

// ValidatePlanForProject checks plan's own range against projectValue,
// independent of which plan the selector would pick.
func (e *Engine) ValidatePlanForProject(plan types.PricingPlan, projectValue int64) types.PlanValidation {
	if projectValue < plan.MinProjectValue {
		return types.PlanValidation{
			IsValid:   false,
			ReasonKey: ReasonBelowMinimum,
			ReasonParams: map[string]string{
				"plan": plan.Name,
				"min":  FormatCLP(plan.MinProjectValue),
			},
		}
	}
	if plan.MaxProjectValue != nil && projectValue > *plan.MaxProjectValue {
		return types.PlanValidation{
			IsValid:   false,
			ReasonKey: ReasonAboveMaximum,
			ReasonParams: map[string]string{
				"plan": plan.Name,
				"max":  FormatCLP(*plan.MaxProjectValue),
			},
		}
	}
	return types.PlanValidation{IsValid: true}
}
