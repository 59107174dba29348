// Package types - Computed price types
package types

import "github.com/shopspring/decimal"

// ProjectPriceBreakdown is the itemised price of a project.
// Every intermediate value is kept for display and audit.
type ProjectPriceBreakdown struct {
	// BasePrice is the plan's base price
	BasePrice int64 `json:"base_price"`

	// ProjectValueFactor is projectValue / 1.000.000
	ProjectValueFactor decimal.Decimal `json:"project_value_factor"`

	ComplexityFactor decimal.Decimal `json:"complexity_factor"`
	MaterialFactor   decimal.Decimal `json:"material_factor"`
	BrandFactor      decimal.Decimal `json:"brand_factor"`
	UrgencyFactor    decimal.Decimal `json:"urgency_factor"`

	// AdjustedBasePrice is the rounded product of base price and all factors
	AdjustedBasePrice int64 `json:"adjusted_base_price"`

	// BillingCycle is the cycle the discount was taken from
	BillingCycle BillingCycle `json:"billing_cycle"`

	// BillingCycleDiscount is the discount rate of the cycle
	BillingCycleDiscount decimal.Decimal `json:"billing_cycle_discount"`

	// BillingCycleDiscountAmount is the rounded discount in CLP
	BillingCycleDiscountAmount int64 `json:"billing_cycle_discount_amount"`

	// FinalPrice is AdjustedBasePrice minus the discount amount
	FinalPrice int64 `json:"final_price"`

	// MonthlyEquivalent is FinalPrice spread over the cycle's months
	MonthlyEquivalent int64 `json:"monthly_equivalent"`

	Savings Savings `json:"savings"`
}

// Savings decomposes how much the customer saves
type Savings struct {
	FromBillingCycle int64 `json:"from_billing_cycle"`
	FromUrgency      int64 `json:"from_urgency"`
	Total            int64 `json:"total"`
}

// BillingCycleComparison is the cost of one billing cycle for a base price
type BillingCycleComparison struct {
	Cycle BillingCycle `json:"cycle"`

	// TotalCost is the discounted price paid each cycle
	TotalCost int64 `json:"total_cost"`

	// MonthlyCost is the annualised cost divided by twelve
	MonthlyCost int64 `json:"monthly_cost"`

	// Savings is measured against paying the base price monthly for a year
	Savings int64 `json:"savings"`

	// SavingsPercent is Savings over the base price, two decimals
	SavingsPercent decimal.Decimal `json:"savings_percent"`
}

// PlanValidation is the result of checking a plan against a project value.
// Reasons are keys plus parameters so callers can localise them.
type PlanValidation struct {
	IsValid      bool              `json:"is_valid"`
	ReasonKey    string            `json:"reason_key,omitempty"`
	ReasonParams map[string]string `json:"reason_params,omitempty"`
}
