// Package catalog - Billing cycle discounts
package catalog

import (
	"github.com/shopspring/decimal"

	"quote-engine/core/types"
	"quote-engine/internal/errors"
)

var billingDiscounts = map[types.BillingCycle]decimal.Decimal{
	types.BillingMonthly:   decimal.Zero,
	types.BillingQuarterly: decimal.RequireFromString("0.03"),
	types.BillingSemestral: decimal.RequireFromString("0.08"),
	types.BillingAnnual:    decimal.RequireFromString("0.15"),
}

// BillingDiscount returns the discount rate of a cycle
func BillingDiscount(cycle types.BillingCycle) (decimal.Decimal, error) {
	rate, ok := billingDiscounts[cycle]
	if !ok {
		return decimal.Zero, errors.UnknownLevel("billing_cycle", string(cycle))
	}
	return rate, nil
}

// ParseBillingCycle converts raw input into a billing cycle
func ParseBillingCycle(raw string) (types.BillingCycle, error) {
	cycle := types.BillingCycle(raw)
	if !cycle.IsValid() {
		return "", errors.UnknownLevel("billing_cycle", raw)
	}
	return cycle, nil
}
