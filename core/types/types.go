// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions.
package types

// Complexity is the project size tier used to scale a quote
type Complexity string

const (
	ComplexitySmall      Complexity = "small"
	ComplexityMedium     Complexity = "medium"
	ComplexityLarge      Complexity = "large"
	ComplexityIndustrial Complexity = "industrial"
)

// MaterialQuality is the quality grade of installed materials
type MaterialQuality string

const (
	MaterialStandard MaterialQuality = "standard"
	MaterialPremium  MaterialQuality = "premium"
	MaterialLuxury   MaterialQuality = "luxury"
)

// BrandPreference is the preferred equipment brand segment
type BrandPreference string

const (
	BrandEconomic BrandPreference = "economic"
	BrandStandard BrandPreference = "standard"
	BrandPremium  BrandPreference = "premium"
)

// Urgency is the requested execution deadline
type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyPriority Urgency = "priority"
	UrgencyUrgent   Urgency = "urgent"
)

// Level is satisfied by every factor-table key type
type Level interface {
	~string
}

// BillingCycle is the payment cadence of a quote
type BillingCycle string

const (
	BillingMonthly   BillingCycle = "monthly"
	BillingQuarterly BillingCycle = "quarterly"
	BillingSemestral BillingCycle = "semestral"
	BillingAnnual    BillingCycle = "annual"
)

// BillingCycles lists every cycle in enumeration order
var BillingCycles = []BillingCycle{BillingMonthly, BillingQuarterly, BillingSemestral, BillingAnnual}

// String returns the string representation
func (c BillingCycle) String() string {
	return string(c)
}

// IsValid checks if the cycle is one of the four known cycles
func (c BillingCycle) IsValid() bool {
	switch c {
	case BillingMonthly, BillingQuarterly, BillingSemestral, BillingAnnual:
		return true
	default:
		return false
	}
}

// Months returns the cycle length in months (0 for an invalid cycle)
func (c BillingCycle) Months() int {
	switch c {
	case BillingMonthly:
		return 1
	case BillingQuarterly:
		return 3
	case BillingSemestral:
		return 6
	case BillingAnnual:
		return 12
	default:
		return 0
	}
}

// Label returns the customer-facing name of the cycle
func (c BillingCycle) Label() string {
	switch c {
	case BillingMonthly:
		return "Mensual"
	case BillingQuarterly:
		return "Trimestral"
	case BillingSemestral:
		return "Semestral"
	case BillingAnnual:
		return "Anual"
	default:
		return string(c)
	}
}

// PaymentLabel returns the phrase used in contact messages
func (c BillingCycle) PaymentLabel() string {
	switch c {
	case BillingMonthly:
		return "Pago mensual"
	case BillingQuarterly:
		return "Pago trimestral"
	case BillingSemestral:
		return "Pago semestral"
	default:
		return "Pago anual"
	}
}

// Currency represents a currency code
type Currency string

// CurrencyCLP is the only currency quotes are issued in
const CurrencyCLP Currency = "CLP"
