// Package quote turns a customer's calculator selection into a priced quote.
// It sits between the callers (API, CLI) and the pricing engine: it owns the
// calculator defaults, the project value bounds and the plan auto-selection
// rule, and leaves every computation to core/pricing.
package quote

import (
	"net/url"
	"strconv"

	"quote-engine/core/types"
)

// Query keys used to share a selection as URL state
const (
	KeyPlan       = "plan"
	KeyValue      = "value"
	KeyBilling    = "billing"
	KeyComplexity = "complexity"
	KeyMaterial   = "material"
	KeyBrand      = "brand"
	KeyUrgency    = "urgency"
	KeyOverride   = "override"
)

// Selection is everything a customer chooses in the calculator
type Selection struct {
	PlanID         string                `json:"plan" yaml:"plan"`
	ProjectValue   int64                 `json:"value" yaml:"value"`
	BillingCycle   types.BillingCycle    `json:"billing" yaml:"billing"`
	Complexity     types.Complexity      `json:"complexity" yaml:"complexity"`
	Material       types.MaterialQuality `json:"material" yaml:"material"`
	Brand          types.BrandPreference `json:"brand" yaml:"brand"`
	Urgency        types.Urgency         `json:"urgency" yaml:"urgency"`
	ManualOverride bool                  `json:"manual_override,omitempty" yaml:"-"`
}

// DefaultSelection is the calculator's initial state
func DefaultSelection() Selection {
	return Selection{
		PlanID:       "basico",
		ProjectValue: 1000000,
		BillingCycle: types.BillingMonthly,
		Complexity:   types.ComplexityMedium,
		Material:     types.MaterialStandard,
		Brand:        types.BrandStandard,
		Urgency:      types.UrgencyNormal,
	}
}

// Values encodes the selection as URL state
func (s Selection) Values() url.Values {
	v := url.Values{}
	v.Set(KeyPlan, s.PlanID)
	v.Set(KeyValue, strconv.FormatInt(s.ProjectValue, 10))
	v.Set(KeyBilling, string(s.BillingCycle))
	v.Set(KeyComplexity, string(s.Complexity))
	v.Set(KeyMaterial, string(s.Material))
	v.Set(KeyBrand, string(s.Brand))
	v.Set(KeyUrgency, string(s.Urgency))
	if s.ManualOverride {
		v.Set(KeyOverride, "true")
	}
	return v
}

// Bounds limits the project value a calculator accepts
type Bounds struct {
	Min int64 `json:"min" yaml:"min"`
	Max int64 `json:"max" yaml:"max"`
}

// DefaultBounds are the calculator's slider limits
var DefaultBounds = Bounds{Min: 300000, Max: 50000000}

// Clamp forces v into [Min, Max]
func (b Bounds) Clamp(v int64) int64 {
	return min(max(v, b.Min), b.Max)
}

// Contains reports whether v is within [Min, Max]
func (b Bounds) Contains(v int64) bool {
	return v >= b.Min && v <= b.Max
}
