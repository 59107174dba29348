// Package pricing is the quote pricing engine.
// Every function here is a pure computation over the immutable catalog and
// factor tables; nothing is persisted, rendered or cached.
package pricing

import (
	"quote-engine/core/catalog"
	"quote-engine/core/types"
)

// Factors groups the four factor tables a breakdown is priced with
type Factors struct {
	Complexity *catalog.FactorTable[types.Complexity]
	Material   *catalog.FactorTable[types.MaterialQuality]
	Brand      *catalog.FactorTable[types.BrandPreference]
	Urgency    *catalog.FactorTable[types.Urgency]
}

// DefaultFactors returns the published factor tables
func DefaultFactors() Factors {
	return Factors{
		Complexity: catalog.Complexity,
		Material:   catalog.Material,
		Brand:      catalog.Brand,
		Urgency:    catalog.Urgency,
	}
}

// Engine prices quotes against one catalog and one set of factor tables.
// An Engine holds no mutable state and is safe for concurrent use.
type Engine struct {
	catalog *catalog.Catalog
	factors Factors
}

// NewEngine creates an engine
func NewEngine(c *catalog.Catalog, f Factors) *Engine {
	return &Engine{catalog: c, factors: f}
}

// Default prices against the published catalog
var Default = NewEngine(catalog.Default, DefaultFactors())

// Catalog returns the engine's plan catalog
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Factors returns the engine's factor tables
func (e *Engine) Factors() Factors {
	return e.factors
}

// FindPricingPlan looks a plan up by ID in the default catalog
func FindPricingPlan(id string) (types.PricingPlan, bool) {
	return Default.FindPricingPlan(id)
}

// FindPlanByProjectValue selects a plan from the default catalog
func FindPlanByProjectValue(projectValue int64) types.PricingPlan {
	return Default.FindPlanByProjectValue(projectValue)
}

// ValidatePlanForProject checks plan against projectValue
func ValidatePlanForProject(plan types.PricingPlan, projectValue int64) types.PlanValidation {
	return Default.ValidatePlanForProject(plan, projectValue)
}

// CalculateProjectPriceBreakdown prices a project with the default factor tables
func CalculateProjectPriceBreakdown(
	plan types.PricingPlan,
	projectValue int64,
	complexity types.Complexity,
	material types.MaterialQuality,
	brand types.BrandPreference,
	urgency types.Urgency,
	cycle types.BillingCycle,
) (*types.ProjectPriceBreakdown, error) {
	return Default.CalculateProjectPriceBreakdown(plan, projectValue, complexity, material, brand, urgency, cycle)
}

// CompareBillingCycles ranks the billing cycles for basePrice
func CompareBillingCycles(basePrice int64) []types.BillingCycleComparison {
	return Default.CompareBillingCycles(basePrice)
}

// BestBillingCycle returns the cheapest cycle for basePrice
func BestBillingCycle(basePrice int64) types.BillingCycleComparison {
	return Default.CompareBillingCycles(basePrice)[0]
}
