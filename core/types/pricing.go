// Package types - Plan and factor types
package types

import "github.com/shopspring/decimal"

// PricingPlan is one service tier of the catalog
type PricingPlan struct {
	// ID is the stable plan key (e.g. "basico")
	ID string `json:"id"`

	// Name is the display name
	Name string `json:"name"`

	// Description is a one-line summary
	Description string `json:"description"`

	// BasePrice is the price floor in whole CLP
	BasePrice int64 `json:"base_price"`

	// MinProjectValue is the inclusive lower bound of the valid range
	MinProjectValue int64 `json:"min_project_value"`

	// MaxProjectValue is the inclusive upper bound; nil means unbounded
	MaxProjectValue *int64 `json:"max_project_value"`

	// Badge is an optional promotional label
	Badge string `json:"badge,omitempty"`

	// Features describes what the plan includes
	Features PlanFeatures `json:"features"`
}

// IsUnbounded reports whether the plan has no maximum project value
func (p PricingPlan) IsUnbounded() bool {
	return p.MaxProjectValue == nil
}

// Contains reports whether v lies in the plan's range
func (p PricingPlan) Contains(v int64) bool {
	if v < p.MinProjectValue {
		return false
	}
	return p.MaxProjectValue == nil || v <= *p.MaxProjectValue
}

// PlanFeatures is the feature set of a plan
type PlanFeatures struct {
	BasicWiring      bool `json:"basic_wiring"`
	AdvancedWiring   bool `json:"advanced_wiring"`
	ElectricalPanel  bool `json:"electrical_panel"`
	Grounding        bool `json:"grounding"`
	Lighting         bool `json:"lighting"`
	Outlets          bool `json:"outlets"`
	EmergencySystems bool `json:"emergency_systems"`

	// ComplexityLevel is a 1-5 scale
	ComplexityLevel int             `json:"complexity_level"`
	ProjectSize     Complexity      `json:"project_size"`
	MaterialQuality MaterialQuality `json:"material_quality"`
	BrandPreference BrandPreference `json:"brand_preference"`

	// WarrantyMonths is the service warranty length
	WarrantyMonths   int    `json:"warranty_months"`
	ResponseTime     string `json:"response_time"`
	EmergencySupport bool   `json:"emergency_support"`

	Maintenance   bool `json:"maintenance"`
	Monitoring    bool `json:"monitoring"`
	Certification bool `json:"certification"`
}

// FeatureLabel describes one displayable plan feature
type FeatureLabel struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Category string `json:"category"`
}

// FactorEntry is one level of a factor table
type FactorEntry struct {
	// Factor is the price multiplier
	Factor decimal.Decimal `json:"factor"`

	// Description explains the level to customers
	Description string `json:"description"`
}
