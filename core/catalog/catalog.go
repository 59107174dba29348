// Package catalog - Authoritative service plan catalog
// Defines the plans, factor tables and billing discounts quotes are priced from.
// All data here is fixed at build time and never mutated at runtime.
package catalog

import (
	"strconv"

	"quote-engine/core/types"
)

// Catalog is an ordered, read-only view over the service plans
type Catalog struct {
	plans []types.PricingPlan
	byID  map[string]int
}

func bound(v int64) *int64 {
	return &v
}

var plans = []types.PricingPlan{
	{
		ID:              "basico",
		Name:            "Plan Básico",
		Description:     "Instalaciones eléctricas esenciales hasta $2.500.000",
		BasePrice:       150000,
		MinProjectValue: 300000,
		MaxProjectValue: bound(2500000),
		Badge:           "Más económico",
		Features: types.PlanFeatures{
			BasicWiring:     true,
			ElectricalPanel: true,
			Grounding:       true,
			Lighting:        true,
			Outlets:         true,
			ComplexityLevel: 1,
			ProjectSize:     types.ComplexitySmall,
			MaterialQuality: types.MaterialStandard,
			BrandPreference: types.BrandEconomic,
			WarrantyMonths:  12,
			ResponseTime:    "24hrs",
			Certification:   true,
		},
	},
	{
		ID:              "estandar",
		Name:            "Plan Estándar",
		Description:     "Instalaciones completas hasta $8.000.000",
		BasePrice:       220000,
		MinProjectValue: 2500001,
		MaxProjectValue: bound(8000000),
		Features: types.PlanFeatures{
			BasicWiring:      true,
			AdvancedWiring:   true,
			ElectricalPanel:  true,
			Grounding:        true,
			Lighting:         true,
			Outlets:          true,
			ComplexityLevel:  3,
			ProjectSize:      types.ComplexityMedium,
			MaterialQuality:  types.MaterialStandard,
			BrandPreference:  types.BrandStandard,
			WarrantyMonths:   24,
			ResponseTime:     "12hrs",
			EmergencySupport: true,
			Certification:    true,
		},
	},
	{
		ID:              "premium",
		Name:            "Plan Premium",
		Description:     "Soluciones avanzadas hasta $15.000.000",
		BasePrice:       350000,
		MinProjectValue: 8000001,
		MaxProjectValue: bound(15000000),
		Badge:           "Más completo",
		Features: types.PlanFeatures{
			BasicWiring:      true,
			AdvancedWiring:   true,
			ElectricalPanel:  true,
			Grounding:        true,
			Lighting:         true,
			Outlets:          true,
			EmergencySystems: true,
			ComplexityLevel:  4,
			ProjectSize:      types.ComplexityLarge,
			MaterialQuality:  types.MaterialPremium,
			BrandPreference:  types.BrandStandard,
			WarrantyMonths:   36,
			ResponseTime:     "6hrs",
			EmergencySupport: true,
			Maintenance:      true,
			Certification:    true,
		},
	},
	{
		ID:              "empresarial",
		Name:            "Plan Empresarial",
		Description:     "Proyectos industriales y corporativos",
		BasePrice:       500000,
		MinProjectValue: 15000001,
		MaxProjectValue: nil,
		Badge:           "Industrial",
		Features: types.PlanFeatures{
			BasicWiring:      true,
			AdvancedWiring:   true,
			ElectricalPanel:  true,
			Grounding:        true,
			Lighting:         true,
			Outlets:          true,
			EmergencySystems: true,
			ComplexityLevel:  5,
			ProjectSize:      types.ComplexityIndustrial,
			MaterialQuality:  types.MaterialLuxury,
			BrandPreference:  types.BrandPremium,
			WarrantyMonths:   60,
			ResponseTime:     "2hrs",
			EmergencySupport: true,
			Maintenance:      true,
			Monitoring:       true,
			Certification:    true,
		},
	},
}

// New builds a catalog over the given plans, which must be ordered by minimum value
func New(list []types.PricingPlan) *Catalog {
	c := &Catalog{
		plans: make([]types.PricingPlan, len(list)),
		byID:  make(map[string]int, len(list)),
	}
	for i, p := range list {
		c.plans[i] = clonePlan(p)
		c.byID[p.ID] = i
	}
	return c
}

// Default is the catalog of service plans offered to customers
var Default = New(plans)

// Len returns the number of plans
func (c *Catalog) Len() int {
	return len(c.plans)
}

// Plans returns a copy of the plans in catalog order
func (c *Catalog) Plans() []types.PricingPlan {
	out := make([]types.PricingPlan, len(c.plans))
	for i, p := range c.plans {
		out[i] = clonePlan(p)
	}
	return out
}

// At returns the plan at position i
func (c *Catalog) At(i int) types.PricingPlan {
	return clonePlan(c.plans[i])
}

// First returns the plan with the lowest range
func (c *Catalog) First() types.PricingPlan {
	return c.At(0)
}

// Last returns the plan with the highest range
func (c *Catalog) Last() types.PricingPlan {
	return c.At(len(c.plans) - 1)
}

// Lookup finds a plan by ID
func (c *Catalog) Lookup(id string) (types.PricingPlan, bool) {
	i, ok := c.byID[id]
	if !ok {
		return types.PricingPlan{}, false
	}
	return c.At(i), true
}

// clonePlan copies the plan so callers cannot reach catalog memory through MaxProjectValue
func clonePlan(p types.PricingPlan) types.PricingPlan {
	if p.MaxProjectValue != nil {
		p.MaxProjectValue = bound(*p.MaxProjectValue)
	}
	return p
}

// FeatureLabels lists the displayable plan features grouped by category
var FeatureLabels = []types.FeatureLabel{
	{Key: "basic_wiring", Label: "Cableado básico e instalación", Category: "Servicios Eléctricos"},
	{Key: "advanced_wiring", Label: "Cableado avanzado y automatización", Category: "Servicios Eléctricos"},
	{Key: "electrical_panel", Label: "Tablero eléctrico principal", Category: "Servicios Eléctricos"},
	{Key: "grounding", Label: "Sistema de puesta a tierra", Category: "Servicios Eléctricos"},
	{Key: "lighting", Label: "Instalación de iluminación", Category: "Servicios Eléctricos"},
	{Key: "outlets", Label: "Toma corrientes y enchufes", Category: "Servicios Eléctricos"},
	{Key: "emergency_systems", Label: "Sistemas de emergencia y respaldo", Category: "Servicios Eléctricos"},
	{Key: "warranty_months", Label: "Garantía del servicio", Category: "Garantía y Soporte"},
	{Key: "response_time", Label: "Tiempo de respuesta", Category: "Garantía y Soporte"},
	{Key: "emergency_support", Label: "Soporte de emergencias", Category: "Garantía y Soporte"},
	{Key: "maintenance", Label: "Mantenimiento preventivo", Category: "Servicios Adicionales"},
	{Key: "monitoring", Label: "Monitoreo remoto del sistema", Category: "Servicios Adicionales"},
	{Key: "certification", Label: "Certificación SEC y municipal", Category: "Servicios Adicionales"},
}

// FeatureValue returns the display value of a feature key for a plan.
// Boolean features are reported as enabled/disabled; the others as text.
func FeatureValue(f types.PlanFeatures, key string) (enabled bool, text string) {
	switch key {
	case "basic_wiring":
		return f.BasicWiring, ""
	case "advanced_wiring":
		return f.AdvancedWiring, ""
	case "electrical_panel":
		return f.ElectricalPanel, ""
	case "grounding":
		return f.Grounding, ""
	case "lighting":
		return f.Lighting, ""
	case "outlets":
		return f.Outlets, ""
	case "emergency_systems":
		return f.EmergencySystems, ""
	case "warranty_months":
		return f.WarrantyMonths > 0, warrantyText(f.WarrantyMonths)
	case "response_time":
		return f.ResponseTime != "", f.ResponseTime
	case "emergency_support":
		return f.EmergencySupport, ""
	case "maintenance":
		return f.Maintenance, ""
	case "monitoring":
		return f.Monitoring, ""
	case "certification":
		return f.Certification, ""
	}
	return false, ""
}

func warrantyText(months int) string {
	switch {
	case months <= 0:
		return ""
	case months == 12:
		return "1 año"
	case months%12 == 0:
		return strconv.Itoa(months/12) + " años"
	default:
		return strconv.Itoa(months) + " meses"
	}
}
