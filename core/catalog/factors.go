// Package catalog - Factor tables
package catalog

import (
	"github.com/shopspring/decimal"

	"quote-engine/core/types"
	"quote-engine/internal/errors"
)

// FactorTable maps a closed set of levels to price multipliers
type FactorTable[K types.Level] struct {
	name    string
	levels  []K
	entries map[K]types.FactorEntry
}

// FactorRow is one level of a table under construction; Factor is a decimal string
type FactorRow[K types.Level] struct {
	Level       K
	Factor      string
	Description string
}

// NewFactorTable builds a table whose levels keep the order of rows
func NewFactorTable[K types.Level](name string, rows ...FactorRow[K]) *FactorTable[K] {
	t := &FactorTable[K]{
		name:    name,
		levels:  make([]K, 0, len(rows)),
		entries: make(map[K]types.FactorEntry, len(rows)),
	}
	for _, r := range rows {
		t.levels = append(t.levels, r.Level)
		t.entries[r.Level] = types.FactorEntry{
			Factor:      decimal.RequireFromString(r.Factor),
			Description: r.Description,
		}
	}
	return t
}

// Name returns the table name used in error messages and parameters
func (t *FactorTable[K]) Name() string {
	return t.name
}

// Levels returns the levels in display order
func (t *FactorTable[K]) Levels() []K {
	out := make([]K, len(t.levels))
	copy(out, t.levels)
	return out
}

// LevelEntry pairs a level with its factor entry
type LevelEntry[K types.Level] struct {
	Level K `json:"level"`
	types.FactorEntry
}

// Entries returns every level with its entry, in display order
func (t *FactorTable[K]) Entries() []LevelEntry[K] {
	out := make([]LevelEntry[K], 0, len(t.levels))
	for _, l := range t.levels {
		out = append(out, LevelEntry[K]{Level: l, FactorEntry: t.entries[l]})
	}
	return out
}

// Has reports whether level belongs to the table
func (t *FactorTable[K]) Has(level K) bool {
	_, ok := t.entries[level]
	return ok
}

// Lookup returns the entry for level. Unknown levels are an INPUT_ERROR.
func (t *FactorTable[K]) Lookup(level K) (types.FactorEntry, error) {
	e, ok := t.entries[level]
	if !ok {
		return types.FactorEntry{}, errors.UnknownLevel(t.name, string(level))
	}
	return e, nil
}

// Parse converts raw input into a level of this table
func (t *FactorTable[K]) Parse(raw string) (K, error) {
	level := K(raw)
	if !t.Has(level) {
		var zero K
		return zero, errors.UnknownLevel(t.name, raw)
	}
	return level, nil
}

// Complexity scales the price by project size
var Complexity = NewFactorTable("complexity",
	FactorRow[types.Complexity]{types.ComplexitySmall, "0.85", "Proyectos residenciales básicos hasta 100m²"},
	FactorRow[types.Complexity]{types.ComplexityMedium, "1.0", "Proyectos residenciales/comerciales medianos 100-500m²"},
	FactorRow[types.Complexity]{types.ComplexityLarge, "1.15", "Proyectos comerciales grandes 500-2000m²"},
	FactorRow[types.Complexity]{types.ComplexityIndustrial, "1.35", "Instalaciones industriales y proyectos complejos"},
)

// Material scales the price by material quality
var Material = NewFactorTable("material_quality",
	FactorRow[types.MaterialQuality]{types.MaterialStandard, "1.0", "Materiales estándar de calidad certificada"},
	FactorRow[types.MaterialQuality]{types.MaterialPremium, "1.25", "Materiales premium con mejores especificaciones"},
	FactorRow[types.MaterialQuality]{types.MaterialLuxury, "1.5", "Materiales de lujo y soluciones personalizadas"},
)

// Brand scales the price by brand preference
var Brand = NewFactorTable("brand_preference",
	FactorRow[types.BrandPreference]{types.BrandEconomic, "0.9", "Marcas económicas con garantía básica"},
	FactorRow[types.BrandPreference]{types.BrandStandard, "1.0", "Marcas reconocidas con buena relación precio-calidad"},
	FactorRow[types.BrandPreference]{types.BrandPremium, "1.3", "Marcas premium con máxima confiabilidad"},
)

// Urgency scales the price by requested deadline
var Urgency = NewFactorTable("urgency",
	FactorRow[types.Urgency]{types.UrgencyNormal, "1.0", "Plazo estándar 2-4 semanas"},
	FactorRow[types.Urgency]{types.UrgencyPriority, "1.15", "Plazo prioritario 1-2 semanas"},
	FactorRow[types.Urgency]{types.UrgencyUrgent, "1.35", "Ejecución inmediata 3-5 días hábiles"},
)
