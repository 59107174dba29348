// Package pricing - Rounding and display helpers
package pricing

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var half = decimal.New(5, -1)

// MaxAmount is the largest project value or base price accepted from
// callers. Priced results stay well inside int64 below it.
const MaxAmount int64 = 1_000_000_000_000_000

// roundHalfUp rounds to the nearest integer, halves toward +∞
func roundHalfUp(d decimal.Decimal) int64 {
	return d.Add(half).Floor().IntPart()
}

// roundPlaces rounds to places decimals, halves toward +∞
func roundPlaces(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Shift(places).Add(half).Floor().Shift(-places)
}

// FormatCLP renders an amount as Chilean pesos, e.g. $2.500.000
func FormatCLP(amount int64) string {
	return "$" + humanize.FormatInteger("#.###,", int(amount))
}
