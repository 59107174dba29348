// Package api - API types for the quote endpoints
// Requests carry raw keys; the core validates them.
package api

import (
	"quote-engine/adapters/contact"
	"quote-engine/adapters/storage"
	"quote-engine/core/catalog"
	"quote-engine/core/quote"
	"quote-engine/core/types"
)

// ValidateRequest is the input to POST /validate
type ValidateRequest struct {
	PlanID       string `json:"plan_id"`
	ProjectValue int64  `json:"project_value"`
}

// ValidateResponse is the output of POST /validate
type ValidateResponse struct {
	Validation      types.PlanValidation `json:"validation"`
	RecommendedPlan types.PricingPlan    `json:"recommended_plan"`
}

// BreakdownRequest is the input to POST /breakdown.
// Every field is required; no defaults are applied.
type BreakdownRequest struct {
	PlanID       string `json:"plan_id"`
	ProjectValue int64  `json:"project_value"`
	Complexity   string `json:"complexity"`
	Material     string `json:"material"`
	Brand        string `json:"brand"`
	Urgency      string `json:"urgency"`
	BillingCycle string `json:"billing_cycle"`
}

// CompareResponse is the output of GET /billing/compare
type CompareResponse struct {
	BasePrice   int64                          `json:"base_price"`
	Comparisons []types.BillingCycleComparison `json:"comparisons"`
	Best        types.BillingCycleComparison   `json:"best"`
}

// FactorsResponse lists every factor table and billing discount
type FactorsResponse struct {
	Complexity    []catalog.LevelEntry[types.Complexity]      `json:"complexity"`
	Material      []catalog.LevelEntry[types.MaterialQuality] `json:"material_quality"`
	Brand         []catalog.LevelEntry[types.BrandPreference] `json:"brand_preference"`
	Urgency       []catalog.LevelEntry[types.Urgency]         `json:"urgency"`
	BillingCycles []BillingCycleInfo                          `json:"billing_cycles"`
}

// BillingCycleInfo describes one billing cycle
type BillingCycleInfo struct {
	Cycle    types.BillingCycle `json:"cycle"`
	Label    string             `json:"label"`
	Months   int                `json:"months"`
	Discount string             `json:"discount"`
}

// QuoteResponse is the output of GET and POST /quote
type QuoteResponse struct {
	*quote.Quote

	Currency types.Currency `json:"currency"`

	// Share is the query string that restores this quote via GET /quote
	Share string `json:"share"`

	Contact *contact.Links `json:"contact,omitempty"`
}

// CreateQuoteRequest is the input to POST /quotes. When Calculation is set
// the stored quote is built from the priced selection and the remaining
// fields fill in the client details; otherwise the quote is stored as given.
type CreateQuoteRequest struct {
	storage.Quote

	Calculation *quote.Request `json:"calculation,omitempty"`
}

// ListQuotesResponse is the output of GET /quotes
type ListQuotesResponse struct {
	Quotes []*storage.Quote `json:"quotes"`
	Count  int              `json:"count"`
}
