// Package storage persists customer quotes and their line items.
// Supports multiple backends: memory, SQLite, PostgreSQL.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"quote-engine/core/pricing"
	"quote-engine/core/quote"
	"quote-engine/internal/errors"
)

// Backend is a storage backend type
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Store is the storage interface
type Store interface {
	// CreateQuote stores a quote and any line items it carries
	CreateQuote(ctx context.Context, q *Quote) error

	// GetQuote retrieves a quote with its line items in order
	GetQuote(ctx context.Context, id string) (*Quote, error)

	// ListQuotes lists quotes newest first, without line items
	ListQuotes(ctx context.Context, filter *ListFilter) ([]*Quote, error)

	// UpdateQuote applies the non-nil fields of patch
	UpdateQuote(ctx context.Context, id string, patch *QuotePatch) (*Quote, error)

	// DeleteQuote removes a quote and its line items
	DeleteQuote(ctx context.Context, id string) error

	// AddLineItem appends a line item to a quote
	AddLineItem(ctx context.Context, quoteID string, item *LineItem) error

	// UpdateLineItem applies the non-nil fields of patch
	UpdateLineItem(ctx context.Context, id string, patch *LineItemPatch) (*LineItem, error)

	// DeleteLineItem removes one line item
	DeleteLineItem(ctx context.Context, id string) error

	io.Closer
}

// Quote is a stored quote
type Quote struct {
	ID string `json:"id"`

	ClientName string `json:"client_name"`
	ClientRUT  string `json:"client_rut"`

	ProjectTitle       string `json:"project_title"`
	ProjectDescription string `json:"project_description"`
	Scope              string `json:"scope"`

	Recommendation       string `json:"recommendation,omitempty"`
	RecommendationReason string `json:"recommendation_reason,omitempty"`
	Notes                string `json:"notes,omitempty"`

	// TotalValue in CLP, nil until priced
	TotalValue *int64 `json:"total_value,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	LineItems []LineItem `json:"line_items,omitempty"`
}

// LineItem is one priced entry of a quote
type LineItem struct {
	ID      string `json:"id"`
	QuoteID string `json:"quote_id"`

	Title       string `json:"title"`
	Description string `json:"description"`

	// Value is free text: an amount or a range
	Value       string `json:"value,omitempty"`
	Materials   string `json:"materials,omitempty"`
	Note        string `json:"note,omitempty"`
	Conditional bool   `json:"conditional,omitempty"`
	Order       int    `json:"order"`
}

// QuotePatch is a partial quote update
type QuotePatch struct {
	ClientName           *string `json:"client_name,omitempty"`
	ClientRUT            *string `json:"client_rut,omitempty"`
	ProjectTitle         *string `json:"project_title,omitempty"`
	ProjectDescription   *string `json:"project_description,omitempty"`
	Scope                *string `json:"scope,omitempty"`
	Recommendation       *string `json:"recommendation,omitempty"`
	RecommendationReason *string `json:"recommendation_reason,omitempty"`
	Notes                *string `json:"notes,omitempty"`
	TotalValue           *int64  `json:"total_value,omitempty"`
}

func (p *QuotePatch) apply(q *Quote) {
	set(&q.ClientName, p.ClientName)
	set(&q.ClientRUT, p.ClientRUT)
	set(&q.ProjectTitle, p.ProjectTitle)
	set(&q.ProjectDescription, p.ProjectDescription)
	set(&q.Scope, p.Scope)
	set(&q.Recommendation, p.Recommendation)
	set(&q.RecommendationReason, p.RecommendationReason)
	set(&q.Notes, p.Notes)
	if p.TotalValue != nil {
		v := *p.TotalValue
		q.TotalValue = &v
	}
}

// LineItemPatch is a partial line item update
type LineItemPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Value       *string `json:"value,omitempty"`
	Materials   *string `json:"materials,omitempty"`
	Note        *string `json:"note,omitempty"`
	Conditional *bool   `json:"conditional,omitempty"`
	Order       *int    `json:"order,omitempty"`
}

func (p *LineItemPatch) apply(item *LineItem) {
	set(&item.Title, p.Title)
	set(&item.Description, p.Description)
	set(&item.Value, p.Value)
	set(&item.Materials, p.Materials)
	set(&item.Note, p.Note)
	set(&item.Conditional, p.Conditional)
	set(&item.Order, p.Order)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// ListFilter pages quote listings
type ListFilter struct {
	Limit  int
	Offset int
}

// Config selects and configures a backend
type Config struct {
	Backend Backend `json:"backend" yaml:"backend"`

	// DSN is a file path for sqlite or a connection string for postgres
	DSN string `json:"dsn" yaml:"dsn"`
}

// Open creates a store for cfg
func Open(cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendSQLite:
		path := cfg.DSN
		if path == "" {
			path = ".quote-engine/quotes.db"
		}
		s, err := NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendPostgres:
		s, err := NewPostgresStore(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, errors.NotSupported("storage backend " + string(cfg.Backend))
	}
}

// FromCalculation turns a calculator quote into a stored quote for a client.
// The breakdown becomes the line items and the final price the total.
func FromCalculation(calc *quote.Quote, clientName, clientRUT string) *Quote {
	bd := calc.Breakdown
	sel := calc.Selection
	total := bd.FinalPrice

	q := &Quote{
		ClientName:         clientName,
		ClientRUT:          clientRUT,
		ProjectTitle:       calc.Plan.Name,
		ProjectDescription: calc.Plan.Description,
		Scope: fmt.Sprintf("Proyecto de %s, complejidad %s, materiales %s, marcas %s, urgencia %s",
			pricing.FormatCLP(sel.ProjectValue), sel.Complexity, sel.Material, sel.Brand, sel.Urgency),
		TotalValue: &total,
	}
	if calc.RecommendedPlan.ID != calc.Plan.ID {
		q.Recommendation = calc.RecommendedPlan.Name
		q.RecommendationReason = calc.Validation.ReasonKey
	}

	q.LineItems = []LineItem{
		{
			Title:       "Precio base del plan",
			Description: calc.Plan.Name,
			Value:       pricing.FormatCLP(bd.BasePrice),
		},
		{
			Title: "Precio ajustado",
			Description: fmt.Sprintf("valor %s × complejidad %s × materiales %s × marcas %s × urgencia %s",
				bd.ProjectValueFactor, bd.ComplexityFactor, bd.MaterialFactor, bd.BrandFactor, bd.UrgencyFactor),
			Value: pricing.FormatCLP(bd.AdjustedBasePrice),
		},
		{
			Title:       "Descuento " + bd.BillingCycle.Label(),
			Description: bd.BillingCycleDiscount.Shift(2).String() + "%",
			Value:       pricing.FormatCLP(-bd.BillingCycleDiscountAmount),
		},
		{
			Title:       "Total",
			Description: bd.BillingCycle.PaymentLabel(),
			Value:       pricing.FormatCLP(bd.FinalPrice),
		},
	}
	for i := range q.LineItems {
		q.LineItems[i].Order = i
	}
	return q
}
