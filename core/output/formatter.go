// Package output provides output formatting interfaces.
// This package produces human and machine-readable outputs.
package output

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"quote-engine/core/quote"
	"quote-engine/core/types"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is human-readable terminal text
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatMarkdown is a markdown report
	FormatMarkdown Format = "markdown"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// RenderQuote produces output for a priced quote
	RenderQuote(w io.Writer, result *QuoteResult) error

	// RenderPlans produces output for the plan catalog
	RenderPlans(w io.Writer, plans []types.PricingPlan) error

	// RenderComparison produces output for a billing cycle comparison
	RenderComparison(w io.Writer, basePrice int64, comparisons []types.BillingCycleComparison) error
}

// QuoteResult is a quote plus what surrounds it on screen
type QuoteResult struct {
	*quote.Quote

	// Contact links, empty when not configured
	WhatsAppURL string `json:"whatsapp_url,omitempty"`
	MailtoURL   string `json:"mailto_url,omitempty"`

	// SavedID is set once the quote was stored
	SavedID string `json:"saved_id,omitempty"`

	// ShowComparison includes the billing cycle comparison
	ShowComparison bool `json:"-"`
}

// Registry manages formatter registration
type Registry struct {
	mu         sync.RWMutex
	formatters map[Format]Formatter
}

// NewRegistry creates a registry holding the cli, json and markdown formatters
func NewRegistry(color bool) *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	r.formatters[FormatCLI] = NewCLIFormatter(color)
	r.formatters[FormatJSON] = NewJSONFormatter()
	r.formatters[FormatMarkdown] = NewMarkdownFormatter()
	return r
}

// Register adds a formatter to the registry
func (r *Registry) Register(f Formatter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.formatters[f.Format()]; ok {
		return fmt.Errorf("formatter already registered: %s", f.Format())
	}
	r.formatters[f.Format()] = f
	return nil
}

// Get returns a formatter for a format type
func (r *Registry) Get(format Format) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formatters[format]
	return f, ok
}

// Formats lists the registered formats in name order
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Format, 0, len(r.formatters))
	for f := range r.formatters {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
