package output

import (
	"encoding/json"
	"io"

	"quote-engine/core/types"
)

// JSONFormatter writes indented JSON
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) Format() Format { return FormatJSON }

func (f *JSONFormatter) RenderQuote(w io.Writer, result *QuoteResult) error {
	return encode(w, result)
}

func (f *JSONFormatter) RenderPlans(w io.Writer, plans []types.PricingPlan) error {
	return encode(w, plans)
}

func (f *JSONFormatter) RenderComparison(w io.Writer, basePrice int64, comparisons []types.BillingCycleComparison) error {
	return encode(w, struct {
		BasePrice   int64                          `json:"base_price"`
		Comparisons []types.BillingCycleComparison `json:"comparisons"`
	}{basePrice, comparisons})
}

func encode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
