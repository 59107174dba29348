package output

import (
	"fmt"
	"io"
	"strings"

	"quote-engine/core/catalog"
	"quote-engine/core/pricing"
	"quote-engine/core/types"
)

// MarkdownFormatter writes GitHub-flavoured markdown
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a markdown formatter
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (f *MarkdownFormatter) Format() Format { return FormatMarkdown }

func (f *MarkdownFormatter) RenderQuote(w io.Writer, r *QuoteResult) error {
	bd := r.Breakdown
	sel := r.Selection
	var sb strings.Builder

	fmt.Fprintf(&sb, "## Cotización: %s\n\n", r.Plan.Name)
	if !r.Validation.IsValid {
		fmt.Fprintf(&sb, "> ⚠️ %s\n\n", ValidationMessage(r.Validation))
	}
	if r.ShouldRecommendPlan {
		fmt.Fprintf(&sb, "> Plan recomendado: **%s**\n\n", r.RecommendedPlan.Name)
	}

	sb.WriteString("| Parámetro | Selección | Factor |\n|---|---|---:|\n")
	fmt.Fprintf(&sb, "| Valor del proyecto | %s | %s |\n", pricing.FormatCLP(sel.ProjectValue), bd.ProjectValueFactor)
	fmt.Fprintf(&sb, "| Complejidad | %s | %s |\n", sel.Complexity, bd.ComplexityFactor)
	fmt.Fprintf(&sb, "| Materiales | %s | %s |\n", sel.Material, bd.MaterialFactor)
	fmt.Fprintf(&sb, "| Marcas | %s | %s |\n", sel.Brand, bd.BrandFactor)
	fmt.Fprintf(&sb, "| Urgencia | %s | %s |\n\n", sel.Urgency, bd.UrgencyFactor)

	sb.WriteString("| Concepto | Monto |\n|---|---:|\n")
	fmt.Fprintf(&sb, "| Precio base | %s |\n", pricing.FormatCLP(bd.BasePrice))
	fmt.Fprintf(&sb, "| Precio ajustado | %s |\n", pricing.FormatCLP(bd.AdjustedBasePrice))
	fmt.Fprintf(&sb, "| Descuento %s | %s |\n", bd.BillingCycle.Label(), pricing.FormatCLP(-bd.BillingCycleDiscountAmount))
	fmt.Fprintf(&sb, "| **Total %s** | **%s** |\n", strings.ToLower(bd.BillingCycle.Label()), pricing.FormatCLP(bd.FinalPrice))
	fmt.Fprintf(&sb, "| Equivalente mensual | %s |\n\n", pricing.FormatCLP(bd.MonthlyEquivalent))

	if bd.Savings.Total > 0 {
		fmt.Fprintf(&sb, "Ahorro total: **%s**\n\n", pricing.FormatCLP(bd.Savings.Total))
	}
	if r.ShowComparison {
		sb.WriteString("### Modalidades de pago\n\n")
		writeComparisonTable(&sb, r.Comparisons)
		sb.WriteString("\n")
	}
	if r.WhatsAppURL != "" {
		fmt.Fprintf(&sb, "[Solicitar por WhatsApp](%s)\n", r.WhatsAppURL)
	}
	if r.MailtoURL != "" {
		fmt.Fprintf(&sb, "[Solicitar por email](%s)\n", r.MailtoURL)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func (f *MarkdownFormatter) RenderPlans(w io.Writer, plans []types.PricingPlan) error {
	var sb strings.Builder
	sb.WriteString("## Planes\n\n| Plan | Precio base | Rango del proyecto |\n|---|---:|---|\n")
	for _, p := range plans {
		name := p.Name
		if p.Badge != "" {
			name += " _(" + p.Badge + ")_"
		}
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", name, pricing.FormatCLP(p.BasePrice), planRange(p))
	}

	sb.WriteString("\n### Características\n\n| Característica |")
	for _, p := range plans {
		sb.WriteString(" " + p.Name + " |")
	}
	sb.WriteString("\n|---|" + strings.Repeat("---|", len(plans)) + "\n")
	for _, label := range catalog.FeatureLabels {
		sb.WriteString("| " + label.Label + " |")
		for _, p := range plans {
			enabled, text := catalog.FeatureValue(p.Features, label.Key)
			cell := "—"
			switch {
			case text != "":
				cell = text
			case enabled:
				cell = "✓"
			}
			sb.WriteString(" " + cell + " |")
		}
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func (f *MarkdownFormatter) RenderComparison(w io.Writer, basePrice int64, comparisons []types.BillingCycleComparison) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Modalidades de pago (base %s)\n\n", pricing.FormatCLP(basePrice))
	writeComparisonTable(&sb, comparisons)
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeComparisonTable(sb *strings.Builder, comparisons []types.BillingCycleComparison) {
	sb.WriteString("| Modalidad | Pago por ciclo | Mensual | Ahorro anual | % |\n|---|---:|---:|---:|---:|\n")
	for _, c := range comparisons {
		fmt.Fprintf(sb, "| %s | %s | %s | %s | %s |\n",
			c.Cycle.Label(),
			pricing.FormatCLP(c.TotalCost),
			pricing.FormatCLP(c.MonthlyCost),
			pricing.FormatCLP(c.Savings),
			c.SavingsPercent.StringFixed(2),
		)
	}
}
