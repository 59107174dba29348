package output

import (
	"io"
	"strings"

	"quote-engine/core/catalog"
	"quote-engine/core/pricing"
	"quote-engine/core/types"
	"quote-engine/core/ui"
)

// CLIFormatter writes terminal text through ui.Writer
type CLIFormatter struct {
	color bool
}

// NewCLIFormatter creates a terminal formatter
func NewCLIFormatter(color bool) *CLIFormatter {
	return &CLIFormatter{color: color}
}

func (f *CLIFormatter) Format() Format { return FormatCLI }

func (f *CLIFormatter) RenderQuote(w io.Writer, r *QuoteResult) error {
	out := ui.NewWriter(w, !f.color)
	bd := r.Breakdown
	sel := r.Selection

	title := r.Plan.Name
	if r.Plan.Badge != "" {
		title += " · " + r.Plan.Badge
	}
	out.Header(title)

	if !r.Validation.IsValid {
		out.Warning("%s", ValidationMessage(r.Validation))
	}
	if r.AutoSelected {
		out.Info("Plan ajustado al valor del proyecto: %s", r.Plan.Name)
	}
	if r.ShouldRecommendPlan {
		out.Info("Plan recomendado: %s", r.RecommendedPlan.Name)
	}

	out.SubHeader("Proyecto")
	t := out.NewTable("Parámetro", "Selección", "Factor").AlignRight(2)
	t.AddRow("Valor del proyecto", pricing.FormatCLP(sel.ProjectValue), bd.ProjectValueFactor.String())
	t.AddRow("Complejidad", string(sel.Complexity), bd.ComplexityFactor.String())
	t.AddRow("Materiales", string(sel.Material), bd.MaterialFactor.String())
	t.AddRow("Marcas", string(sel.Brand), bd.BrandFactor.String())
	t.AddRow("Urgencia", string(sel.Urgency), bd.UrgencyFactor.String())
	t.Render()
	out.Println("")

	out.SubHeader("Precio")
	out.Box(
		[]string{
			"Precio base",
			"Precio ajustado",
			"Descuento " + bd.BillingCycle.Label(),
			"Total " + strings.ToLower(bd.BillingCycle.Label()),
			"Equivalente mensual",
		},
		[]string{
			pricing.FormatCLP(bd.BasePrice),
			pricing.FormatCLP(bd.AdjustedBasePrice),
			pricing.FormatCLP(-bd.BillingCycleDiscountAmount),
			pricing.FormatCLP(bd.FinalPrice),
			pricing.FormatCLP(bd.MonthlyEquivalent),
		},
		3,
	)
	if bd.Savings.Total > 0 {
		out.Success("Ahorro total: %s", pricing.FormatCLP(bd.Savings.Total))
	}

	if r.ShowComparison {
		out.Println("")
		out.SubHeader("Modalidades de pago")
		renderComparisonTable(out, r.Comparisons)
		out.Info("Mejor opción: %s", r.BestBillingCycle.Cycle.Label())
	}

	if r.WhatsAppURL != "" || r.MailtoURL != "" {
		out.Println("")
		out.SubHeader("Contacto")
		if r.WhatsAppURL != "" {
			out.Println("  WhatsApp: %s", r.WhatsAppURL)
		}
		if r.MailtoURL != "" {
			out.Println("  Email:    %s", r.MailtoURL)
		}
	}
	if r.SavedID != "" {
		out.Success("Cotización guardada: %s", r.SavedID)
	}
	return nil
}

func (f *CLIFormatter) RenderPlans(w io.Writer, plans []types.PricingPlan) error {
	out := ui.NewWriter(w, !f.color)
	out.Header("Planes")

	t := out.NewTable("ID", "Plan", "Precio base", "Rango del proyecto", "Garantía").AlignRight(2)
	for _, p := range plans {
		_, warranty := catalog.FeatureValue(p.Features, "warranty_months")
		t.AddRow(p.ID, p.Name, pricing.FormatCLP(p.BasePrice), planRange(p), warranty)
	}
	t.Render()
	return nil
}

func (f *CLIFormatter) RenderComparison(w io.Writer, basePrice int64, comparisons []types.BillingCycleComparison) error {
	out := ui.NewWriter(w, !f.color)
	out.Header("Modalidades de pago · base " + pricing.FormatCLP(basePrice))
	renderComparisonTable(out, comparisons)
	return nil
}

func renderComparisonTable(out *ui.Writer, comparisons []types.BillingCycleComparison) {
	t := out.NewTable("Modalidad", "Pago por ciclo", "Mensual", "Ahorro anual", "%").AlignRight(1, 2, 3, 4)
	for _, c := range comparisons {
		t.AddRow(
			c.Cycle.Label(),
			pricing.FormatCLP(c.TotalCost),
			pricing.FormatCLP(c.MonthlyCost),
			pricing.FormatCLP(c.Savings),
			c.SavingsPercent.StringFixed(2),
		)
	}
	t.Render()
}

func planRange(p types.PricingPlan) string {
	if p.MaxProjectValue == nil {
		return "desde " + pricing.FormatCLP(p.MinProjectValue)
	}
	return pricing.FormatCLP(p.MinProjectValue) + " - " + pricing.FormatCLP(*p.MaxProjectValue)
}

// ValidationMessage fills the reason template with its parameters
func ValidationMessage(v types.PlanValidation) string {
	switch v.ReasonKey {
	case pricing.ReasonBelowMinimum:
		return v.ReasonParams["plan"] + " requiere un proyecto de al menos " + v.ReasonParams["min"]
	case pricing.ReasonAboveMaximum:
		return v.ReasonParams["plan"] + " cubre proyectos de hasta " + v.ReasonParams["max"]
	default:
		return v.ReasonKey
	}
}
