// Package contact builds the outbound quote request a customer sends after
// using the calculator: a plain text message plus WhatsApp and e-mail links.
package contact

import (
	"fmt"
	"net/url"
	"strings"

	"quote-engine/core/pricing"
	"quote-engine/core/quote"
)

// Info is where quote requests are sent
type Info struct {
	WhatsApp        string `json:"whatsapp" yaml:"whatsapp"`
	WhatsAppDisplay string `json:"whatsapp_display" yaml:"whatsapp_display"`
	Email           string `json:"email" yaml:"email"`
}

// DefaultInfo is the published contact
func DefaultInfo() Info {
	return Info{
		WhatsApp:        "+56912345678",
		WhatsAppDisplay: "+56 9 1234 5678",
		Email:           "contacto@electricalenterprise.cl",
	}
}

// Links are the ready-to-open contact links for a quote
type Links struct {
	Message      string `json:"message"`
	WhatsAppURL  string `json:"whatsapp_url"`
	EmailSubject string `json:"email_subject"`
	MailtoURL    string `json:"mailto_url"`
	Display      string `json:"display"`
}

// Builder renders quote requests for one contact
type Builder struct {
	info    Info
	factors pricing.Factors
}

// NewBuilder creates a builder that describes levels with factors
func NewBuilder(info Info, factors pricing.Factors) *Builder {
	return &Builder{info: info, factors: factors}
}

// Message renders the request text for q
func (b *Builder) Message(q *quote.Quote) (string, error) {
	sel := q.Selection

	complexity, err := b.factors.Complexity.Lookup(sel.Complexity)
	if err != nil {
		return "", err
	}
	material, err := b.factors.Material.Lookup(sel.Material)
	if err != nil {
		return "", err
	}
	brand, err := b.factors.Brand.Lookup(sel.Brand)
	if err != nil {
		return "", err
	}
	urgency, err := b.factors.Urgency.Lookup(sel.Urgency)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("Hola, me gustaría solicitar una cotización para un proyecto eléctrico:\n\n")
	fmt.Fprintf(&sb, "🏗️ *Proyecto:* %s\n", q.Plan.Name)
	fmt.Fprintf(&sb, "💰 *Valor estimado:* %s\n", pricing.FormatCLP(sel.ProjectValue))
	fmt.Fprintf(&sb, "📏 *Complejidad:* %s\n", complexity.Description)
	fmt.Fprintf(&sb, "🛠️ *Materiales:* %s\n", material.Description)
	fmt.Fprintf(&sb, "🏷️ *Marcas:* %s\n", brand.Description)
	fmt.Fprintf(&sb, "⏰ *Urgencia:* %s\n", urgency.Description)
	fmt.Fprintf(&sb, "💳 *Modalidad:* %s\n", sel.BillingCycle.PaymentLabel())
	fmt.Fprintf(&sb, "💵 *Total estimado:* %s\n\n", pricing.FormatCLP(q.Breakdown.FinalPrice))
	sb.WriteString("¿Podrían contactarme para agendar una visita técnica?")
	return sb.String(), nil
}

// Links renders the message and both contact links for q
func (b *Builder) Links(q *quote.Quote) (*Links, error) {
	msg, err := b.Message(q)
	if err != nil {
		return nil, err
	}
	subject := "Cotización Proyecto Eléctrico - " + q.Plan.Name

	return &Links{
		Message:      msg,
		WhatsAppURL:  "https://wa.me/" + digits(b.info.WhatsApp) + "?text=" + escape(msg),
		EmailSubject: subject,
		MailtoURL:    "mailto:" + b.info.Email + "?subject=" + escape(subject) + "&body=" + escape(msg),
		Display:      b.info.WhatsAppDisplay,
	}, nil
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// escape percent-encodes s for a query value, spaces as %20
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
