package contact

import (
	"net/url"
	"strings"
	"testing"

	"quote-engine/core/pricing"
	"quote-engine/core/quote"
	"quote-engine/core/types"
)

func sampleQuote(t *testing.T) *quote.Quote {
	t.Helper()
	sel := quote.DefaultSelection()
	sel.BillingCycle = types.BillingAnnual
	sel.Urgency = types.UrgencyPriority
	q, err := quote.Default.Calculate(sel)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	return q
}

func TestMessage(t *testing.T) {
	b := NewBuilder(DefaultInfo(), pricing.DefaultFactors())
	q := sampleQuote(t)

	msg, err := b.Message(q)
	if err != nil {
		t.Fatal(err)
	}

	// basico 150000 × 1.15 = 172500, annual discount 25875
	want := []string{
		"Hola, me gustaría solicitar una cotización para un proyecto eléctrico:",
		"🏗️ *Proyecto:* Plan Básico",
		"💰 *Valor estimado:* $1.000.000",
		"📏 *Complejidad:* Proyectos residenciales/comerciales medianos 100-500m²",
		"🛠️ *Materiales:* Materiales estándar de calidad certificada",
		"🏷️ *Marcas:* Marcas reconocidas con buena relación precio-calidad",
		"⏰ *Urgencia:* Plazo prioritario 1-2 semanas",
		"💳 *Modalidad:* Pago anual",
		"💵 *Total estimado:* $146.625",
	}
	for _, line := range want {
		if !strings.Contains(msg, line) {
			t.Errorf("message missing %q\n%s", line, msg)
		}
	}
	if !strings.HasSuffix(msg, "¿Podrían contactarme para agendar una visita técnica?") {
		t.Errorf("unexpected closing line:\n%s", msg)
	}
}

func TestLinks(t *testing.T) {
	b := NewBuilder(DefaultInfo(), pricing.DefaultFactors())
	q := sampleQuote(t)

	links, err := b.Links(q)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(links.WhatsAppURL, "https://wa.me/56912345678?text=") {
		t.Errorf("WhatsAppURL = %s", links.WhatsAppURL)
	}
	if strings.Contains(links.WhatsAppURL, "+") {
		t.Errorf("spaces must be encoded as %%20: %s", links.WhatsAppURL)
	}

	u, err := url.Parse(links.WhatsAppURL)
	if err != nil {
		t.Fatal(err)
	}
	if got := u.Query().Get("text"); got != links.Message {
		t.Errorf("decoded text differs from message")
	}

	if links.EmailSubject != "Cotización Proyecto Eléctrico - Plan Básico" {
		t.Errorf("EmailSubject = %q", links.EmailSubject)
	}
	if !strings.HasPrefix(links.MailtoURL, "mailto:contacto@electricalenterprise.cl?subject=") {
		t.Errorf("MailtoURL = %s", links.MailtoURL)
	}
	if links.Display != "+56 9 1234 5678" {
		t.Errorf("Display = %q", links.Display)
	}
}

func TestMessageUnknownLevel(t *testing.T) {
	b := NewBuilder(DefaultInfo(), pricing.DefaultFactors())
	q := sampleQuote(t)
	q.Selection.Brand = "boutique"

	if _, err := b.Message(q); err == nil {
		t.Error("expected an error for an unknown brand level")
	}
}
