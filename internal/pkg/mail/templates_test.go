package mail

import (
	"strings"
	"testing"
)

func TestRenderOrderConfirmation(t *testing.T) {
	body := RenderOrderConfirmation(OrderSummary{
		PackageCode:  "gold",
		PackageName:  "Pacchetto Gold",
		TotalMonthly: 278000,
		TotalOneTime: 89000,
		Lines: []OrderLine{
			{Name: "Pacchetto Gold", Price: 249000, Recurring: true},
			{Name: "Canale social aggiuntivo", Price: 29000, Recurring: true},
			{Name: "Setup SEO iniziale", Price: 89000},
		},
	})

	for _, want := range []string{
		"Pacchetto Gold",
		"CHF 2490/mese",
		"CHF 890 (una tantum)",
		"Totale mensile",
		"Una tantum: CHF 890",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("confirmation missing %q", want)
		}
	}
}

func TestRenderOrderConfirmation_NoOneTime(t *testing.T) {
	body := RenderOrderConfirmation(OrderSummary{
		PackageCode:  "basic",
		TotalMonthly: 79000,
	})
	if strings.Contains(body, "Una tantum:") {
		t.Fatalf("one-time total shown for recurring-only order")
	}
	// Falls back to the code when no display name is present.
	if !strings.Contains(body, "basic") {
		t.Fatalf("package code fallback missing")
	}
}

func TestRenderAuditReport(t *testing.T) {
	body := RenderAuditReport("Maria Conti", "Conti SA", "Avanzato", 8)
	for _, want := range []string{"Maria Conti", "Conti SA", "8/10", "Avanzato"} {
		if !strings.Contains(body, want) {
			t.Fatalf("report email missing %q", want)
		}
	}
}
