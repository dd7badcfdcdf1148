package mail

import (
	"fmt"
	"strings"
)

// OrderLine is one priced component shown in the confirmation email.
type OrderLine struct {
	Name      string
	Price     int64
	Recurring bool
}

// OrderSummary is the structured data behind the order confirmation email.
type OrderSummary struct {
	PackageCode  string
	PackageName  string
	Lines        []OrderLine
	TotalMonthly int64
	TotalOneTime int64
}

func chf(centesimi int64) string {
	return fmt.Sprintf("CHF %.0f", float64(centesimi)/100)
}

const emailStyle = `
        body { font-family: 'Inter', Arial, sans-serif; background: #161716; color: #ffffff; padding: 40px; }
        .container { max-width: 600px; margin: 0 auto; background: #2a2c29; border-radius: 12px; padding: 40px; }
        h1 { color: #c8f000; margin-bottom: 20px; }
        .highlight { color: #c8f000; }
        ul { padding-left: 20px; }
        li { margin-bottom: 10px; color: #9a9a96; }
        .total { font-size: 24px; font-weight: bold; margin-top: 20px; }
        .footer { margin-top: 40px; padding-top: 20px; border-top: 1px solid #343633; color: #6f716d; font-size: 12px; }
`

const emailFooter = `
            <div class="footer">
                <p>Arxéon - Marketing strategico orientato ai risultati</p>
                <p>info@arxeon.ch | Lugano, Svizzera</p>
            </div>
`

func wrapEmail(inner string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><style>%s</style></head>
<body>
    <div class="container">
%s
%s
    </div>
</body>
</html>`, emailStyle, inner, emailFooter)
}

// RenderOrderConfirmation renders the "order confirmed" email body.
func RenderOrderConfirmation(order OrderSummary) string {
	var items strings.Builder
	for _, line := range order.Lines {
		priceText := chf(line.Price)
		if line.Recurring {
			priceText += "/mese"
		} else {
			priceText += " (una tantum)"
		}
		fmt.Fprintf(&items, "<li>%s - %s</li>", line.Name, priceText)
	}

	pkgName := order.PackageName
	if pkgName == "" {
		pkgName = order.PackageCode
	}

	oneTime := ""
	if order.TotalOneTime > 0 {
		oneTime = fmt.Sprintf("<br>Una tantum: %s", chf(order.TotalOneTime))
	}

	inner := fmt.Sprintf(`
        <h1>Grazie per aver scelto Arxéon</h1>
        <p>Il tuo ordine è stato confermato.</p>

        <h3>Riepilogo ordine:</h3>
        <p><strong>Pacchetto:</strong> <span class="highlight">%s</span></p>

        <ul>%s</ul>

        <p class="total">
            Totale mensile: <span class="highlight">%s</span>%s
        </p>

        <h3>Prossimi passi:</h3>
        <ol>
            <li>Riceverai il contratto via email</li>
            <li>Compila il formulario di audit</li>
            <li>Analizziamo il tuo caso</li>
            <li>Prenota la prima consulenza</li>
        </ol>`,
		pkgName, items.String(), chf(order.TotalMonthly), oneTime)

	return wrapEmail(inner)
}

// RenderPaymentReceipt renders the recurring payment receipt email body.
func RenderPaymentReceipt(amountPaid int64, packageName string) string {
	inner := fmt.Sprintf(`
        <h1>Pagamento ricevuto</h1>
        <p>Grazie, il pagamento di CHF %.2f è stato elaborato correttamente.</p>
        <p>Pacchetto: <span class="highlight">%s</span></p>`,
		float64(amountPaid)/100, packageName)
	return wrapEmail(inner)
}

// RenderAuditAck renders the immediate acknowledgment sent at audit intake.
func RenderAuditAck(fullName, company string) string {
	inner := fmt.Sprintf(`
        <h1>Grazie %s!</h1>
        <p>Abbiamo ricevuto la richiesta di audit per <span class="highlight">%s</span>.</p>
        <p>Il nostro team analizzerà il tuo caso: riceverai il report personalizzato a breve.</p>
        <p>Nel frattempo, puoi prenotare la tua prima consulenza:</p>
        <p><a href="https://calendly.com/arxeon/30min" style="color: #c8f000;">Prenota ora →</a></p>`,
		fullName, company)
	return wrapEmail(inner)
}

// RenderAuditReport renders the delivery email that carries the report
// artifact as an attachment.
func RenderAuditReport(fullName, company, maturityLevel string, score int) string {
	inner := fmt.Sprintf(`
        <h1>Il tuo audit è pronto, %s</h1>
        <p>In allegato trovi il report personalizzato per <span class="highlight">%s</span>.</p>
        <p>Punteggio di maturità digitale: <span class="highlight">%d/10</span> - Livello: <span class="highlight">%s</span></p>
        <p>Prenota una consulenza per discutere i risultati:</p>
        <p><a href="https://calendly.com/arxeon/30min" style="color: #c8f000;">Prenota ora →</a></p>`,
		fullName, company, score, maturityLevel)
	return wrapEmail(inner)
}
