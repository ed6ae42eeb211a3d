package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"presupuestos/services"
)

// QuotePrintPage renders a standalone printable quote, mirroring the PDF layout.
func QuotePrintPage(data services.QuotePDFData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Presupuesto</title>
<link rel="stylesheet" href="/static/print.css">
</head>
<body onload="window.print()">
<header class="print-header">
<div>
<h3>DE:</h3>
%s
</div>
<div>
<h3>PARA:</h3>
%s
</div>
</header>
<h1>Presupuesto de Servicios</h1>
<p>Fecha: %s</p>
<table>
<thead><tr><th>Servicio</th><th>Cant.</th><th>P. Unit. ($)</th><th>Desc. %%</th><th>Subtotal ($)</th></tr></thead>
<tbody>
`,
			partyBlock(data.Issuer), partyBlock(data.Client),
			services.FormatDate(data.QuoteDate))

		for _, it := range data.Items {
			fmt.Fprintf(w, `<tr><td>%s</td><td>%d</td><td>%s</td><td>%s</td><td>%s</td></tr>
`,
				esc(it.Name), it.Quantity,
				services.FormatAmount(it.UnitPrice),
				services.FormatPercent(it.DiscountPercent),
				services.FormatAmount(it.Subtotal()))
		}

		fmt.Fprintf(w, `</tbody>
</table>
<dl class="print-totals">
<dt>Subtotal</dt><dd>%s</dd>
`, services.FormatMoney(data.Totals.Subtotal))
		if data.Totals.TaxPercent > 0 {
			fmt.Fprintf(w, `<dt>IVA (%s)</dt><dd>%s</dd>
`, services.FormatPercent(data.Totals.TaxPercent), services.FormatMoney(data.Totals.TaxAmount))
		}
		fmt.Fprintf(w, `<dt class="total">Total</dt><dd class="total">%s</dd>
`, services.FormatMoney(data.Totals.Total))
		if data.Totals.AdvancePayment > 0 {
			fmt.Fprintf(w, `<dt>Seña</dt><dd>%s</dd>
<dt class="total">Saldo pendiente</dt><dd class="total">%s</dd>
`, services.FormatMoney(data.Totals.AdvancePayment), services.FormatMoney(data.Totals.PendingBalance))
		}
		io.WriteString(w, `</dl>
`)
		if data.Issuer.PaymentMethods != "" {
			fmt.Fprintf(w, `<section>
<h3>Métodos de Pago:</h3>
<p>%s</p>
</section>
`, esc(data.Issuer.PaymentMethods))
		}
		io.WriteString(w, `</body>
</html>
`)
		return nil
	})
}

func partyBlock(p services.PartyData) string {
	out := ""
	if p.Name != "" {
		out += "<div>" + esc(p.Name) + "</div>"
	}
	if p.Company != "" {
		out += "<div>" + esc(p.Company) + "</div>"
	}
	if p.Email != "" {
		out += "<div>" + esc(p.Email) + "</div>"
	}
	if p.Phone != "" {
		out += "<div>" + esc(p.Phone) + "</div>"
	}
	if out == "" {
		out = "<div>-</div>"
	}
	return out
}
