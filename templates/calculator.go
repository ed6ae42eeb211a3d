package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"presupuestos/services"
)

// CalculatorData feeds the quote calculator page.
type CalculatorData struct {
	Items          []services.LineItem
	Totals         services.QuoteTotals
	TaxPercent     string
	Advance        string
	Issuer         services.PartyData
	Client         services.PartyData
	Catalog        []services.CatalogEntry
	PendingDelete  string
	RemoteCatalog  bool
	PendingMigrate bool
	User           UserInfo
}

// CalculatorPage renders the full quote calculator.
func CalculatorPage(data CalculatorData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		io.WriteString(w, `<h1>Calculadora de Presupuestos</h1>
<div class="calculator-grid">
<section class="panel">
<h2>Servicios</h2>
<form hx-post="/quote/items" hx-target="#quote-items" hx-swap="outerHTML" class="item-form">
<input type="text" name="name" placeholder="Servicio" required>
<input type="text" name="price" placeholder="Precio" required>
<input type="text" name="quantity" placeholder="Cant." value="1" required>
<input type="text" name="discount" placeholder="Desc. %">
<button type="submit">Agregar</button>
</form>
`)
		if err := LineItemsSection(data.Items, data.Totals, data.TaxPercent, data.Advance).Render(ctx, w); err != nil {
			return err
		}
		io.WriteString(w, `</section>
<section class="panel">
`)
		if err := CatalogSection(data.Catalog, data.PendingDelete, data.RemoteCatalog, data.PendingMigrate).Render(ctx, w); err != nil {
			return err
		}
		io.WriteString(w, `</section>
</div>
<div class="calculator-grid">
<section class="panel">
<h2>Mis datos</h2>
`)
		if err := partyForm("issuer", data.Issuer, true).Render(ctx, w); err != nil {
			return err
		}
		io.WriteString(w, `</section>
<section class="panel">
<h2>Datos del cliente</h2>
`)
		if err := partyForm("client", data.Client, false).Render(ctx, w); err != nil {
			return err
		}
		io.WriteString(w, `</section>
</div>
<div class="actions">
<a href="/quote/pdf" class="btn">Descargar PDF</a>
<a href="/quote/print" class="btn" target="_blank">Vista de impresión</a>
<button class="btn btn-danger" hx-post="/quote/clear" hx-target="#quote-items" hx-swap="outerHTML"
 hx-confirm="¿Vaciar el presupuesto?">Vaciar</button>
</div>
<section class="panel">
<h2>Agendar evento</h2>
<form hx-post="/quote/schedule" hx-swap="none">
<input type="datetime-local" name="start" required>
<button type="submit">Agendar</button>
</form>
</section>
`)
		return nil
	})
}

// LineItemsSection renders the quote table plus totals. It is the swap target
// for every line-item mutation.
func LineItemsSection(items []services.LineItem, totals services.QuoteTotals, taxPercent, advance string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		io.WriteString(w, `<div id="quote-items">
`)
		if len(items) == 0 {
			io.WriteString(w, `<p class="empty">Todavía no agregaste servicios.</p>
`)
		} else {
			io.WriteString(w, `<table class="items-table">
<thead><tr><th>Servicio</th><th>Cant.</th><th>P. Unit.</th><th>Desc.</th><th>Subtotal</th><th></th></tr></thead>
<tbody>
`)
			for _, it := range items {
				fmt.Fprintf(w, `<tr>
<td>%s</td><td>%d</td><td>%s</td><td>%s</td><td>%s</td>
<td><button class="link-btn" hx-delete="/quote/items/%s" hx-target="#quote-items" hx-swap="outerHTML">Quitar</button></td>
</tr>
`,
					esc(it.Name), it.Quantity,
					services.FormatMoney(it.UnitPrice),
					services.FormatPercent(it.DiscountPercent),
					services.FormatMoney(it.Subtotal()),
					esc(it.ID))
			}
			io.WriteString(w, `</tbody>
</table>
`)
		}
		if err := TotalsBox(totals, taxPercent, advance).Render(ctx, w); err != nil {
			return err
		}
		io.WriteString(w, `</div>
`)
		return nil
	})
}

// TotalsBox renders totals and the tax/advance inputs that recompute them.
func TotalsBox(totals services.QuoteTotals, taxPercent, advance string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<div id="quote-totals" class="totals-box">
<form hx-get="/quote/totals" hx-target="#quote-totals" hx-swap="outerHTML"
 hx-trigger="change, keyup changed delay:500ms from:input">
<label>IVA %% <input type="text" name="tax" value="%s"></label>
<label>Seña <input type="text" name="advance" value="%s"></label>
</form>
<dl>
<dt>Subtotal</dt><dd>%s</dd>
`, esc(taxPercent), esc(advance), services.FormatMoney(totals.Subtotal))
		if totals.TaxPercent > 0 {
			fmt.Fprintf(w, `<dt>IVA (%s)</dt><dd>%s</dd>
`, services.FormatPercent(totals.TaxPercent), services.FormatMoney(totals.TaxAmount))
		}
		fmt.Fprintf(w, `<dt class="total">Total</dt><dd class="total">%s</dd>
`, services.FormatMoney(totals.Total))
		if totals.AdvancePayment > 0 {
			fmt.Fprintf(w, `<dt>Seña</dt><dd>%s</dd>
<dt class="total">Saldo pendiente</dt><dd class="total">%s</dd>
`, services.FormatMoney(totals.AdvancePayment), services.FormatMoney(totals.PendingBalance))
		}
		io.WriteString(w, `</dl>
</div>
`)
		return nil
	})
}

// CatalogSection renders the saved-services list with the staged-delete and
// staged-migrate gates.
func CatalogSection(entries []services.CatalogEntry, pendingDelete string, remote, pendingMigrate bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		io.WriteString(w, `<div id="catalog-section">
<h2>Servicios guardados</h2>
<form hx-post="/catalog" hx-target="#catalog-section" hx-swap="outerHTML" class="item-form">
<input type="text" name="name" placeholder="Servicio" required>
<input type="text" name="price" placeholder="Precio" required>
<input type="text" name="discount" placeholder="Desc. %">
<button type="submit">Guardar</button>
</form>
`)
		if len(entries) == 0 {
			io.WriteString(w, `<p class="empty">No hay servicios guardados.</p>
`)
		}
		for _, entry := range entries {
			fmt.Fprintf(w, `<div class="catalog-row">
<span>%s</span>
<span>%s</span>
`, esc(entry.Name), services.FormatMoney(entry.Price))
			if entry.ID == pendingDelete {
				fmt.Fprintf(w, `<span class="confirm-delete">¿Eliminar?
<button class="link-btn" hx-post="/catalog/%s/confirm" hx-target="#catalog-section" hx-swap="outerHTML">Sí</button>
<button class="link-btn" hx-post="/catalog/%s/cancel" hx-target="#catalog-section" hx-swap="outerHTML">No</button>
</span>
`, esc(entry.ID), esc(entry.ID))
			} else {
				fmt.Fprintf(w, `<button class="link-btn" hx-post="/catalog/%s/select" hx-target="#quote-items" hx-swap="outerHTML">Usar</button>
<button class="link-btn" hx-delete="/catalog/%s" hx-target="#catalog-section" hx-swap="outerHTML">Eliminar</button>
`, esc(entry.ID), esc(entry.ID))
			}
			io.WriteString(w, `</div>
`)
		}
		io.WriteString(w, `<form hx-post="/catalog/import" hx-target="#catalog-section" hx-swap="outerHTML"
 hx-encoding="multipart/form-data" class="item-form">
<input type="file" name="file" accept=".csv,.xlsx" required>
<button type="submit">Importar</button>
</form>
`)
		if !remote && len(entries) > 0 {
			if pendingMigrate {
				fmt.Fprintf(w, `<span class="confirm-delete">¿Guardar %d servicios en tu cuenta?
<button class="link-btn" hx-post="/catalog/migrate/confirm" hx-target="#catalog-section" hx-swap="outerHTML">Sí</button>
<button class="link-btn" hx-post="/catalog/migrate/cancel" hx-target="#catalog-section" hx-swap="outerHTML">No</button>
</span>
`, len(entries))
			} else {
				io.WriteString(w, `<button class="btn" hx-post="/catalog/migrate" hx-target="#catalog-section" hx-swap="outerHTML">Guardar en mi cuenta</button>
`)
			}
		}
		io.WriteString(w, `</div>
`)
		return nil
	})
}

func partyForm(side string, data services.PartyData, withPayments bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fields := []struct {
			name        string
			label       string
			value       string
			placeholder string
		}{
			{"name", "Nombre", data.Name, "Nombre"},
			{"company", "Empresa", data.Company, "Empresa"},
			{"email", "Email", data.Email, "Email"},
			{"phone", "Teléfono", data.Phone, "Teléfono"},
		}
		for _, f := range fields {
			fmt.Fprintf(w, `<label>%s
<input type="text" name="value" value="%s" placeholder="%s"
 hx-post="/quote/party/%s?field=%s" hx-trigger="keyup changed delay:400ms" hx-swap="none">
</label>
`, f.label, esc(f.value), f.placeholder, side, f.name)
		}
		if withPayments {
			fmt.Fprintf(w, `<label>Métodos de pago
<textarea name="value" placeholder="Transferencia, efectivo..."
 hx-post="/quote/party/%s?field=paymentMethods" hx-trigger="keyup changed delay:400ms" hx-swap="none">%s</textarea>
</label>
`, side, esc(data.PaymentMethods))
		}
		return nil
	})
}
