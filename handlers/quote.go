package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"presupuestos/services"
	"presupuestos/templates"
)

// quoteSettings holds the tax and advance inputs alongside the line items so
// totals survive page reloads on the same device.
type quoteSettings struct {
	Tax     string `json:"tax"`
	Advance string `json:"advance"`
}

const keyQuoteSettings = "quote_settings"

func getQuoteSettings(app *pocketbase.PocketBase, e *core.RequestEvent) *services.Bridge[quoteSettings] {
	return services.NewBridge(services.NewRecordKV(app, GetNamespace(e.Request)), keyQuoteSettings, quoteSettings{})
}

// userMessage maps an operation error to the toast shown to the user.
func userMessage(err error) string {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Field + ": " + vErr.Reason
	}
	var aErr *services.AuthorizationError
	if errors.As(err, &aErr) {
		return "No tenés permisos para esta acción"
	}
	return "Algo salió mal. Probá de nuevo."
}

func renderLineItems(app *pocketbase.PocketBase, e *core.RequestEvent, ledger *services.Ledger) error {
	set := getQuoteSettings(app, e).Value()
	totals := services.ComputeTotals(ledger.Items(), services.ParseAmount(set.Tax), services.ParseAmount(set.Advance))
	component := templates.LineItemsSection(ledger.Items(), totals, set.Tax, set.Advance)
	return component.Render(e.Request.Context(), e.Response)
}

func itemCandidateFromForm(e *core.RequestEvent) services.LineItemCandidate {
	return services.LineItemCandidate{
		Name:     strings.TrimSpace(e.Request.FormValue("name")),
		Price:    strings.TrimSpace(e.Request.FormValue("price")),
		Quantity: strings.TrimSpace(e.Request.FormValue("quantity")),
		Discount: strings.TrimSpace(e.Request.FormValue("discount")),
	}
}

// HandleQuoteAddItem appends a line item and re-renders the items fragment.
func HandleQuoteAddItem(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Formulario inválido")
		}

		ledger := newLedger(app, e)
		if _, err := ledger.Add(itemCandidateFromForm(e)); err != nil {
			return ErrorToast(e, http.StatusUnprocessableEntity, userMessage(err))
		}

		return renderLineItems(app, e, ledger)
	}
}

// HandleQuoteEditItem updates an existing line item in place.
func HandleQuoteEditItem(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Formulario inválido")
		}

		id := e.Request.PathValue("id")
		ledger := newLedger(app, e)
		if _, err := ledger.Edit(id, itemCandidateFromForm(e)); err != nil {
			return ErrorToast(e, http.StatusUnprocessableEntity, userMessage(err))
		}

		return renderLineItems(app, e, ledger)
	}
}

// HandleQuoteRemoveItem drops a line item. Removing an id that is already
// gone still succeeds.
func HandleQuoteRemoveItem(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		ledger := newLedger(app, e)
		ledger.Remove(e.Request.PathValue("id"))
		return renderLineItems(app, e, ledger)
	}
}

// HandleQuoteClear empties the quote after the client-side confirmation.
func HandleQuoteClear(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		ledger := newLedger(app, e)
		ledger.Clear()
		getParty(app, e).ClearClient()
		SetToast(e, "success", "Presupuesto vaciado")
		return renderLineItems(app, e, ledger)
	}
}

// HandleQuoteTotals recomputes the totals fragment from the tax and advance
// inputs and persists them for the device.
func HandleQuoteTotals(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		set := quoteSettings{
			Tax:     strings.TrimSpace(e.Request.URL.Query().Get("tax")),
			Advance: strings.TrimSpace(e.Request.URL.Query().Get("advance")),
		}
		getQuoteSettings(app, e).Set(set)

		ledger := newLedger(app, e)
		totals := services.ComputeTotals(ledger.Items(), services.ParseAmount(set.Tax), services.ParseAmount(set.Advance))
		component := templates.TotalsBox(totals, set.Tax, set.Advance)
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandlePartyField stores one issuer or client field. Issuer edits schedule
// the debounced remote save when the user is logged in.
func HandlePartyField(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Formulario inválido")
		}

		side := e.Request.PathValue("side")
		field := e.Request.URL.Query().Get("field")
		value := e.Request.FormValue("value")

		party := getParty(app, e)
		var err error
		switch side {
		case "issuer":
			err = party.SetIssuerField(field, value)
		case "client":
			err = party.SetClientField(field, value)
		default:
			return ErrorToast(e, http.StatusNotFound, "Formulario inválido")
		}
		if err != nil {
			log.Printf("quote: party field %s/%s rejected: %v", side, field, err)
			return ErrorToast(e, http.StatusUnprocessableEntity, userMessage(err))
		}

		return e.String(http.StatusOK, "")
	}
}
