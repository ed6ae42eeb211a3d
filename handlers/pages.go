package handlers

import (
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"presupuestos/services"
	"presupuestos/templates"
)

// HandleDashboard renders the home page with the caller's stats.
func HandleDashboard(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data := templates.DashboardData{User: GetUserInfo(e.Request)}

		if GetIdentity(e.Request) != nil {
			agenda, err := newAgenda(app, e)
			if err != nil {
				log.Printf("pages: dashboard agenda load failed: %v", err)
			}
			data.Stats = services.ComputeStats(agenda.Events(), time.Now())
		}

		component := templates.Layout("Panel", data.User, templates.DashboardPage(data))
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleCalculator renders the quote calculator with the device's saved state.
func HandleCalculator(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		ledger := newLedger(app, e)
		party := getParty(app, e)
		cat := newCatalog(app, e)
		set := getQuoteSettings(app, e).Value()

		data := templates.CalculatorData{
			Items:         ledger.Items(),
			Totals:        services.ComputeTotals(ledger.Items(), services.ParseAmount(set.Tax), services.ParseAmount(set.Advance)),
			TaxPercent:    set.Tax,
			Advance:       set.Advance,
			Issuer:        party.Issuer(),
			Client:        party.Client(),
			Catalog:       cat.Entries(),
			PendingDelete: cat.PendingDelete(),
			RemoteCatalog: GetIdentity(e.Request) != nil,
			User:          GetUserInfo(e.Request),
		}

		component := templates.Layout("Calculadora", data.User, templates.CalculatorPage(data))
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleAgendaPage renders the agenda list.
func HandleAgendaPage(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		agenda, err := newAgenda(app, e)
		if err != nil {
			log.Printf("pages: agenda load failed: %v", err)
		}

		data := templates.AgendaData{
			Events:    agenda.Events(),
			CanMutate: agenda.CanMutate(),
			User:      GetUserInfo(e.Request),
		}
		component := templates.Layout("Agenda", data.User, templates.AgendaPage(data))
		return component.Render(e.Request.Context(), e.Response)
	}
}
