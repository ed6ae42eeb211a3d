package handlers

import (
	"log"
	"sync"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"presupuestos/services"
)

// newLedger builds the quote ledger for the request's device namespace.
func newLedger(app *pocketbase.PocketBase, e *core.RequestEvent) *services.Ledger {
	return services.NewLedger(services.NewRecordKV(app, GetNamespace(e.Request)))
}

// newCatalog builds the catalog store for the current identity, already loaded.
func newCatalog(app *pocketbase.PocketBase, e *core.RequestEvent) *services.Catalog {
	cat := services.NewCatalog(
		services.NewCatalogRecords(app),
		services.NewRecordKV(app, GetNamespace(e.Request)),
		GetIdentity(e.Request),
	)
	if err := cat.Load(); err != nil {
		log.Printf("stores: catalog load failed: %v", err)
	}
	return cat
}

// newAgenda builds the agenda for the current identity, already loaded.
func newAgenda(app *pocketbase.PocketBase, e *core.RequestEvent) (*services.Agenda, error) {
	ag := services.NewAgenda(services.NewEventRecords(app), GetIdentity(e.Request))
	if err := ag.Load(); err != nil {
		return ag, err
	}
	return ag, nil
}

// partyRegistry keeps one Party per device namespace so the issuer debounce
// coalesces saves across the HTMX keystroke requests of a session.
var partyRegistry = struct {
	sync.Mutex
	byNS map[string]*services.Party
}{byNS: make(map[string]*services.Party)}

func getParty(app *pocketbase.PocketBase, e *core.RequestEvent) *services.Party {
	ns := GetNamespace(e.Request)
	identity := GetIdentity(e.Request)

	key := ns
	if identity != nil {
		key = ns + ":" + identity.ID
	}

	partyRegistry.Lock()
	defer partyRegistry.Unlock()

	if p, ok := partyRegistry.byNS[key]; ok {
		return p
	}
	p := services.NewParty(
		services.NewIssuerRecords(app),
		services.NewRecordKV(app, ns),
		identity,
		services.DefaultIssuerSaveDelay,
	)
	if err := p.LoadIssuer(); err != nil {
		log.Printf("stores: issuer load failed, using local data: %v", err)
	}
	partyRegistry.byNS[key] = p
	return p
}

// flushParty forces any pending debounced issuer save for the request's
// session. Used on logout so an in-flight edit is not lost.
func flushParty(e *core.RequestEvent) {
	ns := GetNamespace(e.Request)
	identity := GetIdentity(e.Request)
	key := ns
	if identity != nil {
		key = ns + ":" + identity.ID
	}

	partyRegistry.Lock()
	p, ok := partyRegistry.byNS[key]
	partyRegistry.Unlock()
	if !ok {
		return
	}
	if err := p.Flush(); err != nil {
		log.Printf("stores: issuer flush failed: %v", err)
	}
}
