package main

import (
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"presupuestos/collections"
	"presupuestos/handlers"
)

func main() {
	app := pocketbase.New()

	// Create collections and seed demo data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		// Resolve the session and device namespace for every request
		se.Router.BindFunc(handlers.SessionMiddleware(app))

		// ── Pages ────────────────────────────────────────────────
		se.Router.GET("/", handlers.HandleDashboard(app))
		se.Router.GET("/calculadora", handlers.HandleCalculator(app))
		se.Router.GET("/agenda", handlers.HandleAgendaPage(app))

		// ── Quote ────────────────────────────────────────────────
		se.Router.POST("/quote/items", handlers.HandleQuoteAddItem(app))
		se.Router.POST("/quote/items/{id}", handlers.HandleQuoteEditItem(app))
		se.Router.DELETE("/quote/items/{id}", handlers.HandleQuoteRemoveItem(app))
		se.Router.POST("/quote/clear", handlers.HandleQuoteClear(app))
		se.Router.GET("/quote/totals", handlers.HandleQuoteTotals(app))
		se.Router.POST("/quote/party/{side}", handlers.HandlePartyField(app))
		se.Router.POST("/quote/schedule", handlers.HandleQuoteSchedule(app))
		se.Router.GET("/quote/pdf", handlers.HandleQuotePDF(app))
		se.Router.GET("/quote/print", handlers.HandleQuotePrint(app))

		// ── Catalog ──────────────────────────────────────────────
		se.Router.GET("/catalog", handlers.HandleCatalogList(app))
		se.Router.POST("/catalog", handlers.HandleCatalogAdd(app))
		se.Router.POST("/catalog/migrate", handlers.HandleCatalogStageMigrate(app))
		se.Router.POST("/catalog/migrate/confirm", handlers.HandleCatalogConfirmMigrate(app))
		se.Router.POST("/catalog/migrate/cancel", handlers.HandleCatalogCancelMigrate(app))
		se.Router.POST("/catalog/import", handlers.HandleCatalogImport(app))
		se.Router.POST("/catalog/{id}", handlers.HandleCatalogUpdate(app))
		se.Router.DELETE("/catalog/{id}", handlers.HandleCatalogStageDelete(app))
		se.Router.POST("/catalog/{id}/confirm", handlers.HandleCatalogConfirmDelete(app))
		se.Router.POST("/catalog/{id}/cancel", handlers.HandleCatalogCancelDelete(app))
		se.Router.POST("/catalog/{id}/select", handlers.HandleCatalogSelect(app))

		// ── Events API ───────────────────────────────────────────
		se.Router.GET("/api/events", handlers.HandleEventList(app))
		se.Router.POST("/api/events", handlers.HandleEventCreate(app))
		se.Router.PATCH("/api/events/{id}/times", handlers.HandleEventMove(app))
		se.Router.PATCH("/api/events/{id}", handlers.HandleEventUpdate(app))
		se.Router.DELETE("/api/events/{id}", handlers.HandleEventDelete(app))

		// ── Agenda export ────────────────────────────────────────
		se.Router.GET("/agenda/export/excel", handlers.HandleAgendaExcel(app))

		// ── Auth ─────────────────────────────────────────────────
		se.Router.GET("/login", handlers.HandleLoginPage(app))
		se.Router.POST("/login", handlers.HandleMagicLinkRequest(app))
		se.Router.GET("/auth/verify", handlers.HandleMagicLinkVerify(app))
		se.Router.POST("/logout", handlers.HandleLogout(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
