package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"presupuestos/services"
	"presupuestos/templates"
)

const logoPath = "static/logo.png"

func buildQuotePDFData(app *pocketbase.PocketBase, e *core.RequestEvent) services.QuotePDFData {
	ledger := newLedger(app, e)
	party := getParty(app, e)
	set := getQuoteSettings(app, e).Value()
	totals := services.ComputeTotals(ledger.Items(), services.ParseAmount(set.Tax), services.ParseAmount(set.Advance))

	data := services.QuotePDFData{
		Issuer:    party.Issuer(),
		Client:    party.Client(),
		Items:     ledger.Items(),
		Totals:    totals,
		QuoteDate: time.Now(),
	}
	if _, err := os.Stat(logoPath); err == nil {
		data.LogoPath = logoPath
	}
	return data
}

// HandleQuotePDF generates and downloads the current quote as a PDF.
func HandleQuotePDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data := buildQuotePDFData(app, e)
		if len(data.Items) == 0 {
			return ErrorToast(e, http.StatusUnprocessableEntity, "El presupuesto no tiene servicios")
		}

		pdfBytes, err := services.GenerateQuotePDF(data)
		if err != nil {
			log.Printf("export: failed to generate quote PDF: %v", err)
			return e.String(http.StatusInternalServerError, "No se pudo generar el PDF")
		}

		filename := fmt.Sprintf("presupuesto-%s.pdf", data.QuoteDate.Format("2006-01-02"))
		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}

// HandleQuotePrint renders the printable HTML version of the quote.
func HandleQuotePrint(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		component := templates.QuotePrintPage(buildQuotePDFData(app, e))
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleAgendaExcel exports the caller's agenda as an Excel workbook.
func HandleAgendaExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		agenda, err := newAgenda(app, e)
		if err != nil {
			log.Printf("export: failed to load agenda: %v", err)
			return e.String(http.StatusInternalServerError, "No se pudo cargar la agenda")
		}

		xlsxBytes, err := services.GenerateAgendaExcel(agenda.Events(), time.Now())
		if err != nil {
			log.Printf("export: failed to generate agenda Excel: %v", err)
			return e.String(http.StatusInternalServerError, "No se pudo generar el Excel")
		}

		filename := fmt.Sprintf("agenda-%s.xlsx", time.Now().Format("2006-01-02"))
		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}
