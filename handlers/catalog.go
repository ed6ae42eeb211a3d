package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"presupuestos/services"
	"presupuestos/templates"
)

func renderCatalog(e *core.RequestEvent, cat *services.Catalog) error {
	component := templates.CatalogSection(cat.Entries(), cat.PendingDelete(), GetIdentity(e.Request) != nil, cat.PendingMigrate())
	return component.Render(e.Request.Context(), e.Response)
}

func catalogCandidateFromForm(e *core.RequestEvent) services.CatalogCandidate {
	return services.CatalogCandidate{
		Name:     strings.TrimSpace(e.Request.FormValue("name")),
		Price:    strings.TrimSpace(e.Request.FormValue("price")),
		Discount: strings.TrimSpace(e.Request.FormValue("discount")),
	}
}

// HandleCatalogList renders the saved-services fragment.
func HandleCatalogList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return renderCatalog(e, newCatalog(app, e))
	}
}

// HandleCatalogAdd saves a new catalog service, remote for logged-in users
// and device-local otherwise.
func HandleCatalogAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Formulario inválido")
		}

		cat := newCatalog(app, e)
		if err := cat.Add(catalogCandidateFromForm(e)); err != nil {
			return ErrorToast(e, http.StatusUnprocessableEntity, userMessage(err))
		}

		SetToast(e, "success", "Servicio guardado")
		return renderCatalog(e, cat)
	}
}

// HandleCatalogUpdate edits a saved service.
func HandleCatalogUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Formulario inválido")
		}

		cat := newCatalog(app, e)
		if err := cat.Update(e.Request.PathValue("id"), catalogCandidateFromForm(e)); err != nil {
			return ErrorToast(e, http.StatusUnprocessableEntity, userMessage(err))
		}

		SetToast(e, "success", "Servicio actualizado")
		return renderCatalog(e, cat)
	}
}

// HandleCatalogStageDelete marks a service for deletion. Nothing is removed
// until the confirm request arrives; the fragment re-renders with the inline
// confirmation controls.
func HandleCatalogStageDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		cat := newCatalog(app, e)
		cat.StageDelete(e.Request.PathValue("id"))
		return renderCatalog(e, cat)
	}
}

// HandleCatalogConfirmDelete performs the staged deletion.
func HandleCatalogConfirmDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		cat := newCatalog(app, e)
		cat.StageDelete(e.Request.PathValue("id"))
		if err := cat.ConfirmDelete(); err != nil {
			return ErrorToast(e, http.StatusUnprocessableEntity, userMessage(err))
		}
		SetToast(e, "success", "Servicio eliminado")
		return renderCatalog(e, cat)
	}
}

// HandleCatalogCancelDelete dismisses the confirmation without deleting.
func HandleCatalogCancelDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		cat := newCatalog(app, e)
		cat.CancelDelete()
		return renderCatalog(e, cat)
	}
}

// HandleCatalogSelect copies a saved service into the quote as a fresh line
// item with quantity 1.
func HandleCatalogSelect(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		cat := newCatalog(app, e)
		cand, ok := cat.Select(e.Request.PathValue("id"))
		if !ok {
			return ErrorToast(e, http.StatusNotFound, "servicio: no existe")
		}

		ledger := newLedger(app, e)
		if _, err := ledger.Add(cand); err != nil {
			return ErrorToast(e, http.StatusUnprocessableEntity, userMessage(err))
		}

		return renderLineItems(app, e, ledger)
	}
}

// HandleCatalogImport bulk-loads services from an uploaded CSV or xlsx file.
// Valid rows import, broken rows are reported without stopping the rest.
func HandleCatalogImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Falta el archivo")
		}
		defer file.Close()

		rows, rowErrors, err := services.ParseCatalogFile(file, header.Filename)
		if err != nil {
			return ErrorToast(e, http.StatusUnprocessableEntity, "No se pudo leer el archivo: "+err.Error())
		}

		cat := newCatalog(app, e)
		result := cat.Import(rows, rowErrors)

		if len(result.Errors) == 0 {
			SetToast(e, "success", fmt.Sprintf("%d servicios importados", result.Imported))
		} else {
			SetToast(e, "warning", fmt.Sprintf("%d servicios importados, %d filas con errores",
				result.Imported, len(result.Errors)))
		}
		return renderCatalog(e, cat)
	}
}

// HandleCatalogStageMigrate asks for confirmation before the local catalog
// is moved into the account. Nothing is uploaded until the confirm request
// arrives; the fragment re-renders with the inline confirmation controls.
func HandleCatalogStageMigrate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		cat := newCatalog(app, e)
		cat.StageMigrate()
		return renderCatalog(e, cat)
	}
}

// HandleCatalogCancelMigrate dismisses the confirmation without uploading.
func HandleCatalogCancelMigrate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		cat := newCatalog(app, e)
		cat.CancelMigrate()
		return renderCatalog(e, cat)
	}
}

// HandleCatalogConfirmMigrate moves every device-local service into the
// logged-in user's account. Either all entries migrate or none do.
func HandleCatalogConfirmMigrate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		cat := newCatalog(app, e)
		n, err := cat.MigrateLocalToRemote()
		if err != nil {
			return ErrorToast(e, http.StatusUnprocessableEntity, userMessage(err))
		}

		if n == 0 {
			SetToast(e, "info", "No hay servicios locales para guardar")
		} else {
			SetToast(e, "success", fmt.Sprintf("%d servicios guardados en tu cuenta", n))
		}
		return renderCatalog(e, cat)
	}
}
