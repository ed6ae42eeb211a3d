package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"presupuestos/services"
)

// eventJSON is the wire shape of a calendar event for the agenda API.
type eventJSON struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Status     string    `json:"status"`
	ClientName string    `json:"clientName"`
	Total      float64   `json:"total"`
	Advance    float64   `json:"advance"`
}

func toEventJSON(ev services.CalendarEvent) eventJSON {
	return eventJSON{
		ID:         ev.ID,
		Title:      ev.Title,
		Start:      ev.Start,
		End:        ev.End,
		Status:     ev.Status,
		ClientName: ev.ClientInfo.Name,
		Total:      ev.ClientInfo.Total,
		Advance:    ev.ClientInfo.Advance,
	}
}

func eventError(e *core.RequestEvent, err error) error {
	var aErr *services.AuthorizationError
	if errors.As(err, &aErr) {
		return e.JSON(http.StatusForbidden, map[string]string{"error": "no autorizado"})
	}
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		return e.JSON(http.StatusUnprocessableEntity, map[string]string{"error": vErr.Error()})
	}
	log.Printf("events: operation failed: %v", err)
	return e.JSON(http.StatusInternalServerError, map[string]string{"error": "algo salió mal"})
}

// parseLocalTime accepts both the datetime-local form format and RFC 3339.
func parseLocalTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04", raw, time.Local)
}

// HandleEventList returns the caller's events as JSON.
func HandleEventList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		agenda, err := newAgenda(app, e)
		if err != nil {
			return eventError(e, err)
		}
		out := make([]eventJSON, 0, len(agenda.Events()))
		for _, ev := range agenda.Events() {
			out = append(out, toEventJSON(ev))
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleEventCreate creates a bare consultation event (admin only).
func HandleEventCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "formulario inválido"})
		}

		title := strings.TrimSpace(e.Request.FormValue("title"))
		start, err := parseLocalTime(e.Request.FormValue("start"))
		if err != nil {
			return e.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "horario: inválido"})
		}
		end := start.Add(services.DefaultEventDuration)
		if raw := strings.TrimSpace(e.Request.FormValue("end")); raw != "" {
			t, err := parseLocalTime(raw)
			if err != nil {
				return e.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "fin: inválido"})
			}
			end = t
		}

		agenda, loadErr := newAgenda(app, e)
		if loadErr != nil {
			return eventError(e, loadErr)
		}
		ev, err := agenda.Create(title, start, end, strings.TrimSpace(e.Request.FormValue("client")))
		if err != nil {
			return eventError(e, err)
		}
		return e.JSON(http.StatusCreated, toEventJSON(ev))
	}
}

// HandleEventMove applies a drag or resize. On storage failure the agenda
// already rolled back to the server state, so the client only has to reload.
func HandleEventMove(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var body struct {
			Start time.Time `json:"start"`
			End   time.Time `json:"end"`
		}
		if err := json.NewDecoder(e.Request.Body).Decode(&body); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "cuerpo inválido"})
		}

		agenda, loadErr := newAgenda(app, e)
		if loadErr != nil {
			return eventError(e, loadErr)
		}
		if err := agenda.MoveOrResize(e.Request.PathValue("id"), body.Start, body.End); err != nil {
			return eventError(e, err)
		}
		return e.NoContent(http.StatusNoContent)
	}
}

// HandleEventUpdate merges an edit: title, times and client name change, the
// quoted services snapshot stays as scheduled.
func HandleEventUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var body struct {
			Title      string    `json:"title"`
			Start      time.Time `json:"start"`
			End        time.Time `json:"end"`
			ClientName string    `json:"clientName"`
		}
		if err := json.NewDecoder(e.Request.Body).Decode(&body); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "cuerpo inválido"})
		}

		agenda, loadErr := newAgenda(app, e)
		if loadErr != nil {
			return eventError(e, loadErr)
		}
		if err := agenda.Update(e.Request.PathValue("id"), body.Title, body.Start, body.End, body.ClientName); err != nil {
			return eventError(e, err)
		}
		return e.NoContent(http.StatusNoContent)
	}
}

// HandleEventDelete removes an event. Deleting an id that is already gone
// succeeds.
func HandleEventDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		agenda, loadErr := newAgenda(app, e)
		if loadErr != nil {
			return eventError(e, loadErr)
		}
		if err := agenda.Delete(e.Request.PathValue("id")); err != nil {
			return eventError(e, err)
		}
		return e.NoContent(http.StatusNoContent)
	}
}

// HandleQuoteSchedule turns the current quote into a calendar event with a
// frozen snapshot of the services and totals.
func HandleQuoteSchedule(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Formulario inválido")
		}

		start, err := parseLocalTime(e.Request.FormValue("start"))
		if err != nil {
			return ErrorToast(e, http.StatusUnprocessableEntity, "horario: inválido")
		}

		ledger := newLedger(app, e)
		party := getParty(app, e)
		set := getQuoteSettings(app, e).Value()
		totals := services.ComputeTotals(ledger.Items(), services.ParseAmount(set.Tax), services.ParseAmount(set.Advance))

		client := party.Client()
		agenda, loadErr := newAgenda(app, e)
		if loadErr != nil {
			return ErrorToast(e, http.StatusInternalServerError, userMessage(loadErr))
		}

		ev, err := agenda.Schedule("", start, ledger.Items(), client, totals)
		if err != nil {
			return ErrorToast(e, http.StatusUnprocessableEntity, userMessage(err))
		}

		SetToast(e, "success", "Evento agendado: "+ev.Title)
		return e.String(http.StatusOK, "")
	}
}
