package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"presupuestos/services"
)

// AgendaData feeds the agenda page.
type AgendaData struct {
	Events    []services.CalendarEvent
	CanMutate bool
	User      UserInfo
}

var statusLabels = map[string]string{
	services.StatusPresupuestado: "Presupuestado",
	services.StatusSenado:        "Señado",
	services.StatusConfirmado:    "Confirmado",
	services.StatusConsultado:    "Consultado",
}

// AgendaPage renders the event list plus the drag/resize client script.
// Moves go through PATCH /api/events/{id}/times; failures reload the list so
// the view always matches what the server accepted.
func AgendaPage(data AgendaData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		io.WriteString(w, `<h1>Agenda</h1>
<div class="actions">
<a href="/agenda/export/excel" class="btn">Exportar Excel</a>
</div>
`)
		if data.CanMutate {
			io.WriteString(w, `<form hx-post="/api/events" hx-swap="none" class="item-form">
<input type="text" name="title" placeholder="Título" required>
<input type="datetime-local" name="start" required>
<button type="submit">Crear consulta</button>
</form>
`)
		}
		if len(data.Events) == 0 {
			io.WriteString(w, `<p class="empty">No hay eventos agendados.</p>
`)
		} else {
			io.WriteString(w, `<table class="items-table" id="agenda-table">
<thead><tr><th>Evento</th><th>Cliente</th><th>Inicio</th><th>Fin</th><th>Estado</th><th>Total</th><th></th></tr></thead>
<tbody>
`)
			for _, ev := range data.Events {
				label := statusLabels[ev.Status]
				if label == "" {
					label = ev.Status
				}
				fmt.Fprintf(w, `<tr data-event-id="%s" data-start="%s" data-end="%s">
<td>%s</td><td>%s</td><td>%s</td><td>%s</td><td><span class="status status-%s">%s</span></td><td>%s</td>
`,
					esc(ev.ID),
					ev.Start.Format("2006-01-02T15:04"), ev.End.Format("2006-01-02T15:04"),
					esc(ev.Title), esc(ev.ClientInfo.Name),
					services.FormatDateTime(ev.Start), services.FormatDateTime(ev.End),
					esc(ev.Status), esc(label),
					services.FormatMoney(ev.ClientInfo.Total))
				if data.CanMutate {
					fmt.Fprintf(w, `<td>
<button class="link-btn" onclick="shiftEvent('%s', 1)">+1d</button>
<button class="link-btn" onclick="shiftEvent('%s', -1)">-1d</button>
<button class="link-btn" hx-delete="/api/events/%s" hx-confirm="¿Eliminar el evento?" hx-swap="none">Eliminar</button>
</td>
`, esc(ev.ID), esc(ev.ID), esc(ev.ID))
				} else {
					io.WriteString(w, `<td></td>
`)
				}
				io.WriteString(w, `</tr>
`)
			}
			io.WriteString(w, `</tbody>
</table>
`)
		}
		io.WriteString(w, `<script>
function shiftEvent(id, days) {
  var row = document.querySelector('[data-event-id="' + id + '"]');
  if (!row) return;
  var start = new Date(row.dataset.start);
  var end = new Date(row.dataset.end);
  start.setDate(start.getDate() + days);
  end.setDate(end.getDate() + days);
  fetch("/api/events/" + id + "/times", {
    method: "PATCH",
    headers: { "Content-Type": "application/json" },
    body: JSON.stringify({ start: start.toISOString(), end: end.toISOString() })
  }).finally(function () { window.location.reload(); });
}
document.body.addEventListener("htmx:afterRequest", function (evt) {
  if (evt.detail.requestConfig && evt.detail.requestConfig.verb !== "get" &&
      evt.detail.requestConfig.path.indexOf("/api/events") === 0) {
    window.location.reload();
  }
});
</script>
`)
		return nil
	})
}
