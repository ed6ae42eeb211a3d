package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"presupuestos/services"
)

// DashboardData feeds the home page.
type DashboardData struct {
	Stats services.DashboardStats
	User  UserInfo
}

// DashboardPage renders the stats cards, upcoming events and monthly counts.
func DashboardPage(data DashboardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		io.WriteString(w, `<h1>Panel</h1>
`)
		if !data.User.LoggedIn {
			io.WriteString(w, `<p>Ingresá para ver tus estadísticas, o usá la <a href="/calculadora">calculadora</a> directamente.</p>
`)
			return nil
		}
		fmt.Fprintf(w, `<div class="stats-grid">
<div class="stat-card"><span class="stat-value">%d</span><span class="stat-label">Eventos</span></div>
<div class="stat-card"><span class="stat-value">%s</span><span class="stat-label">Facturación</span></div>
<div class="stat-card"><span class="stat-value">%s</span><span class="stat-label">Saldo pendiente</span></div>
</div>
`,
			data.Stats.TotalEvents,
			services.FormatMoney(data.Stats.TotalRevenue),
			services.FormatMoney(data.Stats.PendingBalance))

		io.WriteString(w, `<section class="panel">
<h2>Próximos eventos</h2>
`)
		if len(data.Stats.NextEvents) == 0 {
			io.WriteString(w, `<p class="empty">No hay eventos próximos.</p>
`)
		} else {
			io.WriteString(w, `<ul class="next-events">
`)
			for _, ev := range data.Stats.NextEvents {
				fmt.Fprintf(w, `<li><strong>%s</strong> — %s</li>
`, esc(ev.Title), services.FormatDateTime(ev.Start))
			}
			io.WriteString(w, `</ul>
`)
		}
		io.WriteString(w, `</section>
`)

		if len(data.Stats.EventsPerMonth) > 0 {
			io.WriteString(w, `<section class="panel">
<h2>Eventos por mes</h2>
<table class="items-table">
<thead><tr><th>Mes</th><th>Eventos</th></tr></thead>
<tbody>
`)
			for _, m := range data.Stats.EventsPerMonth {
				fmt.Fprintf(w, `<tr><td>%s</td><td>%d</td></tr>
`, esc(m.Label), m.Count)
			}
			io.WriteString(w, `</tbody>
</table>
</section>
`)
		}
		return nil
	})
}
