// Package templates renders the HTML pages and HTMX fragments of the app.
// Components are plain templ.Component values so handlers can render them
// straight into the response writer.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// UserInfo carries the logged-in user shown in the navbar.
type UserInfo struct {
	Email    string
	Role     string
	LoggedIn bool
}

func esc(s string) string { return templ.EscapeString(s) }

// Layout wraps a page body with the shared chrome: navbar, htmx, toast listener.
func Layout(title string, user UserInfo, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s - Presupuestos</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<link rel="stylesheet" href="/static/app.css">
</head>
<body>
`, esc(title))

		io.WriteString(w, `<nav class="navbar">
<a href="/" class="brand">Presupuestos</a>
<div class="nav-links">
<a href="/calculadora">Calculadora</a>
<a href="/agenda">Agenda</a>
`)
		if user.LoggedIn {
			fmt.Fprintf(w, `<span class="nav-user">%s</span>
<form method="post" action="/logout" class="inline"><button type="submit" class="link-btn">Salir</button></form>
`, esc(user.Email))
		} else {
			io.WriteString(w, `<a href="/login">Ingresar</a>
`)
		}
		io.WriteString(w, `</div>
</nav>
<div id="toast-container"></div>
<main class="container">
`)

		if err := body.Render(ctx, w); err != nil {
			return err
		}

		io.WriteString(w, `</main>
<script>
document.body.addEventListener("showToast", function (evt) {
  var d = evt.detail || {};
  var el = document.createElement("div");
  el.className = "toast toast-" + (d.type || "info");
  el.textContent = d.message || "";
  document.getElementById("toast-container").appendChild(el);
  setTimeout(function () { el.remove(); }, 4000);
});
(function () {
  var m = document.cookie.match(/(?:^|; )flash_toast=([^;]*)/);
  if (!m) return;
  document.cookie = "flash_toast=; Max-Age=0; path=/";
  try {
    var d = JSON.parse(decodeURIComponent(m[1]));
    htmx.trigger(document.body, "showToast", d);
  } catch (e) {}
})();
</script>
</body>
</html>
`)
		return nil
	})
}
