package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// LoginData feeds the magic-link login page.
type LoginData struct {
	Email string
	Sent  bool
}

// LoginPage renders the email form, or a confirmation once the link was sent.
func LoginPage(data LoginData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		io.WriteString(w, `<section class="login-card">
<h1>Ingresar</h1>
`)
		if data.Sent {
			fmt.Fprintf(w, `<p class="login-sent">Te enviamos un enlace de acceso a <strong>%s</strong>. Revisá tu correo.</p>
`, esc(data.Email))
		} else {
			fmt.Fprintf(w, `<p>Ingresá tu email y te mandamos un enlace para entrar sin contraseña.</p>
<form method="post" action="/login">
<input type="email" name="email" value="%s" placeholder="tu@email.com" required>
<button type="submit">Enviar enlace</button>
</form>
`, esc(data.Email))
		}
		io.WriteString(w, `</section>
`)
		return nil
	})
}
