package handlers

import (
	"fmt"
	"log"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/mailer"
	"github.com/pocketbase/pocketbase/tools/security"

	"presupuestos/templates"
)

const loginTokenLength = 40
const loginTokenTTL = 15 * time.Minute

// HandleLoginPage renders the magic-link email form.
func HandleLoginPage(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if GetIdentity(e.Request) != nil {
			return e.Redirect(http.StatusFound, "/")
		}
		component := templates.Layout("Ingresar", GetUserInfo(e.Request), templates.LoginPage(templates.LoginData{}))
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleMagicLinkRequest finds or creates a user for the posted email, stores
// a single-use login token and mails the access link. The response is the
// same whether or not the user already existed.
func HandleMagicLinkRequest(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Formulario inválido")
		}

		email := strings.ToLower(strings.TrimSpace(e.Request.FormValue("email")))
		if _, err := mail.ParseAddress(email); err != nil {
			SetToast(e, "warning", "Ingresá un email válido")
			component := templates.Layout("Ingresar", GetUserInfo(e.Request),
				templates.LoginPage(templates.LoginData{Email: email}))
			return component.Render(e.Request.Context(), e.Response)
		}

		user, err := app.FindAuthRecordByEmail("users", email)
		if err != nil {
			usersCol, err := app.FindCollectionByNameOrId("users")
			if err != nil {
				log.Printf("auth: users collection missing: %v", err)
				return ErrorToast(e, http.StatusInternalServerError, "No pudimos procesar el ingreso. Probá de nuevo.")
			}
			user = core.NewRecord(usersCol)
			user.SetEmail(email)
			user.SetRandomPassword()
			user.SetVerified(true)
			user.Set("role", "regular")
			if err := app.Save(user); err != nil {
				log.Printf("auth: could not create user %s: %v", email, err)
				return ErrorToast(e, http.StatusInternalServerError, "No pudimos procesar el ingreso. Probá de nuevo.")
			}
		}

		tokensCol, err := app.FindCollectionByNameOrId("login_tokens")
		if err != nil {
			log.Printf("auth: login_tokens collection missing: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "No pudimos procesar el ingreso. Probá de nuevo.")
		}

		token := security.RandomString(loginTokenLength)
		rec := core.NewRecord(tokensCol)
		rec.Set("user", user.Id)
		rec.Set("token", token)
		rec.Set("expires", time.Now().Add(loginTokenTTL))
		if err := app.Save(rec); err != nil {
			log.Printf("auth: could not save login token: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "No pudimos procesar el ingreso. Probá de nuevo.")
		}

		link := strings.TrimRight(app.Settings().Meta.AppURL, "/") + "/auth/verify?token=" + token
		message := &mailer.Message{
			From: mail.Address{
				Name:    app.Settings().Meta.SenderName,
				Address: app.Settings().Meta.SenderAddress,
			},
			To:      []mail.Address{{Address: email}},
			Subject: "Tu enlace de acceso",
			HTML: fmt.Sprintf(
				`<p>Hacé clic para ingresar a Presupuestos:</p><p><a href="%s">%s</a></p><p>El enlace vence en 15 minutos.</p>`,
				link, link),
		}
		if err := app.NewMailClient().Send(message); err != nil {
			log.Printf("auth: could not send magic link to %s: %v", email, err)
			return ErrorToast(e, http.StatusInternalServerError, "No pudimos enviar el enlace. Probá de nuevo.")
		}

		component := templates.Layout("Ingresar", GetUserInfo(e.Request),
			templates.LoginPage(templates.LoginData{Email: email, Sent: true}))
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleMagicLinkVerify exchanges a valid single-use token for an auth cookie.
func HandleMagicLinkVerify(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		token := e.Request.URL.Query().Get("token")
		if token == "" {
			return e.Redirect(http.StatusFound, "/login")
		}

		rec, err := app.FindFirstRecordByFilter("login_tokens", "token = {:token}",
			map[string]any{"token": token})
		if err != nil {
			SetToast(e, "error", "El enlace no es válido o ya fue usado")
			return e.Redirect(http.StatusFound, "/login")
		}

		// single use, drop it before anything else
		if err := app.Delete(rec); err != nil {
			log.Printf("auth: could not delete login token: %v", err)
		}

		if rec.GetDateTime("expires").Time().Before(time.Now()) {
			SetToast(e, "error", "El enlace expiró, pedí uno nuevo")
			return e.Redirect(http.StatusFound, "/login")
		}

		user, err := app.FindRecordById("users", rec.GetString("user"))
		if err != nil {
			log.Printf("auth: token user %s not found: %v", rec.GetString("user"), err)
			return e.Redirect(http.StatusFound, "/login")
		}

		authToken, err := user.NewAuthToken()
		if err != nil {
			log.Printf("auth: could not issue auth token: %v", err)
			return e.Redirect(http.StatusFound, "/login")
		}

		http.SetCookie(e.Response, &http.Cookie{
			Name:     sessionCookie,
			Value:    authToken,
			Path:     "/",
			MaxAge:   60 * 60 * 24 * 14,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		return e.Redirect(http.StatusFound, "/")
	}
}

// HandleLogout clears the auth cookie, pushing any pending issuer save first.
func HandleLogout(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		flushParty(e)
		http.SetCookie(e.Response, &http.Cookie{
			Name:   sessionCookie,
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
		return e.Redirect(http.StatusFound, "/")
	}
}
