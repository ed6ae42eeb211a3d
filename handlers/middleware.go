package handlers

import (
	"context"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/security"

	"presupuestos/services"
	"presupuestos/templates"
)

type contextKey string

const IdentityKey contextKey = "identity"
const NamespaceKey contextKey = "namespace"
const UserEmailKey contextKey = "userEmail"

const sessionCookie = "pb_auth"
const namespaceCookie = "device_ns"

// GetIdentity extracts the resolved identity from the request context.
// Nil means the request is unauthenticated.
func GetIdentity(r *http.Request) *services.Identity {
	if val, ok := r.Context().Value(IdentityKey).(*services.Identity); ok {
		return val
	}
	return nil
}

// GetNamespace returns the per-device namespace used for local quote state.
func GetNamespace(r *http.Request) string {
	if val, ok := r.Context().Value(NamespaceKey).(string); ok {
		return val
	}
	return ""
}

// GetUserInfo builds the navbar user info from the request context.
func GetUserInfo(r *http.Request) templates.UserInfo {
	id := GetIdentity(r)
	if id == nil {
		return templates.UserInfo{}
	}
	email, _ := r.Context().Value(UserEmailKey).(string)
	return templates.UserInfo{Email: email, Role: id.Role, LoggedIn: true}
}

// SessionMiddleware resolves the auth cookie into an Identity and makes sure
// every browser carries a namespace cookie for its device-local quote state.
// An invalid or expired token is treated as logged out, not as an error.
func SessionMiddleware(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		ctx := e.Request.Context()

		if cookie, err := e.Request.Cookie(sessionCookie); err == nil && cookie.Value != "" {
			rec, err := app.FindAuthRecordByToken(cookie.Value, core.TokenTypeAuth)
			if err == nil {
				identity := &services.Identity{
					ID:   rec.Id,
					Role: rec.GetString("role"),
				}
				ctx = context.WithValue(ctx, IdentityKey, identity)
				ctx = context.WithValue(ctx, UserEmailKey, rec.Email())
			} else {
				http.SetCookie(e.Response, &http.Cookie{
					Name:   sessionCookie,
					Value:  "",
					Path:   "/",
					MaxAge: -1,
				})
			}
		}

		ns := ""
		if cookie, err := e.Request.Cookie(namespaceCookie); err == nil {
			ns = cookie.Value
		}
		if ns == "" {
			ns = security.RandomString(20)
			http.SetCookie(e.Response, &http.Cookie{
				Name:     namespaceCookie,
				Value:    ns,
				Path:     "/",
				MaxAge:   60 * 60 * 24 * 365,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx = context.WithValue(ctx, NamespaceKey, ns)

		e.Request = e.Request.WithContext(ctx)
		return e.Next()
	}
}
