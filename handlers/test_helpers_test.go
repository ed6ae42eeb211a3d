package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"presupuestos/services"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// withSession injects the values SessionMiddleware would normally resolve:
// the device namespace and, when identity is non-nil, the logged-in user.
func withSession(req *http.Request, ns string, identity *services.Identity) *http.Request {
	ctx := context.WithValue(req.Context(), NamespaceKey, ns)
	if identity != nil {
		ctx = context.WithValue(ctx, IdentityKey, identity)
	}
	return req.WithContext(ctx)
}
