// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"presupuestos/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestUser creates an auth user with the given email and role.
func CreateTestUser(t *testing.T, app *pocketbase.PocketBase, email, role string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("users")
	if err != nil {
		t.Fatalf("failed to find users collection: %v", err)
	}

	record := core.NewRecord(col)
	record.SetEmail(email)
	record.SetRandomPassword()
	record.SetVerified(true)
	record.Set("role", role)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test user: %v", err)
	}

	return record
}

// CreateTestCatalogEntry creates a catalog service owned by the given user.
func CreateTestCatalogEntry(t *testing.T, app *pocketbase.PocketBase, userID, name string, price float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("catalog_services")
	if err != nil {
		t.Fatalf("failed to find catalog_services collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("price", price)
	record.Set("discount", 0)
	record.Set("user", userID)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test catalog entry: %v", err)
	}

	return record
}

// CreateTestEvent creates an event record owned by the given user.
func CreateTestEvent(t *testing.T, app *pocketbase.PocketBase, userID, title string, start time.Time, status string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("events")
	if err != nil {
		t.Fatalf("failed to find events collection: %v", err)
	}

	info, _ := json.Marshal(map[string]any{"name": "Cliente", "total": 1000.0})

	// PocketBase date fields store millisecond precision; truncate so the
	// in-memory record compares equal to a refetched copy.
	start = start.Truncate(time.Millisecond)

	record := core.NewRecord(col)
	record.Set("title", title)
	record.Set("start_time", start)
	record.Set("end_time", start.Add(time.Hour))
	record.Set("status", status)
	record.Set("client_info", string(info))
	record.Set("user", userID)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test event: %v", err)
	}

	return record
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHXRedirect checks that the response has an HX-Redirect header with the expected URL.
func AssertHXRedirect(t *testing.T, headerVal, expectedURL string) {
	t.Helper()

	if headerVal != expectedURL {
		t.Errorf("expected HX-Redirect %q, got %q", expectedURL, headerVal)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
