package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"presupuestos/services"
	"presupuestos/testhelpers"
)

func TestHandleCatalogAdd_UnauthenticatedStaysLocal(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleCatalogAdd(app)

	form := url.Values{}
	form.Set("name", "Animación infantil")
	form.Set("price", "60000")

	req := withSession(postForm("/catalog", form), "ns-cat-1", nil)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Animación infantil", "catalog-section")

	// nothing reached the remote collection
	col, _ := app.FindCollectionByNameOrId("catalog_services")
	records, _ := app.FindAllRecords(col)
	if len(records) != 0 {
		t.Errorf("expected no remote records for an unauthenticated add, got %d", len(records))
	}
}

func TestHandleCatalogAdd_AuthenticatedSavesRemote(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "owner@example.com", "regular")
	handler := HandleCatalogAdd(app)

	form := url.Values{}
	form.Set("name", "Sonido")
	form.Set("price", "45000")

	identity := &services.Identity{ID: user.Id, Role: services.RoleRegular}
	req := withSession(postForm("/catalog", form), "ns-cat-2", identity)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	records, err := app.FindRecordsByFilter("catalog_services", "user = {:user}", "", 0, 0,
		map[string]any{"user": user.Id})
	if err != nil || len(records) != 1 {
		t.Fatalf("expected 1 remote record for the owner, got %d (err %v)", len(records), err)
	}
	if records[0].GetString("name") != "Sonido" {
		t.Errorf("record name = %q, want %q", records[0].GetString("name"), "Sonido")
	}
}

func TestHandleCatalogDelete_StageThenConfirm(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "owner@example.com", "regular")
	entry := testhelpers.CreateTestCatalogEntry(t, app, user.Id, "Luces", 80000)
	identity := &services.Identity{ID: user.Id, Role: services.RoleRegular}

	// stage: nothing deleted yet, the fragment shows the confirmation
	req := httptest.NewRequest(http.MethodDelete, "/catalog/"+entry.Id, nil)
	req.SetPathValue("id", entry.Id)
	req = withSession(req, "ns-cat-3", identity)
	rec := httptest.NewRecorder()
	if err := HandleCatalogStageDelete(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("stage returned error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "¿Eliminar?")
	if _, err := app.FindRecordById("catalog_services", entry.Id); err != nil {
		t.Fatal("staged delete must not remove the record")
	}

	// confirm: now it is gone
	req2 := withSession(postForm("/catalog/"+entry.Id+"/confirm", url.Values{}), "ns-cat-3", identity)
	req2.SetPathValue("id", entry.Id)
	rec2 := httptest.NewRecorder()
	if err := HandleCatalogConfirmDelete(app)(newTestRequestEvent(app, req2, rec2)); err != nil {
		t.Fatalf("confirm returned error: %v", err)
	}
	if _, err := app.FindRecordById("catalog_services", entry.Id); err == nil {
		t.Error("confirmed delete should remove the record")
	}
}

func TestHandleCatalogMigrate_RequiresIdentity(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	const ns = "ns-cat-4"

	// park one local entry first
	form := url.Values{}
	form.Set("name", "Local")
	form.Set("price", "100")
	req := withSession(postForm("/catalog", form), ns, nil)
	rec := httptest.NewRecorder()
	if err := HandleCatalogAdd(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("add returned error: %v", err)
	}

	req2 := withSession(postForm("/catalog/migrate/confirm", url.Values{}), ns, nil)
	rec2 := httptest.NewRecorder()
	if err := HandleCatalogConfirmMigrate(app)(newTestRequestEvent(app, req2, rec2)); err != nil {
		t.Fatalf("migrate returned error: %v", err)
	}
	if rec2.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422, got %d", rec2.Code)
	}
}

func TestHandleCatalogImport_CSV(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "servicios.csv")
	if err != nil {
		t.Fatalf("could not build multipart body: %v", err)
	}
	part.Write([]byte("Servicio,Precio\nDJ,150000\nLuces,80000\n"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/catalog/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = withSession(req, "ns-cat-6", nil)
	rec := httptest.NewRecorder()

	if err := HandleCatalogImport(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "DJ", "Luces")
}

func TestHandleCatalogMigrate_StageThenConfirm(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	const ns = "ns-cat-5"

	form := url.Values{}
	form.Set("name", "Local guardado")
	form.Set("price", "999")
	req := withSession(postForm("/catalog", form), ns, nil)
	rec := httptest.NewRecorder()
	if err := HandleCatalogAdd(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("add returned error: %v", err)
	}

	user := testhelpers.CreateTestUser(t, app, "migrator@example.com", "regular")
	identity := &services.Identity{ID: user.Id, Role: services.RoleRegular}

	// stage: nothing moved yet, the fragment shows the confirmation
	req2 := withSession(postForm("/catalog/migrate", url.Values{}), ns, nil)
	rec2 := httptest.NewRecorder()
	if err := HandleCatalogStageMigrate(app)(newTestRequestEvent(app, req2, rec2)); err != nil {
		t.Fatalf("stage returned error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec2.Body.String(), "¿Guardar 1 servicios en tu cuenta?")
	records, _ := app.FindRecordsByFilter("catalog_services", "user = {:user}", "", 0, 0,
		map[string]any{"user": user.Id})
	if len(records) != 0 {
		t.Fatalf("staged migrate must not upload, got %d remote records", len(records))
	}

	// confirm: now the local entry lives in the account
	req3 := withSession(postForm("/catalog/migrate/confirm", url.Values{}), ns, identity)
	rec3 := httptest.NewRecorder()
	if err := HandleCatalogConfirmMigrate(app)(newTestRequestEvent(app, req3, rec3)); err != nil {
		t.Fatalf("migrate returned error: %v", err)
	}
	if rec3.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec3.Code)
	}

	records, err := app.FindRecordsByFilter("catalog_services", "user = {:user}", "", 0, 0,
		map[string]any{"user": user.Id})
	if err != nil || len(records) != 1 {
		t.Fatalf("expected 1 migrated record, got %d (err %v)", len(records), err)
	}
}
