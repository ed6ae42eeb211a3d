package collections

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Seed populates demo data on a fresh database: one admin user, a small
// service catalog and a sample booking. It is a no-op once any user exists.
func Seed(app *pocketbase.PocketBase) error {
	if n, err := app.CountRecords("users"); err != nil || n > 0 {
		return err
	}

	users, err := app.FindCollectionByNameOrId("users")
	if err != nil {
		return fmt.Errorf("find users collection: %w", err)
	}
	admin := core.NewRecord(users)
	admin.SetEmail("admin@presupuestos.local")
	admin.SetRandomPassword()
	admin.SetVerified(true)
	admin.Set("role", "admin")
	if err := app.Save(admin); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	catalog, err := app.FindCollectionByNameOrId("catalog_services")
	if err != nil {
		return fmt.Errorf("find catalog_services collection: %w", err)
	}
	demoServices := []struct {
		name     string
		price    float64
		discount float64
	}{
		{"DJ toda la noche", 150000, 0},
		{"Luces y sonido", 80000, 10},
		{"Animación infantil", 60000, 0},
	}
	for _, s := range demoServices {
		rec := core.NewRecord(catalog)
		rec.Set("name", s.name)
		rec.Set("price", s.price)
		rec.Set("discount", s.discount)
		rec.Set("user", admin.Id)
		if err := app.Save(rec); err != nil {
			return fmt.Errorf("seed catalog entry %q: %w", s.name, err)
		}
	}

	events, err := app.FindCollectionByNameOrId("events")
	if err != nil {
		return fmt.Errorf("find events collection: %w", err)
	}
	start := time.Now().AddDate(0, 0, 7).Truncate(time.Hour)
	info, _ := json.Marshal(map[string]any{
		"name":    "Cliente de ejemplo",
		"total":   150000,
		"advance": 50000,
	})
	ev := core.NewRecord(events)
	ev.Set("title", "Evento de ejemplo")
	ev.Set("start_time", start)
	ev.Set("end_time", start.Add(2*time.Hour))
	ev.Set("status", "señado")
	ev.Set("client_info", string(info))
	ev.Set("user", admin.Id)
	if err := app.Save(ev); err != nil {
		return fmt.Errorf("seed demo event: %w", err)
	}

	return nil
}
