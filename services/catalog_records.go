package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// CatalogRecords implements CatalogBackend over the catalog_services
// collection.
type CatalogRecords struct {
	app *pocketbase.PocketBase
}

func NewCatalogRecords(app *pocketbase.PocketBase) *CatalogRecords {
	return &CatalogRecords{app: app}
}

func recordToEntry(rec *core.Record) CatalogEntry {
	return CatalogEntry{
		ID:              rec.Id,
		Name:            rec.GetString("name"),
		Price:           rec.GetFloat("price"),
		DiscountPercent: rec.GetFloat("discount"),
		OwnerID:         rec.GetString("user"),
	}
}

func (c *CatalogRecords) ListByOwner(ownerID string) ([]CatalogEntry, error) {
	records, err := c.app.FindRecordsByFilter(
		"catalog_services",
		"user = {:user}",
		"name",
		0,
		0,
		map[string]any{"user": ownerID},
	)
	if err != nil {
		return nil, fmt.Errorf("list catalog_services for owner: %w", err)
	}
	entries := make([]CatalogEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, recordToEntry(rec))
	}
	return entries, nil
}

func (c *CatalogRecords) ListAll() ([]CatalogEntry, error) {
	records, err := c.app.FindRecordsByFilter("catalog_services", "id != ''", "name", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list catalog_services: %w", err)
	}
	entries := make([]CatalogEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, recordToEntry(rec))
	}
	return entries, nil
}

func (c *CatalogRecords) Insert(entry CatalogEntry) error {
	col, err := c.app.FindCollectionByNameOrId("catalog_services")
	if err != nil {
		return fmt.Errorf("catalog_services collection missing: %w", err)
	}
	rec := core.NewRecord(col)
	setEntryFields(rec, entry)
	return c.app.Save(rec)
}

// InsertMany saves every entry inside one transaction so a migration is
// all-or-nothing.
func (c *CatalogRecords) InsertMany(entries []CatalogEntry) error {
	return c.app.RunInTransaction(func(txApp core.App) error {
		col, err := txApp.FindCollectionByNameOrId("catalog_services")
		if err != nil {
			return fmt.Errorf("catalog_services collection missing: %w", err)
		}
		for _, entry := range entries {
			rec := core.NewRecord(col)
			setEntryFields(rec, entry)
			if err := txApp.Save(rec); err != nil {
				return fmt.Errorf("insert %q: %w", entry.Name, err)
			}
		}
		return nil
	})
}

func (c *CatalogRecords) Update(entry CatalogEntry) error {
	rec, err := c.app.FindRecordById("catalog_services", entry.ID)
	if err != nil {
		return fmt.Errorf("catalog entry %s not found: %w", entry.ID, err)
	}
	setEntryFields(rec, entry)
	return c.app.Save(rec)
}

func (c *CatalogRecords) Delete(id string) error {
	rec, err := c.app.FindRecordById("catalog_services", id)
	if err != nil {
		return fmt.Errorf("catalog entry %s not found: %w", id, err)
	}
	return c.app.Delete(rec)
}

func setEntryFields(rec *core.Record, entry CatalogEntry) {
	rec.Set("name", entry.Name)
	rec.Set("price", entry.Price)
	rec.Set("discount", entry.DiscountPercent)
	rec.Set("user", entry.OwnerID)
}
