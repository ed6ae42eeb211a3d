package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// CatalogEntry is a reusable named (price, discount) template used to
// prefill a line item form. OwnerID is set on cloud-backed entries only.
type CatalogEntry struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DiscountPercent float64 `json:"discount"`
	OwnerID         string  `json:"owner,omitempty"`
}

// CatalogCandidate carries raw form input for a catalog add or update.
type CatalogCandidate struct {
	Name     string
	Price    string
	Discount string
}

// CatalogBackend is the row storage collaborator for the catalog collection.
type CatalogBackend interface {
	// ListByOwner returns the owner's entries sorted by name ascending.
	ListByOwner(ownerID string) ([]CatalogEntry, error)
	// ListAll returns every owner's entries sorted by name ascending.
	// Callers must gate this behind the admin role.
	ListAll() ([]CatalogEntry, error)
	Insert(entry CatalogEntry) error
	InsertMany(entries []CatalogEntry) error
	Update(entry CatalogEntry) error
	Delete(id string) error
}

// Catalog owns the reusable service catalog. Authenticated identities work
// against the remote backend; without an identity the catalog lives in the
// device-local bridge only.
type Catalog struct {
	backend  CatalogBackend
	local    *Bridge[[]CatalogEntry]
	identity *Identity

	entries        []CatalogEntry
	pendingDelete  string
	pendingMigrate bool
}

func NewCatalog(backend CatalogBackend, kv KV, identity *Identity) *Catalog {
	return &Catalog{
		backend:  backend,
		local:    NewBridge(kv, KeyCatalog, []CatalogEntry(nil)),
		identity: identity,
	}
}

// Load refreshes the in-memory list: local entries when unauthenticated,
// the identity's own rows otherwise, or every owner's rows for admins.
func (c *Catalog) Load() error {
	if c.identity == nil {
		c.entries = c.local.Value()
		return nil
	}
	var (
		entries []CatalogEntry
		err     error
	)
	if c.identity.IsAdmin() {
		entries, err = c.backend.ListAll()
	} else {
		entries, err = c.backend.ListByOwner(c.identity.ID)
	}
	if err != nil {
		return remoteErr("cargar catálogo", err)
	}
	c.entries = entries
	return nil
}

// Entries returns the list from the last Load.
func (c *Catalog) Entries() []CatalogEntry {
	return c.entries
}

func (c *Catalog) validate(cand CatalogCandidate) (CatalogEntry, error) {
	name := strings.TrimSpace(cand.Name)
	if name == "" {
		return CatalogEntry{}, validationErr("nombre", "no puede estar vacío")
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(cand.Price), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return CatalogEntry{}, validationErr("precio", "debe ser un número positivo")
	}
	discount, err := strconv.ParseFloat(strings.TrimSpace(cand.Discount), 64)
	if err != nil || math.IsNaN(discount) || math.IsInf(discount, 0) {
		discount = 0
	}
	return CatalogEntry{Name: name, Price: price, DiscountPercent: discount}, nil
}

// Add validates and stores a new entry, remote or local per auth state.
// The in-memory list is refreshed on success.
func (c *Catalog) Add(cand CatalogCandidate) error {
	entry, err := c.validate(cand)
	if err != nil {
		return err
	}
	if c.identity == nil {
		entry.ID = uuid.NewString()
		c.local.Set(append(c.local.Value(), entry))
		return c.Load()
	}
	entry.OwnerID = c.identity.ID
	if err := c.backend.Insert(entry); err != nil {
		return remoteErr("guardar servicio", err)
	}
	return c.Load()
}

// Update replaces the fields of an existing entry by id.
func (c *Catalog) Update(id string, cand CatalogCandidate) error {
	entry, err := c.validate(cand)
	if err != nil {
		return err
	}
	entry.ID = id
	if c.identity == nil {
		entries := c.local.Value()
		for i := range entries {
			if entries[i].ID == id {
				updated := make([]CatalogEntry, len(entries))
				copy(updated, entries)
				updated[i] = entry
				c.local.Set(updated)
				return c.Load()
			}
		}
		return validationErr("servicio", "no existe")
	}
	entry.OwnerID = c.identity.ID
	if err := c.backend.Update(entry); err != nil {
		return remoteErr("actualizar servicio", err)
	}
	return c.Load()
}

// StageDelete marks an entry for deletion. Nothing is removed until
// ConfirmDelete; CancelDelete clears the marker with no side effect.
func (c *Catalog) StageDelete(id string) {
	c.pendingDelete = id
}

func (c *Catalog) PendingDelete() string {
	return c.pendingDelete
}

func (c *Catalog) CancelDelete() {
	c.pendingDelete = ""
}

// ConfirmDelete commits the staged removal. Confirming with no staged entry
// is a no-op.
func (c *Catalog) ConfirmDelete() error {
	id := c.pendingDelete
	if id == "" {
		return nil
	}
	c.pendingDelete = ""
	if c.identity == nil {
		entries := c.local.Value()
		updated := entries[:0:0]
		for _, e := range entries {
			if e.ID != id {
				updated = append(updated, e)
			}
		}
		c.local.Set(updated)
		return c.Load()
	}
	if err := c.backend.Delete(id); err != nil {
		return remoteErr("eliminar servicio", err)
	}
	return c.Load()
}

// Select copies the entry's name, price and discount into a fresh add form
// candidate. Quantity always resets to 1; the entry itself is never touched.
func (c *Catalog) Select(id string) (LineItemCandidate, bool) {
	for _, e := range c.entries {
		if e.ID == id {
			return LineItemCandidate{
				Name:     e.Name,
				Price:    strconv.FormatFloat(e.Price, 'f', -1, 64),
				Quantity: "1",
				Discount: strconv.FormatFloat(e.DiscountPercent, 'f', -1, 64),
			}, true
		}
	}
	return LineItemCandidate{}, false
}

// StageMigrate marks the device-local catalog for migration. Nothing is
// uploaded until MigrateLocalToRemote; CancelMigrate clears the marker with
// no side effect.
func (c *Catalog) StageMigrate() {
	c.pendingMigrate = true
}

func (c *Catalog) PendingMigrate() bool {
	return c.pendingMigrate
}

func (c *Catalog) CancelMigrate() {
	c.pendingMigrate = false
}

// MigrateLocalToRemote bulk-inserts the device-local catalog under the
// current identity. The local copy is cleared only after the insert is
// confirmed, so a failed migration stays retryable. Returns the number of
// migrated entries; zero with a nil error means there was nothing to move.
func (c *Catalog) MigrateLocalToRemote() (int, error) {
	c.pendingMigrate = false
	localEntries := c.local.Value()
	if len(localEntries) == 0 {
		return 0, nil
	}
	if c.identity == nil {
		return 0, &AuthorizationError{Op: "migrar catálogo"}
	}

	upload := make([]CatalogEntry, len(localEntries))
	for i, e := range localEntries {
		upload[i] = CatalogEntry{
			Name:            e.Name,
			Price:           e.Price,
			DiscountPercent: e.DiscountPercent,
			OwnerID:         c.identity.ID,
		}
	}
	if err := c.backend.InsertMany(upload); err != nil {
		return 0, remoteErr("migrar catálogo", err)
	}

	c.local.Clear()
	if err := c.Load(); err != nil {
		return len(upload), err
	}
	return len(upload), nil
}
