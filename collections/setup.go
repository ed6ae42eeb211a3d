package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the catalog_services,
// issuer_profiles, events, local_state and login_tokens collections exist,
// and adds the role field to the users auth collection.
func Setup(app *pocketbase.PocketBase) {
	users := ensureRoleField(app)

	ensureCollection(app, "catalog_services", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "price", Required: true})
		c.Fields.Add(&core.NumberField{Name: "discount", Required: false})
		c.Fields.Add(&core.RelationField{
			Name:          "user",
			Required:      true,
			CollectionId:  users.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "issuer_profiles", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "user",
			Required:      true,
			CollectionId:  users.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "name", Required: false})
		c.Fields.Add(&core.TextField{Name: "company", Required: false})
		c.Fields.Add(&core.TextField{Name: "email", Required: false})
		c.Fields.Add(&core.TextField{Name: "phone", Required: false})
		c.Fields.Add(&core.TextField{Name: "payment_methods", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		// one profile row per user
		c.AddIndex("idx_issuer_profiles_user", true, "user", "")
	})

	ensureCollection(app, "events", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "title", Required: true})
		c.Fields.Add(&core.DateField{Name: "start_time", Required: true})
		c.Fields.Add(&core.DateField{Name: "end_time", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"presupuestado", "señado", "confirmado", "consultado"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.JSONField{Name: "client_info"})
		c.Fields.Add(&core.RelationField{
			Name:          "user",
			Required:      true,
			CollectionId:  users.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "local_state", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "ns", Required: true})
		c.Fields.Add(&core.TextField{Name: "key", Required: true})
		c.Fields.Add(&core.TextField{Name: "value", Required: false, Max: 100000})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "login_tokens", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "user",
			Required:      true,
			CollectionId:  users.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "token", Required: true})
		c.Fields.Add(&core.DateField{Name: "expires", Required: true})
	})
}

// ensureRoleField adds the role select field to the built-in users auth
// collection when missing, and returns the collection.
func ensureRoleField(app *pocketbase.PocketBase) *core.Collection {
	users, err := app.FindCollectionByNameOrId("users")
	if err != nil {
		log.Fatalf("Failed to find users collection: %v", err)
	}
	if users.Fields.GetByName("role") != nil {
		return users
	}
	users.Fields.Add(&core.SelectField{
		Name:      "role",
		Required:  false,
		Values:    []string{"regular", "admin"},
		MaxSelect: 1,
	})
	if err := app.Save(users); err != nil {
		log.Fatalf("Failed to add role field to users: %v", err)
	}
	log.Println("Added role field to users collection")
	return users
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
