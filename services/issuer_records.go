package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// IssuerRecords implements IssuerBackend over the issuer_profiles
// collection, one row per user.
type IssuerRecords struct {
	app *pocketbase.PocketBase
}

func NewIssuerRecords(app *pocketbase.PocketBase) *IssuerRecords {
	return &IssuerRecords{app: app}
}

// find returns (nil, nil) when the user has no profile row yet. Any other
// failure is reported so callers never mistake a broken lookup for a
// missing profile.
func (r *IssuerRecords) find(ownerID string) (*core.Record, error) {
	rec, err := r.app.FindFirstRecordByFilter(
		"issuer_profiles",
		"user = {:user}",
		map[string]any{"user": ownerID},
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find issuer profile for %s: %w", ownerID, err)
	}
	return rec, nil
}

func (r *IssuerRecords) Fetch(ownerID string) (PartyData, bool, error) {
	rec, err := r.find(ownerID)
	if err != nil {
		return PartyData{}, false, err
	}
	if rec == nil {
		return PartyData{}, false, nil
	}
	return PartyData{
		Name:           rec.GetString("name"),
		Company:        rec.GetString("company"),
		Email:          rec.GetString("email"),
		Phone:          rec.GetString("phone"),
		PaymentMethods: rec.GetString("payment_methods"),
	}, true, nil
}

func (r *IssuerRecords) Save(ownerID string, data PartyData) error {
	rec, err := r.find(ownerID)
	if err != nil {
		return err
	}
	if rec == nil {
		col, err := r.app.FindCollectionByNameOrId("issuer_profiles")
		if err != nil {
			return fmt.Errorf("issuer_profiles collection missing: %w", err)
		}
		rec = core.NewRecord(col)
		rec.Set("user", ownerID)
	}
	rec.Set("name", data.Name)
	rec.Set("company", data.Company)
	rec.Set("email", data.Email)
	rec.Set("phone", data.Phone)
	rec.Set("payment_methods", data.PaymentMethods)
	if err := r.app.Save(rec); err != nil {
		return fmt.Errorf("save issuer profile for %s: %w", ownerID, err)
	}
	return nil
}
