package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// RecordKV persists key-value pairs in the local_state collection, namespaced
// by a per-device token so unauthenticated visitors keep their own state.
type RecordKV struct {
	app *pocketbase.PocketBase
	ns  string
}

func NewRecordKV(app *pocketbase.PocketBase, ns string) *RecordKV {
	return &RecordKV{app: app, ns: ns}
}

func (r *RecordKV) find(key string) (*core.Record, error) {
	return r.app.FindFirstRecordByFilter(
		"local_state",
		"ns = {:ns} && key = {:key}",
		map[string]any{"ns": r.ns, "key": key},
	)
}

func (r *RecordKV) Get(key string) ([]byte, bool) {
	rec, err := r.find(key)
	if err != nil || rec == nil {
		return nil, false
	}
	return []byte(rec.GetString("value")), true
}

func (r *RecordKV) Set(key string, value []byte) error {
	rec, err := r.find(key)
	if err != nil || rec == nil {
		col, err := r.app.FindCollectionByNameOrId("local_state")
		if err != nil {
			return fmt.Errorf("local_state collection missing: %w", err)
		}
		rec = core.NewRecord(col)
		rec.Set("ns", r.ns)
		rec.Set("key", key)
	}
	rec.Set("value", string(value))
	if err := r.app.Save(rec); err != nil {
		return fmt.Errorf("save local_state %s/%s: %w", r.ns, key, err)
	}
	return nil
}

func (r *RecordKV) Delete(key string) error {
	rec, err := r.find(key)
	if err != nil || rec == nil {
		return nil
	}
	if err := r.app.Delete(rec); err != nil {
		return fmt.Errorf("delete local_state %s/%s: %w", r.ns, key, err)
	}
	return nil
}
