package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// EventRecords implements EventStore over the events collection.
type EventRecords struct {
	app *pocketbase.PocketBase
}

func NewEventRecords(app *pocketbase.PocketBase) *EventRecords {
	return &EventRecords{app: app}
}

func recordToEvent(rec *core.Record) CalendarEvent {
	ev := CalendarEvent{
		ID:      rec.Id,
		Title:   rec.GetString("title"),
		Start:   rec.GetDateTime("start_time").Time(),
		End:     rec.GetDateTime("end_time").Time(),
		OwnerID: rec.GetString("user"),
		Status:  rec.GetString("status"),
	}
	if err := rec.UnmarshalJSONField("client_info", &ev.ClientInfo); err != nil {
		log.Printf("events: %s: client_info does not parse: %v", rec.Id, err)
	}
	return ev
}

func setEventFields(rec *core.Record, ev CalendarEvent) error {
	info, err := json.Marshal(ev.ClientInfo)
	if err != nil {
		return fmt.Errorf("serialize client_info: %w", err)
	}
	rec.Set("title", ev.Title)
	rec.Set("start_time", ev.Start)
	rec.Set("end_time", ev.End)
	rec.Set("status", ev.Status)
	rec.Set("client_info", string(info))
	rec.Set("user", ev.OwnerID)
	return nil
}

func (e *EventRecords) List(ownerID string) ([]CalendarEvent, error) {
	records, err := e.app.FindRecordsByFilter(
		"events",
		"user = {:user}",
		"start_time",
		0,
		0,
		map[string]any{"user": ownerID},
	)
	if err != nil {
		return nil, fmt.Errorf("list events for owner: %w", err)
	}
	events := make([]CalendarEvent, 0, len(records))
	for _, rec := range records {
		events = append(events, recordToEvent(rec))
	}
	return events, nil
}

func (e *EventRecords) Insert(ev CalendarEvent) (string, error) {
	col, err := e.app.FindCollectionByNameOrId("events")
	if err != nil {
		return "", fmt.Errorf("events collection missing: %w", err)
	}
	rec := core.NewRecord(col)
	if err := setEventFields(rec, ev); err != nil {
		return "", err
	}
	if err := e.app.Save(rec); err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}
	return rec.Id, nil
}

func (e *EventRecords) Update(ev CalendarEvent) error {
	rec, err := e.app.FindRecordById("events", ev.ID)
	if err != nil {
		return fmt.Errorf("event %s not found: %w", ev.ID, err)
	}
	if err := setEventFields(rec, ev); err != nil {
		return err
	}
	if err := e.app.Save(rec); err != nil {
		return fmt.Errorf("update event %s: %w", ev.ID, err)
	}
	return nil
}

func (e *EventRecords) Delete(id string) error {
	rec, err := e.app.FindRecordById("events", id)
	if err != nil {
		return fmt.Errorf("event %s not found: %w", id, err)
	}
	if err := e.app.Delete(rec); err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	return nil
}
