package services

import (
	"errors"
	"strconv"
	"testing"
	"time"
)

// fakeEventStore holds the "server" copy of the events so tests can compare
// the agenda's working copy against confirmed remote state.
type fakeEventStore struct {
	rows       []CalendarEvent
	nextID     int
	failInsert error
	failUpdate error
	failDelete error
}

func (f *fakeEventStore) List(ownerID string) ([]CalendarEvent, error) {
	var out []CalendarEvent
	for _, r := range f.rows {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeEventStore) Insert(ev CalendarEvent) (string, error) {
	if f.failInsert != nil {
		return "", f.failInsert
	}
	f.nextID++
	ev.ID = "ev" + strconv.Itoa(f.nextID)
	f.rows = append(f.rows, ev)
	return ev.ID, nil
}

func (f *fakeEventStore) Update(ev CalendarEvent) error {
	if f.failUpdate != nil {
		return f.failUpdate
	}
	for i := range f.rows {
		if f.rows[i].ID == ev.ID {
			f.rows[i] = ev
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeEventStore) Delete(id string) error {
	if f.failDelete != nil {
		return f.failDelete
	}
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

var (
	adminID   = &Identity{ID: "u1", Role: RoleAdmin}
	regularID = &Identity{ID: "u1", Role: RoleRegular}
)

func sampleItems() []LineItem {
	return []LineItem{
		{ID: "a", Name: "DJ", UnitPrice: 100, Quantity: 2, DiscountPercent: 10},
		{ID: "b", Name: "Luces", UnitPrice: 50, Quantity: 1},
	}
}

func TestScheduleValidation(t *testing.T) {
	start := time.Date(2026, 9, 12, 20, 0, 0, 0, time.UTC)
	client := PartyData{Name: "Sofía"}
	totals := ComputeTotals(sampleItems(), 0, 0)

	tests := []struct {
		name     string
		identity *Identity
		items    []LineItem
		client   PartyData
	}{
		{"no line items", adminID, nil, client},
		{"no client name", adminID, sampleItems(), PartyData{}},
		{"unauthenticated", nil, sampleItems(), client},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeEventStore{}
			a := NewAgenda(store, tt.identity)
			if _, err := a.Schedule("", start, tt.items, tt.client, totals); err == nil {
				t.Fatal("expected error")
			}
			if len(store.rows) != 0 {
				t.Error("failed schedule wrote to the store")
			}
		})
	}
}

func TestScheduleStatusFromAdvance(t *testing.T) {
	start := time.Date(2026, 9, 12, 20, 0, 0, 0, time.UTC)
	items := sampleItems()
	client := PartyData{Name: "Sofía", Company: "Eventos SA", Phone: "11-5555-0000"}

	t.Run("no advance is a budget", func(t *testing.T) {
		a := NewAgenda(&fakeEventStore{}, adminID)
		ev, err := a.Schedule("", start, items, client, ComputeTotals(items, 21, 0))
		if err != nil {
			t.Fatalf("schedule: %v", err)
		}
		if ev.Status != StatusPresupuestado {
			t.Errorf("status = %q, want %q", ev.Status, StatusPresupuestado)
		}
		if !ev.End.Equal(start.Add(DefaultEventDuration)) {
			t.Errorf("default window end = %v", ev.End)
		}
		if ev.ClientInfo.Phone != client.Phone {
			t.Errorf("snapshot phone = %q, want %q", ev.ClientInfo.Phone, client.Phone)
		}
	})

	t.Run("advance marks deposit paid", func(t *testing.T) {
		a := NewAgenda(&fakeEventStore{}, adminID)
		ev, err := a.Schedule("Cumple de Sofía", start, items, client, ComputeTotals(items, 21, 50))
		if err != nil {
			t.Fatalf("schedule: %v", err)
		}
		if ev.Status != StatusSenado {
			t.Errorf("status = %q, want %q", ev.Status, StatusSenado)
		}
		if ev.Title != "Cumple de Sofía" {
			t.Errorf("title = %q", ev.Title)
		}
	})
}

func TestScheduleSnapshotIsFrozen(t *testing.T) {
	start := time.Date(2026, 9, 12, 20, 0, 0, 0, time.UTC)
	items := sampleItems()
	a := NewAgenda(&fakeEventStore{}, adminID)

	ev, err := a.Schedule("", start, items, PartyData{Name: "Sofía"}, ComputeTotals(items, 0, 0))
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	// Editing the source quote afterwards must not touch the snapshot.
	items[0].UnitPrice = 9999
	if got := ev.ClientInfo.Services[0].UnitPrice; got != 100 {
		t.Errorf("snapshot price = %v, want frozen 100", got)
	}
	if !almostEqual(ev.ClientInfo.Total, 230) {
		t.Errorf("snapshot total = %v, want 230", ev.ClientInfo.Total)
	}
}

func TestScheduleRemoteFailureNoLocalInsert(t *testing.T) {
	start := time.Date(2026, 9, 12, 20, 0, 0, 0, time.UTC)
	items := sampleItems()
	store := &fakeEventStore{failInsert: errors.New("server rejected")}
	a := NewAgenda(store, adminID)

	if _, err := a.Schedule("", start, items, PartyData{Name: "Sofía"}, ComputeTotals(items, 0, 0)); err == nil {
		t.Fatal("expected remote failure")
	}
	// Creation is write-then-confirm: no optimistic insert to clean up.
	if len(a.Events()) != 0 {
		t.Errorf("failed schedule left %d local events", len(a.Events()))
	}
}

func scheduledAgenda(t *testing.T, store *fakeEventStore, identity *Identity) (*Agenda, CalendarEvent) {
	t.Helper()
	seed := NewAgenda(store, adminID)
	items := sampleItems()
	ev, err := seed.Schedule("Cumple", time.Date(2026, 9, 12, 20, 0, 0, 0, time.UTC),
		items, PartyData{Name: "Sofía"}, ComputeTotals(items, 0, 50))
	if err != nil {
		t.Fatalf("seed schedule: %v", err)
	}

	a := NewAgenda(store, identity)
	if err := a.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	return a, ev
}

func TestMoveOrResizeSuccess(t *testing.T) {
	store := &fakeEventStore{}
	a, ev := scheduledAgenda(t, store, adminID)

	newStart := ev.Start.Add(2 * time.Hour)
	newEnd := ev.End.Add(3 * time.Hour)
	if err := a.MoveOrResize(ev.ID, newStart, newEnd); err != nil {
		t.Fatalf("move: %v", err)
	}

	got := a.Events()[0]
	if !got.Start.Equal(newStart) || !got.End.Equal(newEnd) {
		t.Errorf("local copy = %v-%v, want moved times", got.Start, got.End)
	}
	if !store.rows[0].Start.Equal(newStart) {
		t.Errorf("remote not updated: %v", store.rows[0].Start)
	}
}

func TestMoveOrResizeRollbackOnFailure(t *testing.T) {
	store := &fakeEventStore{}
	a, ev := scheduledAgenda(t, store, adminID)

	store.failUpdate = errors.New("network down")
	newStart := ev.Start.Add(2 * time.Hour)
	if err := a.MoveOrResize(ev.ID, newStart, newStart.Add(time.Hour)); err == nil {
		t.Fatal("expected remote failure")
	}

	// After the failure the working copy equals confirmed server state,
	// not the optimistic value.
	got := a.Events()[0]
	if !got.Start.Equal(ev.Start) || !got.End.Equal(ev.End) {
		t.Errorf("rollback failed: local %v-%v, server %v-%v", got.Start, got.End, ev.Start, ev.End)
	}
}

func TestMoveOrResizeInvalidWindow(t *testing.T) {
	store := &fakeEventStore{}
	a, ev := scheduledAgenda(t, store, adminID)

	if err := a.MoveOrResize(ev.ID, ev.Start, ev.Start); err == nil {
		t.Fatal("expected validation error for end <= start")
	}
	if !a.Events()[0].End.Equal(ev.End) {
		t.Error("invalid move mutated local state")
	}
}

func TestRoleGating(t *testing.T) {
	store := &fakeEventStore{}
	a, ev := scheduledAgenda(t, store, regularID)

	if a.CanMutate() {
		t.Error("regular identity must not be able to mutate")
	}

	var authErr *AuthorizationError
	if err := a.MoveOrResize(ev.ID, ev.Start.Add(time.Hour), ev.End.Add(time.Hour)); !errors.As(err, &authErr) {
		t.Errorf("MoveOrResize: expected AuthorizationError, got %v", err)
	}
	if err := a.Update(ev.ID, "Nuevo", ev.Start, ev.End, "Otro"); !errors.As(err, &authErr) {
		t.Errorf("Update: expected AuthorizationError, got %v", err)
	}
	if err := a.Delete(ev.ID); !errors.As(err, &authErr) {
		t.Errorf("Delete: expected AuthorizationError, got %v", err)
	}
	if _, err := a.Create("X", ev.Start, ev.End, ""); !errors.As(err, &authErr) {
		t.Errorf("Create: expected AuthorizationError, got %v", err)
	}

	// No state change anywhere.
	if !store.rows[0].Start.Equal(ev.Start) || store.rows[0].Title != ev.Title || len(store.rows) != 1 {
		t.Error("gated call mutated remote state")
	}
	if got := a.Events()[0]; !got.Start.Equal(ev.Start) {
		t.Error("gated call mutated local state")
	}
}

func TestUpdateMergesClientInfo(t *testing.T) {
	store := &fakeEventStore{}
	a, ev := scheduledAgenda(t, store, adminID)

	newStart := ev.Start.Add(24 * time.Hour)
	newEnd := newStart.Add(2 * time.Hour)
	if err := a.Update(ev.ID, "Cumple (reprogramado)", newStart, newEnd, "Sofía G."); err != nil {
		t.Fatalf("update: %v", err)
	}

	got := store.rows[0]
	if got.Title != "Cumple (reprogramado)" || got.ClientInfo.Name != "Sofía G." {
		t.Errorf("merge missed edited fields: %+v", got)
	}
	// Unrelated embedded fields survive the edit.
	if len(got.ClientInfo.Services) != 2 {
		t.Errorf("services snapshot lost: %d items", len(got.ClientInfo.Services))
	}
	if !almostEqual(got.ClientInfo.Advance, 50) {
		t.Errorf("advance snapshot lost: %v", got.ClientInfo.Advance)
	}
}

func TestDeleteEvent(t *testing.T) {
	store := &fakeEventStore{}
	a, ev := scheduledAgenda(t, store, adminID)

	if err := a.Delete(ev.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.rows) != 0 || len(a.Events()) != 0 {
		t.Error("delete did not remove the event")
	}

	// Deleting an absent id is a no-op.
	if err := a.Delete(ev.ID); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestCreateBareEvent(t *testing.T) {
	store := &fakeEventStore{}
	a := NewAgenda(store, adminID)

	start := time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC)
	ev, err := a.Create("Consulta", start, start.Add(time.Hour), "Carlos")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ev.Status != StatusConsultado {
		t.Errorf("status = %q, want %q", ev.Status, StatusConsultado)
	}

	if _, err := a.Create("", start, start.Add(time.Hour), ""); err == nil {
		t.Error("expected validation error for empty title")
	}
	if _, err := a.Create("X", start, start, ""); err == nil {
		t.Error("expected validation error for empty window")
	}
}
