package services

import (
	"time"
)

// Event statuses. Dialog-created events start as a consultation; scheduled
// quotes start as a budget, or as deposit-paid when an advance was entered.
const (
	StatusPresupuestado = "presupuestado"
	StatusSenado        = "señado"
	StatusConfirmado    = "confirmado"
	StatusConsultado    = "consultado"
)

// DefaultEventDuration is the window assigned when only a start is chosen.
const DefaultEventDuration = time.Hour

// EventClientInfo is the point-in-time snapshot embedded in an event when a
// quote is scheduled. Later edits to the source quote do not touch it.
type EventClientInfo struct {
	Name     string     `json:"name"`
	Company  string     `json:"company,omitempty"`
	Phone    string     `json:"phone,omitempty"`
	Services []LineItem `json:"services,omitempty"`
	Total    float64    `json:"total"`
	Advance  float64    `json:"advance"`
}

// CalendarEvent is one calendar booking.
type CalendarEvent struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Start      time.Time       `json:"start"`
	End        time.Time       `json:"end"`
	ClientInfo EventClientInfo `json:"client_info"`
	OwnerID    string          `json:"owner,omitempty"`
	Status     string          `json:"status"`
}

// EventStore is the row storage collaborator for the events collection.
type EventStore interface {
	List(ownerID string) ([]CalendarEvent, error)
	Insert(ev CalendarEvent) (string, error)
	Update(ev CalendarEvent) error
	Delete(id string) error
}

// Agenda manages the calendar bookings for one identity. Its event list is a
// cache of remote state: the only pre-confirmation mutation is the
// drag/resize path, which rolls back by refetching on failure.
type Agenda struct {
	store    EventStore
	identity *Identity
	events   []CalendarEvent
}

func NewAgenda(store EventStore, identity *Identity) *Agenda {
	return &Agenda{store: store, identity: identity}
}

// CanMutate reports whether the identity may create, edit, move or delete
// events. Everyone authenticated may view.
func (a *Agenda) CanMutate() bool {
	return a.identity.IsAdmin()
}

// Load refetches the identity's events from remote state.
func (a *Agenda) Load() error {
	if a.identity == nil {
		a.events = nil
		return nil
	}
	events, err := a.store.List(a.identity.ID)
	if err != nil {
		return remoteErr("cargar eventos", err)
	}
	a.events = events
	return nil
}

// Events returns a copy of the cached list.
func (a *Agenda) Events() []CalendarEvent {
	out := make([]CalendarEvent, len(a.events))
	copy(out, a.events)
	return out
}

// Schedule converts the current quote into a booking. Creation is
// write-then-confirm: nothing is added locally until the insert succeeds.
func (a *Agenda) Schedule(title string, start time.Time, items []LineItem, client PartyData, totals QuoteTotals) (CalendarEvent, error) {
	if len(items) == 0 {
		return CalendarEvent{}, validationErr("servicios", "el presupuesto no tiene servicios")
	}
	if client.Name == "" {
		return CalendarEvent{}, validationErr("cliente", "falta el nombre del cliente")
	}
	if a.identity == nil {
		return CalendarEvent{}, &AuthorizationError{Op: "agendar evento"}
	}

	status := StatusPresupuestado
	if totals.AdvancePayment > 0 {
		status = StatusSenado
	}
	if title == "" {
		title = "Presupuesto - " + client.Name
	}

	snapshot := make([]LineItem, len(items))
	copy(snapshot, items)

	ev := CalendarEvent{
		Title: title,
		Start: start,
		End:   start.Add(DefaultEventDuration),
		ClientInfo: EventClientInfo{
			Name:     client.Name,
			Company:  client.Company,
			Phone:    client.Phone,
			Services: snapshot,
			Total:    totals.Total,
			Advance:  totals.AdvancePayment,
		},
		OwnerID: a.identity.ID,
		Status:  status,
	}

	id, err := a.store.Insert(ev)
	if err != nil {
		return CalendarEvent{}, remoteErr("agendar evento", err)
	}
	ev.ID = id
	a.events = append(a.events, ev)
	return ev, nil
}

// MoveOrResize applies new times optimistically, then issues the remote
// update. On remote failure the optimistic change is discarded by refetching
// the whole list; there is no stored undo.
func (a *Agenda) MoveOrResize(id string, newStart, newEnd time.Time) error {
	if !a.CanMutate() {
		return &AuthorizationError{Op: "mover evento"}
	}
	if !newEnd.After(newStart) {
		return validationErr("horario", "el fin debe ser posterior al inicio")
	}

	idx := a.indexOf(id)
	if idx < 0 {
		return validationErr("evento", "no existe")
	}

	prev := a.events[idx]
	a.events[idx].Start = newStart
	a.events[idx].End = newEnd

	if err := a.store.Update(a.events[idx]); err != nil {
		if reloadErr := a.Load(); reloadErr != nil {
			// Refetch failed too; put the confirmed copy back directly.
			a.events[idx] = prev
		}
		return remoteErr("mover evento", err)
	}
	return nil
}

// Create adds a bare event through the edit dialog (no quote snapshot).
func (a *Agenda) Create(title string, start, end time.Time, clientName string) (CalendarEvent, error) {
	if !a.CanMutate() {
		return CalendarEvent{}, &AuthorizationError{Op: "crear evento"}
	}
	if title == "" {
		return CalendarEvent{}, validationErr("título", "no puede estar vacío")
	}
	if !end.After(start) {
		return CalendarEvent{}, validationErr("horario", "el fin debe ser posterior al inicio")
	}

	ev := CalendarEvent{
		Title:      title,
		Start:      start,
		End:        end,
		ClientInfo: EventClientInfo{Name: clientName},
		OwnerID:    a.identity.ID,
		Status:     StatusConsultado,
	}
	id, err := a.store.Insert(ev)
	if err != nil {
		return CalendarEvent{}, remoteErr("crear evento", err)
	}
	ev.ID = id
	a.events = append(a.events, ev)
	return ev, nil
}

// Update merges a new title, time window and client name into the existing
// event. The embedded services snapshot and totals survive the edit.
func (a *Agenda) Update(id, title string, start, end time.Time, clientName string) error {
	if !a.CanMutate() {
		return &AuthorizationError{Op: "editar evento"}
	}
	if title == "" {
		return validationErr("título", "no puede estar vacío")
	}
	if !end.After(start) {
		return validationErr("horario", "el fin debe ser posterior al inicio")
	}

	idx := a.indexOf(id)
	if idx < 0 {
		return validationErr("evento", "no existe")
	}

	merged := a.events[idx]
	merged.Title = title
	merged.Start = start
	merged.End = end
	merged.ClientInfo.Name = clientName

	if err := a.store.Update(merged); err != nil {
		return remoteErr("editar evento", err)
	}
	a.events[idx] = merged
	return nil
}

// Delete removes an event. Confirmation happens at the caller.
func (a *Agenda) Delete(id string) error {
	if !a.CanMutate() {
		return &AuthorizationError{Op: "eliminar evento"}
	}
	idx := a.indexOf(id)
	if idx < 0 {
		return nil
	}
	if err := a.store.Delete(id); err != nil {
		return remoteErr("eliminar evento", err)
	}
	a.events = append(a.events[:idx], a.events[idx+1:]...)
	return nil
}

func (a *Agenda) indexOf(id string) int {
	for i := range a.events {
		if a.events[i].ID == id {
			return i
		}
	}
	return -1
}
