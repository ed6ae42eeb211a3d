package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// LineItem is one row of the quote being built.
type LineItem struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	UnitPrice       float64 `json:"price"`
	Quantity        int     `json:"quantity"`
	DiscountPercent float64 `json:"discount"`
}

// Subtotal is the line amount after discount: price * qty * (1 - disc/100).
func (li LineItem) Subtotal() float64 {
	base := li.UnitPrice * float64(li.Quantity)
	return base - base*(li.DiscountPercent/100)
}

// LineItemCandidate carries raw form input for an add or edit.
type LineItemCandidate struct {
	Name     string
	Price    string
	Quantity string
	Discount string
}

// Ledger owns the quote's line item collection. It loads from and mirrors to
// a Bridge so the quote in progress survives reloads.
type Ledger struct {
	bridge *Bridge[[]LineItem]
}

func NewLedger(kv KV) *Ledger {
	return &Ledger{bridge: NewBridge(kv, KeyLineItems, []LineItem(nil))}
}

// Items returns a copy of the current collection.
func (l *Ledger) Items() []LineItem {
	items := l.bridge.Value()
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

func (l *Ledger) Len() int {
	return len(l.bridge.Value())
}

// validate parses and checks a candidate. Discount is lenient: absent or
// unparseable input becomes 0 and the [0,100] range is not enforced here.
func (l *Ledger) validate(c LineItemCandidate) (LineItem, error) {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return LineItem{}, validationErr("nombre", "no puede estar vacío")
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(c.Price), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return LineItem{}, validationErr("precio", "debe ser un número positivo")
	}

	qty, err := strconv.Atoi(strings.TrimSpace(c.Quantity))
	if err != nil || qty <= 0 {
		return LineItem{}, validationErr("cantidad", "debe ser un entero positivo")
	}

	discount, err := strconv.ParseFloat(strings.TrimSpace(c.Discount), 64)
	if err != nil || math.IsNaN(discount) || math.IsInf(discount, 0) {
		discount = 0
	}

	return LineItem{
		Name:            name,
		UnitPrice:       price,
		Quantity:        qty,
		DiscountPercent: discount,
	}, nil
}

// Add validates the candidate and appends a new item with a fresh id.
// On validation failure the collection is untouched.
func (l *Ledger) Add(c LineItemCandidate) (LineItem, error) {
	item, err := l.validate(c)
	if err != nil {
		return LineItem{}, err
	}
	item.ID = uuid.NewString()
	l.bridge.Set(append(l.bridge.Value(), item))
	return item, nil
}

// Edit replaces the mutable fields of the item with the given id, preserving
// the id. Editing an unknown id is a validation failure.
func (l *Ledger) Edit(id string, c LineItemCandidate) (LineItem, error) {
	item, err := l.validate(c)
	if err != nil {
		return LineItem{}, err
	}
	items := l.bridge.Value()
	for i := range items {
		if items[i].ID == id {
			item.ID = id
			updated := make([]LineItem, len(items))
			copy(updated, items)
			updated[i] = item
			l.bridge.Set(updated)
			return item, nil
		}
	}
	return LineItem{}, validationErr("servicio", "no existe")
}

// Remove deletes the item with the given id. Removing an absent id is a
// no-op, not an error.
func (l *Ledger) Remove(id string) {
	items := l.bridge.Value()
	updated := items[:0:0]
	for _, it := range items {
		if it.ID != id {
			updated = append(updated, it)
		}
	}
	if len(updated) != len(items) {
		l.bridge.Set(updated)
	}
}

// Clear drops every line item.
func (l *Ledger) Clear() {
	l.bridge.Clear()
}

// Subtotal recomputes the sum of line subtotals. Never cached; rounding is a
// formatting concern.
func (l *Ledger) Subtotal() float64 {
	var sum float64
	for _, it := range l.bridge.Value() {
		sum += it.Subtotal()
	}
	return sum
}
