package services

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLedgerAddAndSubtotal(t *testing.T) {
	l := NewLedger(NewMemoryKV())

	if _, err := l.Add(LineItemCandidate{Name: "DJ", Price: "100", Quantity: "2", Discount: "10"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := l.Add(LineItemCandidate{Name: "Luces", Price: "50", Quantity: "1"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if got := l.Len(); got != 2 {
		t.Fatalf("expected 2 items, got %d", got)
	}
	// 100*2*0.9 + 50*1 = 230
	if got := l.Subtotal(); !almostEqual(got, 230) {
		t.Errorf("Subtotal() = %v, want 230", got)
	}
}

func TestLedgerAddValidation(t *testing.T) {
	tests := []struct {
		name      string
		candidate LineItemCandidate
	}{
		{"empty name", LineItemCandidate{Name: "", Price: "10", Quantity: "1"}},
		{"blank name", LineItemCandidate{Name: "   ", Price: "10", Quantity: "1"}},
		{"negative price", LineItemCandidate{Name: "X", Price: "-5", Quantity: "1"}},
		{"zero price", LineItemCandidate{Name: "X", Price: "0", Quantity: "1"}},
		{"non-numeric price", LineItemCandidate{Name: "X", Price: "abc", Quantity: "1"}},
		{"infinite price", LineItemCandidate{Name: "X", Price: "Inf", Quantity: "1"}},
		{"zero quantity", LineItemCandidate{Name: "X", Price: "10", Quantity: "0"}},
		{"negative quantity", LineItemCandidate{Name: "X", Price: "10", Quantity: "-2"}},
		{"fractional quantity", LineItemCandidate{Name: "X", Price: "10", Quantity: "1.5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLedger(NewMemoryKV())
			_, err := l.Add(tt.candidate)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("expected *ValidationError, got %T", err)
			}
			if l.Len() != 0 {
				t.Errorf("failed add must be a no-op, ledger has %d items", l.Len())
			}
		})
	}
}

func TestLedgerDiscountLenient(t *testing.T) {
	l := NewLedger(NewMemoryKV())

	item, err := l.Add(LineItemCandidate{Name: "X", Price: "10", Quantity: "1", Discount: "nope"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if item.DiscountPercent != 0 {
		t.Errorf("unparseable discount should default to 0, got %v", item.DiscountPercent)
	}

	// Out-of-range values pass through; the range is advisory only.
	item, err = l.Add(LineItemCandidate{Name: "Y", Price: "10", Quantity: "1", Discount: "150"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if item.DiscountPercent != 150 {
		t.Errorf("discount = %v, want 150", item.DiscountPercent)
	}
}

func TestLedgerEditPreservesID(t *testing.T) {
	l := NewLedger(NewMemoryKV())
	item, err := l.Add(LineItemCandidate{Name: "DJ", Price: "100", Quantity: "2", Discount: "10"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	edited, err := l.Edit(item.ID, LineItemCandidate{Name: "DJ Premium", Price: "150", Quantity: "3", Discount: "5"})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.ID != item.ID {
		t.Errorf("edit changed id: %s -> %s", item.ID, edited.ID)
	}

	l.Remove(item.ID)
	if l.Len() != 0 {
		t.Errorf("remove after edit left %d items", l.Len())
	}
}

func TestLedgerEditInvalidIsNoOp(t *testing.T) {
	l := NewLedger(NewMemoryKV())
	item, _ := l.Add(LineItemCandidate{Name: "DJ", Price: "100", Quantity: "2"})

	if _, err := l.Edit(item.ID, LineItemCandidate{Name: "", Price: "100", Quantity: "2"}); err == nil {
		t.Fatal("expected validation error")
	}
	got := l.Items()[0]
	if got.Name != "DJ" || got.UnitPrice != 100 {
		t.Errorf("failed edit mutated the item: %+v", got)
	}

	if _, err := l.Edit("missing-id", LineItemCandidate{Name: "X", Price: "10", Quantity: "1"}); err == nil {
		t.Fatal("expected error editing unknown id")
	}
}

func TestLedgerRemoveIdempotent(t *testing.T) {
	l := NewLedger(NewMemoryKV())
	item, _ := l.Add(LineItemCandidate{Name: "DJ", Price: "100", Quantity: "1"})

	l.Remove(item.ID)
	l.Remove(item.ID) // second call must be a safe no-op
	if l.Len() != 0 {
		t.Errorf("expected empty ledger, got %d items", l.Len())
	}
}

func TestLedgerPersistsAcrossInstances(t *testing.T) {
	kv := NewMemoryKV()

	first := NewLedger(kv)
	if _, err := first.Add(LineItemCandidate{Name: "DJ", Price: "100", Quantity: "2", Discount: "10"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	second := NewLedger(kv)
	if second.Len() != 1 {
		t.Fatalf("expected reloaded ledger to have 1 item, got %d", second.Len())
	}
	if !almostEqual(second.Subtotal(), 180) {
		t.Errorf("reloaded subtotal = %v, want 180", second.Subtotal())
	}

	second.Clear()
	third := NewLedger(kv)
	if third.Len() != 0 {
		t.Errorf("clear did not persist, reloaded %d items", third.Len())
	}
}
