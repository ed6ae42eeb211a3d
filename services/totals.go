package services

import "github.com/spf13/cast"

// QuoteTotals is derived on demand from the line items and two scalar
// inputs. It is never persisted.
type QuoteTotals struct {
	Subtotal       float64
	TaxPercent     float64
	TaxAmount      float64
	Total          float64
	AdvancePayment float64
	PendingBalance float64
}

// ComputeTotals derives the quote totals. Pure; callers must recompute
// whenever an input changes.
func ComputeTotals(items []LineItem, taxPercent, advance float64) QuoteTotals {
	var subtotal float64
	for _, it := range items {
		subtotal += it.Subtotal()
	}
	taxAmount := subtotal * taxPercent / 100
	total := subtotal + taxAmount
	return QuoteTotals{
		Subtotal:       subtotal,
		TaxPercent:     taxPercent,
		TaxAmount:      taxAmount,
		Total:          total,
		AdvancePayment: advance,
		PendingBalance: total - advance,
	}
}

// ParseAmount converts raw user input to a number, treating anything
// unparseable as zero. Totals never fail on bad numeric input.
func ParseAmount(raw any) float64 {
	return cast.ToFloat64(raw)
}
