package services

import "testing"

func TestComputeTotals(t *testing.T) {
	items := []LineItem{
		{Name: "DJ", UnitPrice: 100, Quantity: 2, DiscountPercent: 10},
		{Name: "Luces", UnitPrice: 50, Quantity: 1},
	}

	tests := []struct {
		name       string
		taxPercent float64
		advance    float64
		expect     QuoteTotals
	}{
		{
			"no tax no advance",
			0, 0,
			QuoteTotals{Subtotal: 230, Total: 230, PendingBalance: 230},
		},
		{
			"tax and advance",
			21, 50,
			QuoteTotals{Subtotal: 230, TaxPercent: 21, TaxAmount: 48.3, Total: 278.3, AdvancePayment: 50, PendingBalance: 228.3},
		},
		{
			"advance exceeds total",
			0, 300,
			QuoteTotals{Subtotal: 230, Total: 230, AdvancePayment: 300, PendingBalance: -70},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(items, tt.taxPercent, tt.advance)
			if !almostEqual(got.Subtotal, tt.expect.Subtotal) ||
				!almostEqual(got.TaxAmount, tt.expect.TaxAmount) ||
				!almostEqual(got.Total, tt.expect.Total) ||
				!almostEqual(got.PendingBalance, tt.expect.PendingBalance) {
				t.Errorf("ComputeTotals(%v, %v) = %+v, want %+v", tt.taxPercent, tt.advance, got, tt.expect)
			}
		})
	}
}

func TestComputeTotalsEmpty(t *testing.T) {
	got := ComputeTotals(nil, 21, 0)
	if got.Subtotal != 0 || got.TaxAmount != 0 || got.PendingBalance != 0 {
		t.Errorf("empty quote should derive zeros, got %+v", got)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		expect float64
	}{
		{"plain number", "21", 21},
		{"decimal", "48.3", 48.3},
		{"empty string", "", 0},
		{"garbage", "abc", 0},
		{"nil", nil, 0},
		{"float value", 12.5, 12.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseAmount(tt.input); !almostEqual(got, tt.expect) {
				t.Errorf("ParseAmount(%v) = %v, want %v", tt.input, got, tt.expect)
			}
		})
	}
}
