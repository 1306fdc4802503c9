package service

import "testing"

func TestDeriveQuoteLinesTotalsAreCopiedNotRecomputed(t *testing.T) {
	// Stored total diverges from quantity x unitCost x markup on purpose:
	// the rate changed after the item was last saved.
	items := []PricingItem{
		{Type: ItemTypeMaterial, Description: "Stahlprofil", Quantity: 10, Unit: "m", UnitCost: 20, Total: 200},
	}
	rates := ResolveRates(Rates{MaterialMarkup: f64(50)}, false)

	lines := DeriveQuoteLines(items, rates)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}

	line := lines[0]
	if !almostEqual(line.UnitPrice, 30) {
		t.Fatalf("expected unitPrice 30 with 50%% markup, got %v", line.UnitPrice)
	}
	if !almostEqual(line.Total, 200) {
		t.Fatalf("line total must be the stored item total, got %v", line.Total)
	}
}

func TestDeriveQuoteLinesCategoryMarkup(t *testing.T) {
	items := []PricingItem{
		{Type: ItemTypeMaterial, Description: "a", Quantity: 1, UnitCost: 100, Total: 100},
		{Type: ItemTypeLabor, Description: "b", Quantity: 1, UnitCost: 100, Total: 100},
		{Type: ItemTypeExternal, Description: "c", Quantity: 1, UnitCost: 100, Total: 100},
		{Type: ItemTypeOverhead, Description: "d", Quantity: 1, UnitCost: 100, Total: 100},
	}
	rates := ResolveRates(Rates{MaterialMarkup: f64(15), LaborMarkup: f64(10)}, false)

	lines := DeriveQuoteLines(items, rates)

	if !almostEqual(lines[0].UnitPrice, 115) {
		t.Fatalf("material line expected 115, got %v", lines[0].UnitPrice)
	}
	if !almostEqual(lines[1].UnitPrice, 110) {
		t.Fatalf("labor line expected 110, got %v", lines[1].UnitPrice)
	}
	if !almostEqual(lines[2].UnitPrice, 100) {
		t.Fatalf("external line must carry no markup, got %v", lines[2].UnitPrice)
	}
	if !almostEqual(lines[3].UnitPrice, 100) {
		t.Fatalf("overhead line must carry no markup, got %v", lines[3].UnitPrice)
	}
}

func TestDeriveQuoteLinesDefaultsBlankDescription(t *testing.T) {
	items := []PricingItem{
		{Type: ItemTypeMaterial, Description: "   ", Quantity: 1, UnitCost: 10, Total: 10},
		{Type: ItemTypeMaterial, Description: "", Quantity: 1, UnitCost: 10, Total: 10},
	}

	lines := DeriveQuoteLines(items, ResolveRates(Rates{}, false))
	for _, line := range lines {
		if line.Description != "Position" {
			t.Fatalf("expected blank description to become %q, got %q", "Position", line.Description)
		}
	}
}

func TestDeriveQuoteLinesPositionsAndDiscount(t *testing.T) {
	items := []PricingItem{
		{Type: ItemTypeMaterial, Description: "x", Quantity: 1, UnitCost: 10, Total: 10},
		{Type: ItemTypeLabor, Description: "y", Quantity: 1, UnitCost: 10, Total: 10},
		{Type: ItemTypeExternal, Description: "z", Quantity: 1, UnitCost: 10, Total: 10},
	}

	lines := DeriveQuoteLines(items, ResolveRates(Rates{}, false))
	for i, line := range lines {
		if line.Position != i+1 {
			t.Fatalf("expected position %d, got %d", i+1, line.Position)
		}
		if line.Discount != 0 {
			t.Fatalf("line discount must start at 0, got %v", line.Discount)
		}
	}
}
