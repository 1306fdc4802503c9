package service

import (
	"math"
	"reflect"
	"testing"
)

func f64(v float64) *float64 { return &v }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func defaultRates() ResolvedRates {
	return ResolveRates(Rates{
		MaterialMarkup: f64(15),
		LaborMarkup:    f64(10),
		Overhead:       f64(8),
		ProfitMargin:   f64(12),
		RiskMargin:     f64(5),
		Discount:       f64(0),
	}, false)
}

func TestItemTotalLaborByTime(t *testing.T) {
	it := PricingItem{Type: ItemTypeLabor, Quantity: 1, UnitCost: 999, Hours: f64(5), HourlyRate: f64(125)}
	if got := ItemTotal(it); !almostEqual(got, 625) {
		t.Fatalf("expected 625, got %v", got)
	}
}

func TestItemTotalLaborMissingTimeFieldsFallsBackToQuantity(t *testing.T) {
	it := PricingItem{Type: ItemTypeLabor, Quantity: 3, UnitCost: 80, Hours: f64(5)}
	if got := ItemTotal(it); !almostEqual(got, 240) {
		t.Fatalf("expected 240, got %v", got)
	}

	it = PricingItem{Type: ItemTypeLabor, Quantity: 3, UnitCost: 80, HourlyRate: f64(125)}
	if got := ItemTotal(it); !almostEqual(got, 240) {
		t.Fatalf("expected 240, got %v", got)
	}
}

func TestItemTotalNonLaborIgnoresTimeFields(t *testing.T) {
	it := PricingItem{Type: ItemTypeMaterial, Quantity: 10, UnitCost: 20, Hours: f64(5), HourlyRate: f64(125)}
	if got := ItemTotal(it); !almostEqual(got, 200) {
		t.Fatalf("expected 200, got %v", got)
	}
}

func TestComputePricingFullScenario(t *testing.T) {
	items := []PricingItem{
		{Type: ItemTypeMaterial, Quantity: 10, UnitCost: 20},
		{Type: ItemTypeLabor, Hours: f64(5), HourlyRate: f64(125)},
		{Type: ItemTypeExternal, Quantity: 1, UnitCost: 300},
	}

	result := ComputePricing(items, defaultRates())

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"materialCost", result.MaterialCost, 200},
		{"laborCost", result.LaborCost, 625},
		{"externalCost", result.ExternalCost, 300},
		{"directCosts", result.DirectCosts, 1125},
		{"materialMarkupAmount", result.MaterialMarkupAmount, 30},
		{"laborMarkupAmount", result.LaborMarkupAmount, 62.5},
		{"overheadAmount", result.OverheadAmount, 90},
		{"subtotal", result.Subtotal, 1307.5},
		{"profitAmount", result.ProfitAmount, 156.9},
		{"riskAmount", result.RiskAmount, 65.375},
		{"grossTotal", result.GrossTotal, 1529.775},
		{"discountAmount", result.DiscountAmount, 0},
		{"netTotal", result.NetTotal, 1529.775},
		{"vatAmount", result.VATAmount, 123.911775},
		{"grandTotal", result.GrandTotal, 1653.686775},
		{"hourlyRateEffective", result.HourlyRateEffective, 330.74},
		{"marginPercent", result.MarginPercent, 47.0},
	}
	for _, c := range checks {
		if !almostEqual(c.got, c.want) {
			t.Fatalf("%s: expected %v, got %v", c.name, c.want, c.got)
		}
	}
}

func TestComputePricingNoItems(t *testing.T) {
	result := ComputePricing(nil, defaultRates())

	if result.DirectCosts != 0 || result.GrandTotal != 0 {
		t.Fatalf("expected zero totals, got directCosts=%v grandTotal=%v", result.DirectCosts, result.GrandTotal)
	}
	if result.HourlyRateEffective != 0 {
		t.Fatalf("expected hourlyRateEffective 0 without labor hours, got %v", result.HourlyRateEffective)
	}
	if result.MarginPercent != 0 {
		t.Fatalf("expected marginPercent 0 without direct costs, got %v", result.MarginPercent)
	}
}

func TestComputePricingOverheadItemsFoldIntoDirectCostsOnly(t *testing.T) {
	items := []PricingItem{
		{Type: ItemTypeMaterial, Quantity: 1, UnitCost: 100},
		{Type: ItemTypeOverhead, Quantity: 1, UnitCost: 50},
	}

	result := ComputePricing(items, defaultRates())

	if !almostEqual(result.MaterialCost, 100) {
		t.Fatalf("expected materialCost 100, got %v", result.MaterialCost)
	}
	if !almostEqual(result.DirectCosts, 150) {
		t.Fatalf("expected overhead item in directCosts, got %v", result.DirectCosts)
	}
	// Category markup must not touch the overhead-typed position.
	if !almostEqual(result.MaterialMarkupAmount, 15) {
		t.Fatalf("expected materialMarkupAmount 15, got %v", result.MaterialMarkupAmount)
	}
	// Blanket overhead applies to the full direct-cost base including the
	// overhead-typed position.
	if !almostEqual(result.OverheadAmount, 12) {
		t.Fatalf("expected overheadAmount 12, got %v", result.OverheadAmount)
	}
}

func TestComputePricingDiscountAppliesBeforeVAT(t *testing.T) {
	items := []PricingItem{{Type: ItemTypeMaterial, Quantity: 1, UnitCost: 1000}}
	rates := ResolveRates(Rates{
		MaterialMarkup: f64(0),
		LaborMarkup:    f64(0),
		Overhead:       f64(0),
		ProfitMargin:   f64(0),
		RiskMargin:     f64(0),
		Discount:       f64(10),
	}, false)

	result := ComputePricing(items, rates)

	if !almostEqual(result.DiscountAmount, 100) {
		t.Fatalf("expected discountAmount 100, got %v", result.DiscountAmount)
	}
	if !almostEqual(result.NetTotal, 900) {
		t.Fatalf("expected netTotal 900, got %v", result.NetTotal)
	}
	if !almostEqual(result.VATAmount, 72.9) {
		t.Fatalf("expected vatAmount 72.9, got %v", result.VATAmount)
	}
	if !almostEqual(result.GrandTotal, 972.9) {
		t.Fatalf("expected grandTotal 972.9, got %v", result.GrandTotal)
	}
}

func TestComputePricingFullPrecisionExceptDerivedMetrics(t *testing.T) {
	items := []PricingItem{{Type: ItemTypeMaterial, Quantity: 3, UnitCost: 0.1}}
	result := ComputePricing(items, defaultRates())

	// No intermediate rounding: the raw float product flows through.
	// Compare against the runtime float64 product; the constant expression
	// 3*0.1 is folded with exact arithmetic and differs in the last bit.
	if result.MaterialCost != items[0].Quantity*items[0].UnitCost {
		t.Fatalf("expected unrounded materialCost, got %v", result.MaterialCost)
	}
}

func TestResolveRatesDefaultsForAbsent(t *testing.T) {
	resolved := ResolveRates(Rates{}, false)

	if resolved.MaterialMarkupPercent != DefaultMaterialMarkupPercent {
		t.Fatalf("expected default material markup, got %v", resolved.MaterialMarkupPercent)
	}
	if resolved.LaborMarkupPercent != DefaultLaborMarkupPercent {
		t.Fatalf("expected default labor markup, got %v", resolved.LaborMarkupPercent)
	}
	if resolved.OverheadPercent != DefaultOverheadPercent {
		t.Fatalf("expected default overhead, got %v", resolved.OverheadPercent)
	}
	if resolved.ProfitMarginPercent != DefaultProfitMarginPercent {
		t.Fatalf("expected default profit margin, got %v", resolved.ProfitMarginPercent)
	}
	if resolved.RiskMarginPercent != DefaultRiskMarginPercent {
		t.Fatalf("expected default risk margin, got %v", resolved.RiskMarginPercent)
	}
	if resolved.DiscountPercent != DefaultDiscountPercent {
		t.Fatalf("expected default discount, got %v", resolved.DiscountPercent)
	}
}

func TestResolveRatesHonorsExplicitZero(t *testing.T) {
	resolved := ResolveRates(Rates{MaterialMarkup: f64(0), ProfitMargin: f64(0)}, false)

	if resolved.MaterialMarkupPercent != 0 {
		t.Fatalf("explicit zero material markup was overridden to %v", resolved.MaterialMarkupPercent)
	}
	if resolved.ProfitMarginPercent != 0 {
		t.Fatalf("explicit zero profit margin was overridden to %v", resolved.ProfitMarginPercent)
	}
}

func TestResolveRatesLegacyZeroFallback(t *testing.T) {
	resolved := ResolveRates(Rates{MaterialMarkup: f64(0), LaborMarkup: f64(7)}, true)

	if resolved.MaterialMarkupPercent != DefaultMaterialMarkupPercent {
		t.Fatalf("expected zero coerced to default, got %v", resolved.MaterialMarkupPercent)
	}
	if resolved.LaborMarkupPercent != 7 {
		t.Fatalf("expected explicit non-zero rate kept, got %v", resolved.LaborMarkupPercent)
	}
}

func TestHourlyRateEffectiveRounding(t *testing.T) {
	items := []PricingItem{{Type: ItemTypeLabor, Hours: f64(3), HourlyRate: f64(100)}}
	rates := ResolveRates(Rates{
		MaterialMarkup: f64(0), LaborMarkup: f64(0), Overhead: f64(0),
		ProfitMargin: f64(0), RiskMargin: f64(0), Discount: f64(0),
	}, false)

	result := ComputePricing(items, rates)

	// grandTotal = 300 * 1.081 = 324.3; 324.3 / 3 = 108.1
	if !almostEqual(result.HourlyRateEffective, 108.1) {
		t.Fatalf("expected 108.1, got %v", result.HourlyRateEffective)
	}
	want := math.Round(result.HourlyRateEffective*100) / 100
	if result.HourlyRateEffective != want {
		t.Fatalf("hourlyRateEffective not rounded to 2 decimals: %v", result.HourlyRateEffective)
	}
}

func TestMarginPercentRoundedToOneDecimal(t *testing.T) {
	items := []PricingItem{{Type: ItemTypeMaterial, Quantity: 1, UnitCost: 1125}}
	result := ComputePricing(items, defaultRates())

	want := math.Round(result.MarginPercent*10) / 10
	if result.MarginPercent != want {
		t.Fatalf("marginPercent not rounded to 1 decimal: %v", result.MarginPercent)
	}
}

func TestComputePricingSingleRateIncreaseNeverLowersTotal(t *testing.T) {
	items := []PricingItem{
		{Type: ItemTypeMaterial, Quantity: 4, UnitCost: 55},
		{Type: ItemTypeLabor, Hours: f64(8), HourlyRate: f64(110)},
		{Type: ItemTypeExternal, Quantity: 1, UnitCost: 250},
	}

	base := ComputePricing(items, defaultRates())

	// Discount excluded: raising it lowers the total by definition.
	raises := []struct {
		name  string
		rates ResolvedRates
	}{
		{"materialMarkup", func() ResolvedRates { r := defaultRates(); r.MaterialMarkupPercent += 5; return r }()},
		{"laborMarkup", func() ResolvedRates { r := defaultRates(); r.LaborMarkupPercent += 5; return r }()},
		{"overhead", func() ResolvedRates { r := defaultRates(); r.OverheadPercent += 5; return r }()},
		{"profitMargin", func() ResolvedRates { r := defaultRates(); r.ProfitMarginPercent += 5; return r }()},
		{"riskMargin", func() ResolvedRates { r := defaultRates(); r.RiskMarginPercent += 5; return r }()},
	}

	for _, c := range raises {
		raised := ComputePricing(items, c.rates)
		if raised.GrandTotal < base.GrandTotal {
			t.Fatalf("raising %s alone lowered the grand total: base=%v raised=%v", c.name, base.GrandTotal, raised.GrandTotal)
		}
	}
}

func TestComputePricingIsPure(t *testing.T) {
	items := []PricingItem{
		{Type: ItemTypeMaterial, Quantity: 10, UnitCost: 20},
		{Type: ItemTypeLabor, Hours: f64(5), HourlyRate: f64(125)},
		{Type: ItemTypeExternal, Quantity: 1, UnitCost: 300},
	}
	rates := defaultRates()

	first := ComputePricing(items, rates)
	second := ComputePricing(items, rates)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated computation over unchanged input diverged:\n%+v\n%+v", first, second)
	}
}
