package service

import "math"

// ItemType classifies a cost position.
type ItemType string

const (
	ItemTypeMaterial ItemType = "MATERIAL"
	ItemTypeLabor    ItemType = "LABOR"
	ItemTypeExternal ItemType = "EXTERNAL"
	ItemTypeOverhead ItemType = "OVERHEAD"
)

// VATRatePercent is the fixed Swiss VAT rate. All amounts are CHF.
const VATRatePercent = 8.1

// Default percentages used when a calculation has no stored rate.
const (
	DefaultMaterialMarkupPercent = 15.0
	DefaultLaborMarkupPercent    = 10.0
	DefaultOverheadPercent       = 8.0
	DefaultProfitMarginPercent   = 12.0
	DefaultRiskMarginPercent     = 5.0
	DefaultDiscountPercent       = 0.0
)

// PricingItem is the engine's view of one cost position. Total carries the
// stored line total; the engine itself always rederives totals from the raw
// fields so that pricing stays a pure function of the inputs.
type PricingItem struct {
	Type        ItemType
	Description string
	Quantity    float64
	Unit        string
	UnitCost    float64
	Hours       *float64
	HourlyRate  *float64
	Total       float64
	SortOrder   int
}

// Rates carries a calculation's stored percentages. A nil field means the
// rate was never set and the built-in default applies. An explicit zero is a
// stored value like any other.
type Rates struct {
	MaterialMarkup *float64
	LaborMarkup    *float64
	Overhead       *float64
	ProfitMargin   *float64
	RiskMargin     *float64
	Discount       *float64
}

// ResolvedRates are the percentages actually used by the pipeline, after
// default substitution.
type ResolvedRates struct {
	MaterialMarkupPercent float64
	LaborMarkupPercent    float64
	OverheadPercent       float64
	ProfitMarginPercent   float64
	RiskMarginPercent     float64
	DiscountPercent       float64
}

// ResolveRates substitutes defaults for absent rates. With zeroFallback set,
// a stored 0% is treated like an absent rate and also replaced by the
// default, reproducing the legacy coercion for tenants that rely on it.
func ResolveRates(r Rates, zeroFallback bool) ResolvedRates {
	return ResolvedRates{
		MaterialMarkupPercent: resolveRate(r.MaterialMarkup, DefaultMaterialMarkupPercent, zeroFallback),
		LaborMarkupPercent:    resolveRate(r.LaborMarkup, DefaultLaborMarkupPercent, zeroFallback),
		OverheadPercent:       resolveRate(r.Overhead, DefaultOverheadPercent, zeroFallback),
		ProfitMarginPercent:   resolveRate(r.ProfitMargin, DefaultProfitMarginPercent, zeroFallback),
		RiskMarginPercent:     resolveRate(r.RiskMargin, DefaultRiskMarginPercent, zeroFallback),
		DiscountPercent:       resolveRate(r.Discount, DefaultDiscountPercent, zeroFallback),
	}
}

func resolveRate(value *float64, fallback float64, zeroFallback bool) float64 {
	if value == nil {
		return fallback
	}
	if zeroFallback && *value == 0 {
		return fallback
	}
	return *value
}

// PricingResult is the full multi-stage price breakdown. It is recomputed on
// every read and never persisted, except for DirectCosts and GrandTotal which
// are copied onto the calculation record as totalCost/totalPrice.
type PricingResult struct {
	MaterialCost         float64
	LaborCost            float64
	ExternalCost         float64
	DirectCosts          float64
	MaterialMarkupAmount float64
	LaborMarkupAmount    float64
	OverheadAmount       float64
	Subtotal             float64
	ProfitAmount         float64
	RiskAmount           float64
	GrossTotal           float64
	DiscountAmount       float64
	NetTotal             float64
	VATAmount            float64
	GrandTotal           float64
	HourlyRateEffective  float64
	MarginPercent        float64
}

// ItemTotal derives a line item's monetary total. Labor items priced by time
// use hours x hourly rate; everything else, including labor items missing
// either time field, uses quantity x unit cost. No rounding at this stage.
func ItemTotal(it PricingItem) float64 {
	if it.Type == ItemTypeLabor && it.Hours != nil && it.HourlyRate != nil {
		return *it.Hours * *it.HourlyRate
	}
	return it.Quantity * it.UnitCost
}

// ComputePricing runs the fixed pricing pipeline over the cost positions:
// rollup -> category markups + overhead -> profit/risk -> discount -> VAT.
// Only HourlyRateEffective (2dp) and MarginPercent (1dp) are rounded; every
// other value keeps full floating-point precision.
func ComputePricing(items []PricingItem, rates ResolvedRates) PricingResult {
	var materialCost, laborCost, externalCost, overheadCost, totalHours float64

	for _, it := range items {
		total := ItemTotal(it)
		switch it.Type {
		case ItemTypeMaterial:
			materialCost += total
		case ItemTypeLabor:
			laborCost += total
			if it.Hours != nil {
				totalHours += *it.Hours
			}
		case ItemTypeExternal:
			externalCost += total
		case ItemTypeOverhead:
			// Overhead-typed positions count toward direct costs only;
			// they are never exposed as a standalone category sum.
			overheadCost += total
		}
	}

	directCosts := materialCost + laborCost + externalCost + overheadCost

	materialMarkupAmount := materialCost * rates.MaterialMarkupPercent / 100
	laborMarkupAmount := laborCost * rates.LaborMarkupPercent / 100
	// Blanket overhead applies to the entire direct-cost base.
	overheadAmount := directCosts * rates.OverheadPercent / 100
	subtotal := directCosts + materialMarkupAmount + laborMarkupAmount + overheadAmount

	profitAmount := subtotal * rates.ProfitMarginPercent / 100
	riskAmount := subtotal * rates.RiskMarginPercent / 100
	grossTotal := subtotal + profitAmount + riskAmount

	discountAmount := grossTotal * rates.DiscountPercent / 100
	netTotal := grossTotal - discountAmount
	vatAmount := netTotal * VATRatePercent / 100
	grandTotal := netTotal + vatAmount

	var hourlyRateEffective float64
	if totalHours > 0 {
		hourlyRateEffective = round2(grandTotal / totalHours)
	}

	var marginPercent float64
	if directCosts > 0 {
		marginPercent = round1((grandTotal - directCosts) / directCosts * 100)
	}

	return PricingResult{
		MaterialCost:         materialCost,
		LaborCost:            laborCost,
		ExternalCost:         externalCost,
		DirectCosts:          directCosts,
		MaterialMarkupAmount: materialMarkupAmount,
		LaborMarkupAmount:    laborMarkupAmount,
		OverheadAmount:       overheadAmount,
		Subtotal:             subtotal,
		ProfitAmount:         profitAmount,
		RiskAmount:           riskAmount,
		GrossTotal:           grossTotal,
		DiscountAmount:       discountAmount,
		NetTotal:             netTotal,
		VATAmount:            vatAmount,
		GrandTotal:           grandTotal,
		HourlyRateEffective:  hourlyRateEffective,
		MarginPercent:        marginPercent,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
