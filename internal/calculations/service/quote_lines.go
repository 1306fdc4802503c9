package service

import "strings"

// QuoteLine is one sales-document line derived from a cost position at
// transfer time.
type QuoteLine struct {
	Position    int
	Description string
	Quantity    float64
	Unit        string
	UnitPrice   float64
	Discount    float64
	Total       float64
}

// DeriveQuoteLines maps each cost position into a sales line. The unit price
// reflects the calculation's current category markup; the line total is
// copied from the stored item total, never recomputed as quantity x unit
// price. The copied total is authoritative for the document sums, so a rate
// changed after the item was last saved shows up in the unit price only.
func DeriveQuoteLines(items []PricingItem, rates ResolvedRates) []QuoteLine {
	lines := make([]QuoteLine, len(items))
	for i, it := range items {
		description := it.Description
		if strings.TrimSpace(description) == "" {
			description = "Position"
		}

		markup := categoryMarkupPercent(it.Type, rates)
		lines[i] = QuoteLine{
			Position:    i + 1,
			Description: description,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			UnitPrice:   it.UnitCost * (1 + markup/100),
			Discount:    0,
			Total:       it.Total,
		}
	}
	return lines
}

// categoryMarkupPercent returns the markup applied to a line's unit price.
// External and overhead positions carry no category markup.
func categoryMarkupPercent(t ItemType, rates ResolvedRates) float64 {
	switch t {
	case ItemTypeMaterial:
		return rates.MaterialMarkupPercent
	case ItemTypeLabor:
		return rates.LaborMarkupPercent
	default:
		return 0
	}
}
