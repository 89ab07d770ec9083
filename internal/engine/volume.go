package engine

import "github.com/piwi3910/SheetNest/internal/model"

// SheetPrice is the per-sheet price resolved for an order.
type SheetPrice struct {
	PricePerSheet float64
	Tier          *model.VolumeTier // nil when the flat sheet cost applies
	SheetCount    int               // billable sheets rounded up
}

// ResolveSheetPrice looks up the volume tier for ceil(billable) sheets.
// The first tier that contains the count wins; with volume pricing off, no
// tiers, or no match the flat sheet cost is used.
func ResolveSheetPrice(billable, sheetCost float64, table model.VolumePricingTable) SheetPrice {
	n := int(ceilTol(billable))
	price := SheetPrice{PricePerSheet: sheetCost, SheetCount: n}
	if !table.Enabled {
		return price
	}
	for i := range table.Tiers {
		if table.Tiers[i].Contains(n) {
			tier := table.Tiers[i]
			if tier.MaxSheets != nil {
				m := *tier.MaxSheets
				tier.MaxSheets = &m
			}
			price.PricePerSheet = tier.PricePerSheet
			price.Tier = &tier
			return price
		}
	}
	return price
}
