package quote

import (
	"fmt"
	"sort"

	"github.com/piwi3910/SheetNest/internal/engine"
)

// PriceBreak is the price of one quantity in a price-break table.
type PriceBreak struct {
	Quantity       int
	BillableSheets float64
	PricePerPiece  float64
	Total          float64
	FloorApplied   bool
}

// PriceBreaks prices the same piece at each quantity, in the order given.
// The first engine error aborts the table since every row shares the piece.
func PriceBreaks(p *engine.Pricer, width, height float64, quantities []int) ([]PriceBreak, error) {
	breaks := make([]PriceBreak, 0, len(quantities))
	for _, qty := range quantities {
		r, err := p.CalculatePricingWithWaste(width, height, qty)
		if err != nil {
			return nil, fmt.Errorf("quantity %d: %w", qty, err)
		}
		breaks = append(breaks, PriceBreak{
			Quantity:       qty,
			BillableSheets: r.BillableSheets,
			PricePerPiece:  r.PricePerPiece,
			Total:          r.TotalPrice,
			FloorApplied:   r.PriceFloorApplied,
		})
	}
	return breaks, nil
}

// DefaultBreakQuantities proposes quantities around sheet boundaries: one
// piece, half a sheet, a full sheet, then 2, 5 and 10 sheets.
func DefaultBreakQuantities(piecesPerSheet int) []int {
	if piecesPerSheet < 1 {
		piecesPerSheet = 1
	}
	candidates := []int{
		1,
		piecesPerSheet / 2,
		piecesPerSheet,
		piecesPerSheet * 2,
		piecesPerSheet * 5,
		piecesPerSheet * 10,
	}
	sort.Ints(candidates)

	out := make([]int, 0, len(candidates))
	for _, q := range candidates {
		if q < 1 || (len(out) > 0 && out[len(out)-1] == q) {
			continue
		}
		out = append(out, q)
	}
	return out
}
