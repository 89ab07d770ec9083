package engine

import (
	"math"

	"github.com/piwi3910/SheetNest/internal/model"
)

// epsilon absorbs float noise in floor/ceil of dimension ratios, so that
// 48/12 never rounds to 3.
const epsilon = 1e-9

// GridFit is a straight grid of one piece orientation on one sheet orientation.
type GridFit struct {
	PieceWidth   float64 // as placed
	PieceHeight  float64 // as placed
	SheetWidth   float64
	SheetHeight  float64
	PiecesWide   int
	PiecesHigh   int
	Total        int
	CostPerPiece float64
	Efficiency   int // percent, rounded
}

// FitGrid places pieces of pieceW x pieceH in a straight grid on the sheet.
// It returns false when not a single piece fits.
func FitGrid(pieceW, pieceH float64, sheet model.SheetSpec) (GridFit, bool) {
	wide := fitCount(sheet.Width, pieceW)
	high := fitCount(sheet.Height, pieceH)
	total := wide * high
	if total == 0 {
		return GridFit{}, false
	}
	return GridFit{
		PieceWidth:   pieceW,
		PieceHeight:  pieceH,
		SheetWidth:   sheet.Width,
		SheetHeight:  sheet.Height,
		PiecesWide:   wide,
		PiecesHigh:   high,
		Total:        total,
		CostPerPiece: sheet.Cost / float64(total),
		Efficiency:   efficiency(total, pieceW*pieceH, sheet.Area()),
	}, true
}

// GridFits evaluates both piece orientations against both sheet
// orientations, skipping combinations that are duplicates for square
// pieces or square sheets.
func GridFits(pieceW, pieceH float64, sheet model.SheetSpec) []GridFit {
	type combo struct {
		w, h  float64
		sheet model.SheetSpec
	}
	combos := []combo{{pieceW, pieceH, sheet}}
	if pieceW != pieceH {
		combos = append(combos, combo{pieceH, pieceW, sheet})
	}
	if sheet.Width != sheet.Height {
		turned := sheet.Turned()
		combos = append(combos, combo{pieceW, pieceH, turned})
		if pieceW != pieceH {
			combos = append(combos, combo{pieceH, pieceW, turned})
		}
	}

	var fits []GridFit
	for _, c := range combos {
		if fit, ok := FitGrid(c.w, c.h, c.sheet); ok {
			fits = append(fits, fit)
		}
	}
	return fits
}

// FitsSheet reports whether a single piece fits the sheet in either orientation.
func FitsSheet(pieceW, pieceH float64, sheet model.SheetSpec) bool {
	return len(GridFits(pieceW, pieceH, sheet)) > 0
}

// fitCount returns how many lengths of size fit into avail.
func fitCount(avail, size float64) int {
	if size <= 0 || avail <= 0 {
		return 0
	}
	n := int(math.Floor(avail/size + epsilon))
	if n < 0 {
		return 0
	}
	return n
}

// ceilTol rounds up, ignoring float noise just above an integer.
func ceilTol(v float64) float64 {
	return math.Ceil(v - epsilon)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func efficiency(pieces int, pieceArea, sheetArea float64) int {
	if sheetArea <= 0 {
		return 0
	}
	return int(math.Round(float64(pieces) * pieceArea / sheetArea * 100))
}
