package engine

import (
	"math"

	"github.com/piwi3910/SheetNest/internal/model"
)

const (
	// LinearFootIn is the increment the partial sheet height is billed in.
	LinearFootIn = 12.0
	// MinUsableWasteWidthIn is the narrowest leftover strip worth keeping.
	MinUsableWasteWidthIn = 24.0

	sqInPerSqFt = 144.0
)

// IsUsableWaste reports whether a leftover strip can go back into stock.
func IsUsableWaste(wasteWidth, wasteHeight float64) bool {
	return wasteWidth >= MinUsableWasteWidthIn && wasteHeight > 0
}

type split struct {
	normal, rotated int
	bands           []model.Band
	height          float64
}

// CalculatePartialSheet lays out the pieces left over after the full sheets
// with the smallest consumed height. It returns nil when remainder is zero.
// The configured orientation is tried first, then the turned sheet.
func CalculatePartialSheet(pieceW, pieceH float64, sheet model.SheetSpec, remainder int, avgPricePerPiece float64) (*model.PartialSheetDetails, error) {
	if remainder <= 0 {
		return nil, nil
	}

	s, turned := sheet, false
	best, ok := lowestSplit(pieceW, pieceH, s, remainder)
	if !ok && sheet.Width != sheet.Height {
		s, turned = sheet.Turned(), true
		best, ok = lowestSplit(pieceW, pieceH, s, remainder)
	}
	if !ok {
		return nil, model.CannotNest("no layout for the last %d pieces of %gx%g on a %gx%g sheet",
			remainder, pieceW, pieceH, sheet.Width, sheet.Height)
	}

	boundingW := 0.0
	for _, b := range best.bands {
		boundingW = math.Max(boundingW, b.Width())
	}
	chargeH := math.Min(ceilTol(best.height/LinearFootIn)*LinearFootIn, s.Height)
	wasteW := s.Width
	wasteH := math.Max(s.Height-chargeH, 0)

	material := s.Width * chargeH / sqInPerSqFt
	pieces := float64(remainder) * pieceW * pieceH / sqInPerSqFt

	return &model.PartialSheetDetails{
		Pieces:           remainder,
		NormalCount:      best.normal,
		RotatedCount:     best.rotated,
		Bands:            best.bands,
		SheetWidth:       s.Width,
		SheetHeight:      s.Height,
		SheetTurned:      turned,
		BoundingWidth:    boundingW,
		BoundingHeight:   best.height,
		ChargeWidth:      s.Width,
		ChargeHeight:     chargeH,
		WasteWidth:       wasteW,
		WasteHeight:      wasteH,
		UsableWaste:      IsUsableWaste(wasteW, wasteH),
		MaterialUsedSqFt: material,
		PieceAreaSqFt:    pieces,
		ScrapSqFt:        math.Max(material-pieces, 0),
		WasteSqFt:        wasteW * wasteH / sqInPerSqFt,
		Cost:             avgPricePerPiece * float64(remainder),
	}, nil
}

// lowestSplit tries every normal/rotated split of count pieces, normal band
// on top. Splits are walked from all-normal down so ties keep pieces upright.
func lowestSplit(pieceW, pieceH float64, sheet model.SheetSpec, count int) (split, bool) {
	perRowN := fitCount(sheet.Width, pieceW)
	perRowR := fitCount(sheet.Width, pieceH)

	var best split
	found := false
	for n := count; n >= 0; n-- {
		r := count - n
		if (n > 0 && perRowN == 0) || (r > 0 && perRowR == 0) {
			continue
		}
		var bands []model.Band
		height := 0.0
		if n > 0 {
			b := model.Band{Columns: perRowN, Rows: ceilDiv(n, perRowN), Count: n, PieceWidth: pieceW, PieceHeight: pieceH}
			bands = append(bands, b)
			height += b.Height()
		}
		if r > 0 {
			b := model.Band{Rotated: true, Columns: perRowR, Rows: ceilDiv(r, perRowR), Count: r, PieceWidth: pieceH, PieceHeight: pieceW}
			bands = append(bands, b)
			height += b.Height()
		}
		if height > sheet.Height+epsilon {
			continue
		}
		if !found || height < best.height-epsilon {
			best = split{normal: n, rotated: r, bands: bands, height: height}
			found = true
		}
	}
	return best, found
}
