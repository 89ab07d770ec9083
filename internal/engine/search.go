package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/SheetNest/internal/model"
)

// bandShape is one piece orientation as it would be placed in a band.
type bandShape struct {
	w, h    float64
	rotated bool
}

// SearchPatterns returns every candidate layout for the piece on the sheet:
// the pure grids first, then the two-band layouts for the sheet as given and
// turned. Order matters, since ties go to the earlier candidate.
func SearchPatterns(pieceW, pieceH float64, sheet model.SheetSpec) []model.NestingPattern {
	var out []model.NestingPattern
	walkPatterns(pieceW, pieceH, sheet, func(p model.NestingPattern) bool {
		out = append(out, p)
		return true
	})
	return out
}

// BestPattern picks the layout with the most pieces per sheet, breaking ties
// on efficiency and then on search order. It stops early once a candidate
// reaches the area bound, because nothing can beat it.
func BestPattern(pieceW, pieceH float64, sheet model.SheetSpec) (model.NestingPattern, bool) {
	bound := areaBound(pieceW, pieceH, sheet)

	var best model.NestingPattern
	found := false
	walkPatterns(pieceW, pieceH, sheet, func(p model.NestingPattern) bool {
		if !found || better(p, best) {
			best = p
			found = true
		}
		return best.TotalPieces < bound
	})
	return best, found
}

func better(a, b model.NestingPattern) bool {
	if a.TotalPieces != b.TotalPieces {
		return a.TotalPieces > b.TotalPieces
	}
	return a.Efficiency > b.Efficiency
}

// areaBound is the most pieces that could ever fit by area alone.
func areaBound(pieceW, pieceH float64, sheet model.SheetSpec) int {
	return int(math.Floor(sheet.Area()/(pieceW*pieceH) + epsilon))
}

// walkPatterns feeds candidates to visit until it returns false.
func walkPatterns(pieceW, pieceH float64, sheet model.SheetSpec, visit func(model.NestingPattern) bool) {
	for _, fit := range GridFits(pieceW, pieceH, sheet) {
		if !visit(gridPattern(pieceW, pieceH, sheet, fit)) {
			return
		}
	}

	normal := bandShape{w: pieceW, h: pieceH}
	rotated := bandShape{w: pieceH, h: pieceW, rotated: true}
	if pieceW == pieceH {
		// Both bands would be the same grid.
		return
	}

	orientations := []model.SheetSpec{sheet}
	if sheet.Width != sheet.Height {
		orientations = append(orientations, sheet.Turned())
	}
	for i, s := range orientations {
		turned := i == 1
		if !stackBands(normal, rotated, s, turned, pieceW*pieceH, visit) {
			return
		}
		if !stackBands(rotated, normal, s, turned, pieceW*pieceH, visit) {
			return
		}
	}
}

// stackBands grows the first band one full row at a time and fills the
// remaining height with the second band. Only full rows are considered: a
// short last row never holds more than the full row at the same height.
func stackBands(first, second bandShape, sheet model.SheetSpec, turned bool, pieceArea float64, visit func(model.NestingPattern) bool) bool {
	perRow1 := fitCount(sheet.Width, first.w)
	perRow2 := fitCount(sheet.Width, second.w)
	if perRow1 == 0 || perRow2 == 0 {
		return true
	}
	maxRows := fitCount(sheet.Height, first.h)

	for rows := 1; rows <= maxRows; rows++ {
		rest := sheet.Height - float64(rows)*first.h
		rows2 := fitCount(rest, second.h)
		if rows2 == 0 {
			// Plain grid of the first shape, already covered.
			continue
		}
		b1 := model.Band{Rotated: first.rotated, Columns: perRow1, Rows: rows, Count: perRow1 * rows, PieceWidth: first.w, PieceHeight: first.h}
		b2 := model.Band{Rotated: second.rotated, Columns: perRow2, Rows: rows2, Count: perRow2 * rows2, PieceWidth: second.w, PieceHeight: second.h}
		total := b1.Count + b2.Count
		p := model.NestingPattern{
			Kind:         model.PatternMixed,
			SheetWidth:   sheet.Width,
			SheetHeight:  sheet.Height,
			SheetTurned:  turned,
			Bands:        []model.Band{b1, b2},
			TotalPieces:  total,
			Efficiency:   efficiency(total, pieceArea, sheet.Area()),
			CostPerPiece: sheet.Cost / float64(total),
		}
		p.Description = describe(p)
		if !visit(p) {
			return false
		}
	}
	return true
}

func gridPattern(pieceW, pieceH float64, sheet model.SheetSpec, fit GridFit) model.NestingPattern {
	rotated := fit.PieceWidth != pieceW || fit.PieceHeight != pieceH
	p := model.NestingPattern{
		Kind:        model.PatternGrid,
		SheetWidth:  fit.SheetWidth,
		SheetHeight: fit.SheetHeight,
		SheetTurned: fit.SheetWidth != sheet.Width || fit.SheetHeight != sheet.Height,
		Bands: []model.Band{{
			Rotated:     rotated,
			Columns:     fit.PiecesWide,
			Rows:        fit.PiecesHigh,
			Count:       fit.Total,
			PieceWidth:  fit.PieceWidth,
			PieceHeight: fit.PieceHeight,
		}},
		TotalPieces:  fit.Total,
		Efficiency:   fit.Efficiency,
		CostPerPiece: fit.CostPerPiece,
	}
	p.Description = describe(p)
	return p
}

// describe renders a pattern as e.g. "4 x 8 grid of 12x12 (32 per sheet)".
func describe(p model.NestingPattern) string {
	var sb strings.Builder
	switch p.Kind {
	case model.PatternGrid:
		b := p.Bands[0]
		fmt.Fprintf(&sb, "%d x %d grid of %gx%g", b.Columns, b.Rows, b.PieceWidth, b.PieceHeight)
	default:
		parts := make([]string, 0, len(p.Bands))
		for _, b := range p.Bands {
			parts = append(parts, b.String())
		}
		sb.WriteString("bands: " + strings.Join(parts, " + "))
	}
	fmt.Fprintf(&sb, " (%d per sheet", p.TotalPieces)
	if p.SheetTurned {
		sb.WriteString(", sheet turned")
	}
	sb.WriteString(")")
	return sb.String()
}
