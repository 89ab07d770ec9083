package engine

import (
	"math"

	"github.com/piwi3910/SheetNest/internal/model"
)

// OversizeOutcome is the capacity and billing floor left after oversize rules.
type OversizeOutcome struct {
	MaxPiecesPerSheet int
	MinSheetFraction  float64
	Applied           []int       // indexes of rules that fired, in order
	Grid              *model.Band // grid forced by the last full-axis rule, nil if none fired
}

// ApplyOversizeRules runs the policy's oversize rules in order against the
// requested piece. A full-axis rule recomputes capacity from scratch, so the
// last one to fire wins. Fraction bumps only ever raise the minimum.
func ApplyOversizeRules(pieceW, pieceH float64, sheet model.SheetSpec, maxPieces int, policy model.SheetChargingPolicy) OversizeOutcome {
	out := OversizeOutcome{
		MaxPiecesPerSheet: maxPieces,
		MinSheetFraction:  policy.MinSheetFraction,
	}
	for i, rule := range policy.OversizeRules {
		if rule.Dimension(pieceW, pieceH) <= rule.ThresholdIn {
			continue
		}
		out.Applied = append(out.Applied, i)

		switch rule.Behavior {
		case model.UseFullSheetAxis:
			g := fullAxisGrid(pieceW, pieceH, sheet, rule.Axis)
			out.MaxPiecesPerSheet = g.Count
			out.Grid = &g
		case model.BumpSheetFraction:
			out.MinSheetFraction = math.Max(out.MinSheetFraction, rule.TargetSheetFraction)
		}
	}
	return out
}

// fullAxisGrid is what is left of the sheet when one piece dimension is
// charged as the whole sheet axis: a single column for the width axis and a
// single row for the height axis. For AxisAny the long side is laid along
// whichever full axis it fits and holds more, so the count depends only on
// the piece and sheet sizes, never on which way round either was given.
func fullAxisGrid(pieceW, pieceH float64, sheet model.SheetSpec, axis model.Axis) model.Band {
	switch axis {
	case model.AxisWidth:
		return forcedBand(false, 1, fitCount(sheet.Height, pieceH), pieceW, pieceH)
	case model.AxisHeight:
		return forcedBand(false, fitCount(sheet.Width, pieceW), 1, pieceW, pieceH)
	}

	long, short := math.Max(pieceW, pieceH), math.Min(pieceW, pieceH)
	var best model.Band
	if long <= sheet.Width+epsilon {
		best = forcedBand(pieceW < pieceH, 1, fitCount(sheet.Height, short), long, short)
	}
	if long <= sheet.Height+epsilon {
		if b := forcedBand(pieceW > pieceH, fitCount(sheet.Width, short), 1, short, long); b.Count > best.Count {
			best = b
		}
	}
	return best
}

func forcedBand(rotated bool, cols, rows int, w, h float64) model.Band {
	return model.Band{Rotated: rotated, Columns: cols, Rows: rows, Count: cols * rows, PieceWidth: w, PieceHeight: h}
}

// forcedPattern wraps a full-axis grid as the sheet layout actually charged.
func forcedPattern(grid model.Band, sheet model.SheetSpec, pieceW, pieceH float64) model.NestingPattern {
	p := model.NestingPattern{
		Kind:        model.PatternGrid,
		SheetWidth:  sheet.Width,
		SheetHeight: sheet.Height,
		Bands:       []model.Band{grid},
		TotalPieces: grid.Count,
		Efficiency:  efficiency(grid.Count, pieceW*pieceH, sheet.Area()),
	}
	if grid.Count > 0 {
		p.CostPerPiece = sheet.Cost / float64(grid.Count)
	}
	p.Description = describe(p)
	return p
}
