package engine

import (
	"math"

	"github.com/piwi3910/SheetNest/internal/model"
)

// RoundSheets rounds raw sheet usage up to the increment of the mode.
func RoundSheets(raw float64, mode model.RoundingMode) float64 {
	switch mode {
	case model.RoundQuarter:
		return ceilTol(raw*4) / 4
	case model.RoundHalf:
		return ceilTol(raw*2) / 2
	case model.RoundFull:
		return ceilTol(raw)
	default:
		return raw
	}
}

// ApplyCharging turns raw usage into billable sheets: rounded, then lifted
// to the minimum fraction.
func ApplyCharging(raw float64, mode model.RoundingMode, minFraction float64) float64 {
	return math.Max(RoundSheets(raw, mode), minFraction)
}
