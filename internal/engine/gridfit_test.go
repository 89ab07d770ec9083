package engine

import (
	"testing"

	"github.com/piwi3910/SheetNest/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stdSheet = model.SheetSpec{Width: 48, Height: 96, Cost: 50}

func TestFitGrid_SquarePieces(t *testing.T) {
	fit, ok := FitGrid(12, 12, stdSheet)
	require.True(t, ok)

	assert.Equal(t, 4, fit.PiecesWide)
	assert.Equal(t, 8, fit.PiecesHigh)
	assert.Equal(t, 32, fit.Total)
	assert.InDelta(t, 1.5625, fit.CostPerPiece, 1e-9)
	assert.Equal(t, 100, fit.Efficiency)
}

func TestFitGrid_NoFit(t *testing.T) {
	_, ok := FitGrid(50, 10, stdSheet)
	assert.False(t, ok)
}

func TestFitGrid_ToleratesFloatNoise(t *testing.T) {
	// 48/4.8 and 96/9.6 are not exact in binary floating point.
	fit, ok := FitGrid(4.8, 9.6, stdSheet)
	require.True(t, ok)
	assert.Equal(t, 10, fit.PiecesWide)
	assert.Equal(t, 10, fit.PiecesHigh)
}

func TestGridFits_Combinations(t *testing.T) {
	assert.Len(t, GridFits(10, 14, stdSheet), 4)
	// Square pieces only need each sheet orientation once.
	assert.Len(t, GridFits(12, 12, stdSheet), 2)
	// Square piece on a square sheet is a single combination.
	assert.Len(t, GridFits(12, 12, model.SheetSpec{Width: 48, Height: 48}), 1)
	// Only the rotated piece fits.
	fits := GridFits(60, 40, stdSheet)
	require.NotEmpty(t, fits)
	for _, f := range fits {
		assert.LessOrEqual(t, f.PieceWidth, f.SheetWidth)
		assert.LessOrEqual(t, f.PieceHeight, f.SheetHeight)
	}
}

func TestFitsSheet(t *testing.T) {
	assert.True(t, FitsSheet(96, 48, stdSheet))
	assert.True(t, FitsSheet(48, 96, stdSheet))
	assert.False(t, FitsSheet(100, 100, stdSheet))
	assert.False(t, FitsSheet(50, 97, stdSheet))
}
