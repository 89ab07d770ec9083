package engine

import (
	"errors"
	"testing"

	"github.com/piwi3910/SheetNest/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePartialSheet_SquarePieces(t *testing.T) {
	d, err := CalculatePartialSheet(12, 12, stdSheet, 18, 1.5625)
	require.NoError(t, err)
	require.NotNil(t, d)

	assert.Equal(t, 18, d.Pieces)
	assert.Equal(t, 18, d.NormalCount, "square pieces stay upright on ties")
	assert.Equal(t, 0, d.RotatedCount)
	assert.False(t, d.SheetTurned)
	assert.Equal(t, 48.0, d.BoundingWidth)
	assert.Equal(t, 60.0, d.BoundingHeight)
	assert.Equal(t, 48.0, d.ChargeWidth)
	assert.Equal(t, 60.0, d.ChargeHeight)
	assert.Equal(t, 48.0, d.WasteWidth)
	assert.Equal(t, 36.0, d.WasteHeight)
	assert.True(t, d.UsableWaste)
	assert.InDelta(t, 20.0, d.MaterialUsedSqFt, 1e-9)
	assert.InDelta(t, 18.0, d.PieceAreaSqFt, 1e-9)
	assert.InDelta(t, 2.0, d.ScrapSqFt, 1e-9)
	assert.InDelta(t, 12.0, d.WasteSqFt, 1e-9)
	assert.InDelta(t, 28.125, d.Cost, 1e-9)
	assert.Len(t, d.Placements(), 18)
}

func TestCalculatePartialSheet_PrefersLowestHeight(t *testing.T) {
	// Five 10x14 pieces: upright they need two 14in rows, turned they fit
	// in two 10in rows.
	d, err := CalculatePartialSheet(10, 14, stdSheet, 5, 2)
	require.NoError(t, err)

	assert.Equal(t, 0, d.NormalCount)
	assert.Equal(t, 5, d.RotatedCount)
	assert.Equal(t, 20.0, d.BoundingHeight)
	assert.Equal(t, 42.0, d.BoundingWidth)
	assert.Equal(t, 24.0, d.ChargeHeight)
	assert.Equal(t, 72.0, d.WasteHeight)
	assert.InDelta(t, 10.0, d.Cost, 1e-9)
}

func TestCalculatePartialSheet_FallsBackToTurnedSheet(t *testing.T) {
	// 29 pieces of 10x14 do not fit 48x96 with bands across the 48in width.
	d, err := CalculatePartialSheet(10, 14, stdSheet, 29, 1)
	require.NoError(t, err)

	assert.True(t, d.SheetTurned)
	assert.Equal(t, 96.0, d.SheetWidth)
	assert.Equal(t, 18, d.NormalCount)
	assert.Equal(t, 11, d.RotatedCount)
	assert.Equal(t, 48.0, d.BoundingHeight)
	assert.Equal(t, 48.0, d.ChargeHeight, "charge height is capped at the sheet height")
	assert.Equal(t, 0.0, d.WasteHeight)
	assert.False(t, d.UsableWaste)
}

func TestCalculatePartialSheet_CannotNest(t *testing.T) {
	_, err := CalculatePartialSheet(60, 30, stdSheet, 3, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrCannotNest))
	assert.Equal(t, model.KindCannotNest, model.ErrorKindOf(err))
}

func TestCalculatePartialSheet_NoRemainder(t *testing.T) {
	d, err := CalculatePartialSheet(12, 12, stdSheet, 0, 1)
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestIsUsableWaste(t *testing.T) {
	assert.True(t, IsUsableWaste(48, 10))
	assert.False(t, IsUsableWaste(48, 0))
	assert.True(t, IsUsableWaste(24, 1))
	assert.False(t, IsUsableWaste(23.9, 50))
}

func TestCalculatePartialSheet_WasteFlagFromLayout(t *testing.T) {
	// 48x46 sheet, nine 12x12 pieces: three rows, 36in charged, 10in left.
	sheet := model.SheetSpec{Width: 48, Height: 46, Cost: 40}
	d, err := CalculatePartialSheet(12, 12, sheet, 9, 1)
	require.NoError(t, err)
	assert.Equal(t, 36.0, d.ChargeHeight)
	assert.Equal(t, 10.0, d.WasteHeight)
	assert.True(t, d.UsableWaste)

	// 48x48 sheet, thirteen pieces: four rows use the whole sheet.
	sheet = model.SheetSpec{Width: 48, Height: 48, Cost: 40}
	d, err = CalculatePartialSheet(12, 12, sheet, 13, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d.WasteHeight)
	assert.False(t, d.UsableWaste)
}
