package engine

import (
	"testing"

	"github.com/piwi3910/SheetNest/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestPattern_MixedBeatsGrid(t *testing.T) {
	// A straight grid of 10x14 manages 27 on a 48x96 sheet; two bands on
	// the turned sheet take 30.
	p, ok := BestPattern(10, 14, stdSheet)
	require.True(t, ok)

	assert.Equal(t, model.PatternMixed, p.Kind)
	assert.Equal(t, 30, p.TotalPieces)
	assert.Equal(t, 91, p.Efficiency)
	assert.True(t, p.SheetTurned)
	assert.Equal(t, 96.0, p.SheetWidth)
	assert.Equal(t, 48.0, p.SheetHeight)

	require.Len(t, p.Bands, 2)
	assert.False(t, p.Bands[0].Rotated)
	assert.Equal(t, 18, p.Bands[0].Count)
	assert.True(t, p.Bands[1].Rotated)
	assert.Equal(t, 12, p.Bands[1].Count)
	assert.Equal(t, 18, p.NormalCount())
	assert.Equal(t, 12, p.RotatedCount())
	assert.InDelta(t, 50.0/30, p.CostPerPiece, 1e-9)
	assert.Contains(t, p.Description, "30 per sheet")
}

func TestBestPattern_GridWinsTies(t *testing.T) {
	p, ok := BestPattern(12, 12, stdSheet)
	require.True(t, ok)
	assert.Equal(t, model.PatternGrid, p.Kind)
	assert.Equal(t, 32, p.TotalPieces)
	assert.False(t, p.SheetTurned)
	assert.Equal(t, "4 x 8 grid of 12x12 (32 per sheet)", p.Description)
}

func TestBestPattern_NoFit(t *testing.T) {
	_, ok := BestPattern(100, 100, stdSheet)
	assert.False(t, ok)
}

func TestBestPattern_OrientationInvariance(t *testing.T) {
	pieces := [][2]float64{
		{10, 14}, {12, 12}, {7, 30}, {13.5, 9.25}, {24, 36}, {47, 20}, {5, 11}, {60, 40},
	}
	for _, pc := range pieces {
		w, h := pc[0], pc[1]
		base, ok := BestPattern(w, h, stdSheet)
		require.True(t, ok, "%gx%g", w, h)

		turned, ok := BestPattern(w, h, stdSheet.Turned())
		require.True(t, ok)
		assert.Equal(t, base.TotalPieces, turned.TotalPieces, "sheet turned, piece %gx%g", w, h)

		swapped, ok := BestPattern(h, w, stdSheet)
		require.True(t, ok)
		assert.Equal(t, base.TotalPieces, swapped.TotalPieces, "piece swapped, piece %gx%g", w, h)
	}
}

func TestBestPattern_MatchesExhaustiveMaximum(t *testing.T) {
	for _, pc := range [][2]float64{{10, 14}, {7, 30}, {13.5, 9.25}} {
		all := SearchPatterns(pc[0], pc[1], stdSheet)
		most := 0
		for _, p := range all {
			if p.TotalPieces > most {
				most = p.TotalPieces
			}
		}
		best, ok := BestPattern(pc[0], pc[1], stdSheet)
		require.True(t, ok)
		assert.Equal(t, most, best.TotalPieces)
		assert.LessOrEqual(t, best.TotalPieces, areaBound(pc[0], pc[1], stdSheet))
	}
}

func TestSearchPatterns_PlacementsStayOnSheet(t *testing.T) {
	for _, p := range SearchPatterns(10, 14, stdSheet) {
		placements := p.Placements()
		require.Len(t, placements, p.TotalPieces, p.Description)
		for i, a := range placements {
			assert.LessOrEqual(t, a.X+a.Width, p.SheetWidth+epsilon, p.Description)
			assert.LessOrEqual(t, a.Y+a.Height, p.SheetHeight+epsilon, p.Description)
			for _, b := range placements[i+1:] {
				overlap := a.X < b.X+b.Width-epsilon && b.X < a.X+a.Width-epsilon &&
					a.Y < b.Y+b.Height-epsilon && b.Y < a.Y+a.Height-epsilon
				assert.False(t, overlap, "%s: %+v overlaps %+v", p.Description, a, b)
			}
		}
	}
}
