package model

import "fmt"

// PatternKind identifies how a nesting pattern was produced.
type PatternKind string

const (
	PatternGrid  PatternKind = "grid"  // Single straight grid, one orientation
	PatternMixed PatternKind = "mixed" // Two stacked bands, normal and rotated
)

// Placement is one piece positioned on a sheet, origin at the top-left corner.
type Placement struct {
	X       float64 `json:"x"`      // inches from left edge
	Y       float64 `json:"y"`      // inches from top edge
	Width   float64 `json:"width"`  // placed width, after rotation
	Height  float64 `json:"height"` // placed height, after rotation
	Rotated bool    `json:"rotated"`
}

// Band is a full-width strip of identically oriented pieces.
// PieceWidth and PieceHeight are the dimensions as placed.
type Band struct {
	Rotated     bool    `json:"rotated"`
	Columns     int     `json:"columns"` // pieces per full row
	Rows        int     `json:"rows"`
	Count       int     `json:"count"` // may leave the last row short
	PieceWidth  float64 `json:"piece_width"`
	PieceHeight float64 `json:"piece_height"`
}

// Height returns the strip height the band occupies.
func (b Band) Height() float64 {
	return float64(b.Rows) * b.PieceHeight
}

// Width returns the width actually covered by pieces.
func (b Band) Width() float64 {
	cols := b.Columns
	if b.Count < cols {
		cols = b.Count
	}
	return float64(cols) * b.PieceWidth
}

// Placements lays the band's pieces out row by row starting at offsetY.
func (b Band) Placements(offsetY float64) []Placement {
	if b.Count <= 0 || b.Columns <= 0 {
		return nil
	}
	out := make([]Placement, 0, b.Count)
	for i := 0; i < b.Count; i++ {
		row, col := i/b.Columns, i%b.Columns
		out = append(out, Placement{
			X:       float64(col) * b.PieceWidth,
			Y:       offsetY + float64(row)*b.PieceHeight,
			Width:   b.PieceWidth,
			Height:  b.PieceHeight,
			Rotated: b.Rotated,
		})
	}
	return out
}

func (b Band) String() string {
	orient := "normal"
	if b.Rotated {
		orient = "rotated"
	}
	return fmt.Sprintf("%d %s (%d x %d of %gx%g)", b.Count, orient, b.Columns, b.Rows, b.PieceWidth, b.PieceHeight)
}

func layoutBands(bands []Band) []Placement {
	var out []Placement
	y := 0.0
	for _, b := range bands {
		out = append(out, b.Placements(y)...)
		y += b.Height()
	}
	return out
}

// NestingPattern is the arrangement chosen for one full sheet.
type NestingPattern struct {
	Kind         PatternKind `json:"kind"`
	Description  string      `json:"description"`
	SheetWidth   float64     `json:"sheet_width"`  // orientation the pattern was laid out in
	SheetHeight  float64     `json:"sheet_height"` // orientation the pattern was laid out in
	SheetTurned  bool        `json:"sheet_turned"` // true when width/height are swapped from the configured sheet
	Bands        []Band      `json:"bands"`
	TotalPieces  int         `json:"total_pieces"`
	Efficiency   int         `json:"efficiency"` // percent of sheet area covered, rounded
	CostPerPiece float64     `json:"cost_per_piece"`
}

// Placements expands the pattern into positioned pieces.
func (p NestingPattern) Placements() []Placement {
	return layoutBands(p.Bands)
}

// NormalCount returns how many pieces sit in their requested orientation.
func (p NestingPattern) NormalCount() int {
	n := 0
	for _, b := range p.Bands {
		if !b.Rotated {
			n += b.Count
		}
	}
	return n
}

// RotatedCount returns how many pieces are turned 90°.
func (p NestingPattern) RotatedCount() int {
	return p.TotalPieces - p.NormalCount()
}

// PartialSheetDetails describes the last, partly used sheet.
type PartialSheetDetails struct {
	Pieces       int     `json:"pieces"`
	NormalCount  int     `json:"normal_count"`
	RotatedCount int     `json:"rotated_count"`
	Bands        []Band  `json:"bands"`
	SheetWidth   float64 `json:"sheet_width"`
	SheetHeight  float64 `json:"sheet_height"`
	SheetTurned  bool    `json:"sheet_turned"`

	BoundingWidth  float64 `json:"bounding_width"`  // widest band actually covered
	BoundingHeight float64 `json:"bounding_height"` // consumed height before rounding
	ChargeWidth    float64 `json:"charge_width"`    // always the full sheet width
	ChargeHeight   float64 `json:"charge_height"`   // rounded up to a linear foot

	WasteWidth  float64 `json:"waste_width"`
	WasteHeight float64 `json:"waste_height"`
	UsableWaste bool    `json:"usable_waste"` // reporting only, never priced

	MaterialUsedSqFt float64 `json:"material_used_sqft"` // charge footprint
	PieceAreaSqFt    float64 `json:"piece_area_sqft"`
	ScrapSqFt        float64 `json:"scrap_sqft"` // footprint not covered by pieces
	WasteSqFt        float64 `json:"waste_sqft"` // leftover strip after the footprint

	Cost float64 `json:"cost"`
}

// Placements expands the partial sheet bands into positioned pieces.
func (d PartialSheetDetails) Placements() []Placement {
	return layoutBands(d.Bands)
}

// NestingResult is the full pricing breakdown for one request.
type NestingResult struct {
	PieceWidth  float64   `json:"piece_width"`
	PieceHeight float64   `json:"piece_height"`
	Quantity    int       `json:"quantity"`
	Sheet       SheetSpec `json:"sheet"`

	Pattern               NestingPattern `json:"pattern"`
	// Layout is a full sheet as charged. It is the grid forced by a full-axis
	// oversize rule when one fired, otherwise the same as Pattern.
	Layout                NestingPattern `json:"layout"`
	PatternPiecesPerSheet int            `json:"pattern_pieces_per_sheet"` // before oversize rules
	MaxPiecesPerSheet     int            `json:"max_pieces_per_sheet"`
	OversizeRulesApplied  []int          `json:"oversize_rules_applied,omitempty"` // 0-based rule indexes
	MinSheetFraction      float64        `json:"min_sheet_fraction"`

	RawSheetsUsed       float64     `json:"raw_sheets_used"`
	BillableSheets      float64     `json:"billable_sheets"`
	EffectiveSheetCount int         `json:"effective_sheet_count"`
	EffectiveSheetCost  float64     `json:"effective_sheet_cost"`
	VolumeTier          *VolumeTier `json:"volume_tier,omitempty"`

	PricePerPiece       float64 `json:"price_per_piece"`
	PriceFloorApplied   bool    `json:"price_floor_applied"`
	TotalPrice          float64 `json:"total_price"`
	AverageCostPerPiece float64 `json:"average_cost_per_piece"`

	FullSheets      int                  `json:"full_sheets"`
	RemainingPieces int                  `json:"remaining_pieces"`
	PartialSheet    *PartialSheetDetails `json:"partial_sheet,omitempty"`
}

// MaterialCost is the sheet cost before the per-item price floor.
func (r NestingResult) MaterialCost() float64 {
	return r.EffectiveSheetCost * r.BillableSheets
}
