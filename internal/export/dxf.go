package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/SheetNest/internal/model"
)

// DXF layer names.
const (
	LayerSheet  = "SHEET"
	LayerPieces = "PIECES"
)

// partialOffset is the gap in inches between the full and partial sheet.
const partialOffset = 12.0

// Rect is an axis-aligned rectangle in DXF coordinates (inches, Y up).
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// LayoutRects returns the sheet outlines and piece rectangles for a result.
// A full sheet is drawn with its charged layout only when the order fills at
// least one; the partial sheet, when present, sits to its right.
// Sheet-local coordinates run top-down, so Y is flipped for DXF.
func LayoutRects(r *model.NestingResult) (sheets, pieces []Rect) {
	x := 0.0
	if r.FullSheets > 0 {
		l := r.Layout
		sheets = append(sheets, Rect{Width: l.SheetWidth, Height: l.SheetHeight})
		pieces = append(pieces, flip(l.Placements(), 0, l.SheetHeight)...)
		x = l.SheetWidth + partialOffset
	}

	if d := r.PartialSheet; d != nil {
		sheets = append(sheets, Rect{X: x, Width: d.SheetWidth, Height: d.SheetHeight})
		pieces = append(pieces, flip(d.Placements(), x, d.SheetHeight)...)
	}
	return sheets, pieces
}

func flip(placements []model.Placement, offsetX, sheetHeight float64) []Rect {
	out := make([]Rect, 0, len(placements))
	for _, pl := range placements {
		out = append(out, Rect{
			X:      offsetX + pl.X,
			Y:      sheetHeight - pl.Y - pl.Height,
			Width:  pl.Width,
			Height: pl.Height,
		})
	}
	return out
}

// LayoutDXF writes the nesting layout as closed rectangles of LINE entities,
// sheet outlines on layer SHEET and pieces on layer PIECES.
func LayoutDXF(path string, r *model.NestingResult) error {
	if r == nil {
		return fmt.Errorf("no result to export")
	}
	sheets, pieces := LayoutRects(r)

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(LayerSheet, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", LayerSheet, err)
	}
	for _, s := range sheets {
		if err := drawRect(d, s); err != nil {
			return err
		}
	}

	if _, err := d.AddLayer(LayerPieces, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", LayerPieces, err)
	}
	for _, pc := range pieces {
		if err := drawRect(d, pc); err != nil {
			return err
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

func drawRect(d *drawing.Drawing, r Rect) error {
	corners := [][2]float64{
		{r.X, r.Y},
		{r.X + r.Width, r.Y},
		{r.X + r.Width, r.Y + r.Height},
		{r.X, r.Y + r.Height},
	}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			return fmt.Errorf("failed to draw line: %w", err)
		}
	}
	return nil
}
