// Package export writes quotes and nesting layouts to PDF, Excel and DXF.
package export

import (
	"fmt"
	"math"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/SheetNest/internal/model"
	"github.com/piwi3910/SheetNest/internal/quote"
)

// pieceColor represents an RGB fill color for placed pieces.
type pieceColor struct {
	R, G, B int
}

var (
	normalColor  = pieceColor{R: 76, G: 175, B: 80}  // green
	rotatedColor = pieceColor{R: 33, G: 150, B: 243} // blue
	chargeColor  = pieceColor{R: 255, G: 224, B: 178}
	wasteColor   = pieceColor{R: 200, G: 230, B: 201}
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 8.0
	diagramGap   = 20.0
)

// PDFOptions controls the document header and money formatting.
type PDFOptions struct {
	CompanyName    string
	CurrencySymbol string
	ValidDays      int // 0 omits the expiry line
}

func (o PDFOptions) money(v float64) string {
	return o.CurrencySymbol + quote.Money(v).StringFixed(2)
}

// QuotePDF writes a customer quote: a breakdown page with a QR code
// followed by a page with the full and partial sheet layouts.
func QuotePDF(path string, q quote.Quote, opts PDFOptions) error {
	if !q.OK() {
		return fmt.Errorf("quote %s has no result to export", q.ID)
	}

	pdf := newDocument()
	if err := renderQuote(pdf, q, opts); err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// BatchPDF writes a summary page for all quotes followed by the pages of
// every priced quote. Failed lines appear only in the summary.
func BatchPDF(path string, quotes []quote.Quote, opts PDFOptions) error {
	if len(quotes) == 0 {
		return fmt.Errorf("no quotes to export")
	}

	pdf := newDocument()
	pdf.AddPage()
	renderBatchSummary(pdf, quotes, opts)

	for _, q := range quotes {
		if !q.OK() {
			continue
		}
		if err := renderQuote(pdf, q, opts); err != nil {
			return err
		}
	}
	return pdf.OutputFileAndClose(path)
}

func newDocument() *fpdf.Fpdf {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	return pdf
}

func renderQuote(pdf *fpdf.Fpdf, q quote.Quote, opts PDFOptions) error {
	pdf.AddPage()
	renderHeader(pdf, opts, fmt.Sprintf("Quote %s: %s", q.ID, q.Label))
	if err := renderBreakdown(pdf, q, opts); err != nil {
		return err
	}

	pdf.AddPage()
	renderHeader(pdf, opts, fmt.Sprintf("Layout %s: %s", q.ID, q.Label))
	renderLayouts(pdf, q.Result)
	return nil
}

func renderHeader(pdf *fpdf.Fpdf, opts PDFOptions, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	if opts.CompanyName != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetXY(marginLeft, marginTop)
		pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, opts.CompanyName, "", 0, "R", false, 0, "")
	}

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+headerHeight+2, pageWidth-marginRight, marginTop+headerHeight+2)
}

type row struct {
	label string
	value string
}

// breakdownRows lists the pricing steps in the order they were applied.
func breakdownRows(q quote.Quote, opts PDFOptions) []row {
	r := q.Result
	rows := []row{
		{"Material", q.Material},
		{"Piece", fmt.Sprintf("%g x %g in", r.PieceWidth, r.PieceHeight)},
		{"Quantity", fmt.Sprintf("%d", r.Quantity)},
		{"Sheet", fmt.Sprintf("%g x %g in @ %s", r.Sheet.Width, r.Sheet.Height, opts.money(r.Sheet.Cost))},
		{"Pattern", r.Pattern.Description},
		{"Pieces per sheet", fmt.Sprintf("%d", r.MaxPiecesPerSheet)},
	}
	if len(r.OversizeRulesApplied) > 0 {
		rows = append(rows, row{"Oversize capacity", fmt.Sprintf("%d (pattern %d)", r.MaxPiecesPerSheet, r.PatternPiecesPerSheet)})
		if r.Layout.Description != r.Pattern.Description {
			rows = append(rows, row{"Charged layout", r.Layout.Description})
		}
	}
	rows = append(rows,
		row{"Sheets used", fmt.Sprintf("%.4f", r.RawSheetsUsed)},
		row{"Sheets billed", fmt.Sprintf("%.4f", r.BillableSheets)},
	)
	if r.VolumeTier != nil {
		rows = append(rows, row{"Volume tier", fmt.Sprintf("%s @ %s", r.VolumeTier, opts.money(r.EffectiveSheetCost))})
	}
	rows = append(rows,
		row{"Material cost", opts.money(r.MaterialCost())},
		row{"Price per piece", opts.money(r.PricePerPiece)},
	)
	if r.PriceFloorApplied {
		rows = append(rows, row{"Minimum price", "applied"})
	}
	rows = append(rows, row{"Total", opts.money(r.TotalPrice)})

	if r.FullSheets > 0 {
		rows = append(rows, row{"Full sheets", fmt.Sprintf("%d", r.FullSheets)})
	}
	if d := r.PartialSheet; d != nil {
		rows = append(rows,
			row{"Partial sheet", fmt.Sprintf("%d pieces, %g x %g in charged", d.Pieces, d.ChargeWidth, d.ChargeHeight)},
			row{"Partial sheet cost", opts.money(d.Cost)},
		)
		if d.UsableWaste {
			rows = append(rows, row{"Usable offcut", fmt.Sprintf("%g x %g in", d.WasteWidth, d.WasteHeight)})
		}
	}
	return rows
}

func renderBreakdown(pdf *fpdf.Fpdf, q quote.Quote, opts PDFOptions) error {
	y := drawAreaTop

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(80, 80, 80)
	pdf.SetXY(marginLeft, y-6)
	dated := "Issued " + q.CreatedAt.Format("2006-01-02")
	if opts.ValidDays > 0 {
		dated += ", valid until " + q.CreatedAt.Add(time.Duration(opts.ValidDays)*24*time.Hour).Format("2006-01-02")
	}
	pdf.CellFormat(150, 5, dated, "", 0, "L", false, 0, "")

	colWidths := []float64{55, 120}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(230, 230, 230)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(colWidths[0], 6, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colWidths[1], 6, "Value", "1", 0, "L", true, 0, "")
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, r := range breakdownRows(q, opts) {
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(colWidths[0], 6, r.label, "1", 0, "L", true, 0, "")
		pdf.CellFormat(colWidths[1], 6, r.value, "1", 0, "L", true, 0, "")
		y += 6
	}

	qrX := pageWidth - marginRight - qrSize
	if err := placeQR(pdf, q, qrX, drawAreaTop); err != nil {
		return err
	}
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(qrX, drawAreaTop+qrSize+1)
	pdf.CellFormat(qrSize, 4, "Scan for quote data", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}

// renderLayouts draws the charged full-sheet layout and the partial sheet
// side by side at the same scale, each only when the order uses one.
func renderLayouts(pdf *fpdf.Fpdf, r *model.NestingResult) {
	type diagram struct {
		title  string
		width  float64
		height float64
		draw   func(scale, x, y float64)
	}

	var diagrams []diagram
	if r.FullSheets > 0 {
		l := r.Layout
		diagrams = append(diagrams, diagram{
			title:  fmt.Sprintf("Full sheet x%d: %s", r.FullSheets, l.Description),
			width:  l.SheetWidth,
			height: l.SheetHeight,
			draw: func(scale, x, y float64) {
				drawSheet(pdf, l.SheetWidth, l.SheetHeight, scale, x, y)
				drawPieces(pdf, l.Placements(), scale, x, y)
			},
		})
	}
	if d := r.PartialSheet; d != nil {
		diagrams = append(diagrams, diagram{
			title:  fmt.Sprintf("Partial sheet: %d pieces, %g in charged", d.Pieces, d.ChargeHeight),
			width:  d.SheetWidth,
			height: d.SheetHeight,
			draw: func(scale, x, y float64) {
				drawSheet(pdf, d.SheetWidth, d.SheetHeight, scale, x, y)
				drawRegion(pdf, chargeColor, 0, 0, d.ChargeWidth, d.ChargeHeight, scale, x, y)
				if d.UsableWaste {
					drawRegion(pdf, wasteColor, 0, d.ChargeHeight, d.WasteWidth, d.WasteHeight, scale, x, y)
				}
				drawPieces(pdf, d.Placements(), scale, x, y)
			},
		})
	}
	if len(diagrams) == 0 {
		return
	}

	drawWidth := pageWidth - marginLeft - marginRight - diagramGap*float64(len(diagrams)-1)
	drawHeight := pageHeight - drawAreaTop - marginBottom - 10

	totalW := 0.0
	maxH := 0.0
	for _, dg := range diagrams {
		totalW += dg.width
		maxH = math.Max(maxH, dg.height)
	}
	scale := math.Min(drawWidth/totalW, drawHeight/maxH)

	x := marginLeft
	for _, dg := range diagrams {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetXY(x, drawAreaTop-6)
		pdf.CellFormat(dg.width*scale+diagramGap, 5, dg.title, "", 0, "L", false, 0, "")

		dg.draw(scale, x, drawAreaTop)
		drawDimensionAnnotations(pdf, dg.width, dg.height, x, drawAreaTop, dg.width*scale, dg.height*scale)
		x += dg.width*scale + diagramGap
	}
}

func drawSheet(pdf *fpdf.Fpdf, w, h, scale, offsetX, offsetY float64) {
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, w*scale, h*scale, "FD")
}

func drawRegion(pdf *fpdf.Fpdf, col pieceColor, x, y, w, h, scale, offsetX, offsetY float64) {
	if w <= 0 || h <= 0 {
		return
	}
	pdf.SetFillColor(col.R, col.G, col.B)
	pdf.SetDrawColor(150, 150, 150)
	pdf.SetLineWidth(0.2)
	pdf.Rect(offsetX+x*scale, offsetY+y*scale, w*scale, h*scale, "FD")
}

func drawPieces(pdf *fpdf.Fpdf, placements []model.Placement, scale, offsetX, offsetY float64) {
	for _, p := range placements {
		col := normalColor
		if p.Rotated {
			col = rotatedColor
		}
		pw := p.Width * scale
		ph := p.Height * scale
		px := offsetX + p.X*scale
		py := offsetY + p.Y*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 12 && ph > 6 {
			dims := fmt.Sprintf("%gx%g", p.Width, p.Height)
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)
			if dimsW := pdf.GetStringWidth(dims); dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2-2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}
}

// drawDimensionAnnotations adds width and height labels outside the sheet rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, w, h, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%g in", w)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%g in", h)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

func renderBatchSummary(pdf *fpdf.Fpdf, quotes []quote.Quote, opts PDFOptions) {
	renderHeader(pdf, opts, "Batch Quote Summary")

	y := drawAreaTop
	colWidths := []float64{20, 50, 45, 25, 20, 25, 30, 52}
	headers := []string{"ID", "Label", "Material", "Piece", "Qty", "Sheets", "Per piece", "Total"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 8)
	for i, q := range quotes {
		if y > pageHeight-marginBottom-12 {
			pdf.AddPage()
			y = marginTop
		}
		s := q.Summary()
		total := opts.CurrencySymbol + s.Total
		perPiece := opts.CurrencySymbol + s.PricePerPiece
		if s.Error != "" {
			total, perPiece = s.Error, ""
		}
		rowData := []string{s.ID, s.Label, s.Material, s.Piece, fmt.Sprintf("%d", s.Quantity), s.Sheets, perPiece, total}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos = marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, truncate(pdf, cell, colWidths[j]-2), "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	y += 4
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Grand total: "+opts.CurrencySymbol+quote.Total(quotes).StringFixed(2), "", 0, "L", false, 0, "")
}

// truncate shortens s with an ellipsis until it fits width.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 30:
		return 8
	case minDim > 15:
		return 7
	default:
		return 6
	}
}
