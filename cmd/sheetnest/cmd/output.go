package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/piwi3910/SheetNest/internal/catalog"
	"github.com/piwi3910/SheetNest/internal/quote"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00AA66"))
	totalStyle = lipgloss.NewStyle().Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#CC3333"))
)

func money(symbol string, v float64) string {
	return symbol + quote.Money(v).StringFixed(2)
}

func printQuote(w io.Writer, q quote.Quote, symbol string) {
	r := q.Result
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Quote %s: %s", q.ID, q.Label)))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Material\t%s\n", q.Material)
	fmt.Fprintf(tw, "Piece\t%g x %g in x %d\n", r.PieceWidth, r.PieceHeight, r.Quantity)
	fmt.Fprintf(tw, "Sheet\t%g x %g in @ %s\n", r.Sheet.Width, r.Sheet.Height, money(symbol, r.Sheet.Cost))
	fmt.Fprintf(tw, "Pattern\t%s\n", r.Pattern.Description)
	if len(r.OversizeRulesApplied) > 0 {
		fmt.Fprintf(tw, "Per sheet\t%d (oversize rules %v)\n", r.MaxPiecesPerSheet, r.OversizeRulesApplied)
	} else {
		fmt.Fprintf(tw, "Per sheet\t%d\n", r.MaxPiecesPerSheet)
	}
	fmt.Fprintf(tw, "Sheets\t%.4f used, %.4f billed\n", r.RawSheetsUsed, r.BillableSheets)
	if r.VolumeTier != nil {
		fmt.Fprintf(tw, "Volume tier\t%s @ %s\n", r.VolumeTier, money(symbol, r.EffectiveSheetCost))
	}
	perPiece := money(symbol, r.PricePerPiece)
	if r.PriceFloorApplied {
		perPiece += " (minimum)"
	}
	fmt.Fprintf(tw, "Per piece\t%s\n", perPiece)
	if r.FullSheets > 0 {
		fmt.Fprintf(tw, "Full sheets\t%d\n", r.FullSheets)
	}
	if d := r.PartialSheet; d != nil {
		fmt.Fprintf(tw, "Partial sheet\t%d pieces, %g x %g in charged, %s\n", d.Pieces, d.ChargeWidth, d.ChargeHeight, money(symbol, d.Cost))
		if d.UsableWaste {
			fmt.Fprintf(tw, "Usable offcut\t%g x %g in\n", d.WasteWidth, d.WasteHeight)
		}
	}
	tw.Flush()

	fmt.Fprintln(w, totalStyle.Render("Total: "+money(symbol, r.TotalPrice)))
}

func printBatch(w io.Writer, quotes []quote.Quote, symbol string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL\tMATERIAL\tPIECE\tQTY\tSHEETS\tPER PIECE\tTOTAL")
	for _, q := range quotes {
		s := q.Summary()
		if s.Error != "" {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t\t\t%s\n", s.ID, s.Label, s.Material, s.Piece, s.Quantity, errorStyle.Render(s.Error))
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			s.ID, s.Label, s.Material, s.Piece, s.Quantity, s.Sheets, symbol+s.PricePerPiece, symbol+s.Total)
	}
	tw.Flush()

	fmt.Fprintln(w, totalStyle.Render("Grand total: "+symbol+quote.Total(quotes).StringFixed(2)))
}

func printBreaks(w io.Writer, material string, width, height float64, breaks []quote.PriceBreak, symbol string) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Price breaks: %gx%g on %s", width, height, material)))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "QTY\tSHEETS\tPER PIECE\tTOTAL\t")
	for _, b := range breaks {
		perPiece := money(symbol, b.PricePerPiece)
		if b.FloorApplied {
			perPiece += "*"
		}
		fmt.Fprintf(tw, "%d\t%.4f\t%s\t%s\t\n", b.Quantity, b.BillableSheets, perPiece, money(symbol, b.Total))
	}
	tw.Flush()
}

func printCatalog(w io.Writer, c catalog.Catalog, symbol string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSHEET\tCOST\tROUNDING\tMIN PRICE\tTIERS\tRULES")
	for _, m := range c.Materials {
		p := m.Pricing
		minPrice := "-"
		if p.MinPricePerItem != nil {
			minPrice = money(symbol, *p.MinPricePerItem)
		}
		fmt.Fprintf(tw, "%s\t%s\t%gx%g\t%s\t%s\t%s\t%d\t%d\n",
			m.ID, m.Name, p.Sheet.Width, p.Sheet.Height, money(symbol, p.Sheet.Cost),
			p.Charging.RoundingMode, minPrice, len(p.Volume.Tiers), len(p.Charging.OversizeRules))
	}
	tw.Flush()
}
