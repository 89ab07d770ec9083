package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SheetNest/internal/quote"
)

const batchSheet = "Quotes"

var batchHeaders = []string{
	"ID", "Label", "Material", "Width (in)", "Height (in)", "Quantity",
	"Per Sheet", "Sheets Billed", "Sheet Cost", "Price Per Piece", "Total", "Error",
}

// BatchXLSX writes one row per quote plus a grand total row. Money columns
// hold numbers rounded to cents so the sheet can be summed again.
func BatchXLSX(path string, quotes []quote.Quote) error {
	if len(quotes) == 0 {
		return fmt.Errorf("no quotes to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", batchSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for col, header := range batchHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(batchSheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, q := range quotes {
		values := []interface{}{
			q.ID, q.Label, q.Material,
			q.Request.PieceWidth, q.Request.PieceHeight, q.Request.Quantity,
		}
		if q.OK() {
			r := q.Result
			values = append(values,
				r.MaxPiecesPerSheet,
				r.BillableSheets,
				quote.Money(r.EffectiveSheetCost).InexactFloat64(),
				quote.Money(r.PricePerPiece).InexactFloat64(),
				quote.Money(r.TotalPrice).InexactFloat64(),
				"",
			)
		} else if q.Err != nil {
			values = append(values, "", "", "", "", "", quote.DisplayError(q.Err))
		}

		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(batchSheet, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d: %w", i+2, err)
			}
		}
	}

	totalRow := len(quotes) + 2
	labelCell, _ := excelize.CoordinatesToCellName(len(batchHeaders)-2, totalRow)
	totalCell, _ := excelize.CoordinatesToCellName(len(batchHeaders)-1, totalRow)
	if err := f.SetCellValue(batchSheet, labelCell, "Grand Total"); err != nil {
		return err
	}
	if err := f.SetCellValue(batchSheet, totalCell, quote.Total(quotes).InexactFloat64()); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(batchHeaders), 1)
	if err := f.SetCellStyle(batchSheet, "A1", lastHeader, bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(batchSheet, labelCell, totalCell, bold); err != nil {
		return err
	}
	if err := f.SetColWidth(batchSheet, "B", "C", 22); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
