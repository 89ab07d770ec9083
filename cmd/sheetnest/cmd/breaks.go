package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SheetNest/internal/quote"
)

func newBreaksCmd(a *app) *cobra.Command {
	var (
		material   string
		quantities []int
	)
	cmd := &cobra.Command{
		Use:   "breaks WIDTH HEIGHT",
		Short: "Print a price-break table for one piece",
		Long: `Price the same piece at several quantities. Without --qty the
quantities come from the config file, or are derived from how many pieces
fit on a sheet (1, half a sheet, a sheet, then 2, 5 and 10 sheets).

Examples:
  sheetnest breaks 12 12
  sheetnest breaks 10 14 --material "Coroplast 4mm" --qty 10,50,100,500`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, h, err := parseDimensions(args[0], args[1])
			if err != nil {
				return err
			}
			m, err := a.material(material)
			if err != nil {
				return err
			}
			p, err := a.pricer(m.Pricing)
			if err != nil {
				return fmt.Errorf("material %s: %w", m.Name, err)
			}

			if len(quantities) == 0 {
				quantities = a.cfg.BreakQuantities
			}
			if len(quantities) == 0 {
				single, err := p.CalculatePricingWithWaste(w, h, 1)
				if err != nil {
					a.reportError(fmt.Sprintf("%gx%g", w, h), err)
					return errors.New(quote.DisplayError(err))
				}
				quantities = quote.DefaultBreakQuantities(single.MaxPiecesPerSheet)
			}

			breaks, err := quote.PriceBreaks(p, w, h, quantities)
			if err != nil {
				a.reportError(fmt.Sprintf("%gx%g", w, h), err)
				return err
			}
			printBreaks(cmd.OutOrStdout(), m.Name, w, h, breaks, a.cfg.CurrencySymbol)
			return nil
		},
	}

	cmd.Flags().StringVarP(&material, "material", "m", "", "catalog material name or ID (default from config)")
	cmd.Flags().IntSliceVar(&quantities, "qty", nil, "comma-separated quantities to price")
	return cmd
}
