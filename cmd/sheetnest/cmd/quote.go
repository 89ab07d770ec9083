package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/SheetNest/internal/export"
	"github.com/piwi3910/SheetNest/internal/model"
	"github.com/piwi3910/SheetNest/internal/quote"
)

type quoteOptions struct {
	material string
	label    string
	jsonOut  bool
	pdfPath  string
	dxfPath  string

	sheetCost float64
	rounding  string
	minPrice  float64
}

func newQuoteCmd(a *app) *cobra.Command {
	opts := &quoteOptions{}
	cmd := &cobra.Command{
		Use:   "quote WIDTH HEIGHT QUANTITY",
		Short: "Price one order of identical pieces",
		Long: `Nest QUANTITY pieces of WIDTH x HEIGHT inches on the material's stock
sheet and print the pricing breakdown.

Examples:
  sheetnest quote 12 12 50
  sheetnest quote 10 14 75 --material "Coroplast 4mm" --json
  sheetnest quote 24 18 4 --material "Acrylic 1/8" --pdf quote.pdf --dxf layout.dxf`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(cmd, a, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.material, "material", "m", "", "catalog material name or ID (default from config)")
	cmd.Flags().StringVarP(&opts.label, "label", "l", "", "job label shown on the quote")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the quote summary and full result as JSON")
	cmd.Flags().StringVar(&opts.pdfPath, "pdf", "", "write a PDF quote to this path")
	cmd.Flags().StringVar(&opts.dxfPath, "dxf", "", "write the cut layout as DXF to this path")
	cmd.Flags().Float64Var(&opts.sheetCost, "sheet-cost", 0, "override the material's cost per sheet")
	cmd.Flags().StringVar(&opts.rounding, "rounding", "", "override sheet rounding (exact, quarter, half, full)")
	cmd.Flags().Float64Var(&opts.minPrice, "min-price", 0, "override the minimum price per piece")
	return cmd
}

// applyOverrides copies the flags the user set onto the material's pricing.
func applyOverrides(cmd *cobra.Command, cfg model.PricingConfig, opts *quoteOptions) model.PricingConfig {
	if cmd.Flags().Changed("sheet-cost") {
		cfg.Sheet.Cost = opts.sheetCost
	}
	if cmd.Flags().Changed("rounding") {
		cfg.Charging.RoundingMode = model.RoundingMode(opts.rounding)
	}
	if cmd.Flags().Changed("min-price") {
		v := opts.minPrice
		cfg.MinPricePerItem = &v
	}
	return cfg
}

func runQuote(cmd *cobra.Command, a *app, opts *quoteOptions, args []string) error {
	w, h, err := parseDimensions(args[0], args[1])
	if err != nil {
		return err
	}
	qty, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid quantity %q", args[2])
	}

	m, err := a.material(opts.material)
	if err != nil {
		return err
	}
	p, err := a.pricer(applyOverrides(cmd, m.Pricing, opts))
	if err != nil {
		return fmt.Errorf("material %s: %w", m.Name, err)
	}

	label := opts.label
	if label == "" {
		label = fmt.Sprintf("%gx%g", w, h)
	}
	q := quote.New(p, m.Name, model.NewQuoteLine(label, w, h, qty))
	if !q.OK() {
		a.reportError(label, q.Err)
		return errors.New(quote.DisplayError(q.Err))
	}
	a.log.Debug("quote priced", zap.String("id", q.ID), zap.Float64("total", q.Result.TotalPrice))

	out := cmd.OutOrStdout()
	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(struct {
			Summary quote.Summary        `json:"summary"`
			Result  *model.NestingResult `json:"result"`
		}{q.Summary(), q.Result}); err != nil {
			return err
		}
	} else {
		printQuote(out, q, a.cfg.CurrencySymbol)
	}

	if opts.pdfPath != "" {
		path, err := a.outputPath(opts.pdfPath)
		if err != nil {
			return err
		}
		if err := export.QuotePDF(path, q, a.pdfOptions()); err != nil {
			return fmt.Errorf("failed to write PDF: %w", err)
		}
		a.log.Info("wrote quote PDF", zap.String("path", path))
	}
	if opts.dxfPath != "" {
		path, err := a.outputPath(opts.dxfPath)
		if err != nil {
			return err
		}
		if err := export.LayoutDXF(path, q.Result); err != nil {
			return fmt.Errorf("failed to write DXF: %w", err)
		}
		a.log.Info("wrote layout DXF", zap.String("path", path))
	}
	return nil
}

func (a *app) pdfOptions() export.PDFOptions {
	return export.PDFOptions{
		CompanyName:    a.cfg.CompanyName,
		CurrencySymbol: a.cfg.CurrencySymbol,
		ValidDays:      a.cfg.QuoteValidDays,
	}
}
