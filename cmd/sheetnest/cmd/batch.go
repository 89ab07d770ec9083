package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/SheetNest/internal/catalog"
	"github.com/piwi3910/SheetNest/internal/export"
	"github.com/piwi3910/SheetNest/internal/importer"
	"github.com/piwi3910/SheetNest/internal/logging"
	"github.com/piwi3910/SheetNest/internal/quote"
)

type batchOptions struct {
	material string
	xlsxPath string
	pdfPath  string
}

func newBatchCmd(a *app) *cobra.Command {
	opts := &batchOptions{}
	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Price every line of a CSV or Excel order file",
		Long: `Import quote lines from a CSV or Excel file and price each one against
the materials catalog. Columns are matched by header name (label, width,
height, quantity, material); without a header they are read in that order.

Lines that cannot be priced are reported and skipped.

Examples:
  sheetnest batch orders.csv
  sheetnest batch orders.xlsx -o quotes.xlsx --pdf quotes.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, a, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.material, "material", "m", "", "material for lines without one (default from config)")
	cmd.Flags().StringVarP(&opts.xlsxPath, "output", "o", "", "write the priced batch to this Excel file")
	cmd.Flags().StringVar(&opts.pdfPath, "pdf", "", "write the batch quote as PDF to this path")
	return cmd
}

func runBatch(cmd *cobra.Command, a *app, opts *batchOptions, path string) error {
	imported := importer.ImportFile(path)
	for _, w := range imported.Warnings {
		a.log.Debug("import", zap.String("file", path), zap.String("note", w))
	}
	for _, e := range imported.Errors {
		a.log.Warn("import", zap.String("file", path), zap.String("error", e))
	}
	if len(imported.Lines) == 0 {
		return fmt.Errorf("no valid lines in %s", path)
	}

	c, err := a.loadCatalog()
	if err != nil {
		return err
	}
	material := opts.material
	if material == "" {
		material = a.cfg.DefaultMaterial
	}

	quotes := quote.Batch(&c, material, imported.Lines, logging.Tracer(a.log))
	failed := 0
	for _, q := range quotes {
		if q.OK() {
			continue
		}
		failed++
		if errors.Is(q.Err, catalog.ErrMaterialNotFound) {
			a.log.Warn("unknown material", zap.String("label", q.Label), zap.String("material", q.Material))
			continue
		}
		a.reportError(q.Label, q.Err)
	}
	a.log.Info("batch priced",
		zap.Int("lines", len(quotes)),
		zap.Int("failed", failed),
		zap.String("total", quote.Total(quotes).StringFixed(2)))

	printBatch(cmd.OutOrStdout(), quotes, a.cfg.CurrencySymbol)

	if opts.xlsxPath != "" {
		path, err := a.outputPath(opts.xlsxPath)
		if err != nil {
			return err
		}
		if err := export.BatchXLSX(path, quotes); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
		a.log.Info("wrote batch workbook", zap.String("path", path))
	}
	if opts.pdfPath != "" {
		path, err := a.outputPath(opts.pdfPath)
		if err != nil {
			return err
		}
		if err := export.BatchPDF(path, quotes, a.pdfOptions()); err != nil {
			return fmt.Errorf("failed to write PDF: %w", err)
		}
		a.log.Info("wrote batch PDF", zap.String("path", path))
	}

	if failed == len(quotes) {
		return fmt.Errorf("none of the %d lines could be priced", failed)
	}
	return nil
}
