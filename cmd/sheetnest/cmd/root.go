// Package cmd provides the CLI commands for sheetnest.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/SheetNest/internal/catalog"
	"github.com/piwi3910/SheetNest/internal/config"
	"github.com/piwi3910/SheetNest/internal/engine"
	"github.com/piwi3910/SheetNest/internal/logging"
	"github.com/piwi3910/SheetNest/internal/model"
)

// Version is the CLI version, overridden at build time with -ldflags.
var Version = "0.1.0"

// app is the state shared by all commands of one invocation.
type app struct {
	configPath  string
	catalogPath string
	verbose     bool

	cfg config.AppConfig
	log *zap.Logger
}

// NewRootCmd builds the sheetnest command tree.
func NewRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "sheetnest",
		Short: "Nest pieces on stock sheets and price the job",
		Long: `sheetnest finds how many identical rectangular pieces fit on a stock
sheet and prices an order from the materials catalog: sheet rounding,
minimum charges, oversize rules, volume tiers and the partial last sheet.

Examples:
  sheetnest quote 12 12 50
  sheetnest quote 24 18 4 --material "Acrylic 1/8" --pdf quote.pdf
  sheetnest batch orders.csv -o quotes.xlsx
  sheetnest breaks 10 14 --material "Coroplast 4mm"`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default is $HOME/.sheetnest/config.json)")
	root.PersistentFlags().StringVar(&a.catalogPath, "catalog", "", "materials catalog (default is catalog.yaml next to the config file)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging and engine trace")

	root.AddCommand(
		newQuoteCmd(a),
		newBatchCmd(a),
		newBreaksCmd(a),
		newCatalogCmd(a),
		newBackupCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) init() error {
	if a.configPath == "" {
		a.configPath = config.DefaultConfigPath()
	}
	cfg, err := config.LoadAppConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	if a.verbose {
		a.cfg.Logging.Level = "debug"
	}
	log, err := logging.New(a.cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	a.log = log

	if a.catalogPath == "" {
		a.catalogPath = a.cfg.ResolveCatalogPath(a.configPath)
	}
	a.log.Debug("configuration loaded",
		zap.String("config", a.configPath),
		zap.String("catalog", a.catalogPath))
	return nil
}

func (a *app) loadCatalog() (catalog.Catalog, error) {
	c, err := catalog.Load(a.catalogPath)
	if err != nil {
		return catalog.Catalog{}, fmt.Errorf("failed to load catalog: %w", err)
	}
	warnings, err := c.Validate()
	if err != nil {
		return catalog.Catalog{}, fmt.Errorf("invalid catalog %s: %w", a.catalogPath, err)
	}
	for _, w := range warnings {
		a.log.Warn("catalog", zap.String("warning", w))
	}
	return c, nil
}

// material resolves name against the catalog, falling back to the configured
// default material.
func (a *app) material(name string) (*catalog.Material, error) {
	c, err := a.loadCatalog()
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = a.cfg.DefaultMaterial
	}
	m, err := c.Find(name)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(c.Names(), ", "))
	}
	return m, nil
}

// outputPath places an export file under the configured output directory
// and makes sure its directory exists.
func (a *app) outputPath(name string) (string, error) {
	path := a.cfg.OutputPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return path, nil
}

func (a *app) pricer(cfg model.PricingConfig) (*engine.Pricer, error) {
	p, err := engine.NewPricer(cfg)
	if err != nil {
		return nil, err
	}
	return p.WithTracer(logging.Tracer(a.log)), nil
}

// reportError logs a pricing failure at the level its kind deserves.
// Oversized pieces are an expected customer outcome; CannotNest means the
// material's rules need attention.
func (a *app) reportError(label string, err error) {
	fields := []zap.Field{
		zap.String("label", label),
		zap.String("kind", string(model.ErrorKindOf(err))),
		zap.Error(err),
	}
	switch {
	case errors.Is(err, model.ErrOversized):
		a.log.Info("piece exceeds sheet size", fields...)
	case errors.Is(err, model.ErrCannotNest):
		a.log.Warn("piece cannot be nested", fields...)
	default:
		a.log.Error("pricing failed", fields...)
	}
}

func parseDimensions(widthArg, heightArg string) (float64, float64, error) {
	w, err := strconv.ParseFloat(widthArg, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width %q", widthArg)
	}
	h, err := strconv.ParseFloat(heightArg, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height %q", heightArg)
	}
	return w, h, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// No config needed to print the version.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sheetnest version %s\n", Version)
		},
	}
}
