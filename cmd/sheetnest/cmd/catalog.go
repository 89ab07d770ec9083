package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/SheetNest/internal/catalog"
)

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the materials catalog",
	}
	cmd.AddCommand(newCatalogInitCmd(a), newCatalogListCmd(a))
	return cmd
}

func newCatalogInitCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default materials catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.catalogPath); err == nil && !force {
				return fmt.Errorf("catalog %s already exists (use --force to overwrite)", a.catalogPath)
			}
			if err := catalog.Save(a.catalogPath, catalog.DefaultCatalog()); err != nil {
				return fmt.Errorf("failed to write catalog: %w", err)
			}
			a.log.Info("wrote default catalog", zap.String("path", a.catalogPath))
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", a.catalogPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing catalog")
	return cmd
}

func newCatalogListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List materials and their pricing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCatalog()
			if err != nil {
				return err
			}
			printCatalog(cmd.OutOrStdout(), c, a.cfg.CurrencySymbol)
			return nil
		},
	}
}
