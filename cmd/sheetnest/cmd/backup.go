package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/SheetNest/internal/catalog"
	"github.com/piwi3910/SheetNest/internal/config"
)

func newBackupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or restore the config and materials catalog",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "export FILE",
			Short: "Write the config and catalog to one JSON file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.loadCatalog()
				if err != nil {
					return err
				}
				if err := config.ExportAllData(args[0], a.cfg, c); err != nil {
					return err
				}
				a.log.Info("exported backup", zap.String("path", args[0]), zap.Int("materials", len(c.Materials)))
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "import FILE",
			Short: "Replace the config and catalog with a backup",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				backup, err := config.ImportAllData(args[0])
				if err != nil {
					return err
				}
				if err := config.SaveAppConfig(a.configPath, backup.Config); err != nil {
					return fmt.Errorf("failed to write config: %w", err)
				}
				if err := catalog.Save(a.catalogPath, backup.Catalog); err != nil {
					return fmt.Errorf("failed to write catalog: %w", err)
				}
				a.log.Info("restored backup",
					zap.String("path", args[0]),
					zap.String("created_at", backup.CreatedAt),
					zap.Int("materials", len(backup.Catalog.Materials)))
				fmt.Fprintf(cmd.OutOrStdout(), "Restored %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}
