// Package config loads and stores the application-wide preferences file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/SheetNest/internal/logging"
)

// AppConfig holds application-wide preferences and quote defaults.
type AppConfig struct {
	// Materials catalog used when --catalog is not given. Empty means
	// catalog.yaml next to the config file.
	CatalogPath     string `json:"catalog_path"`
	DefaultMaterial string `json:"default_material"`
	OutputDir       string `json:"output_dir"` // base for relative export paths

	// Shown on quote documents
	CompanyName    string `json:"company_name"`
	CurrencySymbol string `json:"currency_symbol"`
	QuoteValidDays int    `json:"quote_valid_days"` // 0 = no expiry line

	// Quantities for the price-break table; empty derives them from the
	// sheet capacity.
	BreakQuantities []int `json:"break_quantities"`

	Logging logging.Config `json:"logging"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultMaterial: "Standard 48x96",
		OutputDir:       ".",
		CompanyName:     "SheetNest",
		CurrencySymbol:  "$",
		QuoteValidDays:  30,
		BreakQuantities: []int{},
		Logging:         logging.DefaultConfig(),
	}
}

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.sheetnest/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".sheetnest")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// ResolveCatalogPath returns the catalog path to use for a config stored at
// configPath.
func (c AppConfig) ResolveCatalogPath(configPath string) string {
	if c.CatalogPath != "" {
		return c.CatalogPath
	}
	return filepath.Join(filepath.Dir(configPath), "catalog.yaml")
}

// OutputPath resolves an export file name against OutputDir. Absolute
// names and an empty OutputDir leave name unchanged.
func (c AppConfig) OutputPath(name string) string {
	if c.OutputDir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.OutputDir, name)
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path. If the file does
// not exist, it returns DefaultAppConfig with no error. Keys missing from
// the file keep their default values.
func LoadAppConfig(path string) (AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultAppConfig(), nil
		}
		return AppConfig{}, err
	}
	cfg := DefaultAppConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.BreakQuantities == nil {
		cfg.BreakQuantities = []int{}
	}
	return cfg, nil
}
