package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := DefaultAppConfig()
	cfg.DefaultMaterial = "Foamboard"
	cfg.CurrencySymbol = "€"
	cfg.QuoteValidDays = 14
	cfg.BreakQuantities = []int{10, 100}
	cfg.Logging.Level = "debug"

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if loaded.DefaultMaterial != "Foamboard" {
		t.Errorf("expected DefaultMaterial=Foamboard, got %s", loaded.DefaultMaterial)
	}
	if loaded.CurrencySymbol != "€" {
		t.Errorf("expected CurrencySymbol=€, got %s", loaded.CurrencySymbol)
	}
	if loaded.QuoteValidDays != 14 {
		t.Errorf("expected QuoteValidDays=14, got %d", loaded.QuoteValidDays)
	}
	if len(loaded.BreakQuantities) != 2 {
		t.Errorf("expected 2 break quantities, got %d", len(loaded.BreakQuantities))
	}
	if loaded.Logging.Level != "debug" {
		t.Errorf("expected debug logging, got %s", loaded.Logging.Level)
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.CurrencySymbol != "$" {
		t.Errorf("expected default currency, got %s", cfg.CurrencySymbol)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("expected console logging, got %s", cfg.Logging.Format)
	}
}

func TestLoadAppConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"company_name": "Acme Signs"}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.CompanyName != "Acme Signs" {
		t.Errorf("expected company name from file, got %s", cfg.CompanyName)
	}
	if cfg.QuoteValidDays != 30 {
		t.Errorf("expected default validity, got %d", cfg.QuoteValidDays)
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAppConfig(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestResolveCatalogPath(t *testing.T) {
	cfg := DefaultAppConfig()
	got := cfg.ResolveCatalogPath(filepath.Join("home", ".sheetnest", "config.json"))
	want := filepath.Join("home", ".sheetnest", "catalog.yaml")
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	cfg.CatalogPath = "/etc/sheetnest/materials.yaml"
	if got := cfg.ResolveCatalogPath("ignored"); got != cfg.CatalogPath {
		t.Errorf("explicit catalog path should win, got %s", got)
	}
}

func TestOutputPath(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.OutputDir = filepath.Join("var", "quotes")

	if got, want := cfg.OutputPath("q.pdf"), filepath.Join("var", "quotes", "q.pdf"); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	abs := filepath.Join(t.TempDir(), "q.pdf")
	if got := cfg.OutputPath(abs); got != abs {
		t.Errorf("absolute path should be kept, got %s", got)
	}

	cfg.OutputDir = ""
	if got := cfg.OutputPath("q.pdf"); got != "q.pdf" {
		t.Errorf("empty output dir should keep the name, got %s", got)
	}
}
