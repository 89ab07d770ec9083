package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/SheetNest/internal/catalog"
)

func TestExportAndImportAllData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")

	cfg := DefaultAppConfig()
	cfg.CompanyName = "Corner Signs"
	cfg.QuoteValidDays = 7

	if err := ExportAllData(path, cfg, catalog.DefaultCatalog()); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}

	if backup.Version != BackupVersion {
		t.Errorf("expected version %s, got %s", BackupVersion, backup.Version)
	}
	if backup.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if backup.Config.CompanyName != "Corner Signs" {
		t.Errorf("expected CompanyName=Corner Signs, got %s", backup.Config.CompanyName)
	}
	if backup.Config.QuoteValidDays != 7 {
		t.Errorf("expected QuoteValidDays=7, got %d", backup.Config.QuoteValidDays)
	}
	if len(backup.Catalog.Materials) != len(catalog.DefaultCatalog().Materials) {
		t.Errorf("expected %d materials, got %d", len(catalog.DefaultCatalog().Materials), len(backup.Catalog.Materials))
	}
	m, err := backup.Catalog.Find("Coroplast 4mm")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(m.Pricing.Volume.Tiers) != 3 {
		t.Errorf("expected 3 volume tiers, got %d", len(m.Pricing.Volume.Tiers))
	}
}

func TestImportAllDataMissingFile(t *testing.T) {
	_, err := ImportAllData(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestImportAllDataInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ImportAllData(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportAllDataMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noversion.json")
	if err := os.WriteFile(path, []byte(`{"config": {"company_name": "X"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ImportAllData(path); err == nil {
		t.Fatal("expected error for missing version")
	}
}

func TestImportAllDataInvalidCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "badcatalog.json")
	data := `{"version": "1.0.0", "catalog": {"materials": [
		{"id": "a", "name": "Bad", "pricing": {"sheet": {"width": 0, "height": 96, "cost": 50}}}
	]}}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ImportAllData(path); err == nil {
		t.Fatal("expected error for a catalog with a zero-width sheet")
	}
}

func TestImportAllDataKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.json")
	if err := os.WriteFile(path, []byte(`{"version": "1.0.0", "config": {"company_name": "X"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Config.CurrencySymbol != "$" {
		t.Errorf("expected default currency symbol, got %q", backup.Config.CurrencySymbol)
	}
	if backup.Config.BreakQuantities == nil {
		t.Error("expected non-nil BreakQuantities")
	}
}
