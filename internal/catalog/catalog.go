// Package catalog holds the materials a shop quotes from: each one a sheet
// stock with its own charging policy, volume tiers and price floor.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/SheetNest/internal/engine"
	"github.com/piwi3910/SheetNest/internal/model"
)

// ErrMaterialNotFound is returned by Find when no material matches.
var ErrMaterialNotFound = errors.New("material not found")

// Material is one quotable sheet stock.
type Material struct {
	ID          string              `yaml:"id" json:"id"`
	Name        string              `yaml:"name" json:"name"`
	Description string              `yaml:"description,omitempty" json:"description,omitempty"`
	Pricing     model.PricingConfig `yaml:",inline" json:"pricing"`
}

// NewMaterial creates a Material with a generated ID.
func NewMaterial(name string, pricing model.PricingConfig) Material {
	return Material{
		ID:      uuid.New().String()[:8],
		Name:    name,
		Pricing: pricing,
	}
}

// Pricer builds an engine pricer bound to this material's pricing.
func (m Material) Pricer() (*engine.Pricer, error) {
	p, err := engine.NewPricer(m.Pricing)
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", m.Name, err)
	}
	return p, nil
}

// Catalog is the list of materials stored in the catalog file.
type Catalog struct {
	Materials []Material `yaml:"materials" json:"materials"`
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

// DefaultCatalog returns a catalog populated with common print stocks.
func DefaultCatalog() Catalog {
	standard := NewMaterial("Standard 48x96", model.DefaultPricingConfig(48, 96, 50))
	standard.Description = "Generic sheet, billed on exact usage"

	coroplast := NewMaterial("Coroplast 4mm", model.PricingConfig{
		Sheet:           model.SheetSpec{Width: 48, Height: 96, Cost: 32},
		MinPricePerItem: floatPtr(1),
		Volume: model.VolumePricingTable{Enabled: true, Tiers: []model.VolumeTier{
			{MinSheets: 1, MaxSheets: intPtr(9), PricePerSheet: 32},
			{MinSheets: 10, MaxSheets: intPtr(49), PricePerSheet: 28},
			{MinSheets: 50, PricePerSheet: 24},
		}},
		Charging: model.SheetChargingPolicy{
			RoundingMode:     model.RoundQuarter,
			MinSheetFraction: 0.25,
			OversizeRules: []model.OversizeDimensionRule{
				{ThresholdIn: 40, Axis: model.AxisAny, Behavior: model.BumpSheetFraction, TargetSheetFraction: 0.5},
			},
		},
	})
	coroplast.Description = "Corrugated plastic yard signs"

	foamboard := NewMaterial("Foamboard 3/16", model.PricingConfig{
		Sheet: model.SheetSpec{Width: 48, Height: 96, Cost: 45},
		Charging: model.SheetChargingPolicy{
			RoundingMode: model.RoundHalf,
			OversizeRules: []model.OversizeDimensionRule{
				{ThresholdIn: 46, Axis: model.AxisWidth, Behavior: model.UseFullSheetAxis},
			},
		},
	})

	acrylic := NewMaterial("Acrylic 1/8", model.PricingConfig{
		Sheet:           model.SheetSpec{Width: 48, Height: 96, Cost: 120},
		MinPricePerItem: floatPtr(5),
		Charging:        model.SheetChargingPolicy{RoundingMode: model.RoundFull},
	})

	return Catalog{Materials: []Material{standard, coroplast, foamboard, acrylic}}
}

// Find returns the material whose ID matches key, or whose name matches it
// case-insensitively.
func (c *Catalog) Find(key string) (*Material, error) {
	for i := range c.Materials {
		if c.Materials[i].ID == key {
			return &c.Materials[i], nil
		}
	}
	for i := range c.Materials {
		if strings.EqualFold(c.Materials[i].Name, key) {
			return &c.Materials[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrMaterialNotFound, key)
}

// Names returns the material names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Materials))
	for i, m := range c.Materials {
		names[i] = m.Name
	}
	return names
}

// Validate checks every material's pricing and that names and IDs are
// unique. Problems that do not stop pricing, such as volume tiers out of
// ascending order, are returned as warnings.
func (c *Catalog) Validate() (warnings []string, err error) {
	names := make(map[string]bool, len(c.Materials))
	ids := make(map[string]bool, len(c.Materials))
	for i, m := range c.Materials {
		if strings.TrimSpace(m.Name) == "" {
			return warnings, fmt.Errorf("material %d: name is required", i+1)
		}
		key := strings.ToLower(m.Name)
		if names[key] {
			return warnings, fmt.Errorf("material %q: duplicate name", m.Name)
		}
		names[key] = true
		if m.ID != "" {
			if ids[m.ID] {
				return warnings, fmt.Errorf("material %q: duplicate id %s", m.Name, m.ID)
			}
			ids[m.ID] = true
		}
		if err := m.Pricing.Validate(); err != nil {
			return warnings, fmt.Errorf("material %q: %w", m.Name, err)
		}
		if !m.Pricing.Volume.Ascending() {
			warnings = append(warnings, fmt.Sprintf("material %q: volume tiers are not in ascending order, the first matching tier wins", m.Name))
		}
	}
	return warnings, nil
}

// Save writes the catalog to path as YAML, creating parent directories.
func Save(path string, c Catalog) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a catalog from path. If the file does not exist, the default
// catalog is written there and returned. Materials without an ID get one.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			c := DefaultCatalog()
			if saveErr := Save(path, c); saveErr != nil {
				return c, saveErr
			}
			return c, nil
		}
		return Catalog{}, err
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse %s: %w", path, err)
	}
	for i := range c.Materials {
		if c.Materials[i].ID == "" {
			c.Materials[i].ID = uuid.New().String()[:8]
		}
	}
	return c, nil
}
