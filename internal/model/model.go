package model

import (
	"fmt"
	"math"
)

// RoundingMode controls how fractional sheet usage is rounded before billing.
type RoundingMode string

const (
	RoundExact   RoundingMode = "exact"   // Bill the raw fraction
	RoundQuarter RoundingMode = "quarter" // Round up to the next 1/4 sheet
	RoundHalf    RoundingMode = "half"    // Round up to the next 1/2 sheet
	RoundFull    RoundingMode = "full"    // Round up to whole sheets
)

func (m RoundingMode) String() string {
	if m == "" {
		return string(RoundExact)
	}
	return string(m)
}

// Valid reports whether m is a known rounding mode. The empty mode is
// treated as RoundExact.
func (m RoundingMode) Valid() bool {
	switch m {
	case "", RoundExact, RoundQuarter, RoundHalf, RoundFull:
		return true
	}
	return false
}

// Axis selects which piece dimension an oversize rule inspects.
type Axis string

const (
	AxisWidth  Axis = "width"
	AxisHeight Axis = "height"
	AxisAny    Axis = "any" // The larger of width and height
)

// OversizeBehavior is what happens when an oversize rule fires.
type OversizeBehavior string

const (
	// UseFullSheetAxis forces at most one piece along the matched axis.
	UseFullSheetAxis OversizeBehavior = "use_full_sheet_axis"
	// BumpSheetFraction raises the minimum billable sheet fraction.
	BumpSheetFraction OversizeBehavior = "bump_sheet_fraction"
)

// SheetSpec describes the stock sheet pieces are cut from.
type SheetSpec struct {
	Width  float64 `json:"width" yaml:"width"`   // inches
	Height float64 `json:"height" yaml:"height"` // inches
	Cost   float64 `json:"cost" yaml:"cost"`     // currency per sheet
}

// Area returns the sheet area in square inches.
func (s SheetSpec) Area() float64 {
	return s.Width * s.Height
}

// Turned returns the same sheet with width and height swapped.
func (s SheetSpec) Turned() SheetSpec {
	return SheetSpec{Width: s.Height, Height: s.Width, Cost: s.Cost}
}

func (s SheetSpec) Validate() error {
	if !positive(s.Width) || !positive(s.Height) {
		return invalidf("sheet dimensions must be positive, got %gx%g", s.Width, s.Height)
	}
	if !finite(s.Cost) || s.Cost < 0 {
		return invalidf("sheet cost must be >= 0, got %g", s.Cost)
	}
	return nil
}

// OversizeDimensionRule adjusts capacity or billing when a piece dimension
// exceeds ThresholdIn.
type OversizeDimensionRule struct {
	ThresholdIn         float64          `json:"threshold_in" yaml:"threshold_in"`
	Axis                Axis             `json:"axis" yaml:"axis"`
	Behavior            OversizeBehavior `json:"behavior" yaml:"behavior"`
	TargetSheetFraction float64          `json:"target_sheet_fraction,omitempty" yaml:"target_sheet_fraction,omitempty"`
}

// Dimension returns the piece dimension this rule compares against its threshold.
func (r OversizeDimensionRule) Dimension(pieceW, pieceH float64) float64 {
	switch r.Axis {
	case AxisWidth:
		return pieceW
	case AxisHeight:
		return pieceH
	default:
		return math.Max(pieceW, pieceH)
	}
}

func (r OversizeDimensionRule) Validate() error {
	if !finite(r.ThresholdIn) || r.ThresholdIn < 0 {
		return invalidf("oversize threshold must be >= 0, got %g", r.ThresholdIn)
	}
	switch r.Axis {
	case AxisWidth, AxisHeight, AxisAny:
	default:
		return invalidf("unknown oversize axis %q", r.Axis)
	}
	switch r.Behavior {
	case UseFullSheetAxis:
		if r.TargetSheetFraction != 0 {
			return invalidf("target_sheet_fraction is only valid with %s", BumpSheetFraction)
		}
	case BumpSheetFraction:
		if !(r.TargetSheetFraction > 0 && r.TargetSheetFraction <= 1) {
			return invalidf("target_sheet_fraction must be in (0,1], got %g", r.TargetSheetFraction)
		}
	default:
		return invalidf("unknown oversize behavior %q", r.Behavior)
	}
	return nil
}

// SheetChargingPolicy turns raw sheet usage into billable sheets.
// The zero value bills exact usage with no minimum and no oversize rules.
type SheetChargingPolicy struct {
	RoundingMode     RoundingMode            `json:"rounding_mode" yaml:"rounding_mode"`
	MinSheetFraction float64                 `json:"min_sheet_fraction" yaml:"min_sheet_fraction"`
	OversizeRules    []OversizeDimensionRule `json:"oversize_rules,omitempty" yaml:"oversize_rules,omitempty"`
}

func (p SheetChargingPolicy) Validate() error {
	if !p.RoundingMode.Valid() {
		return invalidf("unknown rounding mode %q", p.RoundingMode)
	}
	if !(p.MinSheetFraction >= 0 && p.MinSheetFraction <= 1) {
		return invalidf("min_sheet_fraction must be in [0,1], got %g", p.MinSheetFraction)
	}
	for i, r := range p.OversizeRules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("oversize rule %d: %w", i+1, err)
		}
	}
	return nil
}

// VolumeTier is one row of a volume pricing table. A nil MaxSheets means
// the tier has no upper bound.
type VolumeTier struct {
	MinSheets     int     `json:"min_sheets" yaml:"min_sheets"`
	MaxSheets     *int    `json:"max_sheets,omitempty" yaml:"max_sheets,omitempty"`
	PricePerSheet float64 `json:"price_per_sheet" yaml:"price_per_sheet"`
}

// Contains reports whether an effective sheet count falls inside the tier.
func (t VolumeTier) Contains(n int) bool {
	if n < t.MinSheets {
		return false
	}
	return t.MaxSheets == nil || n <= *t.MaxSheets
}

func (t VolumeTier) String() string {
	if t.MaxSheets == nil {
		return fmt.Sprintf("%d+ sheets", t.MinSheets)
	}
	return fmt.Sprintf("%d-%d sheets", t.MinSheets, *t.MaxSheets)
}

// VolumePricingTable holds sheet-count dependent per-sheet prices.
//
// Tiers are scanned in order and the first match wins, so callers must
// supply them sorted by ascending MinSheets.
type VolumePricingTable struct {
	Enabled bool         `json:"enabled" yaml:"enabled"`
	Tiers   []VolumeTier `json:"tiers,omitempty" yaml:"tiers,omitempty"`
}

func (v VolumePricingTable) Validate() error {
	for i, t := range v.Tiers {
		if t.MinSheets < 0 {
			return invalidf("volume tier %d: min_sheets must be >= 0, got %d", i+1, t.MinSheets)
		}
		if t.MaxSheets != nil && *t.MaxSheets < t.MinSheets {
			return invalidf("volume tier %d: max_sheets %d is below min_sheets %d", i+1, *t.MaxSheets, t.MinSheets)
		}
		if !finite(t.PricePerSheet) || t.PricePerSheet < 0 {
			return invalidf("volume tier %d: price_per_sheet must be >= 0, got %g", i+1, t.PricePerSheet)
		}
	}
	return nil
}

// Ascending reports whether tiers are sorted by MinSheets. Lookup does not
// depend on it, but out-of-order tables usually indicate a catalog mistake.
func (v VolumePricingTable) Ascending() bool {
	for i := 1; i < len(v.Tiers); i++ {
		if v.Tiers[i].MinSheets < v.Tiers[i-1].MinSheets {
			return false
		}
	}
	return true
}

// PricingConfig is everything a pricer is bound to at construction.
type PricingConfig struct {
	Sheet           SheetSpec           `json:"sheet" yaml:"sheet"`
	MinPricePerItem *float64            `json:"min_price_per_item,omitempty" yaml:"min_price_per_item,omitempty"`
	Volume          VolumePricingTable  `json:"volume_pricing" yaml:"volume_pricing"`
	Charging        SheetChargingPolicy `json:"charging" yaml:"charging"`
}

// DefaultPricingConfig returns a config for the given sheet with exact
// rounding, no minimum fraction, no oversize rules, no volume pricing and
// no price floor.
func DefaultPricingConfig(sheetWidth, sheetHeight, sheetCost float64) PricingConfig {
	return PricingConfig{
		Sheet:    SheetSpec{Width: sheetWidth, Height: sheetHeight, Cost: sheetCost},
		Charging: SheetChargingPolicy{RoundingMode: RoundExact},
	}
}

func (c PricingConfig) Validate() error {
	if err := c.Sheet.Validate(); err != nil {
		return err
	}
	if c.MinPricePerItem != nil && (!finite(*c.MinPricePerItem) || *c.MinPricePerItem < 0) {
		return invalidf("min_price_per_item must be >= 0, got %g", *c.MinPricePerItem)
	}
	if err := c.Charging.Validate(); err != nil {
		return err
	}
	return c.Volume.Validate()
}

// NestingRequest is a single pricing query.
type NestingRequest struct {
	PieceWidth  float64 `json:"piece_width"`  // inches
	PieceHeight float64 `json:"piece_height"` // inches
	Quantity    int     `json:"quantity"`
}

func (r NestingRequest) Validate() error {
	if !positive(r.PieceWidth) || !positive(r.PieceHeight) {
		return invalidf("piece dimensions must be positive, got %gx%g", r.PieceWidth, r.PieceHeight)
	}
	if r.Quantity <= 0 {
		return invalidf("quantity must be a positive integer, got %d", r.Quantity)
	}
	return nil
}

// QuoteLine is one labelled request of a batch, priced against a material
// from the catalog.
type QuoteLine struct {
	Label    string         `json:"label"`
	Material string         `json:"material,omitempty"` // catalog name or ID, empty for the default
	Request  NestingRequest `json:"request"`
}

// NewQuoteLine creates a QuoteLine for qty pieces of width x height.
func NewQuoteLine(label string, width, height float64, qty int) QuoteLine {
	return QuoteLine{
		Label:   label,
		Request: NestingRequest{PieceWidth: width, PieceHeight: height, Quantity: qty},
	}
}

func positive(v float64) bool {
	return finite(v) && v > 0
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
