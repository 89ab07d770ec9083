package engine

import (
	"github.com/piwi3910/SheetNest/internal/model"
)

// Pricer prices rectangular pieces cut from one sheet type. It holds only
// its configuration and is safe for concurrent use.
type Pricer struct {
	cfg    model.PricingConfig
	tracer Tracer
}

// NewPricer validates cfg and binds a pricer to a private copy of it.
func NewPricer(cfg model.PricingConfig) (*Pricer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pricer{cfg: cloneConfig(cfg)}, nil
}

// WithTracer returns a copy of the pricer that reports intermediate values to t.
func (p *Pricer) WithTracer(t Tracer) *Pricer {
	cp := *p
	cp.tracer = t
	return &cp
}

// Config returns a copy of the bound configuration.
func (p *Pricer) Config() model.PricingConfig {
	return cloneConfig(p.cfg)
}

// Calculate prices a request.
func (p *Pricer) Calculate(req model.NestingRequest) (*model.NestingResult, error) {
	return p.CalculatePricingWithWaste(req.PieceWidth, req.PieceHeight, req.Quantity)
}

// CalculatePricingWithWaste runs the whole pipeline: pattern search, oversize
// rules, sheet charging, volume pricing, the price floor and the partial
// sheet. On error no partial result is returned.
func (p *Pricer) CalculatePricingWithWaste(pieceW, pieceH float64, quantity int) (*model.NestingResult, error) {
	req := model.NestingRequest{PieceWidth: pieceW, PieceHeight: pieceH, Quantity: quantity}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	sheet := p.cfg.Sheet

	if !FitsSheet(pieceW, pieceH, sheet) {
		p.trace(StageFit, "piece exceeds sheet", num("piece_width", pieceW), num("piece_height", pieceH))
		return nil, model.Oversized(pieceW, pieceH, sheet)
	}

	pattern, ok := BestPattern(pieceW, pieceH, sheet)
	if !ok {
		return nil, model.Oversized(pieceW, pieceH, sheet)
	}
	p.trace(StageSearch, pattern.Description,
		num("pieces_per_sheet", float64(pattern.TotalPieces)),
		num("efficiency", float64(pattern.Efficiency)))

	over := ApplyOversizeRules(pieceW, pieceH, sheet, pattern.TotalPieces, p.cfg.Charging)
	if len(over.Applied) > 0 {
		p.trace(StageOversize, "oversize rules applied",
			num("rules", float64(len(over.Applied))),
			num("max_pieces_per_sheet", float64(over.MaxPiecesPerSheet)),
			num("min_sheet_fraction", over.MinSheetFraction))
	}
	if over.MaxPiecesPerSheet <= 0 {
		return nil, model.CannotNest("oversize rules leave no room for a %gx%g piece on a %gx%g sheet",
			pieceW, pieceH, sheet.Width, sheet.Height)
	}
	maxPieces := over.MaxPiecesPerSheet
	layout := pattern
	if over.Grid != nil {
		layout = forcedPattern(*over.Grid, sheet, pieceW, pieceH)
	}

	raw := float64(quantity) / float64(maxPieces)
	billable := ApplyCharging(raw, p.cfg.Charging.RoundingMode, over.MinSheetFraction)
	p.trace(StageCharging, "sheets charged",
		num("raw_sheets", raw),
		num("billable_sheets", billable))

	sp := ResolveSheetPrice(billable, sheet.Cost, p.cfg.Volume)
	p.trace(StageVolume, "sheet price resolved",
		num("sheet_count", float64(sp.SheetCount)),
		num("price_per_sheet", sp.PricePerSheet))

	pricePerPiece := sp.PricePerSheet * billable / float64(quantity)
	floored := false
	if p.cfg.MinPricePerItem != nil && pricePerPiece < *p.cfg.MinPricePerItem {
		pricePerPiece = *p.cfg.MinPricePerItem
		floored = true
	}
	total := pricePerPiece * float64(quantity)
	avg := total / float64(quantity)
	p.trace(StagePrice, "priced",
		num("price_per_piece", pricePerPiece),
		num("total_price", total))

	fullSheets := quantity / maxPieces
	remaining := quantity % maxPieces
	partial, err := CalculatePartialSheet(pieceW, pieceH, sheet, remaining, avg)
	if err != nil {
		return nil, err
	}
	if partial != nil {
		p.trace(StagePartial, "partial sheet",
			num("pieces", float64(partial.Pieces)),
			num("charge_height", partial.ChargeHeight),
			num("waste_height", partial.WasteHeight))
	}

	return &model.NestingResult{
		PieceWidth:            pieceW,
		PieceHeight:           pieceH,
		Quantity:              quantity,
		Sheet:                 sheet,
		Pattern:               pattern,
		Layout:                layout,
		PatternPiecesPerSheet: pattern.TotalPieces,
		MaxPiecesPerSheet:     maxPieces,
		OversizeRulesApplied:  over.Applied,
		MinSheetFraction:      over.MinSheetFraction,
		RawSheetsUsed:         raw,
		BillableSheets:        billable,
		EffectiveSheetCount:   sp.SheetCount,
		EffectiveSheetCost:    sp.PricePerSheet,
		VolumeTier:            sp.Tier,
		PricePerPiece:         pricePerPiece,
		PriceFloorApplied:     floored,
		TotalPrice:            total,
		AverageCostPerPiece:   avg,
		FullSheets:            fullSheets,
		RemainingPieces:       remaining,
		PartialSheet:          partial,
	}, nil
}

func cloneConfig(cfg model.PricingConfig) model.PricingConfig {
	out := cfg
	if cfg.MinPricePerItem != nil {
		v := *cfg.MinPricePerItem
		out.MinPricePerItem = &v
	}
	if cfg.Charging.OversizeRules != nil {
		out.Charging.OversizeRules = append([]model.OversizeDimensionRule(nil), cfg.Charging.OversizeRules...)
	}
	if cfg.Volume.Tiers != nil {
		out.Volume.Tiers = make([]model.VolumeTier, len(cfg.Volume.Tiers))
		for i, t := range cfg.Volume.Tiers {
			if t.MaxSheets != nil {
				m := *t.MaxSheets
				t.MaxSheets = &m
			}
			out.Volume.Tiers[i] = t
		}
	}
	return out
}
