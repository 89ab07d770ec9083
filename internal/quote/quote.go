// Package quote turns engine results into customer quotes: one-off quotes,
// batches priced against the materials catalog, and price-break tables.
package quote

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/piwi3910/SheetNest/internal/catalog"
	"github.com/piwi3910/SheetNest/internal/engine"
	"github.com/piwi3910/SheetNest/internal/model"
)

// Quote is one priced request. Err is set instead of Result when the
// engine rejected the request.
type Quote struct {
	ID        string               `json:"id"`
	CreatedAt time.Time            `json:"created_at"`
	Label     string               `json:"label"`
	Material  string               `json:"material"`
	Request   model.NestingRequest `json:"request"`
	Result    *model.NestingResult `json:"result,omitempty"`
	Err       error                `json:"-"`
}

// New prices line with p and wraps the outcome in a Quote.
func New(p *engine.Pricer, material string, line model.QuoteLine) Quote {
	q := Quote{
		ID:        uuid.New().String()[:8],
		CreatedAt: time.Now(),
		Label:     line.Label,
		Material:  material,
		Request:   line.Request,
	}
	q.Result, q.Err = p.Calculate(line.Request)
	return q
}

// OK reports whether the quote was priced.
func (q Quote) OK() bool {
	return q.Err == nil && q.Result != nil
}

// Money rounds a currency amount to cents, half away from zero.
func Money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// Summary is the customer-facing view of a quote with money rounded to cents.
type Summary struct {
	ID             string `json:"id"`
	Label          string `json:"label"`
	Material       string `json:"material"`
	Piece          string `json:"piece"`
	Quantity       int    `json:"quantity"`
	PiecesPerSheet int    `json:"pieces_per_sheet,omitempty"`
	Sheets         string `json:"sheets,omitempty"`
	PricePerPiece  string `json:"price_per_piece,omitempty"`
	Total          string `json:"total,omitempty"`
	Error          string `json:"error,omitempty"`
}

// Summary returns the rounded, display-ready view of q.
func (q Quote) Summary() Summary {
	s := Summary{
		ID:       q.ID,
		Label:    q.Label,
		Material: q.Material,
		Piece:    fmt.Sprintf("%gx%g", q.Request.PieceWidth, q.Request.PieceHeight),
		Quantity: q.Request.Quantity,
	}
	if !q.OK() {
		if q.Err != nil {
			s.Error = DisplayError(q.Err)
		}
		return s
	}
	r := q.Result
	s.PiecesPerSheet = r.MaxPiecesPerSheet
	s.Sheets = decimal.NewFromFloat(r.BillableSheets).Round(4).String()
	s.PricePerPiece = Money(r.PricePerPiece).StringFixed(2)
	s.Total = Money(r.TotalPrice).StringFixed(2)
	return s
}

// DisplayError returns the message a customer should see for err.
func DisplayError(err error) string {
	var ne *model.NestingError
	if errors.As(err, &ne) {
		return ne.Message
	}
	return err.Error()
}

// Batch prices every line against the catalog. Lines without a material use
// defaultMaterial. Every pricer reports to tracer, which may be nil. Failures
// are recorded on the line's quote and never stop the batch.
func Batch(c *catalog.Catalog, defaultMaterial string, lines []model.QuoteLine, tracer engine.Tracer) []Quote {
	pricers := make(map[string]*engine.Pricer)
	quotes := make([]Quote, 0, len(lines))

	for _, line := range lines {
		key := line.Material
		if key == "" {
			key = defaultMaterial
		}

		m, err := c.Find(key)
		if err != nil {
			quotes = append(quotes, failed(line, key, err))
			continue
		}
		p, ok := pricers[m.ID]
		if !ok {
			p, err = m.Pricer()
			if err != nil {
				quotes = append(quotes, failed(line, m.Name, err))
				continue
			}
			if tracer != nil {
				p = p.WithTracer(tracer)
			}
			pricers[m.ID] = p
		}
		quotes = append(quotes, New(p, m.Name, line))
	}
	return quotes
}

func failed(line model.QuoteLine, material string, err error) Quote {
	return Quote{
		ID:        uuid.New().String()[:8],
		CreatedAt: time.Now(),
		Label:     line.Label,
		Material:  material,
		Request:   line.Request,
		Err:       err,
	}
}

// Total sums the priced quotes, rounding each to cents first so the sum
// matches the printed lines.
func Total(quotes []Quote) decimal.Decimal {
	total := decimal.Zero
	for _, q := range quotes {
		if q.OK() {
			total = total.Add(Money(q.Result.TotalPrice))
		}
	}
	return total
}
