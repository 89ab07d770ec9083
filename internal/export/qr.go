package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/SheetNest/internal/quote"
)

const qrSize = 35.0 // QR code size in mm

// QRPayload is the data encoded into a quote's QR code so the shop floor can
// pull the job up by scanning the printout.
type QRPayload struct {
	ID             string `json:"id"`
	Label          string `json:"label"`
	Material       string `json:"material"`
	Piece          string `json:"piece"`
	Quantity       int    `json:"qty"`
	PiecesPerSheet int    `json:"per_sheet"`
	Total          string `json:"total"`
}

// NewQRPayload extracts the QR data from a priced quote.
func NewQRPayload(q quote.Quote) QRPayload {
	s := q.Summary()
	return QRPayload{
		ID:             s.ID,
		Label:          s.Label,
		Material:       s.Material,
		Piece:          s.Piece,
		Quantity:       s.Quantity,
		PiecesPerSheet: s.PiecesPerSheet,
		Total:          s.Total,
	}
}

// placeQR renders the quote's QR code with its top-left corner at x, y.
func placeQR(pdf *fpdf.Fpdf, q quote.Quote, x, y float64) error {
	data, err := json.Marshal(NewQRPayload(q))
	if err != nil {
		return fmt.Errorf("failed to marshal QR payload: %w", err)
	}

	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := "qr_" + q.ID
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	pdf.ImageOptions(imgName, x, y, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return nil
}
