package model

import (
	"errors"
	"fmt"
)

// ErrorKind distinguishes the failure modes of a pricing call.
type ErrorKind string

const (
	KindInvalidInput ErrorKind = "invalid_input"
	KindOversized    ErrorKind = "oversized"
	KindCannotNest   ErrorKind = "cannot_nest"
)

var (
	// ErrInvalidInput is returned for non-positive dimensions or quantity and
	// for configuration that breaks the pricing policy rules.
	ErrInvalidInput = errors.New("invalid input")
	// ErrOversized is returned when a piece fits the sheet in neither orientation.
	ErrOversized = errors.New("piece exceeds sheet size")
	// ErrCannotNest is returned when a piece fits nominally but oversize rules
	// leave no capacity, or the partial sheet has no valid layout.
	ErrCannotNest = errors.New("piece cannot be nested")
)

// OversizedMessage is shown to customers whose piece is larger than the stock.
const OversizedMessage = "This piece is larger than our largest sheet. Please contact us for a custom quote."

// NestingError carries a machine-readable kind and a display message.
type NestingError struct {
	Kind    ErrorKind
	Message string
}

func (e *NestingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap maps the kind onto its sentinel so errors.Is works.
func (e *NestingError) Unwrap() error {
	switch e.Kind {
	case KindOversized:
		return ErrOversized
	case KindCannotNest:
		return ErrCannotNest
	default:
		return ErrInvalidInput
	}
}

// ErrorKindOf returns the kind of a pricing error, or "" for foreign errors.
func ErrorKindOf(err error) ErrorKind {
	var ne *NestingError
	if errors.As(err, &ne) {
		return ne.Kind
	}
	return ""
}

// Oversized builds the terminal error for a piece that exceeds the sheet.
func Oversized(pieceW, pieceH float64, sheet SheetSpec) *NestingError {
	return &NestingError{
		Kind: KindOversized,
		Message: fmt.Sprintf("%gx%g in piece does not fit a %gx%g in sheet. %s",
			pieceW, pieceH, sheet.Width, sheet.Height, OversizedMessage),
	}
}

// CannotNest builds the terminal error for a configuration that leaves no
// valid layout.
func CannotNest(format string, args ...any) *NestingError {
	return &NestingError{Kind: KindCannotNest, Message: fmt.Sprintf(format, args...)}
}

func invalidf(format string, args ...any) *NestingError {
	return &NestingError{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}
