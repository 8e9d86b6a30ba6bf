package decklist

import "errors"

// Sentinel errors for fatal import outcomes and rejected identifiers.
var (
	ErrInputTooLarge = errors.New("input too large")
	ErrNoValidCards  = errors.New("no valid cards")
	ErrDeckTooLarge  = errors.New("deck too large")
	ErrInvalidCardID = errors.New("invalid card id")
)

// FatalError is returned by Parser.Parse when the import produced no deck.
// It unwraps to ErrInputTooLarge, ErrNoValidCards or ErrDeckTooLarge.
type FatalError struct {
	Reason Reason
	Detail string

	// Errors holds the line errors collected before the import failed.
	Errors []ParseError
}

func (e *FatalError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fatalMessage(e.Reason, e.Detail, e.Errors)
}

func (e *FatalError) Unwrap() error {
	if e == nil {
		return nil
	}
	switch e.Reason {
	case ReasonInputTooLarge:
		return ErrInputTooLarge
	case ReasonNoValidCards:
		return ErrNoValidCards
	case ReasonDeckTooLarge:
		return ErrDeckTooLarge
	default:
		return nil
	}
}

// IsFatal reports whether err is a fatal import error of the given reason.
func IsFatal(err error, reason Reason) bool {
	var fe *FatalError
	if errors.As(err, &fe) {
		return fe.Reason == reason
	}
	return false
}
