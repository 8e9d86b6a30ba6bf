package decklist

import (
	"errors"
	"fmt"
)

// Default limits.
const (
	DefaultMaxDeckSize   = 50
	DefaultMaxCopies     = 3
	DefaultMaxInputChars = 50000
	DefaultMaxInputLines = 1000
	DefaultDisplayLen    = 40

	// MaxIDLen is the longest identifier Normalize accepts.
	MaxIDLen = 20

	// MinIDLen is the shortest identifier Normalize accepts.
	MinIDLen = 2
)

// Limits bounds input size and deck legality.
type Limits struct {
	// MaxDeckSize is the most cards a deck may contain.
	MaxDeckSize int

	// MaxCopies is the highest quantity a single line may carry.
	MaxCopies int

	// MaxInputChars caps raw input length in characters.
	MaxInputChars int

	// MaxInputLines caps raw input line count.
	MaxInputLines int

	// DisplayLen caps the line text kept in a ParseError.
	DisplayLen int
}

// DefaultLimits returns the standard game limits.
func DefaultLimits() Limits {
	return Limits{
		MaxDeckSize:   DefaultMaxDeckSize,
		MaxCopies:     DefaultMaxCopies,
		MaxInputChars: DefaultMaxInputChars,
		MaxInputLines: DefaultMaxInputLines,
		DisplayLen:    DefaultDisplayLen,
	}
}

// Validate checks that every limit is positive.
func (l Limits) Validate() error {
	if l.MaxDeckSize < 1 {
		return errors.New("max_deck_size must be >= 1")
	}
	if l.MaxCopies < 1 {
		return errors.New("max_copies must be >= 1")
	}
	if l.MaxInputChars < 1 {
		return errors.New("max_input_chars must be >= 1")
	}
	if l.MaxInputLines < 1 {
		return errors.New("max_input_lines must be >= 1")
	}
	if l.DisplayLen < 4 {
		return fmt.Errorf("display_length must be >= 4, got %d", l.DisplayLen)
	}
	return nil
}
