package decklist

import "fmt"

// deckBuilder accumulates per-line outcomes for one import and decides the
// final result. It is owned by a single Parse call.
type deckBuilder struct {
	limits  Limits
	cardIDs []string
	errors  []ParseError
	scanned int
}

func newDeckBuilder(limits Limits) *deckBuilder {
	return &deckBuilder{limits: limits}
}

// reject records a soft error for a line.
func (b *deckBuilder) reject(lineNum int, text string, reason Reason) {
	b.errors = append(b.errors, ParseError{
		LineNumber: lineNum,
		Text:       displayText(text, b.limits.DisplayLen),
		Reason:     reason,
	})
}

// add appends quantity copies of a resolved canonical identifier.
func (b *deckBuilder) add(id string, quantity int) {
	for i := 0; i < quantity; i++ {
		b.cardIDs = append(b.cardIDs, id)
	}
}

// validCount reports whether a quantity is in [1, MaxCopies].
func (b *deckBuilder) validCount(quantity int) bool {
	return quantity >= 1 && quantity <= b.limits.MaxCopies
}

// finish applies the deck-level checks. A deck over MaxDeckSize discards
// every resolved card; zero cards with errors is NoValidCards.
func (b *deckBuilder) finish() (*Result, error) {
	result := &Result{
		Errors:       b.errors,
		LinesScanned: b.scanned,
	}
	if result.Errors == nil {
		result.Errors = []ParseError{}
	}

	switch {
	case len(b.cardIDs) > b.limits.MaxDeckSize:
		result.CardIDs = []string{}
		return fail(result, ReasonDeckTooLarge,
			fmt.Sprintf("%d cards, max %d", len(b.cardIDs), b.limits.MaxDeckSize))

	case len(b.cardIDs) == 0 && len(b.errors) > 0:
		result.CardIDs = []string{}
		return fail(result, ReasonNoValidCards, "")
	}

	result.CardIDs = b.cardIDs
	if result.CardIDs == nil {
		result.CardIDs = []string{}
	}
	return result, nil
}

func fail(result *Result, reason Reason, detail string) (*Result, error) {
	result.Fatal = true
	result.FatalReason = reason
	result.Detail = detail
	errs := make([]ParseError, len(result.Errors))
	copy(errs, result.Errors)
	return result, &FatalError{
		Reason: reason,
		Detail: detail,
		Errors: errs,
	}
}
