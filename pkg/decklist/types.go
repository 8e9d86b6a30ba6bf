// Package decklist parses, validates and serializes deck-list text.
//
// Import runs raw text through Sanitize, Classify, Normalize and Resolve for
// every line and accumulates the outcome into a Result. Export runs the
// Serializer over an in-memory deck. Both directions are pure: the only
// external collaborator is the catalog lookup, which is injected.
package decklist

import (
	"fmt"
	"strings"
)

// Reason identifies why a line or an import failed.
type Reason string

const (
	// ReasonInputTooLarge means the raw input exceeded a size cap. Fatal.
	ReasonInputTooLarge Reason = "input_too_large"

	// ReasonInvalidLineFormat means neither line grammar matched.
	ReasonInvalidLineFormat Reason = "invalid_line_format"

	// ReasonInvalidCardID means the card token was rejected by Normalize.
	ReasonInvalidCardID Reason = "invalid_card_id"

	// ReasonInvalidCount means the quantity was outside the allowed range.
	ReasonInvalidCount Reason = "invalid_count"

	// ReasonCardNotFound means no catalog entry matched any variation.
	ReasonCardNotFound Reason = "card_not_found"

	// ReasonNoValidCards means nothing resolved and at least one line failed. Fatal.
	ReasonNoValidCards Reason = "no_valid_cards"

	// ReasonDeckTooLarge means the resolved deck exceeded the deck-size cap. Fatal.
	ReasonDeckTooLarge Reason = "deck_too_large"
)

// Label returns a short human-readable description of the reason.
func (r Reason) Label() string {
	switch r {
	case ReasonInputTooLarge:
		return "input too large"
	case ReasonInvalidLineFormat:
		return "unrecognized line format"
	case ReasonInvalidCardID:
		return "invalid card id"
	case ReasonInvalidCount:
		return "invalid count"
	case ReasonCardNotFound:
		return "card not found"
	case ReasonNoValidCards:
		return "no valid cards"
	case ReasonDeckTooLarge:
		return "deck too large"
	default:
		return string(r)
	}
}

// ParsedLine is a successfully classified line awaiting resolution.
type ParsedLine struct {
	// LineNumber is the 1-based line number in the sanitized input.
	LineNumber int

	// RawText is the trimmed line content.
	RawText string

	// Quantity is the parsed copy count.
	Quantity int

	// CandidateID is the normalized identifier to resolve.
	CandidateID string
}

// ParseError is a per-line diagnostic.
type ParseError struct {
	// LineNumber is the 1-based line number.
	LineNumber int `json:"line"`

	// Text is the offending line, markup-free and truncated for display.
	Text string `json:"text"`

	// Reason categorizes the failure.
	Reason Reason `json:"reason"`
}

// String formats the error for display, e.g. `line 3: card not found: "2 x ZZZ"`.
func (e ParseError) String() string {
	return fmt.Sprintf("line %d: %s: %q", e.LineNumber, e.Reason.Label(), e.Text)
}

// Result is the outcome of a single import.
type Result struct {
	// CardIDs holds one canonical identifier per physical card, in input order.
	CardIDs []string `json:"cards"`

	// Errors holds every per-line diagnostic, in line order.
	Errors []ParseError `json:"errors"`

	// Fatal is true when the import produced no usable deck.
	Fatal bool `json:"fatal"`

	// FatalReason is set when Fatal is true.
	FatalReason Reason `json:"fatal_reason,omitempty"`

	// Detail explains a fatal result beyond its reason (e.g. the card total).
	Detail string `json:"detail,omitempty"`

	// LinesScanned counts non-empty, non-comment lines that were attempted.
	LinesScanned int `json:"lines_scanned"`
}

// HasWarnings reports whether a successful import collected soft errors.
func (r *Result) HasWarnings() bool {
	return !r.Fatal && len(r.Errors) > 0
}

// Counts returns the number of copies per identifier.
func (r *Result) Counts() map[string]int {
	counts := make(map[string]int)
	for _, id := range r.CardIDs {
		counts[id]++
	}
	return counts
}

// Message returns the aggregated human-readable message for a fatal result,
// listing at most MaxReportedErrors line errors. Empty for non-fatal results.
func (r *Result) Message() string {
	if !r.Fatal {
		return ""
	}
	return fatalMessage(r.FatalReason, r.Detail, r.Errors)
}

// MaxReportedErrors caps how many line errors a fatal message lists.
const MaxReportedErrors = 5

func fatalMessage(reason Reason, detail string, errs []ParseError) string {
	var b strings.Builder
	b.WriteString("import failed: ")
	b.WriteString(reason.Label())
	if detail != "" {
		b.WriteString(" (")
		b.WriteString(detail)
		b.WriteString(")")
	}

	if len(errs) == 0 {
		return b.String()
	}

	shown := errs
	if len(shown) > MaxReportedErrors {
		shown = shown[:MaxReportedErrors]
	}
	for _, e := range shown {
		b.WriteString("\n  ")
		b.WriteString(e.String())
	}
	if rest := len(errs) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "\n  ... and %d more", rest)
	}
	return b.String()
}
