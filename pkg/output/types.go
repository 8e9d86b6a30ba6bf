// Package output provides formatting for deck import reports.
package output

import (
	"time"

	"github.com/google/uuid"

	"github.com/ccollicutt/deckport/pkg/decklist"
)

// Report is the complete output of one import.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Result is the parser outcome.
	Result *decklist.Result `json:"result"`

	// Metadata provides context about the import.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	// LinesScanned counts attempted card lines.
	LinesScanned int `json:"lines_scanned"`

	// CardsResolved is the number of physical cards in the deck.
	CardsResolved int `json:"cards_resolved"`

	// DistinctCards is the number of different identifiers in the deck.
	DistinctCards int `json:"distinct_cards"`

	// Warnings is the number of per-line errors.
	Warnings int `json:"warnings"`

	Fatal       bool            `json:"fatal"`
	FatalReason decklist.Reason `json:"fatal_reason,omitempty"`
}

// Metadata provides context about the import run.
type Metadata struct {
	// ImportID uniquely identifies this import in logs and webhooks.
	ImportID uuid.UUID `json:"import_id"`

	// Source is the file path, "-" for stdin, or "api".
	Source string `json:"source"`

	// DeckName is the optional name the deck was imported under.
	DeckName string `json:"deck_name,omitempty"`

	// ImportedAt is when the import finished.
	ImportedAt time.Time `json:"imported_at"`

	// Duration is how long the import took.
	Duration time.Duration `json:"duration"`
}

// NewReport creates a Report from a parser result.
func NewReport(result *decklist.Result, source, deckName string, start, end time.Time) *Report {
	if result == nil {
		result = &decklist.Result{}
	}

	return &Report{
		Result: result,
		Metadata: Metadata{
			ImportID:   uuid.New(),
			Source:     source,
			DeckName:   deckName,
			ImportedAt: end,
			Duration:   end.Sub(start),
		},
		Summary: Summary{
			LinesScanned:  result.LinesScanned,
			CardsResolved: len(result.CardIDs),
			DistinctCards: len(result.Counts()),
			Warnings:      len(result.Errors),
			Fatal:         result.Fatal,
			FatalReason:   result.FatalReason,
		},
	}
}

// HasIssues returns true if the import failed or collected warnings.
func (r *Report) HasIssues() bool {
	return r.Summary.Fatal || r.Summary.Warnings > 0
}
