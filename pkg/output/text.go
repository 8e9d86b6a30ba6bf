package output

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ccollicutt/deckport/pkg/decklist"
)

// nonVerboseWarnings caps the warnings listed without --verbose.
const nonVerboseWarnings = 10

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	s := report.Summary
	if s.Fatal {
		_, err := fmt.Fprintf(w, "deckport: %s: import failed (%s)\n", report.Metadata.Source, s.FatalReason.Label())
		return err
	}
	_, err := fmt.Fprintf(w, "deckport: %s: %d cards, %d distinct, %d warnings\n",
		report.Metadata.Source, s.CardsResolved, s.DistinctCards, s.Warnings)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== deckport Import Report ===")
	if report.Metadata.DeckName != "" {
		fmt.Fprintf(w, "Deck: %s\n", decklist.DeckName(report.Metadata.DeckName))
	}
	fmt.Fprintf(w, "Source: %s\n", report.Metadata.Source)
	if f.opts.Verbose {
		fmt.Fprintf(w, "Import ID: %s\n", report.Metadata.ImportID)
	}
	fmt.Fprintln(w)

	result := report.Result
	if result == nil {
		result = &decklist.Result{}
	}

	if result.Fatal {
		fmt.Fprintln(w, capitalize(result.Message()))
		fmt.Fprintln(w)
	} else {
		f.formatCards(result, w)
		f.formatWarnings(result, w)
	}

	fmt.Fprintln(w, "---")
	s := report.Summary
	fmt.Fprintf(w, "Summary: %d cards (%d distinct) from %d lines, %d warnings\n",
		s.CardsResolved, s.DistinctCards, s.LinesScanned, s.Warnings)

	if f.opts.Verbose {
		fmt.Fprintf(w, "Imported at: %s\n", report.Metadata.ImportedAt.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(time.Microsecond))
	}

	return nil
}

func (f *TextFormatter) formatCards(result *decklist.Result, w io.Writer) {
	if len(result.CardIDs) == 0 {
		fmt.Fprintln(w, "No cards imported")
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintln(w, "Cards:")
	for _, g := range decklist.Group(result.CardIDs) {
		fmt.Fprintf(w, "  %d x %s\n", g.Count, g.ID)
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatWarnings(result *decklist.Result, w io.Writer) {
	if len(result.Errors) == 0 {
		return
	}

	fmt.Fprintf(w, "Warnings: %d line(s) skipped\n", len(result.Errors))

	shown := result.Errors
	if !f.opts.Verbose && len(shown) > nonVerboseWarnings {
		shown = shown[:nonVerboseWarnings]
	}
	for _, e := range shown {
		fmt.Fprintf(w, "  - %s\n", e)
	}
	if rest := len(result.Errors) - len(shown); rest > 0 {
		fmt.Fprintf(w, "  ... and %d more (use --verbose)\n", rest)
	}
	fmt.Fprintln(w)
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
