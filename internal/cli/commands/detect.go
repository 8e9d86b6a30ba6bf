package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/deckport/pkg/detector"
	"github.com/ccollicutt/deckport/pkg/source"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output     string
	SampleSize int
	ShowAll    bool
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <deck-file|->",
		Short: "Detect the line grammar of a deck list",
		Long: `Sample a deck-list file and report which line grammars it uses.

No catalog is needed: lines are only classified, not resolved. Use this to
check an export from another tool before importing it.

Grammars:
  count-first          3 x 1-001L
  name-parenthetical   3 Auron (1-001L)`,
		Example: `  deckport detect deck.txt
  deckport detect --all --sample 500 big-deck.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", detector.DefaultSampleSize, "Number of card lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show every detected grammar, not just the best match")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	file := args[0]
	ctx := commandContext(cmd)

	if opts.Output != "text" && opts.Output != "json" {
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))

	var result *detector.DetectionResult
	var err error
	if file == source.Stdin {
		result, err = d.DetectFromReader(ctx, cmd.InOrStdin())
	} else {
		result, err = d.DetectFromFile(ctx, file)
	}
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	name := source.DisplayName(file)
	if opts.Output == "json" {
		return outputDetectJSON(cmd.OutOrStdout(), result, name, opts)
	}
	return outputDetectText(cmd.OutOrStdout(), result, name, opts)
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, file string, opts *DetectOptions) error {
	fmt.Fprintln(w, "=== Deck List Format Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", file)
	fmt.Fprintf(w, "Card lines sampled: %d\n", result.SampledLines)
	fmt.Fprintf(w, "Unrecognized lines: %d\n", result.UnmatchedLines)
	fmt.Fprintln(w)

	if !result.HasMatch() {
		fmt.Fprintln(w, "No deck-list format detected.")
		if result.UnmatchedLine != "" {
			fmt.Fprintf(w, "\nFirst unrecognized line:\n  %s\n", result.UnmatchedLine)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: each card line needs a count, then either \"x <card-id>\" or \"<name> (<card-id>)\".")
		return nil
	}

	best := result.BestMatch()
	fmt.Fprintf(w, "Detected Format: %s\n", best.Format.Name)
	fmt.Fprintf(w, "Confidence: %.1f%% (%d/%d lines matched)\n",
		best.Confidence*100, best.MatchCount, result.SampledLines)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sample match:\n  %s\n", best.SampleLine)
	fmt.Fprintln(w)

	if result.Mixed {
		fmt.Fprintln(w, "Note: the file mixes both line formats. deckport imports either, line by line.")
		fmt.Fprintln(w)
	}
	if result.UnmatchedLines > 0 {
		fmt.Fprintf(w, "WARNING: %d line(s) match no format and will be skipped on import.\n", result.UnmatchedLines)
		fmt.Fprintf(w, "First unrecognized line:\n  %s\n", result.UnmatchedLine)
		fmt.Fprintln(w)
	}

	if opts.ShowAll && len(result.Matches) > 1 {
		fmt.Fprintln(w, "--- Alternative formats detected ---")
		for i, m := range result.Matches[1:] {
			fmt.Fprintf(w, "%d. %s (%.1f%% confidence)\n", i+2, m.Format.Name, m.Confidence*100)
			fmt.Fprintf(w, "   example: %s\n", m.Format.Example)
		}
		fmt.Fprintln(w)
	}

	return nil
}

// JSONMatch represents a format match in JSON output.
type JSONMatch struct {
	Name       string  `json:"name"`
	Pattern    string  `json:"pattern"`
	Example    string  `json:"example"`
	Confidence float64 `json:"confidence"`
	MatchCount int     `json:"match_count"`
	SampleLine string  `json:"sample_line"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File           string      `json:"file"`
	Matches        []JSONMatch `json:"matches"`
	SampledLines   int         `json:"sampled_lines"`
	UnmatchedLines int         `json:"unmatched_lines"`
	UnmatchedLine  string      `json:"unmatched_line,omitempty"`
	Mixed          bool        `json:"mixed"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, file string, opts *DetectOptions) error {
	out := JSONOutput{
		File:           file,
		SampledLines:   result.SampledLines,
		UnmatchedLines: result.UnmatchedLines,
		UnmatchedLine:  result.UnmatchedLine,
		Mixed:          result.Mixed,
		Matches:        make([]JSONMatch, 0),
	}

	matches := result.Matches
	if !opts.ShowAll && len(matches) > 1 {
		matches = matches[:1]
	}
	for _, m := range matches {
		out.Matches = append(out.Matches, JSONMatch{
			Name:       string(m.Format.Name),
			Pattern:    m.Format.PatternStr,
			Example:    m.Format.Example,
			Confidence: m.Confidence,
			MatchCount: m.MatchCount,
			SampleLine: m.SampleLine,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
