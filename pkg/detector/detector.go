// Package detector reports which deck-list line formats a file uses.
package detector

import (
	"bufio"
	"context"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/ccollicutt/deckport/pkg/decklist"
)

// DefaultSampleSize is the number of card lines sampled by default.
const DefaultSampleSize = 100

// DetectionResult holds the result of analyzing a deck list.
type DetectionResult struct {
	Matches        []FormatMatch // Formats that matched, sorted by confidence descending
	SampledLines   int           // Number of card lines sampled
	UnmatchedLines int           // Sampled lines no format recognized
	UnmatchedLine  string        // Example of an unrecognized line
	Mixed          bool          // More than one format appears
}

// FormatMatch represents a format that matched with its confidence score.
type FormatMatch struct {
	Format     *LineFormat
	Confidence float64 // 0.0 to 1.0 (share of sampled lines matched)
	MatchCount int     // Number of lines that matched
	SampleLine string  // Example line that matched
}

// Detector analyzes deck lists to identify their line formats.
type Detector struct {
	formats    map[decklist.Grammar]*LineFormat
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a new Detector over the supported formats.
func New(opts ...Option) *Detector {
	d := &Detector{
		formats:    make(map[decklist.Grammar]*LineFormat),
		sampleSize: DefaultSampleSize,
	}
	for _, f := range DefaultFormats() {
		d.formats[f.Name] = f
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile analyzes a deck-list file. A path of "-" reads stdin.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	if path == "-" {
		return d.DetectFromReader(ctx, os.Stdin)
	}

	// #nosec G304 - path is provided by user via CLI
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return d.DetectFromReader(ctx, file)
}

// DetectFromReader samples card lines from r and analyzes them.
func (d *Detector) DetectFromReader(ctx context.Context, r io.Reader) (*DetectionResult, error) {
	lines, err := d.sample(ctx, r)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines analyzes a slice of deck-list lines. Blank and comment
// lines are ignored.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{}

	stats := make(map[decklist.Grammar]*FormatMatch)

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if decklist.IsSkippable(line) {
			continue
		}
		if result.SampledLines >= d.sampleSize {
			break
		}
		result.SampledLines++

		m := decklist.Classify(line)
		if !m.Matched() {
			result.UnmatchedLines++
			if result.UnmatchedLine == "" {
				result.UnmatchedLine = line
			}
			continue
		}

		s, ok := stats[m.Grammar]
		if !ok {
			s = &FormatMatch{Format: d.formats[m.Grammar], SampleLine: line}
			stats[m.Grammar] = s
		}
		s.MatchCount++
	}

	for _, s := range stats {
		s.Confidence = float64(s.MatchCount) / float64(result.SampledLines)
		result.Matches = append(result.Matches, *s)
	}

	// Sort by match count descending, then by name for stable output
	sort.Slice(result.Matches, func(i, j int) bool {
		if result.Matches[i].MatchCount != result.Matches[j].MatchCount {
			return result.Matches[i].MatchCount > result.Matches[j].MatchCount
		}
		return result.Matches[i].Format.Name < result.Matches[j].Format.Name
	})

	result.Mixed = len(result.Matches) > 1

	return result
}

// sample reads lines until sampleSize card lines have been seen.
func (d *Detector) sample(ctx context.Context, r io.Reader) ([]string, error) {
	var lines []string
	cardLines := 0
	scanner := bufio.NewScanner(r)

	for cardLines < d.sampleSize && scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Text()
		lines = append(lines, line)
		if !decklist.IsSkippable(strings.TrimSpace(line)) {
			cardLines++
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// BestMatch returns the highest confidence match, or nil if none found.
func (r *DetectionResult) BestMatch() *FormatMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one format matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}
