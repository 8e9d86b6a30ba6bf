package output

import (
	"context"
	"encoding/json"
	"io"

	"github.com/google/uuid"
)

// JSONFormatter writes reports as indented JSON documents.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns "json".
func (f *JSONFormatter) Name() string {
	return "json"
}

// quietReport is the quiet-mode document: summary fields tagged with the
// import they describe, one per imported deck.
type quietReport struct {
	Source   string    `json:"source"`
	ImportID uuid.UUID `json:"import_id"`
	Summary
}

// Format writes the full report, or only its tagged summary in quiet mode.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if f.opts.Quiet {
		return enc.Encode(quietReport{
			Source:   report.Metadata.Source,
			ImportID: report.Metadata.ImportID,
			Summary:  report.Summary,
		})
	}
	return enc.Encode(report)
}
