package decklist

import (
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ccollicutt/deckport/pkg/catalog"
)

// Parser imports deck-list text against a catalog.
// A Parser is immutable after construction and safe for concurrent use.
type Parser struct {
	lookup     catalog.LookupFunc
	limits     Limits
	variations []Variation
	logger     *zap.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLimits overrides DefaultLimits. Limits that fail Validate are
// ignored.
func WithLimits(l Limits) Option {
	return func(p *Parser) {
		if l.Validate() == nil {
			p.limits = l
		}
	}
}

// WithVariations overrides the resolver's lookup attempts.
func WithVariations(v []Variation) Option {
	return func(p *Parser) {
		if len(v) > 0 {
			p.variations = v
		}
	}
}

// WithLogger enables debug logging of per-line outcomes.
func WithLogger(l *zap.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewParser creates a Parser that resolves identifiers with lookup.
func NewParser(lookup catalog.LookupFunc, opts ...Option) *Parser {
	if lookup == nil {
		lookup = func(string) (catalog.Card, bool) { return catalog.Card{}, false }
	}
	p := &Parser{
		lookup:     lookup,
		limits:     DefaultLimits(),
		variations: DefaultVariations(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Limits returns the parser's limits.
func (p *Parser) Limits() Limits {
	return p.limits
}

// Parse imports raw deck-list text.
//
// The returned Result is never nil. The error is non-nil only when the
// import is fatal, in which case Result.CardIDs is empty and the error is
// a *FatalError. Soft per-line errors are reported in Result.Errors.
func (p *Parser) Parse(raw string) (*Result, error) {
	text, err := Sanitize(raw, p.limits)
	if err != nil {
		p.logger.Debug("input rejected", zap.Error(err))
		result := &Result{
			CardIDs:     []string{},
			Errors:      []ParseError{},
			Fatal:       true,
			FatalReason: ReasonInputTooLarge,
		}
		var fe *FatalError
		if errors.As(err, &fe) {
			result.FatalReason = fe.Reason
			result.Detail = fe.Detail
		}
		return result, err
	}

	b := newDeckBuilder(p.limits)
	for i, line := range strings.Split(text, "\n") {
		p.parseLine(b, i+1, line)
	}

	result, err := b.finish()
	if err != nil {
		p.logger.Debug("import failed",
			zap.String("reason", string(result.FatalReason)),
			zap.Int("errors", len(result.Errors)))
		return result, err
	}

	p.logger.Debug("import complete",
		zap.Int("cards", len(result.CardIDs)),
		zap.Int("warnings", len(result.Errors)))
	return result, nil
}

// parseLine runs one line through classification, normalization, count
// validation and resolution, recording exactly one outcome in b.
func (p *Parser) parseLine(b *deckBuilder, lineNum int, line string) {
	trimmed := strings.TrimSpace(line)
	m := Classify(trimmed)
	if m.Skipped {
		return
	}
	b.scanned++

	if !m.Matched() {
		p.reject(b, lineNum, trimmed, ReasonInvalidLineFormat)
		return
	}

	id, err := Normalize(m.Token)
	if err != nil {
		p.reject(b, lineNum, trimmed, ReasonInvalidCardID)
		return
	}

	// Digit runs too long for an int are out of range too.
	qty, err := strconv.Atoi(m.Quantity)
	if err != nil || !b.validCount(qty) {
		p.reject(b, lineNum, trimmed, ReasonInvalidCount)
		return
	}

	parsed := ParsedLine{
		LineNumber:  lineNum,
		RawText:     trimmed,
		Quantity:    qty,
		CandidateID: id,
	}

	canonical, ok := resolveWith(parsed.CandidateID, p.lookup, p.variations)
	if !ok {
		p.reject(b, lineNum, trimmed, ReasonCardNotFound)
		return
	}

	p.logger.Debug("line resolved",
		zap.Int("line", lineNum),
		zap.String("grammar", string(m.Grammar)),
		zap.String("id", canonical),
		zap.Int("quantity", parsed.Quantity))
	b.add(canonical, parsed.Quantity)
}

func (p *Parser) reject(b *deckBuilder, lineNum int, text string, reason Reason) {
	p.logger.Debug("line rejected",
		zap.Int("line", lineNum),
		zap.String("reason", string(reason)))
	b.reject(lineNum, text, reason)
}

// ResolveID normalizes and resolves a single identifier, returning the
// canonical catalog identifier.
func (p *Parser) ResolveID(raw string) (string, bool) {
	id, err := Normalize(raw)
	if err != nil {
		return "", false
	}
	return resolveWith(id, p.lookup, p.variations)
}

// ResolveIDs resolves every identifier with ResolveID. Identifiers that
// fail are returned in unresolved, markup-free and truncated for display.
func (p *Parser) ResolveIDs(ids []string) (resolved, unresolved []string) {
	resolved = make([]string, 0, len(ids))
	for _, raw := range ids {
		if id, ok := p.ResolveID(raw); ok {
			resolved = append(resolved, id)
			continue
		}
		unresolved = append(unresolved, displayText(raw, p.limits.DisplayLen))
	}
	return resolved, unresolved
}
