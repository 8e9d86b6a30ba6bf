package decklist

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// No pattern crosses a newline, so stripping never joins or removes lines.
var (
	// markupPattern matches innermost tag-delimited spans; nested spans
	// unwrap over successive passes.
	markupPattern = regexp.MustCompile(`<[^<>\n]*>`)

	protocolPattern = regexp.MustCompile(`(?i)(?:javascript|vbscript|data)[ \t]*:`)

	// No word boundary: a handler glued to a card id is still stripped.
	eventHandlerPattern = regexp.MustCompile(`(?i)on[a-z]+[ \t]*=`)
)

// Sanitize strips markup, dangerous protocol prefixes and inline event
// handlers from raw input and normalizes line endings to "\n".
//
// Returns a *FatalError wrapping ErrInputTooLarge when raw exceeds
// limits.MaxInputChars characters or limits.MaxInputLines lines. The
// caps are checked before any stripping so the result always satisfies them.
func Sanitize(raw string, limits Limits) (string, error) {
	if n := utf8.RuneCountInString(raw); n > limits.MaxInputChars {
		return "", &FatalError{
			Reason: ReasonInputTooLarge,
			Detail: fmt.Sprintf("%d characters, max %d", n, limits.MaxInputChars),
		}
	}

	text := normalizeNewlines(raw)
	if n := countLines(text); n > limits.MaxInputLines {
		return "", &FatalError{
			Reason: ReasonInputTooLarge,
			Detail: fmt.Sprintf("%d lines, max %d", n, limits.MaxInputLines),
		}
	}

	return stripUnsafe(text), nil
}

// stripUnsafe removes every unsafe fragment until the text stops changing,
// so fragments split around a removed span cannot reassemble.
func stripUnsafe(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = strings.Map(dropControl, s)

	for {
		next := markupPattern.ReplaceAllString(s, "")
		next = protocolPattern.ReplaceAllString(next, "")
		next = eventHandlerPattern.ReplaceAllString(next, "")
		if next == s {
			break
		}
		s = next
	}

	// Unbalanced brackets cannot form a span; drop them anyway.
	return strings.NewReplacer("<", "", ">", "").Replace(s)
}

// dropControl removes control characters other than newline and tab.
func dropControl(r rune) rune {
	if r == '\n' || r == '\t' {
		return r
	}
	if unicode.IsControl(r) {
		return -1
	}
	return r
}

func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// countLines counts lines, ignoring a single trailing newline.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n") + 1
	if strings.HasSuffix(s, "\n") {
		n--
	}
	return n
}

// displayText prepares line text for a ParseError: unsafe fragments are
// stripped again and the result is cut to max runes.
func displayText(line string, max int) string {
	if max < 0 {
		max = 0
	}
	line = strings.TrimSpace(stripUnsafe(line))
	if utf8.RuneCountInString(line) <= max {
		return line
	}
	runes := []rune(line)
	if max <= len(ellipsis) {
		return string(runes[:max])
	}
	return string(runes[:max-len(ellipsis)]) + ellipsis
}

const ellipsis = "..."
