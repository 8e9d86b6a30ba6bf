package decklist

import (
	"regexp"
	"strings"
)

// Grammar identifies which deck-list line syntax matched.
type Grammar string

const (
	// GrammarNone means no grammar matched.
	GrammarNone Grammar = ""

	// GrammarCountFirst is "<count> x <id> [name...]", as written by Serialize.
	GrammarCountFirst Grammar = "count-first"

	// GrammarNameParenthetical is "<count> <name...> (<id>)".
	GrammarNameParenthetical Grammar = "name-parenthetical"
)

// LineGrammar is a single line syntax. Pattern captures the quantity in
// group 1 and the card token in group 2.
type LineGrammar struct {
	Name    Grammar
	Pattern *regexp.Regexp
	Example string
}

// lineGrammars is tried in order; the first match wins.
var lineGrammars = []LineGrammar{
	{
		Name:    GrammarCountFirst,
		Pattern: regexp.MustCompile(`^(\d+)\s*[xX×]\s+(\S+)`),
		Example: "3 x 1-001L",
	},
	{
		Name:    GrammarNameParenthetical,
		Pattern: regexp.MustCompile(`^(\d+)\s+.*\(([^()]*)\)$`),
		Example: "2 Edgar (21-002R)",
	},
}

// Grammars returns the supported line grammars in priority order.
func Grammars() []LineGrammar {
	out := make([]LineGrammar, len(lineGrammars))
	copy(out, lineGrammars)
	return out
}

// Match is the outcome of classifying one line.
type Match struct {
	// Grammar is the grammar that matched, or GrammarNone.
	Grammar Grammar

	// Skipped is true for blank and comment lines.
	Skipped bool

	// Quantity is the raw digit run.
	Quantity string

	// Token is the raw card token.
	Token string
}

// Matched reports whether a grammar matched.
func (m Match) Matched() bool {
	return m.Grammar != GrammarNone
}

// Classify detects the grammar of a single line and extracts its raw
// quantity and card tokens. Blank lines and lines starting with "//" or "#"
// are reported as Skipped.
func Classify(line string) Match {
	line = strings.TrimSpace(line)
	if IsSkippable(line) {
		return Match{Skipped: true}
	}

	for _, g := range lineGrammars {
		m := g.Pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		return Match{
			Grammar:  g.Name,
			Quantity: m[1],
			Token:    strings.TrimSpace(m[2]),
		}
	}

	return Match{}
}

// IsSkippable reports whether a trimmed line is blank or a comment.
func IsSkippable(line string) bool {
	return line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#")
}
