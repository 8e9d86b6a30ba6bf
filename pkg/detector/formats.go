package detector

import "github.com/ccollicutt/deckport/pkg/decklist"

// LineFormat describes a deck-list line grammar for detection output.
type LineFormat struct {
	Name        decklist.Grammar // Grammar identifier
	PatternStr  string           // Pattern string for display
	Example     string           // Example line
	Description string           // Where the format usually comes from
}

var descriptions = map[decklist.Grammar]string{
	decklist.GrammarCountFirst:        "deckport exports and most deck builders",
	decklist.GrammarNameParenthetical: "tournament lists with card names and the id in parentheses",
}

// DefaultFormats returns the supported line formats in the order the
// parser tries them.
func DefaultFormats() []*LineFormat {
	grammars := decklist.Grammars()
	formats := make([]*LineFormat, 0, len(grammars))
	for _, g := range grammars {
		formats = append(formats, &LineFormat{
			Name:        g.Name,
			PatternStr:  g.Pattern.String(),
			Example:     g.Example,
			Description: descriptions[g.Name],
		})
	}
	return formats
}
