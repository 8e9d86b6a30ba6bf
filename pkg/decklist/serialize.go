package decklist

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// EmptyDeckText is the whole export for a deck with no cards.
const EmptyDeckText = "// Empty deck: no cards to export\n"

// maxDeckNameLen caps the deck name written into the export header.
const maxDeckNameLen = 100

// Serializer renders decks as canonical deck-list text.
type Serializer struct {
	// Now supplies the export timestamp. Defaults to time.Now.
	Now func() time.Time

	// MaxCopies caps the count written on one line. Larger groups are
	// split across lines so the output re-imports under the same limit.
	// Defaults to DefaultMaxCopies.
	MaxCopies int
}

// NewSerializer creates a Serializer using the wall clock.
func NewSerializer() *Serializer {
	return &Serializer{Now: time.Now, MaxCopies: DefaultMaxCopies}
}

// CardCount is one distinct card and its number of copies.
type CardCount struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// Group counts copies per identifier and sorts the groups by identifier.
func Group(ids []string) []CardCount {
	counts := make(map[string]int, len(ids))
	for _, id := range ids {
		counts[id]++
	}

	groups := make([]CardCount, 0, len(counts))
	for id, n := range counts {
		groups = append(groups, CardCount{ID: id, Count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].ID < groups[j].ID
	})
	return groups
}

// Expand is the inverse of Group.
func Expand(groups []CardCount) []string {
	var ids []string
	for _, g := range groups {
		for i := 0; i < g.Count; i++ {
			ids = append(ids, g.ID)
		}
	}
	return ids
}

// Serialize renders ids as deck-list text: a comment header with the deck
// name, card total and export time, then one "<count> x <id>" line per
// distinct identifier in ascending order. A group larger than MaxCopies
// takes several consecutive lines. An empty deck renders as EmptyDeckText.
func (s *Serializer) Serialize(name string, ids []string) string {
	if len(ids) == 0 {
		return EmptyDeckText
	}

	now := time.Now
	perLine := DefaultMaxCopies
	if s != nil {
		if s.Now != nil {
			now = s.Now
		}
		if s.MaxCopies > 0 {
			perLine = s.MaxCopies
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// Deck: %s\n", DeckName(name))
	fmt.Fprintf(&b, "// Cards: %d\n", len(ids))
	fmt.Fprintf(&b, "// Exported: %s\n", now().UTC().Format(time.RFC3339))

	for _, g := range Group(ids) {
		for left := g.Count; left > 0; left -= perLine {
			fmt.Fprintf(&b, "%d x %s\n", min(left, perLine), g.ID)
		}
	}
	return b.String()
}

// DeckName reduces a user-supplied deck name to a single safe line.
func DeckName(name string) string {
	name = stripUnsafe(name)
	name = strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.Join(strings.Fields(name), " ")

	if utf8.RuneCountInString(name) > maxDeckNameLen {
		name = strings.TrimSpace(string([]rune(name)[:maxDeckNameLen]))
	}
	if name == "" {
		return "Untitled"
	}
	return name
}
