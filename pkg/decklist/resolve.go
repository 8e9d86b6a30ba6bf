package decklist

import (
	"strings"

	"github.com/ccollicutt/deckport/pkg/catalog"
)

// Variation rewrites a candidate identifier before a catalog lookup.
type Variation struct {
	Name  string
	Apply func(string) string
}

// DefaultVariations returns the lookup attempts in order: exact, case
// changes, then hyphen/underscore swaps combined with each case form.
func DefaultVariations() []Variation {
	return []Variation{
		{Name: "exact", Apply: identity},
		{Name: "upper", Apply: strings.ToUpper},
		{Name: "lower", Apply: strings.ToLower},
		{Name: "swap-separators", Apply: SwapSeparators},
		{Name: "swap-separators-upper", Apply: func(s string) string {
			return strings.ToUpper(SwapSeparators(s))
		}},
		{Name: "swap-separators-lower", Apply: func(s string) string {
			return strings.ToLower(SwapSeparators(s))
		}},
	}
}

func identity(s string) string { return s }

// SwapSeparators exchanges every hyphen with an underscore and vice versa.
func SwapSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-':
			return '_'
		case '_':
			return '-'
		}
		return r
	}, s)
}

// Resolve looks candidate up with DefaultVariations.
func Resolve(candidate string, lookup catalog.LookupFunc) (string, bool) {
	return resolveWith(candidate, lookup, DefaultVariations())
}

// resolveWith tries each variation in order and returns the canonical
// catalog identifier of the first hit. Repeated variants are looked up once.
func resolveWith(candidate string, lookup catalog.LookupFunc, variations []Variation) (string, bool) {
	tried := make(map[string]struct{}, len(variations))
	for _, v := range variations {
		key := v.Apply(candidate)
		if _, seen := tried[key]; seen {
			continue
		}
		tried[key] = struct{}{}

		if card, ok := lookup(key); ok {
			if card.ID == "" {
				return key, true
			}
			return card.ID, true
		}
	}
	return "", false
}
