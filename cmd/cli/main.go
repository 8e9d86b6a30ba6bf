// deckport - Deck List Import and Export
//
// deckport parses plain-text trading-card deck lists against a card catalog,
// reports what it could not import, and exports decks back to text.
package main

import (
	"os"

	"github.com/ccollicutt/deckport/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
