// Package catalog provides read-only card lookup by identifier.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Card is the catalog entry for a single card.
type Card struct {
	// ID is the canonical identifier (e.g. "1-001L").
	ID string `yaml:"id" json:"id"`

	// Name is the display name.
	Name string `yaml:"name" json:"name"`

	Set     string `yaml:"set,omitempty" json:"set,omitempty"`
	Rarity  string `yaml:"rarity,omitempty" json:"rarity,omitempty"`
	Element string `yaml:"element,omitempty" json:"element,omitempty"`
	Cost    int    `yaml:"cost,omitempty" json:"cost,omitempty"`
}

// LookupFunc looks up a card by exact identifier.
// Implementations must be side-effect free.
type LookupFunc func(id string) (Card, bool)

// Catalog is a read-only card collection.
type Catalog interface {
	Lookup(id string) (Card, bool)
	Len() int
	Cards() []Card
}

// File is the on-disk catalog structure.
type File struct {
	Cards []Card `yaml:"cards"`
}

// MemoryCatalog is an immutable in-memory Catalog.
type MemoryCatalog struct {
	byID  map[string]Card
	cards []Card
}

// New builds a catalog from the given cards.
// Returns an error for an empty or duplicate identifier, or a missing name.
func New(cards []Card) (*MemoryCatalog, error) {
	c := &MemoryCatalog{
		byID:  make(map[string]Card, len(cards)),
		cards: make([]Card, 0, len(cards)),
	}
	for i, card := range cards {
		card.ID = strings.TrimSpace(card.ID)
		if card.ID == "" {
			return nil, fmt.Errorf("cards[%d]: id is required", i)
		}
		if strings.TrimSpace(card.Name) == "" {
			return nil, fmt.Errorf("cards[%d] (%s): name is required", i, card.ID)
		}
		if _, dup := c.byID[card.ID]; dup {
			return nil, fmt.Errorf("cards[%d]: duplicate id %q", i, card.ID)
		}
		c.byID[card.ID] = card
		c.cards = append(c.cards, card)
	}

	sort.Slice(c.cards, func(i, j int) bool {
		return c.cards[i].ID < c.cards[j].ID
	})

	return c, nil
}

// LoadFile reads a YAML (or JSON) catalog file.
func LoadFile(_ context.Context, path string) (*MemoryCatalog, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided catalog path is expected
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}
	if len(f.Cards) == 0 {
		return nil, errors.New("catalog has no cards")
	}

	return New(f.Cards)
}

// Lookup returns the card stored under exactly id.
func (c *MemoryCatalog) Lookup(id string) (Card, bool) {
	card, ok := c.byID[id]
	return card, ok
}

// Len returns the number of cards.
func (c *MemoryCatalog) Len() int {
	return len(c.cards)
}

// Cards returns a copy of all cards sorted by identifier.
func (c *MemoryCatalog) Cards() []Card {
	out := make([]Card, len(c.cards))
	copy(out, c.cards)
	return out
}

// LookupFunc returns c.Lookup as a LookupFunc.
func (c *MemoryCatalog) LookupFunc() LookupFunc {
	return c.Lookup
}
