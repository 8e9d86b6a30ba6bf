// Package store persists imported decks by name.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ccollicutt/deckport/pkg/config"
	"github.com/ccollicutt/deckport/pkg/decklist"
)

var (
	// ErrDeckNotFound is returned when no deck is stored under a name.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrInvalidName is returned for blank deck names.
	ErrInvalidName = errors.New("deck name is required")
)

// Deck is a stored deck.
type Deck struct {
	Name      string    `json:"name"`
	CardIDs   []string  `json:"cards"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary describes a stored deck without its cards.
type Summary struct {
	Name      string    `json:"name"`
	Cards     int       `json:"cards"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store saves and loads decks. Implementations are safe for concurrent use.
type Store interface {
	// Save creates or replaces the deck stored under name.
	Save(ctx context.Context, name string, ids []string) error

	// Load returns the deck stored under name or ErrDeckNotFound.
	Load(ctx context.Context, name string) (*Deck, error)

	// List returns every stored deck ordered by name.
	List(ctx context.Context) ([]Summary, error)

	// Delete removes the deck stored under name or returns ErrDeckNotFound.
	Delete(ctx context.Context, name string) error

	Close() error
}

// Open returns the store selected by cfg.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case config.StoreDriverFile, "":
		return NewFileStore(cfg.Path)
	case config.StoreDriverPostgres:
		s, err := NewPostgresStore(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureSchema(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Driver)
	}
}

// CleanName returns the canonical single-line form of a deck name.
func CleanName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrInvalidName
	}
	return decklist.DeckName(name), nil
}
