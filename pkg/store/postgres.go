package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS decks (
	name       text PRIMARY KEY,
	cards      text[] NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now()
)`

// PostgresStore keeps decks in a PostgreSQL table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to dsn and verifies the connection.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema creates the decks table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Save implements Store.
func (s *PostgresStore) Save(ctx context.Context, name string, ids []string) error {
	name, err := CleanName(name)
	if err != nil {
		return err
	}
	if ids == nil {
		ids = []string{}
	}

	const q = `
INSERT INTO decks (name, cards, updated_at) VALUES ($1, $2, now())
ON CONFLICT (name) DO UPDATE SET cards = EXCLUDED.cards, updated_at = now()`

	if _, err := s.pool.Exec(ctx, q, name, ids); err != nil {
		return fmt.Errorf("saving deck: %w", err)
	}
	return nil
}

// Load implements Store.
func (s *PostgresStore) Load(ctx context.Context, name string) (*Deck, error) {
	name, err := CleanName(name)
	if err != nil {
		return nil, err
	}

	deck := &Deck{Name: name}
	err = s.pool.QueryRow(ctx, `SELECT cards, updated_at FROM decks WHERE name = $1`, name).
		Scan(&deck.CardIDs, &deck.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDeckNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading deck: %w", err)
	}
	if deck.CardIDs == nil {
		deck.CardIDs = []string{}
	}
	return deck, nil
}

// List implements Store.
func (s *PostgresStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT name, cardinality(cards), updated_at FROM decks ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing decks: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.Name, &sum.Cards, &sum.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning deck: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing decks: %w", err)
	}
	return out, nil
}

// Delete implements Store.
func (s *PostgresStore) Delete(ctx context.Context, name string) error {
	name, err := CleanName(name)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM decks WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("deleting deck: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDeckNotFound
	}
	return nil
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
