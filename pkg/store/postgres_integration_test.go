package store

import (
	"context"
	"os"
	"testing"
)

// Postgres tests run only against a disposable database named by
// DECKPORT_TEST_DSN; the decks table is dropped before and after.
func newTestPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv("DECKPORT_TEST_DSN")
	if dsn == "" {
		t.Skip("DECKPORT_TEST_DSN not set")
	}

	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dsn)
	if err != nil {
		t.Fatalf("NewPostgresStore() error = %v", err)
	}
	drop := func() {
		if _, err := s.pool.Exec(ctx, "DROP TABLE IF EXISTS decks"); err != nil {
			t.Fatalf("dropping decks table: %v", err)
		}
	}
	drop()
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	t.Cleanup(func() {
		drop()
		s.Close()
	})
	return s
}

func TestPostgresStore_Contract(t *testing.T) {
	testStoreContract(t, newTestPostgresStore(t))
}

func TestPostgresStore_EnsureSchemaIdempotent(t *testing.T) {
	s := newTestPostgresStore(t)
	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Errorf("second EnsureSchema() error = %v", err)
	}
}
