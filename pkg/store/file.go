package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/deckport/pkg/decklist"
)

// deckFile is the on-disk YAML layout.
type deckFile struct {
	Decks []deckEntry `yaml:"decks"`
}

type deckEntry struct {
	Name      string      `yaml:"name"`
	Cards     []cardEntry `yaml:"cards"`
	UpdatedAt time.Time   `yaml:"updated_at,omitempty"`
}

type cardEntry struct {
	ID    string `yaml:"id"`
	Count int    `yaml:"count"`
}

// FileStore keeps decks in a single YAML file.
type FileStore struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewFileStore returns a store backed by path. The file is created on the
// first save.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("file store: path is required")
	}
	return &FileStore{path: path, now: time.Now}, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Save implements Store.
func (s *FileStore) Save(_ context.Context, name string, ids []string) error {
	name, err := CleanName(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	df, err := s.read()
	if err != nil {
		return err
	}

	entry := deckEntry{Name: name, UpdatedAt: s.now().UTC()}
	for _, g := range decklist.Group(ids) {
		entry.Cards = append(entry.Cards, cardEntry{ID: g.ID, Count: g.Count})
	}

	if i := df.index(name); i >= 0 {
		df.Decks[i] = entry
	} else {
		df.Decks = append(df.Decks, entry)
	}

	return s.write(df)
}

// Load implements Store.
func (s *FileStore) Load(_ context.Context, name string) (*Deck, error) {
	name, err := CleanName(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	df, err := s.read()
	if err != nil {
		return nil, err
	}

	i := df.index(name)
	if i < 0 {
		return nil, ErrDeckNotFound
	}

	e := df.Decks[i]
	deck := &Deck{Name: e.Name, CardIDs: []string{}, UpdatedAt: e.UpdatedAt}
	for _, c := range e.Cards {
		for j := 0; j < c.Count; j++ {
			deck.CardIDs = append(deck.CardIDs, c.ID)
		}
	}
	return deck, nil
}

// List implements Store.
func (s *FileStore) List(_ context.Context) ([]Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	df, err := s.read()
	if err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(df.Decks))
	for _, e := range df.Decks {
		n := 0
		for _, c := range e.Cards {
			n += c.Count
		}
		out = append(out, Summary{Name: e.Name, Cards: n, UpdatedAt: e.UpdatedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete implements Store.
func (s *FileStore) Delete(_ context.Context, name string) error {
	name, err := CleanName(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	df, err := s.read()
	if err != nil {
		return err
	}

	i := df.index(name)
	if i < 0 {
		return ErrDeckNotFound
	}
	df.Decks = append(df.Decks[:i], df.Decks[i+1:]...)

	return s.write(df)
}

// Close implements Store.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) read() (*deckFile, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &deckFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading deck file: %w", err)
	}

	var df deckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parsing deck file: %w", err)
	}
	return &df, nil
}

// write replaces the deck file atomically via a temp file and rename.
func (s *FileStore) write(df *deckFile) error {
	data, err := yaml.Marshal(df)
	if err != nil {
		return fmt.Errorf("encoding deck file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating deck directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".decks-*.yaml")
	if err != nil {
		return fmt.Errorf("writing deck file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing deck file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing deck file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing deck file: %w", err)
	}
	return nil
}

func (df *deckFile) index(name string) int {
	for i, e := range df.Decks {
		if e.Name == name {
			return i
		}
	}
	return -1
}
