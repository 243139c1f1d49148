package company

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound is returned when no company has the requested id.
	ErrNotFound = errors.New("company: not found")
	// ErrDuplicateRUC is returned when saving a company whose RUC is taken.
	ErrDuplicateRUC = errors.New("company: ruc already registered")
)

// Repository stores companies.
type Repository interface {
	List(ctx context.Context) ([]Company, error)
	Get(ctx context.Context, id int64) (Company, error)
	Save(ctx context.Context, company Company) (Company, error)
	Delete(ctx context.Context, id int64) error
}

// MemoryStore is a Repository kept in process memory. It is safe for
// concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	items  map[int64]Company
	nextID int64
}

var _ Repository = (*MemoryStore)(nil)

// NewMemoryStore returns a store holding seed. Seed entries without an id
// are numbered after the highest id present.
func NewMemoryStore(seed ...Company) *MemoryStore {
	store := &MemoryStore{items: make(map[int64]Company, len(seed))}
	for _, item := range seed {
		if item.ID > store.nextID {
			store.nextID = item.ID
		}
	}
	for _, item := range seed {
		if item.ID == 0 {
			store.nextID++
			item.ID = store.nextID
		}
		store.items[item.ID] = item
	}
	return store
}

type seedFile struct {
	Companies []Company `yaml:"companies"`
}

// DecodeSeed reads a YAML document with a top-level companies list.
func DecodeSeed(r io.Reader) ([]Company, error) {
	var file seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("company: decode seed: %w", err)
	}
	out := make([]Company, 0, len(file.Companies))
	for _, item := range file.Companies {
		out = append(out, item.WithDefaults())
	}
	return out, nil
}

// LoadSeedFile decodes the seed file at path. An empty path yields no
// companies.
func LoadSeedFile(path string) ([]Company, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("company: open seed: %w", err)
	}
	defer f.Close()
	return DecodeSeed(f)
}

// List returns every company ordered by id.
func (s *MemoryStore) List(ctx context.Context) ([]Company, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Company, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Get returns the company with id.
func (s *MemoryStore) Get(ctx context.Context, id int64) (Company, error) {
	if err := ctx.Err(); err != nil {
		return Company{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return Company{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return item, nil
}

// Save inserts company when its id is zero and replaces it otherwise. The
// RUC must be unique across companies.
func (s *MemoryStore) Save(ctx context.Context, company Company) (Company, error) {
	if err := ctx.Err(); err != nil {
		return Company{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if company.ID != 0 {
		if _, ok := s.items[company.ID]; !ok {
			return Company{}, fmt.Errorf("%w: %d", ErrNotFound, company.ID)
		}
	}
	for id, item := range s.items {
		if id != company.ID && item.RUC == company.RUC {
			return Company{}, fmt.Errorf("%w: %s", ErrDuplicateRUC, company.RUC)
		}
	}

	if company.ID == 0 {
		s.nextID++
		company.ID = s.nextID
	}
	s.items[company.ID] = company
	return company, nil
}

// Delete removes the company with id.
func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	delete(s.items, id)
	return nil
}

// Rows lists the repository as listing rows.
func Rows(ctx context.Context, repo Repository) ([]Row, error) {
	items, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, item.Row())
	}
	return rows, nil
}
