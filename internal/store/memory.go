package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/nhle/flowboard/internal/model"
)

// MemoryStore keeps each collection as an ordered slice in process memory.
// Nothing survives the process.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]model.Record
	newID       func() string
}

// NewMemoryStore returns an empty store with every known collection
// registered.
func NewMemoryStore(opts ...Option) *MemoryStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &MemoryStore{
		collections: make(map[string][]model.Record, len(model.Collections)),
		newID:       o.newID,
	}
	for _, name := range model.Collections {
		s.collections[name] = nil
	}
	return s
}

// CollectionNames returns the registered collection keys in sorted order.
func (s *MemoryStore) CollectionNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns a copy of the collection, optionally sorted.
func (s *MemoryStore) List(
	_ context.Context,
	collection, orderBy string,
) ([]model.Record, error) {
	s.mu.RLock()
	items := cloneAll(s.collections[collection])
	s.mu.RUnlock()

	SortRecords(items, orderBy)
	return items, nil
}

// Get returns the record with the given id, or nil.
func (s *MemoryStore) Get(
	_ context.Context,
	collection, id string,
) (model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := indexOf(s.collections[collection], id); i >= 0 {
		return s.collections[collection][i].Clone(), nil
	}
	return nil, nil
}

// Create prepends data to the collection, replacing any record with the
// same id.
func (s *MemoryStore) Create(
	_ context.Context,
	collection string,
	data model.Record,
) (model.Record, error) {
	rec, err := prepareCreate(data, s.newID)
	if err != nil {
		return nil, fmt.Errorf("creating %s record: %w", collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.collections[collection]
	next := make([]model.Record, 0, len(items)+1)
	next = append(next, rec)
	for _, r := range items {
		if r.ID() != rec.ID() {
			next = append(next, r)
		}
	}
	s.collections[collection] = next

	return rec.Clone(), nil
}

// Update merges patch into the record in place.
func (s *MemoryStore) Update(
	_ context.Context,
	collection, id string,
	patch model.Patch,
) (model.Record, error) {
	normalized, err := model.NormalizePatch(patch)
	if err != nil {
		return nil, fmt.Errorf("updating %s record %s: %w", collection, id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.collections[collection]
	i := indexOf(items, id)
	if i < 0 {
		return nil, nil
	}

	merged := items[i].Merge(normalized)
	items[i] = merged
	return merged.Clone(), nil
}

// Delete drops the record with the given id, if any.
func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, ok := s.collections[collection]
	if !ok {
		return nil
	}

	kept := make([]model.Record, 0, len(items))
	for _, r := range items {
		if r.ID() != id {
			kept = append(kept, r)
		}
	}
	s.collections[collection] = kept
	return nil
}

// Filter returns matching records, sorted then truncated.
func (s *MemoryStore) Filter(
	_ context.Context,
	collection string,
	where model.Where,
	orderBy string,
	limit int,
) ([]model.Record, error) {
	normalized, err := model.NormalizeWhere(where)
	if err != nil {
		return nil, fmt.Errorf("filtering %s: %w", collection, err)
	}

	s.mu.RLock()
	items := cloneAll(s.collections[collection])
	s.mu.RUnlock()

	return Query(items, normalized, orderBy, limit), nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

func indexOf(items []model.Record, id string) int {
	for i, r := range items {
		if r.ID() == id {
			return i
		}
	}
	return -1
}

func cloneAll(items []model.Record) []model.Record {
	out := make([]model.Record, len(items))
	for i, r := range items {
		out[i] = r.Clone()
	}
	return out
}
