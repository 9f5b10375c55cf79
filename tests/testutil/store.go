package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nhle/flowboard/internal/store"
)

// SequentialIDs returns a generator producing prefix-1, prefix-2, ...
func SequentialIDs(prefix string) func() string {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, n.Add(1))
	}
}

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T, opts ...store.Option) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(store.MemoryDSN, opts...)
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// Stores returns one fresh instance of every Store implementation, keyed
// by driver name, for contract tests.
func Stores(t *testing.T) map[string]store.Store {
	t.Helper()

	return map[string]store.Store{
		"memory": store.NewMemoryStore(),
		"sqlite": NewTestStore(t),
	}
}

// NewSeededStore returns a memory store holding the demo records.
func NewSeededStore(t *testing.T, now time.Time) *store.MemoryStore {
	t.Helper()

	s := store.NewMemoryStore()
	if err := store.Seed(context.Background(), s, now); err != nil {
		t.Fatalf("seeding store: %v", err)
	}
	return s
}
