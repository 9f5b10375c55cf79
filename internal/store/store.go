package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/nhle/flowboard/internal/model"
)

// Store is the in-process record store backing mock mode. Every collection
// is an ordered sequence of records; new records go to the front.
//
// Lookups that find nothing return a nil record and a nil error. Delete of
// an unknown id succeeds.
type Store interface {
	// List returns every record in the collection, sorted by orderBy when
	// it is non-empty, otherwise in storage order.
	List(ctx context.Context, collection, orderBy string) ([]model.Record, error)

	// Get returns the record with the given id, or nil.
	Get(ctx context.Context, collection, id string) (model.Record, error)

	// Create stores data at the front of the collection, assigning an id
	// when data has none, and returns the stored record. A record already
	// holding the id is replaced, so the newest one wins.
	Create(ctx context.Context, collection string, data model.Record) (model.Record, error)

	// Update shallow-merges patch over the record in place and returns the
	// merged record, or nil when no record has the id.
	Update(ctx context.Context, collection, id string, patch model.Patch) (model.Record, error)

	// Delete removes the record with the given id if present.
	Delete(ctx context.Context, collection, id string) error

	// Filter returns the records matching every where field, sorted by
	// orderBy and then truncated to limit when limit > 0.
	Filter(
		ctx context.Context,
		collection string,
		where model.Where,
		orderBy string,
		limit int,
	) ([]model.Record, error)

	// Close releases any underlying resources.
	Close() error
}

// Option configures a store.
type Option func(*options)

type options struct {
	newID func() string
}

func defaultOptions() options {
	return options{newID: uuid.NewString}
}

// WithIDGenerator replaces the identifier source. Generated ids must be
// unique for the lifetime of the store.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// prepareCreate normalizes data and assigns an id when it has none.
func prepareCreate(data model.Record, newID func() string) (model.Record, error) {
	rec, err := model.ToRecord(map[string]any(data))
	if err != nil {
		return nil, err
	}
	if rec.ID() == "" {
		rec["id"] = newID()
	}
	return rec, nil
}
