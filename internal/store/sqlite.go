package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/flowboard/internal/model"
)

// MemoryDSN opens a private, process-local SQLite database.
const MemoryDSN = ":memory:"

// SQLiteStore keeps records as JSON documents in a SQLite database. Storage
// order is kept in a position column; new records take the lowest position.
type SQLiteStore struct {
	db    *sqlx.DB
	newID func() string
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and runs
// any pending schema migrations. Use MemoryDSN for a memory-resident store.
func NewSQLiteStore(dbPath string, opts ...Option) (*SQLiteStore, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if dbPath == MemoryDSN {
		// Every pooled connection would get its own empty database.
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, newID: o.newID}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// List returns the collection in storage order, optionally sorted.
func (s *SQLiteStore) List(
	ctx context.Context,
	collection, orderBy string,
) ([]model.Record, error) {
	items, err := s.load(ctx, collection)
	if err != nil {
		return nil, err
	}
	SortRecords(items, orderBy)
	return items, nil
}

// Get returns the record with the given id, or nil.
func (s *SQLiteStore) Get(
	ctx context.Context,
	collection, id string,
) (model.Record, error) {
	var data string
	err := s.db.GetContext(ctx, &data,
		"SELECT data FROM records WHERE collection = ? AND id = ?",
		collection, id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s record %s: %w", collection, id, err)
	}
	return decodeRecord(data)
}

// Create inserts data ahead of every existing record in the collection.
// A record with the same id is replaced.
func (s *SQLiteStore) Create(
	ctx context.Context,
	collection string,
	data model.Record,
) (model.Record, error) {
	rec, err := prepareCreate(data, s.newID)
	if err != nil {
		return nil, fmt.Errorf("creating %s record: %w", collection, err)
	}

	encoded, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding %s record: %w", collection, err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"DELETE FROM records WHERE collection = ? AND id = ?",
		collection, rec.ID(),
	)
	if err != nil {
		return nil, fmt.Errorf("replacing %s record %s: %w", collection, rec.ID(), err)
	}

	var front int64
	err = tx.GetContext(ctx, &front,
		"SELECT COALESCE(MIN(position), 0) FROM records WHERE collection = ?",
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("reading %s front position: %w", collection, err)
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO records (collection, id, position, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		collection, rec.ID(), front-1, string(encoded), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting %s record %s: %w", collection, rec.ID(), err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing %s record %s: %w", collection, rec.ID(), err)
	}
	return rec, nil
}

// Update merges patch into the stored document, keeping its position.
func (s *SQLiteStore) Update(
	ctx context.Context,
	collection, id string,
	patch model.Patch,
) (model.Record, error) {
	normalized, err := model.NormalizePatch(patch)
	if err != nil {
		return nil, fmt.Errorf("updating %s record %s: %w", collection, id, err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var data string
	err = tx.GetContext(ctx, &data,
		"SELECT data FROM records WHERE collection = ? AND id = ?",
		collection, id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s record %s: %w", collection, id, err)
	}

	existing, err := decodeRecord(data)
	if err != nil {
		return nil, err
	}
	merged := existing.Merge(normalized)

	encoded, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("encoding %s record %s: %w", collection, id, err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE records SET data = ?, updated_at = ? WHERE collection = ? AND id = ?",
		string(encoded), time.Now().UTC(), collection, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating %s record %s: %w", collection, id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing %s record %s: %w", collection, id, err)
	}
	return merged, nil
}

// Delete removes a record by id. Missing ids are not an error.
func (s *SQLiteStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM records WHERE collection = ? AND id = ?",
		collection, id,
	)
	if err != nil {
		return fmt.Errorf("deleting %s record %s: %w", collection, id, err)
	}
	return nil
}

// Filter loads the collection and applies the where, orderBy and limit
// rules in memory so both stores share one set of matching semantics.
func (s *SQLiteStore) Filter(
	ctx context.Context,
	collection string,
	where model.Where,
	orderBy string,
	limit int,
) ([]model.Record, error) {
	normalized, err := model.NormalizeWhere(where)
	if err != nil {
		return nil, fmt.Errorf("filtering %s: %w", collection, err)
	}

	items, err := s.load(ctx, collection)
	if err != nil {
		return nil, err
	}
	return Query(items, normalized, orderBy, limit), nil
}

// load reads a whole collection in storage order.
func (s *SQLiteStore) load(ctx context.Context, collection string) ([]model.Record, error) {
	var rows []string
	err := s.db.SelectContext(ctx, &rows,
		"SELECT data FROM records WHERE collection = ? ORDER BY position",
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", collection, err)
	}

	items := make([]model.Record, 0, len(rows))
	for _, data := range rows {
		rec, err := decodeRecord(data)
		if err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	return items, nil
}

// decodeRecord parses a stored JSON document.
func decodeRecord(data string) (model.Record, error) {
	var rec model.Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("unmarshaling record: %w", err)
	}
	if rec == nil {
		rec = model.Record{}
	}
	return rec, nil
}
