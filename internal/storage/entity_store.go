package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/cloudcatalog/ingester/internal/catalog"
)

// ErrEntityNotFound is returned by Get when no row matches.
var ErrEntityNotFound = errors.New("entity not found")

// pgUndefinedTable is the SQLSTATE raised when catalog_entities is missing,
// i.e. migrations have not run.
const pgUndefinedTable = "42P01"

// EntityStore upserts catalog entities keyed by (kind, namespace, name).
//
// Every Write refreshes last_seen, so rows not seen by recent reads can be
// found by age. updated_at moves only when the entity's Fingerprint changes.
// Rows are never deleted here.
type EntityStore struct {
	conn *Connection
}

// Record is a stored entity with its bookkeeping columns.
type Record struct {
	Entity      catalog.Entity
	ContentHash string
	FirstSeen   time.Time
	UpdatedAt   time.Time
	LastSeen    time.Time
}

// NewEntityStore wraps conn. The schema must already be migrated.
func NewEntityStore(conn *Connection) *EntityStore {
	return &EntityStore{conn: conn}
}

// Write inserts entity or updates the existing row with the same reference.
func (s *EntityStore) Write(ctx context.Context, entity catalog.Entity) error {
	annotations, err := json.Marshal(entity.Metadata.Annotations)
	if err != nil {
		return fmt.Errorf("failed to encode annotations of %s: %w", entity.Ref(), err)
	}

	spec, err := json.Marshal(entity.Spec)
	if err != nil {
		return fmt.Errorf("failed to encode spec of %s: %w", entity.Ref(), err)
	}

	hash, err := Fingerprint(entity)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO catalog_entities (kind, namespace, name, api_version, annotations, spec, content_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (kind, namespace, name) DO UPDATE SET
			api_version  = EXCLUDED.api_version,
			annotations  = EXCLUDED.annotations,
			spec         = EXCLUDED.spec,
			content_hash = EXCLUDED.content_hash,
			updated_at   = CASE
				WHEN catalog_entities.content_hash = EXCLUDED.content_hash THEN catalog_entities.updated_at
				ELSE NOW()
			END,
			last_seen    = NOW()
	`

	_, err = s.conn.ExecContext(ctx, query,
		entity.Kind,
		entity.Metadata.Namespace,
		entity.Metadata.Name,
		entity.APIVersion,
		annotations,
		spec,
		hash,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert %s: %w", entity.Ref(), describe(err))
	}

	return nil
}

// Get loads one entity.
func (s *EntityStore) Get(ctx context.Context, kind, namespace, name string) (Record, error) {
	query := `
		SELECT api_version, annotations, spec, content_hash, first_seen, updated_at, last_seen
		FROM catalog_entities
		WHERE kind = $1 AND namespace = $2 AND name = $3
	`

	var (
		rec         Record
		annotations []byte
		spec        []byte
	)

	err := s.conn.QueryRowContext(ctx, query, kind, namespace, name).Scan(
		&rec.Entity.APIVersion,
		&annotations,
		&spec,
		&rec.ContentHash,
		&rec.FirstSeen,
		&rec.UpdatedAt,
		&rec.LastSeen,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s:%s/%s", ErrEntityNotFound, kind, namespace, name)
	}

	if err != nil {
		return Record{}, fmt.Errorf("failed to load %s:%s/%s: %w", kind, namespace, name, describe(err))
	}

	rec.Entity.Kind = kind
	rec.Entity.Metadata.Namespace = namespace
	rec.Entity.Metadata.Name = name

	if err := json.Unmarshal(annotations, &rec.Entity.Metadata.Annotations); err != nil {
		return Record{}, fmt.Errorf("failed to decode annotations: %w", err)
	}

	if err := json.Unmarshal(spec, &rec.Entity.Spec); err != nil {
		return Record{}, fmt.Errorf("failed to decode spec: %w", err)
	}

	return rec, nil
}

// Count returns the number of stored entities of kind.
func (s *EntityStore) Count(ctx context.Context, kind string) (int, error) {
	var n int

	err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_entities WHERE kind = $1`, kind).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count entities: %w", describe(err))
	}

	return n, nil
}

// Close closes the underlying connection pool.
func (s *EntityStore) Close() error {
	if s.conn == nil {
		return nil
	}

	return s.conn.Close()
}

// describe adds a hint for PostgreSQL errors that usually mean a setup problem.
func describe(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUndefinedTable {
		return fmt.Errorf("%w (hint: run database migrations)", err)
	}

	return err
}
