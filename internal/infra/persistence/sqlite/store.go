// Package sqlite persists owner snapshots in an embedded SQLite file, one JSON
// payload per (owner, bucket) row.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"breedlab/pkg/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

var _ domain.SnapshotStore = (*Store)(nil)

const defaultPath = "breedlab.db"

// Store is a SQLite-backed domain.SnapshotStore.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the database at path.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection serialises transactions on the file
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS snapshots (
		owner TEXT NOT NULL,
		bucket TEXT NOT NULL,
		payload BLOB NOT NULL,
		PRIMARY KEY (owner, bucket)
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Load reads every bucket for owner inside one transaction.
func (s *Store) Load(ctx context.Context, ownerID string) (domain.Snapshot, error) {
	var snapshot domain.Snapshot
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("begin read: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	rows, err := tx.QueryContext(ctx, `SELECT bucket, payload FROM snapshots WHERE owner = ?`, ownerID)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("select snapshot: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return domain.Snapshot{}, fmt.Errorf("scan: %w", err)
		}
		if err := snapshot.DecodeBucket(bucket, payload); err != nil {
			return domain.Snapshot{}, err
		}
	}
	if err := rows.Err(); err != nil {
		return domain.Snapshot{}, fmt.Errorf("iterate snapshot: %w", err)
	}
	return snapshot, nil
}

// Save validates the snapshot and upserts every bucket in one transaction.
func (s *Store) Save(ctx context.Context, ownerID string, snapshot domain.Snapshot) (retErr error) {
	if ownerID == "" {
		return fmt.Errorf("owner id required")
	}
	if err := snapshot.Validate(); err != nil {
		return err
	}
	buckets, err := snapshot.EncodeBuckets()
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin write: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, bucket := range domain.SnapshotBuckets {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshots(owner, bucket, payload) VALUES(?, ?, ?) ON CONFLICT(owner, bucket) DO UPDATE SET payload = excluded.payload`,
			ownerID, bucket, buckets[bucket]); err != nil {
			return fmt.Errorf("upsert %s: %w", bucket, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
