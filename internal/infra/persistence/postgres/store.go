// Package postgres persists owner snapshots in PostgreSQL through the pgx
// database/sql driver. Each (owner, bucket) pair is one JSONB row.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"breedlab/pkg/domain"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

var _ domain.SnapshotStore = (*Store)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/breedlab?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// readOptions give Load a stable view across all buckets.
var readOptions = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// Store is a Postgres-backed domain.SnapshotStore.
type Store struct {
	db *sql.DB
}

// NewStore opens the database at dsn (falls back to defaultDSN), pings it and
// ensures the snapshots table exists.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS snapshots (
		owner TEXT NOT NULL,
		bucket TEXT NOT NULL,
		payload JSONB NOT NULL,
		PRIMARY KEY (owner, bucket)
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure snapshots table: %w", err)
	}
	return &Store{db: db}, nil
}

// Load reads every bucket for owner inside one read-only repeatable-read
// transaction.
func (s *Store) Load(ctx context.Context, ownerID string) (domain.Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, readOptions)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("begin read: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	rows, err := tx.QueryContext(ctx, `SELECT bucket, payload FROM snapshots WHERE owner = $1`, ownerID)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("select snapshot: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var snapshot domain.Snapshot
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return domain.Snapshot{}, fmt.Errorf("scan snapshot: %w", err)
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
func (s *Store) Save(ctx context.Context, ownerID string, snapshot domain.Snapshot) error {
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
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	for _, bucket := range domain.SnapshotBuckets {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshots(owner, bucket, payload) VALUES($1, $2, $3) ON CONFLICT(owner, bucket) DO UPDATE SET payload = EXCLUDED.payload`,
			ownerID, bucket, buckets[bucket]); err != nil {
			return fmt.Errorf("upsert %s: %w", bucket, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
