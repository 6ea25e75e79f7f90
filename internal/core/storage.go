package core

import (
	"context"
	"fmt"
	"io"
	"os"

	"breedlab/internal/infra/persistence/memory"
	"breedlab/internal/infra/persistence/postgres"
	"breedlab/internal/infra/persistence/sqlite"
	"breedlab/pkg/domain"
)

// StorageDriver identifies a concrete snapshot storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// Environment variables read by OpenSnapshotStore.
const (
	EnvStorageDriver = "BREEDLAB_STORAGE_DRIVER"
	EnvSQLitePath    = "BREEDLAB_SQLITE_PATH"
	EnvPostgresDSN   = "BREEDLAB_POSTGRES_DSN"
)

// SnapshotStore is a snapshot store holding resources until closed.
type SnapshotStore interface {
	domain.SnapshotStore
	io.Closer
}

type memoryStore struct{ *memory.Store }

func (memoryStore) Close() error { return nil }

// OpenSnapshotStore selects a backend using environment variables.
// Defaults to sqlite when unset.
//
//	BREEDLAB_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	BREEDLAB_SQLITE_PATH: path to sqlite file (default ./breedlab.db)
//	BREEDLAB_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenSnapshotStore(ctx context.Context) (SnapshotStore, error) {
	driver := os.Getenv(EnvStorageDriver)
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memoryStore{memory.NewStore()}, nil
	case StorageSQLite:
		store, err := sqlite.NewStore(ctx, os.Getenv(EnvSQLitePath))
		if err != nil {
			return nil, err
		}
		return store, nil
	case StoragePostgres:
		store, err := postgres.NewStore(ctx, os.Getenv(EnvPostgresDSN))
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
