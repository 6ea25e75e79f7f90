// Package memory provides an in-process snapshot store, used for tests and
// ephemeral CLI runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"breedlab/pkg/domain"
)

var _ domain.SnapshotStore = (*Store)(nil)

// Store keeps one cloned snapshot per owner. Loads and saves are isolated by
// an RWMutex and never share slices or maps with callers.
type Store struct {
	mu     sync.RWMutex
	owners map[string]domain.Snapshot
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{owners: make(map[string]domain.Snapshot)}
}

// Load returns a copy of the owner's snapshot, or an empty snapshot when the
// owner has never saved.
func (s *Store) Load(ctx context.Context, ownerID string) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owners[ownerID].Clone(), nil
}

// Save validates and replaces the owner's snapshot.
func (s *Store) Save(ctx context.Context, ownerID string, snapshot domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ownerID == "" {
		return fmt.Errorf("owner id required")
	}
	if err := snapshot.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[ownerID] = snapshot.Clone()
	return nil
}

// Owners returns the number of owners with a saved snapshot.
func (s *Store) Owners() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.owners)
}
