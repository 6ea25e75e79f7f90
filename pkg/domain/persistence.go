package domain

import (
	"context"
	"encoding/json"
	"fmt"
)

// SnapshotStore persists one snapshot per owner. Load must read every bucket
// inside a single read transaction so pedigree analysis sees a consistent
// transitive closure. Loading an unknown owner yields an empty snapshot.
type SnapshotStore interface {
	Load(ctx context.Context, ownerID string) (Snapshot, error)
	Save(ctx context.Context, ownerID string, snapshot Snapshot) error
}

// Snapshot bucket names shared by the SQL-backed stores.
const (
	BucketCreatures = "creatures"
	BucketPairs     = "pairs"
	BucketLogs      = "breeding_logs"
	BucketGoals     = "goals"
)

// SnapshotBuckets lists every bucket in write order.
var SnapshotBuckets = []string{BucketCreatures, BucketPairs, BucketLogs, BucketGoals}

// EncodeBuckets serialises each bucket of the snapshot as JSON.
func (s Snapshot) EncodeBuckets() (map[string][]byte, error) {
	out := make(map[string][]byte, len(SnapshotBuckets))
	for _, bucket := range SnapshotBuckets {
		data, err := json.Marshal(s.bucket(bucket))
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", bucket, err)
		}
		out[bucket] = data
	}
	return out, nil
}

// DecodeBucket fills one bucket from its JSON payload. Unknown buckets are
// ignored so older binaries can read newer databases.
func (s *Snapshot) DecodeBucket(bucket string, payload []byte) error {
	if len(payload) == 0 {
		return nil
	}
	var target any
	switch bucket {
	case BucketCreatures:
		target = &s.Creatures
	case BucketPairs:
		target = &s.Pairs
	case BucketLogs:
		target = &s.Logs
	case BucketGoals:
		target = &s.Goals
	default:
		return nil
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("decode %s: %w", bucket, err)
	}
	return nil
}

func (s Snapshot) bucket(name string) any {
	switch name {
	case BucketCreatures:
		return nonNil(s.Creatures)
	case BucketPairs:
		return nonNil(s.Pairs)
	case BucketLogs:
		return nonNil(s.Logs)
	default:
		return nonNil(s.Goals)
	}
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
