package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strconv"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"breedlab/internal/blob"
	"breedlab/internal/reference"
	"breedlab/pkg/domain"
	"breedlab/pkg/genetics"
)

// ImportSummary describes a snapshot accepted by Import.
type ImportSummary struct {
	OwnerID        string                    `json:"owner_id"`
	Creatures      int                       `json:"creatures"`
	Pairs          int                       `json:"pairs"`
	Logs           int                       `json:"logs"`
	Goals          int                       `json:"goals"`
	AssignedLogIDs int                       `json:"assigned_log_ids"`
	Issues         []genetics.IntegrityIssue `json:"issues,omitempty"`
}

// Import replaces the owner's snapshot with the YAML or JSON document in
// data. Log entries without an id receive a generated one and entries
// without a timestamp are stamped with the import time. Pedigree problems do
// not block the import; they are returned and logged.
func (s *Service) Import(ctx context.Context, ownerID string, data []byte) (ImportSummary, error) {
	var out ImportSummary
	err := s.run(ctx, "import", func(ctx context.Context) error {
		var snapshot domain.Snapshot
		if err := yaml.Unmarshal(data, &snapshot); err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
		now := s.now().UTC()
		assigned := 0
		for i := range snapshot.Logs {
			if snapshot.Logs[i].ID == "" {
				snapshot.Logs[i].ID = uuid.NewString()
				assigned++
			}
			if snapshot.Logs[i].LoggedAt.IsZero() {
				snapshot.Logs[i].LoggedAt = now
			}
		}
		if err := snapshot.Validate(); err != nil {
			return err
		}
		if err := s.store.Save(ctx, ownerID, snapshot); err != nil {
			return fmt.Errorf("save snapshot for %s: %w", ownerID, err)
		}
		issues := genetics.NewPedigree(snapshot.Pairs, snapshot.Logs).Issues()
		s.reportIssues("import", ownerID, issues)
		out = ImportSummary{
			OwnerID:        ownerID,
			Creatures:      len(snapshot.Creatures),
			Pairs:          len(snapshot.Pairs),
			Logs:           len(snapshot.Logs),
			Goals:          len(snapshot.Goals),
			AssignedLogIDs: assigned,
			Issues:         issues,
		}
		s.logger.Info("snapshot imported", "owner", ownerID, "creatures", out.Creatures, "pairs", out.Pairs, "logs", out.Logs, "goals", out.Goals)
		return nil
	})
	return out, err
}

// Export returns the owner's stored snapshot.
func (s *Service) Export(ctx context.Context, ownerID string) (domain.Snapshot, error) {
	var out domain.Snapshot
	err := s.run(ctx, "export", func(ctx context.Context) error {
		snapshot, err := s.load(ctx, ownerID)
		if err != nil {
			return err
		}
		out = snapshot
		return nil
	})
	return out, err
}

// SnapshotPrefix is the blob key prefix of archived snapshots.
const SnapshotPrefix = "snapshots/"

// ArchiveSnapshot writes the owner's stored snapshot as JSON to a new,
// time-keyed blob and returns its metadata.
func (s *Service) ArchiveSnapshot(ctx context.Context, ownerID string, store blob.Store) (blob.Info, error) {
	var info blob.Info
	err := s.run(ctx, "archive_snapshot", func(ctx context.Context) error {
		snapshot, err := s.load(ctx, ownerID)
		if err != nil {
			return err
		}
		payload, err := json.Marshal(snapshot)
		if err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
		key := fmt.Sprintf("%s%s/%s-%s.json", SnapshotPrefix, url.PathEscape(ownerID),
			s.now().UTC().Format("20060102T150405.000000000Z"), uuid.NewString()[:8])
		info, err = store.Put(ctx, key, bytes.NewReader(payload), blob.PutOptions{
			ContentType: "application/json",
			Metadata: map[string]string{
				"owner":     ownerID,
				"creatures": strconv.Itoa(len(snapshot.Creatures)),
				"logs":      strconv.Itoa(len(snapshot.Logs)),
			},
		})
		if err != nil {
			return fmt.Errorf("store snapshot archive: %w", err)
		}
		s.logger.Info("snapshot archived", "owner", ownerID, "key", info.Key, "size", info.Size)
		return nil
	})
	return info, err
}

// PublishTables validates data as a reference document and stores it as a
// new bundle. The service keeps evaluating against its current tables.
func (s *Service) PublishTables(ctx context.Context, store blob.Store, data []byte) (blob.Info, *reference.Bundle, error) {
	var (
		info   blob.Info
		bundle *reference.Bundle
	)
	err := s.run(ctx, "publish_tables", func(ctx context.Context) error {
		var err error
		info, bundle, err = reference.Publish(ctx, store, data, s.now())
		if err != nil {
			return err
		}
		s.logger.Info("reference tables published", "key", info.Key, "version", bundle.Version, "findings", len(bundle.Findings))
		return nil
	})
	return info, bundle, err
}

// AuditTables returns the consistency findings of the active tables.
func (s *Service) AuditTables(ctx context.Context) ([]reference.Finding, error) {
	var out []reference.Finding
	err := s.run(ctx, "audit_tables", func(context.Context) error {
		out = slices.Clone(s.bundle.Findings)
		if out == nil {
			out = []reference.Finding{}
		}
		return nil
	})
	return out, err
}
