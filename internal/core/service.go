package core

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"breedlab/internal/reference"
	"breedlab/pkg/domain"
	"breedlab/pkg/genetics"
)

// Service answers breeding questions about one owner's records. Every call
// loads the owner's full snapshot, so pedigree answers always see the
// complete set of pairs and logs. A Service is safe for concurrent use.
type Service struct {
	store         domain.SnapshotStore
	bundle        *reference.Bundle
	engine        *genetics.Engine
	logger        Logger
	metrics       MetricsRecorder
	tracer        Tracer
	now           func() time.Time
	ancestorDepth int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger. A nil logger is ignored.
func WithLogger(logger Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for durations and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMetricsRecorder sets the recorder observing every operation.
func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.metrics = recorder
		}
	}
}

// WithTracer sets the tracer wrapping every operation.
func WithTracer(tracer Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithTables sets the reference bundle. The built-in tables are used when
// none is supplied.
func WithTables(bundle *reference.Bundle) Option {
	return func(s *Service) {
		if bundle != nil && bundle.Tables != nil {
			s.bundle = bundle
		}
	}
}

// WithAncestorDepth bounds ancestor walks during inbreeding checks.
func WithAncestorDepth(depth int) Option {
	return func(s *Service) {
		s.ancestorDepth = depth
	}
}

// NewService constructs a service over store.
func NewService(store domain.SnapshotStore, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("snapshot store is required")
	}
	s := &Service{
		store:   store,
		logger:  noopLogger{},
		metrics: noopMetrics{},
		tracer:  noopTracer{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bundle == nil {
		bundle, err := reference.Default()
		if err != nil {
			return nil, fmt.Errorf("load built-in reference tables: %w", err)
		}
		s.bundle = bundle
	}
	s.engine = genetics.NewEngine(s.bundle.Tables, genetics.WithAncestorDepth(s.ancestorDepth))
	for _, f := range s.bundle.Findings {
		s.logger.Warn("reference table finding", "source", s.bundle.Source, "kind", string(f.Kind), "subject", f.Subject, "detail", f.Message)
	}
	return s, nil
}

// Bundle returns the reference bundle the service evaluates against.
func (s *Service) Bundle() *reference.Bundle { return s.bundle }

// Engine returns the genetics engine.
func (s *Service) Engine() *genetics.Engine { return s.engine }

// Store returns the underlying snapshot store.
func (s *Service) Store() domain.SnapshotStore { return s.store }

// ErrNotFound is returned when an id is absent from the owner's snapshot.
type ErrNotFound struct {
	Entity domain.EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (s *Service) run(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, op)
	started := s.now()
	err := fn(ctx)
	elapsed := s.now().Sub(started)
	s.metrics.Observe(ctx, op, err == nil, elapsed)
	span.End(err)
	if err != nil {
		s.logger.Error("operation failed", "operation", op, "error", err)
		return err
	}
	s.logger.Debug("operation completed", "operation", op, "duration", elapsed)
	return nil
}

func (s *Service) load(ctx context.Context, ownerID string) (domain.Snapshot, error) {
	snapshot, err := s.store.Load(ctx, ownerID)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load snapshot for %s: %w", ownerID, err)
	}
	return snapshot, nil
}

func (s *Service) reportIssues(op, ownerID string, issues []genetics.IntegrityIssue) {
	for _, issue := range issues {
		s.logger.Warn("pedigree integrity issue",
			"operation", op,
			"owner", ownerID,
			"kind", string(issue.Kind),
			"creature", issue.CreatureID,
			"pair", issue.PairID,
			"detail", issue.Message,
		)
	}
}

func findCreature(snapshot domain.Snapshot, id string) (domain.Creature, error) {
	c, ok := snapshot.FindCreature(id)
	if !ok {
		return domain.Creature{}, ErrNotFound{Entity: domain.EntityCreature, ID: id}
	}
	return c, nil
}

func findGoal(snapshot domain.Snapshot, id string) (domain.Goal, error) {
	g, ok := snapshot.FindGoal(id)
	if !ok {
		return domain.Goal{}, ErrNotFound{Entity: domain.EntityGoal, ID: id}
	}
	return g, nil
}

func resolveParents(snapshot domain.Snapshot, maleID, femaleID string) (genetics.Parents, error) {
	male, err := findCreature(snapshot, maleID)
	if err != nil {
		return genetics.Parents{}, err
	}
	female, err := findCreature(snapshot, femaleID)
	if err != nil {
		return genetics.Parents{}, err
	}
	return genetics.Parents{Male: male, Female: female}, nil
}

func resolvePair(snapshot domain.Snapshot, pairID string) (domain.Pair, genetics.Parents, error) {
	pair, ok := snapshot.FindPair(pairID)
	if !ok {
		return domain.Pair{}, genetics.Parents{}, ErrNotFound{Entity: domain.EntityPair, ID: pairID}
	}
	parents, err := resolveParents(snapshot, pair.MaleID, pair.FemaleID)
	if err != nil {
		return domain.Pair{}, genetics.Parents{}, fmt.Errorf("pair %s: %w", pairID, err)
	}
	return pair, parents, nil
}

// categoriesOf returns the table categories of species plus any category
// recorded on the creatures, sorted.
func (s *Service) categoriesOf(species string, creatures ...domain.Creature) []string {
	out := s.bundle.Tables.Categories(species)
	for _, c := range creatures {
		for category := range c.Genetics {
			if !slices.Contains(out, category) {
				out = append(out, category)
			}
		}
	}
	slices.Sort(out)
	return out
}
