package domain

import (
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Snapshot is the complete set of one owner's records handed to the engine.
type Snapshot struct {
	Creatures []Creature `json:"creatures" yaml:"creatures" validate:"dive"`
	Pairs     []Pair     `json:"pairs" yaml:"pairs" validate:"dive"`
	Logs      []LogEntry `json:"logs" yaml:"logs" validate:"dive"`
	Goals     []Goal     `json:"goals" yaml:"goals" validate:"dive"`
}

// FindCreature looks up a creature by id.
func (s Snapshot) FindCreature(id string) (Creature, bool) {
	for _, c := range s.Creatures {
		if c.ID == id {
			return c, true
		}
	}
	return Creature{}, false
}

// FindPair looks up a pair by id.
func (s Snapshot) FindPair(id string) (Pair, bool) {
	for _, p := range s.Pairs {
		if p.ID == id {
			return p, true
		}
	}
	return Pair{}, false
}

// FindGoal looks up a goal by id.
func (s Snapshot) FindGoal(id string) (Goal, bool) {
	for _, g := range s.Goals {
		if g.ID == id {
			return g, true
		}
	}
	return Goal{}, false
}

// Validate checks field constraints and rejects duplicate ids within a bucket.
func (s Snapshot) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}
	if err := uniqueIDs(EntityCreature, s.Creatures, func(c Creature) string { return c.ID }); err != nil {
		return err
	}
	if err := uniqueIDs(EntityPair, s.Pairs, func(p Pair) string { return p.ID }); err != nil {
		return err
	}
	return uniqueIDs(EntityGoal, s.Goals, func(g Goal) string { return g.ID })
}

func uniqueIDs[T any](entity EntityType, items []T, id func(T) string) error {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		key := id(item)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("invalid snapshot: duplicate %s id %s", entity, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Creatures: slices.Clone(s.Creatures),
		Pairs:     slices.Clone(s.Pairs),
		Logs:      slices.Clone(s.Logs),
		Goals:     slices.Clone(s.Goals),
	}
	for i, c := range out.Creatures {
		if c.Genetics != nil {
			genetics := make(Genetics, len(c.Genetics))
			for k, v := range c.Genetics {
				genetics[k] = v
			}
			c.Genetics = genetics
		}
		out.Creatures[i] = c
	}
	for i, p := range out.Pairs {
		p.AssignedGoalIDs = slices.Clone(p.AssignedGoalIDs)
		out.Pairs[i] = p
	}
	for i, g := range out.Goals {
		if g.Genes != nil {
			genes := make(map[string]GeneTarget, len(g.Genes))
			for k, v := range g.Genes {
				v.ExcludedValues = slices.Clone(v.ExcludedValues)
				genes[k] = v
			}
			g.Genes = genes
		}
		out.Goals[i] = g
	}
	return out
}
