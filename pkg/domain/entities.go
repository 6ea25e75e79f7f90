// Package domain defines the snapshot records and value types consumed by the
// breeding genetics engine. Records are owned by the persistence layer; the
// engine treats every value here as read-only input.
package domain

import (
	"slices"
	"time"
)

// EntityType identifies the type of record carried in a snapshot.
type EntityType string

// Supported entity type identifiers used in errors and persistence buckets.
const (
	// EntityCreature identifies an individual creature record.
	EntityCreature EntityType = "creature"
	// EntityPair identifies a breeding pair record.
	EntityPair EntityType = "pair"
	// EntityBreedingLog identifies a breeding log entry.
	EntityBreedingLog EntityType = "breeding_log"
	// EntityGoal identifies a breeding goal record.
	EntityGoal EntityType = "goal"
)

// Gender is the recorded sex of a creature.
type Gender string

// Genders understood by the phenotype tables. Table entries without a gender
// apply to every creature.
const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// GrowthStage represents the canonical creature growth stages.
type GrowthStage string

// Only adults may be paired.
const (
	StageBaby     GrowthStage = "baby"
	StageJuvenile GrowthStage = "juvenile"
	StageAdult    GrowthStage = "adult"
)

// GoalMode selects whether a goal targets exact genotypes or observable phenotypes.
type GoalMode string

const (
	GoalModeGenotype  GoalMode = "genotype"
	GoalModePhenotype GoalMode = "phenotype"
)

// MaxGenotypeLoci bounds the loci of a stored genotype. The 24-character
// validate tags on genotype fields follow from it.
const MaxGenotypeLoci = 12

// Creature is an individual tracked animal.
type Creature struct {
	ID          string      `json:"id" yaml:"id" validate:"required"`
	Name        string      `json:"name,omitempty" yaml:"name,omitempty"`
	Species     string      `json:"species" yaml:"species" validate:"required"`
	Gender      Gender      `json:"gender" yaml:"gender" validate:"omitempty,oneof=male female unknown"`
	GrowthStage GrowthStage `json:"growth_stage" yaml:"growth_stage" validate:"omitempty,oneof=baby juvenile adult"`
	Genetics    Genetics    `json:"genetics,omitempty" yaml:"genetics,omitempty" validate:"omitempty,dive,max=24"`
}

// Genotype returns the creature's genotype for category, or "" when absent.
func (c Creature) Genotype(category string) string {
	if c.Genetics == nil {
		return ""
	}
	return c.Genetics[category]
}

// IsAdult reports whether the creature may be paired.
func (c Creature) IsAdult() bool { return c.GrowthStage == StageAdult }

// Pair is a breeding pair of one male and one female creature.
type Pair struct {
	ID              string   `json:"id" yaml:"id" validate:"required"`
	Name            string   `json:"name,omitempty" yaml:"name,omitempty"`
	Species         string   `json:"species" yaml:"species"`
	MaleID          string   `json:"male_id" yaml:"male_id" validate:"required"`
	FemaleID        string   `json:"female_id" yaml:"female_id" validate:"required"`
	AssignedGoalIDs []string `json:"assigned_goal_ids,omitempty" yaml:"assigned_goal_ids,omitempty"`
}

// Parents returns the non-empty parent ids of the pair, male first.
func (p Pair) Parents() []string {
	out := make([]string, 0, 2)
	if p.MaleID != "" {
		out = append(out, p.MaleID)
	}
	if p.FemaleID != "" && p.FemaleID != p.MaleID {
		out = append(out, p.FemaleID)
	}
	return out
}

// LogEntry records a clutch produced by a pair. Log entries are the only
// source of pedigree edges.
type LogEntry struct {
	ID         string    `json:"id" yaml:"id"`
	PairID     string    `json:"pair_id" yaml:"pair_id" validate:"required"`
	Progeny1ID string    `json:"progeny1_id,omitempty" yaml:"progeny1_id,omitempty"`
	Progeny2ID string    `json:"progeny2_id,omitempty" yaml:"progeny2_id,omitempty"`
	LoggedAt   time.Time `json:"logged_at" yaml:"logged_at"`
}

// Progeny returns the non-empty progeny ids of the entry.
func (l LogEntry) Progeny() []string {
	out := make([]string, 0, 2)
	if l.Progeny1ID != "" {
		out = append(out, l.Progeny1ID)
	}
	if l.Progeny2ID != "" && l.Progeny2ID != l.Progeny1ID {
		out = append(out, l.Progeny2ID)
	}
	return out
}

// Goal is a target set of genotype or phenotype values a user is breeding toward.
type Goal struct {
	ID      string                `json:"id" yaml:"id" validate:"required"`
	Name    string                `json:"name,omitempty" yaml:"name,omitempty"`
	Species string                `json:"species" yaml:"species"`
	Mode    GoalMode              `json:"mode" yaml:"mode" validate:"omitempty,oneof=genotype phenotype"`
	Genes   map[string]GeneTarget `json:"genes" yaml:"genes" validate:"omitempty,dive"`
}

// Categories returns the goal's categories in sorted order.
func (g Goal) Categories() []string {
	out := make([]string, 0, len(g.Genes))
	for category := range g.Genes {
		out = append(out, category)
	}
	slices.Sort(out)
	return out
}

// EffectiveMode returns the goal mode. A goal without an explicit mode whose
// targets name only genotypes, as the bare-string shorthand produces, is a
// genotype goal; any other goal without a mode is a phenotype goal.
func (g Goal) EffectiveMode() GoalMode {
	switch g.Mode {
	case GoalModeGenotype, GoalModePhenotype:
		return g.Mode
	}
	genotypes := false
	for _, t := range g.Genes {
		if t.TargetPhenotype != "" {
			return GoalModePhenotype
		}
		genotypes = genotypes || t.TargetGenotype != ""
	}
	if genotypes {
		return GoalModeGenotype
	}
	return GoalModePhenotype
}

// GeneTarget is the per-category target of a goal.
type GeneTarget struct {
	TargetGenotype  string   `json:"target_genotype,omitempty" yaml:"target_genotype,omitempty" validate:"max=24"`
	TargetPhenotype string   `json:"target_phenotype,omitempty" yaml:"target_phenotype,omitempty"`
	IsOptional      bool     `json:"is_optional,omitempty" yaml:"is_optional,omitempty"`
	ExcludedValues  []string `json:"excluded_values,omitempty" yaml:"excluded_values,omitempty"`
}

// Target returns the value compared under mode.
func (t GeneTarget) Target(mode GoalMode) string {
	if mode == GoalModeGenotype {
		return t.TargetGenotype
	}
	return t.TargetPhenotype
}

// Excludes reports whether value is listed in ExcludedValues.
func (t GeneTarget) Excludes(value string) bool {
	return slices.Contains(t.ExcludedValues, value)
}
