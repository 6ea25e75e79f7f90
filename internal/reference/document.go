// Package reference loads the static reference tables (species genes,
// hybridization outcomes, compatibility allow-list) that the genetics engine
// consults. Tables are read once from YAML or JSON, validated, and frozen
// into an immutable genetics.Tables.
package reference

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"breedlab/pkg/domain"
	"breedlab/pkg/genetics"
)

var validate = validator.New()

// Document is the on-disk shape of a reference bundle. JSON documents parse
// too, since JSON is a subset of YAML.
type Document struct {
	Version    string                           `json:"version,omitempty" yaml:"version,omitempty"`
	Species    map[string]map[string][]GeneDoc `json:"species" yaml:"species" validate:"required,min=1"`
	Hybrids    []HybridDoc                      `json:"hybrids,omitempty" yaml:"hybrids,omitempty" validate:"dive"`
	Compatible [][]string                       `json:"compatible,omitempty" yaml:"compatible,omitempty" validate:"dive,len=2,dive,required"`
}

// GeneDoc is one genotype to phenotype row.
type GeneDoc struct {
	Genotype  string        `json:"genotype" yaml:"genotype" validate:"required"`
	Phenotype string        `json:"phenotype" yaml:"phenotype" validate:"required"`
	Gender    domain.Gender `json:"gender,omitempty" yaml:"gender,omitempty" validate:"omitempty,oneof=male female"`
}

// HybridDoc lists the offspring species of one unordered species pair.
type HybridDoc struct {
	Parents  []string     `json:"parents" yaml:"parents" validate:"len=2,dive,required"`
	Outcomes []OutcomeDoc `json:"outcomes" yaml:"outcomes" validate:"required,min=1,dive"`
}

// OutcomeDoc is a single hybridization outcome.
type OutcomeDoc struct {
	Species     string  `json:"species" yaml:"species" validate:"required"`
	Probability float64 `json:"probability" yaml:"probability" validate:"gte=0,lte=1"`
}

// Parse decodes a YAML or JSON reference document without validating it.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse reference tables: %w", err)
	}
	return &doc, nil
}

// Validate enforces field constraints and the table invariants the engine
// relies on: well-formed genotypes, one locus count per category, and a
// single outcome list per unordered species pair.
func (d *Document) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("invalid reference tables: %w", err)
	}
	for species, categories := range d.Species {
		for category, entries := range categories {
			if len(entries) == 0 {
				return fmt.Errorf("invalid reference tables: %s/%s has no entries", species, category)
			}
			loci := -1
			for i, e := range entries {
				if err := validate.Struct(e); err != nil {
					return fmt.Errorf("invalid reference tables: %s/%s[%d]: %w", species, category, i, err)
				}
				n := genetics.LocusCount(e.Genotype)
				if n == 0 {
					return fmt.Errorf("invalid reference tables: %s/%s[%d]: malformed genotype %q", species, category, i, e.Genotype)
				}
				if loci >= 0 && n != loci {
					return fmt.Errorf("invalid reference tables: %s/%s[%d]: genotype %q has %d loci, category uses %d", species, category, i, e.Genotype, n, loci)
				}
				loci = n
			}
		}
	}
	seen := make(map[genetics.SpeciesPair]struct{}, len(d.Hybrids))
	for _, h := range d.Hybrids {
		key := genetics.NewSpeciesPair(h.Parents[0], h.Parents[1])
		if _, dup := seen[key]; dup {
			return fmt.Errorf("invalid reference tables: duplicate hybridization entry for %s/%s", key.A, key.B)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Tables validates the document and freezes it into engine tables.
func (d *Document) Tables() (*genetics.Tables, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	genes := make(map[string]genetics.SpeciesGenes, len(d.Species))
	for species, categories := range d.Species {
		sg := make(genetics.SpeciesGenes, len(categories))
		for category, entries := range categories {
			rows := make([]genetics.GeneEntry, len(entries))
			for i, e := range entries {
				rows[i] = genetics.GeneEntry{Genotype: e.Genotype, Phenotype: e.Phenotype, Gender: e.Gender}
			}
			sg[category] = rows
		}
		genes[species] = sg
	}
	hybrids := make(map[genetics.SpeciesPair][]genetics.HybridOutcome, len(d.Hybrids))
	for _, h := range d.Hybrids {
		outcomes := make([]genetics.HybridOutcome, len(h.Outcomes))
		for i, o := range h.Outcomes {
			outcomes[i] = genetics.HybridOutcome{Species: o.Species, Probability: o.Probability}
		}
		hybrids[genetics.NewSpeciesPair(h.Parents[0], h.Parents[1])] = outcomes
	}
	compatible := make([]genetics.SpeciesPair, len(d.Compatible))
	for i, c := range d.Compatible {
		compatible[i] = genetics.NewSpeciesPair(c[0], c[1])
	}
	return genetics.NewTables(genes, hybrids, compatible), nil
}
