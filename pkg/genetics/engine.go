package genetics

import "breedlab/pkg/domain"

// Engine combines the Punnett engine with the reference tables to score
// pairs and progeny against goals. An Engine is immutable and safe for
// concurrent use.
type Engine struct {
	tables        *Tables
	ancestorDepth int
}

// Option configures an Engine.
type Option func(*Engine)

// WithAncestorDepth overrides the ancestor walk bound used by Inbreeding.
func WithAncestorDepth(depth int) Option {
	return func(e *Engine) {
		if depth > 0 {
			e.ancestorDepth = depth
		}
	}
}

// NewEngine returns an engine over tables.
func NewEngine(tables *Tables, opts ...Option) *Engine {
	e := &Engine{tables: tables, ancestorDepth: DefaultAncestorDepth}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tables returns the engine's reference tables.
func (e *Engine) Tables() *Tables { return e.tables }

// Inbreeding classifies the relationship of a and b using the engine's
// ancestor depth bound.
func (e *Engine) Inbreeding(a, b string, pairs []domain.Pair, logs []domain.LogEntry) InbreedingResult {
	return NewPedigree(pairs, logs).Inbreeding(a, b, e.ancestorDepth)
}

// Parents are the resolved creatures of a breeding pair.
type Parents struct {
	Male   domain.Creature
	Female domain.Creature
}

// Species returns the species offspring phenotypes are resolved against when
// a goal names none: the shared species, or the male's for hybrids.
func (p Parents) Species() string { return p.Male.Species }

// Cross returns the offspring genotype distribution of the parents for category.
func (p Parents) Cross(category string) Distribution {
	return CrossGenotypes(p.Male.Genotype(category), p.Female.Genotype(category))
}
