package genetics

import (
	"cmp"
	"slices"

	"breedlab/pkg/domain"
)

// Unknown is the phenotype returned when no table entry matches.
const Unknown = "Unknown"

// GeneEntry maps one genotype to a phenotype, optionally for a single gender.
type GeneEntry struct {
	Genotype  string        `json:"genotype" yaml:"genotype"`
	Phenotype string        `json:"phenotype" yaml:"phenotype"`
	Gender    domain.Gender `json:"gender,omitempty" yaml:"gender,omitempty"`
}

// SpeciesGenes maps category to its ordered gene entries.
type SpeciesGenes map[string][]GeneEntry

// HybridOutcome is one possible offspring species of a cross-species pairing.
type HybridOutcome struct {
	Species     string  `json:"species" yaml:"species"`
	Probability float64 `json:"probability" yaml:"probability"`
}

// SpeciesPair is an unordered pair of species names.
type SpeciesPair struct {
	A string `json:"a" yaml:"a"`
	B string `json:"b" yaml:"b"`
}

// NewSpeciesPair returns the pair with names in sorted order.
func NewSpeciesPair(a, b string) SpeciesPair {
	if b < a {
		a, b = b, a
	}
	return SpeciesPair{A: a, B: b}
}

// Tables holds the static reference data: species gene tables, hybridization
// outcomes and the cross-species compatibility allow-list. A Tables value is
// immutable after NewTables returns and is shared by pointer across callers.
type Tables struct {
	genes      map[string]SpeciesGenes
	hybrids    map[SpeciesPair][]HybridOutcome
	compatible map[SpeciesPair]struct{}
}

// NewTables copies the supplied reference data into an immutable Tables.
// Gene entry genotypes are canonicalized; hybrid outcomes keep their
// configured order and probabilities exactly. Pair keys are unordered, so a
// table stored in only one orientation answers for both.
func NewTables(genes map[string]SpeciesGenes, hybrids map[SpeciesPair][]HybridOutcome, compatible []SpeciesPair) *Tables {
	t := &Tables{
		genes:      make(map[string]SpeciesGenes, len(genes)),
		hybrids:    make(map[SpeciesPair][]HybridOutcome, len(hybrids)),
		compatible: make(map[SpeciesPair]struct{}, len(compatible)),
	}
	for species, categories := range genes {
		copied := make(SpeciesGenes, len(categories))
		for category, entries := range categories {
			out := make([]GeneEntry, len(entries))
			for i, e := range entries {
				e.Genotype = CanonicalGenotype(e.Genotype)
				out[i] = e
			}
			copied[category] = out
		}
		t.genes[species] = copied
	}
	for key, outcomes := range hybrids {
		t.hybrids[NewSpeciesPair(key.A, key.B)] = slices.Clone(outcomes)
	}
	for _, key := range compatible {
		t.compatible[NewSpeciesPair(key.A, key.B)] = struct{}{}
	}
	return t
}

// Species returns every species with a gene table, sorted.
func (t *Tables) Species() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.genes))
	for s := range t.genes {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// Categories returns the gene categories of species, sorted.
func (t *Tables) Categories(species string) []string {
	if t == nil {
		return nil
	}
	categories := t.genes[species]
	out := make([]string, 0, len(categories))
	for c := range categories {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// Entries returns a copy of the gene entries for species and category.
func (t *Tables) Entries(species, category string) []GeneEntry {
	if t == nil {
		return nil
	}
	return slices.Clone(t.genes[species][category])
}

// HybridPairs returns every configured hybridization key, sorted.
func (t *Tables) HybridPairs() []SpeciesPair {
	if t == nil {
		return nil
	}
	return sortedPairs(t.hybrids)
}

// CompatiblePairs returns the cross-species allow-list, sorted.
func (t *Tables) CompatiblePairs() []SpeciesPair {
	if t == nil {
		return nil
	}
	return sortedPairs(t.compatible)
}

func sortedPairs[V any](m map[SpeciesPair]V) []SpeciesPair {
	out := make([]SpeciesPair, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.SortFunc(out, func(a, b SpeciesPair) int {
		if c := cmp.Compare(a.A, b.A); c != 0 {
			return c
		}
		return cmp.Compare(a.B, b.B)
	})
	return out
}
