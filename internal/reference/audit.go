package reference

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"breedlab/pkg/genetics"
)

// FindingKind classifies an audit finding.
type FindingKind string

const (
	FindingHybridNotCompatible     FindingKind = "hybrid_not_compatible"
	FindingCompatibleWithoutHybrid FindingKind = "compatible_without_hybrids"
	FindingProbabilitySum          FindingKind = "probability_sum"
	FindingUnknownSpecies          FindingKind = "unknown_species"
	FindingShadowedEntry           FindingKind = "shadowed_entry"
)

// sumTolerance absorbs decimal rounding in configured splits.
const sumTolerance = 1e-6

// Finding is a non-fatal inconsistency between the reference tables. The
// compatibility and hybridization tables are maintained independently and
// may drift; findings are reported, never auto-corrected.
type Finding struct {
	Kind    FindingKind `json:"kind"`
	Subject string      `json:"subject"`
	Message string      `json:"message"`
}

// Audit cross-checks frozen tables. Findings are sorted by kind, then subject.
func Audit(t *genetics.Tables) []Finding {
	findings := []Finding{}
	known := make(map[string]struct{})
	for _, s := range t.Species() {
		known[s] = struct{}{}
	}
	compatible := make(map[genetics.SpeciesPair]struct{})
	for _, p := range t.CompatiblePairs() {
		compatible[p] = struct{}{}
		for _, s := range []string{p.A, p.B} {
			if _, ok := known[s]; !ok {
				findings = append(findings, Finding{FindingUnknownSpecies, s, fmt.Sprintf("compatibility entry %s/%s names species %s with no gene table", p.A, p.B, s)})
			}
		}
	}
	hybrids := make(map[genetics.SpeciesPair]struct{})
	for _, p := range t.HybridPairs() {
		hybrids[p] = struct{}{}
		subject := p.A + "/" + p.B
		if _, ok := compatible[p]; !ok && p.A != p.B {
			findings = append(findings, Finding{FindingHybridNotCompatible, subject, "hybridization outcomes configured but pairing is not in the compatibility table"})
		}
		var sum float64
		for _, o := range t.PossibleOffspringSpecies(p.A, p.B) {
			sum += o.Probability
			if _, ok := known[o.Species]; !ok {
				findings = append(findings, Finding{FindingUnknownSpecies, o.Species, fmt.Sprintf("hybrid %s produces species %s with no gene table", subject, o.Species)})
			}
		}
		if math.Abs(sum-1) > sumTolerance {
			findings = append(findings, Finding{FindingProbabilitySum, subject, fmt.Sprintf("outcome probabilities sum to %g", sum)})
		}
	}
	for p := range compatible {
		if _, ok := hybrids[p]; !ok {
			findings = append(findings, Finding{FindingCompatibleWithoutHybrid, p.A + "/" + p.B, "pairing is allowed but produces no known offspring species"})
		}
	}
	for _, species := range t.Species() {
		for _, category := range t.Categories(species) {
			findings = append(findings, shadowed(species, category, t.Entries(species, category))...)
		}
	}
	slices.SortFunc(findings, func(a, b Finding) int {
		if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Subject, b.Subject); c != 0 {
			return c
		}
		return cmp.Compare(a.Message, b.Message)
	})
	return findings
}

// shadowed reports entries that can never resolve because an earlier entry
// has the same genotype and gender.
func shadowed(species, category string, entries []genetics.GeneEntry) []Finding {
	var out []Finding
	seen := make(map[genetics.GeneEntry]struct{})
	for _, e := range entries {
		key := genetics.GeneEntry{Genotype: e.Genotype, Gender: e.Gender}
		if _, dup := seen[key]; dup {
			out = append(out, Finding{FindingShadowedEntry, species + "/" + category, fmt.Sprintf("entry %s (%s) -> %s is shadowed by an earlier entry", e.Genotype, genderLabel(e), e.Phenotype)})
			continue
		}
		seen[key] = struct{}{}
	}
	return out
}

func genderLabel(e genetics.GeneEntry) string {
	if e.Gender == "" {
		return "any gender"
	}
	return string(e.Gender)
}
