package genetics

import "breedlab/pkg/domain"

// ResolvePhenotype maps genotype to its phenotype for species and category.
// A gender-tagged entry matching gender wins over a non-gendered entry; with
// no match at all the result is Unknown, which scores as a non-match.
func (t *Tables) ResolvePhenotype(species, category, genotype string, gender domain.Gender) string {
	if t == nil {
		return Unknown
	}
	canonical := CanonicalGenotype(genotype)
	if canonical == "" {
		return Unknown
	}
	fallback := ""
	for _, e := range t.genes[species][category] {
		if e.Genotype != canonical {
			continue
		}
		if e.Gender == "" {
			if fallback == "" {
				fallback = e.Phenotype
			}
			continue
		}
		if gender != "" && e.Gender == gender {
			return e.Phenotype
		}
	}
	if fallback == "" {
		return Unknown
	}
	return fallback
}

// IsMultiGenotype reports whether more than one genotype in the category maps
// to phenotype, which makes phenotype-mode targets ambiguous.
func (t *Tables) IsMultiGenotype(species, category, phenotype string) bool {
	return len(t.GenotypesFor(species, category, phenotype)) > 1
}

// GenotypesFor returns the distinct genotypes in the category whose entry,
// for any gender, resolves to phenotype. Order follows the table.
func (t *Tables) GenotypesFor(species, category, phenotype string) []string {
	if t == nil {
		return nil
	}
	var out []string
	seen := make(map[string]struct{})
	for _, e := range t.genes[species][category] {
		if e.Phenotype != phenotype || e.Genotype == "" {
			continue
		}
		if _, ok := seen[e.Genotype]; ok {
			continue
		}
		seen[e.Genotype] = struct{}{}
		out = append(out, e.Genotype)
	}
	return out
}

// PhenotypeDistribution collapses a genotype distribution into phenotype
// probabilities for an offspring of the given gender. Genotypes the table
// cannot resolve accumulate under Unknown.
func (t *Tables) PhenotypeDistribution(species, category string, dist Distribution, gender domain.Gender) map[string]float64 {
	out := make(map[string]float64)
	for genotype, p := range dist {
		out[t.ResolvePhenotype(species, category, genotype, gender)] += p
	}
	return out
}
