package genetics

import (
	"slices"
	"strings"
)

// Distribution maps an offspring genotype to its probability.
type Distribution map[string]float64

// DistributionEntry is one genotype/probability pair.
type DistributionEntry struct {
	Genotype    string  `json:"genotype"`
	Probability float64 `json:"probability"`
}

// Probability returns the probability of genotype after canonicalization.
func (d Distribution) Probability(genotype string) float64 {
	return d[CanonicalGenotype(genotype)]
}

// Total sums every probability in the distribution.
func (d Distribution) Total() float64 {
	var sum float64
	for _, p := range d {
		sum += p
	}
	return sum
}

// Genotypes returns the genotypes of the distribution in sorted order.
func (d Distribution) Genotypes() []string {
	out := make([]string, 0, len(d))
	for g := range d {
		out = append(out, g)
	}
	slices.Sort(out)
	return out
}

// Entries returns the distribution ordered by descending probability, ties
// broken by genotype.
func (d Distribution) Entries() []DistributionEntry {
	out := make([]DistributionEntry, 0, len(d))
	for g, p := range d {
		out = append(out, DistributionEntry{Genotype: g, Probability: p})
	}
	slices.SortFunc(out, func(a, b DistributionEntry) int {
		switch {
		case a.Probability > b.Probability:
			return -1
		case a.Probability < b.Probability:
			return 1
		}
		return strings.Compare(a.Genotype, b.Genotype)
	})
	return out
}

// Gametes returns every haploid allele combination of genotype, one allele
// per locus. An n-locus genotype yields 2^n gametes; homozygous loci produce
// duplicates, which keeps each gamete equally likely. Malformed input yields nil.
func Gametes(genotype string) []string {
	return gametesOf(ParseGenotype(genotype))
}

func gametesOf(loci []Locus) []string {
	if len(loci) == 0 {
		return nil
	}
	out := []string{""}
	for _, l := range loci {
		next := make([]string, 0, len(out)*2)
		for _, prefix := range out {
			next = append(next, prefix+string(l[0]), prefix+string(l[1]))
		}
		out = next
	}
	return out
}

// CrossGenotypes computes the offspring genotype distribution of two parents.
// Loci assort independently: each locus is crossed on its own, with the two
// incoming alleles sorted into canonical order, and the child's probability
// is the product of its per-locus probabilities. Malformed genotypes or
// differing locus counts yield an empty distribution.
//
// Per-locus probabilities are quarters and their products are exact, so
// CrossGenotypes(a, b) and CrossGenotypes(b, a) are bit-for-bit identical.
func CrossGenotypes(male, female string) Distribution {
	maleLoci, femaleLoci := ParseGenotype(male), ParseGenotype(female)
	if len(maleLoci) == 0 || len(maleLoci) != len(femaleLoci) {
		return Distribution{}
	}
	dist := Distribution{"": 1}
	for i, m := range maleLoci {
		outcomes := crossLocus(m, femaleLoci[i])
		next := make(Distribution, len(dist)*len(outcomes))
		for prefix, p := range dist {
			for _, o := range outcomes {
				next[prefix+o.Genotype] = p * o.Probability
			}
		}
		dist = next
	}
	return dist
}

// crossLocus returns the up to four child loci of one locus cross in
// canonical form with their probabilities.
func crossLocus(m, f Locus) []DistributionEntry {
	var out []DistributionEntry
	for _, a := range m {
		for _, b := range f {
			child := Locus{a, b}.Canonical().String()
			i := slices.IndexFunc(out, func(e DistributionEntry) bool { return e.Genotype == child })
			if i < 0 {
				out = append(out, DistributionEntry{Genotype: child})
				i = len(out) - 1
			}
			out[i].Probability += 0.25
		}
	}
	return out
}
