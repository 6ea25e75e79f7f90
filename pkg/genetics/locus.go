package genetics

// Locus is a single gene position holding two allele characters.
type Locus [2]byte

func (l Locus) String() string { return string(l[:]) }

// Canonical returns the locus with alleles sorted by byte value, so "aA" and
// "Aa" compare equal.
func (l Locus) Canonical() Locus {
	if l[1] < l[0] {
		return Locus{l[1], l[0]}
	}
	return l
}

// ParseGenotype splits genotype into 2-character loci. Empty, odd-length or
// non-ASCII input yields nil, which callers treat as "no genetic data".
func ParseGenotype(genotype string) []Locus {
	if genotype == "" || len(genotype)%2 != 0 {
		return nil
	}
	loci := make([]Locus, 0, len(genotype)/2)
	for i := 0; i < len(genotype); i += 2 {
		a, b := genotype[i], genotype[i+1]
		if a >= 0x80 || b >= 0x80 {
			return nil
		}
		loci = append(loci, Locus{a, b})
	}
	return loci
}

// CanonicalGenotype sorts each locus's alleles. Malformed input yields "".
func CanonicalGenotype(genotype string) string {
	loci := ParseGenotype(genotype)
	if len(loci) == 0 {
		return ""
	}
	buf := make([]byte, 0, len(genotype))
	for _, l := range loci {
		c := l.Canonical()
		buf = append(buf, c[0], c[1])
	}
	return string(buf)
}

// LocusCount returns the number of loci in genotype, 0 when malformed.
func LocusCount(genotype string) int {
	return len(ParseGenotype(genotype))
}
