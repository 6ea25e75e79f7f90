package genetics_test

import (
	"reflect"
	"strings"
	"testing"

	"breedlab/pkg/genetics"
)

func TestGametesCount(t *testing.T) {
	cases := []struct {
		genotype string
		want     int
	}{
		{"Aa", 2},
		{"AA", 2},
		{"AaBb", 4},
		{"AABBcc", 8},
		{"AaBbCcDd", 16},
		{"", 0},
		{"Aab", 0},
	}
	for _, tc := range cases {
		if got := len(genetics.Gametes(tc.genotype)); got != tc.want {
			t.Fatalf("Gametes(%q): expected %d, got %d", tc.genotype, tc.want, got)
		}
	}
	if got := genetics.Gametes("AA"); !reflect.DeepEqual(got, []string{"A", "A"}) {
		t.Fatalf("homozygous locus should keep duplicates, got %v", got)
	}
	if got := genetics.Gametes("AaBb"); !reflect.DeepEqual(got, []string{"AB", "Ab", "aB", "ab"}) {
		t.Fatalf("unexpected gamete order %v", got)
	}
}

func TestCrossGenotypesMonohybrid(t *testing.T) {
	assertDistribution(t, genetics.CrossGenotypes("Aa", "Aa"), map[string]float64{
		"AA": 0.25,
		"Aa": 0.5,
		"aa": 0.25,
	})
}

func TestCrossGenotypesTestCross(t *testing.T) {
	dist := genetics.CrossGenotypes("AaBb", "aabb")
	assertDistribution(t, dist, map[string]float64{
		"AaBb": 0.25,
		"Aabb": 0.25,
		"aaBb": 0.25,
		"aabb": 0.25,
	})
}

func TestCrossGenotypesCanonicalOrder(t *testing.T) {
	dist := genetics.CrossGenotypes("aa", "AA")
	assertDistribution(t, dist, map[string]float64{"Aa": 1})
	if dist.Probability("aA") != 1 {
		t.Fatalf("Probability should canonicalize lookups")
	}
}

func TestCrossGenotypesMalformed(t *testing.T) {
	for _, pair := range [][2]string{{"", "Aa"}, {"Aa", "A"}, {"AaBb", "Aa"}, {"", ""}} {
		if dist := genetics.CrossGenotypes(pair[0], pair[1]); len(dist) != 0 {
			t.Fatalf("CrossGenotypes(%q, %q) expected empty, got %v", pair[0], pair[1], dist)
		}
	}
}

func TestCrossGenotypesProperties(t *testing.T) {
	genotypes := []string{"AA", "Aa", "aa", "AaBb", "AABb", "aabb", "AaBbCc", "aaBBcc", "AabbCC"}
	for _, a := range genotypes {
		for _, b := range genotypes {
			if genetics.LocusCount(a) != genetics.LocusCount(b) {
				continue
			}
			ab := genetics.CrossGenotypes(a, b)
			ba := genetics.CrossGenotypes(b, a)
			if !reflect.DeepEqual(ab, ba) {
				t.Fatalf("cross %s x %s not symmetric: %v vs %v", a, b, ab, ba)
			}
			if !approxEqual(ab.Total(), 1) {
				t.Fatalf("cross %s x %s sums to %v", a, b, ab.Total())
			}
			for g, p := range ab {
				if p <= 0 || p > 1 {
					t.Fatalf("cross %s x %s genotype %s has probability %v", a, b, g, p)
				}
			}
		}
	}
}

func TestDistributionEntries(t *testing.T) {
	entries := genetics.CrossGenotypes("Aa", "Aa").Entries()
	want := []genetics.DistributionEntry{
		{Genotype: "Aa", Probability: 0.5},
		{Genotype: "AA", Probability: 0.25},
		{Genotype: "aa", Probability: 0.25},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Fatalf("unexpected entries %v", entries)
	}
	if got := genetics.CrossGenotypes("Aa", "Aa").Genotypes(); !reflect.DeepEqual(got, []string{"AA", "Aa", "aa"}) {
		t.Fatalf("unexpected genotypes %v", got)
	}
}

func TestCrossGenotypesMatchesGameteEnumeration(t *testing.T) {
	pairs := [][2]string{{"AaBbCc", "AaBbCc"}, {"AaBBcc", "aAbbCc"}, {"XyZz", "xYzz"}}
	for _, pair := range pairs {
		gm, gf := genetics.Gametes(pair[0]), genetics.Gametes(pair[1])
		want := make(map[string]float64)
		for _, m := range gm {
			for _, f := range gf {
				var child strings.Builder
				for i := range m {
					child.WriteString(genetics.CanonicalGenotype(string([]byte{m[i], f[i]})))
				}
				want[child.String()] += 1 / float64(len(gm)*len(gf))
			}
		}
		assertDistribution(t, genetics.CrossGenotypes(pair[0], pair[1]), want)
	}
}

func TestCrossGenotypesManyLoci(t *testing.T) {
	male := "AaBb" + strings.Repeat("CC", 18)
	female := "Aabb" + strings.Repeat("cc", 18)
	dist := genetics.CrossGenotypes(male, female)
	if len(dist) != 6 || !approxEqual(dist.Total(), 1) {
		t.Fatalf("expected 6 outcomes summing to 1, got %d summing to %v", len(dist), dist.Total())
	}
	if got := dist.Probability("AaBb" + strings.Repeat("Cc", 18)); got != 0.25 {
		t.Fatalf("expected 0.25, got %v", got)
	}
}
