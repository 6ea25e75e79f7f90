package genetics_test

import (
	"math"
	"testing"

	"breedlab/pkg/domain"
	"breedlab/pkg/genetics"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool { return math.Abs(a-b) < epsilon }

func sampleTables() *genetics.Tables {
	genes := map[string]genetics.SpeciesGenes{
		"ember": {
			"color": {
				{Genotype: "CC", Phenotype: "Crimson"},
				{Genotype: "Cc", Phenotype: "Crimson"},
				{Genotype: "cc", Phenotype: "Ash"},
			},
			"pattern": {
				{Genotype: "SSTT", Phenotype: "Striped"},
				{Genotype: "SsTt", Phenotype: "Striped"},
				{Genotype: "sstt", Phenotype: "Plain"},
			},
			"crest": {
				{Genotype: "Rr", Phenotype: "Tall Crest", Gender: domain.GenderMale},
				{Genotype: "rR", Phenotype: "Short Crest", Gender: domain.GenderFemale},
				{Genotype: "Rr", Phenotype: "Crest"},
				{Genotype: "rr", Phenotype: "No Crest"},
			},
		},
		"frost": {
			"color": {
				{Genotype: "CC", Phenotype: "Ice"},
				{Genotype: "cc", Phenotype: "Slate"},
			},
		},
	}
	hybrids := map[genetics.SpeciesPair][]genetics.HybridOutcome{
		{A: "frost", B: "ember"}: {{Species: "steam", Probability: 1}},
		{A: "ember", B: "mist"}:  {{Species: "ember", Probability: 0.5}, {Species: "mist", Probability: 0.5}},
		{A: "storm", B: "frost"}: {
			{Species: "frost", Probability: 0.333},
			{Species: "storm", Probability: 0.333},
			{Species: "mist", Probability: 0.334},
		},
	}
	compatible := []genetics.SpeciesPair{
		{A: "ember", B: "frost"},
		{A: "mist", B: "ember"},
		{A: "frost", B: "storm"},
	}
	return genetics.NewTables(genes, hybrids, compatible)
}

func creature(id, species string, gender domain.Gender, genes map[string]string) domain.Creature {
	return domain.Creature{
		ID:          id,
		Species:     species,
		Gender:      gender,
		GrowthStage: domain.StageAdult,
		Genetics:    genes,
	}
}

func assertDistribution(t *testing.T, got genetics.Distribution, want map[string]float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d genotypes, got %d: %v", len(want), len(got), got)
	}
	for g, p := range want {
		if !approxEqual(got[g], p) {
			t.Fatalf("genotype %s: expected %v, got %v (distribution %v)", g, p, got[g], got)
		}
	}
}
