package genetics_test

import (
	"reflect"
	"strings"
	"testing"

	"breedlab/pkg/domain"
	"breedlab/pkg/genetics"
)

func TestIsPairingCompatibleSymmetric(t *testing.T) {
	tables := sampleTables()
	species := []string{"ember", "frost", "storm", "mist", "basilisk"}
	for _, a := range species {
		for _, b := range species {
			if tables.IsPairingCompatible(a, b) != tables.IsPairingCompatible(b, a) {
				t.Fatalf("compatibility of %s/%s is not symmetric", a, b)
			}
		}
		if !tables.IsPairingCompatible(a, a) {
			t.Fatalf("same species %s must be compatible", a)
		}
	}
	if !tables.IsPairingCompatible("ember", "mist") {
		t.Fatalf("reverse-stored pair should be compatible")
	}
	if tables.IsPairingCompatible("ember", "storm") {
		t.Fatalf("ember/storm is not on the allow-list")
	}
}

func TestPossibleOffspringSpecies(t *testing.T) {
	tables := sampleTables()
	cases := []struct {
		name string
		a, b string
		want []genetics.HybridOutcome
	}{
		{"same species", "ember", "ember", []genetics.HybridOutcome{{Species: "ember", Probability: 1}}},
		{"same unknown species", "basilisk", "basilisk", []genetics.HybridOutcome{{Species: "basilisk", Probability: 1}}},
		{"deterministic hybrid", "ember", "frost", []genetics.HybridOutcome{{Species: "steam", Probability: 1}}},
		{"deterministic hybrid reversed", "frost", "ember", []genetics.HybridOutcome{{Species: "steam", Probability: 1}}},
		{"either parent", "mist", "ember", []genetics.HybridOutcome{{Species: "ember", Probability: 0.5}, {Species: "mist", Probability: 0.5}}},
		{"three way preserved", "frost", "storm", []genetics.HybridOutcome{
			{Species: "frost", Probability: 0.333},
			{Species: "storm", Probability: 0.333},
			{Species: "mist", Probability: 0.334},
		}},
		{"unrecognized", "ember", "storm", []genetics.HybridOutcome{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tables.PossibleOffspringSpecies(tc.a, tc.b)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
	if p := tables.OffspringSpeciesProbability("storm", "frost", "mist"); p != 0.334 {
		t.Fatalf("expected configured probability 0.334, got %v", p)
	}
}

func TestValidatePairing(t *testing.T) {
	tables := sampleTables()
	male := creature("m1", "ember", domain.GenderMale, nil)
	female := creature("f1", "ember", domain.GenderFemale, nil)
	juvenile := female
	juvenile.GrowthStage = domain.StageJuvenile
	storm := creature("f2", "storm", domain.GenderFemale, nil)
	frost := creature("f3", "frost", domain.GenderFemale, nil)

	cases := []struct {
		name   string
		male   domain.Creature
		female domain.Creature
		valid  bool
		reason string
	}{
		{"valid same species", male, female, true, ""},
		{"valid hybrid", male, frost, true, ""},
		{"self pairing", male, male, false, "itself"},
		{"swapped genders", female, male, false, "must be male"},
		{"juvenile", male, juvenile, false, "not an adult"},
		{"incompatible species", male, storm, false, "cannot be paired"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tables.ValidatePairing(tc.male, tc.female)
			if got.IsValid != tc.valid {
				t.Fatalf("expected valid=%v, got %+v", tc.valid, got)
			}
			if !tc.valid && !strings.Contains(got.Reason, tc.reason) {
				t.Fatalf("expected reason containing %q, got %q", tc.reason, got.Reason)
			}
			if tc.valid && len(got.OffspringSpecies) == 0 {
				t.Fatalf("valid pairing must carry offspring species")
			}
		})
	}
}

func TestValidatePairingCompatibleWithoutHybridOutcome(t *testing.T) {
	tables := genetics.NewTables(nil, nil, []genetics.SpeciesPair{{A: "ember", B: "storm"}})
	got := tables.ValidatePairing(
		creature("m1", "ember", domain.GenderMale, nil),
		creature("f1", "storm", domain.GenderFemale, nil),
	)
	if got.IsValid || !strings.Contains(got.Reason, "no known offspring") {
		t.Fatalf("expected rejection for missing hybrid outcome, got %+v", got)
	}
}
