package domain

import (
	"strings"
	"testing"
)

func sampleSnapshot() Snapshot {
	return Snapshot{
		Creatures: []Creature{
			{ID: "m1", Species: "ember", Gender: GenderMale, GrowthStage: StageAdult, Genetics: Genetics{"color": "Cc"}},
			{ID: "f1", Species: "ember", Gender: GenderFemale, GrowthStage: StageAdult},
		},
		Pairs: []Pair{{ID: "p1", MaleID: "m1", FemaleID: "f1", AssignedGoalIDs: []string{"g1"}}},
		Logs:  []LogEntry{{ID: "l1", PairID: "p1", Progeny1ID: "c1"}},
		Goals: []Goal{{ID: "g1", Species: "ember", Genes: map[string]GeneTarget{
			"color": {TargetPhenotype: "Ash", ExcludedValues: []string{"Crimson"}},
		}}},
	}
}

func TestSnapshotFind(t *testing.T) {
	s := sampleSnapshot()
	if c, ok := s.FindCreature("f1"); !ok || c.Gender != GenderFemale {
		t.Fatalf("expected f1, got %+v %v", c, ok)
	}
	if _, ok := s.FindCreature("missing"); ok {
		t.Fatalf("expected missing creature")
	}
	if p, ok := s.FindPair("p1"); !ok || p.MaleID != "m1" {
		t.Fatalf("expected p1, got %+v %v", p, ok)
	}
	if g, ok := s.FindGoal("g1"); !ok || g.Species != "ember" {
		t.Fatalf("expected g1, got %+v %v", g, ok)
	}
}

func TestSnapshotValidate(t *testing.T) {
	if err := sampleSnapshot().Validate(); err != nil {
		t.Fatalf("valid snapshot rejected: %v", err)
	}
	atCap := sampleSnapshot()
	atCap.Creatures[0].Genetics["color"] = strings.Repeat("Cc", MaxGenotypeLoci)
	if err := atCap.Validate(); err != nil {
		t.Fatalf("genotype at the locus cap rejected: %v", err)
	}

	cases := map[string]struct {
		mutate func(*Snapshot)
		want   string
	}{
		"bad gender": {
			mutate: func(s *Snapshot) { s.Creatures[0].Gender = "other" },
			want:   "Gender",
		},
		"missing species": {
			mutate: func(s *Snapshot) { s.Creatures[1].Species = "" },
			want:   "Species",
		},
		"bad goal mode": {
			mutate: func(s *Snapshot) { s.Goals[0].Mode = "vibes" },
			want:   "Mode",
		},
		"creature genotype over locus cap": {
			mutate: func(s *Snapshot) { s.Creatures[0].Genetics["color"] = strings.Repeat("Cc", MaxGenotypeLoci+1) },
			want:   "Genetics",
		},
		"goal genotype over locus cap": {
			mutate: func(s *Snapshot) {
				s.Goals[0].Genes["color"] = GeneTarget{TargetGenotype: strings.Repeat("CC", MaxGenotypeLoci+1)}
			},
			want: "TargetGenotype",
		},
		"log without pair": {
			mutate: func(s *Snapshot) { s.Logs[0].PairID = "" },
			want:   "PairID",
		},
		"duplicate creature": {
			mutate: func(s *Snapshot) { s.Creatures[1].ID = "m1" },
			want:   "duplicate creature id m1",
		},
		"duplicate pair": {
			mutate: func(s *Snapshot) { s.Pairs = append(s.Pairs, s.Pairs[0]) },
			want:   "duplicate pair id p1",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			s := sampleSnapshot()
			tc.mutate(&s)
			err := s.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	orig := sampleSnapshot()
	clone := orig.Clone()

	clone.Creatures[0].Genetics["color"] = "cc"
	clone.Pairs[0].AssignedGoalIDs[0] = "other"
	target := clone.Goals[0].Genes["color"]
	target.ExcludedValues[0] = "Ash"
	clone.Goals[0].Genes["pattern"] = GeneTarget{}
	clone.Logs[0].PairID = "p2"

	if orig.Creatures[0].Genetics["color"] != "Cc" {
		t.Fatalf("genetics shared with clone")
	}
	if orig.Pairs[0].AssignedGoalIDs[0] != "g1" {
		t.Fatalf("goal ids shared with clone")
	}
	if orig.Goals[0].Genes["color"].ExcludedValues[0] != "Crimson" || len(orig.Goals[0].Genes) != 1 {
		t.Fatalf("goal genes shared with clone")
	}
	if orig.Logs[0].PairID != "p1" {
		t.Fatalf("logs shared with clone")
	}

	empty := Snapshot{}.Clone()
	if empty.Creatures != nil || empty.Pairs != nil || empty.Logs != nil || empty.Goals != nil {
		t.Fatalf("expected nil buckets to stay nil, got %+v", empty)
	}
}

func TestSnapshotBucketsRoundTrip(t *testing.T) {
	orig := sampleSnapshot()
	buckets, err := orig.EncodeBuckets()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(buckets) != len(SnapshotBuckets) {
		t.Fatalf("expected %d buckets, got %d", len(SnapshotBuckets), len(buckets))
	}
	var got Snapshot
	for name, payload := range buckets {
		if err := got.DecodeBucket(name, payload); err != nil {
			t.Fatalf("decode %s: %v", name, err)
		}
	}
	if err := got.DecodeBucket("legacy", []byte("{")); err != nil {
		t.Fatalf("unknown buckets must be ignored: %v", err)
	}
	if len(got.Creatures) != 2 || got.Creatures[0].Genetics["color"] != "Cc" || got.Pairs[0].AssignedGoalIDs[0] != "g1" {
		t.Fatalf("unexpected decoded snapshot %+v", got)
	}
	if got.Goals[0].Genes["color"].TargetPhenotype != "Ash" || got.Logs[0].Progeny1ID != "c1" {
		t.Fatalf("unexpected decoded goals/logs %+v %+v", got.Goals, got.Logs)
	}
	if err := got.DecodeBucket(BucketPairs, []byte("{")); err == nil {
		t.Fatalf("expected decode error")
	}

	empty, err := Snapshot{}.EncodeBuckets()
	if err != nil || string(empty[BucketGoals]) != "[]" {
		t.Fatalf("empty buckets should encode as [], got %q %v", empty[BucketGoals], err)
	}
}
