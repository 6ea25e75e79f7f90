package genetics_test

import (
	"fmt"
	"reflect"
	"testing"

	"breedlab/pkg/domain"
	"breedlab/pkg/genetics"
)

// familyFixture:
//
//	m1 x f1 (p1) -> c1, c2
//	m1 x f3 (p4) -> x1
//	c1 x f2 (p2) -> g1
func familyFixture() ([]domain.Pair, []domain.LogEntry) {
	pairs := []domain.Pair{
		{ID: "p1", MaleID: "m1", FemaleID: "f1"},
		{ID: "p4", MaleID: "m1", FemaleID: "f3"},
		{ID: "p2", MaleID: "c1", FemaleID: "f2"},
	}
	logs := []domain.LogEntry{
		{ID: "l1", PairID: "p1", Progeny1ID: "c1", Progeny2ID: "c2"},
		{ID: "l2", PairID: "p4", Progeny1ID: "x1"},
		{ID: "l3", PairID: "p2", Progeny1ID: "g1"},
	}
	return pairs, logs
}

// cycleFixture: a's parents include b and b's parents include a.
func cycleFixture() ([]domain.Pair, []domain.LogEntry) {
	pairs := []domain.Pair{
		{ID: "px", MaleID: "a", FemaleID: "z"},
		{ID: "py", MaleID: "b", FemaleID: "z2"},
	}
	logs := []domain.LogEntry{
		{ID: "lx", PairID: "px", Progeny1ID: "b"},
		{ID: "ly", PairID: "py", Progeny1ID: "a"},
	}
	return pairs, logs
}

func TestComputeGeneration(t *testing.T) {
	pairs, logs := familyFixture()
	cases := []struct {
		id      string
		want    int
		founder bool
	}{
		{"m1", 1, true},
		{"unknown", 1, true},
		{"c1", 2, false},
		{"x1", 2, false},
		{"g1", 3, false},
	}
	for _, tc := range cases {
		got := genetics.ComputeGeneration(tc.id, pairs, logs)
		if got.Generation != tc.want || got.Founder != tc.founder {
			t.Fatalf("%s: expected generation %d founder=%v, got %+v", tc.id, tc.want, tc.founder, got)
		}
		if len(got.Issues) != 0 {
			t.Fatalf("%s: unexpected issues %v", tc.id, got.Issues)
		}
	}
}

func TestComputeGenerationUsesOldestParent(t *testing.T) {
	pairs, logs := familyFixture()
	// g1 (generation 3) x m9 (founder) -> h1 must be generation 4.
	pairs = append(pairs, domain.Pair{ID: "p5", MaleID: "m9", FemaleID: "g1"})
	logs = append(logs, domain.LogEntry{ID: "l5", PairID: "p5", Progeny1ID: "h1"})
	if got := genetics.ComputeGeneration("h1", pairs, logs); got.Generation != 4 {
		t.Fatalf("expected generation 4, got %+v", got)
	}
}

func TestComputeGenerationCycleTerminates(t *testing.T) {
	pairs, logs := cycleFixture()
	got := genetics.ComputeGeneration("a", pairs, logs)
	if got.Generation < 1 {
		t.Fatalf("expected a bounded generation, got %+v", got)
	}
	found := false
	for _, issue := range got.Issues {
		if issue.Kind == genetics.IssueCycle {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected cycle issue, got %v", got.Issues)
	}
}

func TestPedigreeIndexIssues(t *testing.T) {
	pairs := []domain.Pair{
		{ID: "p1", MaleID: "m1", FemaleID: "f1"},
		{ID: "p2", MaleID: "m2", FemaleID: "f2"},
	}
	logs := []domain.LogEntry{
		{ID: "l1", PairID: "p1", Progeny1ID: "c1"},
		{ID: "l2", PairID: "p2", Progeny1ID: "c1"},
		{ID: "l3", PairID: "missing", Progeny1ID: "c9"},
		{ID: "l4", PairID: "p1", Progeny1ID: "m1"},
	}
	p := genetics.NewPedigree(pairs, logs)
	kinds := map[genetics.IssueKind]int{}
	for _, issue := range p.Issues() {
		kinds[issue.Kind]++
	}
	want := map[genetics.IssueKind]int{
		genetics.IssueDuplicateProgeny: 1,
		genetics.IssueDanglingPair:     1,
		genetics.IssueSelfParent:       1,
	}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("expected issues %v, got %v", want, kinds)
	}
	if got := p.Parents("c1"); !reflect.DeepEqual(got, []string{"m1", "f1"}) {
		t.Fatalf("first log entry should win, got parents %v", got)
	}
	if got := p.Generation("m1"); got.Generation != 1 || !got.Founder {
		t.Fatalf("self-parent edge must be ignored, got %+v", got)
	}
}

func TestIssuesScopedToVisitedCreatures(t *testing.T) {
	pairs, logs := familyFixture()
	logs = append(logs,
		domain.LogEntry{ID: "stray", PairID: "gone", Progeny1ID: "outsider"},
		domain.LogEntry{ID: "near", PairID: "gone", Progeny1ID: "c1"},
	)
	p := genetics.NewPedigree(pairs, logs)
	if got := len(p.Issues()); got != 2 {
		t.Fatalf("expected both dangling logs indexed as issues, got %d", got)
	}

	messages := func(issues []genetics.IntegrityIssue) []string {
		var out []string
		for _, issue := range issues {
			out = append(out, issue.Message)
		}
		return out
	}
	wantNear := []string{"breeding log near references missing pair gone"}

	if got := p.Generation("g1").Issues; !reflect.DeepEqual(messages(got), wantNear) {
		t.Fatalf("generation of g1: expected only the c1 issue, got %v", got)
	}
	if got := p.Generation("f3").Issues; len(got) != 0 {
		t.Fatalf("generation of f3: expected no issues, got %v", got)
	}
	if got := p.Inbreeding("c2", "g1", 0).Issues; !reflect.DeepEqual(messages(got), wantNear) {
		t.Fatalf("inbreeding c2/g1: expected only the c1 issue, got %v", got)
	}
	if got := p.Inbreeding("f2", "f3", 0).Issues; len(got) != 0 {
		t.Fatalf("inbreeding f2/f3: expected no issues, got %v", got)
	}
	if got := p.Inbreeding("outsider", "outsider", 0).Issues; len(got) != 1 {
		t.Fatalf("self check of outsider: expected its own issue, got %v", got)
	}
	if _, got := p.RecomputeGenerations("c2"); len(got) != 0 {
		t.Fatalf("recompute from c2: expected no issues, got %v", got)
	}
}

func TestCheckInbreedingTiers(t *testing.T) {
	pairs, logs := familyFixture()
	cases := []struct {
		name   string
		a, b   string
		inbred bool
		tier   genetics.InbreedingTier
	}{
		{"self", "c1", "c1", true, genetics.TierSelf},
		{"full siblings", "c1", "c2", true, genetics.TierFullSiblings},
		{"half siblings", "c2", "x1", true, genetics.TierHalfSiblings},
		{"parent offspring", "c1", "g1", true, genetics.TierDirectAncestor},
		{"grandparent", "g1", "m1", true, genetics.TierDirectAncestor},
		{"aunt nephew", "c2", "g1", true, genetics.TierSharedAncestor},
		{"unrelated founders", "f2", "f3", false, genetics.TierNone},
		{"unknown creatures", "nobody", "else", false, genetics.TierNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := genetics.CheckInbreeding(tc.a, tc.b, logs, pairs)
			if got.IsInbred != tc.inbred || got.Tier != tc.tier {
				t.Fatalf("expected inbred=%v tier=%s, got %+v", tc.inbred, tc.tier, got)
			}
		})
	}
	got := genetics.CheckInbreeding("c2", "g1", logs, pairs)
	if !reflect.DeepEqual(got.CommonAncestors, []string{"f1", "m1"}) {
		t.Fatalf("unexpected common ancestors %v", got.CommonAncestors)
	}
}

func TestCheckInbreedingCycleIsConservative(t *testing.T) {
	pairs, logs := cycleFixture()
	got := genetics.CheckInbreeding("a", "z", logs, pairs)
	if !got.IsInbred || got.Tier != genetics.TierIndeterminate {
		t.Fatalf("cyclic data should be conservatively inbred, got %+v", got)
	}
	if len(got.Issues) == 0 {
		t.Fatalf("expected integrity issues for cyclic data")
	}
}

func chainFixture(length int) ([]domain.Pair, []domain.LogEntry) {
	var pairs []domain.Pair
	var logs []domain.LogEntry
	for i := 0; i < length; i++ {
		pairID := fmt.Sprintf("q%d", i)
		pairs = append(pairs, domain.Pair{ID: pairID, MaleID: fmt.Sprintf("c%d", i), FemaleID: fmt.Sprintf("mate%d", i)})
		logs = append(logs, domain.LogEntry{ID: "log" + pairID, PairID: pairID, Progeny1ID: fmt.Sprintf("c%d", i+1)})
	}
	return pairs, logs
}

func TestInbreedingDepthBound(t *testing.T) {
	pairs, logs := chainFixture(12)
	if got := genetics.CheckInbreeding("c12", "c0", logs, pairs); got.IsInbred {
		t.Fatalf("ancestor beyond default depth should not be found, got %+v", got)
	}
	engine := genetics.NewEngine(sampleTables(), genetics.WithAncestorDepth(12))
	if got := engine.Inbreeding("c12", "c0", pairs, logs); got.Tier != genetics.TierDirectAncestor {
		t.Fatalf("expected direct ancestor with depth 12, got %+v", got)
	}
	if got := genetics.ComputeGeneration("c12", pairs, logs); got.Generation != 13 {
		t.Fatalf("generation is not depth bounded, expected 13, got %d", got.Generation)
	}
}

func TestUpdateDescendantGenerations(t *testing.T) {
	pairs, logs := familyFixture()
	if got := genetics.UpdateDescendantGenerations("m1", pairs, logs); !reflect.DeepEqual(got, []string{"c1", "c2", "x1", "g1"}) {
		t.Fatalf("unexpected descendants %v", got)
	}
	if got := genetics.UpdateDescendantGenerations("g1", pairs, logs); len(got) != 0 {
		t.Fatalf("leaf has no descendants, got %v", got)
	}
	cyclePairs, cycleLogs := cycleFixture()
	if got := genetics.UpdateDescendantGenerations("a", cyclePairs, cycleLogs); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("cyclic walk must terminate, got %v", got)
	}
}

func TestRecomputeGenerations(t *testing.T) {
	pairs, logs := familyFixture()
	gens, issues := genetics.NewPedigree(pairs, logs).RecomputeGenerations("c1")
	if !reflect.DeepEqual(gens, map[string]int{"g1": 3}) || len(issues) != 0 {
		t.Fatalf("unexpected recompute result %v %v", gens, issues)
	}
}
