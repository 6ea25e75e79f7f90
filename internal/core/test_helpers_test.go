package core

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"breedlab/internal/infra/persistence/memory"
	"breedlab/pkg/domain"
)

const owner = "alice"

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func approxEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

type logRecord struct {
	level string
	msg   string
	args  []any
}

type recordingLogger struct {
	mu      sync.Mutex
	records []logRecord
}

func (l *recordingLogger) add(level, msg string, args []any) {
	l.mu.Lock()
	l.records = append(l.records, logRecord{level: level, msg: msg, args: args})
	l.mu.Unlock()
}

func (l *recordingLogger) Debug(msg string, args ...any) { l.add("debug", msg, args) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.add("info", msg, args) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.add("warn", msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.add("error", msg, args) }

func (l *recordingLogger) count(level, msg string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, r := range l.records {
		if r.level == level && r.msg == msg {
			n++
		}
	}
	return n
}

func (l *recordingLogger) hasArg(level, msg, key, value string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, r := range l.records {
		if r.level != level || r.msg != msg {
			continue
		}
		for i := 0; i+1 < len(r.args); i += 2 {
			if fmt.Sprint(r.args[i]) == key && fmt.Sprint(r.args[i+1]) == value {
				return true
			}
		}
	}
	return false
}

type metricsCall struct {
	op      string
	success bool
}

type captureMetricsRecorder struct {
	mu    sync.Mutex
	calls []metricsCall
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	c.mu.Lock()
	c.calls = append(c.calls, metricsCall{op: op, success: success})
	c.mu.Unlock()
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

func adult(id, species string, gender domain.Gender, genes domain.Genetics) domain.Creature {
	return domain.Creature{ID: id, Species: species, Gender: gender, GrowthStage: domain.StageAdult, Genetics: genes}
}

// familySnapshot is two emberwing founders, their two offspring, and a
// grandchild bred from the siblings, plus an unrelated frostscale.
func familySnapshot() domain.Snapshot {
	k1 := adult("k1", "emberwing", domain.GenderMale, domain.Genetics{"body_color": "rr"})
	k1.GrowthStage = domain.StageBaby
	return domain.Snapshot{
		Creatures: []domain.Creature{
			adult("m1", "emberwing", domain.GenderMale, domain.Genetics{"body_color": "Rr", "crest": "Cc", "wing_pattern": "SsBb"}),
			adult("f1", "emberwing", domain.GenderFemale, domain.Genetics{"body_color": "Rr", "crest": "CC", "wing_pattern": "ssbb"}),
			k1,
			adult("k2", "emberwing", domain.GenderFemale, domain.Genetics{"body_color": "Rr"}),
			adult("gk1", "emberwing", domain.GenderFemale, nil),
			adult("fs1", "frostscale", domain.GenderFemale, domain.Genetics{"body_color": "Ww"}),
		},
		Pairs: []domain.Pair{
			{ID: "p1", MaleID: "m1", FemaleID: "f1", AssignedGoalIDs: []string{"g1", "ghost", "g2"}},
			{ID: "p2", MaleID: "k1", FemaleID: "k2"},
		},
		Logs: []domain.LogEntry{
			{ID: "l1", PairID: "p1", Progeny1ID: "k1", Progeny2ID: "k2"},
			{ID: "l2", PairID: "p2", Progeny1ID: "gk1"},
		},
		Goals: []domain.Goal{
			{ID: "g1", Species: "emberwing", Mode: domain.GoalModePhenotype, Genes: map[string]domain.GeneTarget{
				"body_color": {TargetPhenotype: "Ochre"},
			}},
			{ID: "g2", Species: "emberwing", Mode: domain.GoalModeGenotype, Genes: map[string]domain.GeneTarget{
				"body_color": {TargetGenotype: "RR"},
				"crest":      {TargetGenotype: "cc"},
			}},
		},
	}
}

func newTestService(t *testing.T, snapshot domain.Snapshot, opts ...Option) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	if err := store.Save(context.Background(), owner, snapshot); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	svc, err := NewService(store, opts...)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, store
}
