package core

import (
	"context"
	"encoding/json"
	"expvar"
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var expvarSeq atomic.Uint64

// OperationStats aggregates the outcomes of one service operation.
type OperationStats struct {
	Success int64   `json:"success"`
	Errors  int64   `json:"errors"`
	TotalMS float64 `json:"total_ms"`
	MaxMS   float64 `json:"max_ms"`
}

// Calls returns the number of observed calls.
func (o OperationStats) Calls() int64 { return o.Success + o.Errors }

// ExpvarMetricsSnapshot is a point-in-time copy of an ExpvarMetricsRecorder.
type ExpvarMetricsSnapshot struct {
	Operations map[string]OperationStats `json:"operations"`
	RecordedAt time.Time                 `json:"recorded_at"`
}

// ExpvarMetricsRecorder keeps per-operation stats in process and publishes
// them as an expvar variable.
type ExpvarMetricsRecorder struct {
	name string
	mu   sync.Mutex
	ops  map[string]OperationStats
}

// NewExpvarMetricsRecorder publishes a recorder under name, or under a
// generated breedlab_service_metrics_<n> name when name is empty. expvar
// names are process-global; publishing a name twice panics.
func NewExpvarMetricsRecorder(name string) *ExpvarMetricsRecorder {
	if name == "" {
		name = fmt.Sprintf("breedlab_service_metrics_%d", expvarSeq.Add(1))
	}
	rec := &ExpvarMetricsRecorder{name: name, ops: make(map[string]OperationStats)}
	expvar.Publish(name, expvar.Func(func() any { return rec.Snapshot() }))
	return rec
}

// Name returns the expvar variable name.
func (r *ExpvarMetricsRecorder) Name() string { return r.name }

// Snapshot copies the current stats.
func (r *ExpvarMetricsRecorder) Snapshot() ExpvarMetricsSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return ExpvarMetricsSnapshot{Operations: maps.Clone(r.ops), RecordedAt: time.Now().UTC()}
}

// Observe records a service operation outcome. Unnamed operations are dropped.
func (r *ExpvarMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	ms := float64(duration) / float64(time.Millisecond)
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := r.ops[operation]
	if success {
		stats.Success++
	} else {
		stats.Errors++
	}
	stats.TotalMS += ms
	stats.MaxMS = max(stats.MaxMS, ms)
	r.ops[operation] = stats
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// PrometheusMetricsRecorder exports operation counts and latencies as
// breedlab_service_operations_total and
// breedlab_service_operation_duration_seconds.
type PrometheusMetricsRecorder struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

// NewPrometheusMetricsRecorder registers the recorder's collectors on reg.
// A nil reg leaves the collectors unregistered. Registering twice on the same
// registry panics, as with any promauto collector.
func NewPrometheusMetricsRecorder(reg prometheus.Registerer) *PrometheusMetricsRecorder {
	factory := promauto.With(reg)
	return &PrometheusMetricsRecorder{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "breedlab",
			Subsystem: "service",
			Name:      "operations_total",
			Help:      "Service operations by outcome.",
		}, []string{"operation", "status"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "breedlab",
			Subsystem: "service",
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
		}, []string{"operation"}),
	}
}

// Observe records a service operation outcome.
func (r *PrometheusMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	r.operations.WithLabelValues(operation, statusLabel(success)).Inc()
	r.latency.WithLabelValues(operation).Observe(duration.Seconds())
}

// JSONTraceEntry is one finished span as written by JSONTraceTracer.
type JSONTraceEntry struct {
	SpanID     string    `json:"span_id"`
	ParentID   string    `json:"parent_id,omitempty"`
	Operation  string    `json:"operation"`
	Status     string    `json:"status"`
	DurationMS float64   `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
}

type spanKey struct{}

// SpanIDFromContext returns the id of the JSON trace span active in ctx.
func SpanIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(spanKey{}).(string)
	return id
}

// JSONTraceTracer writes finished spans as JSON lines and keeps them for
// inspection. A span started under another span's context records it as
// its parent.
type JSONTraceTracer struct {
	mu      sync.Mutex
	entries []JSONTraceEntry
	enc     *json.Encoder
}

// NewJSONTracer returns a tracer writing to w. A nil w only retains spans.
func NewJSONTracer(w io.Writer) *JSONTraceTracer {
	t := &JSONTraceTracer{}
	if w != nil {
		t.enc = json.NewEncoder(w)
	}
	return t
}

// Entries returns the finished spans in completion order.
func (t *JSONTraceTracer) Entries() []JSONTraceEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.entries)
}

// Start opens a span for operation.
func (t *JSONTraceTracer) Start(ctx context.Context, operation string) (context.Context, TraceSpan) {
	span := &jsonTraceSpan{
		tracer: t,
		entry: JSONTraceEntry{
			SpanID:    uuid.NewString(),
			ParentID:  SpanIDFromContext(ctx),
			Operation: operation,
			StartedAt: time.Now().UTC(),
		},
	}
	return context.WithValue(ctx, spanKey{}, span.entry.SpanID), span
}

type jsonTraceSpan struct {
	tracer *JSONTraceTracer
	entry  JSONTraceEntry
	once   sync.Once
}

// End finishes the span. Only the first call is recorded.
func (s *jsonTraceSpan) End(err error) {
	s.once.Do(func() {
		entry := s.entry
		entry.EndedAt = time.Now().UTC()
		entry.DurationMS = float64(entry.EndedAt.Sub(entry.StartedAt)) / float64(time.Millisecond)
		entry.Status = statusLabel(err == nil)
		if err != nil {
			entry.Error = err.Error()
		}
		s.tracer.record(entry)
	})
}

func (t *JSONTraceTracer) record(entry JSONTraceEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, entry)
	if t.enc != nil {
		_ = t.enc.Encode(entry)
	}
}
