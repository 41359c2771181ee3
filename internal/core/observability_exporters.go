package core

import (
	"context"
	"encoding/json"
	"expvar"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// Process-local exporters for deployments that run without a metrics
// scrape target: an expvar recorder publishing per-operation counters
// under /debug/vars, and a tracer that writes spans as JSON lines for
// offline inspection of slow mutations.

var expvarSeq uint64

// OperationStats aggregates outcomes for one service operation.
type OperationStats struct {
	Count   int64   `json:"count"`
	Errors  int64   `json:"errors"`
	TotalMS float64 `json:"total_ms"`
}

// ExpvarRecorder fulfills MetricsRecorder with expvar-published
// counters, one entry per operation (add_program, delete_session, ...).
type ExpvarRecorder struct {
	name string
	mu   sync.Mutex
	ops  map[string]*OperationStats
}

// NewExpvarRecorder constructs a recorder published under name. An
// empty name gets a generated wavecore_core_N identifier so tests can
// create recorders freely without expvar collisions.
func NewExpvarRecorder(name string) *ExpvarRecorder {
	if name == "" {
		name = fmt.Sprintf("wavecore_core_%d", atomic.AddUint64(&expvarSeq, 1))
	}
	rec := &ExpvarRecorder{name: name, ops: make(map[string]*OperationStats)}
	expvar.Publish(name, expvar.Func(func() any {
		return rec.Snapshot()
	}))
	return rec
}

// Name returns the expvar export name.
func (r *ExpvarRecorder) Name() string { return r.name }

// Snapshot copies the aggregated counters, keyed by operation.
func (r *ExpvarRecorder) Snapshot() map[string]OperationStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]OperationStats, len(r.ops))
	for op, stats := range r.ops {
		out[op] = *stats
	}
	return out
}

// Observe records a service operation outcome.
func (r *ExpvarRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	r.mu.Lock()
	stats, ok := r.ops[operation]
	if !ok {
		stats = &OperationStats{}
		r.ops[operation] = stats
	}
	stats.Count++
	if !success {
		stats.Errors++
	}
	stats.TotalMS += float64(duration) / float64(time.Millisecond)
	r.mu.Unlock()
}

// Span is one completed trace emitted by JSONTracer.
type Span struct {
	Operation  string    `json:"operation"`
	Status     string    `json:"status"`
	DurationMS float64   `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
}

// JSONTracer writes every finished span as one JSON line and retains
// them in memory for inspection via Spans.
type JSONTracer struct {
	mu    sync.Mutex
	spans []Span
	enc   *json.Encoder
}

// NewJSONTracer constructs a tracer over the writer. A nil writer
// retains spans without emitting them.
func NewJSONTracer(w io.Writer) *JSONTracer {
	t := &JSONTracer{}
	if w != nil {
		t.enc = json.NewEncoder(w)
	}
	return t
}

// Spans returns a copy of every recorded span, oldest first.
func (t *JSONTracer) Spans() []Span {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Span, len(t.spans))
	copy(out, t.spans)
	return out
}

// Start implements Tracer.
func (t *JSONTracer) Start(ctx context.Context, operation string) (context.Context, TraceSpan) {
	return ctx, &jsonSpan{tracer: t, operation: operation, started: time.Now().UTC()}
}

type jsonSpan struct {
	tracer    *JSONTracer
	operation string
	started   time.Time
}

func (s *jsonSpan) End(err error) {
	ended := time.Now().UTC()
	span := Span{
		Operation:  s.operation,
		Status:     "success",
		DurationMS: float64(ended.Sub(s.started)) / float64(time.Millisecond),
		StartedAt:  s.started,
		EndedAt:    ended,
	}
	if err != nil {
		span.Status = "error"
		span.Error = err.Error()
	}
	s.tracer.mu.Lock()
	s.tracer.spans = append(s.tracer.spans, span)
	if s.tracer.enc != nil {
		_ = s.tracer.enc.Encode(span)
	}
	s.tracer.mu.Unlock()
}
