package core_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"wavecore/internal/core"
	memory "wavecore/internal/infra/persistence/memory"
	"wavecore/pkg/domain"
)

func TestServiceInstrumentationEmitsMetricsAndSpans(t *testing.T) {
	store := memory.NewStore(core.NewDefaultRulesEngine())
	metrics := core.NewExpvarRecorder("")
	var traceBuf bytes.Buffer
	tracer := core.NewJSONTracer(&traceBuf)
	svc := core.NewService(store,
		core.WithMetricsRecorder(metrics),
		core.WithTracer(tracer),
	)
	gate := core.NewGate(store)
	if !gate.Login(core.DefaultAdminSecret) {
		t.Fatal("login failed")
	}
	cap, err := gate.Capability()
	if err != nil {
		t.Fatalf("capability: %v", err)
	}
	ctx := context.Background()

	if _, _, err := svc.AddProgram(ctx, cap, domain.Program{WaveTitle: "Wave 9"}); err != nil {
		t.Fatalf("add wave: %v", err)
	}
	var zero core.Capability
	if _, _, err := svc.AddProgram(ctx, zero, domain.Program{WaveTitle: "Wave 10"}); err == nil {
		t.Fatal("expected unauthorized")
	}

	stats := metrics.Snapshot()["add_program"]
	if stats.Count != 2 || stats.Errors != 1 {
		t.Fatalf("unexpected counters %+v", stats)
	}
	if metrics.Name() == "" {
		t.Fatal("recorder must publish under a generated name")
	}

	spans := tracer.Spans()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Operation != "add_program" || spans[0].Status != "success" {
		t.Fatalf("unexpected first span %+v", spans[0])
	}
	if spans[1].Status != "error" || spans[1].Error == "" {
		t.Fatalf("failed span must carry the error, got %+v", spans[1])
	}
	if !strings.Contains(traceBuf.String(), `"operation":"add_program"`) {
		t.Fatalf("spans must be written as JSON lines, got %q", traceBuf.String())
	}
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	registry := prometheus.NewRegistry()
	rec, err := core.NewPrometheusMetricsRecorder(registry)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	rec.Observe(context.Background(), "add_program", true, 25*time.Millisecond)
	rec.Observe(context.Background(), "add_program", false, 5*time.Millisecond)
	rec.Observe(context.Background(), "", true, time.Millisecond)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := map[string]bool{}
	for _, mf := range families {
		found[mf.GetName()] = true
	}
	if !found["wavecore_service_operation_duration_seconds"] || !found["wavecore_service_operation_results_total"] {
		t.Fatalf("expected registered collectors, got %v", found)
	}

	// double registration must surface the registry error
	if _, err := core.NewPrometheusMetricsRecorder(registry); err == nil {
		t.Fatal("expected duplicate registration error")
	}
}
