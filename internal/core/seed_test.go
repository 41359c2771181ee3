package core_test

import (
	"context"
	"testing"

	"wavecore/internal/core"
	memory "wavecore/internal/infra/persistence/memory"
	"wavecore/pkg/domain"
)

func TestSeedPopulatesEmptyStore(t *testing.T) {
	store := memory.NewStore(core.NewDefaultRulesEngine())
	svc := core.NewService(store)
	ctx := context.Background()

	if err := svc.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	programs := svc.ListPrograms()
	if len(programs) != 2 {
		t.Fatalf("expected 2 seeded waves, got %d", len(programs))
	}
	if len(svc.ListSMEs()) != 4 {
		t.Fatalf("expected 4 seeded smes, got %d", len(svc.ListSMEs()))
	}
	if len(svc.ListVendorContacts()) != 3 {
		t.Fatalf("expected 3 seeded contacts, got %d", len(svc.ListVendorContacts()))
	}

	// every seeded session lands in the most recent wave's partition
	counts := svc.SessionCountsByWave()
	sum := 0
	for _, n := range counts {
		sum += n
	}
	if total := svc.TotalSessionCount(); total != sum || total != 4 {
		t.Fatalf("seeded sessions must partition by wave: total=%d sum=%d", total, sum)
	}
	active := programs[len(programs)-1]
	if counts[active.ID] != 4 {
		t.Fatalf("expected sessions under the active wave, got %v", counts)
	}

	if svc.Activity().Len() != 0 {
		t.Fatal("seeding is initialization and must not be audited")
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	store := memory.NewStore(core.NewDefaultRulesEngine())
	svc := core.NewService(store)
	ctx := context.Background()

	if err := svc.Seed(ctx); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	before := svc.TotalSessionCount()
	if err := svc.Seed(ctx); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if got := svc.TotalSessionCount(); got != before {
		t.Fatalf("second seed must be a no-op: before=%d after=%d", before, got)
	}
	if len(svc.ListPrograms()) != 2 {
		t.Fatalf("expected 2 waves after reseed, got %d", len(svc.ListPrograms()))
	}
}

func TestSeedSkipsNonEmptyStore(t *testing.T) {
	svc, _, cap := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.AddProgram(ctx, cap, domain.Program{WaveTitle: "Wave 1"}); err != nil {
		t.Fatalf("add wave: %v", err)
	}
	if err := svc.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if got := len(svc.ListPrograms()); got != 1 {
		t.Fatalf("seed must not touch a populated store, got %d waves", got)
	}
}
