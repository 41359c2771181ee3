package core_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"wavecore/internal/core"
	memory "wavecore/internal/infra/persistence/memory"
	"wavecore/pkg/domain"
)

func newTestService(t *testing.T) (*core.Service, *core.Gate, core.Capability) {
	t.Helper()
	store := memory.NewStore(core.NewDefaultRulesEngine())
	svc := core.NewService(store)
	gate := core.NewGate(store)
	if !gate.Login(core.DefaultAdminSecret) {
		t.Fatal("login failed")
	}
	cap, err := gate.Capability()
	if err != nil {
		t.Fatalf("capability: %v", err)
	}
	return svc, gate, cap
}

func TestMutationsRequireCapability(t *testing.T) {
	store := memory.NewStore(core.NewDefaultRulesEngine())
	svc := core.NewService(store)
	ctx := context.Background()

	var zero core.Capability
	if _, _, err := svc.AddProgram(ctx, zero, domain.Program{WaveTitle: "Wave 9"}); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if len(store.ListPrograms()) != 0 {
		t.Fatal("rejected mutation must not change state")
	}
	if svc.Activity().Len() != 0 {
		t.Fatal("rejected mutation must not be logged")
	}
}

func TestEveryMutationProducesOneActivityEntry(t *testing.T) {
	svc, _, cap := newTestService(t)
	ctx := context.Background()

	wave, _, err := svc.AddProgram(ctx, cap, domain.Program{WaveTitle: "Wave 9", DaysOfWeek: []string{"Monday"}})
	if err != nil {
		t.Fatalf("add wave: %v", err)
	}
	session, _, err := svc.AddSession(ctx, cap, domain.Session{Day: "Monday", Training: "Kickoff", Type: domain.SessionLive}, wave.ID)
	if err != nil {
		t.Fatalf("add session: %v", err)
	}
	sme, _, err := svc.AddSME(ctx, cap, domain.SME{Name: "Priya Nair", Location: "Manila"})
	if err != nil {
		t.Fatalf("add sme: %v", err)
	}
	if _, _, err := svc.AddVendorContact(ctx, cap, domain.VendorContact{Name: "Camila Rojas", Vendor: "TP Colombia"}); err != nil {
		t.Fatalf("add contact: %v", err)
	}

	if got := svc.Activity().Len(); got != 4 {
		t.Fatalf("expected 4 audit entries, got %d", got)
	}
	entries := svc.RecentActivity(0)
	if entries[0].Action != "Added contact" {
		t.Fatalf("expected newest entry for contact, got %+v", entries[0])
	}
	if !strings.Contains(entries[3].Detail, "Wave 9") {
		t.Fatalf("entries must name the affected record, got %q", entries[3].Detail)
	}
	for _, e := range entries {
		if e.User != "Admin" {
			t.Fatalf("actor should be the bound principal, got %q", e.User)
		}
	}

	// deletes are logged too
	if _, _, err := svc.DeleteSession(ctx, cap, session.ID); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, _, err := svc.DeleteSME(ctx, cap, sme.ID); err != nil {
		t.Fatalf("delete sme: %v", err)
	}
	if got := svc.Activity().Len(); got != 6 {
		t.Fatalf("expected 6 audit entries, got %d", got)
	}
}

func TestSilentNoOpsAreNotLogged(t *testing.T) {
	svc, _, cap := newTestService(t)
	ctx := context.Background()
	name := "ghost"

	if _, found, _, err := svc.UpdateProgram(ctx, cap, "missing", domain.ProgramPatch{Name: &name}); err != nil || found {
		t.Fatalf("unknown update: found=%v err=%v", found, err)
	}
	if found, _, err := svc.DeleteProgram(ctx, cap, "missing"); err != nil || found {
		t.Fatalf("unknown delete: found=%v err=%v", found, err)
	}
	if svc.Activity().Len() != 0 {
		t.Fatal("no-ops must not produce audit entries")
	}
}

func TestRemoveOwnerAdminIsBlocked(t *testing.T) {
	svc, _, cap := newTestService(t)
	ctx := context.Background()

	found, _, err := svc.RemoveAdminUser(ctx, cap, domain.OwnerAdminID)
	if err == nil {
		t.Fatal("owner removal must be rejected")
	}
	var violation domain.RuleViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected RuleViolationError, got %v", err)
	}
	if !strings.Contains(err.Error(), domain.OwnerAdminID) {
		t.Fatalf("rejection must carry a user-visible message, got %q", err.Error())
	}
	if found {
		t.Fatal("blocked removal must not report success")
	}
	admins := svc.ListAdminUsers()
	if len(admins) != 1 || admins[0].ID != domain.OwnerAdminID {
		t.Fatalf("owner must survive, got %+v", admins)
	}
	if svc.Activity().Len() != 0 {
		t.Fatal("blocked mutations must not be logged")
	}
}

func TestRemovePeerAdminSucceeds(t *testing.T) {
	svc, _, cap := newTestService(t)
	ctx := context.Background()

	peer, _, err := svc.AddAdminUser(ctx, cap, domain.AdminUser{Name: "Jordan", Email: "jordan@example.com", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("add admin: %v", err)
	}
	found, _, err := svc.RemoveAdminUser(ctx, cap, peer.ID)
	if err != nil || !found {
		t.Fatalf("remove peer: found=%v err=%v", found, err)
	}
	if len(svc.ListAdminUsers()) != 1 {
		t.Fatal("only the owner should remain")
	}
}

func TestOrphanSessionWarnsWithoutBlocking(t *testing.T) {
	svc, _, cap := newTestService(t)
	ctx := context.Background()

	session, res, err := svc.AddSession(ctx, cap, domain.Session{Day: "Monday", Training: "Orphan", Type: domain.SessionLive, WaveID: "ghost"}, "")
	if err != nil {
		t.Fatalf("orphan session must still commit: %v", err)
	}
	if session.WaveID != "ghost" {
		t.Fatalf("wave id preserved, got %s", session.WaveID)
	}
	warned := false
	for _, v := range res.Warnings() {
		if v.Rule == "session_wave_reference" && v.Severity == domain.SeverityWarn {
			warned = true
		}
	}
	if !warned {
		t.Fatalf("expected session_wave_reference warning, got %+v", res.Violations)
	}
}

func TestRegressiveStatusChangeIsLoggedNotRejected(t *testing.T) {
	svc, _, cap := newTestService(t)
	ctx := context.Background()

	wave, _, err := svc.AddProgram(ctx, cap, domain.Program{WaveTitle: "Wave 9", Status: domain.ProgramCompleted})
	if err != nil {
		t.Fatalf("add wave: %v", err)
	}
	status := domain.ProgramUpcoming
	updated, found, res, err := svc.UpdateProgram(ctx, cap, wave.ID, domain.ProgramPatch{Status: &status})
	if err != nil || !found {
		t.Fatalf("regressive transition must commit: found=%v err=%v", found, err)
	}
	if updated.Status != domain.ProgramUpcoming {
		t.Fatalf("status not applied: %s", updated.Status)
	}
	logged := false
	for _, v := range res.Violations {
		if v.Rule == "program_status_transition" && v.Severity == domain.SeverityLog {
			logged = true
		}
	}
	if !logged {
		t.Fatalf("expected transition log violation, got %+v", res.Violations)
	}
}

func TestDeleteProgramCascadesThroughService(t *testing.T) {
	svc, _, cap := newTestService(t)
	ctx := context.Background()

	wave, _, err := svc.AddProgram(ctx, cap, domain.Program{WaveTitle: "Wave 9"})
	if err != nil {
		t.Fatalf("add wave: %v", err)
	}
	if _, _, err := svc.AddSession(ctx, cap, domain.Session{Day: "Monday", Training: "X", Type: domain.SessionLive}, wave.ID); err != nil {
		t.Fatalf("add session: %v", err)
	}

	found, _, err := svc.DeleteProgram(ctx, cap, wave.ID)
	if err != nil || !found {
		t.Fatalf("delete wave: found=%v err=%v", found, err)
	}
	if got := svc.SessionsForWave(wave.ID); len(got) != 0 {
		t.Fatalf("cascade failed, %d sessions remain", len(got))
	}
	// the delete is one entry, the cascade is not logged per session
	if got := svc.Activity().Len(); got != 3 {
		t.Fatalf("expected 3 audit entries, got %d", got)
	}
}
