package domain_test

import (
	"testing"

	"wavecore/pkg/domain"
)

func TestProgramPatchShallowMerge(t *testing.T) {
	p := domain.Program{
		Name:       "Vendor Onboarding",
		WaveTitle:  "Wave 9",
		Status:     domain.ProgramUpcoming,
		Modules:    []string{"Policy Foundations", "Tooling"},
		DaysOfWeek: []string{"Monday", "Wednesday"},
	}

	status := domain.ProgramActive
	modules := []string{"Quality Review"}
	domain.ProgramPatch{Status: &status, Modules: &modules}.Apply(&p)

	if p.Status != domain.ProgramActive {
		t.Fatalf("status not applied: %s", p.Status)
	}
	if p.Name != "Vendor Onboarding" || p.WaveTitle != "Wave 9" {
		t.Fatalf("nil fields must leave values untouched: %+v", p)
	}
	// slice fields replace wholesale, no element merging
	if len(p.Modules) != 1 || p.Modules[0] != "Quality Review" {
		t.Fatalf("modules not replaced: %v", p.Modules)
	}
	if len(p.DaysOfWeek) != 2 {
		t.Fatalf("unpatched slice must survive: %v", p.DaysOfWeek)
	}

	// the applied slice is a copy, later caller mutation must not leak in
	modules[0] = "changed"
	if p.Modules[0] != "Quality Review" {
		t.Fatal("patch must copy slice values")
	}
}

func TestSessionPatchEmptyStringIsAnUpdate(t *testing.T) {
	s := domain.Session{Day: "Monday", Training: "Kickoff", SME: "Priya Nair", WaveID: "wave-1"}

	empty := ""
	domain.SessionPatch{SME: &empty}.Apply(&s)
	if s.SME != "" {
		t.Fatalf("explicit empty string must overwrite, got %q", s.SME)
	}
	if s.WaveID != "wave-1" || s.Training != "Kickoff" {
		t.Fatalf("unset fields drifted: %+v", s)
	}
}

func TestZeroPatchIsANoOp(t *testing.T) {
	sme := domain.SME{Name: "Dana Whitfield", Location: "Bogota", Vendors: []string{"TP Bogota"}}
	before := sme
	domain.SMEPatch{}.Apply(&sme)
	if sme.Name != before.Name || sme.Location != before.Location || len(sme.Vendors) != 1 {
		t.Fatalf("zero patch changed the record: %+v", sme)
	}

	contact := domain.VendorContact{Name: "Camila Rojas", Vendor: "TP Colombia"}
	domain.VendorContactPatch{}.Apply(&contact)
	if contact.Name != "Camila Rojas" || contact.Vendor != "TP Colombia" {
		t.Fatalf("zero patch changed the record: %+v", contact)
	}
}
