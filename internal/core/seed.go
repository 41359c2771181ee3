package core

import (
	"context"
	"fmt"

	"wavecore/pkg/domain"
)

// Seed loads the fixed startup dataset into an empty store. Seeding is
// initialization, not an admin mutation, so it bypasses the gate and
// leaves the activity log untouched. Calling Seed on a non-empty store
// is a no-op.
func (s *Service) Seed(ctx context.Context) error {
	if len(s.store.ListPrograms()) > 0 {
		return nil
	}
	_, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		waves := seedPrograms()
		for i, p := range waves {
			created, err := tx.AddProgram(p)
			if err != nil {
				return fmt.Errorf("seed program %q: %w", p.WaveTitle, err)
			}
			waves[i] = created
		}
		// sessions belong to the most recent wave
		active := waves[len(waves)-1]
		for _, session := range seedSessions() {
			if _, err := tx.AddSession(session, active.ID); err != nil {
				return fmt.Errorf("seed session %q: %w", session.Training, err)
			}
		}
		for _, sme := range seedSMEs() {
			if _, err := tx.AddSME(sme); err != nil {
				return fmt.Errorf("seed sme %q: %w", sme.Name, err)
			}
		}
		for _, contact := range seedContacts() {
			if _, err := tx.AddVendorContact(contact); err != nil {
				return fmt.Errorf("seed contact %q: %w", contact.Name, err)
			}
		}
		return nil
	})
	return err
}

func seedPrograms() []Program {
	return []Program{
		{
			Name:        "Vendor Onboarding",
			WaveTitle:   "Wave 8",
			Location:    "Bogota",
			StartDate:   "2025-05-05",
			EndDate:     "2025-06-13",
			Status:      ProgramCompleted,
			Description: "Simple object onboarding for the Bogota site.",
			Modules:     []string{"Policy Foundations", "Simple Objects", "Tooling"},
			SMEsInvolved: []string{
				"Dana Whitfield",
				"Luis Herrera",
			},
			DaysOfWeek: []string{"Monday", "Tuesday", "Wednesday", "Thursday"},
		},
		{
			Name:        "Vendor Onboarding",
			WaveTitle:   "Wave 9",
			Location:    "Manila",
			StartDate:   "2025-08-18",
			EndDate:     "2025-09-26",
			Status:      ProgramActive,
			Description: "Combined simple and complex object wave for Manila.",
			Modules:     []string{"Policy Foundations", "Complex Objects", "Quality Review"},
			SMEsInvolved: []string{
				"Priya Nair",
				"Marco Silva",
			},
			DaysOfWeek: []string{"Monday", "Wednesday", "Friday"},
		},
	}
}

func seedSessions() []Session {
	return []Session{
		{
			Day:       "Monday",
			Date:      "2025-08-18",
			TimeStart: "9:00 AM",
			TimeEnd:   "10:30 AM",
			Training:  "Policy Foundations Kickoff",
			SME:       "Priya Nair",
			Type:      SessionLive,
		},
		{
			Day:       "Monday",
			Date:      "2025-08-18",
			TimeStart: "1:00 PM",
			TimeEnd:   "2:00 PM",
			Training:  "Tooling Walkthrough",
			SME:       SMEUnassigned,
			Type:      SessionSelfStudy,
		},
		{
			Day:       "Wednesday",
			Date:      "2025-08-20",
			TimeStart: "10:00 AM",
			TimeEnd:   "12:00 PM",
			Training:  "Complex Objects Deep Dive",
			SME:       "Marco Silva",
			Type:      SessionLive,
		},
		{
			Day:       "Friday",
			Date:      "2025-08-22",
			TimeStart: "9:30 AM",
			TimeEnd:   "11:00 AM",
			Training:  "Quality Review Calibration",
			SME:       "Priya Nair",
			Type:      SessionUpskill,
		},
	}
}

func seedSMEs() []SME {
	return []SME{
		{
			Name:      "Dana Whitfield",
			Market:    "LATAM",
			Vendors:   []string{"TP Bogota"},
			Roles:     []string{"Trainer", "Policy Reviewer"},
			PolicySME: "Prohibited Items, Listings",
			Space:     domain.SpaceSimple,
			Location:  "Bogota",
		},
		{
			Name:      "Luis Herrera",
			Market:    "LATAM",
			Vendors:   []string{"TP Bogota", "Concentrix"},
			Roles:     []string{"Trainer"},
			PolicySME: "Listings",
			Space:     domain.SpaceSimpleComplex,
			Location:  "Bogota",
		},
		{
			Name:      "Priya Nair",
			Market:    "APAC",
			Vendors:   []string{"Concentrix Manila"},
			Roles:     []string{"Lead Trainer"},
			PolicySME: "Quality Review, Appeals",
			Space:     domain.SpaceComplex,
			Location:  "Manila",
		},
		{
			Name:      "Marco Silva",
			Market:    "APAC",
			Vendors:   []string{"TP Manila"},
			Roles:     []string{"Trainer", "Calibration"},
			PolicySME: "Complex Objects",
			Space:     domain.SpaceComplex,
			Location:  "Manila",
		},
	}
}

func seedContacts() []VendorContact {
	return []VendorContact{
		{
			Name:           "Camila Rojas",
			Role:           "Training Manager",
			Vendor:         "TP Colombia",
			Location:       "Bogota",
			PrimaryContact: "yes",
			Email:          "camila.rojas@tp.example.com",
			Phone:          "+57 601 555 0142",
		},
		{
			Name:           "Arvin Santos",
			Role:           "Site Lead",
			Vendor:         "Concentrix Philippines",
			Location:       "Manila",
			PrimaryContact: "yes",
			Email:          "arvin.santos@cnx.example.com",
			Phone:          "+63 2 8555 0178",
		},
		{
			Name:           "Grace Lim",
			Role:           "Quality Lead",
			Vendor:         "TP Philippines",
			Location:       "Manila",
			PrimaryContact: "no",
			Email:          "grace.lim@tp.example.com",
			Phone:          "+63 2 8555 0120",
		},
	}
}
