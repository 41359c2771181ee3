package core

import (
	"context"
	"fmt"

	"wavecore/pkg/domain"
)

// NewSessionWaveReferenceRule returns the warn-only rule that surfaces
// sessions whose wave id matches no program. Such sessions can appear
// when a session is added against a wave that was never created; the
// store tolerates them, so the rule reports without rejecting.
func NewSessionWaveReferenceRule() domain.Rule {
	return sessionWaveReferenceRule{}
}

type sessionWaveReferenceRule struct{}

func (sessionWaveReferenceRule) Name() string { return "session_wave_reference" }

func (sessionWaveReferenceRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, session := range view.ListSessions() {
		if _, ok := view.FindProgram(session.WaveID); ok {
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "session_wave_reference",
			Severity: domain.SeverityWarn,
			Message:  fmt.Sprintf("session %q (%s) references unknown wave %q", session.Training, session.ID, session.WaveID),
			Entity:   domain.EntitySession,
			EntityID: session.ID,
		})
	}
	return res, nil
}
