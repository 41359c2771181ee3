package core

import (
	"context"
	"fmt"

	"wavecore/pkg/domain"
)

var statusRank = map[domain.ProgramStatus]int{
	domain.ProgramUpcoming:  0,
	domain.ProgramActive:    1,
	domain.ProgramCompleted: 2,
}

// NewProgramStatusTransitionRule returns the log-only rule noting
// regressive status changes such as completed back to upcoming. The
// store permits any transition; this rule keeps a trace of the unusual
// ones without rejecting them.
func NewProgramStatusTransitionRule() domain.Rule {
	return programStatusTransitionRule{}
}

type programStatusTransitionRule struct{}

func (programStatusTransitionRule) Name() string { return "program_status_transition" }

func (programStatusTransitionRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		if change.Entity != domain.EntityProgram || change.Action != domain.ActionUpdate {
			continue
		}
		before, okB := change.Before.(domain.Program)
		after, okA := change.After.(domain.Program)
		if !okB || !okA {
			continue
		}
		if statusRank[after.Status] < statusRank[before.Status] {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "program_status_transition",
				Severity: domain.SeverityLog,
				Message:  fmt.Sprintf("wave %q moved backwards from %s to %s", after.WaveTitle, before.Status, after.Status),
				Entity:   domain.EntityProgram,
				EntityID: after.ID,
			})
		}
	}
	return res, nil
}
