package core

import (
	"context"
	"fmt"

	"wavecore/pkg/domain"
)

// NewAdminOwnerProtectionRule returns the blocking rule that keeps the
// distinguished owner account alive through every transaction.
func NewAdminOwnerProtectionRule() domain.Rule {
	return adminOwnerProtectionRule{}
}

type adminOwnerProtectionRule struct{}

func (adminOwnerProtectionRule) Name() string { return "admin_owner_protection" }

func (adminOwnerProtectionRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	if _, ok := view.FindAdminUser(domain.OwnerAdminID); !ok {
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "admin_owner_protection",
			Severity: domain.SeverityBlock,
			Message:  fmt.Sprintf("the owner admin account (%s) cannot be removed", domain.OwnerAdminID),
			Entity:   domain.EntityAdminUser,
			EntityID: domain.OwnerAdminID,
		})
	}
	return res, nil
}
