package core

import "wavecore/pkg/domain"

// NewDefaultRulesEngine builds a rules engine with the built-in policy
// set. Only owner protection blocks; the reference and transition rules
// report without rejecting, preserving the store's total-mutation
// contract.
func NewDefaultRulesEngine() *RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(NewAdminOwnerProtectionRule())
	engine.Register(NewSessionWaveReferenceRule())
	engine.Register(NewProgramStatusTransitionRule())
	return engine
}
