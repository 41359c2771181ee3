package core

import "wavecore/pkg/domain"

type (
	EntityType         = domain.EntityType
	ProgramStatus      = domain.ProgramStatus
	SessionType        = domain.SessionType
	SMESpace           = domain.SMESpace
	AdminRole          = domain.AdminRole
	Severity           = domain.Severity
	Base               = domain.Base
	Program            = domain.Program
	Session            = domain.Session
	SME                = domain.SME
	VendorContact      = domain.VendorContact
	AdminUser          = domain.AdminUser
	ActivityEntry      = domain.ActivityEntry
	ProgramPatch       = domain.ProgramPatch
	SessionPatch       = domain.SessionPatch
	SMEPatch           = domain.SMEPatch
	VendorContactPatch = domain.VendorContactPatch
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	RulesEngine        = domain.RulesEngine
	RuleViolationError = domain.RuleViolationError
)

const (
	EntityProgram       = domain.EntityProgram
	EntitySession       = domain.EntitySession
	EntitySME           = domain.EntitySME
	EntityVendorContact = domain.EntityVendorContact
	EntityAdminUser     = domain.EntityAdminUser
)

const (
	ProgramUpcoming  = domain.ProgramUpcoming
	ProgramActive    = domain.ProgramActive
	ProgramCompleted = domain.ProgramCompleted
)

const (
	SessionLive      = domain.SessionLive
	SessionSelfStudy = domain.SessionSelfStudy
	SessionUpskill   = domain.SessionUpskill
)

const (
	RoleAdmin  = domain.RoleAdmin
	RoleViewer = domain.RoleViewer
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
	ActionDelete = domain.ActionDelete
)

// OwnerAdminID re-exports the protected owner account id.
const OwnerAdminID = domain.OwnerAdminID

// SMEUnassigned re-exports the unassigned-SME sentinel.
const SMEUnassigned = domain.SMEUnassigned
