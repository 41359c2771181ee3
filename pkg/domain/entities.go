// Package domain defines the core persistent entities, value types, and
// rule evaluation primitives used by wavecore.
package domain

import "time"

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityProgram identifies a training wave record.
	EntityProgram EntityType = "program"
	// EntitySession identifies a scheduled session record.
	EntitySession EntityType = "session"
	// EntitySME identifies a subject-matter-expert record.
	EntitySME EntityType = "sme"
	// EntityVendorContact identifies a vendor contact record.
	EntityVendorContact EntityType = "vendor_contact"
	// EntityAdminUser identifies a dashboard admin account record.
	EntityAdminUser EntityType = "admin_user"
)

// ProgramStatus represents the coarse lifecycle state of a training wave.
// Transitions are not validated: a completed wave may be flipped back to
// upcoming. The laxity is intentional and preserved from the source system.
type ProgramStatus string

// Canonical program statuses shown on the dashboard.
const (
	ProgramUpcoming  ProgramStatus = "upcoming"
	ProgramActive    ProgramStatus = "active"
	ProgramCompleted ProgramStatus = "completed"
)

// SessionType enumerates the delivery formats of a scheduled session.
type SessionType string

// Canonical session types used in schedule grids and type breakdowns.
const (
	SessionLive      SessionType = "live"
	SessionSelfStudy SessionType = "self-study"
	SessionUpskill   SessionType = "upskilling"
)

// SMESpace enumerates the object-space specializations of an SME.
type SMESpace string

// Canonical SME space designations.
const (
	SpaceSimple        SMESpace = "Simple Object"
	SpaceComplex       SMESpace = "Complex Object"
	SpaceSimpleComplex SMESpace = "Simple & Complex"
)

// AdminRole splits dashboard accounts into mutating and read-only users.
type AdminRole string

// Admin roles. Only RoleAdmin grants mutation standing.
const (
	RoleAdmin  AdminRole = "admin"
	RoleViewer AdminRole = "viewer"
)

// OwnerAdminID is the distinguished admin account that always exists and
// can never be removed.
const OwnerAdminID = "admin-1"

// SMEUnassigned is the sentinel SME name marking a session without an
// assigned expert. It is excluded from SME-counting queries.
const SMEUnassigned = "N/A"

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Base contains common fields for all domain records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Program represents a training wave: a named cohort with a date range
// and its own session schedule partition.
type Program struct {
	Base
	Name         string        `json:"name"`
	WaveTitle    string        `json:"wave_title"`
	Location     string        `json:"location"`
	StartDate    string        `json:"start_date"`
	EndDate      string        `json:"end_date"`
	Status       ProgramStatus `json:"status"`
	Description  string        `json:"description"`
	Modules      []string      `json:"modules"`
	SMEsInvolved []string      `json:"smes_involved"`
	DaysOfWeek   []string      `json:"days_of_week"`
}

// Session is one scheduled training slot within a wave. Day should match
// one of the owning program's DaysOfWeek for correct grid placement; the
// store does not enforce this. TimeStart/TimeEnd are free text in
// "H:MM AM/PM" form, parsed only for sort ordering.
type Session struct {
	Base
	Day       string      `json:"day"`
	Date      string      `json:"date"`
	TimeStart string      `json:"time_start"`
	TimeEnd   string      `json:"time_end"`
	Training  string      `json:"training"`
	SME       string      `json:"sme"`
	Type      SessionType `json:"type"`
	Resources []string    `json:"resources,omitempty"`
	WaveID    string      `json:"wave_id"`
}

// SME is a named trainer with roles and market specialization. Sessions
// and programs reference SMEs by free-text name, not by id; deleting an
// SME leaves those references in place.
type SME struct {
	Base
	Name      string   `json:"name"`
	Market    string   `json:"market"`
	Vendors   []string `json:"vendors"`
	Roles     []string `json:"roles"`
	PolicySME string   `json:"policy_sme"`
	Space     SMESpace `json:"space"`
	Location  string   `json:"location"`
}

// VendorContact is a point of contact at a vendor site.
type VendorContact struct {
	Base
	Name           string `json:"name"`
	Role           string `json:"role"`
	Vendor         string `json:"vendor"`
	Location       string `json:"location"`
	PrimaryContact string `json:"primary_contact"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
}

// AdminUser is a dashboard account. The owner record (OwnerAdminID) is
// exempt from removal.
type AdminUser struct {
	Base
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Role    AdminRole `json:"role"`
	AddedAt time.Time `json:"added_at"`
}

// ActivityEntry is one line of the append-only audit trail.
type ActivityEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations captured in the audit trail.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// Warnings returns the non-blocking violations, if any.
func (r Result) Warnings() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity != SeverityBlock {
			out = append(out, v)
		}
	}
	return out
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	for _, v := range e.Result.Violations {
		if v.Severity == SeverityBlock {
			return v.Message
		}
	}
	return "transaction blocked by rules"
}
