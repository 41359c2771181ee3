package domain

import "context"

// Transaction exposes the domain operations that a persistence
// implementation must support within an atomic scope. Update operations
// return found=false (and no error) for unknown ids; deletes of unknown
// ids are silent no-ops. Both behaviors are part of the contract, not
// an error condition.
type Transaction interface {
	Snapshot() RuleView
	AddProgram(Program) (Program, error)
	UpdateProgram(id string, patch ProgramPatch) (Program, bool, error)
	DeleteProgram(id string) (Program, bool)
	AddSession(s Session, activeWaveID string) (Session, error)
	UpdateSession(id string, patch SessionPatch) (Session, bool, error)
	DeleteSession(id string) (Session, bool)
	AddSME(SME) (SME, error)
	UpdateSME(id string, patch SMEPatch) (SME, bool, error)
	DeleteSME(id string) (SME, bool)
	AddVendorContact(VendorContact) (VendorContact, error)
	UpdateVendorContact(id string, patch VendorContactPatch) (VendorContact, bool, error)
	DeleteVendorContact(id string) (VendorContact, bool)
	AddAdminUser(AdminUser) (AdminUser, error)
	RemoveAdminUser(id string) (AdminUser, bool)
	FindProgram(id string) (Program, bool)
	FindSession(id string) (Session, bool)
}

// PersistentStore is a minimal abstraction over storage backends. It
// mirrors the subset of store capabilities used directly by higher
// layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(RuleView) error) error
	GetProgram(id string) (Program, bool)
	ListPrograms() []Program
	ListSessionsForWave(waveID string) []Session
	ListSessions() []Session
	GetSession(id string) (Session, bool)
	ListSMEs() []SME
	ListVendorContacts() []VendorContact
	ListAdminUsers() []AdminUser
}
