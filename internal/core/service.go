package core

import (
	"context"
	"fmt"
	"time"

	"wavecore/internal/blob"
	"wavecore/pkg/domain"
)

// Service exposes the gated, audited CRUD surface over the persistent
// store. Every mutation requires a Capability issued by the Gate, runs
// in a store transaction, and produces exactly one activity entry when
// it changes state. Reads are always served fresh from the store.
type Service struct {
	store     domain.PersistentStore
	resources blob.Store
	activity  *ActivityLog
	logger    Logger
	metrics   MetricsRecorder
	tracer    Tracer
}

// ServiceOption configures optional service collaborators.
type ServiceOption func(*Service)

// WithLogger attaches a structured logger.
func WithLogger(logger Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsRecorder attaches a metrics recorder.
func WithMetricsRecorder(rec MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if rec != nil {
			s.metrics = rec
		}
	}
}

// WithTracer attaches a tracer.
func WithTracer(tracer Tracer) ServiceOption {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithActivityLog substitutes the audit trail, mainly for tests that
// need a shared or pre-seeded log.
func WithActivityLog(log *ActivityLog) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.activity = log
		}
	}
}

// WithResourceStore attaches a blob backend for session materials.
func WithResourceStore(store blob.Store) ServiceOption {
	return func(s *Service) {
		if store != nil {
			s.resources = store
		}
	}
}

// NewService constructs a service backed by the supplied store.
func NewService(store domain.PersistentStore, opts ...ServiceOption) *Service {
	s := &Service{
		store:    store,
		activity: NewActivityLog(),
		logger:   noopLogger{},
		metrics:  noopMetrics{},
		tracer:   noopTracer{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying storage implementation.
func (s *Service) Store() domain.PersistentStore { return s.store }

// Activity returns the audit trail.
func (s *Service) Activity() *ActivityLog { return s.activity }

// RecentActivity returns up to n audit entries, newest first.
func (s *Service) RecentActivity(n int) []ActivityEntry {
	return s.activity.Recent(n)
}

func (s *Service) instrument(ctx context.Context, op string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, op)
	return ctx, func(err error) {
		span.End(err)
		s.metrics.Observe(ctx, op, err == nil, time.Since(start))
	}
}

func (s *Service) authorize(cap Capability, op string) error {
	if cap.valid() {
		return nil
	}
	s.logger.Warn("mutation rejected", "operation", op, "reason", "unauthorized")
	return ErrUnauthorized
}

func (s *Service) actor(cap Capability) string {
	if cap.gate == nil {
		return ""
	}
	if principal, ok := cap.gate.CurrentPrincipal(); ok {
		return principal.Name
	}
	return ""
}

func (s *Service) logWarnings(op string, res Result) {
	for _, v := range res.Warnings() {
		s.logger.Warn("rule violation", "operation", op, "rule", v.Rule, "severity", string(v.Severity), "message", v.Message)
	}
}

// Programs --------------------------------------------------------------------

// ListPrograms returns all waves, oldest first.
func (s *Service) ListPrograms() []Program { return s.store.ListPrograms() }

// GetProgram retrieves a wave by id.
func (s *Service) GetProgram(id string) (Program, bool) { return s.store.GetProgram(id) }

// AddProgram creates a wave and its empty session partition.
func (s *Service) AddProgram(ctx context.Context, cap Capability, p Program) (Program, Result, error) {
	op := "add_program"
	ctx, done := s.instrument(ctx, op)
	var err error
	defer func() { done(err) }()

	if err = s.authorize(cap, op); err != nil {
		return Program{}, Result{}, err
	}
	var created Program
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var txErr error
		created, txErr = tx.AddProgram(p)
		return txErr
	})
	if err != nil {
		return Program{}, res, err
	}
	s.logWarnings(op, res)
	s.activity.Record("Added wave", fmt.Sprintf("%s (%s)", created.WaveTitle, created.ID), s.actor(cap))
	s.logger.Info("wave added", "id", created.ID, "wave", created.WaveTitle)
	return created, res, nil
}

// UpdateProgram merges a patch into a wave. Unknown ids are silent
// no-ops reported through found=false.
func (s *Service) UpdateProgram(ctx context.Context, cap Capability, id string, patch ProgramPatch) (Program, bool, Result, error) {
	op := "update_program"
	ctx, done := s.instrument(ctx, op)
	var err error
	defer func() { done(err) }()

	if err = s.authorize(cap, op); err != nil {
		return Program{}, false, Result{}, err
	}
	var (
		updated Program
		found   bool
	)
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var txErr error
		updated, found, txErr = tx.UpdateProgram(id, patch)
		return txErr
	})
	if err != nil || !found {
		return Program{}, found, res, err
	}
	s.logWarnings(op, res)
	s.activity.Record("Updated wave", fmt.Sprintf("%s (%s)", updated.WaveTitle, updated.ID), s.actor(cap))
	return updated, true, res, nil
}

// DeleteProgram removes a wave and cascades its session partition away.
// Deleting an unknown id is a no-op. Callers holding an "active wave"
// pointer to the deleted id must reset it themselves.
func (s *Service) DeleteProgram(ctx context.Context, cap Capability, id string) (bool, Result, error) {
	op := "delete_program"
	ctx, done := s.instrument(ctx, op)
	var err error
	defer func() { done(err) }()

	if err = s.authorize(cap, op); err != nil {
		return false, Result{}, err
	}
	var (
		deleted Program
		found   bool
	)
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		deleted, found = tx.DeleteProgram(id)
		return nil
	})
	if err != nil || !found {
		return found, res, err
	}
	s.logWarnings(op, res)
	s.activity.Record("Deleted wave", fmt.Sprintf("%s (%s) and its schedule", deleted.WaveTitle, deleted.ID), s.actor(cap))
	s.logger.Info("wave deleted", "id", id, "wave", deleted.WaveTitle)
	return true, res, nil
}

// Sessions --------------------------------------------------------------------

// SessionsForWave returns the ordered schedule partition for a wave; an
// unknown id yields an empty sequence, never an error.
func (s *Service) SessionsForWave(waveID string) []Session {
	return s.store.ListSessionsForWave(waveID)
}

// GetSession retrieves a session by globally unique id.
func (s *Service) GetSession(id string) (Session, bool) { return s.store.GetSession(id) }

// AddSession schedules a session. An empty WaveID falls back to
// activeWaveID, the caller's current wave selection; the partition is
// created on demand when missing.
func (s *Service) AddSession(ctx context.Context, cap Capability, session Session, activeWaveID string) (Session, Result, error) {
	op := "add_session"
	ctx, done := s.instrument(ctx, op)
	var err error
	defer func() { done(err) }()

	if err = s.authorize(cap, op); err != nil {
		return Session{}, Result{}, err
	}
	var created Session
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var txErr error
		created, txErr = tx.AddSession(session, activeWaveID)
		return txErr
	})
	if err != nil {
		return Session{}, res, err
	}
	s.logWarnings(op, res)
	s.activity.Record("Added session", fmt.Sprintf("%s on %s (%s)", created.Training, created.Day, created.ID), s.actor(cap))
	return created, res, nil
}

// UpdateSession merges a patch into a session wherever it lives.
func (s *Service) UpdateSession(ctx context.Context, cap Capability, id string, patch SessionPatch) (Session, bool, Result, error) {
	op := "update_session"
	ctx, done := s.instrument(ctx, op)
	var err error
	defer func() { done(err) }()

	if err = s.authorize(cap, op); err != nil {
		return Session{}, false, Result{}, err
	}
	var (
		updated Session
		found   bool
	)
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var txErr error
		updated, found, txErr = tx.UpdateSession(id, patch)
		return txErr
	})
	if err != nil || !found {
		return Session{}, found, res, err
	}
	s.logWarnings(op, res)
	s.activity.Record("Updated session", fmt.Sprintf("%s (%s)", updated.Training, updated.ID), s.actor(cap))
	return updated, true, res, nil
}

// DeleteSession removes a session from whichever partition holds it.
func (s *Service) DeleteSession(ctx context.Context, cap Capability, id string) (bool, Result, error) {
	op := "delete_session"
	ctx, done := s.instrument(ctx, op)
	var err error
	defer func() { done(err) }()

	if err = s.authorize(cap, op); err != nil {
		return false, Result{}, err
	}
	var (
		deleted Session
		found   bool
	)
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		deleted, found = tx.DeleteSession(id)
		return nil
	})
	if err != nil || !found {
		return found, res, err
	}
	s.logWarnings(op, res)
	s.activity.Record("Deleted session", fmt.Sprintf("%s (%s)", deleted.Training, deleted.ID), s.actor(cap))
	return true, res, nil
}

// SMEs ------------------------------------------------------------------------

// ListSMEs returns the SME directory.
func (s *Service) ListSMEs() []SME { return s.store.ListSMEs() }

// AddSME creates an SME record.
func (s *Service) AddSME(ctx context.Context, cap Capability, sme SME) (SME, Result, error) {
	op := "add_sme"
	ctx, done := s.instrument(ctx, op)
	var err error
	defer func() { done(err) }()

	if err = s.authorize(cap, op); err != nil {
		return SME{}, Result{}, err
	}
	var created SME
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var txErr error
		created, txErr = tx.AddSME(sme)
		return txErr
	})
	if err != nil {
		return SME{}, res, err
	}
	s.logWarnings(op, res)
	s.activity.Record("Added SME", fmt.Sprintf("%s (%s)", created.Name, created.ID), s.actor(cap))
	return created, res, nil
}

// UpdateSME merges a patch into an SME record.
func (s *Service) UpdateSME(ctx context.Context, cap Capability, id string, patch SMEPatch) (SME, bool, Result, error) {
	op := "update_sme"
	ctx, done := s.instrument(ctx, op)
	var err error
	defer func() { done(err) }()

	if err = s.authorize(cap, op); err != nil {
		return SME{}, false, Result{}, err
	}
	var (
		updated SME
		found   bool
	)
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var txErr error
		updated, found, txErr = tx.UpdateSME(id, patch)
		return txErr
	})
	if err != nil || !found {
		return SME{}, found, res, err
	}
	s.logWarnings(op, res)
	s.activity.Record("Updated SME", fmt.Sprintf("%s (%s)", updated.Name, updated.ID), s.actor(cap))
	return updated, true, res, nil
}

// DeleteSME removes an SME record. Free-text name references elsewhere
// are left in place by design.
func (s *Service) DeleteSME(ctx context.Context, cap Capability, id string) (bool, Result, error) {
	op := "delete_sme"
	ctx, done := s.instrument(ctx, op)
	var err error
	defer func() { done(err) }()

	if err = s.authorize(cap, op); err != nil {
		return false, Result{}, err
	}
	var (
		deleted SME
		found   bool
	)
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		deleted, found = tx.DeleteSME(id)
		return nil
	})
	if err != nil || !found {
		return found, res, err
	}
	s.logWarnings(op, res)
	s.activity.Record("Deleted SME", fmt.Sprintf("%s (%s)", deleted.Name, deleted.ID), s.actor(cap))
	return true, res, nil
}

// Vendor contacts -------------------------------------------------------------

// ListVendorContacts returns the vendor contact directory.
func (s *Service) ListVendorContacts() []VendorContact { return s.store.ListVendorContacts() }

// AddVendorContact creates a vendor contact.
func (s *Service) AddVendorContact(ctx context.Context, cap Capability, contact VendorContact) (VendorContact, Result, error) {
	op := "add_vendor_contact"
	ctx, done := s.instrument(ctx, op)
	var err error
	defer func() { done(err) }()

	if err = s.authorize(cap, op); err != nil {
		return VendorContact{}, Result{}, err
	}
	var created VendorContact
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var txErr error
		created, txErr = tx.AddVendorContact(contact)
		return txErr
	})
	if err != nil {
		return VendorContact{}, res, err
	}
	s.logWarnings(op, res)
	s.activity.Record("Added contact", fmt.Sprintf("%s at %s (%s)", created.Name, created.Vendor, created.ID), s.actor(cap))
	return created, res, nil
}

// UpdateVendorContact merges a patch into a vendor contact.
func (s *Service) UpdateVendorContact(ctx context.Context, cap Capability, id string, patch VendorContactPatch) (VendorContact, bool, Result, error) {
	op := "update_vendor_contact"
	ctx, done := s.instrument(ctx, op)
	var err error
	defer func() { done(err) }()

	if err = s.authorize(cap, op); err != nil {
		return VendorContact{}, false, Result{}, err
	}
	var (
		updated VendorContact
		found   bool
	)
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var txErr error
		updated, found, txErr = tx.UpdateVendorContact(id, patch)
		return txErr
	})
	if err != nil || !found {
		return VendorContact{}, found, res, err
	}
	s.logWarnings(op, res)
	s.activity.Record("Updated contact", fmt.Sprintf("%s (%s)", updated.Name, updated.ID), s.actor(cap))
	return updated, true, res, nil
}

// DeleteVendorContact removes a vendor contact.
func (s *Service) DeleteVendorContact(ctx context.Context, cap Capability, id string) (bool, Result, error) {
	op := "delete_vendor_contact"
	ctx, done := s.instrument(ctx, op)
	var err error
	defer func() { done(err) }()

	if err = s.authorize(cap, op); err != nil {
		return false, Result{}, err
	}
	var (
		deleted VendorContact
		found   bool
	)
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		deleted, found = tx.DeleteVendorContact(id)
		return nil
	})
	if err != nil || !found {
		return found, res, err
	}
	s.logWarnings(op, res)
	s.activity.Record("Deleted contact", fmt.Sprintf("%s (%s)", deleted.Name, deleted.ID), s.actor(cap))
	return true, res, nil
}

// Admin accounts --------------------------------------------------------------

// ListAdminUsers returns all dashboard accounts.
func (s *Service) ListAdminUsers() []AdminUser { return s.store.ListAdminUsers() }

// AddAdminUser creates a dashboard account.
func (s *Service) AddAdminUser(ctx context.Context, cap Capability, admin AdminUser) (AdminUser, Result, error) {
	op := "add_admin_user"
	ctx, done := s.instrument(ctx, op)
	var err error
	defer func() { done(err) }()

	if err = s.authorize(cap, op); err != nil {
		return AdminUser{}, Result{}, err
	}
	var created AdminUser
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var txErr error
		created, txErr = tx.AddAdminUser(admin)
		return txErr
	})
	if err != nil {
		return AdminUser{}, res, err
	}
	s.logWarnings(op, res)
	s.activity.Record("Added user", fmt.Sprintf("%s as %s (%s)", created.Name, created.Role, created.ID), s.actor(cap))
	return created, res, nil
}

// RemoveAdminUser deletes a peer account. Removing the owner is
// rejected by the admin_owner_protection rule; the store is left
// untouched and the rule's message surfaces to the caller.
func (s *Service) RemoveAdminUser(ctx context.Context, cap Capability, id string) (bool, Result, error) {
	op := "remove_admin_user"
	ctx, done := s.instrument(ctx, op)
	var err error
	defer func() { done(err) }()

	if err = s.authorize(cap, op); err != nil {
		return false, Result{}, err
	}
	var (
		removed AdminUser
		found   bool
	)
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		removed, found = tx.RemoveAdminUser(id)
		return nil
	})
	if err != nil || !found {
		return found && err == nil, res, err
	}
	s.logWarnings(op, res)
	s.activity.Record("Removed user", fmt.Sprintf("%s (%s)", removed.Name, removed.ID), s.actor(cap))
	return true, res, nil
}
