// Package memory provides the authoritative in-memory implementation of
// the core persistence store. State is scoped to one process lifetime;
// snapshotting backends wrap this implementation for anything else.
package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"

	"wavecore/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Program aliases domain.Program for in-memory persistence operations.
	Program = domain.Program
	// Session aliases domain.Session.
	Session = domain.Session
	// SME aliases domain.SME.
	SME = domain.SME
	// VendorContact aliases domain.VendorContact.
	VendorContact = domain.VendorContact
	// AdminUser aliases domain.AdminUser.
	AdminUser = domain.AdminUser
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
)

type memoryState struct {
	programs map[string]Program
	// sessions holds one ordered partition per wave id. A partition may
	// exist without a program (created on demand by AddSession) but a
	// program always has a partition.
	sessions map[string][]Session
	smes     map[string]SME
	contacts map[string]VendorContact
	admins   map[string]AdminUser
}

// Snapshot captures a point-in-time clone of the store state.
type Snapshot struct {
	Programs map[string]Program       `json:"programs"`
	Sessions map[string][]Session     `json:"sessions"`
	SMEs     map[string]SME           `json:"smes"`
	Contacts map[string]VendorContact `json:"contacts"`
	Admins   map[string]AdminUser     `json:"admins"`
}

func newMemoryState() memoryState {
	return memoryState{
		programs: make(map[string]Program),
		sessions: make(map[string][]Session),
		smes:     make(map[string]SME),
		contacts: make(map[string]VendorContact),
		admins:   make(map[string]AdminUser),
	}
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	s := Snapshot{
		Programs: make(map[string]Program, len(state.programs)),
		Sessions: make(map[string][]Session, len(state.sessions)),
		SMEs:     make(map[string]SME, len(state.smes)),
		Contacts: make(map[string]VendorContact, len(state.contacts)),
		Admins:   make(map[string]AdminUser, len(state.admins)),
	}
	for k, v := range state.programs {
		s.Programs[k] = cloneProgram(v)
	}
	for k, v := range state.sessions {
		s.Sessions[k] = cloneSessionList(v)
	}
	for k, v := range state.smes {
		s.SMEs[k] = cloneSME(v)
	}
	for k, v := range state.contacts {
		s.Contacts[k] = cloneContact(v)
	}
	for k, v := range state.admins {
		s.Admins[k] = v
	}
	return s
}

func memoryStateFromSnapshot(s Snapshot) memoryState {
	state := newMemoryState()
	for k, v := range s.Programs {
		state.programs[k] = cloneProgram(v)
	}
	for k, v := range s.Sessions {
		state.sessions[k] = cloneSessionList(v)
	}
	for k, v := range s.SMEs {
		state.smes[k] = cloneSME(v)
	}
	for k, v := range s.Contacts {
		state.contacts[k] = cloneContact(v)
	}
	for k, v := range s.Admins {
		state.admins[k] = v
	}
	return state
}

// migrateSnapshot normalizes imported snapshots: nil buckets become
// empty, every program gains a session partition, and the owner admin
// account is restored if the snapshot lost it.
func migrateSnapshot(snapshot Snapshot) Snapshot {
	if snapshot.Programs == nil {
		snapshot.Programs = map[string]Program{}
	}
	if snapshot.Sessions == nil {
		snapshot.Sessions = map[string][]Session{}
	}
	if snapshot.SMEs == nil {
		snapshot.SMEs = map[string]SME{}
	}
	if snapshot.Contacts == nil {
		snapshot.Contacts = map[string]VendorContact{}
	}
	if snapshot.Admins == nil {
		snapshot.Admins = map[string]AdminUser{}
	}

	for id := range snapshot.Programs {
		if _, ok := snapshot.Sessions[id]; !ok {
			snapshot.Sessions[id] = nil
		}
	}

	if _, ok := snapshot.Admins[domain.OwnerAdminID]; !ok {
		snapshot.Admins[domain.OwnerAdminID] = ownerAdmin(time.Now().UTC())
	}

	return snapshot
}

func ownerAdmin(now time.Time) AdminUser {
	owner := AdminUser{
		Name:    "Admin",
		Email:   "admin@wavecore.local",
		Role:    domain.RoleAdmin,
		AddedAt: now,
	}
	owner.ID = domain.OwnerAdminID
	owner.CreatedAt = now
	owner.UpdatedAt = now
	return owner
}

func (s memoryState) clone() memoryState {
	cloned := newMemoryState()
	for k, v := range s.programs {
		cloned.programs[k] = cloneProgram(v)
	}
	for k, v := range s.sessions {
		cloned.sessions[k] = cloneSessionList(v)
	}
	for k, v := range s.smes {
		cloned.smes[k] = cloneSME(v)
	}
	for k, v := range s.contacts {
		cloned.contacts[k] = cloneContact(v)
	}
	for k, v := range s.admins {
		cloned.admins[k] = v
	}
	return cloned
}

func cloneProgram(p Program) Program {
	cp := p
	cp.Modules = append([]string(nil), p.Modules...)
	cp.SMEsInvolved = append([]string(nil), p.SMEsInvolved...)
	cp.DaysOfWeek = append([]string(nil), p.DaysOfWeek...)
	return cp
}

func cloneSession(s Session) Session {
	cp := s
	if s.Resources != nil {
		cp.Resources = append([]string(nil), s.Resources...)
	}
	return cp
}

func cloneSessionList(list []Session) []Session {
	if list == nil {
		return nil
	}
	out := make([]Session, len(list))
	for i, s := range list {
		out[i] = cloneSession(s)
	}
	return out
}

func cloneSME(s SME) SME {
	cp := s
	cp.Vendors = append([]string(nil), s.Vendors...)
	cp.Roles = append([]string(nil), s.Roles...)
	return cp
}

func cloneContact(c VendorContact) VendorContact { return c }

// Store provides an in-memory transactional store for the core domain.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules
// engine. The distinguished owner admin account is created up front so
// it exists at all times.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	nowFn := func() time.Time { return time.Now().UTC() }
	state := newMemoryState()
	owner := ownerAdmin(nowFn())
	state.admins[owner.ID] = owner
	return &Store{
		state:  state,
		engine: engine,
		nowFn:  nowFn,
	}
}

// SetClock overrides the store clock. Intended for tests.
func (s *Store) SetClock(now func() time.Time) {
	if now != nil {
		s.nowFn = now
	}
}

func newID(prefix string) string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return prefix + "-" + hex.EncodeToString(b[:])
}

// Transaction represents a mutation set applied to the store state.
type Transaction struct {
	store   *Store
	state   memoryState
	changes []Change
	now     time.Time
}

var _ domain.Transaction = (*Transaction)(nil)

// view exposes a read-only snapshot of state to rules and callers.
type view struct {
	state *memoryState
}

var _ domain.RuleView = view{}

// ListPrograms returns all programs in the snapshot, oldest first.
func (v view) ListPrograms() []Program {
	out := make([]Program, 0, len(v.state.programs))
	for _, p := range v.state.programs {
		out = append(out, cloneProgram(p))
	}
	sortByCreation(out, func(p Program) (time.Time, string) { return p.CreatedAt, p.ID })
	return out
}

// ListSessions returns every session across all wave partitions.
func (v view) ListSessions() []Session {
	waveIDs := make([]string, 0, len(v.state.sessions))
	for id := range v.state.sessions {
		waveIDs = append(waveIDs, id)
	}
	sort.Strings(waveIDs)
	var out []Session
	for _, id := range waveIDs {
		out = append(out, cloneSessionList(v.state.sessions[id])...)
	}
	return out
}

// ListSessionsForWave returns the ordered partition for a wave, or an
// empty sequence for an unknown id.
func (v view) ListSessionsForWave(waveID string) []Session {
	list := cloneSessionList(v.state.sessions[waveID])
	if list == nil {
		return []Session{}
	}
	return list
}

// ListSMEs returns all SMEs in the snapshot, oldest first.
func (v view) ListSMEs() []SME {
	out := make([]SME, 0, len(v.state.smes))
	for _, s := range v.state.smes {
		out = append(out, cloneSME(s))
	}
	sortByCreation(out, func(s SME) (time.Time, string) { return s.CreatedAt, s.ID })
	return out
}

// ListVendorContacts returns all vendor contacts, oldest first.
func (v view) ListVendorContacts() []VendorContact {
	out := make([]VendorContact, 0, len(v.state.contacts))
	for _, c := range v.state.contacts {
		out = append(out, cloneContact(c))
	}
	sortByCreation(out, func(c VendorContact) (time.Time, string) { return c.CreatedAt, c.ID })
	return out
}

// ListAdminUsers returns all admin accounts, oldest first.
func (v view) ListAdminUsers() []AdminUser {
	out := make([]AdminUser, 0, len(v.state.admins))
	for _, a := range v.state.admins {
		out = append(out, a)
	}
	sortByCreation(out, func(a AdminUser) (time.Time, string) { return a.CreatedAt, a.ID })
	return out
}

// FindProgram retrieves a program by id from the snapshot.
func (v view) FindProgram(id string) (Program, bool) {
	p, ok := v.state.programs[id]
	if !ok {
		return Program{}, false
	}
	return cloneProgram(p), true
}

// FindSession retrieves a session by globally unique id, searching all
// partitions.
func (v view) FindSession(id string) (Session, bool) {
	for _, list := range v.state.sessions {
		for _, s := range list {
			if s.ID == id {
				return cloneSession(s), true
			}
		}
	}
	return Session{}, false
}

// FindSME retrieves an SME by id from the snapshot.
func (v view) FindSME(id string) (SME, bool) {
	s, ok := v.state.smes[id]
	if !ok {
		return SME{}, false
	}
	return cloneSME(s), true
}

// FindVendorContact retrieves a vendor contact by id.
func (v view) FindVendorContact(id string) (VendorContact, bool) {
	c, ok := v.state.contacts[id]
	if !ok {
		return VendorContact{}, false
	}
	return cloneContact(c), true
}

// FindAdminUser retrieves an admin account by id.
func (v view) FindAdminUser(id string) (AdminUser, bool) {
	a, ok := v.state.admins[id]
	if !ok {
		return AdminUser{}, false
	}
	return a, true
}

func sortByCreation[T any](items []T, key func(T) (time.Time, string)) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if ti.Equal(tj) {
			return idi < idj
		}
		return ti.Before(tj)
	})
}

// RunInTransaction executes fn within a transactional copy of the store
// state. Registered rules evaluate against the candidate state; blocking
// violations roll the transaction back and surface as RuleViolationError.
func (s *Store) RunInTransaction(ctx context.Context, fn func(domain.Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		res, err := s.engine.Evaluate(ctx, view{state: &tx.state}, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(domain.RuleView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	return fn(view{state: &snapshot})
}

// Snapshot exposes the transactional state to rules and callers.
func (tx *Transaction) Snapshot() domain.RuleView {
	return view{state: &tx.state}
}

func (tx *Transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// AddProgram stores a new program and creates its empty session
// partition.
func (tx *Transaction) AddProgram(p Program) (Program, error) {
	if p.ID == "" {
		p.ID = newID("prog")
	}
	if _, exists := tx.state.programs[p.ID]; exists {
		return Program{}, fmt.Errorf("program %q already exists", p.ID)
	}
	p.CreatedAt = tx.now
	p.UpdatedAt = tx.now
	if p.Status == "" {
		p.Status = domain.ProgramUpcoming
	}
	tx.state.programs[p.ID] = cloneProgram(p)
	if _, ok := tx.state.sessions[p.ID]; !ok {
		tx.state.sessions[p.ID] = nil
	}
	tx.recordChange(Change{Entity: domain.EntityProgram, Action: domain.ActionCreate, After: cloneProgram(p)})
	return cloneProgram(p), nil
}

// UpdateProgram merges the patch into an existing program. Unknown ids
// are a silent no-op reported through found=false.
func (tx *Transaction) UpdateProgram(id string, patch domain.ProgramPatch) (Program, bool, error) {
	current, ok := tx.state.programs[id]
	if !ok {
		return Program{}, false, nil
	}
	before := cloneProgram(current)
	patch.Apply(&current)
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.programs[id] = cloneProgram(current)
	tx.recordChange(Change{Entity: domain.EntityProgram, Action: domain.ActionUpdate, Before: before, After: cloneProgram(current)})
	return cloneProgram(current), true, nil
}

// DeleteProgram removes a program and its entire session partition.
// Unknown ids are a no-op.
func (tx *Transaction) DeleteProgram(id string) (Program, bool) {
	current, ok := tx.state.programs[id]
	if !ok {
		return Program{}, false
	}
	delete(tx.state.programs, id)
	delete(tx.state.sessions, id)
	tx.recordChange(Change{Entity: domain.EntityProgram, Action: domain.ActionDelete, Before: cloneProgram(current)})
	return cloneProgram(current), true
}

// AddSession appends a session to its wave partition. An empty WaveID
// falls back to the caller-supplied active wave; a missing partition is
// created on demand.
func (tx *Transaction) AddSession(s Session, activeWaveID string) (Session, error) {
	if s.WaveID == "" {
		s.WaveID = activeWaveID
	}
	if s.ID == "" {
		s.ID = newID("sess")
	}
	if _, ok := tx.findSession(s.ID); ok {
		return Session{}, fmt.Errorf("session %q already exists", s.ID)
	}
	s.CreatedAt = tx.now
	s.UpdatedAt = tx.now
	if s.SME == "" {
		s.SME = domain.SMEUnassigned
	}
	tx.state.sessions[s.WaveID] = append(tx.state.sessions[s.WaveID], cloneSession(s))
	tx.recordChange(Change{Entity: domain.EntitySession, Action: domain.ActionCreate, After: cloneSession(s)})
	return cloneSession(s), nil
}

// UpdateSession merges the patch into the session wherever it lives;
// session ids are globally unique so all partitions are searched. A
// patched WaveID moves the session to the target partition.
func (tx *Transaction) UpdateSession(id string, patch domain.SessionPatch) (Session, bool, error) {
	waveID, idx, ok := tx.locateSession(id)
	if !ok {
		return Session{}, false, nil
	}
	current := tx.state.sessions[waveID][idx]
	before := cloneSession(current)
	patch.Apply(&current)
	current.ID = id
	current.UpdatedAt = tx.now
	if current.WaveID != waveID {
		tx.state.sessions[waveID] = append(tx.state.sessions[waveID][:idx], tx.state.sessions[waveID][idx+1:]...)
		tx.state.sessions[current.WaveID] = append(tx.state.sessions[current.WaveID], cloneSession(current))
	} else {
		tx.state.sessions[waveID][idx] = cloneSession(current)
	}
	tx.recordChange(Change{Entity: domain.EntitySession, Action: domain.ActionUpdate, Before: before, After: cloneSession(current)})
	return cloneSession(current), true, nil
}

// DeleteSession removes the session from whichever partition holds it.
// Unknown ids are a no-op.
func (tx *Transaction) DeleteSession(id string) (Session, bool) {
	waveID, idx, ok := tx.locateSession(id)
	if !ok {
		return Session{}, false
	}
	current := cloneSession(tx.state.sessions[waveID][idx])
	tx.state.sessions[waveID] = append(tx.state.sessions[waveID][:idx], tx.state.sessions[waveID][idx+1:]...)
	tx.recordChange(Change{Entity: domain.EntitySession, Action: domain.ActionDelete, Before: current})
	return current, true
}

func (tx *Transaction) findSession(id string) (Session, bool) {
	waveID, idx, ok := tx.locateSession(id)
	if !ok {
		return Session{}, false
	}
	return cloneSession(tx.state.sessions[waveID][idx]), true
}

func (tx *Transaction) locateSession(id string) (string, int, bool) {
	for waveID, list := range tx.state.sessions {
		for idx, s := range list {
			if s.ID == id {
				return waveID, idx, true
			}
		}
	}
	return "", 0, false
}

// AddSME stores a new SME record. No cascading effects: sessions and
// programs reference SMEs by free-text name only.
func (tx *Transaction) AddSME(s SME) (SME, error) {
	if s.ID == "" {
		s.ID = newID("sme")
	}
	if _, exists := tx.state.smes[s.ID]; exists {
		return SME{}, fmt.Errorf("sme %q already exists", s.ID)
	}
	s.CreatedAt = tx.now
	s.UpdatedAt = tx.now
	tx.state.smes[s.ID] = cloneSME(s)
	tx.recordChange(Change{Entity: domain.EntitySME, Action: domain.ActionCreate, After: cloneSME(s)})
	return cloneSME(s), nil
}

// UpdateSME merges the patch into an existing SME record.
func (tx *Transaction) UpdateSME(id string, patch domain.SMEPatch) (SME, bool, error) {
	current, ok := tx.state.smes[id]
	if !ok {
		return SME{}, false, nil
	}
	before := cloneSME(current)
	patch.Apply(&current)
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.smes[id] = cloneSME(current)
	tx.recordChange(Change{Entity: domain.EntitySME, Action: domain.ActionUpdate, Before: before, After: cloneSME(current)})
	return cloneSME(current), true, nil
}

// DeleteSME removes an SME record. Stale name references in sessions and
// programs are tolerated by design.
func (tx *Transaction) DeleteSME(id string) (SME, bool) {
	current, ok := tx.state.smes[id]
	if !ok {
		return SME{}, false
	}
	delete(tx.state.smes, id)
	tx.recordChange(Change{Entity: domain.EntitySME, Action: domain.ActionDelete, Before: cloneSME(current)})
	return cloneSME(current), true
}

// AddVendorContact stores a new vendor contact.
func (tx *Transaction) AddVendorContact(c VendorContact) (VendorContact, error) {
	if c.ID == "" {
		c.ID = newID("contact")
	}
	if _, exists := tx.state.contacts[c.ID]; exists {
		return VendorContact{}, fmt.Errorf("vendor contact %q already exists", c.ID)
	}
	c.CreatedAt = tx.now
	c.UpdatedAt = tx.now
	tx.state.contacts[c.ID] = cloneContact(c)
	tx.recordChange(Change{Entity: domain.EntityVendorContact, Action: domain.ActionCreate, After: cloneContact(c)})
	return cloneContact(c), nil
}

// UpdateVendorContact merges the patch into an existing contact.
func (tx *Transaction) UpdateVendorContact(id string, patch domain.VendorContactPatch) (VendorContact, bool, error) {
	current, ok := tx.state.contacts[id]
	if !ok {
		return VendorContact{}, false, nil
	}
	before := cloneContact(current)
	patch.Apply(&current)
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.contacts[id] = cloneContact(current)
	tx.recordChange(Change{Entity: domain.EntityVendorContact, Action: domain.ActionUpdate, Before: before, After: cloneContact(current)})
	return cloneContact(current), true, nil
}

// DeleteVendorContact removes a contact. Unknown ids are a no-op.
func (tx *Transaction) DeleteVendorContact(id string) (VendorContact, bool) {
	current, ok := tx.state.contacts[id]
	if !ok {
		return VendorContact{}, false
	}
	delete(tx.state.contacts, id)
	tx.recordChange(Change{Entity: domain.EntityVendorContact, Action: domain.ActionDelete, Before: cloneContact(current)})
	return cloneContact(current), true
}

// AddAdminUser stores a new admin account.
func (tx *Transaction) AddAdminUser(a AdminUser) (AdminUser, error) {
	if a.ID == "" {
		a.ID = newID("admin")
	}
	if _, exists := tx.state.admins[a.ID]; exists {
		return AdminUser{}, fmt.Errorf("admin user %q already exists", a.ID)
	}
	a.CreatedAt = tx.now
	a.UpdatedAt = tx.now
	if a.AddedAt.IsZero() {
		a.AddedAt = tx.now
	}
	if a.Role == "" {
		a.Role = domain.RoleViewer
	}
	tx.state.admins[a.ID] = a
	tx.recordChange(Change{Entity: domain.EntityAdminUser, Action: domain.ActionCreate, After: a})
	return a, nil
}

// RemoveAdminUser deletes a peer admin account. Removing the owner is
// rejected by the admin_owner_protection rule at commit time; the
// deletion is still recorded here so the rule can observe it.
func (tx *Transaction) RemoveAdminUser(id string) (AdminUser, bool) {
	current, ok := tx.state.admins[id]
	if !ok {
		return AdminUser{}, false
	}
	delete(tx.state.admins, id)
	tx.recordChange(Change{Entity: domain.EntityAdminUser, Action: domain.ActionDelete, Before: current})
	return current, true
}

// FindProgram retrieves a program from the transactional state.
func (tx *Transaction) FindProgram(id string) (Program, bool) {
	p, ok := tx.state.programs[id]
	if !ok {
		return Program{}, false
	}
	return cloneProgram(p), true
}

// FindSession retrieves a session from the transactional state.
func (tx *Transaction) FindSession(id string) (Session, bool) {
	return tx.findSession(id)
}

// Read helpers ---------------------------------------------------------------

// GetProgram retrieves a program by id from committed state.
func (s *Store) GetProgram(id string) (Program, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.state.programs[id]
	if !ok {
		return Program{}, false
	}
	return cloneProgram(p), true
}

// ListPrograms returns all programs from committed state, oldest first.
func (s *Store) ListPrograms() []Program {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view{state: &s.state}.ListPrograms()
}

// ListSessionsForWave returns the ordered session partition for a wave,
// or an empty sequence for an unknown id.
func (s *Store) ListSessionsForWave(waveID string) []Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view{state: &s.state}.ListSessionsForWave(waveID)
}

// ListSessions returns every session across all partitions.
func (s *Store) ListSessions() []Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view{state: &s.state}.ListSessions()
}

// GetSession retrieves a session by globally unique id.
func (s *Store) GetSession(id string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view{state: &s.state}.FindSession(id)
}

// ListSMEs returns all SME records.
func (s *Store) ListSMEs() []SME {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view{state: &s.state}.ListSMEs()
}

// ListVendorContacts returns all vendor contacts.
func (s *Store) ListVendorContacts() []VendorContact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view{state: &s.state}.ListVendorContacts()
}

// ListAdminUsers returns all admin accounts.
func (s *Store) ListAdminUsers() []AdminUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view{state: &s.state}.ListAdminUsers()
}

// ExportState captures a deep snapshot of the committed state.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(s.state)
}

// ImportState replaces the committed state with the migrated snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = memoryStateFromSnapshot(migrateSnapshot(snapshot))
}
