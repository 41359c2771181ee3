package core

import (
	"errors"
	"sync"

	"wavecore/pkg/domain"
)

// ErrUnauthorized is returned when a mutation is attempted without
// admin standing. It is a rejection, never a crash: no state changes.
var ErrUnauthorized = errors.New("admin access required")

// DefaultAdminSecret is the shared admin password used when no secret
// is configured. Deployments override it via WAVECORE_ADMIN_SECRET.
const DefaultAdminSecret = "admin123"

// Principal is an externally authenticated identity consumed by the
// gate. The gate never interprets tokens or redirect flows; it only
// reads the role claim.
type Principal struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  AdminRole `json:"role"`
}

// IdentityProvider is the external authentication collaborator. Login
// returns a redirect URL for the provider's flow; CurrentPrincipal
// reports the authenticated identity, if any.
type IdentityProvider interface {
	Login() string
	CurrentPrincipal() (Principal, bool)
	Logout()
}

// Gate decides whether the caller may invoke mutating store operations.
// Two mechanisms coexist: a shared-secret admin mode that binds the
// caller to the owner admin account, and an external identity whose
// role claim may grant admin standing. The gate is scoped to one
// interactive session.
type Gate struct {
	mu       sync.Mutex
	secret   string
	provider IdentityProvider
	store    domain.PersistentStore

	localAdmin bool
	principal  *Principal
	epoch      uint64
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithIdentityProvider attaches an external identity provider.
func WithIdentityProvider(provider IdentityProvider) GateOption {
	return func(g *Gate) { g.provider = provider }
}

// WithAdminSecret overrides the shared admin password.
func WithAdminSecret(secret string) GateOption {
	return func(g *Gate) {
		if secret != "" {
			g.secret = secret
		}
	}
}

// NewGate constructs a gate over the given store. The store is used
// only to bind the owner admin record on shared-secret login.
func NewGate(store domain.PersistentStore, opts ...GateOption) *Gate {
	g := &Gate{secret: DefaultAdminSecret, store: store}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Login attempts shared-secret admin mode. An exact match flips the
// session-scoped admin flag and binds the caller to the owner admin
// account; anything else leaves state unchanged and reports failure.
func (g *Gate) Login(password string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if password != g.secret {
		return false
	}
	g.localAdmin = true
	owner := Principal{Name: "Admin", Role: domain.RoleAdmin}
	if g.store != nil {
		for _, admin := range g.store.ListAdminUsers() {
			if admin.ID == domain.OwnerAdminID {
				owner.Name = admin.Name
				owner.Email = admin.Email
				break
			}
		}
	}
	g.principal = &owner
	return true
}

// Logout clears the local admin flag, invalidates all issued
// capabilities, and revokes any external session artifact. Safe to call
// when not logged in.
func (g *Gate) Logout() {
	g.mu.Lock()
	g.localAdmin = false
	g.principal = nil
	g.epoch++
	provider := g.provider
	g.mu.Unlock()
	if provider != nil {
		provider.Logout()
	}
}

// IsAdmin reports whether the caller currently has admin standing via
// either mechanism.
func (g *Gate) IsAdmin() bool {
	g.mu.Lock()
	local := g.localAdmin
	provider := g.provider
	g.mu.Unlock()
	if local {
		return true
	}
	if provider != nil {
		if principal, ok := provider.CurrentPrincipal(); ok {
			return principal.Role == domain.RoleAdmin
		}
	}
	return false
}

// CurrentPrincipal returns the bound identity: the owner account in
// shared-secret mode, otherwise whatever the external provider reports.
func (g *Gate) CurrentPrincipal() (Principal, bool) {
	g.mu.Lock()
	principal := g.principal
	provider := g.provider
	g.mu.Unlock()
	if principal != nil {
		return *principal, true
	}
	if provider != nil {
		return provider.CurrentPrincipal()
	}
	return Principal{}, false
}

// LoginURL returns the external provider's redirect URL, or empty when
// no provider is configured.
func (g *Gate) LoginURL() string {
	g.mu.Lock()
	provider := g.provider
	g.mu.Unlock()
	if provider == nil {
		return ""
	}
	return provider.Login()
}

// Capability is proof of admin standing at issue time. The zero value
// is invalid, and logout invalidates every previously issued token, so
// store mutations cannot outlive the session that authorized them.
type Capability struct {
	gate  *Gate
	epoch uint64
}

// Capability issues a mutation token, or ErrUnauthorized when the
// caller has no admin standing.
func (g *Gate) Capability() (Capability, error) {
	if !g.IsAdmin() {
		return Capability{}, ErrUnauthorized
	}
	g.mu.Lock()
	epoch := g.epoch
	g.mu.Unlock()
	return Capability{gate: g, epoch: epoch}, nil
}

func (c Capability) valid() bool {
	if c.gate == nil {
		return false
	}
	c.gate.mu.Lock()
	live := c.epoch == c.gate.epoch
	c.gate.mu.Unlock()
	return live && c.gate.IsAdmin()
}
