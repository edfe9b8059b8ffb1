package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/matonneli/bookstore-admin/internal/api"
	"github.com/matonneli/bookstore-admin/internal/logging"
)

// Status is the gate's view of the session.
type Status int

const (
	// StatusUnknown means no status check has resolved yet. Guarded views
	// render a neutral waiting state, never a redirect.
	StatusUnknown Status = iota
	// StatusAnonymous means the backend does not recognise the session.
	StatusAnonymous
	// StatusPending means primary credentials were accepted and a second
	// factor is outstanding. Pending is NOT authenticated.
	StatusPending
	// StatusAuthenticated means the backend confirmed the session.
	StatusAuthenticated
)

// ErrNoPendingLogin is returned when a second factor is submitted without a
// preceding credential step.
var ErrNoPendingLogin = errors.New("no login pending second-factor verification")

// Gate owns the authentication state. All transitions go through its methods
// so that the forced-logout path and the user-initiated one behave the same.
type Gate struct {
	mu          sync.Mutex
	backend     api.Backend
	clock       *Clock
	status      Status
	pendingUser string
	profile     *api.Profile
}

// NewGate builds a Gate in the unknown state.
func NewGate(backend api.Backend, clock *Clock) *Gate {
	return &Gate{backend: backend, clock: clock}
}

// CheckStatus asks the backend whether the session is valid and, when it is,
// fetches the profile. Safe to call repeatedly; each call replaces the state
// wholesale. A failed profile fetch keeps the authenticated flag: the profile
// lags one check, it does not gate authentication.
func (g *Gate) CheckStatus(ctx context.Context) error {
	status, err := g.backend.AuthStatus(ctx)
	if err != nil {
		g.setAnonymous()
		return fmt.Errorf("auth status check: %w", err)
	}
	if !status.Authenticated {
		g.setAnonymous()
		return nil
	}

	profile, err := g.backend.FetchProfile(ctx)
	if err != nil {
		logger := logging.Get()
		logger.Warn().Err(err).Msg("profile fetch failed, keeping session")
		profile = nil
	}

	g.mu.Lock()
	g.status = StatusAuthenticated
	g.profile = profile
	g.pendingUser = ""
	g.mu.Unlock()
	return nil
}

// BeginLogin submits the primary credentials. On success the gate enters the
// pending state and remembers the username for the second factor.
func (g *Gate) BeginLogin(ctx context.Context, username, password string) error {
	if err := g.backend.Login(ctx, username, password); err != nil {
		return err
	}
	g.mu.Lock()
	g.status = StatusPending
	g.pendingUser = username
	g.profile = nil
	g.mu.Unlock()
	return nil
}

// VerifyCode submits the second-factor code for the pending login. It does
// not flip the gate to authenticated by itself; callers follow up with
// CheckStatus, which is the single source of the authenticated flag.
func (g *Gate) VerifyCode(ctx context.Context, code string) error {
	g.mu.Lock()
	username := g.pendingUser
	g.mu.Unlock()
	if username == "" {
		return ErrNoPendingLogin
	}
	return g.backend.VerifyCode(ctx, username, code)
}

// Logout notifies the backend best-effort, clears persisted session state and
// resets the gate. A failed backend call never blocks local cleanup, so the
// idle-expiry path and the explicit user action are interchangeable.
func (g *Gate) Logout(ctx context.Context) {
	if err := g.backend.Logout(ctx); err != nil {
		logger := logging.Get()
		logger.Warn().Err(err).Msg("logout request failed, continuing local cleanup")
	}

	g.clock.Reset()

	g.mu.Lock()
	g.status = StatusAnonymous
	g.profile = nil
	g.pendingUser = ""
	g.mu.Unlock()

	logger := logging.Get()
	logger.Info().Msg("session ended")
}

// Status returns the current gate state.
func (g *Gate) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// Authenticated reports whether the backend has confirmed the session.
func (g *Gate) Authenticated() bool {
	return g.Status() == StatusAuthenticated
}

// Profile returns the last fetched account snapshot, nil when none.
func (g *Gate) Profile() *api.Profile {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.profile
}

func (g *Gate) setAnonymous() {
	g.mu.Lock()
	g.status = StatusAnonymous
	g.profile = nil
	g.mu.Unlock()
}
