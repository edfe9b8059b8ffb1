package session

import (
	"context"
	"sync"
	"time"

	"github.com/matonneli/bookstore-admin/internal/logging"
)

const defaultExpiryPoll = time.Second

// ExpiryWatcher enforces the idle limit. Each tick re-reads the shared
// activity file (adopting touches from other instances) and fires the expiry
// callback when the remaining time hits zero while authenticated.
//
// The callback fires exactly once per authenticated session even when ticks
// overlap; Rearm re-enables it after the next login.
type ExpiryWatcher struct {
	clock         *Clock
	authenticated func() bool
	onExpire      func()

	mu    sync.Mutex
	fired bool
}

// NewExpiryWatcher wires the watcher to a clock, an authenticated predicate
// and the forced-logout callback.
func NewExpiryWatcher(clock *Clock, authenticated func() bool, onExpire func()) *ExpiryWatcher {
	return &ExpiryWatcher{
		clock:         clock,
		authenticated: authenticated,
		onExpire:      onExpire,
	}
}

// Tick performs one enforcement pass. Exposed so the poll loop and tests
// share the same path.
func (w *ExpiryWatcher) Tick() {
	w.clock.Reload()

	if w.clock.Remaining() > 0 || !w.authenticated() {
		return
	}

	w.mu.Lock()
	if w.fired {
		w.mu.Unlock()
		return
	}
	w.fired = true
	w.mu.Unlock()

	logger := logging.Get()
	logger.Info().Msg("idle limit reached, forcing logout")
	w.onExpire()
}

// Rearm re-enables the expiry callback. Called after a successful login.
func (w *ExpiryWatcher) Rearm() {
	w.mu.Lock()
	w.fired = false
	w.mu.Unlock()
}

// Start launches a background goroutine that ticks at a fixed cadence until
// the context is cancelled. It returns immediately. The enforcement slack is
// bounded by the interval.
func (w *ExpiryWatcher) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultExpiryPoll
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			w.Tick()
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}
